package controller

import (
	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/service/message_service"
	"snapnova/service/user_service"

	"github.com/gin-gonic/gin"
)

// UploadSnap godoc
// @Summary 上传阅后即焚快照
// @Tags Snap API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UploadSnapReq true "接收者与媒体"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "缺少媒体"
// @Router /api/snaps/upload [post]
func UploadSnap(c *gin.Context) {
	var req request.UploadSnapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "receiverId is required")
		return
	}
	senderID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	receiverID, err := user_service.ParseID(req.ReceiverID)
	if err != nil {
		respond.Err(c, err)
		return
	}

	snap, err := message_service.UploadSnap(c.Request.Context(), senderID, message_service.SendInput{
		ReceiverID:   receiverID,
		MediaData:    req.MediaData,
		MediaType:    req.MediaType,
		SnapDuration: req.SnapDuration,
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.Created(c, gin.H{"snap": snap})
}

// GetSnap godoc
// @Summary 查看快照（接收者首开启动倒计时）
// @Tags Snap API
// @Produce json
// @Security BearerAuth
// @Param id path string true "快照ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "不存在或已过期清理"
// @Router /api/snaps/{id} [get]
func GetSnap(c *gin.Context) {
	viewerID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	id, err := user_service.ParseID(c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	snap, err := message_service.GetSnap(c.Request.Context(), viewerID, id)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"snap": snap})
}

// DeleteSnap godoc
// @Summary 删除快照
// @Tags Snap API
// @Produce json
// @Security BearerAuth
// @Param id path string true "快照ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/snaps/{id} [delete]
func DeleteSnap(c *gin.Context) {
	id, err := user_service.ParseID(c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := message_service.DeleteSnap(c.Request.Context(), id); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Snap deleted"})
}
