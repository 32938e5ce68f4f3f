package controller

import (
	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/service/contact_service"
	"snapnova/service/user_service"

	"github.com/gin-gonic/gin"
)

// SendContactRequest godoc
// @Summary 发起好友请求
// @Tags Contact API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ContactTargetReq true "目标用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "自己/已是好友/已有 pending"
// @Router /api/contacts/request [post]
func SendContactRequest(c *gin.Context) {
	var req request.ContactTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "userId is required")
		return
	}
	senderID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	targetID, err := user_service.ParseID(req.UserID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := contact_service.SendRequest(c.Request.Context(), senderID, targetID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Contact request sent"})
}

// GetContactRequests godoc
// @Summary 待处理请求（收到的+发出的）
// @Tags Contact API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/contacts/requests [get]
func GetContactRequests(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	incoming, sent, err := contact_service.ListRequests(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"incoming": incoming, "sent": sent})
}

// AcceptContactRequest godoc
// @Summary 接受好友请求
// @Tags Contact API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ContactDecisionReq true "请求ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{} "不是请求的接收者"
// @Router /api/contacts/accept [post]
func AcceptContactRequest(c *gin.Context) {
	var req request.ContactDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "requestId is required")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	requestID, err := user_service.ParseID(req.RequestID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := contact_service.Accept(c.Request.Context(), userID, requestID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Contact request accepted"})
}

// RejectContactRequest godoc
// @Summary 拒绝好友请求
// @Tags Contact API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ContactDecisionReq true "请求ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/contacts/reject [post]
func RejectContactRequest(c *gin.Context) {
	var req request.ContactDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "requestId is required")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	requestID, err := user_service.ParseID(req.RequestID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := contact_service.Reject(c.Request.Context(), userID, requestID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Contact request rejected"})
}
