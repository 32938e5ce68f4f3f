package controller

import (
	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/service/message_service"
	"snapnova/service/user_service"

	"github.com/gin-gonic/gin"
)

// GetConversations godoc
// @Summary 会话列表（每个对端取最近一条消息）
// @Tags Message API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/conversations [get]
func GetConversations(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	conversations, err := message_service.Conversations(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"conversations": conversations})
}

// GetMessages godoc
// @Summary 与某用户的消息记录
// @Tags Message API
// @Produce json
// @Security BearerAuth
// @Param userId path string true "对端用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/{userId} [get]
func GetMessages(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	otherID, err := user_service.ParseID(c.Param("userId"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	messages, err := message_service.Between(c.Request.Context(), userID, otherID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"messages": messages})
}

// SendMessage godoc
// @Summary 发消息（可带内联媒体）
// @Tags Message API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.SendMessageReq true "接收者与内容"
// @Success 201 {object} map[string]interface{}
// @Router /api/messages [post]
func SendMessage(c *gin.Context) {
	var req request.SendMessageReq
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

	message, err := message_service.Send(c.Request.Context(), senderID, message_service.SendInput{
		ReceiverID:   receiverID,
		Text:         req.Text,
		MediaData:    req.MediaData,
		MediaType:    req.MediaType,
		IsSnap:       req.IsSnap,
		SnapDuration: req.SnapDuration,
	})
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.Created(c, gin.H{"message": message})
}

// MarkSeen godoc
// @Summary 把某发送者的消息全部标记已读
// @Tags Message API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.MarkSeenReq true "发送者ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/seen [put]
func MarkSeen(c *gin.Context) {
	var req request.MarkSeenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "senderId is required")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	senderID, err := user_service.ParseID(req.SenderID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := message_service.MarkSeen(c.Request.Context(), userID, senderID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{})
}

// DeleteMessage godoc
// @Summary 删除消息
// @Tags Message API
// @Produce json
// @Security BearerAuth
// @Param id path string true "消息ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/messages/{id} [delete]
func DeleteMessage(c *gin.Context) {
	id, err := user_service.ParseID(c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := message_service.Delete(c.Request.Context(), id); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{})
}
