package controller

import (
	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/service/user_service"

	"github.com/gin-gonic/gin"
)

// GetProfile godoc
// @Summary 查看个人资料（自己或指定用户）
// @Tags User API
// @Produce json
// @Security BearerAuth
// @Param id path string false "用户ID，缺省为自己"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/profile/{id} [get]
func GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = auth.UserID(c)
	}
	userID, err := user_service.ParseID(id)
	if err != nil {
		respond.Err(c, err)
		return
	}

	user, err := user_service.FindByID(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	friends, err := user_service.PopulateFriends(c.Request.Context(), user)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"user": meView(user, friends)})
}

// UpdateProfile godoc
// @Summary 更新 bio / 头像
// @Tags User API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UpdateProfileReq true "bio、base64 头像"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/profile [put]
func UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "Invalid request body")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}

	user, err := user_service.UpdateProfile(c.Request.Context(), userID, req.Bio, req.Avatar)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"user": user})
}

// SearchUsers godoc
// @Summary 搜索用户
// @Tags User API
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索词"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/search [get]
func SearchUsers(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	users, err := user_service.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"users": users})
}

// RemoveFriend godoc
// @Summary 移除好友（双向）
// @Tags User API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ContactTargetReq true "目标用户ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/remove-friend [post]
func RemoveFriend(c *gin.Context) {
	var req request.ContactTargetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "userId is required")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	friendID, err := user_service.ParseID(req.UserID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := user_service.RemoveFriend(c.Request.Context(), userID, friendID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Friend removed"})
}

// GetSuggested godoc
// @Summary 推荐可添加的用户
// @Tags User API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/users/suggested [get]
func GetSuggested(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	users, err := user_service.Suggested(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"users": users})
}

// GetNotifications godoc
// @Summary 通知列表（最近50条）
// @Tags User API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/users/notifications [get]
func GetNotifications(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	notifications, err := user_service.Notifications(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"notifications": notifications})
}

// MarkNotificationsRead godoc
// @Summary 批量标记通知为已读
// @Tags User API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/users/notifications/read [put]
func MarkNotificationsRead(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := user_service.MarkNotificationsRead(c.Request.Context(), userID); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{})
}
