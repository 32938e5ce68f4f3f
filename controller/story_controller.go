package controller

import (
	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/service/story_service"
	"snapnova/service/user_service"

	"github.com/gin-gonic/gin"
)

// CreateStory godoc
// @Summary 发布动态（24小时后自动消失）
// @Tags Story API
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateStoryReq true "媒体与文案"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "缺少媒体"
// @Router /api/stories [post]
func CreateStory(c *gin.Context) {
	var req request.CreateStoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "Invalid request body")
		return
	}
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	story, err := story_service.Create(c.Request.Context(), userID, req.MediaData, req.MediaType, req.Caption)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.Created(c, gin.H{"story": story})
}

// GetStoriesFeed godoc
// @Summary 动态流（好友+自己，按作者分组）
// @Tags Story API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/stories/feed [get]
func GetStoriesFeed(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	user, err := user_service.FindByID(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	feed, err := story_service.Feed(c.Request.Context(), user)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"storiesFeed": feed})
}

// GetMyStories godoc
// @Summary 自己的未过期动态
// @Tags Story API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/stories/mine [get]
func GetMyStories(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	stories, err := story_service.Mine(c.Request.Context(), userID)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"stories": stories})
}

// ViewStory godoc
// @Summary 记录动态观看者
// @Tags Story API
// @Produce json
// @Security BearerAuth
// @Param id path string true "动态ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/stories/{id}/view [put]
func ViewStory(c *gin.Context) {
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
	story, err := story_service.View(c.Request.Context(), viewerID, id)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"story": story})
}

// DeleteStory godoc
// @Summary 删除自己的动态
// @Tags Story API
// @Produce json
// @Security BearerAuth
// @Param id path string true "动态ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "不存在或不属于自己"
// @Router /api/stories/{id} [delete]
func DeleteStory(c *gin.Context) {
	userID, err := user_service.ParseID(auth.UserID(c))
	if err != nil {
		respond.Err(c, err)
		return
	}
	id, err := user_service.ParseID(c.Param("id"))
	if err != nil {
		respond.Err(c, err)
		return
	}
	if err := story_service.Delete(c.Request.Context(), userID, id); err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"message": "Story deleted"})
}
