package controller

import (
	"regexp"

	"snapnova/controller/auth"
	"snapnova/controller/request"
	"snapnova/controller/respond"
	"snapnova/models"
	"snapnova/service/session_service"
	"snapnova/service/token_service"
	"snapnova/service/user_service"
	"snapnova/tool"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const bcryptCost = 12

// issueSession 签发新令牌对并覆盖会话存储里的唯一有效 refresh token。
// 旧 refresh token 自此作废——多端登录互相顶号。
func issueSession(userID string) (accessToken, refreshToken string, err error) {
	accessToken, err = token_service.IssueAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = token_service.IssueRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	if err = session_service.SetActiveRefreshToken(userID, refreshToken, tool.MakeTimestamp()); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Register godoc
// @Summary 注册新用户
// @Tags Auth API
// @Accept json
// @Produce json
// @Param request body request.RegisterReq true "用户名、邮箱、密码"
// @Success 201 {object} map[string]interface{} "用户信息与令牌对"
// @Failure 400 {object} map[string]interface{} "参数错误或用户已存在"
// @Router /api/auth/register [post]
func Register(c *gin.Context) {
	var req request.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "All fields are required")
		return
	}
	if len(req.Password) < 6 {
		respond.Fail(c, 400, "Password must be at least 6 characters")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		respond.Fail(c, 400, "Invalid email format")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		respond.Err(c, err)
		return
	}

	user, err := user_service.Create(c.Request.Context(), req.Username, req.Email, string(hash))
	if err != nil {
		respond.Err(c, err)
		return
	}

	accessToken, refreshToken, err := issueSession(user.ID.Hex())
	if err != nil {
		respond.Err(c, err)
		return
	}

	respond.Created(c, gin.H{
		"user": gin.H{
			"_id":      user.ID,
			"username": user.Username,
			"email":    user.Email,
			"avatar":   user.Avatar,
			"bio":      user.Bio,
		},
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Login godoc
// @Summary 登录
// @Tags Auth API
// @Accept json
// @Produce json
// @Param request body request.LoginReq true "邮箱、密码"
// @Success 200 {object} map[string]interface{} "用户信息与令牌对"
// @Failure 400 {object} map[string]interface{} "凭证错误"
// @Router /api/auth/login [post]
func Login(c *gin.Context) {
	var req request.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, 400, "All fields are required")
		return
	}

	user, err := user_service.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respond.Err(c, err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respond.Fail(c, 400, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := issueSession(user.ID.Hex())
	if err != nil {
		respond.Err(c, err)
		return
	}

	if err := user_service.SetOnline(c.Request.Context(), user.ID, true); err != nil {
		respond.Err(c, err)
		return
	}

	respond.OK(c, gin.H{
		"user": gin.H{
			"_id":      user.ID,
			"username": user.Username,
			"email":    user.Email,
			"avatar":   user.Avatar,
			"bio":      user.Bio,
			"friends":  user.Friends,
		},
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Refresh godoc
// @Summary 用 refresh token 换新令牌对
// @Tags Auth API
// @Accept json
// @Produce json
// @Param request body request.RefreshReq true "refresh token"
// @Success 200 {object} map[string]interface{} "新令牌对"
// @Failure 401 {object} map[string]interface{} "缺少 refresh token"
// @Failure 403 {object} map[string]interface{} "refresh token 无效或已被顶掉"
// @Router /api/auth/refresh [post]
func Refresh(c *gin.Context) {
	var req request.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		respond.Fail(c, 401, "Refresh token required")
		return
	}

	userID, err := token_service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		respond.Fail(c, 403, "Invalid refresh token")
		return
	}
	// 与存储的唯一值比对：被新登录顶掉的旧令牌在这里失效
	if !session_service.Validate(userID, req.RefreshToken) {
		respond.Fail(c, 403, "Invalid refresh token")
		return
	}

	accessToken, refreshToken, err := issueSession(userID)
	if err != nil {
		respond.Err(c, err)
		return
	}

	respond.OK(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout godoc
// @Summary 登出
// @Description 尽力而为：即使访问令牌已过期也会尝试清会话，且对外永远返回成功。
// @Tags Auth API
// @Produce json
// @Success 200 {object} map[string]interface{} "总是成功"
// @Router /api/auth/logout [post]
func Logout(c *gin.Context) {
	// 从（可能过期的）访问令牌里读回用户ID，读不出也照样成功
	if token := auth.BearerToken(c); token != "" {
		if userID, err := token_service.ParseIgnoringExpiry(token); err == nil {
			_ = session_service.Clear(userID)
			if oid, err := user_service.ParseID(userID); err == nil {
				_ = user_service.SetOnline(c.Request.Context(), oid, false)
			}
		}
	}
	respond.OK(c, gin.H{"message": "Logged out successfully"})
}

// Me godoc
// @Summary 当前用户信息
// @Tags Auth API
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "用户信息（好友已 populate）"
// @Failure 404 {object} map[string]interface{} "用户不存在"
// @Router /api/auth/me [get]
func Me(c *gin.Context) {
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
	friends, err := user_service.PopulateFriends(c.Request.Context(), user)
	if err != nil {
		respond.Err(c, err)
		return
	}
	respond.OK(c, gin.H{"user": meView(user, friends)})
}

func meView(user *models.User, friends []models.PublicUser) gin.H {
	return gin.H{
		"_id":       user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"avatar":    user.Avatar,
		"bio":       user.Bio,
		"friends":   friends,
		"isOnline":  user.IsOnline,
		"lastSeen":  user.LastSeen,
		"createdAt": user.CreatedAt,
	}
}
