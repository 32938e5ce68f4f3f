package request

// RegisterReq 注册请求参数
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginReq 登录请求参数
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq 刷新令牌请求参数
type RefreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateProfileReq 更新个人资料请求参数（bio 不传表示不改）
type UpdateProfileReq struct {
	Bio    *string `json:"bio"`
	Avatar string  `json:"avatar"`
}
