package request

// SendMessageReq 发消息请求参数。MediaData 为内联 base64 data-URI。
type SendMessageReq struct {
	ReceiverID   string `json:"receiverId" binding:"required"`
	Text         string `json:"text"`
	MediaData    string `json:"mediaData"`
	MediaType    string `json:"mediaType"`
	IsSnap       bool   `json:"isSnap"`
	SnapDuration int    `json:"snapDuration"`
}

// MarkSeenReq 已读回执请求参数
type MarkSeenReq struct {
	SenderID string `json:"senderId" binding:"required"`
}

// UploadSnapReq 上传快照请求参数
type UploadSnapReq struct {
	ReceiverID   string `json:"receiverId" binding:"required"`
	MediaData    string `json:"mediaData"`
	MediaType    string `json:"mediaType"`
	SnapDuration int    `json:"snapDuration"`
}

// CreateStoryReq 发布动态请求参数
type CreateStoryReq struct {
	MediaData string `json:"mediaData"`
	MediaType string `json:"mediaType"`
	Caption   string `json:"caption"`
}

// ContactTargetReq 指定目标用户的请求参数（发起请求/移除好友）
type ContactTargetReq struct {
	UserID string `json:"userId" binding:"required"`
}

// ContactDecisionReq 处理好友请求的参数（接受/拒绝）
type ContactDecisionReq struct {
	RequestID string `json:"requestId" binding:"required"`
}
