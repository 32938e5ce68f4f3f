package models

// 好友请求状态
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// 媒体类型
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeText  = "text"
)

// 通知类型
const (
	NotificationTypeFriendRequest = "friend_request"
	NotificationTypeSnap          = "snap"
)

// DefaultSnapDuration 快照默认展示秒数
const DefaultSnapDuration = 5
