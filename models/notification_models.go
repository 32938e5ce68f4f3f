package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 通知文档，只追加；IsRead 仅做 false->true 的批量翻转。
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Type       string             `bson:"type" json:"type"`
	FromUserID primitive.ObjectID `bson:"fromUserId,omitempty" json:"fromUserId,omitempty"`
	Message    string             `bson:"message" json:"message"`
	IsRead     bool               `bson:"isRead" json:"isRead"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// NotificationView 通知列表条目（来源用户已 populate，可能为空）
type NotificationView struct {
	Notification `bson:",inline"`
	From         *PublicUser `json:"from,omitempty"`
}
