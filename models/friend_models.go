package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequest 好友请求实体。唯一索引 (senderId, receiverId) 保证同向请求不重复；
// rejected 的请求允许复活回 pending 而不是新建。
type FriendRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RequestView 请求列表条目（对端用户已 populate）
type RequestView struct {
	ID        primitive.ObjectID `json:"_id"`
	User      PublicUser         `json:"user"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}
