package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 消息文档。快照（IsSnap）的 ExpiresAt 在接收者首次打开前保持未设置，
// 打开后写入 now+SnapDuration，由存储层的 TTL 索引负责清理。
type Message struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SenderID     primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID   primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Text         string             `bson:"text" json:"text"`
	MediaURL     string             `bson:"mediaUrl" json:"mediaUrl"`
	MediaType    string             `bson:"mediaType" json:"mediaType"`
	IsSeen       bool               `bson:"isSeen" json:"isSeen"`
	IsSnap       bool               `bson:"isSnap" json:"isSnap"`
	SnapDuration int                `bson:"snapDuration" json:"snapDuration"`
	ExpiresAt    *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Conversation 会话列表条目：对端用户 + 最近一条消息
type Conversation struct {
	User        PublicUser `bson:"user" json:"user"`
	LastMessage Message    `bson:"lastMessage" json:"lastMessage"`
}
