package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story 24小时动态。ExpiresAt 创建时一次性写死，与是否被查看无关。
type Story struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	MediaURL  string               `bson:"mediaUrl" json:"mediaUrl"`
	MediaType string               `bson:"mediaType" json:"mediaType"`
	Caption   string               `bson:"caption" json:"caption"`
	Viewers   []primitive.ObjectID `bson:"viewers" json:"viewers"`
	ExpiresAt time.Time            `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// StoryGroup 按作者分组的动态流
type StoryGroup struct {
	User    PublicUser `json:"user"`
	Stories []Story    `json:"stories"`
}
