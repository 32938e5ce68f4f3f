package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 用户文档。凭证散列只入库，不出现在任何响应里。
// 单一有效的 refresh token 存放在会话存储（pebble），不在用户文档上。
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username  string               `bson:"username" json:"username"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Avatar    string               `bson:"avatar" json:"avatar"`
	Bio       string               `bson:"bio" json:"bio"`
	Friends   []primitive.ObjectID `bson:"friends" json:"friends"`
	IsOnline  bool                 `bson:"isOnline" json:"isOnline"`
	LastSeen  time.Time            `bson:"lastSeen" json:"lastSeen"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser 对他人可见的用户投影（搜索、好友列表、populate）
type PublicUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar" json:"avatar"`
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`
	IsOnline bool               `bson:"isOnline" json:"isOnline"`
	LastSeen time.Time          `bson:"lastSeen" json:"lastSeen"`
}

// Public 返回用户自身的公开投影
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		IsOnline: u.IsOnline,
		LastSeen: u.LastSeen,
	}
}
