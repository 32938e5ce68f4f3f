package message_service

import (
	"context"
	"time"

	"snapnova/controller/respond"
	"snapnova/major"
	"snapnova/models"
	"snapnova/service/media_service"
	"snapnova/service/relay_service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SendInput 发消息入参。MediaData 为内联 base64 data-URI，存在时先换持久 URL。
type SendInput struct {
	ReceiverID   primitive.ObjectID
	Text         string
	MediaData    string
	MediaType    string
	IsSnap       bool
	SnapDuration int
}

// Between 两人之间的消息，最早的在前，最多100条
func Between(ctx context.Context, userID, otherID primitive.ObjectID) ([]models.Message, error) {
	cursor, err := major.Messages().Find(ctx,
		bson.M{"$or": bson.A{
			bson.M{"senderId": userID, "receiverId": otherID},
			bson.M{"senderId": otherID, "receiverId": userID},
		}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(100),
	)
	if err != nil {
		return nil, err
	}
	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// Send 落一条消息并向接收者房间投递 receiveMessage
func Send(ctx context.Context, senderID primitive.ObjectID, in SendInput) (*models.Message, error) {
	mediaURL := ""
	if in.MediaData != "" {
		url, err := media_service.UploadBase64(ctx, in.MediaData, "snapnova/messages")
		if err != nil {
			return nil, err
		}
		mediaURL = url
	}

	mediaType := models.MediaTypeText
	if mediaURL != "" {
		mediaType = in.MediaType
		if mediaType == "" {
			mediaType = models.MediaTypeImage
		}
	}

	duration := in.SnapDuration
	if duration <= 0 {
		duration = models.DefaultSnapDuration
	}

	now := time.Now()
	message := &models.Message{
		ID:           primitive.NewObjectID(),
		SenderID:     senderID,
		ReceiverID:   in.ReceiverID,
		Text:         in.Text,
		MediaURL:     mediaURL,
		MediaType:    mediaType,
		IsSnap:       in.IsSnap,
		SnapDuration: duration,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := major.Messages().InsertOne(ctx, message); err != nil {
		return nil, err
	}

	relay_service.RouteToUser(in.ReceiverID.Hex(), "receiveMessage", message)
	return message, nil
}

// MarkSeen 批量把某个发送者发来的未读翻成已读，并回执 seenMessage
func MarkSeen(ctx context.Context, userID, senderID primitive.ObjectID) error {
	_, err := major.Messages().UpdateMany(ctx,
		bson.M{"senderId": senderID, "receiverId": userID, "isSeen": false},
		bson.M{"$set": bson.M{"isSeen": true}},
	)
	if err != nil {
		return err
	}
	relay_service.RouteToUser(senderID.Hex(), "seenMessage", map[string]any{"by": userID.Hex()})
	return nil
}

// Delete 删除一条消息
func Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := major.Messages().DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Conversations 会话列表：按对端用户分组取最近一条消息，结果按时间倒序
func Conversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"senderId": userID},
			bson.M{"receiverId": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$senderId", userID}},
				"$receiverId",
				"$senderId",
			}},
			"lastMessage": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         major.CollectionUsers,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$project", Value: bson.M{
			"user": bson.M{
				"_id":      1,
				"username": 1,
				"avatar":   1,
				"isOnline": 1,
				"lastSeen": 1,
			},
			"lastMessage": 1,
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastMessage.createdAt", Value: -1}}}},
	}

	cursor, err := major.Messages().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	conversations := []models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// UploadSnap 上传阅后即焚快照：媒体必填，投递 receiveMessage 外加一条提醒
func UploadSnap(ctx context.Context, senderID primitive.ObjectID, in SendInput) (*models.Message, error) {
	if in.MediaData == "" {
		return nil, respond.BadRequest("Media is required for snap")
	}
	in.IsSnap = true
	in.Text = ""
	snap, err := Send(ctx, senderID, in)
	if err != nil {
		return nil, err
	}
	relay_service.RouteToUser(in.ReceiverID.Hex(), "notification", map[string]any{
		"type":    models.NotificationTypeSnap,
		"message": "You received a new snap!",
	})
	return snap, nil
}

// GetSnap 取快照。接收者首次打开时启动倒计时：expiresAt = now + duration。
// 发送者或第三方打开不触发倒计时。
func GetSnap(ctx context.Context, viewerID, id primitive.ObjectID) (*models.Message, error) {
	var snap models.Message
	err := major.Messages().FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if err == mongo.ErrNoDocuments {
		return nil, respond.NotFound("Snap not found")
	}
	if err != nil {
		return nil, err
	}
	if !snap.IsSnap {
		return nil, respond.NotFound("Snap not found")
	}

	if openSnap(&snap, viewerID, time.Now()) {
		_, err = major.Messages().UpdateByID(ctx, snap.ID, bson.M{
			"$set": bson.M{"expiresAt": snap.ExpiresAt, "isSeen": true},
		})
		if err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

// DeleteSnap 删除快照（仅限 isSnap 记录）
func DeleteSnap(ctx context.Context, id primitive.ObjectID) error {
	_, err := major.Messages().DeleteOne(ctx, bson.M{"_id": id, "isSnap": true})
	return err
}

// openSnap 快照首开逻辑：只有接收者的第一次打开会写入过期时间并标记已读。
// 返回是否发生了状态变化。
func openSnap(snap *models.Message, viewer primitive.ObjectID, now time.Time) bool {
	if !snap.IsSnap || snap.ExpiresAt != nil || snap.ReceiverID != viewer {
		return false
	}
	expiry := now.Add(time.Duration(snap.SnapDuration) * time.Second)
	snap.ExpiresAt = &expiry
	snap.IsSeen = true
	return true
}
