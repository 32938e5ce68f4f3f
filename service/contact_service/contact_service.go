package contact_service

import (
	"context"
	"fmt"
	"time"

	"snapnova/controller/respond"
	"snapnova/major"
	"snapnova/models"
	"snapnova/service/relay_service"
	"snapnova/service/user_service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 好友请求状态机：pending -> {accepted, rejected}；rejected 可复活回 pending。
// accepted 是终态，同时把双方幂等并入对方好友集合并播种第一条会话消息。

// SendRequest 发起好友请求
func SendRequest(ctx context.Context, senderID, targetID primitive.ObjectID) error {
	target, err := user_service.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	sender, err := user_service.FindByID(ctx, senderID)
	if err != nil {
		return err
	}

	// 无序对上最多一条 pending：双向查
	pending, err := findRequest(ctx, bson.M{
		"$or": bson.A{
			bson.M{"senderId": senderID, "receiverId": targetID, "status": models.RequestStatusPending},
			bson.M{"senderId": targetID, "receiverId": senderID, "status": models.RequestStatusPending},
		},
	})
	if err != nil {
		return err
	}

	if err := validateSend(sender, targetID, pending); err != nil {
		return err
	}

	// 之前被拒过就复活，不新建
	rejected, err := findRequest(ctx, bson.M{
		"senderId":   senderID,
		"receiverId": targetID,
		"status":     models.RequestStatusRejected,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	if rejected != nil {
		_, err = major.FriendRequests().UpdateByID(ctx, rejected.ID, bson.M{
			"$set": bson.M{"status": models.RequestStatusPending, "updatedAt": now},
		})
		if err != nil {
			return err
		}
	} else {
		_, err = major.FriendRequests().InsertOne(ctx, &models.FriendRequest{
			ID:         primitive.NewObjectID(),
			SenderID:   senderID,
			ReceiverID: targetID,
			Status:     models.RequestStatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return respond.BadRequest("Request already exists")
			}
			return err
		}
	}

	notifyText := fmt.Sprintf("%s sent you a contact request", sender.Username)
	if err := user_service.CreateNotification(ctx, &models.Notification{
		UserID:     target.ID,
		Type:       models.NotificationTypeFriendRequest,
		FromUserID: senderID,
		Message:    notifyText,
	}); err != nil {
		return err
	}

	relay_service.RouteToUser(targetID.Hex(), "notification", map[string]any{
		"type":    models.NotificationTypeFriendRequest,
		"from":    sender.Public(),
		"message": notifyText,
	})
	return nil
}

// ListRequests 返回收到的与发出的 pending 请求，按创建时间倒序
func ListRequests(ctx context.Context, userID primitive.ObjectID) (incoming, sent []models.RequestView, err error) {
	incoming, err = listPending(ctx, bson.M{"receiverId": userID, "status": models.RequestStatusPending}, true)
	if err != nil {
		return nil, nil, err
	}
	sent, err = listPending(ctx, bson.M{"senderId": userID, "status": models.RequestStatusPending}, false)
	if err != nil {
		return nil, nil, err
	}
	return incoming, sent, nil
}

// Accept 接收方确认请求。状态翻转用条件更新收窄并发双接的竞态；
// 好友集合合并靠 $addToSet，重复接受不会产生重复成员。
func Accept(ctx context.Context, userID, requestID primitive.ObjectID) error {
	request, err := findRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := validateTransition(request, userID); err != nil {
		return err
	}

	result, err := major.FriendRequests().UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{"status": models.RequestStatusAccepted, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return respond.BadRequest("Request is no longer pending")
	}

	if err := user_service.AddFriendEdge(ctx, userID, request.SenderID); err != nil {
		return err
	}
	if err := user_service.AddFriendEdge(ctx, request.SenderID, userID); err != nil {
		return err
	}

	// 播种第一条会话消息
	now := time.Now()
	_, err = major.Messages().InsertOne(ctx, &models.Message{
		ID:           primitive.NewObjectID(),
		SenderID:     request.SenderID,
		ReceiverID:   userID,
		Text:         "👋 Hey! We're now connected on Snapnova!",
		MediaType:    models.MediaTypeText,
		SnapDuration: models.DefaultSnapDuration,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	accepter, err := user_service.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	notifyText := fmt.Sprintf("%s accepted your contact request", accepter.Username)
	if err := user_service.CreateNotification(ctx, &models.Notification{
		UserID:     request.SenderID,
		Type:       models.NotificationTypeFriendRequest,
		FromUserID: userID,
		Message:    notifyText,
	}); err != nil {
		return err
	}

	relay_service.RouteToUser(request.SenderID.Hex(), "notification", map[string]any{
		"type":    models.NotificationTypeFriendRequest,
		"message": notifyText,
	})
	return nil
}

// Reject 接收方拒绝请求（终态，可被再次请求复活）
func Reject(ctx context.Context, userID, requestID primitive.ObjectID) error {
	request, err := findRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := validateTransition(request, userID); err != nil {
		return err
	}

	result, err := major.FriendRequests().UpdateOne(ctx,
		bson.M{"_id": requestID, "status": models.RequestStatusPending},
		bson.M{"$set": bson.M{"status": models.RequestStatusRejected, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return respond.BadRequest("Request is no longer pending")
	}
	return nil
}

func findRequest(ctx context.Context, filter bson.M) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := major.FriendRequests().FindOne(ctx, filter).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func findRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	request, err := findRequest(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, respond.NotFound("Request not found")
	}
	return request, nil
}

func listPending(ctx context.Context, filter bson.M, populateSender bool) ([]models.RequestView, error) {
	cursor, err := major.FriendRequests().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	views := []models.RequestView{}
	for _, r := range requests {
		otherID := r.SenderID
		if !populateSender {
			otherID = r.ReceiverID
		}
		other, err := user_service.FindByID(ctx, otherID)
		if err != nil {
			// 对端已注销的残留请求直接跳过
			continue
		}
		views = append(views, models.RequestView{
			ID:        r.ID,
			User:      other.Public(),
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return views, nil
}
