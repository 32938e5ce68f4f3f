package user_service

import (
	"context"
	"strings"
	"time"

	"snapnova/controller/respond"
	"snapnova/major"
	"snapnova/models"
	"snapnova/service/media_service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var publicProjection = bson.M{
	"username": 1,
	"avatar":   1,
	"bio":      1,
	"isOnline": 1,
	"lastSeen": 1,
}

// ParseID 把请求里的 id 字符串转成 ObjectID，格式错误按 400 处理
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, respond.BadRequest("Invalid user ID")
	}
	return oid, nil
}

// FindByID 按ID取用户，不存在返回 404
func FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := major.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, respond.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 登录路径用；不存在时返回 nil, nil，由调用方统一回“Invalid credentials”
func FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := major.Users().FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 建档新用户，用户名/邮箱撞唯一索引时回 400
func Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     strings.ToLower(email),
		Password:  passwordHash,
		Friends:   []primitive.ObjectID{},
		LastSeen:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := major.Users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, respond.BadRequest("User already exists")
		}
		return nil, err
	}
	return user, nil
}

// PopulateFriends 取好友公开投影，保持 user.Friends 的顺序
func PopulateFriends(ctx context.Context, user *models.User) ([]models.PublicUser, error) {
	friends := []models.PublicUser{}
	if len(user.Friends) == 0 {
		return friends, nil
	}
	cursor, err := major.Users().Find(ctx,
		bson.M{"_id": bson.M{"$in": user.Friends}},
		options.Find().SetProjection(publicProjection),
	)
	if err != nil {
		return nil, err
	}
	var found []models.PublicUser
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PublicUser, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	for _, id := range user.Friends {
		if f, ok := byID[id]; ok {
			friends = append(friends, f)
		}
	}
	return friends, nil
}

// UpdateProfile 更新 bio / 头像。头像传 data-URI 时先走媒体托管换持久 URL。
func UpdateProfile(ctx context.Context, userID primitive.ObjectID, bio *string, avatar string) (*models.User, error) {
	update := bson.M{"updatedAt": time.Now()}
	if bio != nil {
		update["bio"] = *bio
	}
	if avatar != "" && strings.HasPrefix(avatar, "data:") {
		url, err := media_service.UploadBase64(ctx, avatar, "snapnova/avatars")
		if err != nil {
			return nil, err
		}
		update["avatar"] = url
	}

	after := options.After
	var user models.User
	err := major.Users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, respond.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Search 按用户名/邮箱模糊搜索，排除自己，最多20条
func Search(ctx context.Context, selfID primitive.ObjectID, q string) ([]models.PublicUser, error) {
	users := []models.PublicUser{}
	if q == "" {
		return users, nil
	}
	filter := bson.M{
		"$and": bson.A{
			bson.M{"_id": bson.M{"$ne": selfID}},
			bson.M{"$or": bson.A{
				bson.M{"username": bson.M{"$regex": q, "$options": "i"}},
				bson.M{"email": bson.M{"$regex": q, "$options": "i"}},
			}},
		},
	}
	cursor, err := major.Users().Find(ctx, filter,
		options.Find().SetProjection(publicProjection).SetLimit(20),
	)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Suggested 非好友推荐，最多10条
func Suggested(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	user, err := FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	exclude := append([]primitive.ObjectID{userID}, user.Friends...)
	cursor, err := major.Users().Find(ctx,
		bson.M{"_id": bson.M{"$nin": exclude}},
		options.Find().SetProjection(publicProjection).SetLimit(10),
	)
	if err != nil {
		return nil, err
	}
	users := []models.PublicUser{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RemoveFriend 双向摘除好友关系
func RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if _, err := major.Users().UpdateByID(ctx, userID,
		bson.M{"$pull": bson.M{"friends": friendID}}); err != nil {
		return err
	}
	_, err := major.Users().UpdateByID(ctx, friendID,
		bson.M{"$pull": bson.M{"friends": userID}})
	return err
}

// AddFriendEdge 把 friendID 幂等并入 userID 的好友集合（$addToSet，不是盲目 push）
func AddFriendEdge(ctx context.Context, userID, friendID primitive.ObjectID) error {
	_, err := major.Users().UpdateByID(ctx, userID,
		bson.M{"$addToSet": bson.M{"friends": friendID}})
	return err
}

// SetOnline 维护在线标记；下线时顺带落 lastSeen
func SetOnline(ctx context.Context, userID primitive.ObjectID, online bool) error {
	update := bson.M{"isOnline": online}
	if !online {
		update["lastSeen"] = time.Now()
	}
	_, err := major.Users().UpdateByID(ctx, userID, bson.M{"$set": update})
	return err
}

// CreateNotification 落一条通知
func CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := major.Notifications().InsertOne(ctx, n)
	return err
}

// Notifications 最近50条通知，来源用户 populate
func Notifications(ctx context.Context, userID primitive.ObjectID) ([]models.NotificationView, error) {
	cursor, err := major.Notifications().Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(50),
	)
	if err != nil {
		return nil, err
	}
	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	fromIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		if !n.FromUserID.IsZero() {
			fromIDs = append(fromIDs, n.FromUserID)
		}
	}
	byID := make(map[primitive.ObjectID]models.PublicUser)
	if len(fromIDs) > 0 {
		fc, err := major.Users().Find(ctx,
			bson.M{"_id": bson.M{"$in": fromIDs}},
			options.Find().SetProjection(publicProjection),
		)
		if err != nil {
			return nil, err
		}
		var fromUsers []models.PublicUser
		if err := fc.All(ctx, &fromUsers); err != nil {
			return nil, err
		}
		for _, u := range fromUsers {
			byID[u.ID] = u
		}
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		view := models.NotificationView{Notification: n}
		if u, ok := byID[n.FromUserID]; ok {
			from := u
			view.From = &from
		}
		views = append(views, view)
	}
	return views, nil
}

// MarkNotificationsRead 批量把未读翻成已读
func MarkNotificationsRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := major.Notifications().UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	return err
}
