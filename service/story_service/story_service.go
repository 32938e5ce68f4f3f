package story_service

import (
	"context"
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

// TTL 动态的固定可见窗口。过期时间创建时写死，与访问无关。
const TTL = 24 * time.Hour

const maxCaptionLength = 200

// NewStory 组装一条新动态，过期时间一次性定格在 now+24h
func NewStory(owner primitive.ObjectID, mediaURL, mediaType, caption string, now time.Time) *models.Story {
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	return &models.Story{
		ID:        primitive.NewObjectID(),
		UserID:    owner,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Caption:   caption,
		Viewers:   []primitive.ObjectID{},
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	}
}

// Create 发布动态，媒体必填
func Create(ctx context.Context, userID primitive.ObjectID, mediaData, mediaType, caption string) (*models.Story, error) {
	if mediaData == "" {
		return nil, respond.BadRequest("Media is required")
	}
	if len(caption) > maxCaptionLength {
		return nil, respond.BadRequest("Caption is too long")
	}

	mediaURL, err := media_service.UploadBase64(ctx, mediaData, "snapnova/stories")
	if err != nil {
		return nil, err
	}

	story := NewStory(userID, mediaURL, mediaType, caption, time.Now())
	if _, err := major.Stories().InsertOne(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Feed 好友+自己的未过期动态，按作者分组。查询侧过滤 expiresAt > now，
// 不等存储层清扫。
func Feed(ctx context.Context, user *models.User) ([]models.StoryGroup, error) {
	ownerIDs := append([]primitive.ObjectID{user.ID}, user.Friends...)

	cursor, err := major.Stories().Find(ctx,
		bson.M{
			"userId":    bson.M{"$in": ownerIDs},
			"expiresAt": bson.M{"$gt": time.Now()},
		},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var stories []models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}

	owners, err := ownerProjections(ctx, stories)
	if err != nil {
		return nil, err
	}
	return groupByOwner(stories, owners), nil
}

// Mine 自己的未过期动态
func Mine(ctx context.Context, userID primitive.ObjectID) ([]models.Story, error) {
	cursor, err := major.Stories().Find(ctx,
		bson.M{
			"userId":    userID,
			"expiresAt": bson.M{"$gt": time.Now()},
		},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	stories := []models.Story{}
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// View 记录观看者（$addToSet 去重），返回更新后的动态
func View(ctx context.Context, viewerID, id primitive.ObjectID) (*models.Story, error) {
	after := options.After
	var story models.Story
	err := major.Stories().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"viewers": viewerID}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&story)
	if err == mongo.ErrNoDocuments {
		return nil, respond.NotFound("Story not found")
	}
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// Delete 作者本人删除自己的动态
func Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	result, err := major.Stories().DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return respond.NotFound("Story not found")
	}
	return nil
}

func ownerProjections(ctx context.Context, stories []models.Story) (map[primitive.ObjectID]models.PublicUser, error) {
	owners := make(map[primitive.ObjectID]models.PublicUser)
	if len(stories) == 0 {
		return owners, nil
	}
	ids := make([]primitive.ObjectID, 0, len(stories))
	seen := make(map[primitive.ObjectID]bool)
	for _, s := range stories {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	cursor, err := major.Users().Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{
			"username": 1, "avatar": 1, "isOnline": 1, "lastSeen": 1,
		}),
	)
	if err != nil {
		return nil, err
	}
	var users []models.PublicUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		owners[u.ID] = u
	}
	return owners, nil
}

// groupByOwner 按作者聚合，保持输入（时间倒序）中作者首次出现的顺序
func groupByOwner(stories []models.Story, owners map[primitive.ObjectID]models.PublicUser) []models.StoryGroup {
	groups := []models.StoryGroup{}
	index := make(map[primitive.ObjectID]int)
	for _, s := range stories {
		i, ok := index[s.UserID]
		if !ok {
			owner, known := owners[s.UserID]
			if !known {
				continue
			}
			index[s.UserID] = len(groups)
			groups = append(groups, models.StoryGroup{User: owner, Stories: []models.Story{}})
			i = index[s.UserID]
		}
		groups[i].Stories = append(groups[i].Stories, s)
	}
	return groups
}
