package major

import (
	"context"
	"fmt"
	"log"
	"time"

	"snapnova/conf"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// 集合名
const (
	CollectionUsers          = "users"
	CollectionFriendRequests = "friendrequests"
	CollectionMessages       = "messages"
	CollectionStories        = "stories"
	CollectionNotifications  = "notifications"
)

func InitMongoConfig() {
	uri := conf.MongoURI
	fmt.Println(uri)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		panic(fmt.Errorf("DB init error %s", err.Error()))
	}
	if err := c.Ping(ctx, nil); err != nil {
		panic(fmt.Errorf("DB ping error %s", err.Error()))
	}

	client = c
	db = c.Database(conf.MongoDatabase)

	if err := ensureIndexes(ctx); err != nil {
		panic(fmt.Errorf("DB index error %s", err.Error()))
	}
	log.Printf("✅ MongoDB connected: %s/%s", uri, conf.MongoDatabase)
}

func GetDB() *mongo.Database {
	if db != nil {
		return db
	}
	return nil
}

func CloseMongo() {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}

func Users() *mongo.Collection          { return db.Collection(CollectionUsers) }
func FriendRequests() *mongo.Collection { return db.Collection(CollectionFriendRequests) }
func Messages() *mongo.Collection       { return db.Collection(CollectionMessages) }
func Stories() *mongo.Collection        { return db.Collection(CollectionStories) }
func Notifications() *mongo.Collection  { return db.Collection(CollectionNotifications) }

// ensureIndexes 建立唯一索引与 TTL 过期索引。
// expireAfterSeconds=0：文档在 expiresAt 过去后由存储层后台清理（周期性，非精确到秒）；
// 未设置 expiresAt 的消息不会被清理。
func ensureIndexes(ctx context.Context) error {
	_, err := Users().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = FriendRequests().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "receiverId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = Messages().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return err
	}

	_, err = Stories().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return err
	}

	_, err = Notifications().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}
