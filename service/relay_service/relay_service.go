package relay_service

import (
	"context"
	"log"
	"net/http"

	"snapnova/service/user_service"

	socketio "github.com/zishang520/socket.io/servers/socket/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 实时中继：按用户ID开房间做定向投递，广播在线状态变化。
// 投递语义是 at-most-once——目标不在线就丢，所有事件都有 REST 拉取兜底。

var (
	io       *socketio.Server
	presence = NewPresenceTable()
)

// Init 创建 socket.io 服务端并注册事件处理
func Init() {
	io = socketio.NewServer(nil, nil)

	io.On("connection", func(clients ...any) {
		client := clients[0].(*socketio.Socket)
		log.Printf("⚡ Socket connected: %s", client.Id())

		// 上线：校验ID、绑定连接、进私有房间、落在线标记、广播状态
		client.On("userOnline", func(args ...any) {
			defer recoverHandler("userOnline")

			userID := argString(args)
			oid, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				// 非法ID只记日志，没有回执通道
				log.Printf("⚠️ Invalid userId received for userOnline: %s", userID)
				return
			}

			presence.Bind(client.Id(), userID)
			client.Join(socketio.Room(userID))

			if err := user_service.SetOnline(context.Background(), oid, true); err != nil {
				log.Printf("⚠️ Error updating online status: %v", err)
			}

			broadcast("userStatusChange", map[string]any{
				"userId":   userID,
				"isOnline": true,
			})
		})

		// 消息直通：投给接收者房间
		client.On("sendMessage", func(args ...any) {
			defer recoverHandler("sendMessage")

			data := argMap(args)
			receiverID, _ := data["receiverId"].(string)
			if receiverID == "" {
				return
			}
			RouteToUser(receiverID, "receiveMessage", data)
		})

		// 输入中指示
		client.On("typing", func(args ...any) {
			defer recoverHandler("typing")

			data := argMap(args)
			senderID, _ := data["senderId"].(string)
			receiverID, _ := data["receiverId"].(string)
			isTyping, _ := data["isTyping"].(bool)
			if receiverID == "" {
				return
			}
			RouteToUser(receiverID, "typing", map[string]any{
				"senderId": senderID,
				"isTyping": isTyping,
			})
		})

		// 已读回执
		client.On("seenMessage", func(args ...any) {
			defer recoverHandler("seenMessage")

			data := argMap(args)
			senderID, _ := data["senderId"].(string)
			seenBy, _ := data["seenBy"].(string)
			if senderID == "" {
				return
			}
			RouteToUser(senderID, "seenMessage", map[string]any{"by": seenBy})
		})

		// 通用通知转发
		client.On("notification", func(args ...any) {
			defer recoverHandler("notification")

			data := argMap(args)
			targetID, _ := data["targetUserId"].(string)
			if targetID == "" {
				return
			}
			RouteToUser(targetID, "notification", data)
		})

		// 断线：解绑、落离线+lastSeen、广播状态。从未绑定过用户则无事可做。
		client.On("disconnect", func(args ...any) {
			defer recoverHandler("disconnect")

			userID, ok := presence.Unbind(client.Id())
			if ok {
				if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
					if err := user_service.SetOnline(context.Background(), oid, false); err != nil {
						log.Printf("⚠️ Error updating offline status: %v", err)
					}
				}
				broadcast("userStatusChange", map[string]any{
					"userId":   userID,
					"isOnline": false,
				})
			}
			log.Printf("🔌 Socket disconnected: %s", client.Id())
		})
	})

	log.Printf("✅ 实时中继初始化成功")
}

// Handler HTTP 入口，挂到 /socket.io/
func Handler() http.Handler {
	return io.ServeHandler(nil)
}

// RouteToUser 投递事件到目标用户房间；没人订阅就丢弃，不排队不保证送达
func RouteToUser(userID, event string, payload any) {
	if io == nil {
		return
	}
	io.To(socketio.Room(userID)).Emit(event, payload)
}

// Presence 暴露连接表（只读用途）
func Presence() *PresenceTable {
	return presence
}

func broadcast(event string, payload any) {
	if io == nil {
		return
	}
	io.Sockets().Emit(event, payload)
}

func recoverHandler(event string) {
	if r := recover(); r != nil {
		log.Printf("⚠️ Panic recovered in %s handler: %v", event, r)
	}
}

// argString 取事件首参的字符串形式
func argString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	s, _ := args[0].(string)
	return s
}

// argMap 取事件首参的对象形式
func argMap(args []any) map[string]any {
	if len(args) == 0 {
		return map[string]any{}
	}
	if m, ok := args[0].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
