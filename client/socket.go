package client

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zishang520/socket.io/clients/engine/v3/transports"
	socketio "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"
)

// SocketConfig 实时通道客户端配置
type SocketConfig struct {
	ServerURL string `yaml:"server_url" json:"server_url"` // 服务器地址
	UserID    string `yaml:"user_id" json:"user_id"`       // 当前用户ID
	Path      string `yaml:"path" json:"path"`             // Socket.IO路径，默认 "/socket.io/"
	Timeout   int    `yaml:"timeout" json:"timeout"`       // 连接超时秒数，默认10秒
}

// SocketClient Snapnova 实时通道客户端。
// 连接成功后自动上报 userOnline，之后服务端按用户房间投递事件。
type SocketClient struct {
	config    *SocketConfig
	socket    *socketio.Socket
	connected bool
	mu        sync.RWMutex

	// 事件回调
	OnReceiveMessage   func(map[string]interface{})
	OnTyping           func(map[string]interface{})
	OnSeen             func(map[string]interface{})
	OnNotification     func(map[string]interface{})
	OnUserStatusChange func(map[string]interface{})
	OnConnect          func()
	OnDisconnect       func()
	OnError            func(error)
}

// NewSocketClient 创建实时通道客户端
func NewSocketClient(config *SocketConfig) *SocketClient {
	if config.Path == "" {
		config.Path = "/socket.io/"
	}
	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &SocketClient{
		config: config,
	}
}

// Start 建立连接
func (c *SocketClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.socket != nil && c.connected {
		return nil
	}

	options := socketio.DefaultOptions()
	options.SetTransports(types.NewSet(
		transports.Polling,
		transports.WebSocket,
	))
	options.SetPath(c.config.Path)
	options.SetTimeout(time.Duration(c.config.Timeout) * time.Second)

	socket, err := socketio.Connect(c.config.ServerURL, options)
	if err != nil {
		log.Printf("❌ Failed to connect to Socket.IO server: %v", err)
		if c.OnError != nil {
			go c.OnError(err)
		}
		return err
	}

	c.socket = socket
	c.setupEventHandlers()

	log.Printf("🚀 Socket.IO client connecting to %s as user %s", c.config.ServerURL, c.config.UserID)

	return nil
}

// Stop 断开连接
func (c *SocketClient) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.socket != nil {
		c.socket.Disconnect()
		c.socket = nil
	}

	c.connected = false

	if c.OnDisconnect != nil {
		go c.OnDisconnect()
	}

	log.Println("📴 Socket.IO client stopped")
}

// IsConnected 检查是否已连接
func (c *SocketClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected || c.socket == nil {
		return false
	}

	connected := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("⚠️ Panic recovered when checking socket.Connected(): %v", r)
				connected = false
			}
		}()
		connected = c.socket.Connected()
	}()

	return connected
}

func (c *SocketClient) setupEventHandlers() {
	if c.socket == nil {
		return
	}

	c.socket.On("connect", func(data ...interface{}) {
		defer recoverHandler("connect")

		c.mu.Lock()
		c.connected = true
		socket := c.socket
		c.mu.Unlock()

		log.Printf("✅ Socket.IO connected successfully")

		// 上报在线状态，服务端据此把连接加入用户房间
		if socket != nil && c.config.UserID != "" {
			socket.Emit("userOnline", c.config.UserID)
		}

		if c.OnConnect != nil {
			go c.OnConnect()
		}
	})

	c.socket.On("disconnect", func(data ...interface{}) {
		defer recoverHandler("disconnect")

		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		log.Printf("❌ Socket.IO disconnected")

		if c.OnDisconnect != nil {
			go c.OnDisconnect()
		}
	})

	c.socket.On("connect_error", func(data ...interface{}) {
		defer recoverHandler("connect_error")

		err := errorFromArgs(data, "connection error")
		log.Printf("🔥 Socket.IO connect error: %v", err)

		if c.OnError != nil {
			go c.OnError(err)
		}
	})

	c.socket.On("receiveMessage", c.mapHandler("receiveMessage", func(m map[string]interface{}) {
		if c.OnReceiveMessage != nil {
			go c.OnReceiveMessage(m)
		}
	}))

	c.socket.On("typing", c.mapHandler("typing", func(m map[string]interface{}) {
		if c.OnTyping != nil {
			go c.OnTyping(m)
		}
	}))

	c.socket.On("seenMessage", c.mapHandler("seenMessage", func(m map[string]interface{}) {
		if c.OnSeen != nil {
			go c.OnSeen(m)
		}
	}))

	c.socket.On("notification", c.mapHandler("notification", func(m map[string]interface{}) {
		if c.OnNotification != nil {
			go c.OnNotification(m)
		}
	}))

	c.socket.On("userStatusChange", c.mapHandler("userStatusChange", func(m map[string]interface{}) {
		if c.OnUserStatusChange != nil {
			go c.OnUserStatusChange(m)
		}
	}))
}

// mapHandler 把事件参数解析为 map 后交给回调
func (c *SocketClient) mapHandler(event string, fn func(map[string]interface{})) func(...interface{}) {
	return func(data ...interface{}) {
		defer recoverHandler(event)

		if len(data) == 0 {
			return
		}
		m, ok := data[0].(map[string]interface{})
		if !ok {
			log.Printf("⚠️ Unknown %s payload: %v", event, data[0])
			return
		}
		fn(m)
	}
}

// SendMessage 通过实时通道转发一条消息给对端
func (c *SocketClient) SendMessage(receiverID string, message interface{}) error {
	return c.emit("sendMessage", map[string]interface{}{
		"receiverId": receiverID,
		"message":    message,
	})
}

// SendTyping 上报正在输入状态
func (c *SocketClient) SendTyping(receiverID string, typing bool) error {
	return c.emit("typing", map[string]interface{}{
		"receiverId": receiverID,
		"senderId":   c.config.UserID,
		"isTyping":   typing,
	})
}

// SendSeen 给原发送者回已读回执
func (c *SocketClient) SendSeen(senderID string) error {
	return c.emit("seenMessage", seenReceipt(senderID, c.config.UserID))
}

// seenReceipt 已读回执负载，键名与服务端 seenMessage 处理器约定一致
func seenReceipt(senderID, seenBy string) map[string]interface{} {
	return map[string]interface{}{
		"senderId": senderID,
		"seenBy":   seenBy,
	}
}

func (c *SocketClient) emit(event string, data interface{}) error {
	defer recoverHandler("emit " + event)

	c.mu.RLock()
	socket := c.socket
	c.mu.RUnlock()

	if socket == nil || !c.IsConnected() {
		log.Printf("❌ Client not connected")
		return errors.New("client not connected")
	}

	socket.Emit(event, data)
	log.Printf("📤 Sent event: %s", event)

	return nil
}

func recoverHandler(name string) {
	if r := recover(); r != nil {
		log.Printf("⚠️ Panic recovered in %s handler: %v", name, r)
	}
}

func errorFromArgs(data []interface{}, fallback string) error {
	if len(data) > 0 && data[0] != nil {
		if e, ok := data[0].(error); ok {
			return e
		}
		return fmt.Errorf("%s: %v", fallback, data[0])
	}
	return errors.New(fallback + ": unknown error")
}
