package relay_service

import (
	"sync"

	socketio "github.com/zishang520/socket.io/servers/socket/v3"
)

// PresenceTable 连接->用户 的瞬态映射。只是加速器，不是在线状态的
// 权威来源（断线即失，重连重建）；权威状态在用户文档的 isOnline 上。
type PresenceTable struct {
	mu    sync.RWMutex
	users map[socketio.SocketId]string
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{
		users: make(map[socketio.SocketId]string),
	}
}

// Bind 绑定连接到用户，重复绑定以最后一次为准
func (t *PresenceTable) Bind(sid socketio.SocketId, userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users[sid] = userID
}

// Unbind 解绑连接，返回之前绑定的用户（若有）
func (t *PresenceTable) Unbind(sid socketio.SocketId) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	userID, ok := t.users[sid]
	if ok {
		delete(t.users, sid)
	}
	return userID, ok
}

// UserOf 查询连接当前绑定的用户
func (t *PresenceTable) UserOf(sid socketio.SocketId) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	userID, ok := t.users[sid]
	return userID, ok
}

// Count 当前绑定数
func (t *PresenceTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.users)
}
