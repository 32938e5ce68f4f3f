package relay_service

import (
	"fmt"
	"sync"
	"testing"

	socketio "github.com/zishang520/socket.io/servers/socket/v3"
)

func TestPresenceBindUnbind(t *testing.T) {
	table := NewPresenceTable()
	sid := socketio.SocketId("conn-1")

	table.Bind(sid, "user-1")
	if userID, ok := table.UserOf(sid); !ok || userID != "user-1" {
		t.Errorf("got (%q, %v), want (user-1, true)", userID, ok)
	}
	if table.Count() != 1 {
		t.Errorf("got count %d, want 1", table.Count())
	}

	userID, ok := table.Unbind(sid)
	if !ok || userID != "user-1" {
		t.Errorf("unbind got (%q, %v), want (user-1, true)", userID, ok)
	}
	if _, ok := table.UserOf(sid); ok {
		t.Error("connection still bound after unbind")
	}

	// 解绑未知连接返回 false
	if _, ok := table.Unbind(socketio.SocketId("ghost")); ok {
		t.Error("unbind reported success for unknown connection")
	}
}

func TestPresenceRebindOverwrites(t *testing.T) {
	table := NewPresenceTable()
	sid := socketio.SocketId("conn-1")

	table.Bind(sid, "user-1")
	table.Bind(sid, "user-2")

	if userID, _ := table.UserOf(sid); userID != "user-2" {
		t.Errorf("got %q, want user-2", userID)
	}
	if table.Count() != 1 {
		t.Errorf("got count %d, want 1", table.Count())
	}
}

func TestPresenceConcurrentAccess(t *testing.T) {
	table := NewPresenceTable()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid := socketio.SocketId(fmt.Sprintf("conn-%d", i))
			table.Bind(sid, fmt.Sprintf("user-%d", i))
			table.UserOf(sid)
			if i%2 == 0 {
				table.Unbind(sid)
			}
		}(i)
	}
	wg.Wait()

	if table.Count() != 32 {
		t.Errorf("got count %d, want 32", table.Count())
	}
}
