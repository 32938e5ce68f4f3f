package client

import "testing"

func TestSeenReceiptPayloadKeys(t *testing.T) {
	payload := seenReceipt("sender-1", "viewer-2")

	// 服务端按 senderId 路由、读 seenBy 转发，键名错了事件会被静默丢弃
	if got, _ := payload["senderId"].(string); got != "sender-1" {
		t.Errorf("senderId = %q, want sender-1", got)
	}
	if got, _ := payload["seenBy"].(string); got != "viewer-2" {
		t.Errorf("seenBy = %q, want viewer-2", got)
	}
	if _, exists := payload["receiverId"]; exists {
		t.Error("payload carries a receiverId key the server never reads")
	}
}
