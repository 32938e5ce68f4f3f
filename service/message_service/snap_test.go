package message_service

import (
	"testing"
	"time"

	"snapnova/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestSnap(sender, receiver primitive.ObjectID) *models.Message {
	return &models.Message{
		ID:           primitive.NewObjectID(),
		SenderID:     sender,
		ReceiverID:   receiver,
		MediaURL:     "https://media.example.com/snap.jpg",
		MediaType:    models.MediaTypeImage,
		IsSnap:       true,
		SnapDuration: 10,
		CreatedAt:    time.Now(),
	}
}

func TestOpenSnapFirstOpenByReceiver(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	snap := newTestSnap(sender, receiver)
	if !openSnap(snap, receiver, now) {
		t.Fatal("first open by receiver did not start the countdown")
	}
	if snap.ExpiresAt == nil {
		t.Fatal("expiry not set")
	}
	want := now.Add(10 * time.Second)
	if !snap.ExpiresAt.Equal(want) {
		t.Errorf("got expiry %v, want %v", snap.ExpiresAt, want)
	}
	if !snap.IsSeen {
		t.Error("snap not marked seen")
	}
}

func TestOpenSnapSenderPreviewDoesNotStartCountdown(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()

	snap := newTestSnap(sender, receiver)
	if openSnap(snap, sender, time.Now()) {
		t.Error("sender preview started the countdown")
	}
	if snap.ExpiresAt != nil {
		t.Error("expiry set on sender preview")
	}
}

func TestOpenSnapSecondOpenKeepsOriginalExpiry(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()
	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	snap := newTestSnap(sender, receiver)
	openSnap(snap, receiver, first)
	want := *snap.ExpiresAt

	// 重复打开不得续命
	if openSnap(snap, receiver, first.Add(time.Hour)) {
		t.Error("second open reported a state change")
	}
	if !snap.ExpiresAt.Equal(want) {
		t.Errorf("expiry moved from %v to %v", want, snap.ExpiresAt)
	}
}

func TestOpenSnapIgnoresRegularMessages(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()

	message := newTestSnap(sender, receiver)
	message.IsSnap = false
	if openSnap(message, receiver, time.Now()) {
		t.Error("regular message treated as snap")
	}
	if message.ExpiresAt != nil {
		t.Error("expiry set on regular message")
	}
}
