package contact_service

import (
	"testing"

	"snapnova/controller/respond"
	"snapnova/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateSend(t *testing.T) {
	self := primitive.NewObjectID()
	friend := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	sender := &models.User{
		ID:      self,
		Friends: []primitive.ObjectID{friend},
	}

	if err := validateSend(sender, stranger, nil); err != nil {
		t.Errorf("valid target rejected: %v", err)
	}

	if err := validateSend(sender, self, nil); err == nil {
		t.Error("self request accepted")
	}

	if err := validateSend(sender, friend, nil); err == nil {
		t.Error("request to existing friend accepted")
	}

	// 任一方向已有 pending 都要拒绝，方向由调用方查询时消掉
	pending := &models.FriendRequest{
		SenderID:   stranger,
		ReceiverID: self,
		Status:     models.RequestStatusPending,
	}
	if err := validateSend(sender, stranger, pending); err == nil {
		t.Error("duplicate pending request accepted")
	}
}

func TestValidateSendErrorsAreBadRequest(t *testing.T) {
	self := primitive.NewObjectID()
	sender := &models.User{ID: self}

	err := validateSend(sender, self, nil)
	apiErr, ok := err.(*respond.APIError)
	if !ok {
		t.Fatalf("got %T, want *respond.APIError", err)
	}
	if apiErr.Status != 400 {
		t.Errorf("got status %d, want 400", apiErr.Status)
	}
}

func TestValidateTransition(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()

	request := &models.FriendRequest{
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.RequestStatusPending,
	}

	if err := validateTransition(request, receiver); err != nil {
		t.Errorf("receiver rejected: %v", err)
	}

	// 发起者不能替接收者做决定
	err := validateTransition(request, sender)
	if err == nil {
		t.Fatal("sender was allowed to act on own request")
	}
	if apiErr, ok := err.(*respond.APIError); !ok || apiErr.Status != 403 {
		t.Errorf("got %v, want 403 APIError", err)
	}

	// 已终态的请求不能再翻转
	for _, status := range []string{models.RequestStatusAccepted, models.RequestStatusRejected} {
		request.Status = status
		if err := validateTransition(request, receiver); err == nil {
			t.Errorf("transition allowed on %s request", status)
		}
	}
}

func TestFriendsContain(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if friendsContain(nil, a) {
		t.Error("empty list reported a match")
	}
	if !friendsContain([]primitive.ObjectID{b, a}, a) {
		t.Error("missed an existing entry")
	}
	if friendsContain([]primitive.ObjectID{b}, a) {
		t.Error("false positive")
	}
}
