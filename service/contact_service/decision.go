package contact_service

import (
	"snapnova/controller/respond"
	"snapnova/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// validateSend 发起请求的准入判断。pending 是无序对上（任一方向）已存在的
// pending 请求，没有则传 nil。
func validateSend(sender *models.User, targetID primitive.ObjectID, pending *models.FriendRequest) error {
	if sender.ID == targetID {
		return respond.BadRequest("Cannot send request to yourself")
	}
	if friendsContain(sender.Friends, targetID) {
		return respond.BadRequest("Already friends")
	}
	if pending != nil {
		return respond.BadRequest("A pending request already exists")
	}
	return nil
}

// validateTransition 只有请求的接收者能对 pending 请求做出终态翻转
func validateTransition(request *models.FriendRequest, actor primitive.ObjectID) error {
	if request.ReceiverID != actor {
		return respond.Forbidden("Not authorized to act on this request")
	}
	if request.Status != models.RequestStatusPending {
		return respond.BadRequest("Request is no longer pending")
	}
	return nil
}

func friendsContain(friends []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, f := range friends {
		if f == id {
			return true
		}
	}
	return false
}
