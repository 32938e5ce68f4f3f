package story_service

import (
	"testing"
	"time"

	"snapnova/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewStoryExpiryFixedAtCreation(t *testing.T) {
	owner := primitive.NewObjectID()
	now := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	story := NewStory(owner, "https://media.example.com/s.jpg", models.MediaTypeImage, "hello", now)

	want := now.Add(24 * time.Hour)
	if !story.ExpiresAt.Equal(want) {
		t.Errorf("got expiry %v, want %v", story.ExpiresAt, want)
	}
	if story.UserID != owner {
		t.Error("owner not set")
	}
	if story.Viewers == nil || len(story.Viewers) != 0 {
		t.Error("viewers should start as an empty list")
	}
}

func TestNewStoryDefaultsToImage(t *testing.T) {
	story := NewStory(primitive.NewObjectID(), "url", "", "", time.Now())
	if story.MediaType != models.MediaTypeImage {
		t.Errorf("got media type %q, want image", story.MediaType)
	}
}

func TestGroupByOwnerPreservesFirstAppearanceOrder(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	owners := map[primitive.ObjectID]models.PublicUser{
		alice: {ID: alice, Username: "alice"},
		bob:   {ID: bob, Username: "bob"},
	}

	// 时间倒序输入：bob 最新，alice 次之，bob 还有一条旧的
	stories := []models.Story{
		{ID: primitive.NewObjectID(), UserID: bob},
		{ID: primitive.NewObjectID(), UserID: alice},
		{ID: primitive.NewObjectID(), UserID: bob},
	}

	groups := groupByOwner(stories, owners)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].User.Username != "bob" || groups[1].User.Username != "alice" {
		t.Errorf("group order wrong: %s, %s", groups[0].User.Username, groups[1].User.Username)
	}
	if len(groups[0].Stories) != 2 {
		t.Errorf("bob should have 2 stories, got %d", len(groups[0].Stories))
	}
	if len(groups[1].Stories) != 1 {
		t.Errorf("alice should have 1 story, got %d", len(groups[1].Stories))
	}
}

func TestGroupByOwnerSkipsUnknownOwners(t *testing.T) {
	known := primitive.NewObjectID()
	unknown := primitive.NewObjectID()

	owners := map[primitive.ObjectID]models.PublicUser{
		known: {ID: known, Username: "known"},
	}
	stories := []models.Story{
		{ID: primitive.NewObjectID(), UserID: unknown},
		{ID: primitive.NewObjectID(), UserID: known},
	}

	groups := groupByOwner(stories, owners)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].User.Username != "known" {
		t.Errorf("got %s, want known", groups[0].User.Username)
	}
}

func TestGroupByOwnerEmptyInput(t *testing.T) {
	groups := groupByOwner(nil, nil)
	if groups == nil {
		t.Fatal("want empty slice, got nil")
	}
	if len(groups) != 0 {
		t.Errorf("got %d groups, want 0", len(groups))
	}
}
