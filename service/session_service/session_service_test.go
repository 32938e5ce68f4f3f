package session_service

import (
	"testing"
)

func openTempStore(t *testing.T) {
	t.Helper()
	if err := Close(); err != nil {
		t.Fatal(err)
	}
	if err := Init(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Close() })
}

func TestSingleActiveRefreshToken(t *testing.T) {
	openTempStore(t)

	if err := SetActiveRefreshToken("user-1", "token-a", 1); err != nil {
		t.Fatal(err)
	}
	if !Validate("user-1", "token-a") {
		t.Error("freshly stored token did not validate")
	}

	// 重新签发后旧值必须立刻失效
	if err := SetActiveRefreshToken("user-1", "token-b", 2); err != nil {
		t.Fatal(err)
	}
	if Validate("user-1", "token-a") {
		t.Error("superseded token still validates")
	}
	if !Validate("user-1", "token-b") {
		t.Error("current token did not validate")
	}
}

func TestValidateUnknownUser(t *testing.T) {
	openTempStore(t)

	if Validate("nobody", "token-a") {
		t.Error("validate succeeded for a user with no session")
	}
	if Validate("nobody", "") {
		t.Error("validate succeeded for an empty token")
	}
}

func TestClear(t *testing.T) {
	openTempStore(t)

	if err := SetActiveRefreshToken("user-1", "token-a", 1); err != nil {
		t.Fatal(err)
	}
	if err := Clear("user-1"); err != nil {
		t.Fatal(err)
	}
	if Validate("user-1", "token-a") {
		t.Error("cleared session still validates")
	}

	// 重复清除不报错
	if err := Clear("user-1"); err != nil {
		t.Errorf("second clear failed: %v", err)
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	openTempStore(t)

	if err := SetActiveRefreshToken("user-1", "token-a", 1); err != nil {
		t.Fatal(err)
	}
	if err := SetActiveRefreshToken("user-2", "token-b", 1); err != nil {
		t.Fatal(err)
	}
	if Validate("user-1", "token-b") {
		t.Error("token leaked across users")
	}
	if !Validate("user-2", "token-b") {
		t.Error("user-2 token did not validate")
	}
}
