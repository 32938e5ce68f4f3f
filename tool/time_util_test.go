package tool

import (
	"strings"
	"testing"
)

func TestMakeTimestamp(t *testing.T) {
	ts := MakeTimestamp()
	if ts <= 0 {
		t.Errorf("got %d", ts)
	}
}

func TestMakeDate(t *testing.T) {
	date := MakeDate(1756600000000)
	if !strings.HasPrefix(date, "2025-08-31") {
		t.Errorf("got %s", date)
	}
	if !strings.HasSuffix(date, "(UTC)") {
		t.Errorf("got %s", date)
	}
}
