package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		if userID := GetUserID(context.Background()); userID != "" {
			t.Errorf("Expected empty string, got %s", userID)
		}
	})

	t.Run("with user ID", func(t *testing.T) {
		t.Parallel()
		ctx := WithUserID(context.Background(), "U1234567890")
		if got := GetUserID(ctx); got != "U1234567890" {
			t.Errorf("Expected userID U1234567890, got %s", got)
		}
	})
}

func TestChatIDContext(t *testing.T) {
	t.Parallel()

	if chatID := GetChatID(context.Background()); chatID != "" {
		t.Errorf("Expected empty string, got %s", chatID)
	}

	ctx := WithChatID(context.Background(), "C0987654321")
	if got := GetChatID(ctx); got != "C0987654321" {
		t.Errorf("Expected chatID C0987654321, got %s", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if _, ok := GetRequestID(context.Background()); ok {
		t.Error("Expected no request ID in empty context")
	}

	if _, ok := GetRequestID(WithRequestID(context.Background(), "")); ok {
		t.Error("Expected empty request ID to be reported as missing")
	}

	ctx := WithRequestID(context.Background(), "req-1")
	got, ok := GetRequestID(ctx)
	if !ok || got != "req-1" {
		t.Errorf("GetRequestID() = (%q, %v), want (req-1, true)", got, ok)
	}
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithUserID(parent, "U1")
	parent = WithChatID(parent, "C1")
	parent = WithRequestID(parent, "req-1")
	cancel()

	detached := PreserveTracing(parent)

	if detached.Err() != nil {
		t.Errorf("Detached context should not be canceled, got %v", detached.Err())
	}
	if _, hasDeadline := detached.Deadline(); hasDeadline {
		t.Error("Detached context should not carry the parent deadline")
	}
	if GetUserID(detached) != "U1" {
		t.Errorf("user ID not preserved: %q", GetUserID(detached))
	}
	if GetChatID(detached) != "C1" {
		t.Errorf("chat ID not preserved: %q", GetChatID(detached))
	}
	if id, _ := GetRequestID(detached); id != "req-1" {
		t.Errorf("request ID not preserved: %q", id)
	}
}
