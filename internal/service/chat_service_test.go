package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/foodninja-api/internal/llm"
)

const emptyChat = "Please enter a message"

func TestReply_ForwardsMessageVerbatim(t *testing.T) {
	narrator := &fakeNarrator{text: "Oats are a good source of fibre."}
	svc := NewChatService(narrator, zap.NewNop())

	msg := "  Are oats healthy?\n"
	got, err := svc.Reply(context.Background(), msg, emptyChat)
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if got != "Oats are a good source of fibre." {
		t.Errorf("unexpected reply %q", got)
	}
	if narrator.gotPrompt != msg {
		t.Errorf("expected message forwarded unmodified, got %q", narrator.gotPrompt)
	}
}

func TestReply_EmptyMessage(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		narrator := &fakeNarrator{text: "unused"}
		svc := NewChatService(narrator, zap.NewNop())

		_, err := svc.Reply(context.Background(), msg, emptyChat)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %q, got %v", msg, err)
		}
		if verr.Message != emptyChat {
			t.Errorf("expected message %q, got %q", emptyChat, verr.Message)
		}
		if narrator.calls != 0 {
			t.Errorf("expected no model call for %q", msg)
		}
	}
}

func TestReply_UpstreamFailurePropagates(t *testing.T) {
	cause := errors.New("cohere HTTP 401: invalid api token")
	svc := NewChatService(&fakeNarrator{err: cause}, zap.NewNop())

	_, err := svc.Reply(context.Background(), "hello", emptyChat)

	var uerr *UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestReply_NotConfiguredPropagates(t *testing.T) {
	svc := NewChatService(&fakeNarrator{err: llm.ErrNotConfigured}, zap.NewNop())

	_, err := svc.Reply(context.Background(), "hello", emptyChat)
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestReply_EmptyAnswer(t *testing.T) {
	svc := NewChatService(&fakeNarrator{text: ""}, zap.NewNop())

	got, err := svc.Reply(context.Background(), "hello", emptyChat)
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if got != EmptyNarrativeText {
		t.Errorf("expected empty-answer warning, got %q", got)
	}
}
