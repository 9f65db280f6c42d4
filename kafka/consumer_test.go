package kafka

import (
	"context"
	"errors"
	"testing"
)

type trackMessage struct {
	AdURL string `json:"adURL"`
}

func TestTypedMessageHandlerSuccess(t *testing.T) {
	var processed *trackMessage
	handler := &TypedMessageHandler[trackMessage]{
		Process: func(ctx context.Context, msg *trackMessage) error {
			processed = msg
			return nil
		},
	}

	shouldMark, err := handler.HandleMessage(context.Background(), []byte(`{"adURL":"https://example.com"}`))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !shouldMark {
		t.Error("successful processing should mark the message")
	}
	if processed == nil || processed.AdURL != "https://example.com" {
		t.Errorf("processed = %+v", processed)
	}
}

func TestTypedMessageHandlerProcessErrorLeavesUnmarked(t *testing.T) {
	handler := &TypedMessageHandler[trackMessage]{
		Process: func(ctx context.Context, msg *trackMessage) error {
			return errors.New("downstream unavailable")
		},
		AlwaysMark: true,
	}

	shouldMark, err := handler.HandleMessage(context.Background(), []byte(`{"adURL":"x"}`))
	if err == nil {
		t.Fatal("expected the processing error back")
	}
	if shouldMark {
		t.Error("processing failures must not be marked, even with AlwaysMark")
	}
}

func TestTypedMessageHandlerValidationFailure(t *testing.T) {
	handler := &TypedMessageHandler[trackMessage]{
		Validate: func(msg *trackMessage) bool { return msg.AdURL != "" },
		Process: func(ctx context.Context, msg *trackMessage) error {
			t.Error("rejected message must not be processed")
			return nil
		},
		AlwaysMark: true,
	}

	shouldMark, err := handler.HandleMessage(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !shouldMark {
		t.Error("AlwaysMark should mark rejected messages so they are not retried")
	}
}

func TestTypedMessageHandlerBadJSON(t *testing.T) {
	handler := &TypedMessageHandler[trackMessage]{
		Process: func(ctx context.Context, msg *trackMessage) error {
			t.Error("undecodable message must not be processed")
			return nil
		},
	}

	shouldMark, err := handler.HandleMessage(context.Background(), []byte(`{broken`))
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if shouldMark {
		t.Error("without AlwaysMark, undecodable messages stay unmarked")
	}
}
