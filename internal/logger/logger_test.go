package logger

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func TestWithContext_InjectsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := log.New(&buf, "[SERVER] ", 0)

	ctx := context.WithValue(context.Background(), RequestIDKey, "abc-123")

	derived := WithContext(ctx, base)
	derived.Printf("hello")

	if got := buf.String(); !strings.Contains(got, "[REQ:abc-123]") {
		t.Errorf("expected request id in log line, got %q", got)
	}
}

func TestWithContext_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := log.New(&buf, "", 0)

	if got := WithContext(context.Background(), base); got != base {
		t.Error("expected base logger back when context has no request id")
	}
}

func TestWithContext_NilBaseIsSafe(t *testing.T) {
	l := WithContext(context.Background(), nil)
	if l == nil {
		t.Fatal("expected a usable logger for a nil base")
	}
	l.Printf("must not panic")
}
