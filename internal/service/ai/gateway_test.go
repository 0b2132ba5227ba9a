package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// stubChatModel stands in for the hosted model so the gateway policy can be
// tested without network access.
type stubChatModel struct {
	reply string
	err   error
}

func (m *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (m *stubChatModel) BindTools(_ []*schema.ToolInfo) error {
	return nil
}

func newTestGateway(t *testing.T, stub *stubChatModel) *Gateway {
	t.Helper()
	g, err := newGateway(context.Background(), stub)
	if err != nil {
		t.Fatalf("newGateway err: %v", err)
	}
	return g
}

func TestAskFormatsReplyAsBullets(t *testing.T) {
	g := newTestGateway(t, &stubChatModel{reply: "first\nsecond"})

	got := g.Ask(context.Background(), "explain regression")
	want := "- first\n- second"
	if got != want {
		t.Fatalf("Ask result mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestAskEmptyReplyYieldsSentinel(t *testing.T) {
	g := newTestGateway(t, &stubChatModel{reply: ""})

	got := g.Ask(context.Background(), "anything")
	if got != NoResponseSentinel {
		t.Fatalf("expected sentinel, got %q", got)
	}
}

func TestAskTransportFailureBecomesContent(t *testing.T) {
	g := newTestGateway(t, &stubChatModel{err: errors.New("connection refused")})

	got := g.Ask(context.Background(), "anything")
	if !strings.HasPrefix(got, "API Error: ") {
		t.Fatalf("expected API Error prefix, got %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Fatalf("expected failure details in %q", got)
	}
}

func TestFormatBulleted(t *testing.T) {
	got := FormatBulleted("a\nb\nc")
	want := "- a\n- b\n- c"
	if got != want {
		t.Fatalf("FormatBulleted mismatch: got %q want %q", got, want)
	}

	if got := FormatBulleted("single"); got != "- single" {
		t.Fatalf("single line mismatch: got %q", got)
	}
}
