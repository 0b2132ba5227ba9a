package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	"github.com/liangzhu/ds-tutor/backend/internal/service/history"
	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
)

type cannedAsker struct {
	reply string
}

func (a *cannedAsker) Ask(_ context.Context, _ string) string {
	return a.reply
}

func setupServer(t *testing.T, reply string) (*httptest.Server, *sessionService.Service) {
	t.Helper()
	store := history.NewFileStore(filepath.Join(t.TempDir(), "chat_history.json"))
	questions, comparisons, diagrams := catalog.Seed()
	content := catalog.NewMemoryStore(questions, comparisons, diagrams)
	sessionSvc := sessionService.NewService(store, &cannedAsker{reply: reply}, content)
	handler := New(sessionSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessionSvc
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestLiveFeedDeliversTranscriptFrames(t *testing.T) {
	srv, sessionSvc := setupServer(t, "- an answer")
	sess, err := sessionSvc.Login("ada", "")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/live/"+sess.ID), nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	var hello outgoingMessage
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello frame: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("expected connected frame first, got %q", hello.Type)
	}

	// The connected frame is written after the subscription is registered,
	// so a submit from here on is guaranteed to be observed.
	if _, _, err := sessionSvc.SubmitMessage(context.Background(), sess.ID, "What is overfitting?"); err != nil {
		t.Fatalf("SubmitMessage err: %v", err)
	}

	var frame outgoingMessage
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read transcript frame: %v", err)
	}
	if frame.Type != "transcript" {
		t.Fatalf("expected transcript frame, got %q", frame.Type)
	}
	if frame.Event == nil || frame.Event.Kind != sessionService.EventTurnAppended {
		t.Fatalf("expected a turn event in the frame, got %+v", frame.Event)
	}
	if frame.Event.Turn == nil || frame.Event.Turn.Message != "What is overfitting?" {
		t.Fatalf("expected the submitted message, got %+v", frame.Event.Turn)
	}

	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read assistant frame: %v", err)
	}
	if frame.Event == nil || frame.Event.Turn == nil || frame.Event.Turn.Message != "- an answer" {
		t.Fatalf("expected the assistant reply, got %+v", frame.Event)
	}
}

func TestLiveFeedUnknownSession(t *testing.T) {
	srv, _ := setupServer(t, "- an answer")

	resp, err := srv.Client().Get(srv.URL + "/live/unknown")
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLiveFeedUnknownSessionOverDialer(t *testing.T) {
	srv, _ := setupServer(t, "- an answer")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/live/unknown"), nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
