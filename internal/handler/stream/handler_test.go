package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

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
	r.Get("/stream/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		handler.HandleStream(w, req, chi.URLParam(req, "sessionID"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessionSvc
}

// readFrame consumes one SSE frame and returns its event name and data line.
func readFrame(t *testing.T, br *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("read sse frame: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestStreamDeliversTurnEvents(t *testing.T) {
	srv, sessionSvc := setupServer(t, "- an answer")
	sess, err := sessionSvc.Login("ada", "")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream/"+sess.ID, nil)
	if err != nil {
		t.Fatalf("NewRequest err: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}

	br := bufio.NewReader(resp.Body)

	event, data := readFrame(t, br)
	if event != "status" {
		t.Fatalf("expected status frame first, got %q", event)
	}
	if !strings.Contains(data, "stream established") {
		t.Fatalf("unexpected status payload: %s", data)
	}

	// The status frame is written after the subscription is registered, so
	// a submit from here on is guaranteed to be observed.
	if _, _, err := sessionSvc.SubmitMessage(context.Background(), sess.ID, "What is overfitting?"); err != nil {
		t.Fatalf("SubmitMessage err: %v", err)
	}

	event, data = readFrame(t, br)
	if event != sessionService.EventTurnAppended {
		t.Fatalf("expected turn event, got %q", event)
	}
	var ev sessionService.Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if ev.Turn == nil || ev.Turn.Message != "What is overfitting?" {
		t.Fatalf("expected the submitted message in the first turn event, got %+v", ev.Turn)
	}

	event, _ = readFrame(t, br)
	if event != sessionService.EventTurnAppended {
		t.Fatalf("expected assistant turn event, got %q", event)
	}

	// Cancelling the request must end the stream; the server closing cleanly
	// is what lets t.Cleanup's srv.Close return.
	cancel()
	if _, err := br.ReadByte(); err == nil {
		t.Fatal("expected read to fail after cancel")
	}
}

func TestStreamUnknownSession(t *testing.T) {
	srv, _ := setupServer(t, "- an answer")

	resp, err := srv.Client().Get(srv.URL + "/stream/unknown")
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
