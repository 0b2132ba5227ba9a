package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	catalogHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/catalog"
	chatHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/chat"
	codeHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/code"
	liveHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/live"
	sessionHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/session"
	streamHandler "github.com/liangzhu/ds-tutor/backend/internal/handler/stream"
	middlewarePkg "github.com/liangzhu/ds-tutor/backend/internal/middleware"
	catalogModel "github.com/liangzhu/ds-tutor/backend/internal/model/catalog"
	runnerService "github.com/liangzhu/ds-tutor/backend/internal/service/runner"
	sessionService "github.com/liangzhu/ds-tutor/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(content catalogModel.Store, sessionSvc *sessionService.Service, runnerSvc *runnerService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	sessions := sessionHandler.New(sessionSvc)
	conversation := chatHandler.New(sessionSvc, content)
	codes := codeHandler.New(sessionSvc, runnerSvc)
	contents := catalogHandler.New(content)
	live := liveHandler.New(sessionSvc)
	stream := streamHandler.New(sessionSvc)

	r.Route("/api", func(api chi.Router) {
		sessions.RegisterRoutes(api)
		conversation.RegisterRoutes(api)
		codes.RegisterRoutes(api)
		contents.RegisterRoutes(api)
		live.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			stream.HandleStream(w, r, chi.URLParam(r, "sessionID"))
		})
	})

	return r
}
