package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"voice-interview/internal/config"
	"voice-interview/internal/metrics"
	"voice-interview/internal/session"
	"voice-interview/internal/settings"
	"voice-interview/internal/storage"
)

// ResultArchive чтение архива результатов
type ResultArchive interface {
	ListResults(ctx context.Context) ([]storage.ResultSummary, error)
	LoadResult(ctx context.Context, interviewID string) (*storage.InterviewResult, error)
}

// Server HTTP-интерфейс сессии интервью
type Server struct {
	machine  *session.Machine
	settings *settings.Manager
	results  ResultArchive
	metrics  *metrics.Metrics
	config   *config.Config

	publicDir string
	limiter   *RateLimiter
}

// Options зависимости сервера
type Options struct {
	Machine            *session.Machine
	Settings           *settings.Manager
	Results            ResultArchive
	Metrics            *metrics.Metrics
	Config             *config.Config
	PublicDir          string
	RateLimitPerMinute int
}

func NewServer(opts Options) *Server {
	return &Server{
		machine:   opts.Machine,
		settings:  opts.Settings,
		results:   opts.Results,
		metrics:   opts.Metrics,
		config:    opts.Config,
		publicDir: opts.PublicDir,
		limiter:   NewRateLimiter(opts.RateLimitPerMinute, time.Minute),
	}
}

// Router собирает маршруты
func (s *Server) Router() http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	root.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	root.Mount("/api", s.apiRouter())
	root.Get("/ws/speech", s.ServeSpeech)

	if s.publicDir != "" {
		root.Handle("/*", http.FileServer(http.Dir(s.publicDir)))
	}

	return root
}

func (s *Server) apiRouter() http.Handler {
	api := chi.NewRouter()
	api.Use(s.limiter.Middleware)

	api.Route("/session", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Post("/start", s.action(func(*http.Request) error { return s.machine.Start() }))
		r.Post("/back", s.action(func(*http.Request) error { return s.machine.Back() }))
		r.Put("/language", s.SetLanguage)
		r.Post("/submit", s.Submit)
		r.Post("/preview/next", s.action(func(*http.Request) error { return s.machine.PreviewNext() }))

		r.Post("/introduction/start", s.action(func(*http.Request) error { return s.machine.StartIntroduction() }))
		r.Post("/introduction/stop", s.action(func(*http.Request) error { return s.machine.StopIntroduction() }))
		r.Post("/introduction/complete", s.action(func(*http.Request) error { return s.machine.CompleteIntroduction() }))

		r.Post("/interview/answer", s.action(func(*http.Request) error { return s.machine.StartAnswering() }))
		r.Post("/interview/next", s.action(func(*http.Request) error { return s.machine.GoNext() }))
		r.Post("/interview/previous", s.action(func(*http.Request) error { return s.machine.GoPrevious() }))
		r.Post("/interview/mark", s.action(func(*http.Request) error {
			_, err := s.machine.ToggleMark()
			return err
		}))

		r.Post("/restart", s.action(func(*http.Request) error {
			s.machine.Restart()
			return nil
		}))
	})

	api.Get("/settings", s.GetSettings)
	api.Patch("/settings", s.UpdateSettings)

	api.Get("/results", s.ListResults)
	api.Get("/results/{id}", s.GetResult)

	api.Get("/metrics", s.GetMetrics)
	api.Get("/config", s.GetClientConfig)

	return api
}
