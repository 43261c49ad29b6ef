package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"voice-interview/internal/interview"
	"voice-interview/internal/interviewer"
	"voice-interview/internal/log"
	"voice-interview/internal/session"
	"voice-interview/internal/settings"
	"voice-interview/internal/speech"
	"voice-interview/internal/storage"
)

type sessionResponse struct {
	Session session.View `json:"session"`
	Error   string       `json:"error,omitempty"`
	Fields  []string     `json:"fields,omitempty"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type clientConfig struct {
	Languages       []languageOption `json:"languages"`
	Purposes        []string         `json:"purposes"`
	DefaultLanguage string           `json:"defaultLanguage"`
	PassThreshold   int              `json:"passThreshold"`
}

type languageOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// action оборачивает переход сессии: ответ всегда содержит текущее состояние
func (s *Server) action(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondSession(w, r, fn(r))
	}
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, err error) {
	resp := sessionResponse{}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		resp.Error = err.Error()
		var vErr *interview.ValidationError
		if errors.As(err, &vErr) {
			resp.Fields = vErr.Fields
		}
		if status >= http.StatusInternalServerError {
			log.Errorf("session: %v", err)
		} else {
			log.Debugf("session: %v", err)
		}
	}
	resp.Session = s.machine.Snapshot()

	render.Status(r, status)
	render.JSON(w, r, resp)
}

// statusFor сопоставляет ошибки домена с HTTP статусами
func statusFor(err error) int {
	var (
		vErr   *interview.ValidationError
		genErr *interviewer.GenerationError
		evErr  *interviewer.EvaluationError
		recErr *speech.RecognitionError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrInFlight),
		errors.Is(err, session.ErrStale),
		errors.Is(err, session.ErrIntroductionTooShort):
		return http.StatusConflict
	case errors.Is(err, speech.ErrUnsupportedPlatform):
		return http.StatusPreconditionFailed
	case errors.As(err, &genErr), errors.As(err, &evErr), errors.As(err, &recErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, nil)
}

func (s *Server) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	s.respondSession(w, r, s.machine.SetLanguage(req.Language))
}

func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var info interview.ApplicantInfo
	if err := render.DecodeJSON(r.Body, &info); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	s.respondSession(w, r, s.machine.Submit(r.Context(), info))
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.settings.Get())
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if err := render.DecodeJSON(r.Body, &patch); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	updated, err := s.settings.Update(patch)
	switch {
	case errors.Is(err, settings.ErrInvalid):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		log.Errorf("settings.update: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, updated)
}

func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.results.ListResults(r.Context())
	if err != nil {
		log.Errorf("results.list: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string]any{
		"results": results,
	})
}

func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := s.results.LoadResult(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Debugf("results.get: not found (%s)", id)
		w.WriteHeader(http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("results.get: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, result)
}

func (s *Server) GetMetrics(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.metrics.GetSnapshot())
}

func (s *Server) GetClientConfig(w http.ResponseWriter, r *http.Request) {
	cfg := clientConfig{
		Purposes:        s.config.Purposes,
		DefaultLanguage: s.config.GetDefaultLanguage(),
		PassThreshold:   s.config.GetPassThreshold(),
	}
	for _, lang := range s.config.Languages {
		cfg.Languages = append(cfg.Languages, languageOption{Code: lang.Code, Name: lang.Name})
	}
	render.JSON(w, r, cfg)
}
