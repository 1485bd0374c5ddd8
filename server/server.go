package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"solar-forecaster/form"
	"solar-forecaster/models"
	"solar-forecaster/session"
)

// SessionCookie имя cookie с идентификатором сессии
const SessionCookie = "forecaster_session"

// Server HTTP: форма предсказания и JSON API
type Server struct {
	store       *session.Store
	endpoint    string
	corsOrigins []string
	logger      *slog.Logger
	router      chi.Router
}

func New(store *session.Store, endpoint string, corsOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:       store,
		endpoint:    endpoint,
		corsOrigins: corsOrigins,
		logger:      logger,
		router:      chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler маршрутизатор с CORS
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(s.router)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	// UI
	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleSubmit)
	s.router.Post("/reset", s.handleReset)

	// API
	s.router.Get("/api/features", s.handleFeatures)
	s.router.Get("/api/state", s.handleState)
	s.router.Get("/api/health", s.handleHealth)
}

// requestLogger пишет каждый запрос в slog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http запрос",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// session находит контроллер по cookie, при необходимости создает новую сессию
func (s *Server) session(w http.ResponseWriter, r *http.Request) *form.Controller {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	id, controller, created := s.store.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return controller
}

// GET /: форма с текущими значениями и результатом
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	controller := s.session(w, r)
	s.renderPage(w, http.StatusOK, controller.View())
}

// POST /: применяет значения формы и запрашивает прогноз
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	controller := s.session(w, r)

	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "некорректная форма",
			Details: err.Error(),
		})
		return
	}

	edits := make(map[string]string)
	for _, f := range form.Schema {
		if _, ok := r.PostForm[f.Key]; ok {
			edits[f.Key] = r.PostForm.Get(f.Key)
		}
	}

	// пока идет запрос, правки не применяются
	err := controller.EditAll(edits)
	if err == nil {
		// запрос не отменяется при обрыве соединения клиента
		_, err = controller.Submit(context.WithoutCancel(r.Context()))
	}
	if errors.Is(err, form.ErrSubmitInProgress) {
		s.renderPage(w, http.StatusConflict, controller.View())
		return
	}
	if err != nil {
		s.logger.Error("ошибка отправки формы", "error", err)
	}

	s.renderPage(w, http.StatusOK, controller.View())
}

// POST /reset: значения по умолчанию
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	controller := s.session(w, r)
	controller.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /api/features: схема формы и значения по умолчанию
func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"fields":   form.Schema,
		"defaults": form.DefaultFeatures(),
	})
}

// GET /api/state: состояние формы текущей сессии. Без сессии отдает
// форму по умолчанию и новую сессию не заводит.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var controller *form.Controller
	if c, err := r.Cookie(SessionCookie); err == nil {
		controller, _ = s.store.Get(c.Value)
	}
	if controller == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"state": models.Idle(),
			"view":  form.Render(form.DefaultFeatures(), models.Idle(), nil),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": controller.State(),
		"view":  controller.View(),
	})
}

// GET /api/health: проверка здоровья сервиса
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoint":  s.endpoint,
		"sessions":  s.store.Len(),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, view form.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, view); err != nil {
		s.logger.Error("ошибка рендеринга страницы", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("ошибка кодирования ответа", "error", err)
	}
}
