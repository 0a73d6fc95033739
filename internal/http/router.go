package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"journal/internal/auth"
	"journal/internal/blob"
	"journal/internal/config"
	"journal/internal/entry"
	"journal/internal/habit"
	"journal/internal/http/handler"
	mw "journal/internal/http/middleware"
	"journal/internal/insight"
	"journal/internal/media"
	"journal/internal/mood"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, blobStore blob.Store, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	moodSvc := &mood.Service{DB: db, Log: log}
	habitSvc := &habit.Service{DB: db, Log: log}

	entryH := &handler.EntryHandler{Svc: &entry.Service{DB: db, Log: log}}
	moodH := &handler.MoodHandler{Svc: moodSvc}
	habitH := &handler.HabitHandler{Svc: habitSvc}
	insightH := &handler.InsightHandler{Svc: &insight.Service{
		DB:     db,
		Log:    log,
		Moods:  moodSvc,
		Habits: habitSvc,
	}}

	r.Route("/entries", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", entryH.Create)
		r.Get("/", entryH.List)
		r.Get("/{id}", entryH.Get)
		r.Put("/{id}", entryH.Update)
		r.Delete("/{id}", entryH.Delete)
	})

	r.Route("/moods", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Put("/", moodH.Upsert)
		r.Get("/", moodH.List)
		r.Get("/today", moodH.Today)
		r.Get("/stats", moodH.Stats)
	})

	r.Route("/habits", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/", habitH.Create)
		r.Get("/", habitH.List)
		r.Put("/{id}", habitH.Update)
		r.Post("/{id}/archive", habitH.Archive)
		r.Post("/{id}/restore", habitH.Restore)
		r.Put("/{id}/completions", habitH.SetCompletion)
		r.Get("/{id}/completions", habitH.Completions)
	})

	r.Route("/insights", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Post("/generate", insightH.Generate)
		r.Get("/", insightH.List)
	})

	if blobStore != nil {
		mediaH := &handler.MediaHandler{Svc: &media.Service{DB: db, Log: log, Blob: blobStore}}
		r.Route("/media", func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtSvc))

			r.Post("/", mediaH.Upload)
			r.Get("/", mediaH.List)
			r.Delete("/{id}", mediaH.Delete)
		})
	}

	return r
}
