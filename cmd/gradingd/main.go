package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/brightmark/brightmark-core/internal/api/http"
	"github.com/brightmark/brightmark-core/internal/auth"
	"github.com/brightmark/brightmark-core/internal/bank"
	"github.com/brightmark/brightmark-core/internal/config"
	"github.com/brightmark/brightmark-core/internal/db"
	"github.com/brightmark/brightmark-core/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := bank.NewSQLStore(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)
	admin := auth.AdminCredentials{User: cfg.AdminUser, PassHash: cfg.AdminPassHash}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, admin))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Authoring: create, inspect, validate, delete bank questions.
		pr.With(rbac.Require("question:create")).
			Post("/questions", api.PutQuestionHandler(store))
		pr.With(rbac.Require("question:view")).
			Get("/questions", api.ListQuestionsHandler(store))
		pr.With(rbac.Require("question:view")).
			Get("/questions/{questionID}", api.GetQuestionHandler(store))
		pr.With(rbac.Require("question:delete")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(store))
		pr.With(rbac.Require("question:validate")).
			Post("/questions/validate", api.ValidateQuestionHandler())

		// Learner flow.
		pr.With(rbac.Require("grade:submit")).
			Post("/questions/{questionID}/grade", api.GradeHandler(store))

		// Authoring preview: question + response in one payload, nothing stored.
		pr.With(rbac.RequireAny("question:create", "question:validate")).
			Post("/grade/preview", api.PreviewGradeHandler())
	})

	log.Printf("gradingd listening on %s (db driver %s)", cfg.HTTPAddr, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatal(err)
	}
}
