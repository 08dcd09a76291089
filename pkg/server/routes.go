// Package server exposes the anonymization service over HTTP.
package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/riandyrn/otelchi"

	"github.com/securex/securex/internal"
	"github.com/securex/securex/pkg/auth"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/server/apihandlers"
)

var log = internal.GetLogger()

const (
	RouterName        = "securex"
	ReadHeaderTimeout = 5 * time.Second
	// MaxRequestSize bounds request bodies; documents arrive as plain text.
	MaxRequestSize = 10 << 20
)

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) (*http.Server, error) {
	router, err := setupRouter(appState)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			appState.Config.Server.Host,
			appState.Config.Server.Port,
		),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}, nil
}

func setupRouter(appState *models.AppState) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(
		httpLogger.Logger("router", log),
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		middleware.CleanPath,
		SendVersion,
		middleware.Heartbeat("/healthz"),
		middleware.RequestSize(MaxRequestSize),
		otelchi.Middleware(
			RouterName,
			otelchi.WithChiRoutes(router),
			otelchi.WithRequestMethodInSpanName(true),
		),
	)

	if appState.Config.Auth.Required {
		log.Info("JWT authentication required")
		verifier, err := auth.JWTVerifier(appState.Config)
		if err != nil {
			return nil, err
		}
		router.Use(verifier)
		router.Use(jwtauth.Authenticator)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/fields", apihandlers.GetFieldsHandler(appState))

		// Text routes
		r.Post("/analyze", apihandlers.AnalyzeHandler(appState))
		r.Post("/anonymize", apihandlers.AnonymizeHandler(appState))
		r.Post("/deanonymize", apihandlers.DeanonymizeHandler(appState))
		r.Post("/annotate", apihandlers.AnnotateHandler(appState))

		// FIR record routes
		r.Route("/records", func(r chi.Router) {
			r.Post("/", apihandlers.CreateRecordHandler(appState))
			r.Get("/", apihandlers.GetRecordListHandler(appState))
			r.Route("/{recordId}", func(r chi.Router) {
				r.Get("/", apihandlers.GetRecordHandler(appState))
				r.Get("/reveal", apihandlers.RevealRecordHandler(appState))
				r.Delete("/", apihandlers.DeleteRecordHandler(appState))
			})
		})

		// Document routes
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", apihandlers.CreateDocumentHandler(appState))
			r.Get("/", apihandlers.GetDocumentListHandler(appState))
			r.Route("/{documentId}", func(r chi.Router) {
				r.Get("/", apihandlers.GetDocumentHandler(appState))
				r.Get("/annotations", apihandlers.GetDocumentAnnotationsHandler(appState))
				r.Post("/anonymize", apihandlers.AnonymizeDocumentHandler(appState))
				r.Delete("/", apihandlers.DeleteDocumentHandler(appState))
			})
		})
	})

	return router, nil
}
