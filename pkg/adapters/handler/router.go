package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/go-custom-links/pkg/config"
	"github.com/wadjakorntonsri/go-custom-links/pkg/ports"
	"go.uber.org/zap"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, users ports.UserRepository, store ports.RecordStore, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	registry := NewRegistry(users, store, log)
	wh := NewWidgetHandler(registry, log)
	mw := NewMiddleware(cfg, log)
	authHandler := NewAuthHandler(cfg, users, registry, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (widget & API)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /widget", wh.Page)
	protectedMux.HandleFunc("POST /widget/intent", wh.Intent)
	protectedMux.HandleFunc("POST /widget/pane", wh.Pane)
	protectedMux.HandleFunc("GET /api/v1/links", wh.Links)
	protectedMux.HandleFunc("GET /api/v1/form", wh.Form)

	protected := mw.AuthMiddleware(protectedMux)
	mux.Handle("/widget", protected)
	mux.Handle("/widget/", protected)
	mux.Handle("/api/v1/", protected)

	return mw.AccessLog(mw.Recovery(mux))
}
