package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-custom-links/pkg/adapters/repository"
	"github.com/wadjakorntonsri/go-custom-links/pkg/config"
	"github.com/wadjakorntonsri/go-custom-links/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	backend, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	mux = handler.NewRouter(cfg, backend, backend, log)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
