package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/quorial/idgate/pkg/audit"
	"github.com/quorial/idgate/pkg/authcore"
	"github.com/quorial/idgate/pkg/config"
)

type Server struct {
	Router   *mux.Router
	DB       *gorm.DB
	Registry *authcore.Registry
	Config   *config.Config
	Auditor  *audit.Logger
	srv      *http.Server
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	registry *authcore.Registry,
	auditor *audit.Logger,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddress,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:   router,
		DB:       db,
		Registry: registry,
		Config:   cfg,
		Auditor:  auditor,
		srv:      srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
