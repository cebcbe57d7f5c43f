package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Badsnus/qrlabels/internal/adapters/assets"
	"github.com/Badsnus/qrlabels/internal/adapters/config"
	"github.com/Badsnus/qrlabels/internal/adapters/controller/rest"
	"github.com/Badsnus/qrlabels/internal/adapters/database/postgres"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/internal/domain/service"
	"github.com/Badsnus/qrlabels/pkg/generator"
	"github.com/Badsnus/qrlabels/pkg/logger"
	"github.com/Badsnus/qrlabels/pkg/logger/types"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	HTTP   *http.Server
	Logger *types.Logger
}

func New(cfg *config.Config) (*Server, error) {
	serverLogger, err := logger.Named("http")
	if err != nil {
		return nil, err
	}
	rendererLogger, err := logger.Named("renderer")
	if err != nil {
		return nil, err
	}
	assetsLogger, err := logger.Named("assets")
	if err != nil {
		return nil, err
	}

	registry := labels.NewRegistry(cfg.Labels.DefaultTemplate)
	if cfg.Labels.TemplatesFile != "" {
		n, err := registry.LoadFile(cfg.Labels.TemplatesFile)
		if err != nil {
			return nil, err
		}
		logger.Log.Infof("Loaded %d templates from %s", n, cfg.Labels.TemplatesFile)
	}

	var cache assets.Cache
	if cfg.Redis != nil {
		cache = cfg.Redis.Images
	}
	var jobs service.RenderJobStorage
	if cfg.Database != nil {
		jobs = postgres.NewRenderJobStorage(cfg.Database)
	}

	resolver := assets.NewResolver(cfg.Labels.AssetsDir, cfg.QR, cache, cfg.Labels.Workers, assetsLogger)
	sheets := service.NewSheetService(registry, resolver, jobs, service.SheetOptions{
		StrictTemplates: cfg.Labels.StrictTemplates,
		PrintDPI:        cfg.Labels.PrintDPI,
		PreviewDPI:      cfg.Labels.PreviewDPI,
	}, rendererLogger)
	qrs := service.NewQrService(generator.NewQrCode(cfg.QR, cfg.Labels.AssetsDir), rendererLogger)

	router := rest.NewRouter(rest.RouterOptions{
		Mode:         cfg.HTTP.Mode,
		AllowOrigins: cfg.HTTP.AllowOrigins,
	}, sheets, qrs, serverLogger)

	return &Server{
		HTTP: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Logger: serverLogger,
	}, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Server starting on %s", s.HTTP.Addr)
		if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.HTTP.Shutdown(shutdownCtx)
}
