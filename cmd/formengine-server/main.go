// Command formengine-server runs the form-engine REST service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-formengine/internal/api"
	"github.com/goliatone/go-formengine/internal/config"
	"github.com/goliatone/go-formengine/internal/pkg/logger"
	"github.com/goliatone/go-formengine/internal/service"
	"github.com/goliatone/go-formengine/pkg/render"
	"github.com/goliatone/go-formengine/pkg/renderers/vanilla"
	"github.com/goliatone/go-formengine/pkg/repository"
	"github.com/goliatone/go-formengine/pkg/repository/httpclient"
	"github.com/goliatone/go-formengine/pkg/repository/memory"
	"github.com/goliatone/go-formengine/pkg/repository/yamlstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "formengine-server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.L()

	templates, assets, usage, err := buildStores(cfg)
	if err != nil {
		return err
	}

	templateSvc := service.NewTemplateService(templates, log)
	assetSvc := service.NewAssetService(templates, assets, usage, log)
	renderSvc, err := buildRenderService(cfg, templates, log)
	if err != nil {
		return err
	}
	router := api.NewRouter(templateSvc, assetSvc, renderSvc, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Kind),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}

// buildRenderService assembles the preview pipeline: registered renderers
// plus the theme resolved once at startup from the render configuration.
func buildRenderService(cfg *config.Config, templates repository.TemplateRepository, log *zap.Logger) (*service.RenderService, error) {
	htmlRenderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}

	var themeCfg *render.ThemeConfig
	if cfg.Render.Theme != "" {
		selector, err := render.NewFileSelector(cfg.Render.ThemesDir)
		if err != nil {
			return nil, err
		}
		themeCfg, err = render.ResolveTheme(selector, cfg.Render.Theme, cfg.Render.ThemeVariant)
		if err != nil {
			return nil, err
		}
	}
	return service.NewRenderService(templates, registry, cfg.Render.DefaultRenderer, themeCfg, log), nil
}

// buildStores selects the backing store from configuration. The http store
// omits the usage recorder: the remote service tracks usage itself.
func buildStores(cfg *config.Config) (repository.TemplateRepository, repository.AssetRepository, repository.UsageRecorder, error) {
	switch cfg.Store.Kind {
	case "memory":
		store := memory.New()
		return store, store, store, nil
	case "yaml":
		templates, err := yamlstore.Open(cfg.Store.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		// Assets stay in memory; the yaml store only persists templates.
		assets := memory.New()
		return templates, assets, templates, nil
	case "http":
		client, err := httpclient.New(cfg.Store.BaseURL, httpclient.WithAuthToken(cfg.Store.Token))
		if err != nil {
			return nil, nil, nil, err
		}
		return client, client, nil, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}
