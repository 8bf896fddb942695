package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/digitaleng1/digitalbuild-sub001/internal/config"
	"github.com/digitaleng1/digitalbuild-sub001/internal/controller"
	"github.com/digitaleng1/digitalbuild-sub001/internal/filestore"
	"github.com/digitaleng1/digitalbuild-sub001/internal/notify"
	"github.com/digitaleng1/digitalbuild-sub001/internal/repository"
	"github.com/digitaleng1/digitalbuild-sub001/internal/router"
	"github.com/digitaleng1/digitalbuild-sub001/internal/service"
)

type App struct {
	repo       *repository.Repository
	service    *service.Service
	controller *controller.Controller
	log        *logrus.Logger
	stopSig    chan os.Signal
	cfg        *config.Config

	Done chan struct{}
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

func WithLogger(log *logrus.Logger) option {
	return func(app *App) {
		app.log = log
	}
}

func NewApp(opts ...option) (*App, error) {
	var err error

	app := &App{
		stopSig: make(chan os.Signal, 2),
		Done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		cfg, err := config.NewConfig()
		if err != nil {
			return nil, err
		}
		app.cfg = cfg
	}

	if app.log == nil {
		app.log = logrus.StandardLogger()
		level, err := logrus.ParseLevel(app.cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		app.log.SetLevel(level)
	}

	app.repo, err = repository.NewRepository(nil, &app.cfg.PostgresConfig)
	if err != nil {
		return nil, err
	}

	files, err := filestore.NewDirStore(app.cfg.AttachmentDir)
	if err != nil {
		return nil, err
	}

	app.service = service.NewService(app.repo, notify.NewLogNotifier(app.log), files, app.log)
	app.controller = controller.NewController(app.service)

	return app, nil
}

func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signal.Notify(app.stopSig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-app.stopSig
		app.log.WithField("signal", sig.String()).Info("received stop signal")
		cancel()
	}()

	server := http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      router.NewRouter(app.controller),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			app.log.WithError(err).Error("http server error")
		}
	}()

	app.log.WithField("address", app.cfg.ServerAddress).Info("server started, listening for connections")
	<-ctx.Done()

	app.log.Info("shutting down http server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	err := server.Shutdown(shutdownCtx)
	if err != nil {
		app.log.WithError(err).Error("http server shutdown error")
	}

	app.log.Info("closing repository")
	err = app.repo.Close()
	if err != nil {
		app.log.WithError(err).Error("repository closing error")
	}

	close(app.Done)
	app.log.Info("exiting app")
}
