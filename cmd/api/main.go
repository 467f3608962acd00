package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlibekovAA/puppies-api/internal/common/bootstrap"
	commonhttp "github.com/AlibekovAA/puppies-api/internal/common/http"
	srv "github.com/AlibekovAA/puppies-api/internal/common/server"
	feedhttp "github.com/AlibekovAA/puppies-api/internal/feed/http"
	likehttp "github.com/AlibekovAA/puppies-api/internal/like/http"
	"github.com/AlibekovAA/puppies-api/internal/likestream"
	posthttp "github.com/AlibekovAA/puppies-api/internal/post/http"
	sessionhttp "github.com/AlibekovAA/puppies-api/internal/session/http"
	userhttp "github.com/AlibekovAA/puppies-api/internal/user/http"
)

func main() {
	app, err := bootstrap.NewAPIApp()
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to start api: %v\n", err))
		os.Exit(1)
	}
	log := app.Log
	defer log.Close()

	serverConfig := srv.DefaultServerConfig(app.Config.HTTPPort)
	server := srv.NewServer(serverConfig, newRouter(app))

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("api service: closing sessions, like stream and storage")
			return app.Close(ctx)
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "api", shutdownHooks)
}

func newRouter(app *bootstrap.App) http.Handler {
	log := app.Log
	cfg := app.Config
	requireSession := sessionhttp.Middleware(app.Auth, log)

	mux := http.NewServeMux()
	mux.Handle("GET /health", commonhttp.HealthHandler(log, app.Ping))
	mux.Handle("GET /metrics", promhttp.Handler())

	sessionhttp.NewHandler(app.Auth, cfg.RequestTimeout, log).Register(mux)
	userhttp.NewHandler(app.Users, cfg.RequestTimeout, log).Register(mux, requireSession)
	posthttp.NewHandler(app.Posts, cfg.RequestTimeout, log).Register(mux, requireSession)
	likehttp.NewHandler(app.Likes, cfg.RequestTimeout, log).Register(mux, requireSession)
	feedhttp.NewHandler(app.Feed, cfg.RequestTimeout, log).Register(mux, requireSession)
	likestream.NewHandler(app.Hub, app.Auth, log).Register(mux)

	return commonhttp.BuildBaseHandler(log, mux)
}
