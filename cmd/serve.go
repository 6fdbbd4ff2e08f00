package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"droscher.com/BreweryFinder/configs"
	"droscher.com/BreweryFinder/pkg/auth"
	"droscher.com/BreweryFinder/pkg/export"
	"droscher.com/BreweryFinder/pkg/mail"
	"droscher.com/BreweryFinder/pkg/photo"
	"droscher.com/BreweryFinder/pkg/repository"
	"droscher.com/BreweryFinder/pkg/server"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".BreweryFinder.json" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	storage := photo.NewStorage(conf, logger)
	authManager := auth.NewManager(conf, repo, logger)
	exporter := export.NewExporter(conf.Photos.DownloadDir, logger)
	mailer := mail.NewMailer(conf.Mail, logger)

	svr := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		ReadHeaderTimeout: timeout,
		Handler:           configureCORS(server.New(repo, authManager, storage, exporter, mailer, logger, conf).Handler()),
	}

	logger.Info("starting server", zap.Int("port", conf.Server.Port))

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
			"x-auth-token",
		},
		MaxAge: 86400, // 24 hours
	})

	return corsOpts.Handler(handler)
}
