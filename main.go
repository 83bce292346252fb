package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/procureconcierge/portalbackend/app"
	"github.com/procureconcierge/portalbackend/config"
	"github.com/procureconcierge/portalbackend/database"
	"github.com/procureconcierge/portalbackend/mailer"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/storage"
)

func main() {
	cfg := config.Load()
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			log.Println(e)
		}
		log.Fatal("invalid configuration")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		logger = logger.Level(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to mongo")
	}
	defer client.Disconnect(context.Background())
	db := client.Database("procurementConcierge")
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("unable to create indexes")
	}

	var blobs storage.BlobStore
	switch cfg.FileStorageBackend {
	case config.BackendGCS:
		gcsStore, err := storage.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("unable to initialize gcs storage")
		}
		defer gcsStore.Close()
		blobs = gcsStore
	default:
		localStore, err := storage.NewLocalStore(cfg.FileStorageDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("unable to initialize local storage")
		}
		blobs = localStore
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.MailerHost,
		Port:     cfg.MailerPort,
		Username: cfg.MailerUser,
		Password: cfg.MailerPass,
		From:     cfg.MailerFrom,
		RootURL:  cfg.MailerRootURL,
	}, logger)

	var basicAuth *app.BasicAuth
	if cfg.BasicAuthEnabled() {
		basicAuth = &app.BasicAuth{
			Username:     cfg.BasicAuthUsername,
			PasswordHash: cfg.BasicAuthPasswordHash,
		}
	}

	routes, err := app.CreateRouter(app.RouterParams{
		Models: app.Models{
			Users:                database.NewUserStore(db),
			Sessions:             database.NewSessionStore(db),
			Rfis:                 database.NewRfiStore(db),
			Files:                database.NewFileStore(db),
			Feedback:             database.NewFeedbackStore(db),
			VendorIdeas:          database.NewVendorIdeaStore(db),
			ForgotPasswordTokens: database.NewForgotPasswordTokenStore(db),
		},
		Blobs:           blobs,
		Mailer:          mail,
		TokenSecret:     cfg.TokenSecret,
		FeedbackAddress: cfg.FeedbackMailAddress,
		BasicAuth:       basicAuth,
		Hooks:           []server.RouteHook{server.LoggerHook{Logger: logger}},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to compose router")
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	allowedOrigins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server.Bind(server.AdapterParams{
		Engine:           engine,
		Routes:           routes,
		Sessions:         database.NewSessionStore(db),
		CookieSecret:     cfg.CookieSecret,
		TmpDir:           cfg.TmpDir,
		MaxMultipartSize: cfg.MaxMultipartFilesSize,
		Logger:           logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
	logger.Info().Str("addr", addr).Msg("server started")
	if err := engine.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
