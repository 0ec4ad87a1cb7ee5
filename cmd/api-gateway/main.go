package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/strokecare/platform/pkg/common/config"
	"github.com/strokecare/platform/pkg/common/database"
	"github.com/strokecare/platform/pkg/common/kafka"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/gateway/auth"
	"github.com/strokecare/platform/pkg/gateway/middleware"
	"github.com/strokecare/platform/pkg/gateway/routes"
	"github.com/strokecare/platform/pkg/guidance"
	"github.com/strokecare/platform/pkg/identity"
	"github.com/strokecare/platform/pkg/scoring"
	"github.com/strokecare/platform/pkg/store"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "api-gateway",
		Short: "Stroke risk and FAST screening API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the record and user tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init()
			db, err := database.GetPostgres(config.Load())
			if err != nil {
				return err
			}
			defer database.ClosePostgres()
			return migrate(db)
		},
	}
}

func seedCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create demo patient, caregiver and doctor accounts on an empty directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init()
			db, err := database.GetPostgres(config.Load())
			if err != nil {
				return err
			}
			defer database.ClosePostgres()
			if err := migrate(db); err != nil {
				return err
			}

			users := identity.NewService(identity.NewRepository(db))
			n, err := users.Seed(cmd.Context(), []models.RegisterRequest{
				{Email: "patient@strokecare.local", Name: "Demo Patient", Role: models.RolePatient, Password: password},
				{Email: "caregiver@strokecare.local", Name: "Demo Caregiver", Role: models.RoleCaregiver, Password: password},
				{Email: "doctor@strokecare.local", Name: "Demo Doctor", Role: models.RoleDoctor, Password: password},
			})
			if err != nil {
				return err
			}
			logger.Log.WithField("created", n).Info("Seed complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "strokecare-demo", "password for the demo accounts")
	return cmd
}

func migrate(db *gorm.DB) error {
	if err := store.NewGormStore(db, nil).AutoMigrate(); err != nil {
		return fmt.Errorf("migrate records: %w", err)
	}
	if err := identity.NewRepository(db).AutoMigrate(); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}

func runServer() error {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres(cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer database.ClosePostgres()
	if err := migrate(db); err != nil {
		return err
	}

	redisClient := database.GetRedis(cfg)
	defer database.CloseRedis()

	catalog, err := guidance.Load(cfg.GuidanceCatalogPath)
	if err != nil {
		return fmt.Errorf("load guidance catalog: %w", err)
	}

	assessmentEvents := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaAssessmentTopic)
	defer assessmentEvents.Close()
	emergencyEvents := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEmergencyTopic)
	defer emergencyEvents.Close()

	opts := []engine.Option{
		engine.WithResultSlot(store.NewCurrentResults(redisClient, cfg.CurrentResultTTL)),
		engine.WithAssessmentEvents(assessmentEvents),
		engine.WithEmergencyEvents(emergencyEvents),
		engine.WithRetestInterval(cfg.RetestInterval),
		engine.WithDoctorTopN(cfg.DoctorPriorityListSize),
	}
	if cfg.ScoringServiceURL != "" {
		opts = append(opts, engine.WithRemoteScorer(scoring.NewRemoteClient(
			cfg.ScoringServiceURL, cfg.ScoringRequestTimeout, cfg.ScoringRetryAttempts, cfg.ScoringRetryBaseDelay,
		)))
		logger.Log.WithField("url", cfg.ScoringServiceURL).Info("Using remote scoring service")
	}
	eng := engine.New(store.NewGormStore(db, nil), catalog, opts...)

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("configure sessions: %w", err)
	}

	var external routes.ExternalLogin
	oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
	if err != nil {
		logger.Log.WithError(err).Warn("OIDC login not configured, password login only")
	} else {
		external = oidcAuth
	}

	users := identity.NewService(identity.NewRepository(db))
	router := routes.NewRouter(routes.Handlers{
		Auth:        routes.NewAuthHandler(users, tokens, external),
		Assessments: routes.NewAssessmentHandler(eng),
		FAST:        routes.NewFASTHandler(eng),
		Sharing:     routes.NewSharingHandler(eng),
		Dashboard:   routes.NewDashboardHandler(eng),
		Health: routes.NewHealthHandler(map[string]routes.Pinger{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	}, tokens,
		middleware.Logging,
		middleware.Recovery,
		middleware.CORS(cfg.CORSOrigin),
		middleware.RateLimit(cfg.GatewayRateLimitRPS, cfg.GatewayRateLimitBurst),
		middleware.BodyLimit(cfg.MaxRequestBody),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("API Gateway started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down API Gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("API Gateway stopped")
	return nil
}
