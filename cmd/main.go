package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/quizbank/config"
	"github.com/lshigami/quizbank/database"
	_ "github.com/lshigami/quizbank/docs" // Swagger docs - generated by swag init
	"github.com/lshigami/quizbank/internal/controller"
	"github.com/lshigami/quizbank/internal/controller/question"
	"github.com/lshigami/quizbank/internal/logger"
	"github.com/lshigami/quizbank/internal/repository"
	"github.com/lshigami/quizbank/internal/server"
	"github.com/lshigami/quizbank/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quiz Question API
// @version 1.0
// @description CRUD API for quiz questions and their answer choices.
// @host localhost:8000
// @BasePath /
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			server.NewGinEngine,  // Provides *gin.Engine
		),

		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewChoiceRepository,
		),

		fx.Provide(
			service.NewQuestionService,
			service.NewSeedService,
		),

		fx.Provide(
			question.NewQuestionController,
			controller.NewHealthController,
		),

		// Invokers run in order: logging first, schema before seeding, server last.
		fx.Invoke(logger.Configure),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedQuestions),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	questionCtrl *question.QuestionController,
	healthCtrl *controller.HealthController,
) {
	server.RegisterRoutes(router, questionCtrl, healthCtrl)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations for questions and choices...")
	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedQuestions loads SEED_FILE into an empty database. Without SEED_FILE it does nothing.
func SeedQuestions(cfg *config.Config, seeder service.SeedService) error {
	if cfg.SeedFile == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := seeder.SeedFromFile(ctx, cfg.SeedFile); err != nil {
		log.Error().Err(err).Str("file", cfg.SeedFile).Msg("Seeding failed")
		return err
	}
	return nil
}
