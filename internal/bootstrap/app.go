package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"talent-backend/internal/applications"
	googleauth "talent-backend/internal/auth"
	"talent-backend/internal/dashboard"
	"talent-backend/internal/documents"
	"talent-backend/internal/extractions"
	"talent-backend/internal/models"
	"talent-backend/internal/oracle"
	"talent-backend/internal/oracle/remote"
	"talent-backend/internal/predictions"
	"talent-backend/internal/queue"
	"talent-backend/internal/recommendations"
	"talent-backend/internal/services/health"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/server"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/storage/object"
	localstore "talent-backend/internal/shared/storage/object/local"
	s3store "talent-backend/internal/shared/storage/object/s3"
	"talent-backend/internal/surveys"
	"talent-backend/internal/users"
	"talent-backend/internal/vacancies"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo    documents.Repo
	ExtractionsRepo  extractions.Repo
	PredictionsRepo  predictions.Repo
	ModelsRepo       models.Repo
	VacanciesRepo    vacancies.Repo
	ApplicationsRepo applications.Repo
	SurveysRepo      surveys.Repo
	UsersRepo        users.Repo

	DocumentsService       *documents.Service
	ExtractionsService     *extractions.Service
	ExtractionProcessor    ExtractionProcessor
	PredictionsService     *predictions.Service
	ModelsService          *models.Service
	RecommendationsService *recommendations.Service
	VacanciesService       *vacancies.Service
	ApplicationsService    *applications.Service
	SurveysService         *surveys.Service
	UsersService           *users.Service

	GoogleAuth *googleauth.GoogleService
}

// ExtractionProcessor allows callers to override extraction processing for tests.
type ExtractionProcessor interface {
	ProcessExtraction(ctx context.Context, extractionID string) error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(),
		Documents:       documents.NewHandler(app.DocumentsService),
		Extractions:     extractions.NewHandler(app.ExtractionsService),
		Predictions:     predictions.NewHandler(app.PredictionsService),
		Models:          models.NewHandler(app.ModelsService),
		Recommendations: recommendations.NewHandler(app.RecommendationsService),
		Vacancies:       vacancies.NewHandler(app.VacanciesService),
		Applications:    applications.NewHandler(app.ApplicationsService),
		Surveys:         surveys.NewHandler(app.SurveysService),
		Dashboard:       buildDashboard(sqlDB),
		Users:           users.NewHandler(app.UsersService),
		GoogleAuth:      app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("TB_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func buildDashboard(sqlDB *sql.DB) *dashboard.Handler {
	// Dashboard aggregates run in SQL; there is no memory-backed variant.
	if sqlDB == nil {
		return nil
	}
	return dashboard.NewHandler(&dashboard.PGRepo{DB: sqlDB})
}

func buildOracle(cfg config.Config) (oracle.Extractor, oracle.Scorer) {
	if strings.TrimSpace(cfg.ExtractionOracleURL) != "" || strings.TrimSpace(cfg.ScoringOracleURL) != "" {
		client := remote.New(cfg.ExtractionOracleURL, cfg.ScoringOracleURL, cfg.OracleTimeout)
		return client, client
	}
	heuristic := oracle.HeuristicClient{}
	return heuristic, heuristic
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.ExtractionsRepo = &extractions.PGRepo{DB: app.DB}
		app.PredictionsRepo = &predictions.PGRepo{DB: app.DB}
		app.ModelsRepo = &models.PGRepo{DB: app.DB}
		app.VacanciesRepo = &vacancies.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.SurveysRepo = &surveys.PGRepo{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.ExtractionsRepo = extractions.NewMemoryRepo()
		app.PredictionsRepo = predictions.NewMemoryRepo()
		app.ModelsRepo = models.NewMemoryRepo()
		app.VacanciesRepo = vacancies.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.SurveysRepo = surveys.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	extractor, scorer := buildOracle(app.Config)

	app.DocumentsService = &documents.Service{
		Store:          app.Store,
		Repo:           app.DocumentsRepo,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}

	app.ModelsService = &models.Service{Repo: app.ModelsRepo}

	app.PredictionsService = &predictions.Service{
		Repo:        app.PredictionsRepo,
		Extractions: app.ExtractionsRepo,
		Models:      app.ModelsRepo,
		Scorer:      scorer,
		MaxAttempts: app.Config.OracleMaxAttempts,
	}

	app.ExtractionsService = &extractions.Service{
		Repo:        app.ExtractionsRepo,
		DocRepo:     app.DocumentsRepo,
		Store:       app.Store,
		Extractor:   extractor,
		JobQueue:    app.Queue,
		MaxAttempts: app.Config.OracleMaxAttempts,
		OnCompleted: app.PredictionsService.ScoreCompleted,
	}
	app.ExtractionProcessor = app.ExtractionsService

	engineCfg := recommendations.DefaultEngineConfig()
	engineCfg.TopTalentThreshold = app.Config.TopTalentThreshold
	engineCfg.HighPriorityFraction = app.Config.HighPriorityFraction

	app.RecommendationsService = &recommendations.Service{
		Repo:        buildRecommendationsRepo(app.DB),
		Extractions: app.ExtractionsRepo,
		Predictions: app.PredictionsRepo,
		Window:      app.Config.AggregationWindow,
		Config:      engineCfg,
	}

	app.VacanciesService = &vacancies.Service{Repo: app.VacanciesRepo}
	app.ApplicationsService = &applications.Service{
		Repo:      app.ApplicationsRepo,
		Vacancies: app.VacanciesRepo,
	}
	app.SurveysService = &surveys.Service{
		Repo:        app.SurveysRepo,
		Predictions: app.PredictionsRepo,
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
}

func buildRecommendationsRepo(sqlDB *sql.DB) recommendations.Repo {
	if sqlDB != nil {
		return &recommendations.PGRepo{DB: sqlDB}
	}
	return recommendations.NewMemoryRepo()
}
