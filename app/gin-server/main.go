package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prepwise/airecruiter/config"
	"github.com/prepwise/airecruiter/internal/api/handlers"
	"github.com/prepwise/airecruiter/internal/api/middleware"
	"github.com/prepwise/airecruiter/internal/api/routes"
	"github.com/prepwise/airecruiter/internal/cache"
	"github.com/prepwise/airecruiter/internal/logger"
	"github.com/prepwise/airecruiter/internal/providers/llm"
	"github.com/prepwise/airecruiter/internal/providers/workflow"
	"github.com/prepwise/airecruiter/internal/ratelimit"
	mongorepo "github.com/prepwise/airecruiter/internal/repositories/mongo"
	pgrepo "github.com/prepwise/airecruiter/internal/repositories/postgres"
	"github.com/prepwise/airecruiter/internal/services"
	"github.com/prepwise/airecruiter/internal/storage"
)

func main() {
	_ = godotenv.Load()

	appLog := logger.New()

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("Mongo index init error: %v", err)
	}
	appLog.Info("MongoDB connected")

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	appLog.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	appLog.Info("Redis connected")

	ctx := context.Background()

	uploader, err := storage.NewGCSUploader(ctx, os.Getenv("GCS_BUCKET"))
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer uploader.Close()

	provider, err := newLLMProvider(ctx)
	if err != nil {
		log.Fatalf("LLM init error: %v", err)
	}
	defer provider.Close()

	workflowClient := workflow.NewClient(os.Getenv("QUESTION_WORKFLOW_URL"))

	userRepo := pgrepo.NewUserRepo(config.PostgresDB)
	resumeRepo := pgrepo.NewResumeFileRepo(config.PostgresDB)
	interviewRepo := mongorepo.NewInterviewRepo(config.MongoDatabase())

	redisCache := cache.NewRedisCache(config.RedisClient)
	limiter := ratelimit.NewRedisLimiter(config.RedisClient, ratelimit.DefaultConfig())

	userSvc := services.NewUserService(userRepo, redisCache)
	resumeSvc := services.NewResumeFileService(resumeRepo, uploader)
	questionSvc := services.NewQuestionService(workflowClient, appLog)
	interviewSvc := services.NewInterviewService(interviewRepo)
	evaluationSvc := services.NewEvaluationService(provider, appLog)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))

	routes.RegisterRoutes(r, routes.Deps{
		User:      handlers.NewUserHandler(userSvc),
		Generate:  handlers.NewGenerateHandler(limiter, questionSvc, resumeSvc, appLog),
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Feedback:  handlers.NewFeedbackHandler(interviewSvc, evaluationSvc),
		WS:        handlers.NewWSHandler(interviewSvc, appLog),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newLLMProvider prefers the API-key Gemini backend when GEMINI_API_KEY is
// set, otherwise falls back to Vertex with application-default credentials.
func newLLMProvider(ctx context.Context) (llm.Provider, error) {
	model := os.Getenv("GEMINI_MODEL")
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		return llm.NewGemini(ctx, apiKey, model)
	}
	return llm.NewVertexGemini(ctx, os.Getenv("VERTEX_PROJECT_ID"), os.Getenv("VERTEX_LOCATION"), model)
}
