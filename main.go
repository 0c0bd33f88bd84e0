package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"image-studio-server/modules/analysis"
	"image-studio-server/modules/common/config"
	"image-studio-server/modules/common/database"
	"image-studio-server/modules/common/gemini"
	"image-studio-server/modules/common/logger"
	"image-studio-server/modules/common/middleware"
	"image-studio-server/modules/common/model"
	redisClient "image-studio-server/modules/common/redis"
	"image-studio-server/modules/common/storage"
	"image-studio-server/modules/edit"
	"image-studio-server/modules/generate"
	"image-studio-server/modules/options"
	"image-studio-server/modules/session"
	"image-studio-server/modules/worker"
)

const (
	cleanupInterval = 30 * time.Minute
	shutdownTimeout = 15 * time.Second
)

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	model.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "image-studio",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load config")
	}

	appLogger := logger.New(cfg.AppEnv)
	model.MaxBodyBytes = cfg.MaxBodyBytes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Gemini 클라이언트 (생성/편집/분석 공용)
	geminiClient, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini client")
	}

	// 세션 매니저 + 정리 루틴
	sessions := session.NewManager(cfg.HistoryCapacity, cfg.SessionInactiveTTL, cfg.SessionMaxAge)
	sessions.StartCleanupRoutine(ctx, cleanupInterval)

	// Supabase 스토리지 (선택)
	var uploader storage.Uploader
	var lister storage.AssetLister
	var storageClient *storage.Client
	if dbClient := database.NewClient(cfg); dbClient != nil {
		storageClient = storage.NewClient(cfg, dbClient.Storage(), dbClient)
		uploader = storageClient
		lister = dbClient
		log.Info().Msg("✅ Storage upload enabled")
	}

	generateService := generate.NewService(geminiClient, cfg.GeminiModel)

	// Redis 배치 큐 (선택)
	var queue worker.Queue
	var batchWorker *worker.Worker
	if rdb := redisClient.Connect(cfg); rdb != nil {
		defer rdb.Close()
		queue = worker.NewRedisQueue(rdb)

		// Redis Queue Worker 시작 (백그라운드)
		batchWorker = worker.NewWorker(queue, generateService, sessions, uploader)
		go batchWorker.Run(ctx)
	}

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(appLogger))
	r.Use(middleware.CORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	options.NewHandler().RegisterRoutes(r)
	session.NewHandler(sessions).RegisterRoutes(r)
	generate.NewHandler(generateService, sessions, uploader).RegisterRoutes(r)
	edit.NewHandler(edit.NewService(geminiClient, cfg.GeminiModel), sessions, uploader).RegisterRoutes(r)
	analysis.NewHandler(analysis.NewService(geminiClient, cfg.GeminiAnalysisModel), sessions).RegisterRoutes(r)
	storage.NewHandler(lister, storageClient).RegisterRoutes(r)
	worker.NewHandler(queue).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msgf("🚀 Image Studio Server starting on port %s", cfg.Port)
	log.Info().Msgf("📡 WebSocket endpoint: ws://localhost:%s/ws?session=<id>", cfg.Port)
	log.Info().Msgf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Info().Msgf("📊 Metrics: http://localhost:%s/metrics", cfg.Port)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("❌ Graceful shutdown failed")
		}
	}()

	// 서버 시작
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("❌ Server failed to start")
	}

	// 진행 중인 요청과 배치 job이 끝난 뒤 Redis 종료
	<-shutdownDone
	if batchWorker != nil {
		log.Info().Msg("⏳ Waiting for batch jobs to finish...")
		batchWorker.Wait()
	}
	log.Info().Msg("👋 Server stopped")
}
