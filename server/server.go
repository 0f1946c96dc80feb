package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astevko/randombmir/cache"
	"github.com/astevko/randombmir/config"
	"github.com/astevko/randombmir/core/player"
	"github.com/astevko/randombmir/core/transcript"
	"github.com/astevko/randombmir/db"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/repository"
	"github.com/astevko/randombmir/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.DB.Close()

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.CloseRedis()
	log.Println("Successfully connected to Redis")
	cache.SetSessionTTL(time.Duration(cfg.SessionTTLHours) * time.Hour)

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	clipRepo := repository.NewMySQLClipRepository()
	transcripts := storage.NewTranscriptStore(storage.GetMinioClient(), cfg.MinioBucket)
	syncService := transcript.NewService(transcript.NewClient(cfg.TranscriptAPIURL), clipRepo)
	players := player.NewManager(
		player.RepositorySource{Repo: clipRepo},
		player.RedisSessions{},
		syncService,
	)

	apiHandler := NewAPIHandler(clipRepo, transcripts, players, cfg)

	router := mux.NewRouter()

	// CORS middleware
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Clip catalog
	router.HandleFunc("/api/clips", apiHandler.GetClipsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/clips", apiHandler.CreateClipHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/clips/{id}", apiHandler.GetClipHandler).Methods(http.MethodGet)

	// Session state
	router.HandleFunc("/api/session", apiHandler.CreateSessionHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/session/{sid}/state", apiHandler.GetSessionStateHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/session/{sid}/state", apiHandler.UpdateSessionStateHandler).Methods(http.MethodPatch)
	router.HandleFunc("/api/session/{sid}", apiHandler.DeleteSessionHandler).Methods(http.MethodDelete)

	// Transcript file endpoint
	router.HandleFunc("/api/transcript", apiHandler.GetTranscriptFileHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/transcript", apiHandler.PostTranscriptFileHandler).Methods(http.MethodPost)

	// Player orchestration
	router.HandleFunc("/api/player/{sid}", apiHandler.GetPlayerHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/{sid}/transcript", apiHandler.GetPlayerTranscriptHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/player/{sid}/transcript", apiHandler.SavePlayerTranscriptHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/player/{sid}/{action}", apiHandler.PlayerActionHandler).Methods(http.MethodPost)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s...", cfg.ServerAddr)
		log.Println("List clips via GET /api/clips")
		log.Println("Mint a session via POST /api/session")
		log.Println("Drive playback via POST /api/player/{sid}/{action}")
		log.Println("Read/write transcripts via /api/transcript")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
