package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"learnhub/internal/assistant"
	"learnhub/internal/attendance"
	"learnhub/internal/auth"
	"learnhub/internal/config"
	"learnhub/internal/course"
	"learnhub/internal/dashboard"
	"learnhub/internal/quiz"
	"learnhub/pkg/cache"
	"learnhub/pkg/database"
	"learnhub/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// .env feeds the LEARNHUB_* environment overrides.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(&database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr)

	// Repositories
	authRepo := auth.NewRepository(db)
	courseRepo := course.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	assistantRepo := assistant.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	// Services
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	courseService := course.NewService(courseRepo, redisCache)
	attendanceService := attendance.NewService(attendanceRepo)
	quizService := quiz.NewService(quizRepo, redisCache, quiz.Rules{
		MaxAttempts:       cfg.Quiz.MaxAttempts,
		PassThreshold:     cfg.Quiz.PassThreshold,
		ProgressIncrement: cfg.Quiz.ProgressIncrement,
	})
	genClient := assistant.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL)
	assistantService := assistant.NewService(genClient, assistantRepo)
	dashboardService := dashboard.NewService(dashboardRepo, redisCache)

	// Chat hub
	chatHub := websocket.NewHub()
	chatHub.SetAssistant(assistantService)
	go chatHub.Run()

	// Handlers
	authHandler := auth.NewHandler(authService)
	courseHandler := course.NewHandler(courseService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	quizHandler := quiz.NewHandler(quizService)
	assistantHandler := assistant.NewHandler(assistantService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	router := mux.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Authenticated routes
	jwtMiddleware := auth.JWTMiddleware(cfg.JWTSecret)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(jwtMiddleware)

	apiRouter.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	apiRouter.HandleFunc("/courses/{courseID}", courseHandler.GetCourse).Methods("GET")
	apiRouter.HandleFunc("/courses/{courseID}/enroll", courseHandler.Enroll).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/my/courses", courseHandler.MyCourses).Methods("GET")

	apiRouter.HandleFunc("/courses/{courseID}/attendance", attendanceHandler.Mark).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/courses/{courseID}/attendance", attendanceHandler.List).Methods("GET")
	apiRouter.HandleFunc("/courses/{courseID}/attendance/summary", attendanceHandler.Summary).Methods("GET")

	apiRouter.HandleFunc("/courses/{courseID}/quizzes", quizHandler.GetQuizzesByCourse).Methods("GET")
	apiRouter.HandleFunc("/quizzes/{quizID}", quizHandler.GetQuiz).Methods("GET")
	apiRouter.HandleFunc("/quizzes/{quizID}/attempts", quizHandler.SubmitAttempt).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quizzes/{quizID}/attempts", quizHandler.GetAttemptHistory).Methods("GET")

	apiRouter.HandleFunc("/dashboard", dashboardHandler.GetOverview).Methods("GET")
	apiRouter.HandleFunc("/assistant/invoke", assistantHandler.Invoke).Methods("POST", "OPTIONS")

	// Admin routes
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(auth.AdminMiddleware())
	adminRouter.HandleFunc("/courses", courseHandler.CreateCourse).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/courses/{courseID}", courseHandler.UpdateCourse).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/courses/{courseID}", courseHandler.DeleteCourse).Methods("DELETE", "OPTIONS")
	adminRouter.HandleFunc("/courses/{courseID}/quizzes", quizHandler.CreateQuiz).Methods("POST", "OPTIONS")

	// Chat assistant socket; JWT comes from the token query parameter.
	router.Handle("/ws/chat", jwtMiddleware(http.HandlerFunc(chatHub.HandleWebSocket)))

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // assistant calls can be slow
	}

	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
