package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/create_appointment"
	getAvailableSlotsHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_available_slots"
	getMyPracticeHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_my_practice"
	getPatientAppointmentsHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_patient_appointments"
	getPracticeHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_practice"
	getPracticeAppointmentsHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_practice_appointments"
	getProfileHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_profile"
	getSessionHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/get_session"
	listPracticesHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/list_practices"
	signInHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/sign_in"
	signOutHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/sign_out"
	signUpHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/sign_up"
	updateAppointmentStatusHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/update_appointment_status"
	updatePracticeHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/update_practice"
	updateProfileHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/update_profile"
	updateWaitTimeHandler "github.com/m04kA/MediTime-BookingService/internal/api/handlers/update_wait_time"
	"github.com/m04kA/MediTime-BookingService/internal/api/middleware"
	"github.com/m04kA/MediTime-BookingService/internal/api/realtime"
	"github.com/m04kA/MediTime-BookingService/internal/config"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
	appointmentRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/appointment"
	practiceRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/practice"
	profileRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/profile"
	sessionRepo "github.com/m04kA/MediTime-BookingService/internal/infra/storage/session"
	appointmentsService "github.com/m04kA/MediTime-BookingService/internal/service/appointments"
	authService "github.com/m04kA/MediTime-BookingService/internal/service/auth"
	practicesService "github.com/m04kA/MediTime-BookingService/internal/service/practices"
	profilesService "github.com/m04kA/MediTime-BookingService/internal/service/profiles"
	createAppointmentUC "github.com/m04kA/MediTime-BookingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/MediTime-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/MediTime-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MediTime-BookingService/pkg/logger"
	"github.com/m04kA/MediTime-BookingService/pkg/metrics"
	"github.com/m04kA/MediTime-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting MediTime-BookingService...")

	slotSettings, err := cfg.Slots.Settings()
	if err != nil {
		log.Fatal("Invalid slot settings: %v", err)
	}
	log.Info("Slots: timezone=%s, window=%s-%s/%s, honor_opening_hours=%t, max_advance_days=%d",
		slotSettings.Location, slotSettings.Defaults.Start, slotSettings.Defaults.End,
		slotSettings.Defaults.SlotDuration, slotSettings.HonorOpeningHours, slotSettings.MaxAdvanceDays)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обертка пишет метрики запросов, если metricsCollector не nil
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	practiceRepository := practiceRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)
	sessionRepository := sessionRepo.NewRepository(wrappedDB)

	// Change feed: локальные подписчики + пересылка между инстансами через Redis
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	feed := changefeed.New(log, metricsCollector)
	if cfg.ChangeFeed.RedisEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.ChangeFeed.RedisAddr,
			Password: cfg.ChangeFeed.RedisPassword,
			DB:       cfg.ChangeFeed.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(rootCtx).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		relay := changefeed.NewRedisRelay(redisClient, cfg.ChangeFeed.Channel, log)
		feed.SetRelay(relay)
		go func() {
			if err := relay.Run(rootCtx, feed); err != nil {
				log.Error("Change feed relay stopped: %v", err)
			}
		}()
		log.Info("Change feed relay enabled (redis=%s, channel=%s, origin=%s)",
			cfg.ChangeFeed.RedisAddr, cfg.ChangeFeed.Channel, relay.Origin())
	}

	// Инициализируем сервисы
	authSvc := authService.NewService(
		profileRepository,
		sessionRepository,
		feed,
		authService.NewPasswordHasher(cfg.Auth.BcryptCost),
		authService.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTLDuration()),
		log,
	)
	profileSvc := profilesService.NewService(profileRepository, log)
	practiceSvc := practicesService.NewService(
		practiceRepository,
		feed,
		metricsCollector,
		log,
	)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		practiceRepository,
		txMgr,
		feed,
		metricsCollector,
		slotSettings.Location,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		practiceRepository,
		txMgr,
		feed,
		metricsCollector,
		slotSettings,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		practiceRepository,
		slotSettings,
		log,
	)

	// Realtime: hub получает события change feed и раздает их WebSocket клиентам
	hub := realtime.NewHub(metricsCollector, log)
	stopBridge := realtime.Bridge(feed, hub)
	defer stopBridge()
	wsHandler := realtime.NewHandler(
		hub,
		authSvc,
		practiceRepository,
		getAvailableSlotsUseCase,
		feed,
		cfg.Realtime.AllowedOrigins,
		log,
	)

	// Инициализируем handlers
	listPractices := listPracticesHandler.NewHandler(practiceSvc, log)
	getPractice := getPracticeHandler.NewHandler(practiceSvc, log)
	getMyPractice := getMyPracticeHandler.NewHandler(practiceSvc, log)
	updatePractice := updatePracticeHandler.NewHandler(practiceSvc, log)
	updateWaitTime := updateWaitTimeHandler.NewHandler(practiceSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getPracticeAppointments := getPracticeAppointmentsHandler.NewHandler(appointmentSvc, log)
	signUp := signUpHandler.NewHandler(authSvc, log)
	signIn := signInHandler.NewHandler(authSvc, log)
	signOut := signOutHandler.NewHandler(authSvc, log)
	getSession := getSessionHandler.NewHandler(authSvc, log)
	getProfile := getProfileHandler.NewHandler(profileSvc, log)
	updateProfile := updateProfileHandler.NewHandler(profileSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Практики ---
	api.HandleFunc("/practices", listPractices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/practices/{practiceId:[0-9]+}", getPractice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/practices/{practiceId:[0-9]+}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Аутентификация ---
	api.HandleFunc("/auth/sign-up", signUp.Handle).Methods(http.MethodPost)

	signInRoute := http.Handler(http.HandlerFunc(signIn.Handle))
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.SignInPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy, log)
		go limiter.RunCleanup(rootCtx,
			time.Duration(cfg.RateLimit.CleanupInterval)*time.Second,
			time.Duration(cfg.RateLimit.IdleTimeout)*time.Second)
		signInRoute = limiter.Middleware(signInRoute)
		log.Info("Sign-in rate limit enabled: %d/min, burst=%d", cfg.RateLimit.SignInPerMinute, cfg.RateLimit.Burst)
	}
	api.Handle("/auth/sign-in", signInRoute).Methods(http.MethodPost)

	// --- Realtime (токен опционален, проверяется в handler) ---
	api.HandleFunc("/ws", wsHandler.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Authorization: Bearer)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(authSvc, log))

	// --- Сессия и профиль ---
	protected.HandleFunc("/auth/sign-out", signOut.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/auth/session", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/profile", getProfile.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/profile", updateProfile.Handle).Methods(http.MethodPut)

	// --- Записи пациента ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/me/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Управление практикой ---
	protected.HandleFunc("/practices/mine", getMyPractice.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/practices/{practiceId:[0-9]+}", updatePractice.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/practices/{practiceId:[0-9]+}/wait-time", updateWaitTime.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/practices/{practiceId:[0-9]+}/appointments", getPracticeAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId:[0-9]+}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем relay, очистку rate limiter и сбор метрик пула
	stopBackground()
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
