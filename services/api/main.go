package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/hospital/internal/config"
	"github.com/hospital/internal/handler"
	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/middleware"
	"github.com/hospital/internal/repository"
	"github.com/hospital/internal/service"
	"github.com/hospital/internal/startup"
	"github.com/hospital/internal/storage"
	"github.com/hospital/internal/storage/memory"
	"github.com/hospital/migrations"
)

func main() {
	logger.SetPrefix("api")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	dev := flag.Bool("dev", false, "start with embedded PostgreSQL and in-memory rate limit store")
	flag.Parse()

	logger.Info("starting API service")
	cfg := config.Load()

	var embeddedDB *embeddedpostgres.EmbeddedPostgres
	if *dev {
		var err error
		embeddedDB, err = startEmbeddedPostgres(cfg)
		if err != nil {
			logger.Errorf("embedded postgres: %v", err)
			os.Exit(1)
		}
		defer func() {
			logger.Info("stopping embedded postgres...")
			if err := embeddedDB.Stop(); err != nil {
				logger.Errorf("embedded postgres stop: %v", err)
			}
		}()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		logger.Errorf("parse db config: %v", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = int32(cfg.DBMaxConnections())
	poolCfg.MinConns = 4

	pool := startup.ConnectDBWithRetry(poolCfg, 60*time.Second, "")
	defer pool.Close()

	runMigrations(pool)
	seedDoctors(pool)
	if *migrate && !*dev {
		return
	}
	logger.Info("database connected, migrations applied")

	var limitStore storage.LoginLimitStore
	if *dev {
		limitStore = memory.New()
		logger.Info("using in-memory login rate limit store")
	} else {
		limitStore = startup.ConnectRedisWithRetry(cfg.Redis.URL, 60*time.Second, "")
	}
	defer limitStore.Close()

	userRepo := repository.NewUserRepository(pool)
	patientRepo := repository.NewPatientRepository(pool)
	apptRepo := repository.NewAppointmentRepository(pool)
	deptRepo := repository.NewDepartmentRepository(pool)
	medicineRepo := repository.NewMedicineRepository(pool)
	labTestRepo := repository.NewLabTestRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	secret := []byte(cfg.Auth.TokenSecret)
	authSvc := service.NewAuthService(userRepo, limitStore, secret, cfg.Auth.TokenTTL)

	authH := handler.NewAuthHandler(authSvc, cfg.Auth.TokenTTL)
	userH := handler.NewUserHandler(userRepo)
	patientH := handler.NewPatientHandler(patientRepo)
	apptH := handler.NewAppointmentHandler(apptRepo)
	deptH := handler.NewDepartmentHandler(deptRepo)
	medicineH := handler.NewMedicineHandler(medicineRepo)
	labTestH := handler.NewLabTestHandler(labTestRepo)
	invoiceH := handler.NewInvoiceHandler(invoiceRepo)
	reportH := handler.NewReportHandler(reportRepo)
	testDBH := handler.NewTestDBHandler(userRepo)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RecoverJSON)
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSAllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Gate(secret))
	// RateLimitAPI стоит после Gate: claims уже в контексте, лимит на пользователя работает.
	r.Use(middleware.RateLimitAPI)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); w.Write([]byte("ok")) })

	// Публичные маршруты (пропускаются Gate по точному совпадению пути).
	r.Post("/api/auth/login", authH.Login)
	r.Post("/api/auth/signup", authH.Signup)
	r.Get("/api/test-db/create-test-user", testDBH.CreateTestUser)

	r.Post("/api/auth/logout", authH.Logout)

	r.Get("/api/patients", patientH.List)
	r.Post("/api/patients/add", patientH.Add)
	r.Get("/api/patients/{id}", patientH.Get)
	r.Put("/api/patients/{id}", patientH.Update)

	r.Get("/api/appointments", apptH.List)
	r.Post("/api/appointments/add", apptH.Add)

	r.Get("/api/users", userH.List)
	r.Post("/api/users/add", userH.Add)
	r.Get("/api/users/{id}", userH.Get)
	r.Put("/api/users/{id}", userH.Update)
	r.Patch("/api/users/{id}", userH.ResetPassword)
	r.Get("/api/doctors", userH.ListDoctors)
	r.Get("/api/departments", deptH.List)

	r.Get("/api/medicines", medicineH.List)
	r.Post("/api/medicines/add", medicineH.Add)
	r.Get("/api/medicines/{id}", medicineH.Get)
	r.Put("/api/medicines/{id}", medicineH.UpdateStock)

	r.Get("/api/lab-tests", labTestH.List)
	r.Post("/api/lab-tests/add", labTestH.Add)
	r.Get("/api/lab-tests/{id}", labTestH.Get)
	r.Put("/api/lab-tests/{id}", labTestH.Update)

	r.Get("/api/invoices", invoiceH.List)
	r.Post("/api/invoices/add", invoiceH.Add)
	r.Get("/api/invoices/{invoiceID}", invoiceH.Get)
	r.Put("/api/invoices/{id}", invoiceH.Update)

	r.Get("/api/dashboard/stats", reportH.DashboardStats)
	r.Get("/api/dashboard/overview", reportH.Overview)
	r.Get("/api/dashboard/recent-patients", reportH.RecentPatients)
	r.Get("/api/reports", reportH.Report)

	webDist := "./web/dist"
	if info, err := os.Stat(webDist); err == nil && info.IsDir() {
		r.Get("/*", spaHandler(webDist))
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	var srvWg sync.WaitGroup
	errCh := make(chan error, 1)
	srvWg.Add(1)
	go func() {
		defer srvWg.Done()
		logger.Infof("server listening on %s", cfg.ServerAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	logger.Info("server stopped accepting connections")
	srvWg.Wait()
	logger.Info("server goroutine exited")
}

func spaHandler(dir string) http.HandlerFunc {
	fs := http.Dir(dir)
	fileServer := http.FileServer(fs)
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Clean(r.URL.Path)
		if path == "/" || path == "." {
			path = "index.html"
		}
		if f, err := fs.Open(path); err != nil {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
		} else {
			f.Close()
			fileServer.ServeHTTP(w, r)
		}
	}
}

func runMigrations(pool *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	files := []string{"001_init.sql", "002_seed.sql"}
	for _, f := range files {
		data, err := migrations.Files.ReadFile(f)
		if err != nil {
			logger.Errorf("read migration %s: %v", f, err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			logger.Errorf("run migration %s: %v", f, err)
			os.Exit(1)
		}
	}
	logger.Info("migrations applied")
}

// seedDoctors заполняет справочник врачей при пустой базе. Хэш пароля
// считается здесь, поэтому сидирование не помещается в SQL-миграцию.
func seedDoctors(pool *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var hasDoctors bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE role = 'Doctor')`).Scan(&hasDoctors); err != nil {
		logger.Errorf("seed doctors check: %v", err)
		return
	}
	if hasDoctors {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("doctor123"), 10)
	if err != nil {
		logger.Errorf("seed doctors hash: %v", err)
		return
	}

	doctors := []struct {
		name, email, department string
	}{
		{"Dr. John Smith", "doctor1@hospital.com", "Cardiology"},
		{"Dr. Sarah Johnson", "doctor2@hospital.com", "Neurology"},
		{"Dr. Michael Brown", "doctor3@hospital.com", "Orthopedics"},
		{"Dr. Emily Davis", "doctor4@hospital.com", "Pediatrics"},
		{"Dr. Robert Wilson", "doctor5@hospital.com", "Gynecology"},
		{"Dr. James Anderson", "doctor6@hospital.com", "Cardiology"},
		{"Dr. Lisa Martinez", "doctor7@hospital.com", "Neurology"},
		{"Dr. David Thompson", "doctor8@hospital.com", "Orthopedics"},
		{"Dr. Maria Garcia", "doctor9@hospital.com", "Pediatrics"},
		{"Dr. William Lee", "doctor10@hospital.com", "Gynecology"},
		{"Dr. Jennifer White", "doctor11@hospital.com", "Cardiology"},
		{"Dr. Thomas Clark", "doctor12@hospital.com", "Neurology"},
		{"Dr. Patricia Moore", "doctor13@hospital.com", "Orthopedics"},
		{"Dr. Richard Taylor", "doctor14@hospital.com", "Pediatrics"},
		{"Dr. Susan Hall", "doctor15@hospital.com", "Gynecology"},
	}
	for _, d := range doctors {
		_, err := pool.Exec(ctx,
			`INSERT INTO users (name, email, password, role, department_id, status)
			 VALUES ($1, $2, $3, 'Doctor', (SELECT id FROM departments WHERE name = $4), 'Active')
			 ON CONFLICT (email) DO NOTHING`,
			d.name, d.email, string(hash), d.department)
		if err != nil {
			logger.Errorf("seed doctor %s: %v", d.email, err)
			return
		}
	}
	logger.Info("seeded default doctors")
}

func startEmbeddedPostgres(cfg *config.Config) (*embeddedpostgres.EmbeddedPostgres, error) {
	const (
		port     = 5432
		user     = "hospital"
		password = "hospital_secret"
		database = "hospital"
	)

	dataDir := filepath.Join(".", ".pgdata")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pgdata dir: %w", err)
	}

	db := embeddedpostgres.NewDatabase(
		embeddedpostgres.DefaultConfig().
			Port(port).
			Username(user).
			Password(password).
			Database(database).
			DataPath(dataDir).
			RuntimePath(filepath.Join(os.TempDir(), "embedded-pg-runtime")),
	)

	logger.Info("starting embedded PostgreSQL...")
	if err := db.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	cfg.Database.URL = fmt.Sprintf(
		"postgres://%s:%s@localhost:%d/%s?sslmode=disable",
		user, password, port, database,
	)
	logger.Infof("embedded PostgreSQL running on port %d", port)
	return db, nil
}
