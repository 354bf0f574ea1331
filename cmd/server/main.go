package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bothost-dev/backend/internal/account"
	"github.com/bothost-dev/backend/internal/api"
	"github.com/bothost-dev/backend/internal/auth"
	"github.com/bothost-dev/backend/internal/billing"
	"github.com/bothost-dev/backend/internal/config"
	"github.com/bothost-dev/backend/internal/hosting"
	"github.com/bothost-dev/backend/internal/middleware"
	"github.com/bothost-dev/backend/internal/store"
	"github.com/bothost-dev/backend/internal/web"
)

const version = "2.0.0"

func main() {
	cfg := config.Load()
	api.ExposeInternalErrors(cfg.Development())
	ctx := context.Background()
	started := time.Now()

	// ── Stores ───────────────────────────────────────────────
	// Process memory is the default; PostgreSQL takes over the user table
	// and MongoDB the server/database collections when configured.
	mem := store.NewMemoryStore()
	var users store.UserStore = mem
	var resources store.ResourceStore = mem

	if cfg.PostgresDSN != "" {
		pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pgPool.Close()
		pgStore := store.NewPostgresUserStore(pgPool)
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatalf("postgres migrate: %v", err)
		}
		users = pgStore
		log.Println("users: postgres")
	}

	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mongoClient.Disconnect(ctx)
		mongoStore := store.NewMongoResourceStore(mongoClient.Database(cfg.MongoDB))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		resources = mongoStore
		log.Println("resources: mongo")
	}

	// ── Token revocation ─────────────────────────────────────
	var revoked auth.RevocationSet = auth.NewMemoryRevocationSet()
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer rdb.Close()
		revoked = auth.NewRedisRevocationSet(rdb)
		log.Println("revocation: redis")
	}

	// ── Avatar storage ───────────────────────────────────────
	var avatars account.AvatarStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			log.Fatalf("minio connect: %v", err)
		}
		avatars = minioStore
		log.Println("avatars: minio")
	}

	// ── Handlers ─────────────────────────────────────────────
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), revoked)
	lifecycle := hosting.NewLifecycle(resources, hosting.Delays{
		Start:   cfg.StartDelay,
		Stop:    cfg.StopDelay,
		Restart: cfg.RestartDelay,
	})
	authHandler := auth.NewHandler(users, resources, tokens)
	hostingHandler := hosting.NewHandler(users, resources, lifecycle)
	accountHandler := account.NewHandler(users, avatars)
	billingHandler := billing.NewHandler(users, resources)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	requireAuth := middleware.RequireAuth(tokens)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		userCount, _ := users.CountUsers(req.Context())
		serverCount, _ := resources.CountServers(req.Context())
		api.JSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"time":           time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(started).Seconds()),
			"environment":    cfg.Environment,
			"version":        version,
			"users":          userCount,
			"servers":        serverCount,
		})
	})

	r.Get("/api/config", func(w http.ResponseWriter, req *http.Request) {
		api.JSON(w, http.StatusOK, map[string]any{
			"version":     version,
			"environment": cfg.Environment,
			"features": map[string]bool{
				"registration":   true,
				"avatar_uploads": avatars != nil,
				"oauth":          false,
			},
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot", authHandler.Forgot)
		r.With(requireAuth).Get("/verify", authHandler.Verify)
		r.With(requireAuth).Post("/logout", authHandler.Logout)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/profile", accountHandler.Profile)
		r.Put("/settings", accountHandler.UpdateSettings)
		r.Post("/avatar", accountHandler.UploadAvatar)
		r.Get("/servers", hostingHandler.ListServers)
		r.Get("/databases", hostingHandler.ListDatabases)
	})

	r.Route("/api/servers", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/create", hostingHandler.CreateServer)
		r.Post("/{id}/start", hostingHandler.Transition("start"))
		r.Post("/{id}/stop", hostingHandler.Transition("stop"))
		r.Post("/{id}/restart", hostingHandler.Transition("restart"))
		r.Delete("/{id}", hostingHandler.DeleteServer)
	})

	r.Route("/api/billing", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/info", billingHandler.Info)
		r.Post("/upgrade", billingHandler.Upgrade)
	})

	r.NotFound(web.SPA(cfg.StaticDir))

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("bothost backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
