package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crowdquiz-service/internal/config"
	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/game"
	"crowdquiz-service/internal/infra/memory"
	pgloader "crowdquiz-service/internal/infra/postgres"
	redisinfra "crowdquiz-service/internal/infra/redis"
	"crowdquiz-service/internal/transport/ws"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type packRepository interface {
	GetPack(ctx context.Context, packID string) (domain.Pack, error)
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a game session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PackLoader = memory.NewStaticPackLoader(samplePacks())
	if cfg.Pack.Dir != "" {
		loader = memory.NewFilePackLoader(cfg.Pack.Dir)
	}
	if pool != nil {
		loader = pgloader.NewPackLoader(pool)
	}

	packTTL := config.TTLDuration(cfg.Pack.TTL, 10*time.Minute)
	var packRepo packRepository
	if redisClient != nil {
		packRepo = redisinfra.NewPackRepository(redisClient, loader, packTTL)
	} else {
		packRepo = memory.NewPackRepository(loader, packTTL)
	}

	packID := cfg.Pack.ID
	if packID == "" {
		packID = "demo"
	}
	pack, err := packRepo.GetPack(ctx, packID)
	if err != nil {
		return err
	}

	g, err := game.NewGameFromPack(pack)
	if err != nil {
		return err
	}
	g.Start()

	authTTL := config.TTLDuration(cfg.Auth.TTL, 4*time.Hour)
	var authStore ws.AuthStore
	if redisClient != nil {
		authStore = redisinfra.NewAuthStore(redisClient, authTTL)
	} else {
		authStore = memory.NewAuthStore(authTTL)
	}

	wsHandler := ws.NewHandler(g, authStore, cfg.Server.AdminToken)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	wsHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting session %q on :%s", pack.Title, finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePacks provides a minimal built-in pack so the server runs without a
// pack directory or database configured.
func samplePacks() map[string]domain.Pack {
	return map[string]domain.Pack{
		"demo": {
			ID:         "demo",
			Title:      "Demo Night",
			StartScore: 10,
			States: []domain.StateDef{
				{
					Type:          "openquestion",
					Question:      "What is the tallest mountain on Earth?",
					CorrectAnswer: []string{"Mount Everest"},
					PointReward:   3,
				},
				{
					Type:          "mcquestion",
					Question:      "Which planet is closest to the sun?",
					CorrectAnswer: []string{"Mercury"},
					Options:       []string{"Venus", "Mercury", "Mars"},
					PointReward:   2,
				},
				{
					Type:          "crowdjudged_open",
					Question:      "Name the three largest countries in South America.",
					CorrectAnswer: []string{"Brazil", "Argentina", "Peru"},
					PointReward:   1,
					MaxPoints:     5,
					MinPoints:     1,
				},
				{
					Type:  "infopage",
					Title: "Thanks for playing!",
					Text:  "Scores are final.",
				},
			},
		},
	}
}
