package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oiime/logrusbun"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/securex/securex/config"
	"github.com/securex/securex/pkg/auth"
	"github.com/securex/securex/pkg/fieldcipher"
	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/recognizers"
	"github.com/securex/securex/pkg/server"
	"github.com/securex/securex/pkg/store/memory"
	"github.com/securex/securex/pkg/store/postgres"
	"github.com/securex/securex/pkg/tasks"
)

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"

	tokenTTL        = 365 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// run is the entrypoint for the securex server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring securex: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting securex server version %s", config.VersionString)

	config.SetLogLevel(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appState, queue := NewAppState(ctx, cfg)

	if err := tasks.RunTaskRouter(ctx, appState, queue); err != nil {
		log.Fatalf("Failed to start task router: %s", err)
	}

	srv, err := server.Create(appState)
	if err != nil {
		log.Fatalf("Failed to create server: %s", err)
	}

	stopped := setupSignalHandler(cancel, appState, srv)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-stopped
}

// NewAppState creates an AppState from the config file / ENV. It builds the
// recognizer, the field cipher and the store, and returns the task queue
// matching the store.
func NewAppState(ctx context.Context, cfg *config.Config) (*models.AppState, tasks.Queue) {
	recognizer, err := recognizers.New(&cfg.Recognizer)
	if err != nil {
		log.Fatalf("Failed to create recognizer: %s", err)
	}
	log.Infof("Using recognizer: %s", recognizer.Name())

	cipher, err := fieldcipher.New(cfg.Crypto.Key)
	if err != nil {
		log.Fatalf("Failed to create field cipher: %s", err)
	}

	appState := &models.AppState{
		Recognizer: recognizer,
		Cipher:     cipher,
		Config:     cfg,
	}

	queue := initializeStore(ctx, appState)

	return appState, queue
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("Failed to dump config: %s", err)
		}
		fmt.Println(string(b))
		os.Exit(0)
	}
	if generateToken {
		token, err := auth.GenerateJWT(cfg, tokenTTL)
		if err != nil {
			log.Fatalf("Failed to generate token: %s", err)
		}
		fmt.Println(token)
		os.Exit(0)
	}
}

// initializeStore sets the record and document stores on appState based on
// the config file / ENV.
func initializeStore(ctx context.Context, appState *models.AppState) tasks.Queue {
	var (
		store models.Store
		queue tasks.Queue
	)

	switch appState.Config.Store.Type {
	case StoreTypePostgres:
		if appState.Config.Store.Postgres.DSN == "" {
			log.Fatal(config.ErrPostgresDSNNotSet)
		}
		db, err := postgres.NewPostgresConn(appState.Config.Store.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %s", err)
		}
		if appState.Config.Log.Level == "debug" {
			pgDebugLogging(db)
		}
		pgStore, err := postgres.NewStore(ctx, db)
		if err != nil {
			log.Fatal(err)
		}
		setupPurgeProcessor(ctx, pgStore, appState.Config.Store.PurgeEvery)

		sqlQueue, err := tasks.NewSQLQueue(appState.Config.Store.Postgres.DSN)
		if err != nil {
			log.Fatalf("Failed to create task queue: %s", err)
		}
		store, queue = pgStore, sqlQueue
	case StoreTypeMemory:
		log.Warn("Using the memory store. Records and documents are lost on restart")
		store, queue = memory.NewStore(), tasks.NewChannelQueue()
	default:
		log.Fatalf("store.type (%s) is not supported", appState.Config.Store.Type)
	}

	appState.RecordStore = store
	appState.DocumentStore = store

	log.Info("Using store: ", appState.Config.Store.Type)

	return queue
}

func pgDebugLogging(db *bun.DB) {
	db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
		LogSlow:         time.Second,
		Logger:          log,
		QueryLevel:      logrus.DebugLevel,
		ErrorLevel:      logrus.ErrorLevel,
		SlowLevel:       logrus.WarnLevel,
		MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
		ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
	}))
}

// setupSignalHandler shuts down the server, the task router and the store on
// termination. The returned channel is closed once shutdown has finished.
func setupSignalHandler(
	cancel context.CancelFunc,
	appState *models.AppState,
	srv *http.Server,
) <-chan struct{} {
	stopped := make(chan struct{})
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer close(stopped)
		<-signalCh
		log.Info("Shutting down")

		ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down server: %v", err)
		}

		if appState.TaskPublisher != nil {
			if err := appState.TaskPublisher.Close(); err != nil {
				log.Errorf("Error closing task publisher: %v", err)
			}
		}
		if appState.TaskRouter != nil {
			if err := appState.TaskRouter.Close(); err != nil {
				log.Errorf("Error closing task router: %v", err)
			}
		}
		cancel()

		if closer, ok := appState.RecordStore.(models.Store); ok {
			if err := closer.Close(); err != nil {
				log.Errorf("Error closing store: %v", err)
			}
		}
	}()
	return stopped
}

// setupPurgeProcessor sets up a go routine to purge soft deleted rows from
// postgres at a regular interval. It's cancellable via the passed context.
// An interval of 0 minutes disables it.
func setupPurgeProcessor(ctx context.Context, store *postgres.Store, everyMinutes int) {
	interval := time.Duration(everyMinutes) * time.Minute
	if interval == 0 {
		log.Debug("purge delete processor disabled")
		return
	}

	log.Infof("Starting purge delete processor. Purging every %v", interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			err := store.PurgeDeleted(ctx)
			if err != nil && ctx.Err() == nil {
				log.Errorf("error purging deleted records: %v", err)
			}
			select {
			case <-ctx.Done():
				log.Info("Stopping purge delete processor")
				return
			case <-ticker.C:
			}
		}
	}()
}
