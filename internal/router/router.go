package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dairy-herd-manager/docs"
	"dairy-herd-manager/internal/adapters/sms/afromessage"
	mem "dairy-herd-manager/internal/adapters/storage/memory"
	pg "dairy-herd-manager/internal/adapters/storage/postgres"
	lite "dairy-herd-manager/internal/adapters/storage/sqlite"
	"dairy-herd-manager/internal/domain/cows"
	"dairy-herd-manager/internal/domain/farms"
	"dairy-herd-manager/internal/domain/messaging"
	"dairy-herd-manager/internal/domain/repro"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/platform/metrics"
	"dairy-herd-manager/internal/ports/sms"
)

type Options struct {
	// Optional explicit DB (postgres). If nil, storage is picked from env:
	// DB_DSN => postgres, SQLITE_PATH => sqlite, otherwise in-memory.
	DB *sql.DB

	// Optional SMS gateway. If nil, AfroMessage is configured from env;
	// without AFROMESSAGE_API_TOKEN it runs in dev mode (logs, no sends).
	Gateway sms.Gateway

	Log logger.Logger
}

// App bundles the HTTP handler with the long-running pieces the process
// entry has to drive (the sweeps run outside the request path).
type App struct {
	Handler    http.Handler
	Sweeper    *repro.Sweeper
	Dispatcher *messaging.Dispatcher
}

// NewRouter builds the HTTP handler alone. Background workers are started
// from cmd/api using the App returned by NewApp.
func NewRouter(opts Options) http.Handler {
	return NewApp(opts).Handler
}

func NewApp(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		farmRepo  farms.Repository
		cowRepo   cows.Repository
		eventRepo repro.EventRepository
		ledger    messaging.Repository
	)

	// No explicit DB: try env (for dev/handoff).
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres open failed, falling back", logger.Fields{"err": err.Error()})
			}
		}
	}
	if db == nil {
		if path := os.Getenv("SQLITE_PATH"); path != "" {
			opened, err := lite.Open(path)
			if err == nil {
				farmRepo = lite.NewFarmsRepo(opened)
				cowRepo = lite.NewCowsRepo(opened)
				eventRepo = lite.NewEventsRepo(opened)
				ledger = lite.NewMessagesRepo(opened)
			} else {
				log.Warn("sqlite open failed, falling back", logger.Fields{"err": err.Error()})
			}
		}
	} else {
		farmRepo = pg.NewFarmsRepo(db)
		cowRepo = pg.NewCowsRepo(db)
		eventRepo = pg.NewEventsRepo(db)
		ledger = pg.NewMessagesRepo(db)
	}
	if farmRepo == nil {
		farmRepo = mem.NewFarmRepo()
		cowRepo = mem.NewCowRepo()
		eventRepo = mem.NewEventRepo()
		ledger = mem.NewMessageRepo()
	}

	gateway := opts.Gateway
	if gateway == nil {
		gateway = afromessage.New(afromessage.Options{
			BaseURL: os.Getenv("AFROMESSAGE_BASE_URL"),
			Token:   os.Getenv("AFROMESSAGE_API_TOKEN"),
			Sender:  os.Getenv("AFROMESSAGE_SENDER"),
			Timeout: envDuration("SMS_TIMEOUT", messaging.DefaultSMSTimeout),
		}, log)
	}

	// Construction is circular: the farms service dispatches staff notices
	// and the dispatcher resolves recipients through that same service. The
	// proxy breaks the cycle.
	contacts := &farmContactsProxy{}
	dispatcher := messaging.NewDispatcher(ledger, gateway, contacts, log)

	// Services per module
	farmsSvc := farms.NewService(farmRepo, dispatcher)
	contacts.svc = farmsSvc
	cowsSvc := cows.NewService(cowRepo)
	reproSvc := repro.NewService(cowRepo, farmsSvc, eventRepo, dispatcher, log)
	sweeper := repro.NewSweeper(cowRepo, farmsSvc, ledger, dispatcher, log)

	// Routes per module
	farms.RegisterRoutes(r, farmsSvc)
	cows.RegisterRoutes(r, cowsSvc, farmsSvc)
	repro.RegisterRoutes(r, reproSvc, sweeper)
	messaging.RegisterRoutes(r, ledger)

	return &App{Handler: r, Sweeper: sweeper, Dispatcher: dispatcher}
}

type farmContactsProxy struct{ svc *farms.Service }

func (p *farmContactsProxy) FarmContacts(ctx context.Context, farmID string) (messaging.FarmContacts, error) {
	return p.svc.FarmContacts(ctx, farmID)
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
