package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	accounthandlers "github.com/example/shindora/internal/accounts/handlers"
	accountstore "github.com/example/shindora/internal/accounts/store"
	cataloghandlers "github.com/example/shindora/internal/catalog/handlers"
	catalogstore "github.com/example/shindora/internal/catalog/store"
	commenthandlers "github.com/example/shindora/internal/comments/handlers"
	commentstore "github.com/example/shindora/internal/comments/store"
	engagementhandlers "github.com/example/shindora/internal/engagement/handlers"
	engagementstore "github.com/example/shindora/internal/engagement/store"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/config"
	"github.com/example/shindora/internal/platform/db"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
	"github.com/example/shindora/internal/platform/logging"
	"github.com/example/shindora/internal/platform/natsconn"
	"github.com/example/shindora/internal/platform/run"
	playlisthandlers "github.com/example/shindora/internal/playlists/handlers"
	playliststore "github.com/example/shindora/internal/playlists/store"
	"github.com/example/shindora/internal/site"
	sitehandlers "github.com/example/shindora/internal/site/handlers"
	sitestore "github.com/example/shindora/internal/site/store"
	"github.com/example/shindora/internal/transcache"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	pool := initPool(cfg, log)
	if pool != nil {
		defer pool.Close()
	}

	catalog := initCatalog(pool, log)
	comments := initComments(pool, catalog, log)
	ledger := initLedger(pool, catalog, log)
	playlists := initPlaylists(pool, catalog, log)
	users := initAccounts(pool, log)
	siteStore := initSite(pool, log)
	tc := initTranslationCache(cfg, log)

	nc := initNATS(cfg, log)
	if nc != nil {
		defer nc.Close()
	}
	pub := initPublisher(nc, log)

	if err := site.InitDefaults(context.Background(), siteStore, catalog, log); err != nil {
		log.Warn("seed defaults", zap.Error(err))
	}

	tokens := auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	profiles := profileSource{users: users}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error {
		if pool == nil {
			return nil
		}
		return pool.Ping(context.Background())
	}})

	r.Route("/api", func(r chi.Router) {
		// Public reads; identity is picked up when a token is present so
		// visibility-scoped reads can tell who is asking.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalUser(tokens))
			r.Get("/videos", cataloghandlers.ListVideos(catalog))
			r.Get("/videos/{video_id}", cataloghandlers.GetVideo(catalog, tc))
			r.Post("/videos/{video_id}/view", cataloghandlers.IncrementView(catalog, pub))
			r.Get("/categories", cataloghandlers.ListCategories(catalog))
			r.Get("/comments/{video_id}", commenthandlers.ListForVideo(comments))
			r.Get("/playlists", playlisthandlers.List(playlists))
			r.Get("/playlists/{id}", playlisthandlers.Get(playlists, catalog))
			r.Get("/settings", sitehandlers.GetSettings(siteStore))
			r.Get("/pages/{name}", sitehandlers.GetPage(siteStore))
		})

		r.Post("/auth/register", accounthandlers.Register(users, tokens, pub))
		r.Post("/auth/login", accounthandlers.Login(users, tokens))
		r.Post("/auth/forgot-password", accounthandlers.ForgotPassword(users, log))
		r.Post("/auth/reset-password", accounthandlers.ResetPassword(users))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(tokens))
			r.Get("/auth/me", accounthandlers.Me(users))
			r.Put("/auth/profile", accounthandlers.UpdateProfile(users))

			r.Post("/videos/{video_id}/like", engagementhandlers.Like(ledger, pub))
			r.Delete("/videos/{video_id}/like", engagementhandlers.Unlike(ledger))
			r.Get("/user/liked-videos", engagementhandlers.ListLiked(ledger, catalog))
			r.Post("/user/watch-later/{video_id}", engagementhandlers.AddWatchLater(ledger))
			r.Delete("/user/watch-later/{video_id}", engagementhandlers.RemoveWatchLater(ledger))
			r.Get("/user/watch-later", engagementhandlers.ListWatchLater(ledger, catalog))

			r.Post("/comments", commenthandlers.Post(comments, profiles, pub))
			r.Delete("/comments/{comment_id}", commenthandlers.Delete(comments))

			r.Post("/playlists", playlisthandlers.Create(playlists, pub))
			r.Delete("/playlists/{id}", playlisthandlers.Delete(playlists))
			r.Post("/playlists/{id}/videos/{video_id}", playlisthandlers.AddVideo(playlists))
			r.Delete("/playlists/{id}/videos/{video_id}", playlisthandlers.RemoveVideo(playlists))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireUser(tokens))
			r.Use(auth.RequireAdmin)
			r.Post("/videos", cataloghandlers.AdminCreateVideo(catalog))
			r.Put("/videos/{video_id}", cataloghandlers.AdminUpdateVideo(catalog))
			r.Delete("/videos/{video_id}", cataloghandlers.AdminDeleteVideo(catalog, comments, log))
			r.Post("/categories", cataloghandlers.AdminCreateCategory(catalog))
			r.Put("/categories/{category_id}", cataloghandlers.AdminUpdateCategory(catalog))
			r.Delete("/categories/{category_id}", cataloghandlers.AdminDeleteCategory(catalog))
			r.Put("/translations", cataloghandlers.AdminPutTranslation(tc))
			r.Put("/settings", sitehandlers.UpdateSettings(siteStore))
			r.Put("/pages/{name}", sitehandlers.UpsertPage(siteStore))
			r.Post("/init-defaults", sitehandlers.InitDefaults(siteStore, catalog, log))
		})
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.HTTP.Addr,
		ServiceName: cfg.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// profileSource adapts the accounts store to the author snapshot the
// comments handlers need.
type profileSource struct {
	users accountstore.Store
}

func (p profileSource) Author(ctx context.Context, userID string) (commentstore.Author, error) {
	u, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return commentstore.Author{}, err
	}
	return commentstore.Author{ID: u.ID, Username: u.Username, Avatar: u.AvatarURL}, nil
}

// initPool opens the shared Postgres pool. In production (APP_ENV=production)
// a working connection is required and the process terminates otherwise; in
// development a missing or unreachable database means the in-memory stores.
func initPool(cfg config.AppConfig, log *zap.Logger) *pgxpool.Pool {
	if cfg.DatabaseURL == "" {
		if cfg.IsProduction() {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return nil
	}
	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		if cfg.IsProduction() {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			run.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory stores", zap.Error(err))
		return nil
	}
	return pool
}

func initCatalog(pool *pgxpool.Pool, log *zap.Logger) catalogstore.Store {
	if pool == nil {
		return catalogstore.NewInMemoryStore()
	}
	log.Info("catalog store: postgres")
	return catalogstore.NewPostgresStore(pool)
}

func initComments(pool *pgxpool.Pool, catalog catalogstore.Store, log *zap.Logger) commentstore.Store {
	if pool == nil {
		return commentstore.NewInMemoryStore(catalog)
	}
	log.Info("comments store: postgres")
	return commentstore.NewPostgresStore(pool, catalog)
}

func initLedger(pool *pgxpool.Pool, catalog catalogstore.Store, log *zap.Logger) engagementstore.Ledger {
	if pool == nil {
		return engagementstore.NewInMemoryLedger(catalog)
	}
	log.Info("engagement ledger: postgres")
	return engagementstore.NewPostgresLedger(pool, catalog)
}

func initPlaylists(pool *pgxpool.Pool, catalog catalogstore.Store, log *zap.Logger) playliststore.Store {
	if pool == nil {
		return playliststore.NewInMemoryStore(catalog)
	}
	log.Info("playlist store: postgres")
	return playliststore.NewPostgresStore(pool, catalog)
}

func initAccounts(pool *pgxpool.Pool, log *zap.Logger) accountstore.Store {
	if pool == nil {
		return accountstore.NewInMemoryStore()
	}
	log.Info("account store: postgres")
	return accountstore.NewPostgresStore(pool)
}

func initSite(pool *pgxpool.Pool, log *zap.Logger) sitestore.Store {
	if pool == nil {
		return sitestore.NewInMemoryStore()
	}
	log.Info("site store: postgres")
	return sitestore.NewPostgresStore(pool)
}

// initTranslationCache prefers Redis and keeps working without it.
func initTranslationCache(cfg config.AppConfig, log *zap.Logger) transcache.Cache {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, using in-memory translation cache")
		return transcache.NewMemoryCache()
	}
	c, err := transcache.NewRedisCache(cfg.RedisURL, 0)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory translation cache", zap.Error(err))
		return transcache.NewMemoryCache()
	}
	log.Info("translation cache: redis")
	return c
}

// initNATS is non-fatal: without a broker the publisher degrades to a no-op.
func initNATS(cfg config.AppConfig, log *zap.Logger) *nats.Conn {
	if cfg.NATSURL == "" {
		log.Warn("NATS_URL not set, event publishing disabled")
		return nil
	}
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Warn("nats connect failed, event publishing disabled", zap.Error(err))
		return nil
	}
	return nc
}

func initPublisher(nc *nats.Conn, log *zap.Logger) *events.Publisher {
	if nc == nil {
		return events.New(nil, log)
	}
	js, err := nc.JetStream()
	if err != nil {
		log.Warn("jetstream unavailable, event publishing disabled", zap.Error(err))
		return events.New(nil, log)
	}
	return events.New(js, log)
}
