package app

import (
	"context"
	"os"

	healthAPI "prize_wheel/internal/api/health"
	proxyAPI "prize_wheel/internal/api/proxy"
	wheelAPI "prize_wheel/internal/api/wheel"
	"prize_wheel/internal/config"
	"prize_wheel/internal/config/env"
	"prize_wheel/internal/diagnostic"
	"prize_wheel/internal/loader"
	"prize_wheel/internal/middleware"
	"prize_wheel/internal/repository"
	"prize_wheel/internal/repository/history_repo"
	"prize_wheel/internal/repository/rotation_repo"
	"prize_wheel/internal/repository/stats_repo"
	"prize_wheel/internal/service"
	"prize_wheel/internal/service/widget"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const configPath = "config.yaml"

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Logging
	logCfg config.LogConfig
	logger *zerolog.Logger
	diag   diagnostic.Sink

	// Auth bits
	jwtCfg config.JWTConfig

	// Images
	imageCfg    config.ImageConfig
	imageLoader *loader.Loader
	proxyHand   *proxyAPI.Handler

	// Wheel bits
	wheelCfg     config.WheelConfig
	planCfg      config.PlanConfig
	historyRepo  repository.HistoryRepository
	rotationRepo repository.RotationRepository
	statsRepo    repository.StatsRepository
	widgetServ   service.WidgetService
	wheelHand    *wheelAPI.Handler

	// Router and HTTP config
	healthHand *healthAPI.Handler
	httpCfg    config.HTTPConfig
	router     chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			panic("failed to get log config: " + err.Error())
		}
		sp.logCfg = cfg
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() zerolog.Logger {
	if sp.logger == nil {
		l := zerolog.New(os.Stdout).Level(sp.LogCfg().Level()).With().Timestamp().Logger()
		sp.logger = &l
	}
	return *sp.logger
}

// Diagnostics события колес (промах сектора, недоступная картинка) в общий лог
func (sp *ServiceProvider) Diagnostics() diagnostic.Sink {
	if sp.diag == nil {
		sp.diag = diagnostic.NewZerologSink(sp.Logger().With().Str("component", "wheel").Logger())
	}
	return sp.diag
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		poolCfg, err := pgxpool.ParseConfig(sp.PgConfig().DSN())
		if err != nil {
			panic("failed to parse db dsn: " + err.Error())
		}
		if n := sp.PgConfig().MaxConns(); n > 0 {
			poolCfg.MaxConns = n
		}

		dbc, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) ImageCfg() config.ImageConfig {
	if sp.imageCfg == nil {
		cfg, err := env.NewImageConfig()
		if err != nil {
			panic("failed to get image config: " + err.Error())
		}
		sp.imageCfg = cfg
	}
	return sp.imageCfg
}

func (sp *ServiceProvider) ImageLoader() *loader.Loader {
	if sp.imageLoader == nil {
		cfg := sp.ImageCfg()
		sp.imageLoader = loader.New(loader.Options{
			ProxyURL:     cfg.ProxyURL(),
			ProxySecret:  sp.proxySecret(),
			Origin:       cfg.Origin(),
			Timeout:      cfg.FetchTimeout(),
			MaxBytes:     cfg.MaxBytes(),
			AllowPrivate: cfg.AllowPrivate(),
			Logger:       sp.Logger().With().Str("component", "loader").Logger(),
		})
	}
	return sp.imageLoader
}

func (sp *ServiceProvider) proxySecret() []byte {
	if secret := sp.ImageCfg().ProxySecret(); len(secret) != 0 {
		return secret
	}
	return sp.JWTCfg().AccessTokenSecretKey()
}

func (sp *ServiceProvider) WheelCfg() config.WheelConfig {
	if sp.wheelCfg == nil {
		cfg, err := env.NewWheelConfigFromYAML(configPath)
		if err != nil {
			panic("failed to get wheel config: " + err.Error())
		}
		sp.wheelCfg = cfg
	}
	return sp.wheelCfg
}

func (sp *ServiceProvider) PlanCfg() config.PlanConfig {
	if sp.planCfg == nil {
		cfg, err := env.NewPlanConfigFromYAML(configPath)
		if err != nil {
			panic("failed to get plan config: " + err.Error())
		}
		sp.planCfg = cfg
	}
	return sp.planCfg
}

func (sp *ServiceProvider) HistoryRepository(ctx context.Context) repository.HistoryRepository {
	if sp.historyRepo == nil {
		sp.historyRepo = history_repo.NewHistoryRepository(sp.DBClient(ctx))
	}
	return sp.historyRepo
}

func (sp *ServiceProvider) RotationRepository(ctx context.Context) repository.RotationRepository {
	if sp.rotationRepo == nil {
		sp.rotationRepo = rotation_repo.NewRotationRepository(sp.DBClient(ctx))
	}
	return sp.rotationRepo
}

func (sp *ServiceProvider) StatsRepository() repository.StatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository(sp.WheelCfg().StatsWindow())
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) WidgetService(ctx context.Context) service.WidgetService {
	if sp.widgetServ == nil {
		sp.widgetServ = widget.NewWidgetService(widget.Deps{
			HistoryRepo:  sp.HistoryRepository(ctx),
			RotationRepo: sp.RotationRepository(ctx),
			StatsRepo:    sp.StatsRepository(),
			TxManager:    sp.TXManager(ctx),
			WheelCfg:     sp.WheelCfg(),
			PlanCfg:      sp.PlanCfg(),
			Loader:       sp.ImageLoader(),
			Diagnostics:  sp.Diagnostics(),
			Logger:       sp.Logger().With().Str("component", "widget").Logger(),
		})
	}
	return sp.widgetServ
}

func (sp *ServiceProvider) WheelHandler(ctx context.Context) *wheelAPI.Handler {
	if sp.wheelHand == nil {
		sp.wheelHand = wheelAPI.NewHandler(wheelAPI.HandlerDeps{
			Serv:   sp.WidgetService(ctx),
			Logger: sp.Logger(),
		})
	}
	return sp.wheelHand
}

func (sp *ServiceProvider) ProxyHandler() *proxyAPI.Handler {
	if sp.proxyHand == nil {
		sp.proxyHand = proxyAPI.NewHandler(proxyAPI.HandlerDeps{
			Fetcher: sp.ImageLoader(),
			Secret:  sp.proxySecret(),
			Logger:  sp.Logger(),
		})
	}
	return sp.proxyHand
}

func (sp *ServiceProvider) HealthHandler(ctx context.Context) *healthAPI.Handler {
	if sp.healthHand == nil {
		sp.healthHand = healthAPI.NewHandler(sp.DBClient(ctx))
	}
	return sp.healthHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.RealIP)
		r.Use(middleware.Logger(sp.Logger()))
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", sp.HealthHandler(ctx).Check)

		// Прокси открыт всем, иначе картинки с чужих доменов не загрузить
		r.With(cors.AllowAll().Handler).Get("/proxy", sp.ProxyHandler().Image)

		// Wheel endpoints
		wheelHandler := sp.WheelHandler(ctx)
		r.Group(func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey(), sp.Logger()))
			wheelHandler.Routes(rr)
		})

		sp.router = r
	}

	return sp.router
}
