package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/employability_booking/internal/auth"
	"github.com/Freeeeeet/employability_booking/internal/config"
	"github.com/Freeeeeet/employability_booking/internal/controller"
	"github.com/Freeeeeet/employability_booking/internal/metrics"
	"github.com/Freeeeeet/employability_booking/internal/notify"
	"github.com/Freeeeeet/employability_booking/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	visitorIdleTimeout = 10 * time.Minute
	limiterSweepEvery  = time.Minute
	denylistSweepEvery = 10 * time.Minute
)

// App собранный сервис: хранилище, сервисы, HTTP-сервер и фоновые задачи
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     *Store
	redis     *redis.Client
	services  controller.Services
	handler   http.Handler
	scheduler *Scheduler
}

// New подключается к БД, создаёт администратора и собирает HTTP-обработчик
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, logger: logger, store: store}
	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.cfg
	var tasks []Task

	var denylist auth.Denylist
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		denylist = auth.NewRedisDenylist(a.redis)
		a.logger.Info("Using Redis token denylist", zap.String("addr", cfg.Redis.Addr))
	} else {
		memory := auth.NewMemoryDenylist()
		denylist = memory
		tasks = append(tasks, Task{
			Name:     "denylist-sweep",
			Interval: denylistSweepEvery,
			Run: func(ctx context.Context) {
				if n := memory.Sweep(ctx); n > 0 {
					a.logger.Debug("Expired revoked tokens removed", zap.Int("count", n))
				}
			},
		})
	}

	provider, err := newAuthProvider(cfg, denylist)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	m := metrics.New()

	var notifier service.BookingNotifier
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, a.logger)
		if err != nil {
			return err
		}
		notifier = tg
		a.logger.Info("Telegram notifications enabled", zap.Int64("chat_id", cfg.Telegram.ChatID))
	}

	s := a.store
	a.services = controller.Services{
		Auth:     service.NewAuthService(s.Admins, provider, a.logger),
		Bookings: service.NewBookingService(s.Tx, s.Slots, s.Bookings, notifier, m, a.logger),
		Slots: service.NewSlotService(s.Tx, s.Slots, s.Expositors, service.SlotConfig{
			AllowOverlapping: cfg.AllowOverlappingSlots,
			Location:         loc,
			DefaultLimit:     cfg.DefaultPageLimit,
			MaxLimit:         cfg.MaxPageLimit,
		}, a.logger),
		Expositors: service.NewExpositorService(s.Tx, s.Expositors, a.logger),
	}

	if err := a.services.Auth.EnsureAdmin(ctx, service.AdminSeed{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}); err != nil {
		return err
	}

	limiter := controller.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	tasks = append(tasks, Task{
		Name:     "rate-limiter-sweep",
		Interval: limiterSweepEvery,
		Run: func(context.Context) {
			limiter.Sweep(visitorIdleTimeout)
		},
	})

	a.handler = controller.New(a.services, controller.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		Metrics:        m,
		Limiter:        limiter,
		HealthCheck:    s.Ping,
	}, a.logger).Handler()

	a.scheduler = NewScheduler(a.logger, tasks...)
	return nil
}

func newAuthProvider(cfg *config.Config, denylist auth.Denylist) (auth.AuthProvider, error) {
	authCfg := auth.Config{Secret: cfg.Auth.Secret, TTL: cfg.Auth.TokenTTL}
	if cfg.Auth.TokenFormat == config.TokenFormatJWT {
		return auth.NewJWTProvider(authCfg, denylist)
	}
	return auth.NewHMACProvider(authCfg, denylist)
}

// Handler HTTP-обработчик со всеми маршрутами
func (a *App) Handler() http.Handler {
	return a.handler
}

// Services сервисы приложения
func (a *App) Services() controller.Services {
	return a.services
}

// Seeder наполнитель демонстрационными данными
func (a *App) Seeder() *Seeder {
	return NewSeeder(a.services.Expositors, a.services.Slots, a.logger)
}

// Run обслуживает HTTP до отмены ctx, затем плавно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	a.scheduler.Start(ctx)
	defer a.scheduler.Stop()

	g.Go(func() error {
		a.logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("Server stopped cleanly")
	return nil
}

// Close освобождает соединения
func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
