package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"paynotify/internal/domain"
	"paynotify/internal/notifier"
	"paynotify/internal/payment"
	"paynotify/internal/repository"
	appvalidator "paynotify/internal/validator"
	"paynotify/internal/vcs"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	validator *validator.Validate
	redis     redis.UniversalClient
	metrics   *metrics

	notifier        domain.Notifier
	paymentProvider domain.PaymentProvider
	eventRepo       domain.EventRepository
}

func Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.Env, "env", cfg.Env, "Environment (dev|staging|prod)")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if missing := cfg.missingVars(); len(missing) > 0 {
		for _, name := range missing {
			logger.Error("missing required environment variable", "name", name)
		}
		return fmt.Errorf("missing required configuration: %v", missing)
	}

	configValidator := appvalidator.NewValidator()
	if err := configValidator.Struct(cfg); err != nil {
		logger.Error("configuration validation failed", "error", err)
		return fmt.Errorf("phone numbers must be E.164 formatted: %w", err)
	}

	stripe.Key = cfg.Stripe.SecretKey

	app := &Application{
		config:    cfg,
		logger:    logger,
		validator: configValidator,
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler("paynotify")))
		app.logger = logger
	}

	app.metrics, err = newMetrics()
	if err != nil {
		return err
	}

	smsNotifier, err := notifier.NewTwilioNotifier(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.FromNumber,
		cfg.UserPhone,
		logger,
	)
	if err != nil {
		logger.Error("notifier initialization failed", "error", err)
		return err
	}
	app.notifier = smsNotifier

	app.paymentProvider = payment.NewStripePaymentProvider(cfg.BaseUrl)

	if cfg.RedisUrl != "" {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		app.redis = redisClient
		app.eventRepo = repository.NewRedisEventRepository(redisClient)
	} else {
		// Without a dedup store, redelivered webhooks send the SMS again.
		logger.Warn("REDIS_URL not set, webhook deliveries will not be deduplicated")
	}

	logger.Info("configuration loaded",
		"stripeKey", maskSecret(cfg.Stripe.SecretKey),
		"webhookSecret", maskSecret(cfg.Stripe.WebhookSecret),
		"twilioAccount", maskSecret(cfg.Twilio.AccountSID),
		"twilioPhone", cfg.Twilio.FromNumber,
		"userPhone", cfg.UserPhone,
	)

	return app.run()
}

func newRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("payment-notification-api", otelchi.WithChiRoutes(r)))

	r.Get("/", app.HomeHandler)
	r.Get("/health", app.GetHealth)

	r.Get("/checkout", app.CheckoutFormHandler)
	r.Post("/checkout", app.SubmitCheckoutFormHandler)
	r.Post("/pay", app.CreateCheckoutSessionHandler)
	r.Post("/create-checkout-session", app.RedirectCheckoutHandler)

	r.Post("/webhook", app.StripeWebhookHandler)

	r.Get("/success", app.SuccessHandler)
	r.Get("/cancel", app.CancelHandler)

	return r
}
