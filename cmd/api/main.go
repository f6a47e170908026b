package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/config"
	"webhost-storefront/internal/db"
	"webhost-storefront/internal/events"
	"webhost-storefront/internal/httpserver"
	"webhost-storefront/internal/jwtauth"
	"webhost-storefront/internal/logging"
	"webhost-storefront/internal/mail"
	"webhost-storefront/internal/migrate"
	"webhost-storefront/internal/payment"
	billingrepo "webhost-storefront/internal/repository/billing"
	cartrepo "webhost-storefront/internal/repository/cart"
	catalogrepo "webhost-storefront/internal/repository/catalog"
	domainrepo "webhost-storefront/internal/repository/domainname"
	ticketrepo "webhost-storefront/internal/repository/ticket"
	tokenrepo "webhost-storefront/internal/repository/token"
	userrepo "webhost-storefront/internal/repository/user"
	"webhost-storefront/internal/scheduler"
	authsvc "webhost-storefront/internal/service/auth"
	billingsvc "webhost-storefront/internal/service/billing"
	cartsvc "webhost-storefront/internal/service/cart"
	catalogsvc "webhost-storefront/internal/service/catalog"
	checkoutsvc "webhost-storefront/internal/service/checkout"
	registrarsvc "webhost-storefront/internal/service/registrar"
	ticketsvc "webhost-storefront/internal/service/ticket"
	usersvc "webhost-storefront/internal/service/user"
	"webhost-storefront/internal/whois"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	if err := migrate.Apply(ctx, cfg.DBConnString); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	users := userrepo.NewPostgres(dbpool, logger)
	tokens := tokenrepo.NewPostgres(dbpool)
	domains := domainrepo.NewPostgres(dbpool)
	plans := catalogrepo.NewPostgres(dbpool, logger)
	carts := cartrepo.NewPostgres(dbpool)
	billing := billingrepo.NewPostgres(dbpool, logger)
	tickets := ticketrepo.NewPostgres(dbpool)

	whoisClient := whois.NewClient(cfg.Whois.APIURL, cfg.Whois.APIKey, cfg.Whois.Timeout, logger)
	var search whois.Checker = whoisClient
	if cfg.RedisURL != "" {
		cache, err := whois.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("api: redis unavailable, whois cache disabled")
		} else {
			defer cache.Close()
			search = whois.NewCachedChecker(whoisClient, cache, cfg.Whois.CacheTTL, logger)
		}
	}

	publisher := newPublisher(cfg.AMQPURL, logger)
	defer publisher.Close()

	issuer := jwtauth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL)
	mailer := mail.New(cfg.Mail.ResendAPIKey, cfg.Mail.From, logger)
	gateway := payment.NewStripe(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret, cfg.Payment.Currency)

	authService := authsvc.New(users, tokens, issuer, mailer, logger)
	cartService := cartsvc.New(carts, plans, domains, logger)
	registrarService := registrarsvc.New(domains, search, whoisClient, cartService, logger)

	sched, err := scheduler.New(cfg.DomainSweepSchedule, registrarService, logger)
	if err != nil {
		logger.Fatalf("init scheduler: %v", err)
	}
	sched.Start()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:      authService,
		Registrar: registrarService,
		Catalog:   catalogsvc.New(plans),
		Cart:      cartService,
		Checkout:  checkoutsvc.New(billing, gateway, publisher, cfg.FrontendURL, logger),
		Billing:   billingsvc.New(billing, logger),
		Tickets:   ticketsvc.New(tickets, logger),
		Users:     usersvc.New(users, logger),
	}, httpserver.Options{
		GinMode:        cfg.GinMode,
		AllowedOrigins: cfg.AllowedOrigins(),
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sched.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}

// newPublisher connects to RabbitMQ when configured and falls back to a no-op.
func newPublisher(url string, logger *logrus.Logger) events.Publisher {
	if url == "" {
		return events.Noop{}
	}
	pub, err := events.Dial(url)
	if err != nil {
		logger.WithError(err).Warn("api: rabbitmq unavailable, events disabled")
		return events.Noop{}
	}
	return pub
}
