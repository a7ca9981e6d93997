package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/app"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/auth"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/delivery"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/handler"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/postgres"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/repo"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/service"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/cache"
	"github.com/SergeyBogomolovv/order-delivery-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Order Service API
// @version         1.0
// @description     Заказы и доставка: создание заказа с запросом доставки и компенсацией, удаление с очисткой доставки
func main() {
	conf, err := config.New()
	panicIfErr("failed to load config", err)
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	handler.RegisterMetrics()

	var (
		orderRepo service.OrderRepo
		txManager trm.Manager
	)
	switch conf.Storage.Driver {
	case "memory":
		orderRepo = repo.NewMemoryRepo()
		txManager = trm.NewNopManager()
		logger.Warn("using in-memory storage, orders will be lost on restart")
	default:
		db, err := postgres.New(conf.Postgres)
		panicIfErr("failed to connect to db", err)
		defer db.Close()
		logger.Info("postgres connected")

		panicIfErr("failed to apply migrations", postgres.Migrate(db))

		orderRepo = repo.NewPostgresRepo(db)
		txManager = trm.NewManager(db)
	}

	var closers []app.Closer

	var ordersCache orderCache
	switch conf.Cache.Driver {
	case "redis":
		rc := cache.NewRedisCache(logger, conf.Cache.RedisAddr, conf.Cache.TTL)
		closers = append(closers, rc)
		ordersCache = rc
	default:
		ordersCache = cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	}

	tokenManager := auth.NewTokenManager(logger, conf.Keycloak)
	closers = append(closers, tokenManager)

	deliveryClient := delivery.NewClient(logger, conf.Delivery, auth.NewTokenSource(tokenManager))

	orderService := service.NewOrderService(
		logger,
		txManager,
		orderRepo,
		deliveryClient,
		ordersCache,
		service.DeletionPolicy(conf.Saga.DeletionPolicy),
	)
	logger.Info("order service configured", slog.String("deletion_policy", conf.Saga.DeletionPolicy))

	httpHandler := handler.NewHTTPHandler(logger, orderService)

	app := app.New(logger, conf)

	app.SetHTTPHandlers(httpHandler)
	if conf.Kafka.Enabled {
		app.SetConsumers(handler.NewKafkaHandler(logger, conf.Kafka, orderService))
	}
	app.SetStarters(ordersCache, tokenManager, cacheWarmUpAdapter{svc: orderService, count: conf.Cache.Capacity})
	app.SetClosers(closers...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

type orderCache interface {
	service.Cache
	app.Starter
}

type warmUpper interface {
	WarmUpCache(ctx context.Context, count int) error
}

type cacheWarmUpAdapter struct {
	svc   warmUpper
	count int
}

func (a cacheWarmUpAdapter) Start(ctx context.Context) error {
	return a.svc.WarmUpCache(ctx, a.count)
}
