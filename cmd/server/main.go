package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"comandas/internal/config"
	handlers "comandas/internal/controllers/http"
	"comandas/internal/infra/catalog"
	"comandas/internal/infra/consul"
	mmysql "comandas/internal/infra/mysql"
	"comandas/internal/infra/rabbitmq"
	mysqlrepo "comandas/internal/repository/mysql"
	"comandas/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()

	db, err := mmysql.New(cfg.MySQL)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	paymentRepo := mysqlrepo.NewPaymentRepository(db)

	resolver := consul.NewResolver(cfg.ConsulAddr, cfg.GatewayServiceName, cfg.GatewayFallbackURL, 5*time.Second)
	productClient := catalog.NewProductClient(resolver, cfg.GatewayRootPath, 5*time.Second)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	orderService := services.NewOrderService(orderRepo, productClient, publisher)
	paymentService := services.NewPaymentService(paymentRepo, publisher)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost + ":6379",
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	orderService.SetRedisClient(redisClient)

	go func() {
		time.Sleep(5 * time.Second)
		if err := orderService.WarmupProductCache(context.Background(), []int{101, 202}); err != nil {
			log.Printf("Failed to warm up cache: %v", err)
		}
	}()

	handler := handlers.NewHandler(orderService, paymentService, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("invalid PORT %q: %v", cfg.Port, err)
	}

	registrar := consul.NewRegistrar(cfg.ConsulAddr, cfg.ServiceName, cfg.ServiceAddress, port)
	go func() {
		if err := registrar.RegisterWithRetry(context.Background(), 10, time.Second); err != nil {
			log.Printf("consul register: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Starting %s on port %s", cfg.ServiceName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server run: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	registrar.Deregister()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
