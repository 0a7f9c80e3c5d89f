package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/config"
	"checkout-service/internal/api"
	"checkout-service/internal/broker"
	"checkout-service/internal/cart"
	"checkout-service/internal/catalog"
	"checkout-service/internal/checkout"
	"checkout-service/internal/kvstore"
	"checkout-service/internal/orderapi"
	"checkout-service/internal/pricing"
	"checkout-service/internal/session"
	"checkout-service/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting checkout service")

	tp, err := util.InitTracer("checkout-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	kv, err := kvstore.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer kv.Close()
	log.Println("Redis connected")

	loader, err := catalog.NewLoader(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer loader.Close()
	log.Println("Database connected")

	productCatalog := catalog.New()
	go loader.LoadInto(context.Background(), productCatalog)

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCheckout)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewCheckoutEventPublisher(producer)

	cartStore := cart.NewStore(kv)
	promoCatalog := pricing.NewPromoCatalog(pricing.DefaultPromoCodes)
	engine := pricing.NewEngine(cfg.Business.BaseShippingFee)
	checkoutSession := checkout.NewSession(promoCatalog)
	builder := checkout.NewBuilder(productCatalog)
	identity := session.NewResolver(kv)

	apiClient := orderapi.NewClient(cfg.OrderAPI.BaseURL, time.Duration(cfg.OrderAPI.TimeoutSeconds)*time.Second)
	submitter := checkout.NewSubmitter(cartStore, kv, apiClient, eventPublisher)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(cartStore, productCatalog, engine, promoCatalog, checkoutSession, builder, submitter, identity)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
