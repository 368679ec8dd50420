package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plume-backend/internal/config"
	"plume-backend/internal/data"
	"plume-backend/internal/middleware"
	"plume-backend/internal/router"
	"plume-backend/internal/service"
	"plume-backend/pkg/logger"
)

func main() {
	cfgPath := os.Getenv("PLUME_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/app.yaml"
	}
	cfg := config.MustLoad(cfgPath)
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("loaded config", zap.String("path", cfgPath))

	defaults, err := cfg.App.ParseDefaults()
	if err != nil {
		log.Fatal("parse default follow lists", zap.Error(err))
	}

	db, err := data.NewMySQL(cfg.MySQL, log)
	if err != nil {
		log.Fatal("mysql init failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("mysql db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	log.Info("connected to mysql")

	redisClient := data.NewRedis(cfg.Redis)
	if err := data.Ping(context.Background(), redisClient); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))

	// feed pipeline: post events flow main topic → retry → DLQ
	feedWriter := data.NewKafkaWriter(cfg.Kafka, cfg.Kafka.Topic)
	retryWriter := data.NewKafkaWriter(cfg.Kafka, cfg.Kafka.RetryTopic)
	dlqWriter := data.NewKafkaWriter(cfg.Kafka, cfg.Kafka.DLQTopic)
	feedReader := data.NewKafkaReader(cfg.Kafka, cfg.Kafka.Topic, cfg.Kafka.GroupID)
	retryReader := data.NewKafkaReader(cfg.Kafka, cfg.Kafka.RetryTopic, cfg.Kafka.GroupID+"-retry")
	defer feedWriter.Close()
	defer retryWriter.Close()
	defer dlqWriter.Close()
	defer feedReader.Close()
	defer retryReader.Close()
	log.Info("configured kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("retryTopic", cfg.Kafka.RetryTopic),
		zap.String("dlqTopic", cfg.Kafka.DLQTopic),
		zap.String("groupID", cfg.Kafka.GroupID),
	)

	services := service.NewRegistry(db, redisClient, feedWriter, defaults, cfg.App.NSFWTagID, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	mainWorker := service.NewFeedWorker(feedReader, retryWriter, services.Follow, redisClient, log)
	retryWorker := service.NewFeedWorker(retryReader, dlqWriter, services.Follow, redisClient, log)
	go mainWorker.Run(workerCtx)
	go retryWorker.Run(workerCtx)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(middleware.ErrorHandler(log))

	router.RegisterRoutes(engine, services, redisClient)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	go func() {
		log.Info("starting http server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server run failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")
	stopWorkers()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("server shutdown failed", zap.Error(err))
	}
	log.Info("server exited")
}
