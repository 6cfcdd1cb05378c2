package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/voro-app/feed-service/internal/config"
	"github.com/voro-app/feed-service/internal/handler"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/rabbitmq"
	"github.com/voro-app/feed-service/internal/repository"
	"github.com/voro-app/feed-service/internal/repository/postgres"
	"github.com/voro-app/feed-service/internal/server"
	"github.com/voro-app/feed-service/internal/service"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	redisOptions := &redis.Options{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	rdb := redis.NewClient(redisOptions)
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	var repos *repository.Repository
	switch storage := viper.GetString("app.storage"); storage {
	case config.StorageInMemory:
		repos = repository.NewInMemory(rdb)
		logger.Warn("Using in-memory storage, posts will not survive a restart")
	case config.StoragePostgres, "":
		dbConfig := config.DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}
		db, err := postgres.DB(ctx, dbConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		defer db.Close()
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres schema: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")
		repos = repository.New(db, rdb)
	default:
		logger.Sugar().Panicf("unknown storage %q", storage)
	}

	mq, err := rabbitmq.New(os.Getenv("RABBITMQ_CONN_STRING"))
	if err != nil {
		logger.Sugar().Panicf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()
	logger.Info("Successfully connected to RabbitMQ")

	hub := notify.NewHub(viper.GetInt("notifications.capacity"))
	notifier := notify.Multi{hub, notify.NewLogger(logger)}

	services := service.New(logger, repos, notifier, mq)
	handlers := handler.New(services, hub, []byte(os.Getenv("ACCESS_SECRET")))

	services.Feed.Activate(ctx)

	srv := server.New(config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	})
	go func() {
		if err := srv.Run(); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}()

	go services.StartConsumeAll(ctx)

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shutdown http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
