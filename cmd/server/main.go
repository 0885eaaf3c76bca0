package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/siddharth-200231/ADProject/internal/account"
	"github.com/siddharth-200231/ADProject/internal/auth"
	"github.com/siddharth-200231/ADProject/internal/cache"
	"github.com/siddharth-200231/ADProject/internal/catalog"
	"github.com/siddharth-200231/ADProject/internal/db"
	"github.com/siddharth-200231/ADProject/internal/events"
	apphttp "github.com/siddharth-200231/ADProject/internal/http"
	"github.com/siddharth-200231/ADProject/internal/repository"
	"github.com/siddharth-200231/ADProject/internal/service"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	SQLitePath      string
	MigrationsPath  string
	KafkaBrokers    []string
	JWTSecret       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "shopdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "shop.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system environment")
	}
	cfg := loadConfig()

	// SQLite backs the catalog and account stores.
	sqlDB, err := db.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(sqlDB, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("SQLite ready at %s", cfg.SQLitePath)

	// MongoDB holds the cart aggregates.
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)

	cartRepo := repository.NewMongoRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, cartRepo); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Redis ping succeeded")

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
		log.Printf("Publishing cart events to %v", cfg.KafkaBrokers)
	}

	catalogStore := catalog.NewStore(sqlDB)
	accountStore := account.NewStore(sqlDB)
	tokens := auth.NewTokens(cfg.JWTSecret)

	cartCache := cache.NewRedisCache(redisClient)
	carts := service.NewCartService(cartRepo, cartCache, catalogStore, accountStore, publisher)
	accounts := account.NewService(accountStore, tokens)

	router := apphttp.NewRouter(carts, catalogStore, accounts, tokens, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Shop backend listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
