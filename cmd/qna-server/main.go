package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"qna/internal/audit"
	auditkafka "qna/internal/audit/kafka"
	"qna/internal/platform/config"
	"qna/internal/platform/httpserver"
	"qna/internal/platform/logger"
	"qna/internal/platform/postgres"
	"qna/internal/platform/redis"
	"qna/internal/qna/metrics"
	"qna/internal/qna/service"
	"qna/internal/qna/store"
)

// main wires the qna module for standalone operation: storage backends
// from config, the audit sink, and an ops endpoint for health, metrics
// and delete-history inspection. Services embedding the module do this
// wiring themselves.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
	}

	var (
		users     store.UserStore
		questions store.QuestionStore
		answers   store.AnswerStore
		histories store.DeleteHistoryStore
		index     store.UserContentIndex
	)

	var health func(ctx context.Context) error
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := store.Migrate(ctx, db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		users = store.NewPostgresUserStore(db)
		questions = store.NewPostgresQuestionStore(db)
		answers = store.NewPostgresAnswerStore(db)
		histories = store.NewPostgresDeleteHistoryStore(db)
		opts = append(opts, service.WithTx(store.NewSQLTx(db)))
		health = db.PingContext
	} else {
		memAnswers := store.NewInMemoryAnswerStore()
		users = store.NewInMemoryUserStore()
		questions = store.NewInMemoryQuestionStore(memAnswers)
		answers = memAnswers
		histories = store.NewInMemoryDeleteHistoryStore()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		index = store.NewRedisUserContentIndex(redisClient.Client)
	} else {
		index = store.NewInMemoryUserContentIndex()
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		opts = append(opts, service.WithAuditPublisher(publisher))
	} else {
		// Local fallback: queue events through the worker pool into the
		// in-memory sink.
		inbox := make(chan audit.Event, 256)
		worker := audit.NewWorker(audit.NewInMemoryStore(), inbox)
		go func() {
			if err := worker.Run(ctx, 2); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit worker stopped", "error", err)
			}
		}()
		opts = append(opts, service.WithAuditPublisher(audit.NewInboxPublisher(inbox)))
	}

	svc := service.New(users, questions, answers, histories, index, opts...)

	srv := httpserver.New(cfg.OpsAddr, opsRouter(svc, health))
	log.Info("qna ops endpoint listening",
		"addr", cfg.OpsAddr,
		"postgres", cfg.PostgresDSN != "",
		"redis", redisClient != nil,
		"kafka", len(cfg.KafkaBrokers) > 0,
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
