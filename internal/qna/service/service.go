// Package service orchestrates the qna stores around the domain rules.
// The deletion workflow is the heart of the module: everything it writes
// happens inside one StoreTx boundary so the aggregate's soft-delete and
// its history batch commit or roll back together.
package service

import (
	"context"
	"errors"
	"log/slog"

	"qna/internal/audit"
	"qna/internal/qna/metrics"
	"qna/internal/qna/store"
	dErrors "qna/pkg/domain-errors"
	"qna/pkg/platform/sentinel"
)

// StoreTx provides the transactional boundary for multi-store workflows.
// Implementations wrap a database transaction or, in-memory, a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditPublisher emits operational audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates users, questions, answers and delete histories.
type Service struct {
	users     store.UserStore
	questions store.QuestionStore
	answers   store.AnswerStore
	histories store.DeleteHistoryStore
	index     store.UserContentIndex
	tx        StoreTx

	logger  *slog.Logger
	audit   *auditEmitter
	metrics *metrics.Metrics
}

type serviceConfig struct {
	tx             StoreTx
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*serviceConfig)

// WithTx sets the transactional boundary. Defaults to an in-memory lock,
// which matches the in-memory stores; pass store.NewSQLTx for PostgreSQL.
func WithTx(tx StoreTx) Option {
	return func(cfg *serviceConfig) { cfg.tx = tx }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(cfg *serviceConfig) { cfg.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

// New constructs the Service.
func New(
	users store.UserStore,
	questions store.QuestionStore,
	answers store.AnswerStore,
	histories store.DeleteHistoryStore,
	index store.UserContentIndex,
	opts ...Option,
) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = store.NewMemoryTx()
	}
	return &Service{
		users:     users,
		questions: questions,
		answers:   answers,
		histories: histories,
		index:     index,
		tx:        tx,
		logger:    cfg.logger,
		audit:     newAuditEmitter(cfg.logger, cfg.auditPublisher),
		metrics:   cfg.metrics,
	}
}

// wrapStoreErr translates infrastructure sentinels into coded domain
// errors at the service boundary.
func wrapStoreErr(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "conflicting write")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}
