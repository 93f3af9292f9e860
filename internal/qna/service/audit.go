package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"qna/internal/audit"
	"qna/internal/qna/models"
	"qna/pkg/requestcontext"
)

// auditEmitter funnels service actions into the audit publisher and the
// structured log. Operations events are best-effort; the deletion path
// treats a failed emit as fatal because the compliance record is part of
// the workflow's contract.
type auditEmitter struct {
	logger    *slog.Logger
	publisher AuditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher AuditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emit(ctx context.Context, event audit.Event, failClosed bool) error {
	if e.logger != nil {
		e.logger.InfoContext(ctx, "audit",
			"action", event.Action,
			"actor_id", event.ActorID.String(),
			"content_type", event.ContentType,
			"content_id", event.ContentID.String(),
			"reason", event.Reason,
		)
	}
	if e.publisher == nil {
		return nil
	}
	if err := e.publisher.Emit(ctx, event); err != nil {
		if failClosed {
			return err
		}
		if e.logger != nil {
			e.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
		}
	}
	return nil
}

func (e *auditEmitter) emitUserRegistered(ctx context.Context, event models.UserRegistered) {
	_ = e.emit(ctx, audit.Event{
		ActorID:   event.UserID,
		Action:    string(audit.EventUserRegistered),
		RequestID: requestcontext.RequestID(ctx),
	}, false)
}

func (e *auditEmitter) emitQuestionPosted(ctx context.Context, event models.QuestionPosted) {
	_ = e.emit(ctx, audit.Event{
		ActorID:     event.AuthorID,
		ContentType: string(models.ContentTypeQuestion),
		ContentID:   uuid.UUID(event.QuestionID),
		Action:      string(audit.EventQuestionPosted),
		RequestID:   requestcontext.RequestID(ctx),
	}, false)
}

func (e *auditEmitter) emitAnswerPosted(ctx context.Context, event models.AnswerPosted) {
	_ = e.emit(ctx, audit.Event{
		ActorID:     event.AuthorID,
		ContentType: string(models.ContentTypeAnswer),
		ContentID:   uuid.UUID(event.AnswerID),
		Action:      string(audit.EventAnswerPosted),
		RequestID:   requestcontext.RequestID(ctx),
	}, false)
}

// emitQuestionDeleted is fail-closed: it runs inside the deletion
// transaction and an error aborts the whole workflow.
func (e *auditEmitter) emitQuestionDeleted(ctx context.Context, event models.QuestionDeleted) error {
	return e.emit(ctx, audit.Event{
		ActorID:     event.DeletedBy,
		ContentType: string(models.ContentTypeQuestion),
		ContentID:   uuid.UUID(event.QuestionID),
		Action:      string(audit.EventQuestionDeleted),
		RequestID:   requestcontext.RequestID(ctx),
	}, true)
}

// emitAnswerDeleted records one cascaded answer deletion. Like the
// question's event it is fail-closed inside the deletion transaction.
func (e *auditEmitter) emitAnswerDeleted(ctx context.Context, event models.AnswerDeleted) error {
	return e.emit(ctx, audit.Event{
		ActorID:     event.DeletedBy,
		ContentType: string(models.ContentTypeAnswer),
		ContentID:   uuid.UUID(event.AnswerID),
		Action:      string(audit.EventAnswerDeleted),
		RequestID:   requestcontext.RequestID(ctx),
	}, true)
}

func (e *auditEmitter) emitQuestionDeleteDenied(ctx context.Context, event models.QuestionDeleteDenied) {
	_ = e.emit(ctx, audit.Event{
		ActorID:     event.ActorID,
		ContentType: string(models.ContentTypeQuestion),
		ContentID:   uuid.UUID(event.QuestionID),
		Action:      string(audit.EventQuestionDeleteDenied),
		Reason:      event.Reason,
		RequestID:   requestcontext.RequestID(ctx),
	}, false)
}

func (e *auditEmitter) emitQuestionPurged(ctx context.Context, event models.QuestionPurged) {
	_ = e.emit(ctx, audit.Event{
		ContentType: string(models.ContentTypeQuestion),
		ContentID:   uuid.UUID(event.QuestionID),
		Action:      string(audit.EventQuestionPurged),
		RequestID:   requestcontext.RequestID(ctx),
	}, false)
}
