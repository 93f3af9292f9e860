package audit

import (
	"time"

	"github.com/google/uuid"

	id "qna/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. It
// enables different retention policies and routing per category.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance,
	// e.g. content deletion. These require durable storage.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring,
	// e.g. denied deletion attempts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity useful for debugging.
	// These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the service layer to capture key actions. It is
// operational telemetry about who did what - distinct from the domain's
// own DeleteHistory records, which are part of the deletion contract.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// ActorID is the user who performed the action.
	ActorID id.UserID
	// ContentType and ContentID name the affected entity when one exists.
	ContentType string
	ContentID   uuid.UUID
	Action      string
	// Reason carries the denial reason for rejected actions.
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventUserRegistered       AuditEvent = "user_registered"
	EventQuestionPosted       AuditEvent = "question_posted"
	EventAnswerPosted         AuditEvent = "answer_posted"
	EventQuestionDeleted      AuditEvent = "question_deleted"
	EventAnswerDeleted        AuditEvent = "answer_deleted"
	EventQuestionDeleteDenied AuditEvent = "question_delete_denied"
	EventQuestionPurged       AuditEvent = "question_purged"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	// Compliance events - deletions must be durably accounted for
	EventQuestionDeleted: CategoryCompliance,
	EventAnswerDeleted:   CategoryCompliance,
	EventQuestionPurged:  CategoryCompliance,

	// Security events - policy violations feed monitoring
	EventQuestionDeleteDenied: CategorySecurity,

	// Operations events - routine activity, can be sampled
	EventUserRegistered: CategoryOperations,
	EventQuestionPosted: CategoryOperations,
	EventAnswerPosted:   CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
