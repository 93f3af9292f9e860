package models

import (
	"time"

	"github.com/google/uuid"

	id "qna/pkg/domain"
)

// ContentType discriminates what kind of content a DeleteHistory records.
type ContentType string

const (
	ContentTypeQuestion ContentType = "question"
	ContentTypeAnswer   ContentType = "answer"
)

// DeleteHistory is the immutable audit record of one soft-delete. It is an
// append-only fact: never updated or deleted by this module. The deleter is
// the user who performed the deletion, not necessarily the content author.
//
// ContentID is a raw UUID because it names either a question or an answer;
// ContentType tells which.
type DeleteHistory struct {
	ID          id.DeleteHistoryID `json:"id"`
	ContentType ContentType        `json:"content_type"`
	ContentID   uuid.UUID          `json:"content_id"`
	DeletedBy   id.UserID          `json:"deleted_by"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewDeleteHistory constructs a history record. The ID is assigned here so
// the record is save-ready; Save is idempotent by that ID.
func NewDeleteHistory(contentType ContentType, contentID uuid.UUID, deletedBy id.UserID, now time.Time) DeleteHistory {
	return DeleteHistory{
		ID:          id.NewDeleteHistoryID(),
		ContentType: contentType,
		ContentID:   contentID,
		DeletedBy:   deletedBy,
		CreatedAt:   now,
	}
}
