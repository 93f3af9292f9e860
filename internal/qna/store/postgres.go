package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"qna/internal/qna/models"
	id "qna/pkg/domain"
	"qna/pkg/platform/sentinel"
	txcontext "qna/pkg/platform/tx"
)

// PostgreSQL stores. Each store joins an ambient transaction when one is
// carried in the context (pkg/platform/tx), so the deletion workflow's
// writes commit or roll back as one unit.

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execer(ctx context.Context, db *sql.DB) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// Migrate creates the schema. The answers table cascades on question
// removal: that is the referential-integrity contract hard deletes rely
// on. Author columns and history content IDs are deliberately not foreign
// keys - delete histories outlive the content (and users) they describe.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			contents TEXT NOT NULL,
			author_id UUID NOT NULL,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id UUID PRIMARY KEY,
			question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			author_id UUID NOT NULL,
			contents TEXT NOT NULL,
			position INT NOT NULL,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_question_position ON answers (question_id, position)`,
		`CREATE TABLE IF NOT EXISTS delete_histories (
			id UUID PRIMARY KEY,
			content_type TEXT NOT NULL,
			content_id UUID NOT NULL,
			deleted_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_delete_histories_deleted_by ON delete_histories (deleted_by, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate qna schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Save(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		user.ID.String(), user.Username, user.Name, user.Email,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save user: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, username, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`
	return scanUser(execer(ctx, s.db).QueryRowContext(ctx, query, userID.String()))
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, name, email, password_hash, created_at, updated_at
		FROM users WHERE username = $1
	`
	return scanUser(execer(ctx, s.db).QueryRowContext(ctx, query, username))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user  models.User
		rawID string
	)
	err := row.Scan(&rawID, &user.Username, &user.Name, &user.Email,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan user id: %w", err)
	}
	user.ID = userID
	return &user, nil
}

func (s *PostgresUserStore) Delete(ctx context.Context, userID id.UserID) error {
	res, err := execer(ctx, s.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res)
}

type PostgresQuestionStore struct {
	db *sql.DB
}

func NewPostgresQuestionStore(db *sql.DB) *PostgresQuestionStore {
	return &PostgresQuestionStore{db: db}
}

func (s *PostgresQuestionStore) Save(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (id, title, contents, author_id, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			contents = EXCLUDED.contents,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		question.ID.String(), question.Title, question.Contents,
		question.Author.String(), question.Deleted,
		question.CreatedAt, question.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}

func (s *PostgresQuestionStore) FindByID(ctx context.Context, questionID id.QuestionID) (*models.Question, error) {
	query := `
		SELECT id, title, contents, author_id, deleted, created_at, updated_at
		FROM questions WHERE id = $1
	`
	row := execer(ctx, s.db).QueryRowContext(ctx, query, questionID.String())

	var (
		question models.Question
		rawID    string
		rawAuth  string
	)
	err := row.Scan(&rawID, &question.Title, &question.Contents, &rawAuth,
		&question.Deleted, &question.CreatedAt, &question.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}
	qid, err := id.ParseQuestionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan question id: %w", err)
	}
	author, err := id.ParseUserID(rawAuth)
	if err != nil {
		return nil, fmt.Errorf("scan question author: %w", err)
	}
	question.ID = qid
	question.Author = author
	return &question, nil
}

func (s *PostgresQuestionStore) Delete(ctx context.Context, questionID id.QuestionID) error {
	// Answers go with the question via ON DELETE CASCADE.
	res, err := execer(ctx, s.db).ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID.String())
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res)
}

type PostgresAnswerStore struct {
	db *sql.DB
}

func NewPostgresAnswerStore(db *sql.DB) *PostgresAnswerStore {
	return &PostgresAnswerStore{db: db}
}

func (s *PostgresAnswerStore) Save(ctx context.Context, answer *models.Answer) error {
	query := `
		INSERT INTO answers (id, question_id, author_id, contents, position, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			contents = EXCLUDED.contents,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		answer.ID.String(), answer.Question.String(), answer.Author.String(),
		answer.Contents, answer.Position, answer.Deleted,
		answer.CreatedAt, answer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

func (s *PostgresAnswerStore) FindByID(ctx context.Context, answerID id.AnswerID) (*models.Answer, error) {
	query := `
		SELECT id, question_id, author_id, contents, position, deleted, created_at, updated_at
		FROM answers WHERE id = $1
	`
	row := execer(ctx, s.db).QueryRowContext(ctx, query, answerID.String())
	answer, err := scanAnswer(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return answer, err
}

func (s *PostgresAnswerStore) ListByQuestion(ctx context.Context, questionID id.QuestionID) ([]*models.Answer, error) {
	query := `
		SELECT id, question_id, author_id, contents, position, deleted, created_at, updated_at
		FROM answers WHERE question_id = $1
		ORDER BY position
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, questionID.String())
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []*models.Answer
	for rows.Next() {
		answer, err := scanAnswer(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return out, nil
}

func scanAnswer(scan func(dest ...any) error) (*models.Answer, error) {
	var (
		answer  models.Answer
		rawID   string
		rawQ    string
		rawAuth string
	)
	err := scan(&rawID, &rawQ, &rawAuth, &answer.Contents, &answer.Position,
		&answer.Deleted, &answer.CreatedAt, &answer.UpdatedAt)
	if err != nil {
		return nil, err
	}
	answerID, err := id.ParseAnswerID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan answer id: %w", err)
	}
	questionID, err := id.ParseQuestionID(rawQ)
	if err != nil {
		return nil, fmt.Errorf("scan answer question: %w", err)
	}
	author, err := id.ParseUserID(rawAuth)
	if err != nil {
		return nil, fmt.Errorf("scan answer author: %w", err)
	}
	answer.ID = answerID
	answer.Question = questionID
	answer.Author = author
	return &answer, nil
}

func (s *PostgresAnswerStore) CountByQuestion(ctx context.Context, questionID id.QuestionID) (int, error) {
	var count int
	err := execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM answers WHERE question_id = $1`, questionID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return count, nil
}

func (s *PostgresAnswerStore) Delete(ctx context.Context, answerID id.AnswerID) error {
	res, err := execer(ctx, s.db).ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, answerID.String())
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	return requireAffected(res)
}

type PostgresDeleteHistoryStore struct {
	db *sql.DB
}

func NewPostgresDeleteHistoryStore(db *sql.DB) *PostgresDeleteHistoryStore {
	return &PostgresDeleteHistoryStore{db: db}
}

func (s *PostgresDeleteHistoryStore) Append(ctx context.Context, history models.DeleteHistory) error {
	// Append-only: histories are never updated, so conflicts on the
	// immutable ID are ignored rather than overwritten.
	query := `
		INSERT INTO delete_histories (id, content_type, content_id, deleted_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query,
		history.ID.String(), string(history.ContentType), history.ContentID.String(),
		history.DeletedBy.String(), history.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append delete history: %w", err)
	}
	return nil
}

func (s *PostgresDeleteHistoryStore) FindByID(ctx context.Context, historyID id.DeleteHistoryID) (models.DeleteHistory, error) {
	query := `
		SELECT id, content_type, content_id, deleted_by, created_at
		FROM delete_histories WHERE id = $1
	`
	row := execer(ctx, s.db).QueryRowContext(ctx, query, historyID.String())
	history, err := scanDeleteHistory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeleteHistory{}, sentinel.ErrNotFound
	}
	return history, err
}

func (s *PostgresDeleteHistoryStore) ListByDeleter(ctx context.Context, deleterID id.UserID) ([]models.DeleteHistory, error) {
	query := `
		SELECT id, content_type, content_id, deleted_by, created_at
		FROM delete_histories WHERE deleted_by = $1
		ORDER BY created_at, id
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, deleterID.String())
	if err != nil {
		return nil, fmt.Errorf("list delete histories: %w", err)
	}
	defer rows.Close()

	var out []models.DeleteHistory
	for rows.Next() {
		history, err := scanDeleteHistory(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, history)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delete histories: %w", err)
	}
	return out, nil
}

func scanDeleteHistory(scan func(dest ...any) error) (models.DeleteHistory, error) {
	var (
		history    models.DeleteHistory
		rawID      string
		rawType    string
		rawContent string
		rawDeleter string
	)
	err := scan(&rawID, &rawType, &rawContent, &rawDeleter, &history.CreatedAt)
	if err != nil {
		return models.DeleteHistory{}, err
	}
	historyID, err := id.ParseDeleteHistoryID(rawID)
	if err != nil {
		return models.DeleteHistory{}, fmt.Errorf("scan history id: %w", err)
	}
	contentID, err := parseRawUUID(rawContent)
	if err != nil {
		return models.DeleteHistory{}, fmt.Errorf("scan history content id: %w", err)
	}
	deleter, err := id.ParseUserID(rawDeleter)
	if err != nil {
		return models.DeleteHistory{}, fmt.Errorf("scan history deleter: %w", err)
	}
	history.ID = historyID
	history.ContentType = models.ContentType(rawType)
	history.ContentID = contentID
	history.DeletedBy = deleter
	return history, nil
}

func parseRawUUID(raw string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return parsed, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
