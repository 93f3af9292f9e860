package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qna/internal/qna/models"
	"qna/internal/qna/service"
	"qna/internal/qna/store"
	id "qna/pkg/domain"
)

func newOpsTestService(t *testing.T) *service.Service {
	t.Helper()
	answers := store.NewInMemoryAnswerStore()
	return service.New(
		store.NewInMemoryUserStore(),
		store.NewInMemoryQuestionStore(answers),
		answers,
		store.NewInMemoryDeleteHistoryStore(),
		store.NewInMemoryUserContentIndex(),
	)
}

func TestOpsRouterHealthz(t *testing.T) {
	t.Run("healthy without a backend check", func(t *testing.T) {
		router := opsRouter(newOpsTestService(t), nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unavailable when the backend check fails", func(t *testing.T) {
		failing := func(context.Context) error { return errors.New("connection refused") }
		router := opsRouter(newOpsTestService(t), failing)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestOpsRouterDeleteHistories(t *testing.T) {
	ctx := context.Background()
	svc := newOpsTestService(t)
	router := opsRouter(svc, nil)

	user, err := svc.RegisterUser(ctx, "javajigi", "name", "javajigi@slipp.net", "password")
	require.NoError(t, err)
	question, err := svc.PostQuestion(ctx, user.ID, "title1", "contents1")
	require.NoError(t, err)
	_, err = svc.PostAnswer(ctx, question.ID, user.ID, "Answers Contents1")
	require.NoError(t, err)
	histories, err := svc.DeleteQuestion(ctx, question.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, histories, 2)

	t.Run("returns the user's histories as JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ops/users/"+user.ID.String()+"/delete-histories", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var listed []models.DeleteHistory
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		require.Len(t, listed, 2)
		assert.Equal(t, histories[0].ID, listed[0].ID)
		assert.Equal(t, models.ContentTypeQuestion, listed[0].ContentType)
	})

	t.Run("rejects a malformed user ID", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ops/users/not-a-uuid/delete-histories", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user yields an empty list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ops/users/"+id.NewUserID().String()+"/delete-histories", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var listed []models.DeleteHistory
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		assert.Empty(t, listed)
	})
}
