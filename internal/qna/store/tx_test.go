package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "qna/pkg/domain-errors"
)

func TestMemoryTxRunsCallback(t *testing.T) {
	tx := NewMemoryTx()
	ran := false

	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		ran = true
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestMemoryTxPropagatesCallbackError(t *testing.T) {
	tx := NewMemoryTx()
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestMemoryTxRejectsCancelledContext(t *testing.T) {
	tx := NewMemoryTx()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tx.RunInTx(ctx, func(context.Context) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestMemoryTxSerializesWorkflows(t *testing.T) {
	tx := NewMemoryTx()
	counter := 0
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = tx.RunInTx(context.Background(), func(context.Context) error {
				counter++
				return nil
			})
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 8, counter)
}
