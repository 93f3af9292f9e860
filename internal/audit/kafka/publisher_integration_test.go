//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"qna/internal/audit"
	id "qna/pkg/domain"
	"qna/pkg/testutil/containers"
)

func TestPublisherEmitsToTopic(t *testing.T) {
	ctx := context.Background()
	redpanda := containers.NewRedpandaContainer(t)

	const topic = "qna.audit.test"
	publisher, err := New(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()

	actorID := id.NewUserID()
	contentID := uuid.New()
	err = publisher.Emit(ctx, audit.Event{
		ActorID:     actorID,
		ContentType: "question",
		ContentID:   contentID,
		Action:      string(audit.EventQuestionDeleted),
	})
	require.NoError(t, err)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, actorID.String(), string(records[0].Key))

	var body struct {
		ID          string `json:"id"`
		Category    string `json:"category"`
		ActorID     string `json:"actor_id"`
		ContentType string `json:"content_type"`
		ContentID   string `json:"content_id"`
		Action      string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &body))
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, string(audit.CategoryCompliance), body.Category)
	assert.Equal(t, actorID.String(), body.ActorID)
	assert.Equal(t, "question", body.ContentType)
	assert.Equal(t, contentID.String(), body.ContentID)
	assert.Equal(t, string(audit.EventQuestionDeleted), body.Action)
}

func TestNewToleratesExistingTopic(t *testing.T) {
	ctx := context.Background()
	redpanda := containers.NewRedpandaContainer(t)

	const topic = "qna.audit.existing"
	first, err := New(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	first.Close()

	second, err := New(ctx, []string{redpanda.Broker}, topic)
	require.NoError(t, err)
	second.Close()
}
