package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveIsIdempotentUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &RegistrationIntent{UID: "u1", Email: "u1@example.com", Payload: json.RawMessage(`{"a":1}`)}
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.MarkFailed(ctx, "u1", errors.New("db down")))

	second := &RegistrationIntent{UID: "u1", Email: "u1@example.com", Payload: json.RawMessage(`{"a":2}`)}
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, IntentPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Empty(t, got.LastError)
	assert.JSONEq(t, `{"a":2}`, string(got.Payload))
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
}

func TestMemoryStore_ListPending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: "old-pending"}))
	require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: "old-reconciled"}))
	require.NoError(t, s.MarkReconciled(ctx, "old-reconciled"))

	s.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: "old-failed"}))
	require.NoError(t, s.MarkFailed(ctx, "old-failed", errors.New("boom")))

	s.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: "fresh"}))

	pending, err := s.ListPending(ctx, base.Add(10*time.Minute), 0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "old-pending", pending[0].UID)
	assert.Equal(t, "old-failed", pending[1].UID)

	limited, err := s.ListPending(ctx, base.Add(10*time.Minute), 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore_ListPendingSkipsExhausted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	for _, uid := range []string{"dead1", "dead2", "dead3"} {
		require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: uid}))
		for i := 0; i < 3; i++ {
			require.NoError(t, s.MarkFailed(ctx, uid, errors.New("boom")))
		}
	}
	s.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, s.Save(ctx, &RegistrationIntent{UID: "good"}))

	batch, err := s.ListPending(ctx, base.Add(time.Hour), 3, 3)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "good", batch[0].UID)

	all, err := s.ListPending(ctx, base.Add(time.Hour), 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryStore_UnknownIntent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)
	assert.ErrorIs(t, s.MarkReconciled(ctx, "missing"), ErrIntentNotFound)
}
