package workers

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/docstore"
	"proconnect_backend/internal/metrics"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services"
	dbtest "proconnect_backend/internal/testutil"
	"proconnect_backend/internal/validator"
)

func TestRegistrationWorker_RunOnce(t *testing.T) {
	db := dbtest.NewTestDB(t)
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	require.NoError(t, store.Save(ctx, &docstore.RegistrationIntent{
		UID:     "stuck",
		Email:   "stuck@example.com",
		Payload: []byte(`{"profile":{"firstName":"Stuck","lastName":"User"},"roles":{"professional":true}}`),
	}))

	service := services.NewRegistrationService(
		repositories.NewUserRepository(),
		repositories.NewProfileRepository(),
		repositories.NewRoleRepository(),
		store,
		validator.New(),
		false,
	)
	m := metrics.New(prometheus.NewRegistry(), "test")
	worker := NewRegistrationWorker(db, service, time.Minute, time.Minute, 10, m)

	// свежие намерения не трогаем
	reconciled, err := worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reconciled)

	worker.now = func() time.Time { return time.Now().Add(time.Hour) }
	reconciled, err = worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reconciled)

	exists, err := repositories.NewUserRepository().Exists(db, "stuck")
	require.NoError(t, err)
	assert.True(t, exists)

	intent, err := store.Get(ctx, "stuck")
	require.NoError(t, err)
	assert.Equal(t, docstore.IntentReconciled, intent.Status)

	reconciled, err = worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, reconciled)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconciledIntents))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ReconcileRunsTotal.WithLabelValues("ok")))
}

func TestRegistrationWorker_DisabledWithZeroInterval(t *testing.T) {
	worker := NewRegistrationWorker(nil, nil, 0, time.Minute, 0, nil)
	assert.Equal(t, 50, worker.batch)
	assert.NotPanics(t, func() { worker.Start(context.Background()) })
}
