package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/metrics"
	"proconnect_backend/internal/services"
)

const registrationWorkerName = "registration_reconciler"

// RegistrationWorker доигрывает зависшие намерения регистрации из журнала
type RegistrationWorker struct {
	db       *gorm.DB
	service  services.RegistrationService
	interval time.Duration
	after    time.Duration
	batch    int
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewRegistrationWorker(db *gorm.DB, service services.RegistrationService, interval, after time.Duration, batch int, m *metrics.Metrics) *RegistrationWorker {
	if batch <= 0 {
		batch = 50
	}
	return &RegistrationWorker{
		db:       db,
		service:  service,
		interval: interval,
		after:    after,
		batch:    batch,
		metrics:  m,
		now:      time.Now,
	}
}

// Start запускает цикл в отдельной горутине. Нулевой интервал выключает воркер.
func (w *RegistrationWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Registration worker disabled")
		return
	}
	go w.loop(ctx)
}

func (w *RegistrationWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Registration worker started", "interval", w.interval, "after", w.after)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Registration worker stopped")
			return
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

// RunOnce - один проход по намерениям старше w.after
func (w *RegistrationWorker) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	result, err := w.service.ReconcilePending(ctx, w.db, w.now().Add(-w.after), w.batch)

	reconciled := 0
	if result != nil {
		reconciled = result.Reconciled
	}
	if w.metrics != nil {
		w.metrics.RecordReconcile(time.Since(start), reconciled, err)
	}

	if err != nil {
		logger.WorkerLog(registrationWorkerName, "reconcile", err)
		return reconciled, err
	}
	if result.Processed > 0 {
		logger.WorkerLog(registrationWorkerName, "reconcile", nil,
			"processed", result.Processed,
			"reconciled", result.Reconciled,
			"failed", result.Failed,
		)
	}
	return reconciled, nil
}
