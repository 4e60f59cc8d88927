package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pruner удаляет старые записи журнала конвертаций
type Pruner interface {
	DeleteConversionsBefore(ctx context.Context, before time.Time) (int64, error)
}

// Worker периодически чистит журнал конвертаций от записей старше retention
type Worker struct {
	journal   Pruner
	logger    *logrus.Logger
	ticker    *time.Ticker
	done      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// Создаём новый воркер
func New(journal Pruner, logger *logrus.Logger, interval, retention time.Duration) *Worker {
	return &Worker{
		journal:   journal,
		logger:    logger,
		done:      make(chan struct{}),
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Запускаем воркер
func (w *Worker) Start(ctx context.Context) {
	w.logger.WithFields(logrus.Fields{
		"interval":  w.interval.String(),
		"retention": w.retention.String(),
	}).Info("Starting journal retention worker")

	w.ticker = time.NewTicker(w.interval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Первая очистка сразу после старта
		w.prune(ctx)

		for {
			select {
			case <-w.ticker.C:
				w.prune(ctx)
			case <-w.done:
				w.logger.Info("Worker stopped")
				return
			case <-ctx.Done():
				w.logger.Info("Worker context cancelled")
				return
			}
		}
	}()
}

// Стопаем воркер и ждём завершения текущей очистки
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		if w.ticker != nil {
			w.ticker.Stop()
		}
		close(w.done)
	})
	w.wg.Wait()
}

func (w *Worker) prune(ctx context.Context) {
	cutoff := w.now().Add(-w.retention)

	deleted, err := w.journal.DeleteConversionsBefore(ctx, cutoff)
	if err != nil {
		w.logger.WithError(err).Error("Failed to prune conversion journal")
		return
	}

	if deleted == 0 {
		w.logger.Debug("No expired journal entries found")
		return
	}

	w.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
	}).Info("Pruned conversion journal")
}
