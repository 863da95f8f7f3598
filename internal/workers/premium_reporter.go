package workers

import (
	"context"
	"fmt"
	"time"

	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"

	"github.com/robfig/cron/v3"
)

const (
	premiumReporterName = "premium_reporter"
	DefaultPremiumSpec  = "@every 10m"
	premiumCountTimeout = 30 * time.Second
)

// PremiumCounter - источник числа действующих премиумов
type PremiumCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

// PremiumReporter периодически обновляет gauge действующих премиумов.
// Строки не меняет: ранжирование считает премиум на момент чтения.
type PremiumReporter struct {
	cron    *cron.Cron
	counter PremiumCounter
	metrics *metrics.Collector
	spec    string
}

func NewPremiumReporter(counter PremiumCounter, collector *metrics.Collector, spec string) *PremiumReporter {
	if spec == "" {
		spec = DefaultPremiumSpec
	}
	return &PremiumReporter{
		cron:    cron.New(),
		counter: counter,
		metrics: collector,
		spec:    spec,
	}
}

// Start регистрирует задачу и сразу делает первый замер
func (w *PremiumReporter) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.spec, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	w.cron.Start()
	logger.WorkerLog(premiumReporterName, "start", nil, "spec", w.spec)

	go w.RunOnce(ctx)
	return nil
}

// Stop ждет завершения текущего запуска
func (w *PremiumReporter) Stop() {
	<-w.cron.Stop().Done()
	logger.WorkerLog(premiumReporterName, "stop", nil)
}

func (w *PremiumReporter) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, premiumCountTimeout)
	defer cancel()

	started := time.Now()
	n, err := w.counter.CountActive(ctx)
	if err != nil {
		logger.WorkerLog(premiumReporterName, "count", err)
		return
	}
	w.metrics.SetPremiumActive(n)
	logger.WorkerLog(premiumReporterName, "count", nil, "active", n, "duration", time.Since(started))
}
