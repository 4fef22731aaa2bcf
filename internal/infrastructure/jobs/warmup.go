package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// TaskIntelligenceWarmup precalcula desempeño y confiabilidad de proveedores en la caché.
const TaskIntelligenceWarmup = "restock:intelligence_warmup"

const warmupTimeout = 2 * time.Minute

// IntelligenceWarmer lo implementa supplier.IntelligenceUseCase.
type IntelligenceWarmer interface {
	Warmup(ctx context.Context) (int, error)
}

// WarmupPayload datos de la tarea; Reason queda en el log (cron, manual, restock).
type WarmupPayload struct {
	Reason string `json:"reason"`
}

// NewWarmupTask construye la tarea asynq.
func NewWarmupTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(WarmupPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntelligenceWarmup, data), nil
}

// WarmupJob handler de TaskIntelligenceWarmup.
type WarmupJob struct {
	warmer  IntelligenceWarmer
	log     *logger.Logger
	metrics *Metrics
}

// NewWarmupJob construye el handler. log y metrics pueden ser nil.
func NewWarmupJob(warmer IntelligenceWarmer, log *logger.Logger, metrics *Metrics) *WarmupJob {
	if log == nil {
		log = logger.Nop()
	}
	return &WarmupJob{
		warmer:  warmer,
		log:     log.Component(TaskIntelligenceWarmup),
		metrics: metrics,
	}
}

// Handle procesa la tarea. Un payload ilegible no se reintenta.
func (j *WarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.warmer == nil {
		return errors.New("intelligence warmup: handler no configurado")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("intelligence warmup: payload inválido: %w", asynq.SkipRetry)
		}
	}
	if payload.Reason == "" {
		payload.Reason = "cron"
	}

	tracker := j.metrics.Track(TaskIntelligenceWarmup)
	defer func() { resultErr = tracker.End(resultErr) }()

	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	start := time.Now()
	warmed, err := j.warmer.Warmup(ctx)
	if err != nil {
		j.log.Error().Err(err).Str("reason", payload.Reason).Msg("warmup de inteligencia falló")
		return err
	}
	j.log.Info().
		Str("reason", payload.Reason).
		Int("suppliers", warmed).
		Dur("duration", time.Since(start)).
		Msg("warmup de inteligencia completado")
	return nil
}
