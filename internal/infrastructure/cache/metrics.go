package cache

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contadores de la caché de inteligencia, etiquetados por backend (redis|memory).
type Metrics struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registra los contadores en reg (DefaultRegisterer si es nil).
// Registrar dos veces reutiliza los colectores existentes.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmacia_intel_cache_hits_total",
			Help: "Aciertos de la caché de inteligencia de proveedores.",
		}, []string{"backend"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmacia_intel_cache_miss_total",
			Help: "Fallos de la caché de inteligencia de proveedores (el valor se recalcula).",
		}, []string{"backend"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmacia_intel_cache_errors_total",
			Help: "Errores del backend de caché; la consulta se resuelve sin caché.",
		}, []string{"backend"}),
	}

	for _, c := range []**prometheus.CounterVec{&m.hits, &m.misses, &m.failures} {
		if err := reg.Register(*c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
			existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("cache metrics: colector inesperado %T", already.ExistingCollector)
			}
			*c = existing
		}
	}
	return m, nil
}

func (m *Metrics) hit(backend string) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(backend).Inc()
}

func (m *Metrics) miss(backend string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(backend).Inc()
}

func (m *Metrics) failure(backend string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(backend).Inc()
}
