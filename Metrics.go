package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"sheetEngine/formulas"
	"sheetEngine/spreadsheet"
)

const metricsNamespace = "sheet_engine"

const (
	editResultOk       = "ok"
	editResultFormat   = "format_error"
	editResultCircular = "circular_dependency"
	editResultInvalid  = "invalid_name"
	editResultStorage  = "storage_error"
)

type Metrics struct {
	registry          *prometheus.Registry
	Edits             *prometheus.CounterVec
	RecalculatedCells prometheus.Histogram
	LoadedSheets      prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cell_edits_total",
			Help:      "Cell edits by result.",
		}, []string{"result"}),
		RecalculatedCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "recalculated_cells",
			Help:      "Number of cells recalculated by one accepted edit.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		LoadedSheets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sheets_loaded_total",
			Help:      "Sheets rebuilt from storage.",
		}),
	}

	m.registry.MustRegister(m.Edits, m.RecalculatedCells, m.LoadedSheets)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveEdit(recalculated int, err error) {
	if m == nil {
		return
	}

	m.Edits.WithLabelValues(editResult(err)).Inc()
	if err == nil {
		m.RecalculatedCells.Observe(float64(recalculated))
	}
}

func editResult(err error) string {
	switch {
	case err == nil:
		return editResultOk
	case errors.Is(err, formulas.ErrFormat):
		return editResultFormat
	case errors.Is(err, spreadsheet.ErrCircularDependency):
		return editResultCircular
	case errors.Is(err, spreadsheet.ErrInvalidName):
		return editResultInvalid
	default:
		return editResultStorage
	}
}
