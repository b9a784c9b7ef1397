package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"resumehost/internal/filestore"
)

// Metrics counts WOPI operations by outcome. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics registers the WOPI collectors on reg. files backs the registered-files gauge.
func NewMetrics(reg prometheus.Registerer, files *filestore.Store) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wopi_operations_total",
				Help: "WOPI host operations by result.",
			},
			[]string{"operation", "result"},
		),
	}
	registered := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "wopi_files_registered",
			Help: "Number of files currently registered with the host.",
		},
		func() float64 { return float64(files.Len()) },
	)

	if err := reg.Register(m.operations); err != nil {
		return nil, err
	}
	if err := reg.Register(registered); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIO):
		return "io_error"
	case errors.Is(err, ErrReaderNil), errors.Is(err, ErrIDRequired):
		return "bad_request"
	default:
		return "error"
	}
}
