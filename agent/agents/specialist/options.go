package specialist

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *metricsx.Metrics
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithMetrics(m *metricsx.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: log.Logger}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
