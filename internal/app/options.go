package service

import (
	"github.com/okian/qualitydash/internal/dataset"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/scoring"
	"github.com/okian/qualitydash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClassifier sets the rule set used for every status, trend and priority.
func WithClassifier(c *scoring.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithDefaultPolarity sets the polarity used for ids missing from the catalog.
func WithDefaultPolarity(p measure.Polarity) Option {
	return func(s *Service) {
		s.defaultPolarity = p
	}
}

// WithOutlierFactor sets the multiple of Q3 used to split slope outliers.
func WithOutlierFactor(f float64) Option {
	return func(s *Service) {
		if f > 0 {
			s.outlierFactor = f
		}
	}
}

// WithDatasetOptions passes options through to dataset.Load.
func WithDatasetOptions(opts ...dataset.Option) Option {
	return func(s *Service) {
		s.datasetOpts = append(s.datasetOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
