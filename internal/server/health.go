package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/dronepath/internal/source"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// SourceHealthService verifies the graph source as part of health checks.
// Sources that cannot be probed are reported healthy.
type SourceHealthService struct {
	Source source.Source
}

// Probe implements the HealthService interface.
func (s SourceHealthService) Probe(ctx context.Context) error {
	if s.Source == nil {
		return nil
	}
	if p, ok := s.Source.(source.Prober); ok {
		return p.Probe(ctx)
	}
	return nil
}

// HealthChecks probes several named dependencies and joins their failures.
type HealthChecks map[string]HealthService

// Probe implements the HealthService interface.
func (h HealthChecks) Probe(ctx context.Context) error {
	var errs []error
	for name, check := range h {
		if check == nil {
			continue
		}
		if err := check.Probe(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
