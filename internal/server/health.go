package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/lottrace/internal/cache"
	"github.com/vanshika/lottrace/internal/graph"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphHealthService verifies graph connectivity as part of health checks.
type GraphHealthService struct {
	Client graph.Client
}

// Probe implements the HealthService interface.
func (s GraphHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	if err := s.Client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	return nil
}

// CacheHealthService pings the trace cache.
type CacheHealthService struct {
	Cache cache.Cache
}

// Probe implements the HealthService interface.
func (s CacheHealthService) Probe(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	if err := s.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// HealthChecks runs every probe and joins their failures.
type HealthChecks []HealthService

// Probe implements the HealthService interface.
func (hc HealthChecks) Probe(ctx context.Context) error {
	var errs []error
	for _, check := range hc {
		if err := check.Probe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
