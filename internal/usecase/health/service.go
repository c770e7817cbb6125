package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an embedding model is down; searches may lose a modality.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog index is unreachable; no search can succeed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const checkDatabase = "database"

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	embedders  map[string]EmbeddingChecker
	embedNames []string
}

// New creates a Service. embedders maps a model role ("joint", "text") to its
// checker and may be empty.
func New(db DBPinger, embedders map[string]EmbeddingChecker) *Service {
	names := make([]string, 0, len(embedders))
	for name := range embedders {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Service{db: db, embedders: embedders, embedNames: names}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.embedNames)+1)
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks[checkDatabase] = CheckError
		status = Unhealthy
	} else {
		checks[checkDatabase] = CheckOK
	}

	for _, name := range s.embedNames {
		key := "embedding_" + name
		if err := s.embedders[name].HealthCheck(ctx); err != nil {
			checks[key] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[key] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
