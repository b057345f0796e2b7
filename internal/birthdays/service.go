package birthdays

import (
	"context"
	"time"

	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/observability/metrics"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// PatientSource is the storage call birthdays depend on.
type PatientSource interface {
	FindWithBirthDate(ctx context.Context) ([]patients.Patient, error)
}

// Service lists the day's birthdays.
type Service struct {
	source  PatientSource
	policy  LeapPolicy
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// NewService creates a birthday service. m may be nil.
func NewService(source PatientSource, policy LeapPolicy, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if policy == "" {
		policy = LeapStrict
	}
	return &Service{source: source, policy: policy, metrics: m, logger: logger}
}

// ListToday loads every patient with a birth date and matches them against
// today. Results are never cached.
func (s *Service) ListToday(ctx context.Context, today time.Time) ([]Birthday, error) {
	candidates, err := s.source.FindWithBirthDate(ctx)
	if err != nil {
		s.logger.Error("birthdays: load patients", "error", err)
		return nil, apperr.Upstream("birthdays: load patients", err)
	}
	matches := Match(today, candidates, s.policy)
	s.metrics.ObserveBirthdays(len(matches))
	return matches, nil
}
