package waitlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/patients"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// PatientLookup resolves the patient an entry refers to.
type PatientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patients.Patient, error)
}

// Service manages the waiting list.
type Service struct {
	repo     Repository
	patients PatientLookup
	logger   *logging.Logger
}

// NewService creates a waiting list service.
func NewService(repo Repository, lookup PatientLookup, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, patients: lookup, logger: logger}
}

// Create validates req, checks the patient exists and stores the entry.
func (s *Service) Create(ctx context.Context, actor string, req CreateEntryRequest) (*Entry, error) {
	if actor == "" {
		return nil, apperr.ErrUnauthenticated
	}
	entry, err := req.Build(actor)
	if err != nil {
		return nil, err
	}
	patient, err := s.patients.GetByID(ctx, entry.PatientID)
	if errors.Is(err, patients.ErrPatientNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, apperr.Upstream("waitlist: lookup patient", err)
	}
	entry.PatientName = patient.FullName

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("waitlist: create entry", "error", err, "patient_id", entry.PatientID)
		return nil, err
	}
	s.logger.Info("waitlist: entry created", "id", entry.ID, "patient_id", entry.PatientID, "priority", entry.Priority.String())
	return entry, nil
}

// GetByID returns one entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all entries, most urgent first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Delete removes an entry. Reminders derived from it are kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("waitlist: entry deleted", "id", id)
	return nil
}
