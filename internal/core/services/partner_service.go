package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/ports"
)

// PartnerService manages transaction partners.
type PartnerService struct {
	partnerRepo ports.PartnerRepository
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(partnerRepo ports.PartnerRepository) *PartnerService {
	return &PartnerService{partnerRepo: partnerRepo}
}

// CreatePartner creates a transaction partner with a unique name.
func (s *PartnerService) CreatePartner(ctx context.Context, name string) (*domain.TransactionPartner, error) {
	existing, err := s.partnerRepo.FindPartnerByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check partner name %q: %w", name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: partner %q", apperrors.ErrDuplicate, name)
	}

	now := time.Now().UTC()
	partner := domain.TransactionPartner{
		PartnerID:   uuid.NewString(),
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		return nil, fmt.Errorf("failed to save partner: %w", err)
	}
	return &partner, nil
}

// GetPartner retrieves a transaction partner by its ID.
func (s *PartnerService) GetPartner(ctx context.Context, partnerID string) (*domain.TransactionPartner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner %s: %w", partnerID, err)
	}
	return partner, nil
}

// ListPartners retrieves all transaction partners.
func (s *PartnerService) ListPartners(ctx context.Context) ([]domain.TransactionPartner, error) {
	partners, err := s.partnerRepo.ListPartners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	if partners == nil {
		partners = []domain.TransactionPartner{}
	}
	return partners, nil
}

// DeletePartner removes a transaction partner.
func (s *PartnerService) DeletePartner(ctx context.Context, partnerID string) error {
	if err := s.partnerRepo.DeletePartner(ctx, partnerID); err != nil {
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, err)
	}
	return nil
}
