package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/ports"
)

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for transaction partner data.
func newPgxPartnerRepository(pool *pgxpool.Pool) ports.PartnerRepository {
	return &PgxPartnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.PartnerRepository = (*PgxPartnerRepository)(nil)

// SavePartner inserts a transaction partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.TransactionPartner) error {
	query := `
		INSERT INTO transaction_partners (partner_id, name, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query,
		partner.PartnerID,
		partner.Name,
		partner.CreatedAt,
		partner.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save partner %s: %w", partner.PartnerID, translateError(err))
	}
	return nil
}

// FindPartnerByID retrieves a partner by its ID.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.TransactionPartner, error) {
	query := `
		SELECT partner_id, name, created_at, last_updated_at
		FROM transaction_partners
		WHERE partner_id = $1;
	`
	var partner domain.TransactionPartner
	err := r.Pool.QueryRow(ctx, query, partnerID).Scan(
		&partner.PartnerID,
		&partner.Name,
		&partner.CreatedAt,
		&partner.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, translateError(err))
	}
	return &partner, nil
}

// FindPartnerByName retrieves a partner by its unique name.
func (r *PgxPartnerRepository) FindPartnerByName(ctx context.Context, name string) (*domain.TransactionPartner, error) {
	query := `
		SELECT partner_id, name, created_at, last_updated_at
		FROM transaction_partners
		WHERE name = $1;
	`
	var partner domain.TransactionPartner
	err := r.Pool.QueryRow(ctx, query, name).Scan(
		&partner.PartnerID,
		&partner.Name,
		&partner.CreatedAt,
		&partner.LastUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner %q: %w", name, translateError(err))
	}
	return &partner, nil
}

// ListPartners retrieves all partners ordered by name.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context) ([]domain.TransactionPartner, error) {
	query := `
		SELECT partner_id, name, created_at, last_updated_at
		FROM transaction_partners
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	partners, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionPartner, error) {
		var partner domain.TransactionPartner
		err := row.Scan(
			&partner.PartnerID,
			&partner.Name,
			&partner.CreatedAt,
			&partner.LastUpdatedAt,
		)
		return partner, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan partners: %w", err)
	}
	return partners, nil
}

// DeletePartner removes a partner. Transactions referencing it keep their
// rows; the foreign key nulls the reference out.
func (r *PgxPartnerRepository) DeletePartner(ctx context.Context, partnerID string) error {
	query := `DELETE FROM transaction_partners WHERE partner_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, partnerID)
	if err != nil {
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete partner %s: %w", partnerID, translateError(pgx.ErrNoRows))
	}
	return nil
}
