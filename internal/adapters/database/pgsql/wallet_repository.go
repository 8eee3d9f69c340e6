package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/ports"
)

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet data.
func newPgxWalletRepository(pool *pgxpool.Pool) ports.WalletRepository {
	return &PgxWalletRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.WalletRepository = (*PgxWalletRepository)(nil)

// SaveWallet inserts a wallet. The starting value is persisted in its exact
// serialized form.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	query := `
		INSERT INTO wallets (wallet_id, name, starting_value, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		wallet.WalletID,
		wallet.Name,
		wallet.StartingValue.Serialize(),
		wallet.CreatedAt,
		wallet.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet %s: %w", wallet.WalletID, translateError(err))
	}
	return nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var serialized string
	err := row.Scan(
		&wallet.WalletID,
		&wallet.Name,
		&serialized,
		&wallet.CreatedAt,
		&wallet.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	wallet.StartingValue, err = money.Deserialize(serialized)
	if err != nil {
		return nil, fmt.Errorf("wallet %s holds invalid starting value %q: %w", wallet.WalletID, serialized, err)
	}
	return &wallet, nil
}

// FindWalletByID retrieves a wallet by its ID.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, starting_value, created_at, last_updated_at
		FROM wallets
		WHERE wallet_id = $1;
	`
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, walletID))
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %s: %w", walletID, translateError(err))
	}
	return wallet, nil
}

// FindWalletByName retrieves a wallet by its unique name.
func (r *PgxWalletRepository) FindWalletByName(ctx context.Context, name string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, starting_value, created_at, last_updated_at
		FROM wallets
		WHERE name = $1;
	`
	wallet, err := scanWallet(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet %q: %w", name, translateError(err))
	}
	return wallet, nil
}

// ListWallets retrieves all wallets ordered by name.
func (r *PgxWalletRepository) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, starting_value, created_at, last_updated_at
		FROM wallets
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets: %w", err)
	}
	defer rows.Close()

	wallets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Wallet, error) {
		wallet, err := scanWallet(row)
		if err != nil {
			return domain.Wallet{}, err
		}
		return *wallet, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan wallets: %w", err)
	}
	return wallets, nil
}

// UpdateWalletStartingValue replaces a wallet's serialized starting value.
func (r *PgxWalletRepository) UpdateWalletStartingValue(ctx context.Context, walletID string, serializedValue string) error {
	query := `
		UPDATE wallets
		SET starting_value = $2, last_updated_at = NOW()
		WHERE wallet_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, walletID, serializedValue)
	if err != nil {
		return fmt.Errorf("failed to update wallet %s: %w", walletID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update wallet %s: %w", walletID, pgx.ErrNoRows)
	}
	return nil
}

// DeleteWallet removes a wallet; its transactions go with it through the
// foreign key cascade.
func (r *PgxWalletRepository) DeleteWallet(ctx context.Context, walletID string) error {
	query := `DELETE FROM wallets WHERE wallet_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, walletID)
	if err != nil {
		return fmt.Errorf("failed to delete wallet %s: %w", walletID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete wallet %s: %w", walletID, translateError(pgx.ErrNoRows))
	}
	return nil
}

// RedenominateWallet rewrites every transaction amount and then the wallet's
// starting value inside a single database transaction. Either the whole
// wallet ends up in the new currency or nothing changes.
func (r *PgxWalletRepository) RedenominateWallet(ctx context.Context, walletID string, amounts []ports.AmountUpdate, serializedStartingValue string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	txnQuery := `UPDATE transactions SET amount = $2, last_updated_at = NOW() WHERE transaction_id = $1;`
	for _, update := range amounts {
		tag, err := tx.Exec(ctx, txnQuery, update.TransactionID, update.SerializedAmount)
		if err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", update.TransactionID, translateError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("failed to update transaction %s: %w", update.TransactionID, translateError(pgx.ErrNoRows))
		}
	}

	walletQuery := `UPDATE wallets SET starting_value = $2, last_updated_at = NOW() WHERE wallet_id = $1;`
	tag, err := tx.Exec(ctx, walletQuery, walletID, serializedStartingValue)
	if err != nil {
		return fmt.Errorf("failed to update wallet %s: %w", walletID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update wallet %s: %w", walletID, translateError(pgx.ErrNoRows))
	}

	return r.Commit(ctx, tx)
}
