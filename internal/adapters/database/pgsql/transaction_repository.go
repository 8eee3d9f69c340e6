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

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) ports.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ ports.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts a transaction. The amount is persisted in its exact
// serialized form.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, wallet_id, amount, description, category_id, partner_id, date, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.WalletID,
		txn.Amount.Serialize(),
		txn.Description,
		nullableText(txn.CategoryID),
		nullableText(txn.PartnerID),
		txn.Date,
		txn.CreatedAt,
		txn.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, translateError(err))
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var serialized string
	var categoryID, partnerID *string
	err := row.Scan(
		&txn.TransactionID,
		&txn.WalletID,
		&serialized,
		&txn.Description,
		&categoryID,
		&partnerID,
		&txn.Date,
		&txn.CreatedAt,
		&txn.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn.CategoryID = derefText(categoryID)
	txn.PartnerID = derefText(partnerID)
	txn.Amount, err = money.Deserialize(serialized)
	if err != nil {
		return nil, fmt.Errorf("transaction %s holds invalid amount %q: %w", txn.TransactionID, serialized, err)
	}
	return &txn, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, wallet_id, amount, description, category_id, partner_id, date, created_at, last_updated_at
		FROM transactions
		WHERE transaction_id = $1;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, translateError(err))
	}
	return txn, nil
}

// ListTransactionsByWallet retrieves a wallet's transactions ordered by date,
// oldest first, with insertion order as tie breaker.
func (r *PgxTransactionRepository) ListTransactionsByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, wallet_id, amount, description, category_id, partner_id, date, created_at, last_updated_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for wallet %s: %w", walletID, err)
	}
	defer rows.Close()

	transactions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		txn, err := scanTransaction(row)
		if err != nil {
			return domain.Transaction{}, err
		}
		return *txn, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for wallet %s: %w", walletID, err)
	}
	return transactions, nil
}

// UpdateTransactionAmount replaces a transaction's serialized amount.
func (r *PgxTransactionRepository) UpdateTransactionAmount(ctx context.Context, transactionID string, serializedAmount string) error {
	query := `
		UPDATE transactions
		SET amount = $2, last_updated_at = NOW()
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, serializedAmount)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, translateError(pgx.ErrNoRows))
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, translateError(pgx.ErrNoRows))
	}
	return nil
}
