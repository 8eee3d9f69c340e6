package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/namboy94/papio/internal/core/ports"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) ports.RepositoryProvider {
	return ports.RepositoryProvider{
		WalletRepo:      newPgxWalletRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		PartnerRepo:     newPgxPartnerRepository(dbPool),
	}
}
