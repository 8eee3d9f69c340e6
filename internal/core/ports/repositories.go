// Package ports declares the narrow interfaces through which the core talks
// to its collaborators: the ledger store, the external rate providers and the
// on-disk rate cache.
package ports

import (
	"context"

	"github.com/namboy94/papio/internal/core/domain"
)

// AmountUpdate is one transaction's re-denominated amount, in the lossless
// "<CODE>:<decimal>" wire form.
type AmountUpdate struct {
	TransactionID    string
	SerializedAmount string
}

// WalletRepository persists wallets. Amount parameters are serialized values
// so that the store never interprets monetary precision.
type WalletRepository interface {
	SaveWallet(ctx context.Context, wallet domain.Wallet) error
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)
	FindWalletByName(ctx context.Context, name string) (*domain.Wallet, error)
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	UpdateWalletStartingValue(ctx context.Context, walletID string, serializedValue string) error
	DeleteWallet(ctx context.Context, walletID string) error

	// RedenominateWallet applies a wallet's currency change as one atomic
	// store transaction: every transaction amount first, in the given order,
	// then the wallet's starting value.
	RedenominateWallet(ctx context.Context, walletID string, amounts []AmountUpdate, serializedStartingValue string) error
}

// TransactionRepository persists transactions.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error)
	UpdateTransactionAmount(ctx context.Context, transactionID string, serializedAmount string) error
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// CategoryRepository persists transaction categories.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, category domain.Category) error
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
}

// RepositoryProvider bundles the concrete repositories handed to the
// services at startup.
type RepositoryProvider struct {
	WalletRepo      WalletRepository
	TransactionRepo TransactionRepository
	CategoryRepo    CategoryRepository
	PartnerRepo     PartnerRepository
}

// PartnerRepository persists transaction partners.
type PartnerRepository interface {
	SavePartner(ctx context.Context, partner domain.TransactionPartner) error
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.TransactionPartner, error)
	FindPartnerByName(ctx context.Context, name string) (*domain.TransactionPartner, error)
	ListPartners(ctx context.Context) ([]domain.TransactionPartner, error)
	DeletePartner(ctx context.Context, partnerID string) error
}
