package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/ports"
	"github.com/namboy94/papio/internal/dto"
)

// TransactionService records and retrieves ledger transactions.
type TransactionService struct {
	txnRepo      ports.TransactionRepository
	walletRepo   ports.WalletRepository
	categoryRepo ports.CategoryRepository
	partnerRepo  ports.PartnerRepository
	converter    ports.RateConverter
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	categoryRepo ports.CategoryRepository,
	partnerRepo ports.PartnerRepository,
	converter ports.RateConverter,
) *TransactionService {
	return &TransactionService{
		txnRepo:      txnRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
		partnerRepo:  partnerRepo,
		converter:    converter,
	}
}

// CreateTransaction records a new transaction in a wallet. The amount may be
// given in any registry currency; before the write it is converted into the
// wallet's currency so that every stored transaction shares it.
func (s *TransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, req.WalletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet %s: %w", req.WalletID, err)
	}

	currency := wallet.Currency()
	if req.CurrencyCode != "" {
		currency, err = money.FromCode(req.CurrencyCode)
		if err != nil {
			return nil, err
		}
	}

	amount, err := money.NewValue(req.Amount, currency)
	if err != nil {
		return nil, err
	}
	amount, err = amount.Convert(ctx, s.converter, wallet.Currency())
	if err != nil {
		return nil, err
	}

	category, err := s.ensureCategory(ctx, req.CategoryName)
	if err != nil {
		return nil, err
	}
	partner, err := s.ensurePartner(ctx, req.PartnerName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      wallet.WalletID,
		Amount:        amount,
		Description:   req.Description,
		CategoryID:    category.CategoryID,
		PartnerID:     partner.PartnerID,
		Date:          date,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	return &txn, nil
}

// GetTransaction retrieves a transaction by its ID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// ListTransactions retrieves all transactions of a wallet.
func (s *TransactionService) ListTransactions(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	if _, err := s.walletRepo.FindWalletByID(ctx, walletID); err != nil {
		return nil, fmt.Errorf("failed to get wallet %s: %w", walletID, err)
	}
	transactions, err := s.txnRepo.ListTransactionsByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for wallet %s: %w", walletID, err)
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	return nil
}

// ensureCategory resolves a category by name, creating it if it does not
// exist yet.
func (s *TransactionService) ensureCategory(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}

	now := time.Now().UTC()
	created := domain.Category{
		CategoryID:  uuid.NewString(),
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.categoryRepo.SaveCategory(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return &created, nil
}

// ensurePartner resolves a transaction partner by name, creating it if it
// does not exist yet.
func (s *TransactionService) ensurePartner(ctx context.Context, name string) (*domain.TransactionPartner, error) {
	partner, err := s.partnerRepo.FindPartnerByName(ctx, name)
	if err == nil {
		return partner, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up partner %q: %w", name, err)
	}

	now := time.Now().UTC()
	created := domain.TransactionPartner{
		PartnerID:   uuid.NewString(),
		Name:        name,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.partnerRepo.SavePartner(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to create partner %q: %w", name, err)
	}
	return &created, nil
}
