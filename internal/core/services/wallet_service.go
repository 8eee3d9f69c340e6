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
)

// WalletService provides wallet business logic: creation, balance computation
// and currency re-denomination.
type WalletService struct {
	walletRepo ports.WalletRepository
	txnRepo    ports.TransactionRepository
	converter  ports.RateConverter
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo ports.WalletRepository, txnRepo ports.TransactionRepository, converter ports.RateConverter) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		converter:  converter,
	}
}

// CreateWallet creates a wallet with a unique name and a starting value. The
// starting value's currency becomes the wallet's currency.
func (s *WalletService) CreateWallet(ctx context.Context, name string, startingValue money.Value) (*domain.Wallet, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: wallet name must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.walletRepo.FindWalletByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check wallet name %q: %w", name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: wallet %q", apperrors.ErrDuplicate, name)
	}

	now := time.Now().UTC()
	wallet := domain.Wallet{
		WalletID:      uuid.NewString(),
		Name:          name,
		StartingValue: startingValue,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	return &wallet, nil
}

// GetWallet retrieves a wallet by its ID.
func (s *WalletService) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet %s: %w", walletID, err)
	}
	return wallet, nil
}

// ResolveWallet retrieves a wallet by ID first and by unique name second.
func (s *WalletService) ResolveWallet(ctx context.Context, nameOrID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, nameOrID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve wallet %q: %w", nameOrID, err)
	}
	wallet, err = s.walletRepo.FindWalletByName(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve wallet %q: %w", nameOrID, err)
	}
	return wallet, nil
}

// ListWallets retrieves all wallets.
func (s *WalletService) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	return wallets, nil
}

// DeleteWallet removes a wallet and, through the store's cascade, its
// transactions.
func (s *WalletService) DeleteWallet(ctx context.Context, walletID string) error {
	if err := s.walletRepo.DeleteWallet(ctx, walletID); err != nil {
		return fmt.Errorf("failed to delete wallet %s: %w", walletID, err)
	}
	return nil
}

// GetBalance sums a wallet's transactions plus its starting value. Every
// transaction already shares the wallet's currency, so no conversion and no
// rounding occurs during accumulation.
func (s *WalletService) GetBalance(ctx context.Context, walletID string) (money.Value, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return money.Value{}, fmt.Errorf("failed to get wallet %s: %w", walletID, err)
	}

	transactions, err := s.txnRepo.ListTransactionsByWallet(ctx, walletID)
	if err != nil {
		return money.Value{}, fmt.Errorf("failed to list transactions for wallet %s: %w", walletID, err)
	}

	balance, err := money.NewValue("0", wallet.Currency())
	if err != nil {
		return money.Value{}, err
	}
	for _, txn := range transactions {
		balance, err = balance.Add(ctx, s.converter, txn.Amount)
		if err != nil {
			return money.Value{}, fmt.Errorf("failed to accumulate balance for wallet %s: %w", walletID, err)
		}
	}
	return balance.Add(ctx, s.converter, wallet.StartingValue)
}

// ConvertWalletCurrency re-denominates a wallet: every attached transaction's
// amount is converted into the target currency, and only after all of them
// the wallet's own starting value. The ordering keeps the "transaction
// currency equals wallet currency" invariant observable at every point; the
// store applies the whole sequence as one transaction, so a crash mid-way
// cannot leave the ledger mixed-currency.
func (s *WalletService) ConvertWalletCurrency(ctx context.Context, walletID string, target money.Currency) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet %s: %w", walletID, err)
	}
	if wallet.Currency() == target {
		return wallet, nil
	}

	s.converter.Update(ctx, false)

	transactions, err := s.txnRepo.ListTransactionsByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for wallet %s: %w", walletID, err)
	}

	updates := make([]ports.AmountUpdate, 0, len(transactions))
	for _, txn := range transactions {
		converted, err := txn.Amount.Convert(ctx, s.converter, target)
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction %s: %w", txn.TransactionID, err)
		}
		updates = append(updates, ports.AmountUpdate{
			TransactionID:    txn.TransactionID,
			SerializedAmount: converted.Serialize(),
		})
	}

	newStartingValue, err := wallet.StartingValue.Convert(ctx, s.converter, target)
	if err != nil {
		return nil, fmt.Errorf("failed to convert starting value of wallet %s: %w", walletID, err)
	}

	if err := s.walletRepo.RedenominateWallet(ctx, walletID, updates, newStartingValue.Serialize()); err != nil {
		return nil, fmt.Errorf("failed to persist re-denomination of wallet %s: %w", walletID, err)
	}

	wallet.StartingValue = newStartingValue
	wallet.LastUpdatedAt = time.Now().UTC()
	return wallet, nil
}

// Transfer moves money between two wallets by recording an expense in the
// source wallet and a matching income in the destination wallet, each in its
// wallet's own currency.
func (s *WalletService) Transfer(ctx context.Context, sourceID, destID string, amount money.Value, description string) (*domain.Transaction, *domain.Transaction, error) {
	if sourceID == destID {
		return nil, nil, fmt.Errorf("%w: cannot transfer a wallet into itself", apperrors.ErrValidation)
	}
	if !amount.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	source, err := s.walletRepo.FindWalletByID(ctx, sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get source wallet %s: %w", sourceID, err)
	}
	dest, err := s.walletRepo.FindWalletByID(ctx, destID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get destination wallet %s: %w", destID, err)
	}

	s.converter.Update(ctx, false)

	outAmount, err := amount.Convert(ctx, s.converter, source.Currency())
	if err != nil {
		return nil, nil, err
	}
	inAmount, err := amount.Convert(ctx, s.converter, dest.Currency())
	if err != nil {
		return nil, nil, err
	}

	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s", source.Name, dest.Name)
	}
	now := time.Now().UTC()
	date := now.Format("2006-01-02")

	outTxn := domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      source.WalletID,
		Amount:        outAmount.Neg(),
		Description:   description,
		Date:          date,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	inTxn := domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      dest.WalletID,
		Amount:        inAmount,
		Description:   description,
		Date:          date,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	if err := s.txnRepo.SaveTransaction(ctx, outTxn); err != nil {
		return nil, nil, fmt.Errorf("failed to save outgoing transfer: %w", err)
	}
	if err := s.txnRepo.SaveTransaction(ctx, inTxn); err != nil {
		return nil, nil, fmt.Errorf("failed to save incoming transfer: %w", err)
	}
	return &outTxn, &inTxn, nil
}
