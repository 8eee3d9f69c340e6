package dto

import (
	"time"

	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/money"
)

// CreateWalletRequest defines the data needed to create a new wallet.
// The starting value is an exact decimal string; it is never rounded.
type CreateWalletRequest struct {
	Name          string `json:"name" binding:"required"`
	StartingValue string `json:"startingValue" binding:"required"`
	CurrencyCode  string `json:"currencyCode" binding:"required,currencycode"`
}

// ConvertWalletCurrencyRequest selects the target currency of a wallet
// re-denomination.
type ConvertWalletCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required,currencycode"`
}

// TransferRequest moves an amount between two wallets. When CurrencyCode is
// empty the amount is read in the source wallet's currency.
type TransferRequest struct {
	SourceWalletID      string `json:"sourceWalletID" binding:"required"`
	DestinationWalletID string `json:"destinationWalletID" binding:"required"`
	Amount              string `json:"amount" binding:"required"`
	CurrencyCode        string `json:"currencyCode" binding:"omitempty,currencycode"`
	Description         string `json:"description"`
}

// WalletResponse defines the data returned for a wallet.
type WalletResponse struct {
	WalletID      string    `json:"walletID"`
	Name          string    `json:"name"`
	CurrencyCode  string    `json:"currencyCode"`
	StartingValue string    `json:"startingValue"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// BalanceResponse carries a wallet balance, both as an exact decimal string
// and formatted at the currency's display precision.
type BalanceResponse struct {
	WalletID     string `json:"walletID"`
	CurrencyCode string `json:"currencyCode"`
	Balance      string `json:"balance"`
	Formatted    string `json:"formatted"`
}

// ToWalletResponse converts a domain.Wallet to a WalletResponse DTO.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		WalletID:      w.WalletID,
		Name:          w.Name,
		CurrencyCode:  w.Currency().Code,
		StartingValue: w.StartingValue.Amount.String(),
		CreatedAt:     w.CreatedAt,
		LastUpdatedAt: w.LastUpdatedAt,
	}
}

// ToListWalletResponse converts a slice of wallets to response DTOs.
func ToListWalletResponse(wallets []domain.Wallet) []WalletResponse {
	res := make([]WalletResponse, len(wallets))
	for i := range wallets {
		res[i] = ToWalletResponse(&wallets[i])
	}
	return res
}

// ToBalanceResponse converts a balance value to its response DTO.
func ToBalanceResponse(walletID string, balance money.Value) BalanceResponse {
	return BalanceResponse{
		WalletID:     walletID,
		CurrencyCode: balance.Currency.Code,
		Balance:      balance.Amount.String(),
		Formatted:    balance.Format(money.DefaultFormat),
	}
}
