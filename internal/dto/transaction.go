package dto

import (
	"time"

	"github.com/namboy94/papio/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a transaction.
// The amount may be given in any registry currency; it is converted into the
// wallet's currency on write so that the ledger stays single-currency per
// wallet. Category and partner are resolved by name and created on demand.
type CreateTransactionRequest struct {
	WalletID     string `json:"walletID" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"omitempty,currencycode"`
	Description  string `json:"description" binding:"required"`
	CategoryName string `json:"categoryName" binding:"required"`
	PartnerName  string `json:"partnerName" binding:"required"`
	Date         string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string    `json:"transactionID"`
	WalletID      string    `json:"walletID"`
	Amount        string    `json:"amount"`
	CurrencyCode  string    `json:"currencyCode"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"categoryID,omitempty"`
	PartnerID     string    `json:"partnerID,omitempty"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		WalletID:      t.WalletID,
		Amount:        t.Amount.Amount.String(),
		CurrencyCode:  t.Amount.Currency.Code,
		Description:   t.Description,
		CategoryID:    t.CategoryID,
		PartnerID:     t.PartnerID,
		Date:          t.Date,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of transactions to response DTOs.
func ToListTransactionResponse(transactions []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		res[i] = ToTransactionResponse(&transactions[i])
	}
	return res
}
