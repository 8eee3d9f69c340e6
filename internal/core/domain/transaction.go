package domain

import (
	"github.com/namboy94/papio/internal/core/money"
)

// Transaction is a single recorded movement of money in a wallet. Positive
// amounts are income, negative amounts are expenses. Transactions are
// immutable once recorded; the one exception is currency re-denomination,
// which replaces the stored amount in place when the owning wallet changes
// its currency.
type Transaction struct {
	TransactionID string      `json:"transactionID"`
	WalletID      string      `json:"walletID"`
	Amount        money.Value `json:"amount"`
	Description   string      `json:"description"`
	CategoryID    string      `json:"categoryID"`
	PartnerID     string      `json:"partnerID"`
	Date          string      `json:"date"` // ISO-8601 (YYYY-MM-DD)
	AuditFields
}

// Category groups transactions, e.g. "Groceries" or "Rent".
type Category struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	AuditFields
}

// TransactionPartner is the counterparty of a transaction, e.g. an employer
// or a store.
type TransactionPartner struct {
	PartnerID string `json:"partnerID"`
	Name      string `json:"name"`
	AuditFields
}
