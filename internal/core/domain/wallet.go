package domain

import (
	"time"

	"github.com/namboy94/papio/internal/core/money"
)

// Wallet is a ledger account: a uniquely named container of transactions with
// a starting value. The wallet's currency is always the currency of its
// starting value, and every transaction attached to the wallet carries an
// amount in that currency.
type Wallet struct {
	WalletID      string      `json:"walletID"`
	Name          string      `json:"name"`
	StartingValue money.Value `json:"startingValue"`
	AuditFields
}

// Currency returns the wallet's current currency, derived from its starting value.
func (w Wallet) Currency() money.Currency {
	return w.StartingValue.Currency
}

// AuditFields carries creation and modification metadata shared by all
// persisted entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
