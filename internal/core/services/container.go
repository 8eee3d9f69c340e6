package services

// Container bundles the application services handed to the HTTP layer.
type Container struct {
	Auth        *AuthService
	Converter   *ConverterService
	Wallet      *WalletService
	Transaction *TransactionService
	Category    *CategoryService
	Partner     *PartnerService
}
