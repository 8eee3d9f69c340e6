package dto

import (
	"time"

	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/money"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID    string    `json:"categoryID"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// CreatePartnerRequest defines the data needed to create a transaction partner.
type CreatePartnerRequest struct {
	Name string `json:"name" binding:"required"`
}

// PartnerResponse defines the data returned for a transaction partner.
type PartnerResponse struct {
	PartnerID     string    `json:"partnerID"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// CurrencyResponse describes a registry currency.
type CurrencyResponse struct {
	Code             string `json:"code"`
	Kind             string `json:"kind"`
	DisplayPrecision int32  `json:"displayPrecision"`
	Symbol           string `json:"symbol"`
}

// RatesResponse is a snapshot of the exchange-rate table. Rates are decimal
// strings relative to the base currency.
type RatesResponse struct {
	BaseCurrency string            `json:"baseCurrency"`
	Valid        bool              `json:"valid"`
	LastUpdated  time.Time         `json:"lastUpdated"`
	Rates        map[string]string `json:"rates"`
}

// LoginRequest carries the credentials of the single configured user.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:    c.CategoryID,
		Name:          c.Name,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

// ToListCategoryResponse converts a slice of categories to response DTOs.
func ToListCategoryResponse(categories []domain.Category) []CategoryResponse {
	res := make([]CategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToCategoryResponse(&categories[i])
	}
	return res
}

// ToPartnerResponse converts a domain.TransactionPartner to its response DTO.
func ToPartnerResponse(p *domain.TransactionPartner) PartnerResponse {
	return PartnerResponse{
		PartnerID:     p.PartnerID,
		Name:          p.Name,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
}

// ToListPartnerResponse converts a slice of partners to response DTOs.
func ToListPartnerResponse(partners []domain.TransactionPartner) []PartnerResponse {
	res := make([]PartnerResponse, len(partners))
	for i := range partners {
		res[i] = ToPartnerResponse(&partners[i])
	}
	return res
}

// ToCurrencyResponse converts a registry currency to its response DTO.
func ToCurrencyResponse(c money.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:             c.Code,
		Kind:             string(c.Kind),
		DisplayPrecision: c.DisplayPrecision,
		Symbol:           c.Symbol,
	}
}

// ToListCurrencyResponse converts registry currencies to response DTOs.
func ToListCurrencyResponse(currencies []money.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		res[i] = ToCurrencyResponse(c)
	}
	return res
}
