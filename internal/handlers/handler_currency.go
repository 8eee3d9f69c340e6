package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/dto"
)

// currencyHandler serves the static currency registry.
type currencyHandler struct{}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup) {
	h := &currencyHandler{}

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:code", h.getCurrencyByCode)
	}
}

func (h *currencyHandler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(money.AllCurrencies()))
}

func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	currency, err := money.FromCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownCurrency) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}
