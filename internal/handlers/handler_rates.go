package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/namboy94/papio/internal/dto"
	"github.com/namboy94/papio/internal/middleware"
)

// ratesHandler exposes the converter's exchange-rate table.
type ratesHandler struct {
	converter *services.ConverterService
}

// registerRatesRoutes registers routes related to exchange rates.
func registerRatesRoutes(rg *gin.RouterGroup, converter *services.ConverterService) {
	h := &ratesHandler{converter: converter}

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		rates.POST("/refresh", h.refreshRates)
	}
}

func (h *ratesHandler) getRates(c *gin.Context) {
	h.converter.Update(c.Request.Context(), false)
	c.JSON(http.StatusOK, h.snapshot())
}

// refreshRates forces a provider fetch regardless of table freshness.
func (h *ratesHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Forced exchange rate refresh requested")

	h.converter.Update(c.Request.Context(), true)
	c.JSON(http.StatusOK, h.snapshot())
}

func (h *ratesHandler) snapshot() dto.RatesResponse {
	table := h.converter.Rates()
	encoded := make(map[string]string, len(table))
	for code, rate := range table {
		encoded[code] = rate.String()
	}
	return dto.RatesResponse{
		BaseCurrency: money.BaseCurrency.Code,
		Valid:        h.converter.Valid(),
		LastUpdated:  h.converter.LastUpdated(),
		Rates:        encoded,
	}
}
