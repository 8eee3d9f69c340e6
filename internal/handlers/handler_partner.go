package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/namboy94/papio/internal/dto"
	"github.com/namboy94/papio/internal/middleware"
)

// partnerHandler handles HTTP requests related to transaction partners.
type partnerHandler struct {
	partnerService *services.PartnerService
}

// registerPartnerRoutes registers routes related to transaction partners.
func registerPartnerRoutes(rg *gin.RouterGroup, partnerService *services.PartnerService) {
	h := &partnerHandler{partnerService: partnerService}

	partners := rg.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("", h.listPartners)
		partners.GET("/:partnerID", h.getPartner)
		partners.DELETE("/:partnerID", h.deletePartner)
	}
}

func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePartner", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Partner name already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create partner", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create partner"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

func (h *partnerHandler) listPartners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partners, err := h.partnerService.ListPartners(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list partners", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list partners"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartnerResponse(partners))
}

func (h *partnerHandler) getPartner(c *gin.Context) {
	partner, err := h.partnerService.GetPartner(c.Request.Context(), c.Param("partnerID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve partner"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

func (h *partnerHandler) deletePartner(c *gin.Context) {
	if err := h.partnerService.DeletePartner(c.Request.Context(), c.Param("partnerID")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete partner"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
