package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/namboy94/papio/internal/dto"
	"github.com/namboy94/papio/internal/middleware"
)

// walletHandler handles HTTP requests related to wallets.
type walletHandler struct {
	walletService      *services.WalletService
	transactionService *services.TransactionService
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, walletService *services.WalletService, transactionService *services.TransactionService) {
	h := &walletHandler{
		walletService:      walletService,
		transactionService: transactionService,
	}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.transfer)
	}

	wallets := rg.Group("/wallets")
	{
		wallets.POST("", h.createWallet)
		wallets.GET("", h.listWallets)
		wallets.GET("/:walletID", h.getWallet)
		wallets.DELETE("/:walletID", h.deleteWallet)
		wallets.GET("/:walletID/balance", h.getBalance)
		wallets.GET("/:walletID/transactions", h.listWalletTransactions)
		wallets.POST("/:walletID/convert", h.convertCurrency)
	}
}

func (h *walletHandler) createWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	currency, err := money.FromCode(req.CurrencyCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startingValue, err := money.NewValue(req.StartingValue, currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletService.CreateWallet(c.Request.Context(), req.Name, startingValue)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate wallet", slog.String("name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": "Wallet name already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
		}
		return
	}

	logger.Info("Wallet created", slog.String("wallet_id", wallet.WalletID))
	c.JSON(http.StatusCreated, dto.ToWalletResponse(wallet))
}

func (h *walletHandler) listWallets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wallets, err := h.walletService.ListWallets(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list wallets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wallets"})
		return
	}
	c.JSON(http.StatusOK, dto.ToListWalletResponse(wallets))
}

func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	wallet, err := h.walletService.ResolveWallet(c.Request.Context(), c.Param("walletID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to get wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

func (h *walletHandler) deleteWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("walletID")
	if err := h.walletService.DeleteWallet(c.Request.Context(), walletID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to delete wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete wallet"})
		}
		return
	}
	logger.Info("Wallet deleted", slog.String("wallet_id", walletID))
	c.Status(http.StatusNoContent)
}

func (h *walletHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	walletID := c.Param("walletID")
	balance, err := h.walletService.GetBalance(c.Request.Context(), walletID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(walletID, balance))
}

func (h *walletHandler) listWalletTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactions, err := h.transactionService.ListTransactions(c.Request.Context(), c.Param("walletID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to list transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(transactions))
}

func (h *walletHandler) convertCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertWalletCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertWalletCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	target, err := money.FromCode(req.CurrencyCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	walletID := c.Param("walletID")
	wallet, err := h.walletService.ConvertWalletCurrency(c.Request.Context(), walletID, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else if apperrors.IsConversionError(err) {
			logger.Warn("Wallet conversion failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to convert wallet currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert wallet currency"})
		}
		return
	}

	logger.Info("Wallet re-denominated",
		slog.String("wallet_id", walletID),
		slog.String("currency", target.Code),
	)
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

func (h *walletHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	amount, err := h.transferAmount(c, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, in, err := h.walletService.Transfer(c.Request.Context(), req.SourceWalletID, req.DestinationWalletID, amount, req.Description)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if apperrors.IsConversionError(err) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to transfer", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"outgoing": dto.ToTransactionResponse(out),
		"incoming": dto.ToTransactionResponse(in),
	})
}

// transferAmount reads the transfer amount in the request currency, falling
// back to the source wallet's currency when none is given.
func (h *walletHandler) transferAmount(c *gin.Context, req dto.TransferRequest) (money.Value, error) {
	if req.CurrencyCode != "" {
		currency, err := money.FromCode(req.CurrencyCode)
		if err != nil {
			return money.Value{}, err
		}
		return money.NewValue(req.Amount, currency)
	}
	source, err := h.walletService.GetWallet(c.Request.Context(), req.SourceWalletID)
	if err != nil {
		return money.Value{}, err
	}
	return money.NewValue(req.Amount, source.Currency())
}
