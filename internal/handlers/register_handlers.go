package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/namboy94/papio/internal/middleware"
	"github.com/namboy94/papio/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	registerCustomValidators()

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, svc.Auth)

	// API v1 routes behind the auth middleware
	setupAPIV1Routes(r, cfg, svc)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCurrencyRoutes(v1)
	registerRatesRoutes(v1, svc.Converter)
	registerWalletRoutes(v1, svc.Wallet, svc.Transaction)
	registerTransactionRoutes(v1, svc.Transaction)
	registerCategoryRoutes(v1, svc.Category)
	registerPartnerRoutes(v1, svc.Partner)
}

// registerCustomValidators installs the currencycode binding rule: the field
// must name a currency present in the registry.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			_, err := money.FromCode(fl.Field().String())
			return err == nil
		})
	}
}
