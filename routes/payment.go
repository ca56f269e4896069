package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kimsinwoo/lupl-backend/config"
	paymentControllers "github.com/kimsinwoo/lupl-backend/controllers/payment"
	"github.com/kimsinwoo/lupl-backend/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, cfg *config.Config, svc *paymentControllers.Service) {
	payments := r.Group("/payments", middleware.RequireUser(cfg))
	{
		// The storefront calls confirm after the gateway redirect.
		payments.POST("/confirm", paymentControllers.ConfirmPaymentHandler(svc))
		payments.POST("/cancel", paymentControllers.CancelPaymentHandler(svc))
	}
}
