package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/config"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	paymentControllers "github.com/kimsinwoo/lupl-backend/controllers/payment"
	"github.com/kimsinwoo/lupl-backend/events"
	"github.com/kimsinwoo/lupl-backend/pricing"
)

// SetupRoutes is the single entry-point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, logger *zap.Logger, producer *events.Producer) {
	orderDeps := orderControllers.Deps{
		DB:      db,
		Pricing: pricing.NewCalculator(cfg.ShippingFee, cfg.TaxRate),
		Events:  producer,
		Logger:  logger.Sugar(),
	}
	paymentSvc := &paymentControllers.Service{
		DB:      db,
		Gateway: paymentControllers.NewGatewayClient(cfg),
		Orders:  orderDeps,
		Events:  producer,
		Logger:  logger.Sugar(),
	}

	SetupPublicRoutes(r, db)
	SetupUserRoutes(r, db, cfg)
	SetupOrderRoutes(r, cfg, orderDeps, paymentSvc)
	SetupPaymentRoutes(r, cfg, paymentSvc)
	SetupAdminRoutes(r, db, cfg, orderDeps)
}
