package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kimsinwoo/lupl-backend/config"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	paymentControllers "github.com/kimsinwoo/lupl-backend/controllers/payment"
	"github.com/kimsinwoo/lupl-backend/middleware"
)

func SetupOrderRoutes(r *gin.Engine, cfg *config.Config, deps orderControllers.Deps, paymentSvc *paymentControllers.Service) {
	orders := r.Group("/orders", middleware.RequireUser(cfg))
	{
		orders.POST("", orderControllers.CreateOrderHandler(deps))
		orders.GET("", orderControllers.GetUserOrdersHandler(deps))
		orders.GET("/:orderID", orderControllers.GetOrderHandler(deps))

		// Cancellation goes through the composed refund-then-cancel path
		// so paid orders get refunded at the gateway first.
		orders.POST("/:orderID/cancel", paymentControllers.CancelOrderHandler(paymentSvc))
	}
}
