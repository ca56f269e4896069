package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/config"
	adminControllers "github.com/kimsinwoo/lupl-backend/controllers/admin"
	contentControllers "github.com/kimsinwoo/lupl-backend/controllers/content"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	productControllers "github.com/kimsinwoo/lupl-backend/controllers/product"
	"github.com/kimsinwoo/lupl-backend/middleware"
)

// SetupAdminRoutes wires the API-key-protected admin panel surface.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps orderControllers.Deps) {
	admin := r.Group("/admin", middleware.RequireAdminKey(cfg))
	{
		admin.GET("/dashboard", adminControllers.DashboardHandler(db))

		admin.GET("/orders", adminControllers.ListAllOrdersHandler(db))
		admin.GET("/orders/export", adminControllers.ExportOrdersToExcel(db))
		admin.GET("/orders/feed", orderControllers.OrderFeedHandler)
		admin.GET("/orders/:orderID", adminControllers.GetOrderHandler(db))
		admin.PUT("/orders/:orderID/status", adminControllers.UpdateOrderStatusHandler(deps))
		admin.PUT("/orders/:orderID/payment-status", adminControllers.UpdatePaymentStatusHandler(deps))

		admin.POST("/products", productControllers.CreateProductHandler(db))
		admin.PUT("/products/:productID", productControllers.UpdateProductHandler(db))
		admin.DELETE("/products/:productID", productControllers.DeleteProductHandler(db))

		admin.POST("/artists", productControllers.CreateArtistHandler(db))
		admin.PUT("/artists/:artistID", productControllers.UpdateArtistHandler(db))
		admin.DELETE("/artists/:artistID", productControllers.DeleteArtistHandler(db))

		admin.POST("/categories", productControllers.CreateCategoryHandler(db))
		admin.DELETE("/categories/:categoryID", productControllers.DeleteCategoryHandler(db))

		admin.POST("/announcements", contentControllers.CreateAnnouncementHandler(db))
		admin.DELETE("/announcements/:announcementID", contentControllers.DeleteAnnouncementHandler(db))

		admin.GET("/contact", contentControllers.ListContactMessagesHandler(db))
	}
}
