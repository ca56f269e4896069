package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	contentControllers "github.com/kimsinwoo/lupl-backend/controllers/content"
	productControllers "github.com/kimsinwoo/lupl-backend/controllers/product"
)

// SetupPublicRoutes wires the unauthenticated storefront surface.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productControllers.ListProductsHandler(db))
	r.GET("/products/:productID", productControllers.GetProductHandler(db))
	r.GET("/products/:productID/reviews", contentControllers.ListProductReviewsHandler(db))

	r.GET("/artists", productControllers.ListArtistsHandler(db))
	r.GET("/artists/:artistID", productControllers.GetArtistHandler(db))

	r.GET("/categories", productControllers.ListCategoriesHandler(db))
	r.GET("/announcements", contentControllers.ListAnnouncementsHandler(db))
	r.POST("/contact", contentControllers.SubmitContactHandler(db))
}
