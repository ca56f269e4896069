package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/config"
	cartControllers "github.com/kimsinwoo/lupl-backend/controllers/cart"
	contentControllers "github.com/kimsinwoo/lupl-backend/controllers/content"
	"github.com/kimsinwoo/lupl-backend/middleware"
)

// SetupUserRoutes wires the JWT-protected storefront surface: cart,
// favorites, reviews, profile.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	user := r.Group("/", middleware.RequireUser(cfg))
	{
		user.GET("/cart", cartControllers.GetCartHandler(db))
		user.POST("/cart", cartControllers.AddToCartHandler(db))
		user.PUT("/cart/items/:itemID", cartControllers.UpdateCartItemHandler(db))
		user.DELETE("/cart/items/:itemID", cartControllers.RemoveCartItemHandler(db))
		user.DELETE("/cart", cartControllers.ClearCartHandler(db))

		user.GET("/favorites", contentControllers.ListFavoritesHandler(db))
		user.POST("/favorites/:productID", contentControllers.ToggleFavoriteHandler(db))

		user.POST("/products/:productID/reviews", contentControllers.CreateReviewHandler(db))
		user.DELETE("/reviews/:reviewID", contentControllers.DeleteReviewHandler(db))

		user.GET("/me", contentControllers.GetProfileHandler(db))
		user.PUT("/me", contentControllers.UpdateProfileHandler(db))
	}
}
