// Package contentControllers holds the thin data-access wrappers for the
// storefront content surfaces: reviews, favorites, announcements, contact
// messages and user profiles.
package contentControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/models"
)

// -------- Reviews --------

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// GET /products/:productID/reviews
func ListProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		err := db.Preload("User").
			Where("product_id = ?", c.Param("productID")).
			Order("created_at DESC").
			Find(&reviews).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// POST /products/:productID/reviews
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		review := models.Review{
			ID:        uuid.NewString(),
			ProductID: c.Param("productID"),
			UserID:    c.GetString("user_id"),
			Rating:    input.Rating,
			Comment:   input.Comment,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// DELETE /reviews/:reviewID
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND user_id = ?", c.Param("reviewID"), c.GetString("user_id")).
			Delete(&models.Review{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}

// -------- Favorites --------

// GET /favorites
func ListFavoritesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var favorites []models.Favorite
		err := db.Preload("Product").Preload("Product.Variants").
			Where("user_id = ?", c.GetString("user_id")).
			Order("created_at DESC").
			Find(&favorites).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
			return
		}
		c.JSON(http.StatusOK, favorites)
	}
}

// POST /favorites/:productID toggles the favorite for this user.
func ToggleFavoriteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		productID := c.Param("productID")

		res := db.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.Favorite{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
			return
		}
		if res.RowsAffected > 0 {
			c.JSON(http.StatusOK, gin.H{"favorited": false})
			return
		}

		fav := models.Favorite{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: productID,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&fav).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"favorited": true})
	}
}

// -------- Announcements --------

type AnnouncementInput struct {
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	Published *bool  `json:"published"`
}

// GET /announcements
func ListAnnouncementsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var announcements []models.Announcement
		err := db.Where("published = ?", true).
			Order("created_at DESC").
			Find(&announcements).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch announcements"})
			return
		}
		c.JSON(http.StatusOK, announcements)
	}
}

// POST /admin/announcements
func CreateAnnouncementHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AnnouncementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		published := true
		if input.Published != nil {
			published = *input.Published
		}
		a := models.Announcement{
			ID:        uuid.NewString(),
			Title:     input.Title,
			Body:      input.Body,
			Published: published,
		}
		if err := db.Create(&a).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create announcement"})
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

// DELETE /admin/announcements/:announcementID
func DeleteAnnouncementHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Announcement{}, "id = ?", c.Param("announcementID"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete announcement"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "announcement not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
	}
}

// -------- Contact --------

type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// POST /contact
func SubmitContactHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg := models.ContactMessage{
			ID:      uuid.NewString(),
			Name:    input.Name,
			Email:   input.Email,
			Subject: input.Subject,
			Message: input.Message,
		}
		if err := db.Create(&msg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Message received"})
	}
}

// GET /admin/contact
func ListContactMessagesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var messages []models.ContactMessage
		if err := db.Order("created_at DESC").Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

// -------- Profile --------

type ProfileInput struct {
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Address models.Address `json:"address"`
}

// GET /me
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /me
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var user models.User
		if err := db.First(&user, "id = ?", c.GetString("user_id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		user.Name = input.Name
		user.Phone = input.Phone
		user.Address = input.Address
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
