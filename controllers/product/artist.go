package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/models"
)

type ArtistInput struct {
	Name         string `json:"name" binding:"required"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
}

// GET /artists
func ListArtistsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var artists []models.Artist
		if err := db.Order("name").Find(&artists).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch artists"})
			return
		}
		c.JSON(http.StatusOK, artists)
	}
}

// GET /artists/:artistID
func GetArtistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var artist models.Artist
		err := db.Preload("Products").Preload("Products.Variants").
			First(&artist, "id = ?", c.Param("artistID")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "artist not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch artist"})
			return
		}
		c.JSON(http.StatusOK, artist)
	}
}

// POST /admin/artists
func CreateArtistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ArtistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		artist := models.Artist{
			ID:           uuid.NewString(),
			Name:         input.Name,
			Bio:          input.Bio,
			ProfileImage: input.ProfileImage,
		}
		if err := db.Create(&artist).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create artist"})
			return
		}
		c.JSON(http.StatusCreated, artist)
	}
}

// PUT /admin/artists/:artistID
func UpdateArtistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ArtistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var artist models.Artist
		if err := db.First(&artist, "id = ?", c.Param("artistID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "artist not found"})
			return
		}
		artist.Name = input.Name
		artist.Bio = input.Bio
		artist.ProfileImage = input.ProfileImage
		if err := db.Save(&artist).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update artist"})
			return
		}
		c.JSON(http.StatusOK, artist)
	}
}

// DELETE /admin/artists/:artistID
func DeleteArtistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Artist{}, "id = ?", c.Param("artistID"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete artist"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "artist not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
	}
}
