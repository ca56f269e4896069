package productControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/models"
)

type VariantInput struct {
	Size  string `json:"size" binding:"required"`
	Color string `json:"color"`
	Stock int    `json:"stock" binding:"min=0"`
}

type ProductInput struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price" binding:"required,gt=0"`
	Image       string         `json:"image"`
	Medium      string         `json:"medium"`
	Dimensions  string         `json:"dimensions"`
	Featured    bool           `json:"featured"`
	ArtistID    *string        `json:"artist_id"`
	CategoryID  *string        `json:"category_id"`
	Variants    []VariantInput `json:"variants"`
}

// GET /products
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("Variants").Preload("Artist").Preload("Category")
		if category := c.Query("category"); category != "" {
			q = q.Where("category_id = ?", category)
		}
		if artist := c.Query("artist"); artist != "" {
			q = q.Where("artist_id = ?", artist)
		}
		if c.Query("featured") == "true" {
			q = q.Where("featured = ?", true)
		}
		if search := c.Query("q"); search != "" {
			q = q.Where("name LIKE ?", "%"+search+"%")
		}
		var products []models.Product
		if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:productID
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("Variants").Preload("Artist").Preload("Category").
			First(&product, "id = ?", c.Param("productID")).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			ID:          uuid.NewString(),
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Image:       input.Image,
			Medium:      input.Medium,
			Dimensions:  input.Dimensions,
			Featured:    input.Featured,
			ArtistID:    input.ArtistID,
			CategoryID:  input.CategoryID,
		}
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				ID:    uuid.NewString(),
				Size:  v.Size,
				Color: v.Color,
				Stock: v.Stock,
			})
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:productID
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productID")
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		updates := map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       input.Price,
			"image":       input.Image,
			"medium":      input.Medium,
			"dimensions":  input.Dimensions,
			"featured":    input.Featured,
			"artist_id":   input.ArtistID,
			"category_id": input.CategoryID,
		}
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:productID
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Product{}, "id = ?", c.Param("productID"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
