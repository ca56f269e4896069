package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	"github.com/kimsinwoo/lupl-backend/models"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// GET /admin/orders
func ListAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("User").Preload("Items").Preload("Items.Product").Preload("Items.Variant")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		var orders []models.Order
		if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:orderID — accepts internal id or display number.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orderControllers.FindByNumberOrID(db, c.Param("orderID"))
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/status
//
// Shipping progression runs through the transition table. An explicit
// force=true flag lets an admin skip intermediate states, but terminal
// orders stay terminal even then, and cancellation always takes the
// compensating cancel path so stock restoration cannot be bypassed.
func UpdateOrderStatusHandler(deps orderControllers.Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if newStatus == models.OrderStatusCancelled {
			order, err := orderControllers.CancelOrder(deps, c.Param("orderID"), "")
			if err != nil {
				c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, order)
			return
		}

		order, err := orderControllers.FindByNumberOrID(deps.DB, c.Param("orderID"))
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		force := c.Query("force") == "true"
		if order.Status.Terminal() || (!force && !order.Status.CanTransitionTo(newStatus)) {
			c.JSON(apperrors.HTTPStatus(apperrors.ErrInvalidTransition),
				gin.H{"error": apperrors.ErrInvalidTransition.Error()})
			return
		}

		if err := deps.DB.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		updated, err := orderControllers.LoadOrder(deps.DB, order.ID)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		orderControllers.BroadcastOrder(updated)
		c.JSON(http.StatusOK, updated)
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(deps orderControllers.Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := orderControllers.FindByNumberOrID(deps.DB, c.Param("orderID"))
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		force := c.Query("force") == "true"
		if !force && !order.PaymentStatus.CanTransitionTo(newStatus) {
			c.JSON(apperrors.HTTPStatus(apperrors.ErrInvalidTransition),
				gin.H{"error": apperrors.ErrInvalidTransition.Error()})
			return
		}

		if err := deps.DB.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("payment_status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update payment status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
	}
}

// GET /admin/dashboard
func DashboardHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orderCount, pendingCount, userCount, productCount int64
		var revenue float64

		db.Model(&models.Order{}).Count(&orderCount)
		db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&pendingCount)
		db.Model(&models.User{}).Count(&userCount)
		db.Model(&models.Product{}).Count(&productCount)
		db.Model(&models.Order{}).
			Where("payment_status = ?", models.PaymentStatusPaid).
			Select("COALESCE(SUM(total), 0)").Scan(&revenue)

		c.JSON(http.StatusOK, gin.H{
			"orders":         orderCount,
			"pending_orders": pendingCount,
			"users":          userCount,
			"products":       productCount,
			"revenue":        revenue,
		})
	}
}
