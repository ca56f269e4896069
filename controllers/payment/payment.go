package paymentControllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kimsinwoo/lupl-backend/apperrors"
	orderControllers "github.com/kimsinwoo/lupl-backend/controllers/order"
	"github.com/kimsinwoo/lupl-backend/events"
	"github.com/kimsinwoo/lupl-backend/models"
)

// Service reconciles external gateway results against local orders. The
// gateway is the source of truth for the amount actually charged.
type Service struct {
	DB      *gorm.DB
	Gateway *GatewayClient
	Orders  orderControllers.Deps
	Events  *events.Producer
	Logger  *zap.SugaredLogger
}

type ConfirmResult struct {
	Order   *models.Order   `json:"order"`
	Payment json.RawMessage `json:"payment"`
}

// alreadyProcessed is the synthetic gateway response returned for duplicate
// confirmations of an already-paid order.
var alreadyProcessed = json.RawMessage(`{"message":"Already processed"}`)

// ConfirmOrderPayment applies a gateway payment confirmation to an order.
// A repeat confirmation for an already-paid order is a no-op success: the
// existing order is returned and the gateway is not called again. On
// gateway success the order total becomes the gateway-reported amount; on
// gateway failure the failure is recorded durably before the error is
// surfaced.
func (s *Service) ConfirmOrderPayment(ctx context.Context, gatewayOrderID, paymentKey string, amount float64) (*ConfirmResult, error) {
	order, err := orderControllers.FindByNumberOrID(s.DB, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		s.Logger.Infow("duplicate payment confirmation ignored",
			"order_id", order.ID, "payment_key", paymentKey)
		return &ConfirmResult{Order: order, Payment: alreadyProcessed}, nil
	}

	raw, err := s.Gateway.Confirm(ctx, paymentKey, gatewayOrderID, amount)
	if err != nil {
		s.recordFailure(order.ID, amount)
		s.Logger.Warnw("payment confirmation failed",
			"order_id", order.ID, "payment_key", paymentKey, "error", err)
		if failed, loadErr := orderControllers.LoadOrder(s.DB, order.ID); loadErr == nil {
			s.Events.Publish(context.Background(), events.TypePaymentFailed, failed)
		}
		return nil, err
	}

	// The guard above is re-run as a conditional update so two duplicate
	// callbacks racing past it still apply the transition once.
	err = s.DB.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", order.ID, models.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusProcessing,
			"total":          amount,
		}).Error
	if err != nil {
		return nil, err
	}

	paid, err := orderControllers.LoadOrder(s.DB, order.ID)
	if err != nil {
		return nil, err
	}
	s.Logger.Infow("payment confirmed",
		"order_id", paid.ID, "order_number", paid.OrderNumber, "amount", amount)
	s.Events.Publish(context.Background(), events.TypePaymentConfirmed, paid)
	orderControllers.BroadcastOrder(paid)
	return &ConfirmResult{Order: paid, Payment: raw}, nil
}

// recordFailure leaves a durable trace of a failed attempt: paymentStatus
// flips to failed and, when the callback carried an amount, that amount is
// kept on the order for audit. Status is left untouched.
func (s *Service) recordFailure(orderID string, amount float64) {
	updates := map[string]interface{}{
		"payment_status": models.PaymentStatusFailed,
	}
	if amount > 0 {
		updates["total"] = amount
	}
	if err := s.DB.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		s.Logger.Errorw("failed to record payment failure", "order_id", orderID, "error", err)
	}
}

// CancelPayment refunds a payment at the gateway without touching any
// order.
func (s *Service) CancelPayment(ctx context.Context, paymentKey, reason string) (json.RawMessage, error) {
	return s.Gateway.Cancel(ctx, paymentKey, reason)
}

// RefundAndCancelOrder composes the gateway refund and the local
// cancellation for a paid order. The refund runs first; if the local half
// then fails, ErrRefundedNotCancelled tells the caller money moved but the
// order did not. Unpaid orders skip the gateway entirely.
func (s *Service) RefundAndCancelOrder(ctx context.Context, orderID, userID, paymentKey, reason string) (*models.Order, error) {
	order, err := orderControllers.FindByNumberOrID(s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if userID != "" && order.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}
	if !order.Status.Cancellable() {
		return nil, apperrors.ErrInvalidTransition
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		if paymentKey == "" {
			return nil, apperrors.WithMessage(apperrors.ErrGatewayRejected,
				"payment key required to refund a paid order")
		}
		if _, err := s.Gateway.Cancel(ctx, paymentKey, reason); err != nil {
			return nil, err
		}
	}

	cancelled, err := orderControllers.CancelOrder(s.Orders, order.ID, userID)
	if err != nil {
		if order.PaymentStatus == models.PaymentStatusPaid {
			s.Logger.Errorw("refund succeeded but cancellation failed",
				"order_id", order.ID, "error", err)
			return nil, apperrors.Wrap(apperrors.ErrRefundedNotCancelled, err)
		}
		return nil, err
	}
	return cancelled, nil
}

// -------- Handlers --------

type ConfirmPaymentRequest struct {
	PaymentKey string  `json:"paymentKey" binding:"required"`
	OrderID    string  `json:"orderId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
}

type CancelPaymentRequest struct {
	PaymentKey   string `json:"paymentKey" binding:"required"`
	CancelReason string `json:"cancelReason"`
}

type CancelOrderRequest struct {
	PaymentKey string `json:"paymentKey"`
	Reason     string `json:"reason"`
}

func ConfirmPaymentHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := s.ConfirmOrderPayment(c.Request.Context(), req.OrderID, req.PaymentKey, req.Amount)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func CancelPaymentHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raw, err := s.CancelPayment(c.Request.Context(), req.PaymentKey, req.CancelReason)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment": raw})
	}
}

// CancelOrderHandler is the user-facing cancel path: unpaid orders cancel
// locally, paid orders are refunded at the gateway first.
func CancelOrderHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req) // body is optional for unpaid orders
		order, err := s.RefundAndCancelOrder(
			c.Request.Context(), c.Param("orderID"), c.GetString("user_id"),
			req.PaymentKey, req.Reason)
		if err != nil {
			c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
