package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type lineRequest struct {
	ItemID   uint64 `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type chargeResponse struct {
	Kind      domain.ChargeKind `json:"kind"`
	SubjectID uint64            `json:"subject_id"`
	PaymentID string            `json:"payment_id"`
	Status    string            `json:"status"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Gateway   json.RawMessage   `json:"gateway,omitempty"`
}

func newChargeResponse(c *domain.ChargeInitiation) chargeResponse {
	return chargeResponse{
		Kind:      c.Kind,
		SubjectID: c.SubjectID,
		PaymentID: c.PaymentID,
		Status:    c.Status,
		Amount:    c.Amount,
		Currency:  c.Currency,
		Gateway:   c.Gateway,
	}
}

type callbackResponse struct {
	Message        string            `json:"message"`
	Kind           domain.ChargeKind `json:"kind"`
	SubjectID      uint64            `json:"subject_id"`
	PaymentID      string            `json:"payment_id"`
	Amount         decimal.Decimal   `json:"amount"`
	AlreadySettled bool              `json:"already_settled"`
}

func newCallbackResponse(r *domain.CallbackResult) callbackResponse {
	return callbackResponse{
		Message:        r.Status,
		Kind:           r.Kind,
		SubjectID:      r.SubjectID,
		PaymentID:      r.PaymentID,
		Amount:         r.Amount,
		AlreadySettled: r.AlreadySettled,
	}
}

type orderLineResponse struct {
	ItemID    uint64          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID         uint64              `json:"id"`
	ClientID   uint64              `json:"client_id"`
	TruckID    uint64              `json:"food_truck_id"`
	Status     string              `json:"status"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	PaymentID  string              `json:"payment_id,omitempty"`
	Lines      []orderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ItemID:    l.ItemID,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return orderResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		TruckID:    o.TruckID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		PaymentID:  o.PaymentID,
		Lines:      lines,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func pathID(ctx *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("bad %s %q", name, ctx.Param(name))
	}
	return id, nil
}

// bindCallback reads the gateway redirect parameters.
func bindCallback(ctx *gin.Context) *domain.Callback {
	return &domain.Callback{
		TransactionID: ctx.Query("id"),
		Status:        ctx.Query("status"),
		Message:       ctx.Query("message"),
	}
}

// CreateOrder godoc
//
//	@Summary	Place an order and start the card payment
//	@Tags		order
//	@Accept		json
//	@Produce	json
//	@Param		truckId	path		int				true	"Food truck id"
//	@Param		lines	body		[]lineRequest	true	"Ordered items"
//	@Success	200		{object}	chargeResponse
//	@Security	BearerAuth
//	@Router		/order/add/{truckId} [post]
func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	clientID := getAuthPayload(ctx).UserID

	truckID, err := pathID(ctx, "truckId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	var req []lineRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	lines := make([]domain.LineRequest, 0, len(req))
	for _, l := range req {
		lines = append(lines, domain.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	res, err := oh.service.CreateOrder(ctx, clientID, truckID, lines)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newChargeResponse(res))
}

// OrderCallback is hit by the payment gateway redirect, so it carries no token.
func (oh *OrderHandler) OrderCallback(ctx *gin.Context) {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	res, err := oh.service.HandleOrderCallback(ctx, orderID, bindCallback(ctx))
	if err != nil {
		if domain.IsConsistency(err) {
			oh.logger.Warn("order callback rejected", zap.Uint64("order", orderID), zap.Error(err))
		}
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newCallbackResponse(res))
}

func (oh *OrderHandler) MarkReady(ctx *gin.Context) {
	oh.advance(ctx, domain.OrderStatusReady)
}

func (oh *OrderHandler) MarkCompleted(ctx *gin.Context) {
	oh.advance(ctx, domain.OrderStatusCompleted)
}

func (oh *OrderHandler) advance(ctx *gin.Context, target domain.OrderStatus) {
	ownerID := getAuthPayload(ctx).UserID

	truckID, err := pathID(ctx, "truckId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.AdvanceOrderStatus(ctx, ownerID, truckID, orderID, target)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) ListClientOrders(ctx *gin.Context) {
	clientID := getAuthPayload(ctx).UserID

	list, err := oh.service.ListClientOrders(ctx, clientID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderList(list))
}

func (oh *OrderHandler) ListTruckOrders(ctx *gin.Context) {
	ownerID := getAuthPayload(ctx).UserID

	truckID, err := pathID(ctx, "truckId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	list, err := oh.service.ListTruckOrders(ctx, ownerID, truckID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderList(list))
}

func (oh *OrderHandler) GetTruckOrder(ctx *gin.Context) {
	ownerID := getAuthPayload(ctx).UserID

	truckID, err := pathID(ctx, "truckId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetTruckOrder(ctx, ownerID, truckID, orderID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) PaymentStatus(ctx *gin.Context) {
	paymentID := ctx.Param("paymentId")
	if paymentID == "" {
		oh.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	status, err := oh.service.PaymentStatus(ctx, paymentID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}
	oh.handleSuccess(ctx, status)
}

func newOrderList(list []*domain.Order) []orderResponse {
	res := make([]orderResponse, 0, len(list))
	for _, o := range list {
		res = append(res, newOrderResponse(o))
	}
	return res
}
