package http

import (
	"time"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	Handler
	service port.Service
}

func NewSubscriptionHandler(service port.Service, logger *zap.Logger) (*SubscriptionHandler, error) {
	return &SubscriptionHandler{
		Handler: Handler{logger: logger},
		service: service,
	}, nil
}

type subscriptionResponse struct {
	OwnerID      uint64     `json:"owner_id"`
	State        string     `json:"state"`
	Message      string     `json:"message"`
	IsSubscribed bool       `json:"is_subscribed"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

func newSubscriptionResponse(s *domain.SubscriptionSnapshot) subscriptionResponse {
	return subscriptionResponse{
		OwnerID:      s.OwnerID,
		State:        string(s.State),
		Message:      s.Message,
		IsSubscribed: s.IsSubscribed,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
	}
}

func (sh *SubscriptionHandler) Subscribe(ctx *gin.Context) {
	ownerID := getAuthPayload(ctx).UserID

	res, err := sh.service.Subscribe(ctx, ownerID)
	if err != nil {
		sh.handleError(ctx, err)
		return
	}
	sh.handleSuccess(ctx, newChargeResponse(res))
}

func (sh *SubscriptionHandler) SubscriptionCallback(ctx *gin.Context) {
	ownerID, err := pathID(ctx, "ownerId")
	if err != nil {
		sh.handleValidationError(ctx, err)
		return
	}

	res, err := sh.service.HandleSubscriptionCallback(ctx, ownerID, bindCallback(ctx))
	if err != nil {
		if domain.IsConsistency(err) {
			sh.logger.Warn("subscription callback rejected", zap.Uint64("owner", ownerID), zap.Error(err))
		}
		sh.handleError(ctx, err)
		return
	}
	sh.handleSuccess(ctx, newCallbackResponse(res))
}

func (sh *SubscriptionHandler) Status(ctx *gin.Context) {
	ownerID := getAuthPayload(ctx).UserID

	snap, err := sh.service.SubscriptionStatus(ctx, ownerID)
	if err != nil {
		sh.handleError(ctx, err)
		return
	}
	sh.handleSuccess(ctx, newSubscriptionResponse(snap))
}

func (sh *SubscriptionHandler) Cancel(ctx *gin.Context) {
	ownerID := getAuthPayload(ctx).UserID

	snap, err := sh.service.CancelSubscription(ctx, ownerID)
	if err != nil {
		sh.handleError(ctx, err)
		return
	}
	sh.handleSuccess(ctx, newSubscriptionResponse(snap))
}
