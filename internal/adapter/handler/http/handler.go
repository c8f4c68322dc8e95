package http

import (
	"errors"
	"net/http"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,
	domain.ErrBadRequest:      http.StatusBadRequest,

	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrTruckNotFound:   http.StatusNotFound,
	domain.ErrClientNotFound:  http.StatusNotFound,
	domain.ErrOwnerNotFound:   http.StatusNotFound,
	domain.ErrOrderNotFound:   http.StatusNotFound,
	domain.ErrItemNotFound:    http.StatusNotFound,
	domain.ErrEmptyOrder:      http.StatusBadRequest,
	domain.ErrInvalidQuantity: http.StatusBadRequest,

	domain.ErrTruckClosed:              http.StatusConflict,
	domain.ErrItemUnavailable:          http.StatusUnprocessableEntity,
	domain.ErrItemNotInTruck:           http.StatusUnprocessableEntity,
	domain.ErrNoPaymentInstrument:      http.StatusBadRequest,
	domain.ErrInvalidPaymentInstrument: http.StatusBadRequest,
	domain.ErrInsufficientBalance:      http.StatusPaymentRequired,
	domain.ErrSubscriptionActive:       http.StatusConflict,
	domain.ErrInvalidTransition:        http.StatusConflict,

	domain.ErrChargeNotFound: http.StatusConflict,
	domain.ErrChargeMismatch: http.StatusConflict,
	domain.ErrStatusMismatch: http.StatusConflict,
	domain.ErrAmountMismatch: http.StatusConflict,
	domain.ErrPaymentNotPaid: http.StatusConflict,

	domain.ErrGatewayUnavailable: http.StatusBadGateway,
	domain.ErrGatewayResponse:    http.StatusBadGateway,
}

// statusFor resolves wrapped errors too, exact matches win.
func statusFor(err error) (int, bool) {
	if code, ok := errorStatusMap[err]; ok {
		return code, true
	}
	for e, code := range errorStatusMap {
		if errors.Is(err, e) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

type errorResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	h.logger.Debug("bad request", zap.String("path", ctx.FullPath()), zap.Error(err))
	ctx.JSON(http.StatusBadRequest, errorResponse{Message: domain.ErrBadRequest.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := statusFor(err)
	if !ok {
		h.logger.Error("aborting request", zap.Error(err))
	}
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Message: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusFor(err)
	switch {
	case !ok:
		h.logger.Error("error processing request", zap.String("path", ctx.FullPath()), zap.Error(err))
		err = domain.ErrInternal
	case domain.IsExternal(err):
		h.logger.Error("payment gateway failure", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	_ = ctx.Error(err)
	ctx.JSON(statusCode, errorResponse{Message: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
