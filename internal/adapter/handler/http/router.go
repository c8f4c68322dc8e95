package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	*gin.Engine
	server *http.Server
}

func NewRouter(
	conf *config.HTTP,
	logger *zap.Logger,
	tokenService port.TokenService,
	orderHandler *OrderHandler,
	subscriptionHandler *SubscriptionHandler,
	deps map[string]Pinger) (*Router, error) {

	router := gin.New()
	router.Use(requestLogger(logger), recovery(logger))

	base := NewHandler(logger)

	router.GET("/healthz", healthz(deps))

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := authCheck(base, tokenService)

	v1 := router.Group("/api/v1")
	{
		order := v1.Group("/order")
		{
			order.GET("/callback/:orderId", orderHandler.OrderCallback)

			secured := order.Group("", auth)
			secured.POST("/add/:truckId", orderHandler.CreateOrder)
			secured.PUT("/status/ready/:truckId/:orderId", orderHandler.MarkReady)
			secured.PUT("/status/completed/:truckId/:orderId", orderHandler.MarkCompleted)
			secured.GET("/client", orderHandler.ListClientOrders)
			secured.GET("/foodtruck/:truckId", orderHandler.ListTruckOrders)
			secured.GET("/foodtruck/:truckId/:orderId", orderHandler.GetTruckOrder)
			secured.GET("/payment/status/:paymentId", orderHandler.PaymentStatus)
		}

		owner := v1.Group("/owner")
		{
			owner.GET("/callback/:ownerId", subscriptionHandler.SubscriptionCallback)

			secured := owner.Group("", auth)
			secured.POST("/subscribe", subscriptionHandler.Subscribe)
			secured.GET("/subscription/status", subscriptionHandler.Status)
			secured.PUT("/subscription/cancel", subscriptionHandler.Cancel)
		}
	}

	return &Router{
		Engine: router,
		server: &http.Server{
			Addr:              conf.HostString,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func healthz(deps map[string]Pinger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, d := range deps {
			if err := d.Ping(c); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = err.Error()
				continue
			}
			checks[name] = "ok"
		}
		ctx.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}

// Serve starts the HTTP server and blocks until it is shut down.
func (r *Router) Serve() error {
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
