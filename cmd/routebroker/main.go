// Command routebroker runs the route fabric's broker process: it proxies
// routed requests between application services and the registered pool of
// stateful routers, and exposes a small HTTP surface for health and status.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/geoffjay/routefabric/core/log"
	httpmw "github.com/geoffjay/routefabric/core/http"
	"github.com/geoffjay/routefabric/mesh"

	"github.com/gin-gonic/gin"
	slog "github.com/sirupsen/logrus"
)

func main() {
	config := GetConfig()
	log.Initialize(config.Log)

	SetStatus("starting")

	broker := mesh.NewBroker(config.RouteFabric.RouteAddrs...)
	broker.Connect()
	defer broker.Close()

	ready := make(chan struct{})
	stop := make(chan struct{})
	go broker.Run(ready, stop)
	<-ready

	SetStatus("running")
	slog.WithField("endpoints", config.RouteFabric.RouteAddrs).Info("routebroker is active")

	router := gin.New()
	router.Use(httpmw.LoggerMiddleware())
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      GetStatus(),
			"error-count": GetErrorCount(),
		})
	})

	server := &http.Server{Addr: config.AdminAddr, Handler: router}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			SetLastError(err)
			slog.WithError(err).Error("admin server failed")
		}
	}()

	<-ctx.Done()

	SetStatus("stopping")
	close(stop)
	_ = server.Shutdown(context.Background())
}
