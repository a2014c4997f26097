// Command echo is a reference route fabric service: a supervised pool of
// shard dispatchers that echo back whatever message they're sent, tagged
// with the shard that handled it.
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

	ident := mesh.NetIdent(config.RouteFabric.Component)

	sup := mesh.NewSupervisor(
		mesh.SupervisorConfig{
			Endpoints: config.RouteFabric.RouteAddrs,
			Component: config.RouteFabric.Component,
		},
		newEchoDispatcher,
	)

	if err := sup.Start(config.RouteFabric.Shards); err != nil {
		slog.WithError(err).Fatal("echo failed to start supervisor")
	}
	defer sup.Stop()

	slog.WithFields(slog.Fields{
		"ident":  ident,
		"shards": config.RouteFabric.Shards,
	}).Info("echo service is active")

	router := gin.New()
	router.Use(httpmw.LoggerMiddleware())
	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ident": ident, "shards": config.RouteFabric.Shards})
	})

	server := &http.Server{Addr: config.AdminAddr, Handler: router}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.WithError(err).Error("admin server failed")
		}
	}()

	<-ctx.Done()
	_ = server.Shutdown(context.Background())
}
