package server

import (
	"fmt"

	"github.com/devopsinterview/storefront/pkg/config"
	"github.com/devopsinterview/storefront/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	StorefrontServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	StorefrontServer struct {
		*BaseServer
		routers []router.ServerRouter
	}
)

func NewStorefrontServer(di StorefrontServerDI) *StorefrontServer {
	s := &StorefrontServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
		routers:    di.Routers,
	}
	s.WithRouters(s.routers...)
	return s
}

func (s *StorefrontServer) Run() error {
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf(":%d", s.Config.Server.Port)
	s.Logger.WithFields(logrus.Fields{
		"addr":        addr,
		"environment": s.Config.Server.Environment,
	}).Info("starting storefront server")
	return s.Router.Listen(addr)
}

func (s *StorefrontServer) Shutdown() error {
	s.Logger.Info("shutting down storefront server")
	return s.shutdown()
}
