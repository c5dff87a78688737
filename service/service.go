// Package service hosts the sidecar HTTP servers (healthz, metrics) used
// when conductor runs in interval mode.
package service

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/conductor-ci/conductor/metrics"
)

const (
	HealthzHost = "0.0.0.0"
	HealthzPort = "8080"

	MetricsHost = "0.0.0.0"
	MetricsPort = "7300"
)

type Service struct {
	Healthz *HealthzServer
	Metrics *MetricsServer

	group *errgroup.Group
}

func New() *Service {
	return &Service{
		Healthz: &HealthzServer{},
		Metrics: &MetricsServer{},
	}
}

func (s *Service) Start(ctx context.Context) {
	logrus.Info("service starting")

	s.group, ctx = errgroup.WithContext(ctx)

	s.group.Go(func() error {
		addr := net.JoinHostPort(HealthzHost, HealthzPort)
		logrus.WithField("addr", addr).Info("starting healthz server")
		if err := s.Healthz.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("error starting healthz server")
			metrics.RecordError("error starting healthz server")
			return err
		}
		return nil
	})

	s.group.Go(func() error {
		addr := net.JoinHostPort(MetricsHost, MetricsPort)
		logrus.WithField("addr", addr).Info("starting metrics server")
		if err := s.Metrics.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("error starting metrics server")
			metrics.RecordError("error starting metrics server")
			return err
		}
		return nil
	})

	logrus.Info("service started")
}

func (s *Service) Shutdown() {
	logrus.Info("service shutting down")

	_ = s.Healthz.Shutdown()
	logrus.Info("healthz stopped")

	_ = s.Metrics.Shutdown()
	logrus.Info("metrics stopped")

	if s.group != nil {
		_ = s.group.Wait()
	}
	logrus.Info("service stopped")
}
