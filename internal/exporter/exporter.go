package exporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/internal/logger"
)

const (
	pkgName = "exporter"
	path    = "/metrics"
)

// Exporter serves registered collectors over HTTP
type Exporter struct {
	port uint16
	reg  *prometheus.Registry
	log  logrus.FieldLogger
}

func New(port uint16, log logrus.FieldLogger, collectors ...prometheus.Collector) (*Exporter, error) {
	if log == nil {
		log = logger.Global()
	}
	obj := Exporter{
		port: port,
		reg:  prometheus.NewRegistry(),
		log:  log.WithField("pkg", pkgName),
	}

	for _, c := range collectors {
		if err := obj.reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &obj, nil
}

func (obj *Exporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(obj.reg, promhttp.HandlerOpts{}))
	return mux
}

// Run serves metrics until ctx is done
func (obj *Exporter) Run(ctx context.Context) error {
	srv := http.Server{
		Addr:         fmt.Sprintf(":%d", obj.port),
		Handler:      obj.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		obj.log.WithField("port", obj.port).Info("Exporter starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	obj.log.Debug("Exporter stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		srv.Close()
	}
	return nil
}
