package metrics

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tos-network/ddc/log"
)

// Handler returns an HTTP handler serving DefaultRegistry in the prometheus
// exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

// StartServer starts a dedicated metrics server at the configured address.
// The returned server is already listening; Close it to stop.
func StartServer(cfg Config) (*http.Server, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	address := net.JoinHostPort(cfg.HTTP, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("metrics: listen %s: %w", address, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("Failure in running metrics server", "err", err)
		}
	}()
	log.Info("Starting metrics server", "addr", fmt.Sprintf("http://%s/metrics", listener.Addr()))
	return srv, nil
}
