/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package frontend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/microsoft/hostinspector/internal/inspector"
	"github.com/microsoft/hostinspector/internal/telemetry"
)

const (
	integrationName         = "WebSocket"
	serverShutdownTimeout   = 5 * time.Second
	serverReadHeaderTimeout = 10 * time.Second
)

type Server struct {
	host     *inspector.HostTarget
	config   ServerConfig
	log      logr.Logger
	upgrader websocket.Upgrader
}

func NewServer(host *inspector.HostTarget, config ServerConfig, log logr.Logger) *Server {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	if config.ProductName == "" {
		config.ProductName = DefaultServerConfig().ProductName
	}

	return &Server{
		host:   host,
		config: config,
		log:    log,
		upgrader: websocket.Upgrader{
			// Debugger frontends are served from devtools:// or from arbitrary local ports.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving the discovery endpoints, the debugger endpoint and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /json/version", s.handleVersion)
	mux.HandleFunc("GET /json/list", s.handleList)
	mux.HandleFunc("GET /json", s.handleList)
	mux.HandleFunc("GET "+debugEndpointPath, s.handleDebug)
	mux.Handle("GET /metrics", telemetry.GetTelemetrySystem().MetricsHandler())
	return mux
}

// ListenAndServe serves until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, listenErr := net.Listen("tcp", s.config.ListenAddress)
	if listenErr != nil {
		return fmt.Errorf("could not listen on '%s': %w", s.config.ListenAddress, listenErr)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on the listener until ctx is done. The listener is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: serverReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// WebSocket connections are hijacked, so Shutdown does not wait for them. They end when their sessions end.
	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- httpServer.Serve(listener)
	}()

	s.log.Info("Inspector server is listening", "Address", listener.Addr().String())

	select {
	case serveErr := <-serveErrCh:
		return fmt.Errorf("inspector server stopped unexpectedly: %w", serveErr)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()

		shutdownErr := httpServer.Shutdown(shutdownCtx)
		serveErr := <-serveErrCh
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
		return errors.Join(shutdownErr, serveErr)
	}
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	wsConn, upgradeErr := s.upgrader.Upgrade(w, r, nil)
	if upgradeErr != nil {
		// The upgrader has already replied to the client.
		s.log.V(1).Info("WebSocket upgrade failed", "Error", upgradeErr.Error())
		return
	}

	query := r.URL.Query()
	metadata := inspector.SessionMetadata{
		SessionID:       uuid.NewString(),
		IntegrationName: integrationName,
		ClientName:      query.Get("client"),
		ConnectReason:   query.Get("reason"),
	}

	conn := newConnection(r.Context(), wsConn, s.newLimiter(), s.config.PingPeriod, s.log.WithValues("Session", metadata.SessionID))
	session := s.host.Connect(conn, metadata)
	conn.serve(session)
}

func (s *Server) newLimiter() *rate.Limiter {
	if s.config.MessagesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	burst := s.config.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.config.MessagesPerSecond), burst)
}
