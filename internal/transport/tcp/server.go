// Package tcp implements the client-facing transport: a listener that
// accepts persistent connections and runs one session goroutine per client.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/haroontrailblazer/College-Departments-Portal/internal"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/core/stats"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/department"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/entry"
	"github.com/haroontrailblazer/College-Departments-Portal/internal/protocol"
)

type Authenticator interface {
	Authenticate(email, password string) (*department.Info, error)
}

type EntryAPI interface {
	Submit(deptID int64, dto entry.SubmitDTO) (*entry.SubmitResult, error)
	Recent(limit int) ([]entry.SummaryResponse, error)
}

type Reporter interface {
	FormattedReport() (string, error)
}

type ActivityLogger interface {
	Info(message string)
}

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("tcp: server closed")

type Server struct {
	cfg internal.ServerConfig

	auth     Authenticator
	entries  EntryAPI
	reports  Reporter
	counters *stats.Counters
	activity ActivityLogger
	logger   *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

func NewServer(cfg internal.ServerConfig, auth Authenticator, entries EntryAPI, reports Reporter, counters *stats.Counters, activity ActivityLogger, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		auth:     auth,
		entries:  entries,
		reports:  reports,
		counters: counters,
		activity: activity,
		logger:   logger,
		conns:    make(map[net.Conn]struct{}),
	}
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve runs the accept loop until Shutdown closes the listener. A single
// failed accept is logged and the loop continues.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("server listening", "address", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			s.activity.Info(fmt.Sprintf("Error accepting connection: %v", err))
			continue
		}

		s.trackConn(conn)
		s.counters.ConnectionOpened()
		s.activity.Info(fmt.Sprintf("New connection from %s", conn.RemoteAddr()))

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Addr reports the bound listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting, closes live connections and waits for their
// handlers, or returns early when ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	defer func() {
		conn.Close()
		s.forgetConn(conn)
		s.activity.Info(fmt.Sprintf("Connection with %s closed", remote))
	}()

	sessionID := uuid.NewString()
	sess := &session{
		id:          sessionID,
		conn:        conn,
		dec:         protocol.NewDecoder(conn, s.cfg.MaxMessageBytes),
		enc:         protocol.NewEncoder(conn),
		readTimeout: s.cfg.ReadTimeout,
		auth:        s.auth,
		entries:     s.entries,
		reports:     s.reports,
		counters:    s.counters,
		activity:    s.activity,
		logger:      s.logger.With("session_id", sessionID, "remote", remote),
	}
	sess.run()
}

func (s *Server) trackConn(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) forgetConn(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
