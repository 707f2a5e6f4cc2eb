/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package serverd owns the server's lifecycle: opening the shared
// document root, accepting connections on a keep-alive TCP listener, and
// handing each one to internal/connio until shutdown is requested.
package serverd

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/badu/originserver/internal/connio"
	"github.com/badu/originserver/internal/obslog"
	"github.com/badu/originserver/internal/router"
	"github.com/badu/originserver/internal/svcconfig"
)

// ConnState mirrors the teacher's net/http-style connection state enum,
// exposed only to the structured logger: it is not part of this
// package's exported contract and no caller branches on it.
type ConnState int

const (
	StateNew ConnState = iota
	StateActive
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// tcpKeepAliveListener wraps a *net.TCPListener to enable TCP keep-alive
// on every accepted connection, the way the teacher's own listener
// wrapper does it.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (l tcpKeepAliveListener) Accept() (net.Conn, error) {
	conn, err := l.AcceptTCP()
	if err != nil {
		return nil, err
	}
	conn.SetKeepAlive(true)
	conn.SetKeepAlivePeriod(3 * time.Minute)
	return conn, nil
}

// Server owns the listener and the document-root handle spec.md §6
// requires stay open for the process lifetime, independent of any single
// connection.
type Server struct {
	cfg  svcconfig.Config
	log  obslog.Logger
	doc  *router.DocRoot
	ln   net.Listener
	wg   sync.WaitGroup
	done chan struct{}
}

// New opens the document root and binds the listener. The returned
// Server has not started accepting connections yet; call Serve.
func New(cfg svcconfig.Config, log obslog.Logger) (*Server, error) {
	doc, err := router.OpenDocRoot(cfg.DocRoot)
	if err != nil {
		return nil, err
	}

	tcpLn, err := net.Listen("tcp", cfg.Listen.Address)
	if err != nil {
		doc.Close()
		return nil, err
	}

	return &Server{
		cfg:  cfg,
		log:  log,
		doc:  doc,
		ln:   tcpKeepAliveListener{tcpLn.(*net.TCPListener)},
		done: make(chan struct{}),
	}, nil
}

// Serve accepts connections until Shutdown is called, dispatching each
// one to its own goroutine per spec.md §5's concurrency model. It
// returns once every in-flight connection goroutine has exited.
func (s *Server) Serve() error {
	s.log.Info("server listening", "address", s.cfg.Listen.Address, "docRoot", s.cfg.DocRoot)
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.done:
				s.wg.Wait()
				return nil
			default:
				s.log.Warn("accept failed", "error", err)
				continue
			}
		}

		connID := uuid.NewString()
		cl := connLogger{id: connID, Logger: s.log}
		cl.Info("connection state change", "state", StateNew.String())

		opts := connio.Options{
			ReadTimeout:     s.cfg.Listen.ReadTimeout,
			InitialCapacity: s.cfg.Listen.InitialCap,
			MaxCapacity:     s.cfg.Listen.MaxCap,
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			cl.Info("connection state change", "state", StateActive.String())
			connio.Serve(conn, s.doc, cl, opts)
			cl.Info("connection state change", "state", StateClosed.String())
		}()
	}
}

// connLogger tags every log line for one connection with the request ID
// spec.md's ambient logging layer attaches at accept time, so a
// connection's log lines can be correlated without threading the ID
// through every connio call.
type connLogger struct {
	id string
	obslog.Logger
}

func (l connLogger) Info(msg string, fields ...any) {
	l.Logger.Info(msg, append([]any{"conn_id", l.id}, fields...)...)
}

func (l connLogger) Warn(msg string, fields ...any) {
	l.Logger.Warn(msg, append([]any{"conn_id", l.id}, fields...)...)
}

// Shutdown stops accepting new connections and waits for in-flight
// connections to finish their current response, honoring ctx's deadline
// as the grace period spec.md's "design does not dictate" shutdown
// timing leaves open. It always releases the document-root handle, even
// if ctx expires first, and aggregates every close-path error rather
// than discarding all but the first, the way packetd's controller folds
// per-pool teardown errors with go-multierror.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.done)

	var errs error
	if err := s.ln.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		errs = multierror.Append(errs, ctx.Err())
	}

	if err := s.doc.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs
}
