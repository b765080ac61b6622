package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/shared"
)

// ListenerState is a [CallbackServer] lifecycle state.
type ListenerState int32

const (
	StateIdle ListenerState = iota
	StateListening
	StateCodeCaptured
	StateCallbackFailed
	StateTimedOut
	StateClosed
)

func (s ListenerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateCodeCaptured:
		return "code-captured"
	case StateCallbackFailed:
		return "callback-failed"
	case StateTimedOut:
		return "timed-out"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	defaultHost          = "127.0.0.1"
	defaultCallbackPath  = "/callback"
	defaultShutdownDelay = time.Second
	shutdownGrace        = 5 * time.Second
)

// CallbackServerOpts configures a [CallbackServer].
type CallbackServerOpts struct {
	Host          string
	Port          int           // 0 picks a free port
	Path          string        // defaults to /callback
	State         string        // expected state parameter; empty skips the check
	Timeout       time.Duration // 0 waits until the context is done
	ShutdownDelay time.Duration // delay between settlement and shutdown
	Logger        *log.Logger
}

// CallbackServer is a single-use loopback listener that receives one OAuth redirect.
type CallbackServer struct {
	opts       CallbackServerOpts
	handler    *CallbackHandler
	logger     *log.Logger
	httpServer *http.Server
	listener   net.Listener
	state      atomic.Int32
	serveErr   chan error
	done       chan struct{}
	closeOnce  sync.Once
	closeErr   error
	mu         sync.Mutex
	timer      *time.Timer
}

// NewCallbackServer creates an idle [CallbackServer].
func NewCallbackServer(opts CallbackServerOpts) *CallbackServer {
	if opts.Host == "" {
		opts.Host = defaultHost
	}
	if opts.Path == "" {
		opts.Path = defaultCallbackPath
	}
	if opts.ShutdownDelay <= 0 {
		opts.ShutdownDelay = defaultShutdownDelay
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	s := &CallbackServer{
		opts:     opts,
		handler:  NewCallbackHandler(opts.Path, opts.State),
		logger:   shared.WithLogger(opts.Logger, "component", "callback"),
		serveErr: make(chan error, 1),
		done:     make(chan struct{}),
	}
	s.handler.OnSettle(s.settled)
	return s
}

// Start binds the listener and begins serving in the background.
//
// A taken port fails with [shared.ErrListenerBind]; there is no retry.
func (s *CallbackServer) Start() error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateListening)) {
		return fmt.Errorf("%w: cannot start from %s", shared.ErrListenerState, s.State())
	}

	addr := net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.closeOnce.Do(func() {
			s.state.Store(int32(StateClosed))
			close(s.done)
		})
		return fmt.Errorf("%w: %s: %v", shared.ErrListenerBind, addr, err)
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(s.logger))
	router.Handler(s.handler)

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Debug("callback listener started", "addr", ln.Addr().String(), "path", s.opts.Path)

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.serveErr <- err
		}
	}()

	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *CallbackServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.Port))
}

// URL returns the full callback URL for the bound address.
func (s *CallbackServer) URL() string {
	return "http://" + s.Addr() + s.opts.Path
}

// State returns the current lifecycle state.
func (s *CallbackServer) State() ListenerState {
	return ListenerState(s.state.Load())
}

// Closed reports whether the listener has been closed.
func (s *CallbackServer) Closed() bool {
	return s.State() == StateClosed
}

// Done is closed once the listener is closed.
func (s *CallbackServer) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the redirect settles the outcome, the timeout elapses, or ctx is done.
//
// On timeout or cancellation the listener is force-closed and a [OutcomeTimeout] outcome is returned with
// an error wrapping [shared.ErrTimeout]. Failure outcomes are returned with their error.
func (s *CallbackServer) Wait(ctx context.Context) (CallbackOutcome, error) {
	var timeout <-chan time.Time
	if s.opts.Timeout > 0 {
		t := time.NewTimer(s.opts.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case outcome, ok := <-s.handler.Result():
		return s.received(outcome, ok)
	case err := <-s.serveErr:
		s.forceClose()
		return CallbackOutcome{Kind: OutcomeFailure, Reason: err.Error()}, fmt.Errorf("%w: %v", shared.ErrCallbackFailed, err)
	case <-timeout:
		return s.expire(fmt.Sprintf("no redirect received within %s", s.opts.Timeout))
	case <-ctx.Done():
		return s.expire(ctx.Err().Error())
	}
}

func (s *CallbackServer) expire(reason string) (CallbackOutcome, error) {
	outcome := CallbackOutcome{Kind: OutcomeTimeout, Reason: reason}
	if !s.handler.Settle(outcome) {
		// the redirect won the race
		o, ok := <-s.handler.Result()
		return s.received(o, ok)
	}
	s.forceClose()
	return outcome, outcome.Err()
}

func (s *CallbackServer) received(outcome CallbackOutcome, ok bool) (CallbackOutcome, error) {
	if !ok {
		outcome = CallbackOutcome{Kind: OutcomeFailure, Reason: "outcome already consumed"}
		return outcome, fmt.Errorf("%w: %s", shared.ErrListenerState, outcome.Reason)
	}
	return outcome, outcome.Err()
}

// settled moves the state machine forward and schedules shutdown after the response flushes.
func (s *CallbackServer) settled(outcome CallbackOutcome) {
	next := StateCallbackFailed
	switch outcome.Kind {
	case OutcomeCode:
		next = StateCodeCaptured
	case OutcomeTimeout:
		next = StateTimedOut
	}
	s.state.CompareAndSwap(int32(StateListening), int32(next))
	s.logger.Debug("callback settled", "outcome", outcome.Kind, "state", s.State())

	if outcome.Kind == OutcomeTimeout {
		return
	}

	s.mu.Lock()
	s.timer = time.AfterFunc(s.opts.ShutdownDelay, func() {
		if err := s.Close(); err != nil {
			s.logger.Warn("error shutting down callback listener", "error", err)
		}
	})
	s.mu.Unlock()
}

// Close gracefully shuts the listener down. Safe to call more than once; only the first call acts.
func (s *CallbackServer) Close() error {
	s.shutdown(false)
	return s.closeErr
}

func (s *CallbackServer) forceClose() {
	s.shutdown(true)
}

func (s *CallbackServer) shutdown(force bool) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()

		if srv != nil {
			if force {
				s.closeErr = srv.Close()
			} else {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				if err := srv.Shutdown(ctx); err != nil {
					s.closeErr = err
					_ = srv.Close()
				}
				cancel()
			}
		}

		s.state.Store(int32(StateClosed))
		close(s.done)
		s.logger.Debug("callback listener closed", "forced", force)
	})
}
