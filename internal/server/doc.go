// Package server provides the loopback HTTP listener that captures the OAuth redirect during login.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally. Paths that no handler claims
// (the browser's favicon probe, for example) get a 404 and never reach the callback handler.
//
// # Callback Handler
//
// [CallbackHandler] answers the redirect from the authorization server. A request carrying a code settles
// the login with [OutcomeCode]; a request without one (user denied access, provider error, state mismatch)
// settles it with [OutcomeFailure]. Settlement happens once: later requests are answered with 400 and
// cannot change the outcome.
//
// # Callback Server
//
// [CallbackServer] owns the listener lifecycle:
//
//	Idle → Listening → (CodeCaptured | CallbackFailed | TimedOut) → Closed
//
// Start binds the configured port once and fails with [shared.ErrListenerBind] when it is taken.
// After settlement the server schedules its own shutdown with a short delay so the browser receives the
// whole response page. [CallbackServer.Wait] returns the outcome, or a timeout outcome after force-closing
// the listener. [CallbackServer.Close] is idempotent; the listener is closed exactly once on every path.
package server
