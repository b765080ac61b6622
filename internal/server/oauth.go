package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/spotcli/internal/shared"
)

// OutcomeKind tags a [CallbackOutcome].
type OutcomeKind int

const (
	OutcomeCode OutcomeKind = iota
	OutcomeFailure
	OutcomeTimeout
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCode:
		return "code"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// CallbackOutcome is the single result of a login's redirect: an authorization code or the reason there is none.
type CallbackOutcome struct {
	Kind   OutcomeKind
	Code   string
	Reason string
}

// Err returns nil for [OutcomeCode] and a wrapped sentinel otherwise.
func (o CallbackOutcome) Err() error {
	switch o.Kind {
	case OutcomeCode:
		return nil
	case OutcomeTimeout:
		return fmt.Errorf("%w: %s", shared.ErrTimeout, o.Reason)
	default:
		return fmt.Errorf("%w: %s", shared.ErrCallbackFailed, o.Reason)
	}
}

// CallbackHandler answers the authorization server's redirect and settles the login outcome once.
type CallbackHandler struct {
	path     string
	state    string
	result   chan CallbackOutcome
	once     sync.Once
	mu       sync.Mutex
	settled  bool
	onSettle func(CallbackOutcome)
}

// NewCallbackHandler creates a handler for path.
//
// When state is non-empty the redirect must echo it back.
func NewCallbackHandler(path, state string) *CallbackHandler {
	return &CallbackHandler{
		path:   path,
		state:  state,
		result: make(chan CallbackOutcome, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// OnSettle registers fn to run after the outcome is settled. Must be called before serving.
func (h *CallbackHandler) OnSettle(fn func(CallbackOutcome)) {
	h.onSettle = fn
}

// ServeHTTP handles the redirect. Requests for any other path get a 404 and leave the outcome open.
//
// The page reflects the recorded outcome: a code that loses to a timeout is reported as a failure.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.path {
		http.NotFound(w, r)
		return
	}

	h.mu.Lock()
	if h.settled {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.settled = true
	h.mu.Unlock()

	outcome := h.evaluate(r)
	if !h.Settle(outcome) {
		renderPage(w, http.StatusBadRequest, lostPage)
		return
	}

	if outcome.Kind == OutcomeCode {
		renderPage(w, http.StatusOK, successPage)
	} else {
		renderPage(w, http.StatusBadRequest, failurePage(outcome.Reason))
	}
}

func (h *CallbackHandler) evaluate(r *http.Request) CallbackOutcome {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		reason := errParam
		if desc := q.Get("error_description"); desc != "" {
			reason = fmt.Sprintf("%s - %s", errParam, desc)
		}
		return CallbackOutcome{Kind: OutcomeFailure, Reason: "authorization denied: " + reason}
	}

	code := q.Get("code")
	if code == "" {
		return CallbackOutcome{Kind: OutcomeFailure, Reason: "missing authorization code"}
	}

	if h.state != "" && q.Get("state") != h.state {
		return CallbackOutcome{Kind: OutcomeFailure, Reason: "invalid state parameter"}
	}

	return CallbackOutcome{Kind: OutcomeCode, Code: code}
}

// Settle records outcome unless one was already recorded. It reports whether this call won.
func (h *CallbackHandler) Settle(outcome CallbackOutcome) bool {
	won := false
	h.once.Do(func() {
		won = true
		h.mu.Lock()
		h.settled = true
		h.mu.Unlock()

		h.result <- outcome
		close(h.result)
		if h.onSettle != nil {
			h.onSettle(outcome)
		}
	})
	return won
}

// Result returns the result channel.
//
// Channel will receive exactly one outcome and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackOutcome {
	return h.result
}

type page struct {
	Title   string
	Heading string
	Message string
	Class   string
}

var successPage = page{
	Title:   "Authorization Successful",
	Heading: "✓ Login complete",
	Message: "You can close this window and return to the terminal.",
	Class:   "ok",
}

var lostPage = page{
	Title:   "Authorization Failed",
	Heading: "✗ Callback already processed",
	Message: "The login timed out or was cancelled. Return to the terminal and try logging in again.",
	Class:   "fail",
}

func failurePage(reason string) page {
	return page{
		Title:   "Authorization Failed",
		Heading: "✗ Login failed",
		Message: fmt.Sprintf("%s. Return to the terminal and try logging in again.", reason),
		Class:   "fail",
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { margin: 0 0 1rem 0; }
        h1.ok { color: #1DB954; }
        h1.fail { color: #E22134; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1 class="{{.Class}}">{{.Heading}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, p)
}
