// Package menu implements the interactive menu as a state machine that is independent of any terminal
// library.
//
// A [Prompter] supplies the user's choices and a [Machine] turns each [Action] into an [Effect]. [Run] loops
// until the user exits or an effect carries a fatal error.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/auth"
	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/desertthunder/spotcli/internal/shared"
)

// Action is a top-level menu choice.
type Action int

const (
	ActionTopTracks Action = iota
	ActionTopArtists
	ActionLogin
	ActionExit
)

// Actions lists the menu choices in display order.
var Actions = []Action{ActionTopTracks, ActionTopArtists, ActionLogin, ActionExit}

func (a Action) String() string {
	switch a {
	case ActionTopTracks:
		return "top-tracks"
	case ActionTopArtists:
		return "top-artists"
	case ActionLogin:
		return "login"
	case ActionExit:
		return "exit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Label is the menu text for a.
func (a Action) Label() string {
	switch a {
	case ActionTopTracks:
		return "View Top Tracks"
	case ActionTopArtists:
		return "View Top Artists"
	case ActionLogin:
		return "Login to Spotify"
	case ActionExit:
		return "Exit"
	default:
		return a.String()
	}
}

// ParseAction maps an action name to its [Action].
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: menu action %q", shared.ErrInvalidInput, s)
}

// Prompter collects the user's input for each step.
type Prompter interface {
	SelectAction(ctx context.Context) (Action, error)
	AskLimit(ctx context.Context, noun string, def int) (int, error)
	AskRange(ctx context.Context) (string, error)
}

// ErrAborted is returned by a [Prompter] when the user cancels a prompt (ctrl+c or esc).
var ErrAborted = errors.New("prompt aborted")

// Loginer performs an interactive login. [*auth.Authenticator] satisfies it.
type Loginer interface {
	Login(ctx context.Context) (*auth.CredentialPair, error)
}

// Effect is the result of dispatching one [Action].
type Effect struct {
	Output []byte // rendered result to show the user
	Err    error  // non-nil when the action failed
	Exit   bool   // the loop should stop
}

// Fatal reports whether the effect's error ends the process.
func (e Effect) Fatal() bool {
	return e.Err != nil && auth.IsFatal(e.Err)
}

// Machine dispatches menu actions to the login flow and the top-items service.
type Machine struct {
	prompter Prompter
	login    Loginer
	top      services.TopService
	logger   *log.Logger
}

// NewMachine creates a [Machine].
func NewMachine(p Prompter, login Loginer, top services.TopService, logger *log.Logger) *Machine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Machine{prompter: p, login: login, top: top, logger: shared.WithLogger(logger, "component", "menu")}
}

// Dispatch performs a single action. Errors are carried in the returned [Effect], never panicked or exited on.
func (m *Machine) Dispatch(ctx context.Context, a Action) Effect {
	m.logger.Debug("dispatch", "action", a)

	switch a {
	case ActionExit:
		return Effect{Exit: true}
	case ActionLogin:
		if _, err := m.login.Login(ctx); err != nil {
			return Effect{Err: err}
		}
		return Effect{Output: []byte("Logged in successfully!\n")}
	case ActionTopTracks:
		return m.topItems(ctx, "tracks", func(q services.TopQuery) ([]byte, error) {
			tracks, err := m.top.TopTracks(ctx, q)
			if err != nil {
				return nil, err
			}
			return formatter.TracksToText("Top Tracks", tracks), nil
		})
	case ActionTopArtists:
		return m.topItems(ctx, "artists", func(q services.TopQuery) ([]byte, error) {
			artists, err := m.top.TopArtists(ctx, q)
			if err != nil {
				return nil, err
			}
			return formatter.ArtistsToText("Top Artists", artists), nil
		})
	default:
		return Effect{Err: fmt.Errorf("%w: menu action %d", shared.ErrInvalidInput, int(a))}
	}
}

func (m *Machine) topItems(ctx context.Context, noun string, fetch func(services.TopQuery) ([]byte, error)) Effect {
	limit, err := m.prompter.AskLimit(ctx, noun, services.DefaultLimit)
	if err != nil {
		return Effect{Err: err}
	}
	rangeName, err := m.prompter.AskRange(ctx)
	if err != nil {
		return Effect{Err: err}
	}

	q, err := services.NewTopQuery(rangeName, limit)
	if err != nil {
		return Effect{Err: err}
	}

	out, err := fetch(q)
	if err != nil {
		return Effect{Err: err}
	}
	return Effect{Output: out}
}

// Run prompts for actions and dispatches them until the user exits.
//
// Output and non-fatal errors are written to out and the loop continues. A fatal error, or the user
// aborting the action prompt, ends the loop; only the fatal error is returned.
func Run(ctx context.Context, m *Machine, out io.Writer, report func(io.Writer, error)) error {
	if report == nil {
		report = func(w io.Writer, err error) { fmt.Fprintf(w, "Error: %v\n", err) }
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		action, err := m.prompter.SelectAction(ctx)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		effect := m.Dispatch(ctx, action)
		if len(effect.Output) > 0 {
			out.Write(effect.Output)
		}
		if effect.Err != nil {
			if effect.Fatal() {
				return effect.Err
			}
			if !errors.Is(effect.Err, ErrAborted) {
				report(out, effect.Err)
			}
		}
		if effect.Exit {
			return nil
		}
	}
}
