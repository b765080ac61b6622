package menu

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/spotcli/internal/auth"
	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/desertthunder/spotcli/internal/shared"
)

// scriptedPrompter replays a fixed sequence of answers.
type scriptedPrompter struct {
	actions []Action
	limits  []int
	ranges  []string
}

func (p *scriptedPrompter) SelectAction(context.Context) (Action, error) {
	if len(p.actions) == 0 {
		return 0, ErrAborted
	}
	a := p.actions[0]
	p.actions = p.actions[1:]
	return a, nil
}

func (p *scriptedPrompter) AskLimit(_ context.Context, _ string, def int) (int, error) {
	if len(p.limits) == 0 {
		return def, nil
	}
	n := p.limits[0]
	p.limits = p.limits[1:]
	return n, nil
}

func (p *scriptedPrompter) AskRange(context.Context) (string, error) {
	if len(p.ranges) == 0 {
		return "", ErrAborted
	}
	r := p.ranges[0]
	p.ranges = p.ranges[1:]
	return r, nil
}

type fakeLogin struct {
	calls int
	err   error
}

func (f *fakeLogin) Login(context.Context) (*auth.CredentialPair, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &auth.CredentialPair{Access: "A", Refresh: "R"}, nil
}

type fakeTop struct {
	queries []services.TopQuery
	err     error
}

func (f *fakeTop) TopTracks(_ context.Context, q services.TopQuery) ([]models.Track, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return []models.Track{{Rank: 1, Name: "Song", Artists: []string{"Band"}}}, nil
}

func (f *fakeTop) TopArtists(_ context.Context, q services.TopQuery) ([]models.Artist, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return []models.Artist{{Rank: 1, Name: "Band", Genres: []string{"rock"}}}, nil
}

func (f *fakeTop) Name() string { return "fake" }

func newTestMachine(p Prompter, login Loginer, top services.TopService) *Machine {
	return NewMachine(p, login, top, shared.NewLogger(io.Discard))
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("exit", func(t *testing.T) {
		m := newTestMachine(&scriptedPrompter{}, &fakeLogin{}, &fakeTop{})
		if effect := m.Dispatch(ctx, ActionExit); !effect.Exit || effect.Err != nil {
			t.Errorf("unexpected effect %+v", effect)
		}
	})

	t.Run("login", func(t *testing.T) {
		login := &fakeLogin{}
		m := newTestMachine(&scriptedPrompter{}, login, &fakeTop{})

		effect := m.Dispatch(ctx, ActionLogin)
		if effect.Err != nil || login.calls != 1 {
			t.Fatalf("unexpected effect %+v after %d calls", effect, login.calls)
		}
		if !strings.Contains(string(effect.Output), "Logged in") {
			t.Errorf("unexpected output %q", effect.Output)
		}
	})

	t.Run("login failure is not fatal", func(t *testing.T) {
		login := &fakeLogin{err: fmt.Errorf("%w: missing authorization code", shared.ErrCallbackFailed)}
		m := newTestMachine(&scriptedPrompter{}, login, &fakeTop{})

		effect := m.Dispatch(ctx, ActionLogin)
		if effect.Err == nil || effect.Fatal() || effect.Exit {
			t.Errorf("expected recoverable error, got %+v", effect)
		}
	})

	t.Run("top tracks with prompted parameters", func(t *testing.T) {
		top := &fakeTop{}
		m := newTestMachine(&scriptedPrompter{limits: []int{5}, ranges: []string{"short"}}, &fakeLogin{}, top)

		effect := m.Dispatch(ctx, ActionTopTracks)
		if effect.Err != nil {
			t.Fatalf("unexpected error: %v", effect.Err)
		}
		if len(top.queries) != 1 || top.queries[0] != (services.TopQuery{Range: services.ShortTerm, Limit: 5}) {
			t.Errorf("unexpected queries %+v", top.queries)
		}
		if !strings.Contains(string(effect.Output), "1. Song - Band") {
			t.Errorf("unexpected output %q", effect.Output)
		}
	})

	t.Run("top artists", func(t *testing.T) {
		top := &fakeTop{}
		m := newTestMachine(&scriptedPrompter{ranges: []string{"long"}}, &fakeLogin{}, top)

		effect := m.Dispatch(ctx, ActionTopArtists)
		if effect.Err != nil {
			t.Fatalf("unexpected error: %v", effect.Err)
		}
		if top.queries[0].Limit != services.DefaultLimit || top.queries[0].Range != services.LongTerm {
			t.Errorf("unexpected query %+v", top.queries[0])
		}
		if !strings.Contains(string(effect.Output), "1. Band (rock)") {
			t.Errorf("unexpected output %q", effect.Output)
		}
	})

	t.Run("invalid range makes no request", func(t *testing.T) {
		top := &fakeTop{}
		m := newTestMachine(&scriptedPrompter{ranges: []string{"bogus"}}, &fakeLogin{}, top)

		effect := m.Dispatch(ctx, ActionTopTracks)
		if !errors.Is(effect.Err, shared.ErrInvalidTimeRange) {
			t.Errorf("expected ErrInvalidTimeRange, got %v", effect.Err)
		}
		if len(top.queries) != 0 {
			t.Errorf("expected no request, got %d", len(top.queries))
		}
		if effect.Fatal() {
			t.Error("invalid range should not be fatal")
		}
	})

	t.Run("out of range limit makes no request", func(t *testing.T) {
		top := &fakeTop{}
		m := newTestMachine(&scriptedPrompter{limits: []int{0}, ranges: []string{"medium"}}, &fakeLogin{}, top)

		if effect := m.Dispatch(ctx, ActionTopArtists); !errors.Is(effect.Err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", effect.Err)
		}
		if len(top.queries) != 0 {
			t.Errorf("expected no request, got %d", len(top.queries))
		}
	})

	t.Run("no credentials is fatal", func(t *testing.T) {
		top := &fakeTop{err: fmt.Errorf("%w: tokens.json", shared.ErrNoCredentials)}
		m := newTestMachine(&scriptedPrompter{ranges: []string{"medium"}}, &fakeLogin{}, top)

		if effect := m.Dispatch(ctx, ActionTopTracks); !effect.Fatal() {
			t.Errorf("expected fatal effect, got %+v", effect)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		m := newTestMachine(&scriptedPrompter{}, &fakeLogin{}, &fakeTop{})
		if effect := m.Dispatch(ctx, Action(99)); !errors.Is(effect.Err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", effect.Err)
		}
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("continues after recoverable errors", func(t *testing.T) {
		top := &fakeTop{}
		p := &scriptedPrompter{
			actions: []Action{ActionTopTracks, ActionTopTracks, ActionExit},
			ranges:  []string{"bogus", "medium"},
		}
		var out bytes.Buffer

		if err := Run(ctx, newTestMachine(p, &fakeLogin{}, top), &out, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(top.queries) != 1 {
			t.Errorf("expected one request after the invalid range, got %d", len(top.queries))
		}
		if !strings.Contains(out.String(), "Error: invalid time range") {
			t.Errorf("expected error to be reported, got %q", out.String())
		}
		if !strings.Contains(out.String(), "1. Song - Band") {
			t.Errorf("expected second request output, got %q", out.String())
		}
	})

	t.Run("stops on fatal error", func(t *testing.T) {
		top := &fakeTop{err: shared.ErrNoCredentials}
		p := &scriptedPrompter{actions: []Action{ActionTopArtists, ActionExit}, ranges: []string{"short"}}

		err := Run(ctx, newTestMachine(p, &fakeLogin{}, top), io.Discard, nil)
		if !errors.Is(err, shared.ErrNoCredentials) {
			t.Errorf("expected ErrNoCredentials, got %v", err)
		}
		if len(p.actions) != 1 {
			t.Error("loop should stop before the next prompt")
		}
	})

	t.Run("aborted action prompt exits cleanly", func(t *testing.T) {
		if err := Run(ctx, newTestMachine(&scriptedPrompter{}, &fakeLogin{}, &fakeTop{}), io.Discard, nil); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("aborted parameter prompt returns to menu", func(t *testing.T) {
		top := &fakeTop{}
		p := &scriptedPrompter{actions: []Action{ActionTopTracks, ActionExit}}
		var out bytes.Buffer

		if err := Run(ctx, newTestMachine(p, &fakeLogin{}, top), &out, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no output for aborted prompt, got %q", out.String())
		}
	})

	t.Run("custom reporter", func(t *testing.T) {
		login := &fakeLogin{err: fmt.Errorf("%w: status 400", shared.ErrTokenExchange)}
		p := &scriptedPrompter{actions: []Action{ActionLogin, ActionExit}}

		var reported []error
		err := Run(ctx, newTestMachine(p, login, &fakeTop{}), io.Discard, func(_ io.Writer, err error) {
			reported = append(reported, err)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reported) != 1 || !errors.Is(reported[0], shared.ErrTokenExchange) {
			t.Errorf("unexpected reports %v", reported)
		}
	})
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%s) = %v, %v", a, got, err)
		}
		if a.Label() == "" {
			t.Errorf("missing label for %s", a)
		}
	}
	if _, err := ParseAction("playback"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
