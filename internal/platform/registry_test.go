package platform

import (
	"slices"
	"sync"
	"testing"

	"github.com/jss-tech/pencil-design-system/internal/errors"
)

func TestDefault_Order(t *testing.T) {
	want := []string{ClaudeCode, Antigravity, Cursor, Windsurf, Codex}
	if got := Default().IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if got := len(Default().All()); got != len(want) {
		t.Errorf("len(All()) = %d, want %d", got, len(want))
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	e := &Editor{ID: "zed", Name: "Zed", SkillDir: Location{Project: ".zed/skills/pds"}}

	if err := r.Register(e); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(e); !errors.Is(err, ErrEditorAlreadyRegistered) {
		t.Errorf("Register() duplicate error = %v, want ErrEditorAlreadyRegistered", err)
	}

	invalid := []*Editor{nil, {Name: "no id"}, {ID: "no-skill-dir"}}
	for _, e := range invalid {
		if err := r.Register(e); !errors.Is(err, ErrInvalidEditor) {
			t.Errorf("Register(%+v) error = %v, want ErrInvalidEditor", e, err)
		}
	}
}

func TestRegistry_Resolve(t *testing.T) {
	known, unknown := Default().Resolve([]string{"windsurf", "vim", "claude-code", "windsurf", "emacs"})

	var ids []string
	for _, e := range known {
		ids = append(ids, e.ID)
	}
	if want := []string{ClaudeCode, Windsurf}; !slices.Equal(ids, want) {
		t.Errorf("known = %v, want %v (registry order, deduplicated)", ids, want)
	}
	if want := []string{"vim", "emacs"}; !slices.Equal(unknown, want) {
		t.Errorf("unknown = %v, want %v", unknown, want)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Register(&Editor{ID: string(rune('a' + i)), SkillDir: Location{Global: "x"}})
			_ = r.All()
		}()
	}
	wg.Wait()

	if got := len(r.IDs()); got != 10 {
		t.Errorf("len(IDs()) = %d, want 10", got)
	}
}
