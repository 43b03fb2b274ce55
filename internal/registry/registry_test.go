package registry

import (
	"testing"

	"github.com/vovakirdan/tui-bullethell/internal/core"
)

type stubGame struct {
	id, title string
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return g.title }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return core.GameState{} }

func withEmptyRegistry(t *testing.T) {
	t.Helper()
	mu.Lock()
	savedF, savedT := factories, titles
	factories = make(map[string]Factory)
	titles = make(map[string]string)
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		factories, titles = savedF, savedT
		mu.Unlock()
	})
}

func TestRegisterAndCreate(t *testing.T) {
	withEmptyRegistry(t)

	Register("ranked", func() Game { return &stubGame{"ranked", "Ranked"} })
	Register("practice", func() Game { return &stubGame{"practice", "Practice"} })

	list := List()
	if len(list) != 2 || list[0].ID != "practice" || list[1].Title != "Ranked" {
		t.Errorf("List() = %+v, expected practice then ranked", list)
	}

	g, err := Create("ranked")
	if err != nil || g.ID() != "ranked" {
		t.Errorf("Create(ranked) = %v, %v", g, err)
	}
	if !Exists("practice") || Exists("missing") {
		t.Error("Exists mismatch")
	}
}

func TestCreateUnknown(t *testing.T) {
	withEmptyRegistry(t)

	if _, err := Create("missing"); err == nil {
		t.Error("expected error for unknown game")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	withEmptyRegistry(t)

	f := func() Game { return &stubGame{"practice", "Practice"} }
	Register("practice", f)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("practice", f)
}
