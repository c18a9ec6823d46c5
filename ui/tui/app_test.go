package tui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"pokedoke/internal/anim"
	"pokedoke/internal/imageloader"
	"pokedoke/internal/model"
	"pokedoke/internal/viewstate"
	"pokedoke/ui/tui/state"

	tea "github.com/charmbracelet/bubbletea"
)

var bulbasaur = model.PokemonDetail{
	ID: 1, Name: "bulbasaur", Height: 7, Weight: 69,
	HP: 45, Attack: 49, Defense: 49, Speed: 45, Experience: 64,
	Types: []model.Type{"grass", "poison"},
}

// MockDataSource for testing
type MockDataSource struct {
	mu       sync.Mutex
	requests []string
	detail   viewstate.State[model.PokemonDetail]
}

func (m *MockDataSource) FetchSummaries(ctx context.Context) <-chan viewstate.State[[]model.PokemonSummary] {
	ch := make(chan viewstate.State[[]model.PokemonSummary], 2)
	ch <- viewstate.Loading[[]model.PokemonSummary]()
	ch <- viewstate.Success([]model.PokemonSummary{{ID: 1, Name: "bulbasaur", ImageURL: model.ArtworkURL(1)}})
	close(ch)
	return ch
}

func (m *MockDataSource) FetchDetail(ctx context.Context, name string) <-chan viewstate.State[model.PokemonDetail] {
	m.mu.Lock()
	m.requests = append(m.requests, name)
	m.mu.Unlock()
	ch := make(chan viewstate.State[model.PokemonDetail], 2)
	ch <- viewstate.Loading[model.PokemonDetail]()
	ch <- m.detail
	close(ch)
	return ch
}

type MockImageSource struct{}

func (MockImageSource) Load(ctx context.Context, url string, hooks ...imageloader.Hook) (image.Image, error) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 0x78, G: 0xC8, B: 0x50, A: 0xff})
	for _, h := range hooks {
		h(img)
	}
	return img, nil
}

type failingImages struct{}

func (failingImages) Load(ctx context.Context, url string, hooks ...imageloader.Hook) (image.Image, error) {
	return nil, errors.New("offline")
}

func newTestModel(data *MockDataSource) (*MainModel, *time.Time) {
	model := InitialModel(data, MockImageSource{})
	now := time.Unix(1_700_000_000, 0)
	model.clock = func() time.Time { return now }
	model.width, model.height = 100, 40
	return &model, &now
}

func press(m *MainModel, key string) (*MainModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(*MainModel), cmd
}

func loadList(m *MainModel, list []model.PokemonSummary) {
	m.Update(SummariesMsg{State: viewstate.Success(list)})
}

func TestListRendersCardLabel(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur", ImageURL: model.ArtworkURL(1)}})

	out := m.View()
	if n := strings.Count(out, "BULBASAUR"); n != 1 {
		t.Errorf("expected exactly one BULBASAUR label, got %d", n)
	}
}

func TestSummariesStreamReachesSuccess(t *testing.T) {
	data := &MockDataSource{}
	m, _ := newTestModel(data)

	ch := data.FetchSummaries(context.Background())
	msg := waitSummaries(m.listGen, ch)()
	if msg.(SummariesMsg).State.Kind() != viewstate.KindLoading {
		t.Fatalf("first state should be Loading")
	}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("a Loading state should wait for the next one")
	}
	m.Update(cmd())
	if m.state.List.Kind() != viewstate.KindSuccess {
		t.Errorf("expected Success, got %v", m.state.List)
	}
}

func TestEnterOpensDetail(t *testing.T) {
	data := &MockDataSource{detail: viewstate.Success(bulbasaur)}
	m, _ := newTestModel(data)
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur", ImageURL: model.ArtworkURL(1)}})

	m, _ = press(m, "enter")

	if m.state.CurrentPage != state.PageDetail {
		t.Fatalf("Expected PageDetail, got %v", m.state.CurrentPage)
	}
	if len(data.requests) != 1 || data.requests[0] != "bulbasaur" {
		t.Errorf("expected one detail request for bulbasaur, got %v", data.requests)
	}
	if m.state.Selection.ImageURL != model.ArtworkURL(1) {
		t.Errorf("selection should carry the image url, got %q", m.state.Selection.ImageURL)
	}
}

func TestStatBarsAnimateToFraction(t *testing.T) {
	data := &MockDataSource{detail: viewstate.Success(bulbasaur)}
	m, now := newTestModel(data)
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}})
	m, _ = press(m, "enter")

	m.Update(DetailMsg{Gen: m.detailGen, State: viewstate.Success(bulbasaur)})
	if len(m.bars) != 5 {
		t.Fatalf("expected 5 stat bars, got %d", len(m.bars))
	}

	hp := m.bars[0]
	if math.Abs(hp.Target()-0.176) > 0.001 {
		t.Errorf("HP target = %f; want ~0.176", hp.Target())
	}
	if hp.Fraction(*now) != 0 {
		t.Errorf("HP bar should start at 0, got %f", hp.Fraction(*now))
	}

	*now = now.Add(anim.StatDelay + anim.StatDuration)
	if math.Abs(hp.Fraction(*now)-45.0/255.0) > 1e-9 {
		t.Errorf("HP bar should settle at 45/255, got %f", hp.Fraction(*now))
	}

	// An identical refresh keeps the settled bars instead of replaying them.
	m.Update(DetailMsg{Gen: m.detailGen, State: viewstate.Success(bulbasaur)})
	if m.bars[0] != hp || hp.Fraction(*now) != hp.Target() {
		t.Error("unchanged stats should not restart the bars")
	}
}

func TestStaleDetailIsDropped(t *testing.T) {
	data := &MockDataSource{detail: viewstate.Success(bulbasaur)}
	m, _ := newTestModel(data)
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}})
	m, _ = press(m, "enter")

	m.Update(DetailMsg{Gen: m.detailGen - 1, State: viewstate.Success(bulbasaur)})
	if m.state.Detail.Kind() != viewstate.KindLoading {
		t.Errorf("stale detail applied: %v", m.state.Detail)
	}
}

func TestViewShowsExactlyOneBranch(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})

	out := m.View()
	if !strings.Contains(out, "Loading") || strings.Contains(out, "dismiss") {
		t.Errorf("loading view wrong: %q", out)
	}

	m.Update(SummariesMsg{State: viewstate.Error[[]model.PokemonSummary]("network error: offline")})
	out = m.View()
	if !strings.Contains(out, "network error: offline") || strings.Contains(out, "Loading") {
		t.Errorf("error view wrong: %q", out)
	}

	loadList(m, []model.PokemonSummary{{ID: 25, Name: "pikachu"}})
	out = m.View()
	if !strings.Contains(out, "PIKACHU") || strings.Contains(out, "network error") || strings.Contains(out, "Loading") {
		t.Errorf("success view wrong: %q", out)
	}
}

func TestErrorNoticeDismiss(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	m.Update(SummariesMsg{State: viewstate.Error[[]model.PokemonSummary]("pokemon not found")})

	m, _ = press(m, "x")
	if !m.state.ListNoticeDismissed {
		t.Fatal("x should dismiss the notice")
	}
	if strings.Contains(m.View(), "pokemon not found") {
		t.Error("dismissed notice still shown")
	}

	// Retrying brings the notice back for the next failure.
	m, cmd := press(m, "r")
	if cmd == nil || m.state.ListNoticeDismissed {
		t.Error("r should refetch and reset the dismissal")
	}
}

func TestBackNavigation(t *testing.T) {
	data := &MockDataSource{detail: viewstate.Success(bulbasaur)}
	m, _ := newTestModel(data)
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}})
	m, _ = press(m, "enter")
	m.Update(DetailMsg{Gen: m.detailGen, State: viewstate.Success(bulbasaur)})

	m, _ = press(m, "b")
	if m.state.CurrentPage != state.PageList {
		t.Errorf("Expected PageList after back, got %v", m.state.CurrentPage)
	}
	if m.bars != nil {
		t.Error("leaving the detail page should drop its bars")
	}
}

func TestChartToggle(t *testing.T) {
	data := &MockDataSource{detail: viewstate.Success(bulbasaur)}
	m, _ := newTestModel(data)
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}})
	m, _ = press(m, "enter")
	m.Update(DetailMsg{Gen: m.detailGen, State: viewstate.Success(bulbasaur)})

	m, _ = press(m, "c")
	if !m.showChart {
		t.Error("c should show the chart")
	}
	m, _ = press(m, "c")
	if m.showChart {
		t.Error("c should hide the chart again")
	}
}

func TestGridNavigation(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	loadList(m, []model.PokemonSummary{
		{ID: 1, Name: "bulbasaur"}, {ID: 2, Name: "ivysaur"},
		{ID: 4, Name: "charmander"}, {ID: 7, Name: "squirtle"},
	})

	m, _ = press(m, "right")
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1 after Right, got %d", m.cursor)
	}
	m, _ = press(m, "down")
	if m.cursor != 3 {
		t.Errorf("Expected cursor 3 after Down, got %d", m.cursor)
	}
	m, _ = press(m, "down")
	if m.cursor != 3 {
		t.Errorf("cursor should not leave the grid, got %d", m.cursor)
	}
	m, _ = press(m, "up")
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1 after Up, got %d", m.cursor)
	}
}

func TestCursorAnimationLogic(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	m.cursor = 1

	animateMsg := AnimateMsg(time.Now())
	updated, cmd := m.Update(animateMsg)
	m = updated.(*MainModel)
	if m.animCursor <= 0 || m.animCursor >= 1.0 {
		t.Errorf("Expected animCursor between 0 and 1 after one frame, got %f", m.animCursor)
	}
	if cmd == nil {
		t.Error("animation should keep ticking while moving")
	}

	prev := m.animCursor
	m.Update(animateMsg)
	if m.animCursor <= prev {
		t.Errorf("Expected animCursor to keep increasing, got %f (prev %f)", m.animCursor, prev)
	}

	for i := 0; i < 600 && m.animating; i++ {
		m.Update(animateMsg)
	}
	if m.animating || m.animCursor != 1 {
		t.Errorf("spring should settle on the cursor, got %f animating=%v", m.animCursor, m.animating)
	}
}

func TestCardImageTintsCard(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur", ImageURL: model.ArtworkURL(1)}})

	msg := loadCardImageCmd(context.Background(), MockImageSource{}, 1, model.ArtworkURL(1))()
	m.Update(msg)
	if m.tints[1].Hex() != "#ffffff" {
		t.Errorf("expected white dominant tint, got %q", m.tints[1].Hex())
	}
	if m.cardArt[1] == "" {
		t.Error("card thumbnail should be rendered")
	}

	// A failed load keeps the previous tint.
	msg = loadCardImageCmd(context.Background(), failingImages{}, 1, model.ArtworkURL(1))()
	m.Update(msg)
	if m.tints[1].Hex() != "#ffffff" {
		t.Errorf("failed load changed tint to %q", m.tints[1].Hex())
	}
}

func TestStaleListIsDropped(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	oldGen := m.listGen

	m, cmd := press(m, "r")
	if cmd == nil || m.listGen == oldGen {
		t.Fatal("r should start a new list generation")
	}
	loadList(m, []model.PokemonSummary{{ID: 25, Name: "pikachu"}})

	// The cancelled fetch still delivers its terminal state afterwards.
	m.Update(SummariesMsg{Gen: oldGen, State: viewstate.Error[[]model.PokemonSummary]("network error: timeout")})
	if m.state.List.Kind() != viewstate.KindSuccess {
		t.Errorf("stale list state applied: %v", m.state.List)
	}
}

func TestSpringSettlesAfterCursorMove(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}, {ID: 2, Name: "ivysaur"}})

	m, cmd := press(m, "right")
	if cmd == nil || !m.animating {
		t.Fatal("moving the cursor should start the animation")
	}

	frames := 0
	for ; frames < 3000 && m.animating; frames++ {
		m.Update(AnimateMsg(time.Now()))
		if math.IsNaN(m.animCursor) || math.IsNaN(m.velocity) {
			t.Fatalf("spring diverged at frame %d", frames)
		}
	}
	if m.animating {
		t.Fatalf("animation still running after %d frames (animCursor=%f)", frames, m.animCursor)
	}
	if m.animCursor != 1 || m.velocity != 0 {
		t.Errorf("spring should rest on the cursor, got pos %f vel %f", m.animCursor, m.velocity)
	}
}

func TestHoverTracksMouse(t *testing.T) {
	m, _ := newTestModel(&MockDataSource{})
	loadList(m, []model.PokemonSummary{{ID: 1, Name: "bulbasaur"}})

	if m.props().Hover != -1 {
		t.Errorf("Expected no hover initially, got %d", m.props().Hover)
	}

	m.hover = 0
	if m.props().Hover != 0 {
		t.Errorf("Expected hover 0 in props, got %d", m.props().Hover)
	}

	// Motion over no card clears the hover.
	updated, _ := m.Update(tea.MouseMsg{X: 500, Y: 500, Action: tea.MouseActionMotion})
	m = updated.(*MainModel)
	if m.hover != -1 {
		t.Errorf("Expected hover cleared, got %d", m.hover)
	}
}
