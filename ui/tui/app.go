package tui

import (
	"context"
	"image"
	"math"
	"time"

	"pokedoke/internal/imageloader"
	"pokedoke/internal/logger"
	"pokedoke/internal/model"
	"pokedoke/internal/palette"
	"pokedoke/internal/viewstate"
	"pokedoke/ui/tui/components"
	"pokedoke/ui/tui/state"
	"pokedoke/ui/tui/styles"
	"pokedoke/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	zone "github.com/lrstanley/bubblezone"
)

// DataSource streams view states for both screens.
type DataSource interface {
	FetchSummaries(ctx context.Context) <-chan viewstate.State[[]model.PokemonSummary]
	FetchDetail(ctx context.Context, name string) <-chan viewstate.State[model.PokemonDetail]
}

// ImageSource loads artwork and runs hooks on the decoded image.
type ImageSource interface {
	Load(ctx context.Context, url string, hooks ...imageloader.Hook) (image.Image, error)
}

const (
	thumbCols, thumbRows   = 12, 6
	spriteCols, spriteRows = 28, 14
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	data   DataSource
	images ImageSource
	clock  func() time.Time

	state   state.AppState
	spinner spinner.Model

	cursor     int
	animCursor float64
	velocity   float64 // Physics velocity
	spring     harmonica.Spring
	animating  bool

	tints   map[int]*palette.Tint
	cardArt map[int]string

	listCancel   context.CancelFunc
	listGen      int
	detailCancel context.CancelFunc
	detailGen    int
	detailArt    string
	bars         []*components.StatBar
	chart        *components.StatChart
	showChart    bool
	viewport     viewport.Model

	hover    int // card under the mouse, -1 for none
	quitting bool
	width    int
	height   int
}

// Messages
type AnimateMsg time.Time

// SummariesMsg carries one list state and the stream it came from. Gen ties
// it to the refresh that asked.
type SummariesMsg struct {
	Gen   int
	State viewstate.State[[]model.PokemonSummary]
	next  <-chan viewstate.State[[]model.PokemonSummary]
}

// DetailMsg carries one detail state. Gen ties it to the page that asked.
type DetailMsg struct {
	Gen   int
	State viewstate.State[model.PokemonDetail]
	next  <-chan viewstate.State[model.PokemonDetail]
}

type CardImageMsg struct {
	ID    int
	Img   image.Image
	Color colorful.Color
	OK    bool
}

type DetailImageMsg struct {
	Gen int
	Img image.Image
}

func InitialModel(data DataSource, images ImageSource) MainModel {
	zone.NewGlobal()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	return MainModel{
		data:     data,
		images:   images,
		clock:    time.Now,
		spinner:  s,
		spring:   spring,
		hover:    -1,
		tints:    make(map[int]*palette.Tint),
		cardArt:  make(map[int]string),
		chart:    components.NewStatChart(40, 10),
		viewport: viewport.New(80, 20),
		state: state.AppState{
			CurrentPage: state.PageList,
			List:        viewstate.Loading[[]model.PokemonSummary](),
			Detail:      viewstate.Loading[model.PokemonDetail](),
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetchSummaries(),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func waitSummaries(gen int, ch <-chan viewstate.State[[]model.PokemonSummary]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return SummariesMsg{Gen: gen, State: s, next: ch}
	}
}

func waitDetail(gen int, ch <-chan viewstate.State[model.PokemonDetail]) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return DetailMsg{Gen: gen, State: s, next: ch}
	}
}

func loadCardImageCmd(ctx context.Context, src ImageSource, id int, url string) tea.Cmd {
	return func() tea.Msg {
		msg := CardImageMsg{ID: id}
		hook := palette.Hook(func(c colorful.Color, ok bool) {
			msg.Color, msg.OK = c, ok
		})
		img, err := src.Load(ctx, url, hook)
		if err != nil {
			logger.Debug.Printf("card %d artwork: %v", id, err)
			return msg
		}
		msg.Img = img
		return msg
	}
}

func loadDetailImageCmd(ctx context.Context, src ImageSource, gen int, url string) tea.Cmd {
	return func() tea.Msg {
		img, err := src.Load(ctx, url)
		if err != nil {
			logger.Debug.Printf("detail artwork: %v", err)
			return nil
		}
		return DetailImageMsg{Gen: gen, Img: img}
	}
}

func (m *MainModel) fetchSummaries() tea.Cmd {
	if m.listCancel != nil {
		m.listCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.listCancel = cancel
	m.listGen++
	m.state.ListNoticeDismissed = false
	return waitSummaries(m.listGen, m.data.FetchSummaries(ctx))
}

func (m *MainModel) fetchDetail() tea.Cmd {
	if m.detailCancel != nil {
		m.detailCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.detailCancel = cancel
	m.detailGen++
	m.state.DetailNoticeDismissed = false

	cmds := []tea.Cmd{waitDetail(m.detailGen, m.data.FetchDetail(ctx, m.state.Selection.Name))}
	if m.detailArt == "" && m.state.Selection.ImageURL != "" {
		cmds = append(cmds, loadDetailImageCmd(ctx, m.images, m.detailGen, m.state.Selection.ImageURL))
	}
	return tea.Batch(cmds...)
}

func (m *MainModel) startAnimation() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return animateCmd()
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case SummariesMsg:
		return m.handleSummariesMsg(msg)

	case DetailMsg:
		return m.handleDetailMsg(msg)

	case CardImageMsg:
		return m.handleCardImageMsg(msg)

	case DetailImageMsg:
		if msg.Gen == m.detailGen && m.state.CurrentPage == state.PageDetail {
			m.detailArt = components.RenderSprite(msg.Img, spriteCols, spriteRows)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.listCancel != nil {
			m.listCancel()
		}
		if m.detailCancel != nil {
			m.detailCancel()
		}
		return m, tea.Quit
	}

	if m.state.CurrentPage == state.PageList {
		return m.handleListKey(msg)
	}
	return m.handleDetailKey(msg)
}

func (m *MainModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.List.Kind() == viewstate.KindError && !m.state.ListNoticeDismissed {
		switch msg.String() {
		case "x", "enter":
			m.state.ListNoticeDismissed = true
			return m, nil
		}
	}

	list, _ := m.state.List.Data()
	moveTo := func(i int) (tea.Model, tea.Cmd) {
		if i < 0 || i >= len(list) {
			return m, nil
		}
		m.cursor = i
		return m, m.startAnimation()
	}

	switch msg.String() {
	case "up", "k":
		return moveTo(m.cursor - views.Columns)
	case "down", "j":
		return moveTo(m.cursor + views.Columns)
	case "left", "h":
		return moveTo(m.cursor - 1)
	case "right", "l":
		return moveTo(m.cursor + 1)
	case "enter":
		if m.cursor < len(list) {
			return m, m.open(list[m.cursor])
		}
	case "r":
		return m, m.fetchSummaries()
	}
	return m, nil
}

func (m *MainModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Detail.Kind() == viewstate.KindError && !m.state.DetailNoticeDismissed {
		switch msg.String() {
		case "x", "enter":
			m.state.DetailNoticeDismissed = true
			return m, nil
		}
	}

	switch msg.String() {
	case "b", "esc", "backspace":
		m.back()
		return m, nil
	case "c":
		m.showChart = !m.showChart
		return m, nil
	case "r":
		return m, m.fetchDetail()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// open switches to the detail page for p and starts its fetch.
func (m *MainModel) open(p model.PokemonSummary) tea.Cmd {
	m.state.CurrentPage = state.PageDetail
	m.state.Selection = state.Selection{Name: p.Name, ImageURL: p.ImageURL}
	m.state.Detail = viewstate.Loading[model.PokemonDetail]()
	m.detailArt = ""
	m.bars = nil
	m.showChart = false
	m.viewport.GotoTop()
	return m.fetchDetail()
}

func (m *MainModel) back() {
	if m.detailCancel != nil {
		m.detailCancel()
		m.detailCancel = nil
	}
	m.detailGen++
	m.state.CurrentPage = state.PageList
	m.state.Detail = viewstate.Loading[model.PokemonDetail]()
	m.bars = nil
	m.detailArt = ""
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	m.animCursor, m.velocity = m.spring.Update(m.animCursor, m.velocity, float64(m.cursor))

	settled := math.Abs(m.animCursor-float64(m.cursor)) < 0.001 && math.Abs(m.velocity) < 0.001
	now := m.clock()
	for _, b := range m.bars {
		if !b.Done(now) {
			settled = false
			break
		}
	}
	if settled {
		m.animCursor = float64(m.cursor)
		m.velocity = 0
		m.animating = false
		return m, nil
	}
	m.animating = true
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-2, 1)
	for _, b := range m.bars {
		b.Resize(msg.Width - 4)
	}
	if newW := msg.Width - 8; newW > 10 {
		m.chart.Resize(newW, 10)
	}
	return m, nil
}

func (m *MainModel) handleSummariesMsg(msg SummariesMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.listGen {
		return m, nil
	}
	m.state.List = msg.State
	if !msg.State.Terminal() {
		return m, waitSummaries(msg.Gen, msg.next)
	}

	list, ok := msg.State.Data()
	if !ok {
		return m, nil
	}
	if m.cursor >= len(list) {
		m.cursor = max(len(list)-1, 0)
	}

	var cmds []tea.Cmd
	ctx := context.Background()
	for _, p := range list {
		if _, seen := m.tints[p.ID]; seen {
			continue
		}
		m.tints[p.ID] = &palette.Tint{}
		cmds = append(cmds, loadCardImageCmd(ctx, m.images, p.ID, p.ImageURL))
	}
	return m, tea.Batch(cmds...)
}

func (m *MainModel) handleDetailMsg(msg DetailMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.detailGen {
		return m, nil
	}
	m.state.Detail = msg.State
	if !msg.State.Terminal() {
		return m, waitDetail(msg.Gen, msg.next)
	}

	d, ok := msg.State.Data()
	if !ok {
		return m, nil
	}

	now := m.clock()
	stats := d.Stats()
	if len(m.bars) != len(stats) {
		m.bars = make([]*components.StatBar, len(stats))
		for i, s := range stats {
			m.bars[i] = components.NewStatBar(s, styles.StatColors[i%len(styles.StatColors)], max(m.width-4, 40), now)
		}
	} else {
		for i, s := range stats {
			m.bars[i].Set(s.Value, s.Max, now)
		}
	}
	m.chart.Push(stats)
	return m, m.startAnimation()
}

func (m *MainModel) handleCardImageMsg(msg CardImageMsg) (tea.Model, tea.Cmd) {
	tint, ok := m.tints[msg.ID]
	if !ok {
		tint = &palette.Tint{}
		m.tints[msg.ID] = tint
	}
	tint.Apply(msg.Color, msg.OK)
	if msg.Img != nil {
		m.cardArt[msg.ID] = components.RenderSprite(msg.Img, thumbCols, thumbRows)
	}
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state.CurrentPage == state.PageDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	list, _ := m.state.List.Data()
	m.hover = m.cardAt(msg, len(list))

	if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft && m.hover >= 0 {
		m.cursor = m.hover
		return m, tea.Batch(m.startAnimation(), m.open(list[m.hover]))
	}
	return m, nil
}

// cardAt returns the index of the card under the mouse, or -1.
func (m *MainModel) cardAt(msg tea.MouseMsg, n int) int {
	for i := 0; i < n; i++ {
		if zone.Get(views.CardZone(i)).InBounds(msg) {
			return i
		}
	}
	return -1
}

func (m *MainModel) props() views.ViewProps {
	now := m.clock()
	props := views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		Hover:       m.hover,
		Cursor:      m.cursor,
		AnimCursor:  m.animCursor,
		Tints:       make(map[int]string, len(m.tints)),
		CardArt:     m.cardArt,
		SpriteView:  m.detailArt,
		ShowChart:   m.showChart,
		ChartView:   m.chart.View(),
		SpinnerView: m.spinner.View(),
	}
	for id, t := range m.tints {
		if hex := t.Hex(); hex != "" {
			props.Tints[id] = hex
		}
	}
	for _, b := range m.bars {
		props.BarViews = append(props.BarViews, b.View(now))
	}
	return props
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := m.props()
	switch m.state.CurrentPage {
	case state.PageDetail:
		if d, ok := m.state.Detail.Data(); ok {
			m.viewport.SetContent(views.DetailBody(d, props))
			props.ViewportView = m.viewport.View()
		}
		return views.RenderDetail(m.state, props)
	default:
		return views.RenderList(m.state, props)
	}
}

func Start(data DataSource, images ImageSource) error {
	m := InitialModel(data, images)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
