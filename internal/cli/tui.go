package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/buildinfo"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
)

// Canvas styles
var (
	canvasBlockStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	canvasSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	canvasHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
	canvasErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	// headerRows is the number of terminal rows above the canvas.
	headerRows = 2
	// footerRows is the number of terminal rows below the canvas.
	footerRows = 1

	minCanvasCols = 40
	maxCanvasCols = 160

	// redrawInterval paces redraws while positions change off the event loop.
	redrawInterval = 50 * time.Millisecond
)

// =============================================================================
// canvasView - cell/pixel mapping
// =============================================================================

// canvasView maps terminal cells to canvas pixels. A terminal cell is about
// twice as tall as it is wide, so one row spans two columns' worth of pixels.
type canvasView struct {
	cols   int
	scaleX float64 // canvas pixels per column
	scaleY float64 // canvas pixels per row
	scroll int     // first canvas row on screen
}

func newCanvasView(canvasWidth float64, termWidth, scroll int) canvasView {
	cols := min(max(termWidth, minCanvasCols), maxCanvasCols)
	sx := canvasWidth / float64(cols)
	return canvasView{cols: cols, scaleX: sx, scaleY: 2 * sx, scroll: scroll}
}

// point returns the canvas point at the center of the on-screen cell (col, row).
func (v canvasView) point(col, row int) geom.Point {
	return geom.Point{
		X: (float64(col) + 0.5) * v.scaleX,
		Y: (float64(row+v.scroll) + 0.5) * v.scaleY,
	}
}

// cells returns the canvas cell rectangle of bp: the cells whose centers lie
// inside it, at least one cell wide and tall.
func (v canvasView) cells(bp geom.BlockPosition) (x0, y0, x1, y1 int) {
	x0 = int(math.Ceil(bp.X/v.scaleX - 0.5))
	x1 = max(int(math.Floor(bp.Right()/v.scaleX-0.5)), x0)
	y0 = int(math.Ceil(bp.Y/v.scaleY - 0.5))
	y1 = max(int(math.Floor(bp.Bottom()/v.scaleY-0.5)), y0)
	return x0, y0, x1, y1
}

// rows returns the number of canvas rows for a canvas height.
func (v canvasView) rows(height float64) int {
	return int(math.Ceil(height / v.scaleY))
}

// grid draws blocks, in paint order, onto a rows x cols character grid.
// marks[y][x] is true where the selected block was drawn.
func (v canvasView) grid(blocks []geom.BlockPosition, selected string, rows int) (cells [][]rune, marks [][]bool) {
	cells = make([][]rune, rows)
	marks = make([][]bool, rows)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", v.cols))
		marks[y] = make([]bool, v.cols)
	}
	set := func(x, y int, r rune, sel bool) {
		if y >= 0 && y < rows && x >= 0 && x < v.cols {
			cells[y][x] = r
			marks[y][x] = sel
		}
	}

	for _, bp := range blocks {
		x0, y0, x1, y1 := v.cells(bp)
		sel := bp.ID == selected
		h, vt, tl, tr, bl, br := '─', '│', '╭', '╮', '╰', '╯'
		if sel {
			h, vt, tl, tr, bl, br = '━', '┃', '┏', '┓', '┗', '┛'
		}
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				r := ' '
				switch {
				case y == y0 && x == x0:
					r = tl
				case y == y0 && x == x1:
					r = tr
				case y == y1 && x == x0:
					r = bl
				case y == y1 && x == x1:
					r = br
				case y == y0 || y == y1:
					r = h
				case x == x0 || x == x1:
					r = vt
				}
				set(x, y, r, sel)
			}
		}
		if y1-y0 >= 2 {
			for i, r := range []rune(bp.ID) {
				if x0+1+i >= x1 {
					break
				}
				set(x0+1+i, y0+1, r, sel)
			}
		}
	}
	return cells, marks
}

// render returns the visible canvas lines, styled.
func (v canvasView) render(blocks []geom.BlockPosition, selected string, totalRows, visible int) []string {
	cells, marks := v.grid(blocks, selected, totalRows)
	end := min(v.scroll+visible, totalRows)
	lines := make([]string, 0, visible)
	for y := v.scroll; y < end; y++ {
		var b strings.Builder
		start := 0
		for x := 1; x <= v.cols; x++ {
			if x < v.cols && marks[y][x] == marks[y][start] {
				continue
			}
			run := string(cells[y][start:x])
			if marks[y][start] {
				b.WriteString(canvasSelectedStyle.Render(run))
			} else {
				b.WriteString(canvasBlockStyle.Render(run))
			}
			start = x
		}
		lines = append(lines, b.String())
	}
	return lines
}

// =============================================================================
// editModel - interactive canvas editing
// =============================================================================

type redrawMsg struct{}

func redraw() tea.Cmd {
	return tea.Tick(redrawInterval, func(time.Time) tea.Msg { return redrawMsg{} })
}

// editModel is the bubbletea model of the edit command. Mouse presses are hit
// tested against the board and start drags or resizes; motion and release
// events are relayed to the gesture controller.
type editModel struct {
	board *board.Board
	relay *gesture.Relay
	path  string

	width  int
	height int
	scroll int

	saved  uint64 // store revision at the last save
	status string
	err    error
}

func newEditModel(b *board.Board, relay *gesture.Relay, path string) editModel {
	return editModel{board: b, relay: relay, path: path, width: 100, height: 40, saved: b.Store().Revision()}
}

// dirty reports whether positions changed since the layout was opened or saved.
func (m editModel) dirty() bool {
	return m.board.Store().Revision() != m.saved
}

func (m editModel) Init() tea.Cmd {
	return redraw()
}

func (m editModel) view() canvasView {
	cfg, _ := m.board.Canvas(m.board.Viewport())
	return newCanvasView(cfg.Width, m.width, m.scroll)
}

func (m editModel) visibleRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case redrawMsg:
		return m, redraw()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		return m.mouse(msg), nil
	}
	return m, nil
}

func (m editModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.dirty() {
			m = m.save()
		}
		return m, tea.Quit
	case "s":
		m = m.save()
	case "tab":
		next := geom.Viewports[0]
		for i, vp := range geom.Viewports {
			if vp == m.board.Viewport() {
				next = geom.Viewports[(i+1)%len(geom.Viewports)]
			}
		}
		if err := m.board.SwitchViewport(next); err != nil {
			m.err = err
			break
		}
		m.scroll = 0
		m.status = "viewport " + next.String()
	case "f":
		if id := m.board.Selected(); id != "" && m.board.BringToFront(id) {
			m.status = id + " brought to front"
		}
	case "x":
		n, ok := m.board.Prune()
		if !ok {
			m.status = "cannot prune during a gesture"
			break
		}
		m.status = fmt.Sprintf("pruned %d phantom positions", n)
	case "up", "k":
		m = m.scrollBy(-1)
	case "down", "j":
		m = m.scrollBy(1)
	}
	return m, nil
}

func (m editModel) mouse(msg tea.MouseMsg) editModel {
	v := m.view()
	col, row := msg.X, msg.Y-headerRows
	p := v.point(col, row)
	ev := gesture.PointerEvent{Client: p, Button: pointerButton(msg.Button)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			return m.scrollBy(1)
		}
		if row < 0 || col >= v.cols {
			return m
		}
		hit, ok := m.board.HitTest(p, geom.Size{Width: v.scaleX, Height: v.scaleY})
		if !ok {
			return m
		}
		var started bool
		if hit.Handle != "" {
			started = m.board.PointerDownHandle(hit.BlockID, hit.Handle, ev)
		} else {
			started = m.board.PointerDownBody(hit.BlockID, ev)
		}
		if started {
			m.status = ""
		}
	case tea.MouseActionMotion:
		m.relay.Move(ev)
	case tea.MouseActionRelease:
		m.relay.Up(ev)
	}
	return m
}

func (m editModel) scrollBy(d int) editModel {
	v := m.view()
	limit := max(v.rows(m.board.Height())-m.visibleRows(), 0)
	m.scroll = min(max(m.scroll+d, 0), limit)
	return m
}

func (m editModel) save() editModel {
	rev := m.board.Store().Revision()
	if err := saveBoard(m.board, m.path); err != nil {
		m.err = err
		return m
	}
	m.saved = rev
	m.status = "saved " + m.path
	return m
}

func (m editModel) View() string {
	var b strings.Builder
	v := m.view()
	vp := m.board.Viewport()

	title := StyleTitle.Render(appName+" edit") + " " +
		StyleDim.Render(fmt.Sprintf("%s · %s · height %s · %s", m.path, vp, formatPx(m.board.Height()), buildinfo.Short()))
	if m.dirty() {
		title += " " + StyleWarning.Render("*")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(canvasHelpStyle.Render("drag body: move  drag edge: resize  tab: viewport  f: front  x: prune  s: save  q: quit"))
	b.WriteString("\n")

	lines := v.render(m.board.Renderable(), m.board.Selected(), v.rows(m.board.Height()), m.visibleRows())
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(canvasErrorStyle.Render(iconError + " " + m.err.Error()))
	case m.status != "":
		b.WriteString(StyleDim.Render(iconInfo + " " + m.status))
	}
	return b.String()
}

func pointerButton(b tea.MouseButton) gesture.Button {
	switch b {
	case tea.MouseButtonMiddle:
		return gesture.ButtonMiddle
	case tea.MouseButtonRight:
		return gesture.ButtonSecondary
	default:
		return gesture.ButtonPrimary
	}
}
