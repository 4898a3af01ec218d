package repoint

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	updated   lipgloss.Style
	unchanged lipgloss.Style
	skipped   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		updated:   r.NewStyle().Foreground(lipgloss.Color("78")),
		unchanged: r.NewStyle().Foreground(lipgloss.Color("245")),
		skipped:   r.NewStyle().Foreground(lipgloss.Color("204")),
	}
}

type spinner struct {
	frames []string
	index  int
}

func newSpinner() spinner      { return spinner{frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}} }
func (s *spinner) tick()       { s.index = (s.index + 1) % len(s.frames) }
func (s spinner) View() string { return s.frames[s.index] }

type TUI struct {
	app         *App
	out         io.Writer
	errOut      io.Writer
	noAnimation bool
	spinner     spinner
	interval    time.Duration
	isTerminal  func(io.Writer) bool
	mu          sync.Mutex
	cur, total  int
}

func NewTUI(app *App, out, errOut io.Writer, noAnimation bool) *TUI {
	return &TUI{
		app:         app,
		out:         out,
		errOut:      errOut,
		noAnimation: noAnimation,
		spinner:     newSpinner(),
		interval:    100 * time.Millisecond,
		isTerminal:  isTerminal,
	}
}

// Run executes the app and prints one status line per processed path. Lines
// for paths handled before a fatal error are still printed.
func (t *TUI) Run() error {
	if t.noAnimation || !t.isTerminal(t.errOut) {
		summary, err := t.app.Execute()
		fmt.Fprint(t.out, FormatSummary(summary, lipgloss.NewRenderer(t.out)))
		return err
	}

	t.app.SetProgressCallback(func(c, tot int) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.cur, t.total = c, tot
	})

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case <-time.After(t.interval):
				t.spinner.tick()
				t.renderProgress()
			}
		}
	}()

	summary, err := t.app.Execute()
	close(done)
	<-stopped
	fmt.Fprint(t.errOut, "\r\x1b[K")

	fmt.Fprint(t.out, FormatSummary(summary, lipgloss.NewRenderer(t.out)))
	return err
}

func (t *TUI) renderProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.errOut, "\r%s Processing... %d/%d\x1b[K", t.spinner.View(), t.cur, t.total)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func statusLabel(r Result, dryRun bool) string {
	if dryRun && r.Outcome == Updated {
		return "would update"
	}
	return r.Outcome.String()
}

// FormatSummary renders "<label>: <path>" per result, in input order. Only the
// label is styled, and a renderer without color support leaves it as is.
func FormatSummary(s Summary, r *lipgloss.Renderer) string {
	st := newStyles(r)

	var b strings.Builder
	for _, res := range s.Results {
		style := st.unchanged
		switch res.Outcome {
		case Updated:
			style = st.updated
		case Skipped:
			style = st.skipped
		}
		fmt.Fprintf(&b, "%s %s\n", style.Render(statusLabel(res, s.DryRun)+":"), res.Path)
	}
	return b.String()
}
