package palette

import (
	"time"

	"github.com/mrsinham/consultbench/internal/timing"
)

// Key names understood by HandleKey. Any other single rune is typed into the
// query.
const (
	KeyEsc       = "esc"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
)

// Options configures a Palette.
type Options struct {
	Scheduler  timing.Scheduler
	FocusDelay time.Duration
	Limit      int
}

// Palette is the modal state machine.
type Palette struct {
	registry *Registry
	limit    int

	open      bool
	query     string
	highlight int
	focused   bool
	focus     *timing.Debouncer
}

// New creates a closed palette over r. Options.Scheduler is required.
func New(r *Registry, opts Options) *Palette {
	if opts.FocusDelay <= 0 {
		opts.FocusDelay = DefaultFocusDelay
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	p := &Palette{registry: r, limit: opts.Limit}
	p.focus = timing.NewDebouncer(opts.Scheduler, opts.FocusDelay, func() {
		p.focused = true
	})
	return p
}

// IsOpen reports whether the palette is shown.
func (p *Palette) IsOpen() bool { return p.open }

// Query returns the current filter text.
func (p *Palette) Query() string { return p.query }

// Highlight returns the index of the highlighted result.
func (p *Palette) Highlight() int { return p.highlight }

// Focused reports whether the input should hold the focus.
func (p *Palette) Focused() bool { return p.focused }

// Results returns the filtered actions.
func (p *Palette) Results() []Action {
	return Filter(p.registry.Actions(), p.query, p.limit)
}

// Open shows the palette with an empty query. The input gets the focus
// once the focus delay has elapsed.
func (p *Palette) Open() {
	p.open = true
	p.query = ""
	p.highlight = 0
	p.focused = false
	p.focus.Trigger()
}

// Close hides the palette and cancels a pending focus.
func (p *Palette) Close() {
	p.open = false
	p.focused = false
	p.focus.Cancel()
}

// Toggle opens a closed palette and closes an open one.
func (p *Palette) Toggle() {
	if p.open {
		p.Close()
		return
	}
	p.Open()
}

// SetQuery replaces the query and resets the highlight.
func (p *Palette) SetQuery(q string) {
	p.query = q
	p.highlight = 0
}

// Hover highlights result i if it exists.
func (p *Palette) Hover(i int) {
	if i >= 0 && i < len(p.Results()) {
		p.highlight = i
	}
}

// Click runs result i and closes the palette. It reports whether an action
// ran.
func (p *Palette) Click(i int) bool {
	results := p.Results()
	if i < 0 || i >= len(results) {
		return false
	}
	p.Close()
	if results[i].Run != nil {
		results[i].Run()
	}
	return true
}

// HandleKey applies key to an open palette. It reports whether the key was
// consumed; while the palette is open every key is.
func (p *Palette) HandleKey(key string) bool {
	if !p.open {
		return false
	}
	switch key {
	case KeyEsc:
		p.Close()
	case KeyDown:
		if n := len(p.Results()); p.highlight < n-1 {
			p.highlight++
		}
	case KeyUp:
		if p.highlight > 0 {
			p.highlight--
		}
	case KeyEnter:
		p.Click(p.highlight)
	case KeyBackspace:
		if r := []rune(p.query); len(r) > 0 {
			p.SetQuery(string(r[:len(r)-1]))
		}
	default:
		if r := []rune(key); len(r) == 1 {
			p.SetQuery(p.query + key)
		}
	}
	return true
}
