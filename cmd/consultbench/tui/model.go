// Package tui hosts a consultation workbench in a bubbletea program.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/workbench"
)

// Model is the tea.Model of the workbench screen.
type Model struct {
	ctx   context.Context
	wb    *workbench.Workbench
	sched *Scheduler

	help   *helpPanel
	query  textinput.Model
	editor *editor

	restored bool
	showHelp bool
	err      error

	width  int
	height int

	left     bool // consultation closed
	quitting bool
}

// New builds the model. The scheduler and navigator of opts are replaced by
// ones driven by the tea runtime.
func New(ctx context.Context, opts workbench.Options) (*Model, error) {
	m := &Model{
		ctx:   ctx,
		sched: &Scheduler{},
		help:  newHelpPanel(),
	}
	opts.Scheduler = m.sched
	opts.Navigator = workbench.NavigatorFunc(func() { m.left = true })

	wb, err := workbench.New(opts)
	if err != nil {
		return nil, err
	}
	m.wb = wb

	m.query = textinput.New()
	m.query.Prompt = "› "
	m.query.Placeholder = "Rechercher une action..."
	return m, nil
}

// Workbench returns the hosted session.
func (m *Model) Workbench() *workbench.Workbench { return m.wb }

// Init implements tea.Model. It restores the saved draft.
func (m *Model) Init() tea.Cmd {
	m.restored = m.wb.Mount(m.ctx)
	return m.sched.Drain()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(msg.Width / 2)
		m.query.Width = max(10, min(msg.Width-8, 60))
	case timerMsg:
		msg.fn()
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	default:
		if m.editor != nil {
			cmd = m.updateEditor(msg)
		}
	}

	return m, m.finish(cmd)
}

// finish syncs the query input with the palette, quits once the
// consultation is closed and hands new timers to the runtime.
func (m *Model) finish(cmd tea.Cmd) tea.Cmd {
	m.syncQuery()
	if m.left && !m.quitting {
		m.quitting = true
		m.wb.Unmount()
		return tea.Batch(cmd, tea.Quit)
	}
	return tea.Batch(cmd, m.sched.Drain())
}

func (m *Model) syncQuery() {
	p := m.wb.Palette
	if !p.IsOpen() {
		m.query.Blur()
		m.query.SetValue("")
		return
	}
	if m.query.Value() != p.Query() {
		m.query.SetValue(p.Query())
		m.query.CursorEnd()
	}
	if p.Focused() && !m.query.Focused() {
		m.query.Focus()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	m.err = nil

	switch key {
	case "ctrl+c":
		m.quitting = true
		m.wb.Unmount()
		return tea.Quit
	case workbench.KeyPalette:
		m.editor = nil
		m.wb.HandleKey(key)
		return nil
	}

	if m.wb.Palette.IsOpen() {
		m.paletteInput(msg)
		return nil
	}
	if m.editor != nil {
		return m.updateEditor(msg)
	}

	switch key {
	case "ctrl+n":
		if err := m.wb.RunNext(m.ctx); err != nil {
			m.err = err
		}
		return nil
	case "ctrl+s":
		m.wb.Save()
		return nil
	}

	if m.wb.Wizard.IsOpen() {
		return m.handleWizardKey(key)
	}
	return m.handleMainKey(key)
}

// paletteInput translates a key event into the palette's key names. Pasted
// text arrives as several runes in one event.
func (m *Model) paletteInput(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			m.wb.HandleKey(string(r))
		}
	case msg.Type == tea.KeySpace:
		m.wb.HandleKey(" ")
	default:
		m.wb.HandleKey(msg.String())
	}
}

func (m *Model) handleWizardKey(key string) tea.Cmd {
	w := m.wb.Wizard
	switch key {
	case "esc":
		w.Close()
	case "left", "shift+tab":
		w.Retreat()
	case "right", "tab":
		w.Advance()
	case "enter":
		if _, err := w.Primary(); err != nil {
			m.err = err
		}
	case "e":
		switch w.StepLabel() {
		case document.StepCompose, document.StepPlan:
			return m.edit(composeEditor(m.wb.Draft, w.Type()))
		case document.StepSign, document.StepConfirm:
			return m.edit(recipientsEditor(m.wb.Draft, w.Type()))
		}
	case "p":
		if err := m.wb.Export(w.Type()); err != nil {
			m.err = err
		}
	}
	return nil
}

func (m *Model) handleMainKey(key string) tea.Cmd {
	switch key {
	case "tab", "down", "j":
		m.cyclePanel(1)
	case "shift+tab", "up", "k":
		m.cyclePanel(-1)
	case "enter", "e":
		return m.edit(m.panelEditor())
	case "x":
		if m.wb.Panel() == workbench.PanelPrescription {
			if n := len(m.wb.Draft.Items()); n > 0 {
				_ = m.wb.Draft.RemoveItem(n - 1)
			}
		}
	case "?":
		m.showHelp = !m.showHelp
	default:
		types := document.AllTypes()
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(types) {
			if err := m.wb.OpenDocument(types[n-1]); err != nil {
				m.err = err
			}
		}
	}
	return nil
}

func (m *Model) cyclePanel(delta int) {
	panels := workbench.AllPanels()
	cur := 0
	for i, p := range panels {
		if p == m.wb.Panel() {
			cur = i
		}
	}
	next := (cur + delta + len(panels)) % len(panels)
	m.wb.Focus(panels[next])
}

func (m *Model) panelEditor() *editor {
	d := m.wb.Draft
	switch m.wb.Panel() {
	case workbench.PanelAntecedents:
		return antecedentsEditor(d)
	case workbench.PanelVitals:
		return vitalsEditor(d)
	case workbench.PanelPrescription:
		return itemEditor(d)
	case workbench.PanelLabs:
		return labsEditor(d)
	default:
		return notesEditor(d)
	}
}

func (m *Model) edit(e *editor) tea.Cmd {
	if m.width > 0 {
		e.form = e.form.WithWidth(min(m.width-4, 80))
	}
	m.editor = e
	return e.form.Init()
}

func (m *Model) updateEditor(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.editor = nil
		return nil
	}

	form, cmd := m.editor.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.editor.form = f
	}

	switch m.editor.form.State {
	case huh.StateCompleted:
		m.editor.apply()
		m.editor = nil
	case huh.StateAborted:
		m.editor = nil
	}
	return cmd
}

// Run starts the workbench program and blocks until the clinician quits or
// closes the consultation.
func Run(ctx context.Context, opts workbench.Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running workbench: %w", err)
	}
	return nil
}
