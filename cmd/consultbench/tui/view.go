package tui

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/consultbench/internal/completion"
	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/workbench"
)

const gaugeWidth = 30

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.headerView(),
		m.gaugeView(),
		m.tabsView(),
	}

	switch {
	case m.wb.Palette.IsOpen():
		sections = append(sections, m.paletteView())
		m.help.SetTopic("palette")
	case m.editor != nil:
		sections = append(sections, titleStyle.Render(m.editor.title), m.editor.form.View())
		m.help.SetTopic(string(m.wb.Panel()))
	case m.wb.Wizard.IsOpen():
		sections = append(sections, m.wizardView())
		m.help.SetTopic("wizard")
	default:
		sections = append(sections, panelStyle.Render(m.panelView()))
		m.help.SetTopic(string(m.wb.Panel()))
	}

	if m.showHelp {
		sections = append(sections, m.help.View())
	}
	sections = append(sections, m.statusView(), m.hintsView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) headerView() string {
	id := m.wb.Draft.Patient()
	title := titleStyle.Render("CONSULTBENCH · " + id.Summary())

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(allergyStyle.Render("Allergies: " + id.AllergyLine()))
	var care []string
	for _, s := range []string{id.Insurer, id.Physician, id.LastVisit} {
		if s != "" {
			care = append(care, s)
		}
	}
	if len(care) > 0 {
		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render(strings.Join(care, " | ")))
	}
	if m.restored {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Brouillon restauré"))
	}
	return sb.String()
}

func (m *Model) gaugeView() string {
	st := m.wb.Status()
	rec := m.wb.Next()

	line := renderGauge(st, gaugeWidth) + " " +
		gaugePercentStyle.Render(fmt.Sprintf("%d/%d (%d%%)", st.Done, st.Total, st.Percent()))
	if missing := st.Missing(); len(missing) > 0 {
		line += " " + mutedStyle.Render("à compléter: "+strings.Join(missing, ", "))
	}
	return line + "\n" + nextStyle.Render("Suivant (Ctrl+N): "+rec.Label)
}

func renderGauge(st completion.Status, width int) string {
	filled := 0
	if st.Total > 0 {
		filled = st.Done * width / st.Total
	}
	bar := gaugeStyle.Render("[" + strings.Repeat("█", filled))
	bar += gaugeEmptyStyle.Render(strings.Repeat("░", width-filled) + "]")
	return bar
}

func (m *Model) tabsView() string {
	var tabs []string
	for _, p := range workbench.AllPanels() {
		if p == m.wb.Panel() {
			tabs = append(tabs, activeTabStyle.Render(p.Label()))
			continue
		}
		tabs = append(tabs, tabStyle.Render(p.Label()))
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) panelView() string {
	d := m.wb.Draft
	var sb strings.Builder

	switch m.wb.Panel() {
	case workbench.PanelNotes:
		for _, f := range draft.AllNoteFields() {
			writeValue(&sb, f.Label(), d.Note(f))
		}
	case workbench.PanelAntecedents:
		for _, k := range draft.AllAntecedentKinds() {
			writeValue(&sb, k.Label(), d.Antecedent(k))
		}
	case workbench.PanelVitals:
		for _, f := range draft.AllVitalFields() {
			writeValue(&sb, f.Label(), d.Vital(f))
		}
		bmi, _ := d.BMI()
		writeValue(&sb, "IMC", bmi)
	case workbench.PanelPrescription:
		items := d.Items()
		if len(items) == 0 {
			sb.WriteString(mutedStyle.Render("Aucun médicament prescrit"))
		}
		for i, it := range items {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, itemLine(it))
		}
	case workbench.PanelLabs:
		orders := d.LabOrders()
		if len(orders) == 0 {
			sb.WriteString(mutedStyle.Render("Aucune analyse demandée"))
		}
		for _, o := range orders {
			sb.WriteString("• " + o + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeValue(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label + ": "))
	if strings.TrimSpace(value) == "" {
		sb.WriteString(mutedStyle.Render("—"))
	} else {
		sb.WriteString(value)
	}
	sb.WriteString("\n")
}

func itemLine(it draft.Item) string {
	parts := []string{labelStyle.Render(it.Medication)}
	for _, s := range []string{it.Dosage, it.Duration, it.Instructions} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

func (m *Model) wizardView() string {
	w := m.wb.Wizard
	t := w.Type()

	var steps []string
	for i, label := range w.Steps() {
		if i == w.Step() {
			steps = append(steps, highlightStyle.Render(" "+label+" "))
			continue
		}
		steps = append(steps, mutedStyle.Render(label))
	}

	var body string
	switch w.StepLabel() {
	case document.StepCompose, document.StepPlan:
		body = m.composeView(t)
	case document.StepPreview:
		body = m.previewView(t)
	case document.StepSign, document.StepConfirm:
		body = m.commitView(t)
	}

	primary := "Entrée: étape suivante"
	if w.IsLastStep() {
		primary = "Entrée: signer et envoyer"
		if t == document.Appointment {
			primary = "Entrée: confirmer"
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(t.Title()),
		strings.Join(steps, mutedStyle.Render(" › ")),
		"",
		body,
		"",
		hintStyle.Render(primary),
	)
	return modalStyle.Render(content)
}

func (m *Model) composeView(t document.Type) string {
	var sb strings.Builder
	for _, f := range document.Fields(t) {
		writeValue(&sb, f.Label, m.wb.Draft.Field(t, f.Key))
	}
	sb.WriteString(hintStyle.Render("e: modifier"))
	return sb.String()
}

func (m *Model) previewView(t document.Type) string {
	doc, err := m.wb.Preview(t)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return plainText(doc.HTML)
}

func (m *Model) commitView(t document.Type) string {
	a := m.wb.Draft.Artifact(t)
	var sb strings.Builder
	for _, r := range document.Recipients(t) {
		box := "[ ]"
		if a.Recipients[r] {
			box = "[x]"
		}
		sb.WriteString(box + " " + r.Label() + "\n")
	}
	switch {
	case a.SignedAt != nil:
		sb.WriteString(mutedStyle.Render("Signé le " + a.SignedAt.Format("02/01/2006 à 15:04")))
	case a.ConfirmedAt != nil:
		sb.WriteString(mutedStyle.Render("Confirmé le " + a.ConfirmedAt.Format("02/01/2006 à 15:04")))
	default:
		sb.WriteString(hintStyle.Render("e: destinataires"))
	}
	return sb.String()
}

func (m *Model) paletteView() string {
	p := m.wb.Palette
	var sb strings.Builder
	sb.WriteString(m.query.View())
	sb.WriteString("\n\n")

	results := p.Results()
	if len(results) == 0 {
		sb.WriteString(mutedStyle.Render("Aucune action"))
	}
	for i, a := range results {
		line := "  " + a.Label
		if i == p.Highlight() {
			line = highlightStyle.Render("› " + a.Label)
		}
		if a.Hint != "" {
			line += "  " + mutedStyle.Render(a.Hint)
		}
		sb.WriteString(line + "\n")
	}
	return modalStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *Model) statusView() string {
	var parts []string
	switch at, ok := m.wb.LastSavedAt(); {
	case m.wb.SavePending():
		parts = append(parts, mutedStyle.Render("Enregistrement..."))
	case ok:
		parts = append(parts, mutedStyle.Render("Enregistré à "+at.Format("15:04:05")))
	default:
		parts = append(parts, mutedStyle.Render("Brouillon non enregistré"))
	}

	if fb := m.wb.Wizard.Feedback(); fb != "" {
		parts = append(parts, toastStyle.Render(fb))
	}
	if n := m.wb.Notice(); n != "" {
		parts = append(parts, toastStyle.Render(n))
	}
	if m.err != nil {
		parts = append(parts, errorStyle.Render("Erreur: "+m.err.Error()))
	}
	return "\n" + strings.Join(parts, "  ")
}

func (m *Model) hintsView() string {
	return hintStyle.Render("Tab: section | Entrée: modifier | 1-6: documents | Ctrl+K: commandes | Ctrl+N: suivant | Ctrl+S: enregistrer | ?: aide | Ctrl+C: quitter")
}

var (
	blockEnd = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr)>|<br\s*/?>`)
	anyTag   = regexp.MustCompile(`<[^>]*>`)
	blankRun = regexp.MustCompile(`\n\s*\n+`)
)

// plainText turns a rendered fragment into terminal text.
func plainText(fragment string) string {
	s := blockEnd.ReplaceAllString(fragment, "\n")
	s = anyTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
