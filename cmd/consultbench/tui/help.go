package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpText describes what a panel or overlay is for and which keys it takes.
type helpText struct {
	Title       string
	Description string
	Keys        string
}

var helpTexts = map[string]helpText{
	"notes": {
		Title:       "NOTES",
		Description: "Motif, symptômes, examen clinique, diagnostic et conclusion.",
		Keys:        "Entrée: modifier les notes",
	},
	"antecedents": {
		Title:       "ANTÉCÉDENTS",
		Description: "Antécédents médicaux, chirurgicaux, traumatiques et familiaux.",
		Keys:        "Entrée: modifier les antécédents",
	},
	"vitals": {
		Title:       "CONSTANTES",
		Description: "Tension, fréquence cardiaque, température, SpO2, poids et taille. L'IMC est calculé à partir du poids et de la taille.",
		Keys:        "Entrée: saisir les constantes",
	},
	"prescription": {
		Title:       "PRESCRIPTION",
		Description: "Lignes de l'ordonnance, dans l'ordre de saisie.",
		Keys:        "Entrée: ajouter une ligne | x: supprimer la dernière ligne",
	},
	"labs": {
		Title:       "BILAN",
		Description: "Analyses demandées. Une analyse n'apparaît qu'une fois.",
		Keys:        "Entrée: choisir les analyses",
	},
	"wizard": {
		Title:       "DOCUMENT",
		Description: "Rédiger, vérifier puis signer le document.",
		Keys:        "e: modifier | Entrée: étape suivante | ←: étape précédente | p: exporter | Échap: fermer",
	},
	"palette": {
		Title:       "COMMANDES",
		Description: "Tapez pour filtrer les actions.",
		Keys:        "↑/↓: choisir | Entrée: exécuter | Échap: fermer",
	},
}

var (
	helpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2).
			Width(60)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpKeysStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// helpPanel displays contextual help for the current panel or overlay.
type helpPanel struct {
	topic string
	width int
}

func newHelpPanel() *helpPanel {
	return &helpPanel{width: 60}
}

func (h *helpPanel) SetTopic(topic string) {
	h.topic = topic
}

func (h *helpPanel) SetWidth(width int) {
	if width > 20 {
		h.width = width
	}
}

func (h *helpPanel) View() string {
	style := helpPanelStyle.Width(h.width - 4)

	text, ok := helpTexts[h.topic]
	if !ok {
		return style.Render("Aucune aide pour cette section")
	}

	var sb strings.Builder
	sb.WriteString(helpTitleStyle.Render(text.Title))
	sb.WriteString("\n")
	sb.WriteString(helpDescStyle.Render(text.Description))
	sb.WriteString("\n")
	sb.WriteString(helpKeysStyle.Render(text.Keys))

	return style.Render(sb.String())
}
