package draft

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// BMIUnavailable is displayed when weight or height cannot be used.
const BMIUnavailable = "—"

// Initials returns the upper-cased first letters of the first and last
// words of name, or "?" for an empty name.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	out := []rune{firstRune(words[0])}
	if len(words) > 1 {
		out = append(out, firstRune(words[len(words)-1]))
	}
	return strings.ToUpper(string(out))
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.ToUpper(r)
}

// BMI computes weight / (height/100)^2 rounded to one decimal. Both inputs
// are the raw strings of the vitals form; a comma decimal separator is
// accepted. The second result is false, and the value BMIUnavailable, when
// either input is not a positive number.
func BMI(weight, height string) (string, bool) {
	w, ok := parsePositive(weight)
	if !ok {
		return BMIUnavailable, false
	}
	h, ok := parsePositive(height)
	if !ok {
		return BMIUnavailable, false
	}
	m := h / 100
	v := w / (m * m)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return BMIUnavailable, false
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64), true
}

func parsePositive(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

// DefaultReportText assembles the canonical report narrative for d: a dated
// header, the patient line, the vitals line, the antecedents block when any
// antecedent is filled, then the narrative fields in report order. Empty
// narrative fields are left out.
func DefaultReportText(d *Draft, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Compte rendu de consultation du %s\n\n", now.Format("02/01/2006"))
	fmt.Fprintf(&sb, "Patient : %s\n", d.patient.Summary())
	fmt.Fprintf(&sb, "Constantes : %s\n", VitalsSummary(d))

	var antecedents []string
	for _, k := range AllAntecedentKinds() {
		if v := strings.TrimSpace(d.antecedents[k]); v != "" {
			antecedents = append(antecedents, fmt.Sprintf("- %s : %s", k.Label(), v))
		}
	}
	if len(antecedents) > 0 {
		sb.WriteString("Antécédents :\n")
		sb.WriteString(strings.Join(antecedents, "\n"))
		sb.WriteString("\n")
	}

	for _, f := range AllNoteFields() {
		if v := strings.TrimSpace(d.notes[f]); v != "" {
			fmt.Fprintf(&sb, "\n%s : %s", f.Label(), v)
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// VitalsSummary renders the filled vitals on one line, or "non renseignées".
func VitalsSummary(d *Draft) string {
	v := d.vitals
	var parts []string

	sys, dia := strings.TrimSpace(v[Systolic]), strings.TrimSpace(v[Diastolic])
	if sys != "" || dia != "" {
		parts = append(parts, fmt.Sprintf("TA %s/%s mmHg", orUnknown(sys), orUnknown(dia)))
	}
	add := func(f VitalField, format string) {
		if s := strings.TrimSpace(v[f]); s != "" {
			parts = append(parts, fmt.Sprintf(format, s))
		}
	}
	add(HeartRate, "FC %s bpm")
	add(Temperature, "T° %s °C")
	add(OxygenSat, "SpO2 %s %%")
	add(RespiratoryRate, "FR %s /min")
	add(Weight, "Poids %s kg")
	add(Height, "Taille %s cm")
	if bmi, ok := d.BMI(); ok {
		parts = append(parts, "IMC "+bmi)
	}

	if len(parts) == 0 {
		return "non renseignées"
	}
	return strings.Join(parts, ", ")
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
