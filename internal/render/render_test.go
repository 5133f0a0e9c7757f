package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/patient"
)

var now = time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

func TestFragment_AllTypes(t *testing.T) {
	d := draft.NewWithDefaults(patient.Placeholder(), now)
	for _, dt := range document.AllTypes() {
		t.Run(string(dt), func(t *testing.T) {
			doc, err := Fragment(dt, d, now)
			if err != nil {
				t.Fatalf("Fragment(%s) error: %v", dt, err)
			}
			if doc.Title != dt.Title() {
				t.Errorf("Expected title %q, got %q", dt.Title(), doc.Title)
			}
			for _, want := range []string{"Le 02/03/2026", "Patient Démonstration, 45 ans", "Pénicilline", "Médecin traitant"} {
				if !strings.Contains(doc.HTML, want) {
					t.Errorf("fragment missing %q:\n%s", want, doc.HTML)
				}
			}
		})
	}
}

func TestFragment_Prescription(t *testing.T) {
	d := draft.New(patient.Placeholder())
	d.AddItem(draft.Item{Medication: "Amoxicilline 1g", Dosage: "1 cp matin et soir", Duration: "7 jours"})
	d.AddItem(draft.Item{})
	d.SetField(document.Prescription, document.FieldNote, "Boire beaucoup")

	doc, err := Fragment(document.Prescription, d, now)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(doc.HTML, "<li>") != 1 {
		t.Errorf("blank lines should be skipped:\n%s", doc.HTML)
	}
	for _, want := range []string{"Amoxicilline 1g", "pendant 7 jours", "Boire beaucoup", "Non signé"} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("missing %q", want)
		}
	}

	d.Sign(document.Prescription, now)
	doc, _ = Fragment(document.Prescription, d, now)
	if !strings.Contains(doc.HTML, "Signé le 02/03/2026 à 10:15") {
		t.Errorf("signature line missing:\n%s", doc.HTML)
	}
}

func TestFragment_EscapesUserText(t *testing.T) {
	d := draft.New(patient.Identity{Name: "<b>Mallory</b>", Age: 30})
	d.AddItem(draft.Item{Medication: `<script>alert("x")</script>`})
	d.AddLabOrder("<img src=x onerror=alert(1)>")
	d.SetField(document.Report, document.FieldText, "</pre><script>bad()</script>")

	for _, dt := range []document.Type{document.Prescription, document.LabOrder, document.Report} {
		doc, err := Fragment(dt, d, now)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(doc.HTML, "<script>") || strings.Contains(doc.HTML, "<img") || strings.Contains(doc.HTML, "<b>") {
			t.Errorf("%s: unescaped markup in fragment:\n%s", dt, doc.HTML)
		}
	}
}

func TestFragment_Appointment(t *testing.T) {
	d := draft.NewWithDefaults(patient.Placeholder(), now)
	d.SetField(document.Appointment, document.FieldTime, "14:30")

	doc, _ := Fragment(document.Appointment, d, now)
	for _, want := range []string{"16/03/2026 à 14:30", "Cabinet", "À confirmer"} {
		if !strings.Contains(doc.HTML, want) {
			t.Errorf("missing %q:\n%s", want, doc.HTML)
		}
	}

	d.Confirm(now)
	doc, _ = Fragment(document.Appointment, d, now)
	if !strings.Contains(doc.HTML, "Confirmé le") {
		t.Errorf("confirmation missing:\n%s", doc.HTML)
	}
}

func TestFragment_PracticeOverridesPhysician(t *testing.T) {
	d := draft.New(patient.Placeholder())
	r := Renderer{Practice: Practice{Physician: "Dr. Claire Martin", Clinic: "Cabinet des Lilas"}}
	doc, err := r.Fragment(document.Certificate, d, now)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.HTML, "Dr. Claire Martin") || !strings.Contains(doc.HTML, "Cabinet des Lilas") {
		t.Errorf("practice not rendered:\n%s", doc.HTML)
	}
	if strings.Contains(doc.HTML, "Médecin traitant") {
		t.Error("practice physician should replace the patient's")
	}
}

func TestFragment_UnknownType(t *testing.T) {
	_, err := Fragment("fax", draft.New(patient.Placeholder()), now)
	if !errors.Is(err, document.ErrUnknownType) {
		t.Errorf("Expected ErrUnknownType, got %v", err)
	}
}

func TestNopPrinter(t *testing.T) {
	if err := (NopPrinter{}).Print("x", "y"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestFilePrinter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	p := NewFilePrinter(dir)
	p.Now = func() time.Time { return now }

	path, err := p.PrintFile("Arrêt de travail", "<p>corps</p>")
	if err != nil {
		t.Fatal(err)
	}
	if p.LastPath() != path {
		t.Errorf("LastPath = %q, want %q", p.LastPath(), path)
	}
	if !strings.HasPrefix(filepath.Base(path), "arrêt-de-travail-20260302-101500-") {
		t.Errorf("unexpected file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, "<title>Arrêt de travail</title>") || !strings.Contains(page, "<p>corps</p>") {
		t.Errorf("unexpected page:\n%s", page)
	}
}

func TestFilePrinter_NoDir(t *testing.T) {
	p := &FilePrinter{}
	if err := p.Print("x", "y"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}
