package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnavailable is returned by a Printer that cannot print at all. Callers
// treat it as a no-op and do not retry.
var ErrUnavailable = errors.New("print shell unavailable")

// Printer outputs a rendered fragment.
type Printer interface {
	Print(title, html string) error
}

// NopPrinter is a Printer that is never available.
type NopPrinter struct{}

// Print implements Printer.
func (NopPrinter) Print(string, string) error { return ErrUnavailable }

// FilePrinter writes each fragment as a standalone HTML page in Dir.
type FilePrinter struct {
	Dir string
	Now func() time.Time

	last string
}

// NewFilePrinter creates a printer writing into dir.
func NewFilePrinter(dir string) *FilePrinter {
	return &FilePrinter{Dir: dir, Now: time.Now}
}

// Print implements Printer. An empty Dir makes the printer unavailable.
func (p *FilePrinter) Print(title, html string) error {
	_, err := p.PrintFile(title, html)
	return err
}

// PrintFile writes the page and returns its path.
func (p *FilePrinter) PrintFile(title, html string) (string, error) {
	if p.Dir == "" {
		return "", ErrUnavailable
	}
	if err := os.MkdirAll(p.Dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(html)}); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	name := fmt.Sprintf("%s-%s-%s.html",
		fileSlug(title), now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(p.Dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	p.last = path
	return path, nil
}

// LastPath returns the path of the last page written.
func (p *FilePrinter) LastPath() string { return p.last }

func fileSlug(title string) string {
	s := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	if s == "" {
		return "document"
	}
	return s
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: serif; max-width: 42em; margin: 2em auto; }
header, footer { border-bottom: 1px solid #999; margin-bottom: 1em; }
footer { border-top: 1px solid #999; border-bottom: 0; margin-top: 2em; }
pre.report { white-space: pre-wrap; font-family: inherit; }
.pending { color: #a00; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))
