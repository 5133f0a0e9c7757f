package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/consultbench/cmd/consultbench/tui"
	"github.com/mrsinham/consultbench/internal/completion"
	"github.com/mrsinham/consultbench/internal/config"
	"github.com/mrsinham/consultbench/internal/document"
	"github.com/mrsinham/consultbench/internal/draft"
	"github.com/mrsinham/consultbench/internal/logging"
	"github.com/mrsinham/consultbench/internal/patient"
	"github.com/mrsinham/consultbench/internal/persist"
	"github.com/mrsinham/consultbench/internal/render"
	"github.com/mrsinham/consultbench/internal/workbench"
)

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	config      string
	patientFile string
	dicomFile   string
	demoSeed    uint64
	help        bool
	version     bool
}

func newFlagSet(name string, stderr io.Writer, c *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&c.config, "config", "", "Configuration file")
	fs.StringVar(&c.patientFile, "patient", "", "Patient identity in YAML")
	fs.StringVar(&c.dicomFile, "dicom", "", "Read the patient identity from a DICOM file")
	fs.Uint64Var(&c.demoSeed, "demo", 0, "Use a fictitious patient generated from this seed")
	fs.BoolVar(&c.help, "help", false, "Show help message")
	fs.BoolVar(&c.version, "version", false, "Show version")
	return fs
}

// handled reports whether --help or --version was served.
func (c *commonFlags) handled(stdout io.Writer) bool {
	switch {
	case c.version:
		fmt.Fprintf(stdout, "consultbench %s\n", version)
		return true
	case c.help:
		printHelp(stdout)
		return true
	}
	return false
}

func (c *commonFlags) loadPatient() (patient.Identity, error) {
	sources := 0
	for _, set := range []bool{c.patientFile != "", c.dicomFile != "", c.demoSeed != 0} {
		if set {
			sources++
		}
	}
	switch {
	case sources > 1:
		return patient.Identity{}, errors.New("--patient, --dicom and --demo are mutually exclusive")
	case c.demoSeed != 0:
		return patient.Demo(c.demoSeed), nil
	case c.patientFile != "":
		return patient.LoadYAML(c.patientFile)
	case c.dicomFile != "":
		return patient.LoadDICOM(c.dicomFile)
	}
	return patient.Placeholder(), nil
}

// env holds what every subcommand needs once flags are parsed.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	storage persist.Storage
	patient patient.Identity
	key     string
	closers []func() error
}

func setup(ctx context.Context, c *commonFlags, logOut io.Writer) (*env, error) {
	cfg, err := config.Load(c.config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	id, err := c.loadPatient()
	if err != nil {
		return nil, fmt.Errorf("loading patient: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:     cfg,
		log:     log,
		patient: id,
		key:     persist.Key(id, cfg.KeyStrategy()),
		closers: []func() error{closeLog},
	}

	storage, closeStorage, err := persist.Open(ctx, cfg.StorageOptions())
	if err != nil {
		e.close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	e.storage = storage
	e.closers = append(e.closers, closeStorage)

	log.WithFields(logrus.Fields{
		"backend": cfg.Storage.Backend,
		"key":     e.key,
	}).Debug("environment ready")
	return e, nil
}

// close releases resources in reverse order of acquisition.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && e.log != nil {
			e.log.WithError(err).Warn("close")
		}
	}
}

// loadDraft rebuilds the saved draft of the patient.
func (e *env) loadDraft(ctx context.Context, now time.Time) (*draft.Draft, persist.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Storage.Timeout)
	defer cancel()

	snap, err := persist.Load(ctx, e.storage, e.key)
	if err != nil {
		return nil, snap, err
	}
	d := draft.NewWithDefaults(e.patient, now)
	snap.Apply(d)
	d.SeedReport(draft.DefaultReportText(d, now))
	return d, snap, nil
}

func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c commonFlags
	fs := newFlagSet("run", stderr, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.handled(stdout) {
		return nil
	}

	// The terminal belongs to the workbench: logs only go to the log file.
	e, err := setup(ctx, &c, io.Discard)
	if err != nil {
		return err
	}
	defer e.close()

	opts := workbench.Options{
		Patient: e.patient,
		Storage: e.storage,
		Printer: render.NewFilePrinter(e.cfg.Export.Dir),
		Logger:  e.log,
	}
	opts.ApplyConfig(e.cfg)
	return tui.Run(ctx, opts)
}

func exportCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c commonFlags
	fs := newFlagSet("export", stderr, &c)
	docType := fs.String("type", "", "Document type: rx, labs, report, certificate, sickleave, rdv (required)")
	outDir := fs.String("out", "", "Output directory (default: export.dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.handled(stdout) {
		return nil
	}

	if *docType == "" {
		return errors.New("--type is required")
	}
	t, err := document.ParseType(*docType)
	if err != nil {
		return err
	}

	e, err := setup(ctx, &c, stderr)
	if err != nil {
		return err
	}
	defer e.close()

	now := time.Now()
	d, _, err := e.loadDraft(ctx, now)
	if errors.Is(err, persist.ErrNotFound) {
		return fmt.Errorf("no saved draft for %s", e.patient.Summary())
	}
	if err != nil {
		return err
	}

	renderer := render.Renderer{Practice: render.Practice{
		Physician: e.cfg.Practice.Physician,
		Clinic:    e.cfg.Practice.Clinic,
	}}
	doc, err := renderer.Fragment(t, d, now)
	if err != nil {
		return err
	}

	dir := *outDir
	if dir == "" {
		dir = e.cfg.Export.Dir
	}
	path, err := render.NewFilePrinter(dir).PrintFile(doc.Title, doc.HTML)
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{"type": t, "path": path}).Info("document exported")
	fmt.Fprintln(stdout, path)
	return nil
}

func statusCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c commonFlags
	fs := newFlagSet("status", stderr, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.handled(stdout) {
		return nil
	}

	e, err := setup(ctx, &c, stderr)
	if err != nil {
		return err
	}
	defer e.close()

	fmt.Fprintf(stdout, "Patient:     %s\n", e.patient.Summary())
	d, snap, err := e.loadDraft(ctx, time.Now())
	if errors.Is(err, persist.ErrNotFound) {
		fmt.Fprintln(stdout, "Aucun brouillon enregistré")
		return nil
	}
	if err != nil {
		return err
	}

	st := completion.Compute(d)
	fmt.Fprintf(stdout, "Brouillon:   %s (enregistré le %s)\n", e.key, snap.SavedAt.Local().Format("02/01/2006 15:04"))
	fmt.Fprintf(stdout, "Complétude:  %d/%d (%d%%)\n", st.Done, st.Total, st.Percent())
	if missing := st.Missing(); len(missing) > 0 {
		fmt.Fprintf(stdout, "À compléter: %s\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(stdout, "Suivant:     %s\n", completion.Next(d).Label)
	return nil
}

func discardCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c commonFlags
	fs := newFlagSet("discard", stderr, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.handled(stdout) {
		return nil
	}

	e, err := setup(ctx, &c, stderr)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Storage.Timeout)
	defer cancel()
	if err := e.storage.Delete(ctx, e.key); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	e.log.WithField("key", e.key).Info("draft discarded")
	fmt.Fprintf(stdout, "Brouillon supprimé: %s\n", e.key)
	return nil
}

func listCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var c commonFlags
	fs := newFlagSet("list", stderr, &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.handled(stdout) {
		return nil
	}

	e, err := setup(ctx, &c, stderr)
	if err != nil {
		return err
	}
	defer e.close()

	lister, ok := e.storage.(persist.Lister)
	if !ok {
		return fmt.Errorf("%s storage cannot list drafts", e.cfg.Storage.Backend)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Storage.Timeout)
	defer cancel()
	keys, err := lister.Keys(ctx)
	if err != nil {
		return fmt.Errorf("listing drafts: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(stdout, "Aucun brouillon enregistré")
		return nil
	}

	for _, key := range keys {
		snap, err := persist.Load(ctx, e.storage, key)
		if err != nil {
			e.log.WithError(err).WithField("key", key).Warn("unreadable draft")
			fmt.Fprintf(stdout, "%-45s illisible\n", key)
			continue
		}
		fmt.Fprintf(stdout, "%-45s %s\n", key, snap.SavedAt.Local().Format("02/01/2006 15:04"))
	}
	return nil
}
