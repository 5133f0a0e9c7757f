package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a subcommand. Without one the workbench is started.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	name := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}

	switch name {
	case "run":
		return runCommand(ctx, args, stdout, stderr)
	case "export":
		return exportCommand(ctx, args, stdout, stderr)
	case "status":
		return statusCommand(ctx, args, stdout, stderr)
	case "discard":
		return discardCommand(ctx, args, stdout, stderr)
	case "list":
		return listCommand(ctx, args, stdout, stderr)
	case "help":
		printHelp(stdout)
		return nil
	case "version":
		fmt.Fprintf(stdout, "consultbench %s\n", version)
		return nil
	}

	printUsage(stderr)
	return fmt.Errorf("unknown command %q", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  consultbench [run|export|status|discard|list] [options]")
	fmt.Fprintln(w, "\nRun 'consultbench --help' for details.")
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "consultbench")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Consultation workbench: notes, vitals, prescription, lab orders and")
	fmt.Fprintln(w, "clinical documents for one patient, with autosaved drafts.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  consultbench [run] [options]          Open the workbench (default)")
	fmt.Fprintln(w, "  consultbench export --type <T> [opts] Print a document of the saved draft to HTML")
	fmt.Fprintln(w, "  consultbench status [options]         Show the completion of the saved draft")
	fmt.Fprintln(w, "  consultbench discard [options]        Delete the saved draft")
	fmt.Fprintln(w, "  consultbench list [options]           List every saved draft")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common options:")
	fmt.Fprintln(w, "  --config <FILE>       Configuration file (default: ./consultbench.yaml or ~/.consultbench/consultbench.yaml)")
	fmt.Fprintln(w, "  --patient <FILE>      Patient identity in YAML")
	fmt.Fprintln(w, "  --dicom <FILE>        Read the patient identity from a DICOM header")
	fmt.Fprintln(w, "  --demo <SEED>         Use a fictitious patient generated from SEED")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export options:")
	fmt.Fprintln(w, "  --type <T>            Document type: rx, labs, report, certificate, sickleave, rdv")
	fmt.Fprintln(w, "  --out <DIR>           Output directory (default: export.dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  --version             Show version")
	fmt.Fprintln(w, "  --help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Workbench keys:")
	fmt.Fprintln(w, "  Ctrl+K  command palette      Ctrl+N  next recommended action")
	fmt.Fprintln(w, "  Ctrl+S  save the draft now   Ctrl+C  quit (pending changes are saved)")
	fmt.Fprintln(w, "  Tab     next section         1-6     open a document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  Every setting can be overridden with CONSULTBENCH_<SECTION>_<KEY>,")
	fmt.Fprintln(w, "  e.g. CONSULTBENCH_STORAGE_BACKEND=sqlite")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  # Open the workbench for a patient")
	fmt.Fprintln(w, "  consultbench --patient dupont.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Use the identity stored in an imaging study")
	fmt.Fprintln(w, "  consultbench --dicom PT000000/ST000000/SE000000/IM000001")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Try the workbench on a reproducible fictitious patient")
	fmt.Fprintln(w, "  consultbench --demo 42")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Print the prescription of the saved draft")
	fmt.Fprintln(w, "  consultbench export --type rx --patient dupont.yaml --out ./ordonnances")
}
