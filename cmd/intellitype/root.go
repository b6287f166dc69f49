package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/reoring/intellitype/definitions"
	"github.com/reoring/intellitype/internal/logging"
	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/metrics"
)

// app carries the state shared by all subcommands.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	logLevel    string
	showMetrics bool

	log     *slog.Logger
	prom    *prometheus.Registry
	metrics *metrics.Collector
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, log: logging.NewNop()}
	root := &cobra.Command{
		Use:   "intellitype",
		Short: "Inspect and validate typed annotation markers",
		Long: `intellitype loads marker definitions (name, description and structural shape)
from YAML files, normalizes shape expressions, validates data against a marker
and exports marker schemas as JSON Schema or OpenAPI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logging.NewWriter(a.errOut, logging.ParseLevel(a.logLevel))
			a.prom = prometheus.NewRegistry()
			c, err := metrics.NewCollector(a.prom)
			if err != nil {
				return err
			}
			a.metrics = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.showMetrics {
				a.printMetrics()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.showMetrics, "metrics", false, "print marker counters to stderr when done")

	root.AddCommand(
		newNormalizeCmd(a),
		newListCmd(a),
		newValidateCmd(a),
		newSchemaCmd(a),
		newServeCmd(a),
	)
	return root
}

// loadRegistry loads a definitions file into a registry wired to the app's
// logger and counters.
func (a *app) loadRegistry(path string) (*marker.Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("--defs is required")
	}
	reg, err := definitions.LoadRegistry(path, marker.WithLogger(a.log), marker.WithMetrics(a.metrics))
	if err != nil {
		return nil, err
	}
	a.log.Debug("definitions loaded", "path", path, "markers", reg.Len())
	return reg, nil
}

func (a *app) lookup(reg *marker.Registry, name string) (*marker.Marker, error) {
	if name == "" {
		return nil, fmt.Errorf("--marker is required (one of: %s)", strings.Join(reg.Names(), ", "))
	}
	m, ok := reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown marker %q (one of: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return m, nil
}

func (a *app) printMetrics() {
	if a.prom == nil {
		return
	}
	mfs, err := a.prom.Gather()
	if err != nil {
		a.log.Error("gather metrics", "error", err)
		return
	}
	var lines []string
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(a.errOut, l)
	}
}
