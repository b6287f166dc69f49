package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	intellitype "github.com/reoring/intellitype"
)

var errInvalid = errors.New("validation failed")

type validateFlags struct {
	defs       string
	marker     string
	format     string
	output     string
	duplicates string
	maxDepth   int
	maxBytes   int64
	failFast   bool
}

func newValidateCmd(a *app) *cobra.Command {
	var f validateFlags
	cmd := &cobra.Command{
		Use:   "validate DATAFILE",
		Short: "Validate a JSON or YAML document against a marker",
		Long: `Decodes DATAFILE ("-" reads stdin) and validates it as the data of the given
marker. Issues are printed one per line as "path<TAB>code<TAB>message".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(cmd.Context(), f, args[0])
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.defs, "defs", "", "marker definitions file (YAML)")
	fl.StringVar(&f.marker, "marker", "", "marker name")
	fl.StringVar(&f.format, "format", "", "input format (json, yaml); derived from the file extension when empty")
	fl.StringVarP(&f.output, "output", "o", "", "print the validated data (json, yaml)")
	fl.StringVar(&f.duplicates, "duplicate-keys", "error", "duplicate key handling (ignore, warn, error)")
	fl.IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth (0 = unlimited)")
	fl.Int64Var(&f.maxBytes, "max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	fl.BoolVar(&f.failFast, "fail-fast", false, "stop at the first issue")
	return cmd
}

func (a *app) validate(ctx context.Context, f validateFlags, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opt, err := a.parseOpt(f)
	if err != nil {
		return err
	}
	reg, err := a.loadRegistry(f.defs)
	if err != nil {
		return err
	}
	m, err := a.lookup(reg, f.marker)
	if err != nil {
		return err
	}
	src, err := a.openSource(path, f.format)
	if err != nil {
		return err
	}

	props, err := m.ValidateFrom(ctx, src, opt)
	if err != nil {
		iss, ok := intellitype.AsIssues(err)
		if !ok {
			return err
		}
		for _, it := range iss {
			line := it.Path + "\t" + it.Code + "\t" + it.Message
			if it.Hint != "" {
				line += " (" + it.Hint + ")"
			}
			fmt.Fprintln(a.out, line)
		}
		return errInvalid
	}

	switch f.output {
	case "":
		fmt.Fprintf(a.out, "%s: valid %s\n", path, m.Name())
		return nil
	case "json":
		b, err := json.MarshalIndent(props, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(b))
		return nil
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(props); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (json, yaml)", f.output)
}

func (a *app) parseOpt(f validateFlags) (intellitype.ParseOpt, error) {
	opt := intellitype.ParseOpt{
		MaxDepth: f.maxDepth,
		MaxBytes: f.maxBytes,
		FailFast: f.failFast,
		Warnings: func(it intellitype.Issue) {
			a.log.Warn("input warning", "path", it.Path, "code", it.Code, "message", it.Message)
		},
	}
	switch f.output {
	case "", "json", "yaml":
	default:
		return opt, fmt.Errorf("unknown output format %q (json, yaml)", f.output)
	}
	switch f.duplicates {
	case "ignore":
		opt.Strictness.OnDuplicateKey = intellitype.Ignore
	case "warn":
		opt.Strictness.OnDuplicateKey = intellitype.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = intellitype.Error
	default:
		return opt, fmt.Errorf("unknown --duplicate-keys value %q (ignore, warn, error)", f.duplicates)
	}
	return opt, nil
}

// openSource reads path fully and wraps it in a Source of the given format.
func (a *app) openSource(path, format string) (intellitype.Source, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(a.in)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}
	switch format {
	case "json":
		return intellitype.JSONBytes(b), nil
	case "yaml":
		return intellitype.YAMLBytes(b), nil
	}
	return nil, fmt.Errorf("unknown input format %q (json, yaml)", format)
}
