package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/intellitype/marker"
	"github.com/reoring/intellitype/openapi"
)

func newSchemaCmd(a *app) *cobra.Command {
	var defs, name, format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the schema of a marker",
		Long: `Prints the props schema of a marker as JSON Schema, or an OpenAPI 3 document
with a component per marker. With --format openapi, --marker is optional and
every marker of the file is exported when it is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(defs)
			if err != nil {
				return err
			}
			var v any
			switch format {
			case "jsonschema":
				m, err := a.lookup(reg, name)
				if err != nil {
					return err
				}
				sch, err := m.Schema()
				if err != nil {
					return err
				}
				if v, err = sch.JSONSchema(); err != nil {
					return err
				}
			case "openapi":
				if name != "" {
					m, err := a.lookup(reg, name)
					if err != nil {
						return err
					}
					one := marker.NewRegistry(marker.WithLogger(a.log))
					if _, err := one.DefineDeclaration(m.Name(), m.Description(), m.Declaration()); err != nil {
						return err
					}
					reg = one
				}
				if v, err = openapi.Export(reg); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (jsonschema, openapi)", format)
			}
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&defs, "defs", "", "marker definitions file (YAML)")
	cmd.Flags().StringVar(&name, "marker", "", "marker name")
	cmd.Flags().StringVar(&format, "format", "jsonschema", "schema format (jsonschema, openapi)")
	return cmd
}
