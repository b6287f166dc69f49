package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type markerInfo struct {
	Name        string `json:"name" yaml:"name"`
	Shape       string `json:"shape" yaml:"shape"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var defs, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the markers of a definitions file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(defs)
			if err != nil {
				return err
			}
			infos := make([]markerInfo, 0, reg.Len())
			for _, m := range reg.Markers() {
				s, err := m.Shape()
				if err != nil {
					return fmt.Errorf("marker %s: %w", m.Name(), err)
				}
				infos = append(infos, markerInfo{Name: m.Name(), Shape: s.String(), Description: m.Description()})
			}
			switch format {
			case "text":
				for _, i := range infos {
					if i.Description != "" {
						fmt.Fprintf(a.out, "%s\t%s\t%s\n", i.Name, i.Shape, i.Description)
					} else {
						fmt.Fprintf(a.out, "%s\t%s\n", i.Name, i.Shape)
					}
				}
				return nil
			case "json":
				b, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, string(b))
				return nil
			case "yaml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(infos); err != nil {
					return err
				}
				return enc.Close()
			}
			return fmt.Errorf("unknown format %q (text, json, yaml)", format)
		},
	}
	cmd.Flags().StringVar(&defs, "defs", "", "marker definitions file (YAML)")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json, yaml)")
	return cmd
}
