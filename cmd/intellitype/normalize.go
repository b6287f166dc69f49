package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/intellitype/shape"
)

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize EXPR",
		Short: "Print the normalized form of a shape expression",
		Long: `Parses a shape expression such as "List[Tuple[as_union, int, str]]" and
prints it with every union marker rewritten into a union.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := shape.Parse(strings.Join(args, " "))
			if err != nil {
				return err
			}
			s, err := shape.Normalize(raw)
			if err != nil {
				return err
			}
			a.log.Debug("normalized", "raw", raw.String(), "shape", s.String())
			fmt.Fprintln(a.out, s)
			return nil
		},
	}
}
