package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load configuration and artifacts, then report what was loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			set := rt.artifacts
			rows := [][]string{
				{"catalog", rt.cfg.Artifacts.Catalog, strconv.Itoa(set.Catalog.Len())},
				{"popularity", rt.cfg.Artifacts.Popularity, strconv.Itoa(len(set.Popularity))},
				{"similarity", rt.cfg.Artifacts.Similarity, "-"},
				{"model", rt.cfg.Artifacts.Model, "-"},
			}
			if set.Similarity != nil {
				rows[2][2] = strconv.Itoa(set.Similarity.Len())
			}
			if set.Model != nil {
				rows[3][2] = strconv.Itoa(len(set.Model.ItemDomain()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Artifact", "Path", "Entries"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "Store: %s\n", rt.cfg.Store.Backend)
			return nil
		},
	}
}
