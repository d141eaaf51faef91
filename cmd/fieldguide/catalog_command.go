package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fieldguide/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect local subject catalogs",
	}

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List loaded domains and their subject counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			set, err := catalog.LoadDir(cfg.Catalog.Dir, cfg.Catalog.DefaultDomain)
			if err != nil {
				return err
			}

			rows := make([][]string, 0)
			for _, name := range set.Names() {
				domain, err := set.Domain(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == cfg.Catalog.DefaultDomain {
					marker = "default"
				}
				rows = append(rows, []string{
					name,
					domain.MediaType,
					strconv.Itoa(len(domain.Subjects)),
					marker,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Domain", "Media", "Subjects", ""}, rows, 2))
			return nil
		},
	})

	catalogCmd.AddCommand(&cobra.Command{
		Use:   "show <domain>",
		Short: "Print a domain's subjects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			set, err := catalog.LoadDir(cfg.Catalog.Dir, cfg.Catalog.DefaultDomain)
			if err != nil {
				return err
			}
			domain, err := set.Domain(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, subject := range domain.Subjects {
				fmt.Fprintln(out, subject)
			}
			return nil
		},
	})

	return catalogCmd
}
