package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldguide/internal/api"
)

func newPrecacheCommand(ctx *commandContext) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "precache [subject...]",
		Short: "Warm the media cache for subjects or a whole domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var result api.PrecacheResult
			err = client.post(cmd.Context(), "/api/precache", map[string]any{
				"domain":   domain,
				"subjects": args,
			}, &result)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Warmed %d subjects\n", result.Warmed)
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Catalog domain (default from config)")
	return cmd
}
