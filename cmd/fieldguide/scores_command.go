package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"fieldguide/internal/api"
)

func newScoresCommand(ctx *commandContext) *cobra.Command {
	var board string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show a leaderboard",
		Long: `Show a leaderboard. Boards include "users:global" (the default),
"channels:global", "missed:global", "users:guild:<id>", "missed:guild:<id>",
and "missed:user:<id>".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			query := url.Values{
				"board": {board},
				"limit": {strconv.Itoa(limit)},
			}
			var view api.BoardView
			if err := client.get(cmd.Context(), "/api/scores", query, &view); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if len(view.Entries) == 0 {
				fmt.Fprintf(out, "No scores on %s yet\n", view.Board)
				return nil
			}
			rows := make([][]string, 0, len(view.Entries))
			for _, entry := range view.Entries {
				rows = append(rows, []string{
					strconv.Itoa(entry.Rank),
					entry.Member,
					strconv.FormatInt(entry.Score, 10),
				})
			}
			fmt.Fprintln(out, view.Board)
			fmt.Fprintln(out, renderTable([]string{"#", "Member", "Score"}, rows, 0, 2))
			return nil
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Board name (default users:global)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
