package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"fieldguide/internal/api"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage timed play sessions",
	}

	var user string
	sessionCmd.PersistentFlags().StringVar(&user, "user", "cli", "User identifier")

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var session api.SessionView
			if err := client.post(cmd.Context(), "/api/session/start", map[string]string{"user": user}, &session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session started for %s\n", session.User)
			return nil
		},
	})

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var session api.SessionView
			if err := client.get(cmd.Context(), "/api/session", url.Values{"user": {user}}, &session); err != nil {
				return err
			}
			printSession(cmd, session, false)
			return nil
		},
	})

	sessionCmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the session and show the final tally",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var session api.SessionView
			if err := client.post(cmd.Context(), "/api/session/stop", map[string]string{"user": user}, &session); err != nil {
				return err
			}
			printSession(cmd, session, true)
			return nil
		},
	})

	return sessionCmd
}

func printSession(cmd *cobra.Command, session api.SessionView, final bool) {
	out := cmd.OutOrStdout()
	if final {
		fmt.Fprintf(out, "Session over for %s (%s)\n", session.User, session.Duration)
	} else {
		fmt.Fprintf(out, "Session running for %s (%s)\n", session.User, session.Duration)
	}
	fmt.Fprintf(out, "  Rounds:    %d\n", session.Total)
	fmt.Fprintf(out, "  Correct:   %d\n", session.Correct)
	fmt.Fprintf(out, "  Incorrect: %d\n", session.Incorrect)
	fmt.Fprintf(out, "  Accuracy:  %.1f%%\n", session.Accuracy)
}
