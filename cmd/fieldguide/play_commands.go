package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"fieldguide/internal/api"
)

func newRoundCommand(ctx *commandContext) *cobra.Command {
	var channel, user, domain string

	cmd := &cobra.Command{
		Use:   "round",
		Short: "Start or repeat a round in a channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var round api.RoundView
			err = client.post(cmd.Context(), "/api/round", map[string]string{
				"channel": channel,
				"user":    user,
				"domain":  domain,
			}, &round)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if round.Repeat {
				fmt.Fprintln(out, "Round still open; same image as before.")
			}
			fmt.Fprintf(out, "%s\n%s\n", round.Prompt, round.FilePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "cli", "Channel identifier")
	cmd.Flags().StringVar(&user, "user", "cli", "User identifier")
	cmd.Flags().StringVar(&domain, "domain", "", "Catalog domain (default from config)")
	return cmd
}

func newGuessCommand(ctx *commandContext) *cobra.Command {
	var channel, user, guild string

	cmd := &cobra.Command{
		Use:   "guess <text>",
		Short: "Answer the open round",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var outcome api.GuessOutcome
			err = client.post(cmd.Context(), "/api/guess", map[string]string{
				"channel": channel,
				"user":    user,
				"guild":   guild,
				"text":    strings.Join(args, " "),
			}, &outcome)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, outcome.Message)
			if outcome.Correct {
				fmt.Fprintf(out, "Score: %d\n", outcome.GlobalScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "cli", "Channel identifier")
	cmd.Flags().StringVar(&user, "user", "cli", "User identifier")
	cmd.Flags().StringVar(&guild, "guild", "", "Guild identifier for per-guild scoring")
	return cmd
}

func newSkipCommand(ctx *commandContext) *cobra.Command {
	var channel, user, guild string

	cmd := &cobra.Command{
		Use:   "skip",
		Short: "Abandon the open round and reveal the answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var result api.SkipResult
			err = client.post(cmd.Context(), "/api/skip", map[string]string{
				"channel": channel,
				"user":    user,
				"guild":   guild,
			}, &result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "cli", "Channel identifier")
	cmd.Flags().StringVar(&user, "user", "cli", "User identifier")
	cmd.Flags().StringVar(&guild, "guild", "", "Guild identifier")
	return cmd
}

func newHintCommand(ctx *commandContext) *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Show a masked form of the open round's answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var hint api.HintResult
			query := url.Values{"channel": {channel}}
			if err := client.get(cmd.Context(), "/api/hint", query, &hint); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hint.Hint)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "cli", "Channel identifier")
	return cmd
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "lookup <name>",
		Short: "Resolve a possibly misspelled name to its catalog entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var result api.LookupResult
			query := url.Values{
				"name":   {strings.Join(args, " ")},
				"domain": {domain},
			}
			if err := client.get(cmd.Context(), "/api/lookup", query, &result); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Name)
			if result.FilePath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.FilePath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Catalog domain (default from config)")
	return cmd
}
