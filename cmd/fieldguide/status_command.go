package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldguide/internal/api"
)

const (
	ansiReset = "\x1b[0m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var status api.DaemonStatus
			if err := client.get(cmd.Context(), "/api/status", nil, &status); err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			running := "stopped"
			if status.Running {
				running = "running"
			}
			if colorize {
				color := ansiRed
				if status.Running {
					color = ansiGreen
				}
				running = color + running + ansiReset
			}
			fmt.Fprintf(out, "Daemon:   %s (pid %d)\n", running, status.PID)
			fmt.Fprintf(out, "Database: %s\n", status.DBPath)
			fmt.Fprintf(out, "Lock:     %s\n", status.LockFilePath)
			fmt.Fprintf(out, "Domains:  %s\n", strings.Join(status.Domains, ", "))
			fmt.Fprintf(out, "Cache:    %d subjects, %d files, %s used, %.0f%% disk free\n",
				status.Cache.Subjects,
				status.Cache.Files,
				formatBytes(status.Cache.TotalBytes),
				status.Cache.FreeRatio*100,
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
