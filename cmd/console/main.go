// Command console runs the report assistant as an interactive terminal chat.
package main

import (
	"context"
	"fmt"
	"os"

	"report-assistant-be/internal/bootstrap"
	"report-assistant-be/internal/config"
	"report-assistant-be/internal/pkg/logger"
	"report-assistant-be/internal/repository/memory"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	var reportPath string

	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with a business report from the terminal",
		Long: `Load a PDF, CSV, XLSX/XLS or TXT report, read its summary and ask
questions answered only from the report.

Commands inside the session:
  /upload <path>   load a report (replaces the current one)
  /summary         print the report summary
  /history         print the conversation so far
  /reset           clear the conversation, keep the report
  /quit            leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			// The console drives a single session for its whole lifetime.
			cfg.Session.TTL = memory.NoExpiration
			// Keep stdout for the conversation.
			sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
			auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

			container, err := bootstrap.NewContainer(cfg, bootstrap.WithLoggers(sysLogger, auditLogger))
			if err != nil {
				return err
			}
			defer container.Close()

			ctx := cmd.Context()
			if err := container.ConsumerService.Consume(ctx); err != nil {
				return err
			}

			r, err := newREPL(ctx, container.ReportService, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if reportPath != "" {
				r.upload(ctx, reportPath)
			}
			return r.run(ctx, cmd.InOrStdin())
		},
	}
	rootCmd.Flags().StringVarP(&reportPath, "file", "f", "", "report to load on start")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
