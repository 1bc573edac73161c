package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yoockh/jobtrack/internal/utils"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(&options{})
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "jobtrack: %s\n", errorText(err))
		os.Exit(1)
	}
}

// errorText prefers the safe message of an AppError.
func errorText(err error) string {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return utils.UserMessage(err)
	}
	return err.Error()
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobtrack",
		Short: "Track your job applications",
		Long: `jobtrack keeps a personal list of job applications: company, role, date applied,
status, job link, notes and an optional CV. Records live on the jobtrack server
(or directly in MongoDB with --store=mongo).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.server, "server", envOr("JOBTRACK_SERVER", "http://localhost:8080"), "jobtrack server URL")
	pf.StringVar(&opts.token, "token", os.Getenv("JOBTRACK_TOKEN"), "bearer token; its subject is your user id")
	pf.StringVar(&opts.storeKind, "store", storeHTTP, "record store: http or mongo")
	pf.StringVar(&opts.user, "user", "", "user id (required with --store=mongo when no token is given)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log store calls to stderr")
	pf.BoolVar(&opts.color, "color", false, "colour status badges")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newCVCmd(opts),
		newCalendarCmd(),
	)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
