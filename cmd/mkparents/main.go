//go:build !windows

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/containerd/log"
	"github.com/moby/mkparents/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigFile = "/etc/mkparents.json"

type options struct {
	configFile string
	stdin      bool
	verbose    bool
	conf       *config.Config
	flags      *pflag.FlagSet
}

func newOptions() *options {
	return &options{conf: config.New()}
}

func (o *options) installFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configFile, "config-file", defaultConfigFile, "Configuration file")
	flags.BoolVar(&o.stdin, "stdin", false, "Write standard input to PATH once its parents exist")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Print a message for each created directory")
	o.conf.InstallFlags(flags)
}

// StatusError reports a failure that has already been described to the
// user; only the exit status is left to set.
type StatusError struct {
	Status     string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("Status: %s, Code: %d", e.Status, e.StatusCode)
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := newOptions()

	cmd := &cobra.Command{
		Use:   "mkparents [OPTIONS] PATH [PATH...]",
		Short: "Create the missing parent directories of each PATH",
		Long: `Create the missing parent directories of each PATH with the given owner
and mode. The last component of PATH is never created as a directory; with
--stdin it is written as a file instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.flags = cmd.Flags()
			return runMkparents(cmd.Context(), opts, args, stdin, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	opts.installFlags(cmd.Flags())
	return cmd
}

func configureLogging(conf *config.Config, stderr io.Writer) error {
	logrus.SetOutput(stderr)
	if err := log.SetLevel(conf.LogLevel); err != nil {
		return err
	}
	if conf.LogFormat != "" {
		return log.SetFormat(conf.LogFormat)
	}
	return nil
}

func main() {
	cmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if sterr, ok := err.(StatusError); ok {
			if sterr.Status != "" {
				fmt.Fprintln(os.Stderr, sterr.Status)
			}
			os.Exit(sterr.StatusCode)
		}
		fmt.Fprintf(os.Stderr, "mkparents: %s\n", err)
		os.Exit(1)
	}
}
