package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/reoring/jsonldlint/internal/cli"
	"github.com/reoring/jsonldlint/internal/config"
	"github.com/reoring/jsonldlint/internal/console"
	"github.com/reoring/jsonldlint/internal/lsp"
)

var version = "dev"

type globalFlags struct {
	configPath string
	verbosity  int
}

type lintFlags struct {
	recursive bool
	extension string
	rules     []string
	format    string
	summary   bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrFindings) {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	lf := &lintFlags{}

	rootCmd := &cobra.Command{
		Use:     "jsonld-lint [fileOrDirectory]",
		Short:   "Lint JSON-LD documents",
		Version: version,
		Long: `Lint JSON-LD documents for syntax errors, unrecognized keywords and
terms that are not mapped by the document context.

Running jsonld-lint with a path is the same as "jsonld-lint lint <path>".
Settings are read from .jsonld-lint.yaml in the working directory unless
--config is given; flags override the file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(g.verbosity, nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runLint(cmd, g, lf, args[0])
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "path to a .jsonld-lint.yaml file")
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	addLintFlags(rootCmd, lf)

	rootCmd.AddCommand(newLintCmd(g))
	rootCmd.AddCommand(newProcessCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newLSPCmd(g))

	return rootCmd
}

func addLintFlags(cmd *cobra.Command, lf *lintFlags) {
	cmd.Flags().BoolVarP(&lf.recursive, "recursive", "r", false, "search directories recursively")
	cmd.Flags().StringVarP(&lf.extension, "fileExtensionFilter", "f", "", "file extension filter (default .jsonld)")
	cmd.Flags().StringArrayVar(&lf.rules, "rule", nil, "enable only this lint rule (repeatable)")
	cmd.Flags().StringVar(&lf.format, "format", cli.FormatText, "output format: text or pretty")
	cmd.Flags().BoolVar(&lf.summary, "summary", false, "print a per-file summary table")
}

func newLintCmd(g *globalFlags) *cobra.Command {
	lf := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "lint <fileOrDirectory>",
		Short: "Lint a JSON-LD file or a directory of files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, g, lf, args[0])
		},
	}
	addLintFlags(cmd, lf)
	return cmd
}

func newProcessCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>",
		Short: "Print every processing result of a JSON-LD file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, g, nil)
			if err != nil {
				return err
			}
			return r.Process(cmd.Context(), args[0])
		},
	}
}

func newWatchCmd(g *globalFlags) *cobra.Command {
	lf := &lintFlags{}
	cmd := &cobra.Command{
		Use:   "watch <fileOrDirectory>",
		Short: "Lint again whenever a watched file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(cmd, g, lf)
			if err != nil {
				return err
			}
			return r.Watch(cmd.Context(), args[0])
		},
	}
	addLintFlags(cmd, lf)
	return cmd
}

func newLSPCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			resolver, err := cfg.Resolver()
			if err != nil {
				return err
			}
			opts, err := cfg.Options(resolver)
			if err != nil {
				return err
			}
			return lsp.NewServer(version, opts...).RunStdio()
		},
	}
}

func runLint(cmd *cobra.Command, g *globalFlags, lf *lintFlags, target string) error {
	r, err := newRunner(cmd, g, lf)
	if err != nil {
		return err
	}
	return r.Lint(cmd.Context(), target)
}

func loadConfig(g *globalFlags) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(g.configPath, wd)
}

// newRunner loads the configuration and applies flags that were set on cmd.
func newRunner(cmd *cobra.Command, g *globalFlags, lf *lintFlags) (*cli.Runner, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	if lf != nil {
		flags := cmd.Flags()
		if flags.Changed("recursive") {
			cfg.Recursive = lf.recursive
		}
		if flags.Changed("fileExtensionFilter") {
			cfg.FileExtension = lf.extension
		}
		if flags.Changed("rule") {
			cfg.Rules = lf.rules
		}
	}
	r, err := cli.NewRunner(cfg, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	r.Verbose = g.verbosity > 0
	if lf != nil {
		if lf.format != cli.FormatText && lf.format != cli.FormatPretty {
			return nil, fmt.Errorf("unknown output format %q", lf.format)
		}
		r.Format = lf.format
		r.Summary = lf.summary
	}
	return r, nil
}
