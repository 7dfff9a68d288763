package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanpama/tagtool"
	"github.com/hanpama/tagtool/internal/config"
	"github.com/hanpama/tagtool/internal/logging"
)

const progname = "html2tag"

type options struct {
	in      string
	out     string
	format  string
	charset string
	verbose bool
}

// runError marks failures that happen after the arguments were accepted.
// They are reported without the --help hint.
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// openError is a file that could not be opened for reading or writing.
type openError struct {
	path string
	err  error
}

func (e *openError) Error() string { return fmt.Sprintf("cannot open %s: %v", e.path, e.err) }
func (e *openError) Unwrap() error { return e.err }

// helpRequested reports whether -h or --help appears before a "--"
// terminator. Help takes precedence over every argument error.
func helpRequested(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-h", "--help", "--help=true":
			return true
		}
	}
	return false
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to load config: %v\n", progname, err)
		return 1
	}

	// cobra falls back to os.Args for a nil slice.
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if helpRequested(args) {
		if err := cmd.Help(); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", progname, err)
			return 1
		}
		return 0
	}

	if err := cmd.Execute(); err != nil {
		var oe *openError
		if errors.As(err, &oe) {
			fmt.Fprintf(stderr, "Cannot open %s: %v\n", oe.path, oe.err)
			return 1
		}
		var re *runError
		if errors.As(err, &re) {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stderr, "%s: %v\n", progname, err)
		fmt.Fprintf(stderr, "Try '%s --help' for more information.\n", progname)
		return 1
	}

	return 0
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := &options{
		format:  cfg.Format,
		charset: cfg.Charset,
	}

	cmd := &cobra.Command{
		Use:   progname + " -i INPUT [-o OUTPUT]",
		Short: "Convert tagtool HTML output to tagged text",
		Long: `Reads the HTML table written by tagtool and prints one "value<TAB>key"
line per <tr> row. Rows without a second cell become empty lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.in, "in", "i", "", "html output from tagtool, - for standard input")
	flags.StringVarP(&opts.out, "out", "o", "", "tagged text, standard output when omitted")
	flags.StringVarP(&opts.format, "format", "f", opts.format, "output format: tsv or table")
	flags.StringVar(&opts.charset, "charset", opts.charset, "input charset label, or auto to detect it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every row to standard error")
	flags.BoolP("help", "h", false, "display this help and exit")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config, opts *options) error {
	convOpts := tagtool.Options{
		Format:  opts.format,
		Charset: opts.charset,
	}
	if err := convOpts.Validate(); err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	logger, logCloser, err := logging.Setup(cmd.ErrOrStderr(), level, cfg.LogFile)
	if err != nil {
		return &runError{fmt.Errorf("logger setup failed: %w", err)}
	}
	defer func() { _ = logCloser.Close() }()
	convOpts.Logger = logger

	in, closeIn, err := openInput(cmd, opts.in, logger)
	if err != nil {
		return &runError{err}
	}
	defer closeIn()

	if opts.out == "" {
		if err := tagtool.ConvertWith(in, cmd.OutOrStdout(), convOpts); err != nil {
			return &runError{err}
		}
		return nil
	}

	out, err := os.Create(opts.out)
	if err != nil {
		return &runError{&openError{path: opts.out, err: err}}
	}

	if err := tagtool.ConvertWith(in, out, convOpts); err != nil {
		_ = out.Close()
		return &runError{err}
	}
	if err := out.Close(); err != nil {
		return &runError{fmt.Errorf("failed to close %s: %w", opts.out, err)}
	}

	logger.Debug("wrote output", "path", opts.out)
	return nil
}

func openInput(cmd *cobra.Command, path string, logger *slog.Logger) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, &openError{path: path, err: err}
	}

	return file, func() {
		if err := file.Close(); err != nil {
			logger.Warn("failed to close input", "path", path, "error", err)
		}
	}, nil
}
