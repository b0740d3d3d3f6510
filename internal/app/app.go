// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"meclust/internal/appcore"
	"meclust/internal/cliutil"
	"meclust/internal/config"
	"meclust/internal/logging"
	"meclust/internal/metrics"
	"meclust/internal/version"
	"meclust/internal/writers"
)

// exitError carries an exit code out of a cobra RunE.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

// usageError marks bad flags or arguments (exit 2).
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type runState struct {
	ctx            context.Context
	stdout, stderr io.Writer
	v              *viper.Viper
	cfgFile        string
}

// flag name -> config key
var boundFlags = map[string]string{
	"window":          "cluster.window",
	"split":           "cluster.split",
	"assume-sorted":   "cluster.assume_sorted",
	"min-reads":       "cluster.min_reads",
	"name-prefix":     "cluster.name_prefix",
	"unique-prefix":   "cluster.unique_prefix",
	"multiple-prefix": "cluster.multiple_prefix",
	"unmapped-prefix": "cluster.unmapped_prefix",
	"mobile-tag":      "input.mobile_tag",
	"sample-tag":      "input.sample_tag",
	"output":          "output.path",
	"format":          "output.format",
	"sort":            "output.sort",
	"header":          "output.header",
	"log-level":       "logging.level",
	"log-file":        "logging.file",
	"metrics-addr":    "metrics.addr",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := boundFlags[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// loadConfig reads the config file, env and bound flags into a validated Config.
func (s *runState) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	s.v = config.NewViper(s.cfgFile)
	if err := bindFlags(s.v, cmd.Flags()); err != nil {
		return nil, err
	}
	if err := config.ReadFile(s.v, s.cfgFile != ""); err != nil {
		return nil, err
	}
	return config.Load(s.v)
}

func newRootCmd(s *runState) *cobra.Command {
	root := &cobra.Command{
		Use:   "meclust",
		Short: "Cluster mobile-element anchor reads into insertion candidates",
		Long: `meclust groups reference-sorted anchor alignments that support the same
mobile-element insertion and writes one synthetic summary alignment per cluster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(s.stdout)
	root.SetErr(s.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVarP(&s.cfgFile, "config", "c", "", "config file (default ./meclust.yaml or $XDG_CONFIG_HOME/meclust/meclust.yaml)")
	pf.String("log-level", "WARN", "log level: "+strings.Join(logging.ValidLevels(), ", "))
	pf.String("log-file", "", "write JSON logs to this file instead of stderr")

	root.AddCommand(newClusterCmd(s), newConfigCmd(s), newVersionCmd(s))
	return root
}

func newClusterCmd(s *runState) *cobra.Command {
	var (
		quiet, verbose bool
		noMatchCode    int
	)
	d := config.Default()
	cmd := &cobra.Command{
		Use:   "cluster [flags] <input.sam|input.bam|-> ...",
		Short: "Cluster anchor reads and write one summary record per cluster",
		Example: `  meclust cluster -o clusters.bam anchors.bam
  meclust cluster --split --min-reads 3 -f jsonl 'anchors/*.bam' > clusters.jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.loadConfig(cmd)
			if err != nil {
				return usageError{err}
			}
			inputs, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return usageError{err}
			}
			if err := cliutil.CheckReadable(inputs); err != nil {
				_, _ = fmt.Fprintln(s.stderr, err)
				return exitError{appcore.ExitIO}
			}

			log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
			if err != nil {
				return usageError{err}
			}
			defer log.Close()
			runID := uuid.NewString()
			log = log.WithRun(runID)

			code := appcore.Run(s.ctx, s.stdout, s.stderr, appcore.Options{
				Inputs:          inputs,
				Config:          cfg,
				RunID:           runID,
				Version:         version.Version,
				Quiet:           quiet,
				Verbose:         verbose,
				NoMatchExitCode: noMatchCode,
			}, log, metrics.NewRegistry())
			if code != appcore.ExitOK {
				return exitError{code}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int("window", d.Cluster.Window, "search area in bases past the last member's start")
	f.Bool("split", d.Cluster.Split, "split-read clusters (admit both strands)")
	f.Bool("assume-sorted", d.Cluster.AssumeSorted, "input is sorted by start; required for cluster starts")
	f.Int("min-reads", d.Cluster.MinReads, "drop clusters with fewer member reads")
	f.String("name-prefix", d.Cluster.NamePrefix, "prefix of emitted cluster names")
	f.String("unique-prefix", d.Cluster.UniquePrefix, "read-name prefix of unique mate pairs")
	f.String("multiple-prefix", d.Cluster.MultiplePrefix, "read-name prefix of multiply mapped mates")
	f.String("unmapped-prefix", d.Cluster.UnmappedPrefix, "read-name prefix of unmapped mates")
	f.String("mobile-tag", d.Input.MobileTag, "aux tag holding the mobile-element hits")
	f.String("sample-tag", d.Input.SampleTag, "aux tag holding the sample name")
	f.StringP("output", "o", d.Output.Path, `output path ("-" for stdout, ".sz" suffix for snappy)`)
	f.StringP("format", "f", d.Output.Format, "output format: sam, bam, jsonl, json, text (default from --output, else sam)")
	f.Bool("sort", d.Output.Sort, "sort text/json output by reference, start, name")
	f.Bool("header", d.Output.Header, "print a header row for text output")
	f.String("metrics-addr", d.Metrics.Addr, "serve Prometheus metrics on host:port during the run")
	f.BoolVarP(&quiet, "quiet", "q", false, "do not print the run summary")
	f.BoolVarP(&verbose, "verbose", "v", false, "break down dropped clusters and rejected reads by reason")
	f.IntVar(&noMatchCode, "no-match-exit-code", appcore.ExitNoMatch, "exit code when no cluster is written")
	return cmd
}

func newConfigCmd(s *runState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect meclust configuration",
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.loadConfig(cmd)
			if err != nil {
				return usageError{err}
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.AddCommand(show)
	return cmd
}

func newVersionCmd(s *runState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the meclust version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "meclust version %s\n", version.Version)
			return err
		},
	}
}

// RunContext executes one meclust command line and returns its exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	s := &runState{ctx: parent, stdout: outw, stderr: stderr}
	root := newRootCmd(s)
	root.SetArgs(argv)
	err := root.ExecuteContext(parent)

	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return appcore.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return appcore.ExitIO
	}

	var ee exitError
	switch {
	case err == nil:
		return appcore.ExitOK
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, context.Canceled):
		return appcore.ExitCancelled
	default:
		// Flag, argument and config problems.
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
