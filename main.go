// Command smartdim runs sketch scripts through the constraint inference
// core and reports the constraints they produce.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/smartdim/pkg/command"
	"github.com/chazu/smartdim/pkg/engine"
	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/prefs"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Prefs   string // preferences file, empty for defaults
	Timeout time.Duration

	prefs  prefs.Preferences
	logger *slog.Logger
}

var validFormats = []string{"text", "json"}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "smartdim",
		Short: "Constraint inference for 2D sketches",
		Long: `smartdim infers dimensional and geometric constraints from a selection
of sketch geometry. Scripts build a sketch, pick geometry and cycle through
the interpretations the decision table offers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(validFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			opts.prefs = prefs.Default()
			if opts.Prefs != "" {
				p, err := prefs.Load(opts.Prefs)
				if err != nil {
					return &ExitError{Code: ExitCommandError, Message: "loading preferences", Err: err}
				}
				opts.prefs = p
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Prefs, "prefs", "", "preferences file (YAML)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", engine.DefaultTimeout, "evaluation time limit (0 for none)")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newTableCommand(opts))
	cmd.AddCommand(newCommandsCommand(opts))
	return cmd
}

// ---------------------------------------------------------------------------
// run
// ---------------------------------------------------------------------------

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Evaluate a script and print the resulting constraints",
		Long: `Evaluate a smartdim script and print the constraints in the final sketch.
Use "-" to read the script from standard input.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "reading script", Err: err}
			}
			app := NewApp(opts.logger, engine.WithPreferences(opts.prefs), engine.WithTimeout(opts.Timeout))
			res := app.EvaluateContext(cmd.Context(), string(source))

			f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
			ok := len(res.Errors) == 0
			if err := f.write(ok, res, func(w io.Writer) { printResult(w, res, opts.Verbose) }); err != nil {
				return err
			}
			if !ok {
				return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%s: %d error(s)", args[0], len(res.Errors))}
			}
			return nil
		},
	}
}

func readScript(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func printResult(w io.Writer, res EvalResult, verbose bool) {
	for _, e := range res.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
	}
	if len(res.Errors) > 0 {
		return
	}
	if verbose {
		for _, s := range res.Steps {
			fmt.Fprintf(w, "> %s\n", s)
		}
	}
	fmt.Fprintf(w, "%d geometries, %d constraints\n", res.Geometry, len(res.Constraints))
	for _, c := range res.Constraints {
		fmt.Fprintf(w, "%3d  %s\n", c.Index, c.Text)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Message)
	}
}

// ---------------------------------------------------------------------------
// table
// ---------------------------------------------------------------------------

type ruleData struct {
	Rule   string   `json:"rule"`
	Offers []string `json:"offers"`
}

func newTableCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the decision table for the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := infer.New(opts.prefs)
			var rules []ruleData
			for _, r := range table.Rules() {
				d := ruleData{Rule: r.Name(), Offers: []string{}}
				for _, o := range r.Offers {
					d.Offers = append(d.Offers, o.Label)
				}
				rules = append(rules, d)
			}
			f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
			return f.write(true, rules, func(w io.Writer) { fmt.Fprint(w, table.Describe()) })
		},
	}
}

// ---------------------------------------------------------------------------
// commands
// ---------------------------------------------------------------------------

type commandData struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Cursor    string   `json:"cursor"`
	Sequences []string `json:"sequences"`
	Hints     []string `json:"hints"`
}

func newCommandsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the single-purpose constraint commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cmds []commandData
			for _, c := range command.All() {
				d := commandData{Name: c.Name, Type: c.Type.String(), Cursor: c.Cursor(), Hints: c.Hints}
				for _, s := range c.Sequences {
					d.Sequences = append(d.Sequences, s.String())
				}
				cmds = append(cmds, d)
			}
			f := &formatter{format: opts.Format, w: cmd.OutOrStdout()}
			return f.write(true, cmds, func(w io.Writer) {
				for _, c := range cmds {
					fmt.Fprintf(w, "%-16s %s\n", c.Name, c.Cursor)
					for _, s := range c.Sequences {
						fmt.Fprintf(w, "    %s\n", s)
					}
				}
			})
		},
	}
}
