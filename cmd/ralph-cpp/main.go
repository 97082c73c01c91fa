package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/raymyers/ralph-cpp/pkg/accessor"
	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/config"
	"github.com/raymyers/ralph-cpp/pkg/converter"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/gribapi"
	"github.com/raymyers/ralph-cpp/pkg/sigtable"
	"github.com/raymyers/ralph-cpp/pkg/treeio"
	"github.com/raymyers/ralph-cpp/pkg/validation"
)

var version = "0.1.0"

// Debug flags for dumping the trees
var (
	dInput bool
	dCpp   bool
	dDiff  bool
)

// Conversion options
var (
	className  string
	configPath string
	tableFiles []string
	outputPath string
	policyFlag string
	noColor    bool
)

// ErrParse indicates the input unit had fragments that did not parse
var ErrParse = errors.New("input did not parse cleanly")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// accept single-dash debug flags like -dcpp
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ralph-cpp: %v\n", err)
		return 1
	}
	return 0
}

// debugFlagNames lists the debug flags that accept single-dash style
var debugFlagNames = []string{"dinput", "dcpp", "ddiff"}

// normalizeFlags converts single-dash debug flags like -dcpp to --dcpp
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ralph-cpp [unit.yaml]",
		Short: "ralph-cpp converts GRIB accessor C code to C++",
		Long: `ralph-cpp converts one unit of C accessor code, as produced by the
C front end, to C++. Signatures are mapped through the built-in tables
and any extra table files; code that cannot be converted safely is kept
as a comment in the output.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if noColor {
				color.NoColor = true
			}
			return convertFile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dInput, "dinput", "", false, "Dump the parsed C declarations")
	rootCmd.Flags().BoolVarP(&dCpp, "dcpp", "", false, "Dump the converted C++ instead of writing the output file")
	rootCmd.Flags().BoolVarP(&dDiff, "ddiff", "", false, "Show a line diff between the C input and the C++ output")

	rootCmd.Flags().StringVar(&className, "class", "", "Accessor class to convert as (overrides the unit's class)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file (default .ralph-cpp.yaml in . or $HOME)")
	rootCmd.Flags().StringArrayVar(&tableFiles, "tables", nil, "Extra signature table file, may be repeated")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: input with the output suffix)")
	rootCmd.Flags().StringVar(&policyFlag, "policy", "", "Unknown-call policy: favor_scalar or favor_container")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored diagnostics")
	rootCmd.Flags().SetNormalizeFunc(dashedNames)

	return rootCmd
}

// dashedNames lets --no_color stand for --no-color
func dashedNames(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newLogger builds the conversion log handler from config
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// loadSettings reads the config and applies flag overrides
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if policyFlag != "" {
		cfg.UnknownCallPolicy = policyFlag
	}
	cfg.Tables.Extra = append(cfg.Tables.Extra, tableFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputFilename returns the output file for a unit: bit.yaml -> bit.cc
func outputFilename(filename, suffix string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(filename, ext) {
			return filename[:len(filename)-len(ext)] + suffix
		}
	}
	return filename + suffix
}

// convertFile runs the whole conversion of one unit file
func convertFile(filename string, out, errOut io.Writer) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, errOut)
	if err != nil {
		return err
	}

	unit, err := treeio.LoadFile(filename)
	if err != nil {
		return err
	}
	nodes, parseErr := unit.Nodes()
	if parseErr != nil {
		warn(errOut, "%s: %v", filename, parseErr)
	}

	if dInput {
		printNodes(out, cfg, nodes)
		return nil
	}

	result, err := convert(unit, nodes, cfg, logger)
	if err != nil {
		return err
	}
	for _, d := range result.diags {
		warn(errOut, "%s: %v", filename, d)
	}

	if dDiff {
		writeDiff(out, render(cfg, nodes), result.String(cfg))
		return nil
	}
	if dCpp {
		fmt.Fprint(out, result.String(cfg))
		return nil
	}

	target := outputPath
	if target == "" {
		target = outputFilename(filename, cfg.Output.Suffix)
	}
	if err := os.WriteFile(target, []byte(result.String(cfg)), 0o644); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(errOut, "ralph-cpp: wrote %s (%d declarations, %d not converted)\n",
		target, len(result.nodes), len(result.diags))
	if parseErr != nil {
		return fmt.Errorf("%s: %w", filename, ErrParse)
	}
	return nil
}

// conversion is the converted unit ready to print
type conversion struct {
	class string // C++ class, empty for free functions
	base  string
	nodes []codeobj.Node
	diags []converter.Diagnostic
}

func convert(unit *treeio.Unit, nodes []codeobj.Node, cfg *config.Config, logger *slog.Logger) (*conversion, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	class := className
	if class == "" {
		class = unit.Class
	}

	// user tables go last so they can replace built-in members too
	var builtin []*sigtable.File
	if class != "" {
		members, err := accessor.Members()
		if err != nil {
			return nil, err
		}
		builtin = append(builtin, members)
	}
	tables, err := sigtable.Load(sigtable.Options{
		Stubs:      cfg.Tables.Stubs,
		Extra:      cfg.Tables.Extra,
		Containers: cfg.ContainerPrefixes(),
	}, builtin...)
	if err != nil {
		return nil, err
	}
	opts := []convpack.Option{convpack.WithLogger(logger), convpack.WithPolicy(policy)}

	if class == "" {
		pack := convpack.New(tables, opts...)
		conv := converter.New(validation.Default{}, converter.WithTextPass(gribapi.ConvertText))
		out, diags := conv.ConvertUnit(nodes, pack)
		return &conversion{nodes: out, diags: diags}, nil
	}

	u, err := accessor.NewUnit(tables, class, opts...)
	if err != nil {
		return nil, err
	}
	out, diags := u.Convert(nodes)
	return &conversion{class: u.ClassName, base: u.Base, nodes: out, diags: diags}, nil
}

// String renders the converted unit: the class declaration, when there is
// a class, followed by the definitions
func (c *conversion) String(cfg *config.Config) string {
	var buf bytes.Buffer
	p := codeobj.NewPrinterIndent(&buf, cfg.Output.Indent)
	if c.class != "" {
		p.PrintClass(c.class, c.base, c.nodes)
		fmt.Fprintln(&buf)
	}
	p.PrintNodes(c.nodes)
	return buf.String()
}

func render(cfg *config.Config, nodes []codeobj.Node) string {
	var buf bytes.Buffer
	printNodes(&buf, cfg, nodes)
	return buf.String()
}

func printNodes(w io.Writer, cfg *config.Config, nodes []codeobj.Node) {
	codeobj.NewPrinterIndent(w, cfg.Output.Indent).PrintNodes(nodes)
}

// writeDiff prints a line diff of two texts
func writeDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(w, "- %s\n", line)
			case diffmatchpatch.DiffInsert:
				added.Fprintf(w, "+ %s\n", line)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
}

func warn(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprintf(w, "ralph-cpp: warning: "+format+"\n", args...)
}
