package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cparse/cparse/pkg/cabs"
	"github.com/cparse/cparse/pkg/lexer"
	"github.com/cparse/cparse/pkg/parser"
	"github.com/cparse/cparse/pkg/preproc"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug flags for dumping intermediate output
var (
	dParse bool
	dPP    bool // Debug preprocessor
)

// Preprocessor options
var (
	includePaths   []string
	systemPaths    []string
	defineFlags    []string
	undefineFlags  []string
	preprocessOnly bool // -E flag
	useExternalPP  bool // Use external preprocessor
)

// predeclaredTypedefs seeds the global scope with typedef names a
// translation unit may reference without a visible definition.
var predeclaredTypedefs = []string{"__builtin_va_list"}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Normalize CompCert-style single-dash flags to double-dash for pflag compatibility
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists all debug flags that should accept single-dash style (CompCert compatibility)
var debugFlagNames = []string{"dparse", "dpp"}

// normalizeFlags converts CompCert-style single-dash flags like -dparse to --dparse
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
		Use:   "cparser [file]",
		Short: "cparser parses a C source file into an abstract syntax tree",
		Long: `cparser is a recursive-descent parser frontend for a C99-ish
subset of C. It preprocesses its input, parses it into a Cabs AST, and
can dump the AST in a minimal re-parseable textual form.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			if preprocessOnly {
				return doPreprocessOnly(filename, out, errOut)
			}

			if dPP {
				return doPreprocessDebug(filename, out, errOut)
			}

			if dParse {
				return doParse(filename, out, errOut)
			}

			fmt.Fprintf(errOut, "cparser: parsing %s\n", filename)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVarP(&dParse, "dparse", "", false, "Dump the parsed AST")
	rootCmd.Flags().BoolVarP(&dPP, "dpp", "", false, "Debug preprocessor operation")

	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVar(&systemPaths, "isystem", nil, "Add directory to system include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().BoolVarP(&preprocessOnly, "preprocess", "E", false, "Preprocess only, output to stdout")
	rootCmd.Flags().BoolVar(&useExternalPP, "external-cpp", false, "Use external C preprocessor instead of internal")

	return rootCmd
}

// buildPreprocessorOptions creates preproc.Options from CLI flags
func buildPreprocessorOptions() *preproc.Options {
	opts := &preproc.Options{
		IncludePaths: includePaths,
		SystemPaths:  systemPaths,
		Defines:      make(map[string]string),
		Undefines:    undefineFlags,
		UseExternal:  useExternalPP,
	}

	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			opts.Defines[d[:idx]] = d[idx+1:]
		} else {
			opts.Defines[d] = ""
		}
	}

	return opts
}

// readAndPreprocess reads a C file and optionally preprocesses it.
func readAndPreprocess(filename string, errOut io.Writer) (string, error) {
	if preproc.NeedsPreprocessing(filename) {
		opts := buildPreprocessorOptions()
		content, err := preproc.Preprocess(filename, opts)
		if err != nil {
			fmt.Fprintf(errOut, "cparser: preprocessing error: %v\n", err)
			return "", err
		}
		return content, nil
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(errOut, "cparser: error reading %s: %v\n", filename, err)
		return "", err
	}
	return string(content), nil
}

// doPreprocessOnly preprocesses and outputs to stdout (-E flag)
func doPreprocessOnly(filename string, out, errOut io.Writer) error {
	opts := buildPreprocessorOptions()
	opts.LineMarkers = true

	content, err := preproc.Preprocess(filename, opts)
	if err != nil {
		fmt.Fprintf(errOut, "cparser: preprocessing error: %v\n", err)
		return err
	}

	fmt.Fprint(out, content)
	return nil
}

// doPreprocessDebug preprocesses with debug info and outputs to .i file (-dpp flag)
func doPreprocessDebug(filename string, out, errOut io.Writer) error {
	opts := buildPreprocessorOptions()
	opts.LineMarkers = true

	content, err := preproc.Preprocess(filename, opts)
	if err != nil {
		fmt.Fprintf(errOut, "cparser: preprocessing error: %v\n", err)
		return err
	}

	outputFilename := preprocessedOutputFilename(filename)

	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "cparser: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	outFile.WriteString(content)
	fmt.Fprint(out, content)

	return nil
}

// preprocessedOutputFilename returns the output filename for -dpp
func preprocessedOutputFilename(filename string) string {
	ext := ".c"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".i"
	}
	return filename + ".i"
}

// parseFile preprocesses and parses a C file, returning the AST
func parseFile(filename string, errOut io.Writer) (*cabs.Program, error) {
	content, err := readAndPreprocess(filename, errOut)
	if err != nil {
		return nil, err
	}

	l := lexer.New(content)
	p := parser.New(l, predeclaredTypedefs)
	program := p.ParseProgram()

	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(errOut, "%s:%d:%d: %s\n", filename, e.Line, e.Column, e.Message)
		}
		return nil, fmt.Errorf("parsing failed with %d errors", len(p.Errors()))
	}
	return program, nil
}

// doParse parses the file and writes the AST to a .parsed.c file (matching CompCert behavior)
func doParse(filename string, out, errOut io.Writer) error {
	program, err := parseFile(filename, errOut)
	if err != nil {
		return err
	}

	outputFilename := parsedOutputFilename(filename)

	outFile, err := os.Create(outputFilename)
	if err != nil {
		fmt.Fprintf(errOut, "cparser: error creating %s: %v\n", outputFilename, err)
		return err
	}
	defer outFile.Close()

	printer := cabs.NewPrinter(outFile)
	printer.PrintProgram(program)

	printer = cabs.NewPrinter(out)
	printer.PrintProgram(program)

	return nil
}

// parsedOutputFilename returns the output filename for -dparse
// input.c -> input.parsed.c (matching CompCert convention)
func parsedOutputFilename(filename string) string {
	ext := ".c"
	if strings.HasSuffix(filename, ext) {
		return filename[:len(filename)-len(ext)] + ".parsed.c"
	}
	return filename + ".parsed.c"
}
