package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fluxlang/flux/config"
	"github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/evaluator"
	"github.com/fluxlang/flux/pkg/flux/flux"
	"github.com/fluxlang/flux/pkg/flux/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.6.0"

var (
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	evalFlag     = flag.String("e", "", "Evaluate code string")
	evalLongFlag = flag.String("eval", "", "Evaluate code string")
	checkFlag    = flag.Bool("check", false, "Check syntax without executing")
	watchFlag    = flag.Bool("watch", false, "Re-run the script when it changes")

	configFlag = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("flux version %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		os.Exit(executeInline(evalCode, cfg))
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	case *watchFlag:
		if len(flag.Args()) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --watch requires a file")
			os.Exit(2)
		}
		if err := runWatch(flag.Args()[0], cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case len(flag.Args()) > 0:
		os.Exit(executeFile(flag.Args()[0], cfg))
	default:
		repl.Start(os.Stdout, repl.Options{
			HistoryFile: cfg.HistoryFile,
			ModulePaths: cfg.ModulePaths,
			Version:     Version,
		})
	}
}

func printHelp() {
	fmt.Printf(`flux - Flux language interpreter version %s

Usage:
  flux [options] [file]
  flux -e "code"
  flux --check <file>...
  flux --watch <file>

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Evaluation Options:
  -e, --eval <code>     Evaluate code string and print the result
  --check               Check syntax without executing (can specify multiple files)
  --watch               Re-run the script whenever it changes on disk

Other Options:
  --config <path>       Load settings from a config file (default: flux.yaml)

Examples:
  flux                     Start interactive REPL
  flux script.flux         Execute a Flux script
  flux -e "1 + 2"          Evaluate inline code (outputs: 3)
  flux --check script.flux Check syntax without executing
  flux --watch game.flux   Re-run on every save
`, Version)
}

// executeInline evaluates code provided via -e and prints the result
// unless it is unit.
func executeInline(code string, cfg *config.Config) int {
	result, ferr := flux.Run(code, flux.Options{
		Filename:    "<eval>",
		ModulePaths: cfg.ModulePaths,
	})
	if ferr != nil {
		printError("<eval>", code, ferr)
		return 1
	}
	if result != nil && result.Type() != evaluator.UNIT_OBJ {
		fmt.Println(result.Inspect())
	}
	return 0
}

// checkFiles parses one or more files without executing them.
func checkFiles(files []string) int {
	exitCode := 0

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}

		if _, ferr := flux.Parse(string(content), filename); ferr != nil {
			printError(filename, string(content), ferr)
			exitCode = 1
		}
	}

	return exitCode
}

// executeFile reads and runs a Flux source file.
func executeFile(filename string, cfg *config.Config) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		return 2
	}

	_, ferr := flux.Run(string(content), flux.Options{
		Filename:    filename,
		ModulePaths: cfg.ModulePaths,
	})
	if ferr != nil {
		printError(filename, string(content), ferr)
		return 1
	}
	return 0
}

// printError prints an error with source context.
func printError(filename, source string, err *errors.FluxError) {
	displaySource := source
	if err.File != "" && err.File != filename {
		// Error came from an imported module; show its source instead.
		if content, readErr := os.ReadFile(err.File); readErr == nil {
			displaySource = string(content)
		}
	}

	fmt.Fprintln(os.Stderr, err.PrettyString())
	printSourceContext(strings.Split(displaySource, "\n"), err.Line, err.Column)
}

// printSourceContext prints the source line and a pointer to the error column.
func printSourceContext(lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == '\t' {
			trimCount += 8
		} else if sourceLine[i] == ' ' {
			trimCount++
		} else {
			break
		}
	}

	trimmedLine := strings.TrimLeft(sourceLine, " \t")
	fmt.Fprintf(os.Stderr, "    %s\n", trimmedLine)

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}
		adjustedCol := max(visualCol-trimCount, 0)
		fmt.Fprintf(os.Stderr, "    %s^\n", strings.Repeat(" ", adjustedCol))
	}
}
