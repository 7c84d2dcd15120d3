package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/evaluator"
	"github.com/fluxlang/flux/pkg/flux/lexer"
	"github.com/fluxlang/flux/pkg/flux/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

// Keywords for tab completion; builtins are appended at startup.
var keywords = []string{
	"mut", "fn", "if", "else", "while", "return", "import",
	"true", "false",
}

// Options configures a REPL session.
type Options struct {
	// HistoryFile is where input history is persisted. Empty disables
	// history persistence.
	HistoryFile string

	// ModulePaths are extra directories searched by import.
	ModulePaths []string

	// Version is printed in the banner.
	Version string
}

// Start runs the interactive loop, reading from the terminal until
// the user exits with 'exit', 'quit', or Ctrl+D.
func Start(out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	completionWords := append([]string{}, keywords...)
	completionWords = append(completionWords, evaluator.BuiltinNames()...)
	line.SetCompleter(func(line string) []string {
		return filterCompletions(line, completionWords)
	})

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	env := evaluator.NewEnvironment()
	env.Filename = "<repl>"
	env.ModulePaths = opts.ModulePaths

	fmt.Fprintf(out, "Flux %s\n", opts.Version)
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any buffered input
				fmt.Fprintln(out, "^C")
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "")
				return
			}
			fmt.Fprintf(out, "error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			return
		}
		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		inputBuffer.Reset()

		l := lexer.NewWithFilename(fullInput, "<repl>")
		p := parser.New(l)
		program := p.ParseProgram()

		if errs := p.StructuredErrors(); len(errs) != 0 {
			printParseErrors(out, errs)
			continue
		}

		evaluated := evaluator.Eval(program, env)
		if evaluated == nil {
			continue
		}
		if errObj, ok := evaluated.(*evaluator.Error); ok {
			printRuntimeError(out, errObj)
			continue
		}
		if evaluated.Type() != evaluator.UNIT_OBJ {
			io.WriteString(out, evaluated.Inspect())
			io.WriteString(out, "\n")
		}
	}
}

// filterCompletions returns completion suggestions for the word being typed.
func filterCompletions(line string, words []string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	fields := strings.Fields(line)
	lastWord := fields[len(fields)-1]

	var matches []string
	for _, word := range words {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// needsMoreInput reports whether the input has unclosed braces,
// brackets, or parentheses outside of string literals.
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	braceCount := 0
	bracketCount := 0
	parenCount := 0
	inString := false
	escapeNext := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' {
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '[':
			bracketCount++
		case ']':
			bracketCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	return braceCount > 0 || bracketCount > 0 || parenCount > 0
}

func printParseErrors(out io.Writer, errs []*errors.FluxError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}

func printRuntimeError(out io.Writer, err *evaluator.Error) {
	io.WriteString(out, err.ToFluxError().PrettyString())
	io.WriteString(out, "\n")
}
