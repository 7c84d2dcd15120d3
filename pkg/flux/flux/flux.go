package flux

import (
	"bufio"
	"io"
	"os"

	"github.com/fluxlang/flux/pkg/flux/ast"
	"github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/evaluator"
	"github.com/fluxlang/flux/pkg/flux/lexer"
	"github.com/fluxlang/flux/pkg/flux/parser"
)

// Options configures an embedded interpreter run.
type Options struct {
	Filename    string    // reported in errors and used for import resolution
	ModulePaths []string  // extra directories searched by import()
	Logger      Logger    // sink for print output, default stdout
	Input       io.Reader // source for input(), default stdin
}

// Parse lexes and parses source, returning the program or the first error.
func Parse(source, filename string) (*ast.Program, *errors.FluxError) {
	l := lexer.NewWithFilename(source, filename)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) > 0 {
		return nil, errs[0].WithFile(filename)
	}
	return program, nil
}

// Run parses and evaluates source in a fresh top-level environment. The
// returned object is the value of the last top-level statement.
func Run(source string, opts Options) (evaluator.Object, *errors.FluxError) {
	if opts.Filename == "" {
		opts.Filename = "<input>"
	}

	program, perr := Parse(source, opts.Filename)
	if perr != nil {
		return nil, perr
	}

	env := NewEnvironment(opts)
	return RunProgram(program, env)
}

// RunFile reads and runs the script at path. The file's own path becomes
// the Filename, so errors point at it and sibling imports resolve.
func RunFile(path string, opts Options) (evaluator.Object, *errors.FluxError) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ClassImport, "cannot read %q: %s", path, err)
	}
	opts.Filename = path
	return Run(string(content), opts)
}

// RunProgram evaluates an already-parsed program against env.
func RunProgram(program *ast.Program, env *evaluator.Environment) (evaluator.Object, *errors.FluxError) {
	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		ferr := errObj.ToFluxError()
		if ferr.File == "" {
			ferr.File = env.Filename
		}
		return nil, ferr
	}
	return result, nil
}

// NewEnvironment builds a top-level environment from Options.
func NewEnvironment(opts Options) *evaluator.Environment {
	env := evaluator.NewEnvironment()
	env.Filename = opts.Filename
	env.ModulePaths = opts.ModulePaths
	if opts.Logger != nil {
		env.Logger = opts.Logger
	}
	if opts.Input != nil {
		env.Input = bufio.NewReader(opts.Input)
	}
	return env
}
