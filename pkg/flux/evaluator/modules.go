// modules.go - The 'import' module loader.
//
// import(path) re-enters the lex->parse->eval pipeline on another file, runs
// its top-level statements in a fresh parentless environment, and reifies the
// resulting bindings as a Dict. Every call re-executes the file from scratch;
// there is no cache and no cycle detection, so a module that imports itself
// will not terminate.

package evaluator

import (
	"os"
	"path/filepath"

	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/lexer"
	"github.com/fluxlang/flux/pkg/flux/parser"
)

// importModule loads and executes the module at path, returning its top-level
// bindings as a Dict.
func importModule(path string, env *Environment) Object {
	resolved, err := resolveModulePath(path, env)
	if err != nil {
		return newError(ferrors.ClassImport, "cannot import %q: %s", path, err)
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return newError(ferrors.ClassImport, "cannot import %q: %s", path, err)
	}

	l := lexer.NewWithFilename(string(content), resolved)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) > 0 {
		perr := errs[0]
		return &Error{
			Class:   perr.Class,
			Message: perr.Message,
			Line:    perr.Line,
			Column:  perr.Column,
			File:    resolved,
		}
	}

	// The module gets its own parentless top-level environment; only the
	// ambient host plumbing is carried over
	moduleEnv := NewEnvironment()
	moduleEnv.Filename = resolved
	moduleEnv.ModulePaths = env.ModulePaths
	moduleEnv.Logger = env.Logger
	moduleEnv.Input = env.Input

	// Top-level side effects (print and friends) run exactly once per call,
	// just as a directly-executed script's would
	result := Eval(program, moduleEnv)
	if errObj, ok := result.(*Error); ok {
		if errObj.File == "" {
			errObj.File = resolved
		}
		return errObj
	}

	return moduleEnv.Snapshot()
}

// resolveModulePath finds the file for an import. Relative paths are tried
// against the working directory first (the same lookup read_file would do),
// then the importing file's directory, then any configured module paths.
func resolveModulePath(path string, env *Environment) (string, error) {
	if filepath.IsAbs(path) {
		return path, checkRegularFile(path)
	}

	candidates := []string{path}
	if env.Filename != "" && env.Filename != "<input>" {
		candidates = append(candidates, filepath.Join(filepath.Dir(env.Filename), path))
	}
	for _, dir := range env.ModulePaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	var firstErr error
	for _, candidate := range candidates {
		if err := checkRegularFile(candidate); err == nil {
			return candidate, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

func checkRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "import", Path: path, Err: os.ErrInvalid}
	}
	return nil
}
