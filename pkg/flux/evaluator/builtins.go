// builtins.go - The fixed set of host-provided functions.
//
// Builtins are resolved when an identifier misses the whole environment
// chain, so a module snapshot never contains them.

package evaluator

import (
	"io"
	"os"
	"strconv"
	"strings"

	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
)

var builtinRegistry map[string]*Builtin

func init() {
	builtinRegistry = map[string]*Builtin{
		"print": {
			Name: "print",
			Fn: func(args []Object, env *Environment) Object {
				parts := make([]interface{}, len(args))
				for i, arg := range args {
					parts[i] = arg.Inspect()
				}
				env.Logger.LogLine(parts...)
				return UNIT
			},
		},
		"input": {
			Name: "input",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("input", len(args), 1)
				}
				prompt, ok := args[0].(*String)
				if !ok {
					return newArgTypeError("input", "a string", args[0])
				}

				env.Logger.Log(prompt.Value)

				in := env.Input
				if in == nil {
					in = defaultStdin
				}
				line, err := in.ReadString('\n')
				if err != nil && err != io.EOF {
					return newError(ferrors.ClassValue, "reading input failed: %s", err)
				}
				line = strings.TrimRight(line, "\r\n")
				return &String{Value: line}
			},
		},
		"int": {
			Name: "int",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("int", len(args), 1)
				}
				str, ok := args[0].(*String)
				if !ok {
					return newArgTypeError("int", "a string", args[0])
				}

				value, err := strconv.ParseInt(strings.TrimSpace(str.Value), 10, 64)
				if err != nil {
					return newError(ferrors.ClassValue, "int: %q is not a valid integer", str.Value)
				}
				return &Integer{Value: value}
			},
		},
		"len": {
			Name: "len",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("len", len(args), 1)
				}

				switch arg := args[0].(type) {
				case *String:
					return &Integer{Value: int64(len(arg.Value))}
				case *List:
					return &Integer{Value: int64(len(arg.Elements))}
				default:
					return newArgTypeError("len", "a list or a string", args[0])
				}
			},
		},
		"push": {
			Name: "push",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 2 {
					return newArityError("push", len(args), 2)
				}
				list, ok := args[0].(*List)
				if !ok {
					return newArgTypeError("push", "a list", args[0])
				}

				// Value semantics: the original list must stay unchanged,
				// so the result gets its own backing slice
				elements := make([]Object, 0, len(list.Elements)+1)
				elements = append(elements, list.Elements...)
				elements = append(elements, args[1])
				return &List{Elements: elements}
			},
		},
		"first": {
			Name: "first",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("first", len(args), 1)
				}
				list, ok := args[0].(*List)
				if !ok {
					return newArgTypeError("first", "a list", args[0])
				}
				if len(list.Elements) == 0 {
					return newError(ferrors.ClassIndex, "first: list is empty")
				}
				return list.Elements[0]
			},
		},
		"last": {
			Name: "last",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("last", len(args), 1)
				}
				list, ok := args[0].(*List)
				if !ok {
					return newArgTypeError("last", "a list", args[0])
				}
				if len(list.Elements) == 0 {
					return newError(ferrors.ClassIndex, "last: list is empty")
				}
				return list.Elements[len(list.Elements)-1]
			},
		},
		"read_file": {
			Name: "read_file",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("read_file", len(args), 1)
				}
				path, ok := args[0].(*String)
				if !ok {
					return newArgTypeError("read_file", "a string", args[0])
				}

				// A missing or unreadable file is data, not a failure
				content, err := os.ReadFile(path.Value)
				if err != nil {
					return &String{Value: ""}
				}
				return &String{Value: string(content)}
			},
		},
		"write_file": {
			Name: "write_file",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 2 {
					return newArityError("write_file", len(args), 2)
				}
				path, ok := args[0].(*String)
				if !ok {
					return newArgTypeError("write_file", "a string", args[0])
				}
				content, ok := args[1].(*String)
				if !ok {
					return newArgTypeError("write_file", "a string", args[1])
				}

				if err := os.WriteFile(path.Value, []byte(content.Value), 0644); err != nil {
					return FALSE
				}
				return TRUE
			},
		},
		"import": {
			Name: "import",
			Fn: func(args []Object, env *Environment) Object {
				if len(args) != 1 {
					return newArityError("import", len(args), 1)
				}
				path, ok := args[0].(*String)
				if !ok {
					return newArgTypeError("import", "a string", args[0])
				}
				return importModule(path.Value, env)
			},
		},
	}
}

// builtins returns the fixed builtin function table
func builtins() map[string]*Builtin {
	return builtinRegistry
}

// BuiltinNames returns the names of all builtins, for REPL completion
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinRegistry))
	for name := range builtinRegistry {
		names = append(names, name)
	}
	return names
}
