package evaluator

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fluxlang/flux/pkg/flux/ast"
	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	LIST_OBJ     = "LIST"
	DICT_OBJ     = "DICT"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	UNIT_OBJ     = "UNIT"
	RETURN_OBJ   = "RETURN_VALUE"
	ERROR_OBJ    = "ERROR"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer represents integer objects
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// String represents string objects
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// Unit represents the no-value result of statements and of 'print'
type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "()" }

// Singletons - there is only ever one true, one false, and one unit
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	UNIT  = &Unit{}
)

// ReturnValue wraps other objects while a 'return' unwinds to its call frame
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error represents runtime error objects with position information
type Error struct {
	Class   ferrors.ErrorClass
	Message string
	Line    int
	Column  int
	File    string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s error: %s", e.Line, e.Column, e.Class, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Class, e.Message)
}

// ToFluxError converts this Error to a FluxError for the host.
func (e *Error) ToFluxError() *ferrors.FluxError {
	class := e.Class
	if class == "" {
		class = ferrors.ClassType
	}
	return &ferrors.FluxError{
		Class:   class,
		Message: e.Message,
		Line:    e.Line,
		Column:  e.Column,
		File:    e.File,
	}
}

// List represents list objects. Lists have value semantics: every operation
// that "adds" (push, list +) allocates a fresh backing slice, so aliases of a
// list never observe in-place changes.
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	var out strings.Builder
	elements := []string{}
	for _, e := range l.Elements {
		elements = append(elements, e.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}

// Dict represents dictionary objects with unique string keys. Insertion order
// is preserved for display; re-inserting an existing key overwrites its value
// but keeps the original position.
type Dict struct {
	store map[string]Object
	keys  []string
}

// NewDict creates an empty dictionary
func NewDict() *Dict {
	return &Dict{store: make(map[string]Object)}
}

// Get returns the value bound to key
func (d *Dict) Get(key string) (Object, bool) {
	val, ok := d.store[key]
	return val, ok
}

// Set binds key to val, keeping the original position on overwrite
func (d *Dict) Set(key string, val Object) {
	if _, ok := d.store[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.store[key] = val
}

// Len returns the number of keys
func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order
func (d *Dict) Keys() []string { return d.keys }

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	var out strings.Builder
	pairs := []string{}
	for _, key := range d.keys {
		pairs = append(pairs, fmt.Sprintf("%q: %s", key, d.store[key].Inspect()))
	}
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Function represents function objects. The defining environment is captured
// by reference, which is what makes closures lexical rather than dynamic.
type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	return fmt.Sprintf("fn(%s) { ... }", strings.Join(params, ", "))
}

// BuiltinFunction is the signature of host-provided functions. Builtins get
// the calling environment so they can reach the Logger, the input reader, and
// the module loader context.
type BuiltinFunction func(args []Object, env *Environment) Object

// Builtin represents built-in function objects
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }

// Logger is the sink for 'print' output
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	for _, v := range values {
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	for _, v := range values {
		fmt.Print(v)
	}
	fmt.Println()
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// defaultStdin wraps os.Stdin once, so successive input() calls share one
// buffer.
var defaultStdin = bufio.NewReader(os.Stdin)

// Environment represents the environment for variable bindings. Environments
// form a parent-linked tree; a frame stays alive as long as any Function value
// captured it.
type Environment struct {
	store map[string]Object
	order []string // binding order, for module snapshots
	outer *Environment

	Filename    string        // file being evaluated, for error reporting and import resolution
	ModulePaths []string      // extra directories searched by import()
	Logger      Logger        // sink for print output
	Input       *bufio.Reader // source for input(), nil means stdin
}

// NewEnvironment creates a new top-level environment
func NewEnvironment() *Environment {
	return &Environment{
		store:  make(map[string]Object),
		outer:  nil,
		Logger: DefaultLogger,
	}
}

// NewEnclosedEnvironment creates a new environment with outer reference
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	// Preserve filename, logger, input, and module paths from the outer environment
	if outer != nil {
		env.Filename = outer.Filename
		env.ModulePaths = outer.ModulePaths
		env.Logger = outer.Logger
		env.Input = outer.Input
	}
	return env
}

// Get retrieves a value from the environment chain
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Set stores a value in this frame, unconditionally
func (e *Environment) Set(name string, val Object) Object {
	if _, ok := e.store[name]; !ok {
		e.order = append(e.order, name)
	}
	e.store[name] = val
	return val
}

// Update implements the 'mut' declare-or-mutate rule: walk the chain outward
// and overwrite the binding where it already lives, so closures and enclosing
// scopes observe the change; if the name is bound nowhere, create it in the
// current (innermost) frame.
func (e *Environment) Update(name string, val Object) Object {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return val
	}

	if e.outer != nil {
		if _, ok := e.outer.Get(name); ok {
			return e.outer.Update(name, val)
		}
	}

	return e.Set(name, val)
}

// Snapshot reifies this frame's bindings as a Dict, in binding order. Used by
// the module loader; only this frame is read, never the chain.
func (e *Environment) Snapshot() *Dict {
	dict := NewDict()
	for _, name := range e.order {
		dict.Set(name, e.store[name])
	}
	return dict
}

// Eval walks the AST and produces a value, or an *Error that callers
// propagate upward unchanged.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node.Statements, env)

	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)

	case *ast.MutStatement:
		val := Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Update(node.Name.Value, val)
		return UNIT

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &ReturnValue{Value: UNIT}
		}
		val := Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}

	case *ast.IfStatement:
		return evalIfStatement(node, env)

	case *ast.WhileStatement:
		return evalWhileStatement(node, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	// Expressions
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &String{Value: node.Value}

	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.PrefixExpression:
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalPrefixExpression(node, right)

	case *ast.InfixExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Token, node.Operator, left, right)

	case *ast.ListLiteral:
		elements := evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &List{Elements: elements}

	case *ast.DictLiteral:
		return evalDictLiteral(node, env)

	case *ast.IndexExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		index := Eval(node.Index, env)
		if isError(index) {
			return index
		}
		return evalIndexExpression(node.Token, left, index)

	case *ast.FunctionLiteral:
		return &Function{Parameters: node.Parameters, Body: node.Body, Env: env}

	case *ast.CallExpression:
		function := Eval(node.Function, env)
		if isError(function) {
			return function
		}
		args := evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return applyFunction(node, function, args, env)
	}

	return newError(ferrors.ClassType, "unknown AST node %T", node)
}

func evalProgram(stmts []ast.Statement, env *Environment) Object {
	var result Object = UNIT

	for _, statement := range stmts {
		result = Eval(statement, env)

		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		}
	}

	return result
}

// evalBlockStatement runs a block's statements in env. Callers create the
// fresh child environment; this keeps "one frame per block entry" in exactly
// one place per construct.
func evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = UNIT

	for _, statement := range block.Statements {
		result = Eval(statement, env)

		if result != nil {
			rt := result.Type()
			if rt == RETURN_OBJ || rt == ERROR_OBJ {
				return result
			}
		}
	}

	return result
}

func evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	cond, ok := condition.(*Boolean)
	if !ok {
		return newErrorWithPos(ferrors.ClassType, node.Token,
			"if condition must be a boolean, got %s", condition.Type())
	}

	if cond.Value {
		return evalBlockStatement(node.Consequence, NewEnclosedEnvironment(env))
	}
	if node.Alternative != nil {
		return evalBlockStatement(node.Alternative, NewEnclosedEnvironment(env))
	}
	return UNIT
}

func evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		condition := Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}

		cond, ok := condition.(*Boolean)
		if !ok {
			return newErrorWithPos(ferrors.ClassType, node.Token,
				"while condition must be a boolean, got %s", condition.Type())
		}
		if !cond.Value {
			return UNIT
		}

		// Each iteration gets its own frame; accumulators declared before
		// the loop live in an enclosing frame and are found-and-mutated.
		result := evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
		if result != nil {
			rt := result.Type()
			if rt == RETURN_OBJ || rt == ERROR_OBJ {
				return result
			}
		}
	}
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}

	if builtin, ok := builtins()[node.Value]; ok {
		return builtin
	}

	return newErrorWithPos(ferrors.ClassName, node.Token, "identifier not found: %s", node.Value)
}

func evalExpressions(exps []ast.Expression, env *Environment) []Object {
	var result []Object

	for _, e := range exps {
		evaluated := Eval(e, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func evalDictLiteral(node *ast.DictLiteral, env *Environment) Object {
	dict := NewDict()

	for _, pair := range node.Pairs {
		value := Eval(pair.Value, env)
		if isError(value) {
			return value
		}
		dict.Set(pair.Key.Value, value)
	}

	return dict
}

func applyFunction(node *ast.CallExpression, fn Object, args []Object, env *Environment) Object {
	switch fn := fn.(type) {
	case *Function:
		if len(args) != len(fn.Parameters) {
			return newErrorWithPos(ferrors.ClassType, node.Token,
				"wrong number of arguments: expected %d, got %d", len(fn.Parameters), len(args))
		}
		extendedEnv := extendFunctionEnv(fn, args)
		evaluated := evalBlockStatement(fn.Body, extendedEnv)
		return unwrapReturnValue(evaluated)
	case *Builtin:
		result := fn.Fn(args, env)
		if err, ok := result.(*Error); ok && err.Line == 0 {
			// Builtins don't know where they were called from
			err.Line = node.Token.Line
			err.Column = node.Token.Column
		}
		return result
	default:
		return newErrorWithPos(ferrors.ClassType, node.Token, "cannot call %s as a function", fn.Type())
	}
}

// extendFunctionEnv creates the call-body frame: its parent is the function's
// captured defining environment, never the caller's.
func extendFunctionEnv(fn *Function, args []Object) *Environment {
	env := NewEnclosedEnvironment(fn.Env)

	for paramIdx, param := range fn.Parameters {
		env.Set(param.Value, args[paramIdx])
	}

	return env
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	// A function body that never executes 'return' yields Unit
	if obj != nil && obj.Type() == ERROR_OBJ {
		return obj
	}
	return UNIT
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
