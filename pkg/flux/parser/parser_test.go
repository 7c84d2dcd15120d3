package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fluxlang/flux/pkg/flux/ast"
	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()

	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()

	errs := p.Errors()
	if len(errs) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errs))
	for _, msg := range errs {
		t.Errorf("parser error: %q", msg)
	}
	t.FailNow()
}

func TestMutStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      any
	}{
		{"mut x = 5", "x", 5},
		{"mut y = true", "y", true},
		{"mut foobar = y", "foobar", "y"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)

		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statement. got=%d",
				len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.MutStatement)
		if !ok {
			t.Fatalf("statement is not *ast.MutStatement. got=%T", program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedIdentifier {
			t.Errorf("stmt.Name.Value not %q. got=%q", tt.expectedIdentifier, stmt.Name.Value)
		}
		if !testLiteralExpression(t, stmt.Value, tt.expectedValue) {
			return
		}
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedValue any
	}{
		{"return 5", 5},
		{"return true", true},
		{"return foobar", "foobar"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)

		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statement. got=%d",
				len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("statement is not *ast.ReturnStatement. got=%T", program.Statements[0])
		}
		if !testLiteralExpression(t, stmt.ReturnValue, tt.expectedValue) {
			return
		}
	}
}

func TestBareReturnStatement(t *testing.T) {
	program := parseProgram(t, "fn() { return }")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	fnLit := stmt.Expression.(*ast.FunctionLiteral)
	ret, ok := fnLit.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("body statement is not *ast.ReturnStatement. got=%T", fnLit.Body.Statements[0])
	}
	if ret.ReturnValue != nil {
		t.Errorf("bare return should have nil ReturnValue. got=%v", ret.ReturnValue)
	}
}

func TestIfStatement(t *testing.T) {
	program := parseProgram(t, `if (x < y) { mut z = x }`)

	if len(program.Statements) != 1 {
		t.Fatalf("program.Statements does not contain 1 statement. got=%d",
			len(program.Statements))
	}

	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement is not *ast.IfStatement. got=%T", program.Statements[0])
	}

	if !testInfixExpression(t, stmt.Condition, "x", "<", "y") {
		return
	}

	if len(stmt.Consequence.Statements) != 1 {
		t.Errorf("consequence is not 1 statement. got=%d", len(stmt.Consequence.Statements))
	}

	if stmt.Alternative != nil {
		t.Errorf("stmt.Alternative was not nil. got=%+v", stmt.Alternative)
	}
}

func TestIfElseStatement(t *testing.T) {
	program := parseProgram(t, `if (x < y) { mut z = x } else { mut z = y }`)

	stmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement is not *ast.IfStatement. got=%T", program.Statements[0])
	}

	if stmt.Alternative == nil {
		t.Fatal("stmt.Alternative was nil")
	}
	if len(stmt.Alternative.Statements) != 1 {
		t.Errorf("alternative is not 1 statement. got=%d", len(stmt.Alternative.Statements))
	}
}

func TestWhileStatement(t *testing.T) {
	program := parseProgram(t, `while (i < 10) { mut i = i + 1 }`)

	if len(program.Statements) != 1 {
		t.Fatalf("program.Statements does not contain 1 statement. got=%d",
			len(program.Statements))
	}

	stmt, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("statement is not *ast.WhileStatement. got=%T", program.Statements[0])
	}

	if !testInfixExpression(t, stmt.Condition, "i", "<", 10) {
		return
	}

	if len(stmt.Body.Statements) != 1 {
		t.Errorf("body is not 1 statement. got=%d", len(stmt.Body.Statements))
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a + b / c", "(a + (b / c))"},
		{"5 < 4 == 3 > 4", "((5 < 4) == (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"(5 + 5) * 2", "((5 + 5) * 2)"},
		{"2 / (5 + 5)", "(2 / (5 + 5))"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"a * [1, 2, 3][b * c] * d", "((a * ([1, 2, 3][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)

		actual := program.String()
		if actual != tt.expected {
			t.Errorf("expected=%q, got=%q", tt.expected, actual)
		}
	}
}

func TestFunctionLiteralParsing(t *testing.T) {
	program := parseProgram(t, `fn(x, y) { x + y }`)

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	function, ok := stmt.Expression.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expression is not *ast.FunctionLiteral. got=%T", stmt.Expression)
	}

	if len(function.Parameters) != 2 {
		t.Fatalf("function parameters wrong. want 2, got=%d", len(function.Parameters))
	}

	testLiteralExpression(t, function.Parameters[0], "x")
	testLiteralExpression(t, function.Parameters[1], "y")

	if len(function.Body.Statements) != 1 {
		t.Fatalf("function body has %d statements. want 1", len(function.Body.Statements))
	}
}

func TestFunctionParameterParsing(t *testing.T) {
	tests := []struct {
		input          string
		expectedParams []string
	}{
		{"fn() {}", []string{}},
		{"fn(x) {}", []string{"x"}},
		{"fn(x, y, z) {}", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)

		stmt := program.Statements[0].(*ast.ExpressionStatement)
		function := stmt.Expression.(*ast.FunctionLiteral)

		if len(function.Parameters) != len(tt.expectedParams) {
			t.Errorf("parameter count wrong. want %d, got=%d",
				len(tt.expectedParams), len(function.Parameters))
		}

		for i, ident := range tt.expectedParams {
			testLiteralExpression(t, function.Parameters[i], ident)
		}
	}
}

func TestCallExpressionParsing(t *testing.T) {
	program := parseProgram(t, "add(1, 2 * 3, 4 + 5)")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is not *ast.CallExpression. got=%T", stmt.Expression)
	}

	if !testIdentifier(t, exp.Function, "add") {
		return
	}

	if len(exp.Arguments) != 3 {
		t.Fatalf("wrong number of arguments. got=%d", len(exp.Arguments))
	}

	testLiteralExpression(t, exp.Arguments[0], 1)
	testInfixExpression(t, exp.Arguments[1], 2, "*", 3)
	testInfixExpression(t, exp.Arguments[2], 4, "+", 5)
}

func TestListLiteralParsing(t *testing.T) {
	program := parseProgram(t, "[1, 2 * 2, 3 + 3]")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	list, ok := stmt.Expression.(*ast.ListLiteral)
	if !ok {
		t.Fatalf("expression is not *ast.ListLiteral. got=%T", stmt.Expression)
	}

	if len(list.Elements) != 3 {
		t.Fatalf("len(list.Elements) not 3. got=%d", len(list.Elements))
	}

	testIntegerLiteral(t, list.Elements[0], 1)
	testInfixExpression(t, list.Elements[1], 2, "*", 2)
	testInfixExpression(t, list.Elements[2], 3, "+", 3)
}

func TestEmptyListLiteralParsing(t *testing.T) {
	program := parseProgram(t, "[]")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	list := stmt.Expression.(*ast.ListLiteral)
	if len(list.Elements) != 0 {
		t.Errorf("expected empty list. got=%d elements", len(list.Elements))
	}
}

func TestDictLiteralParsing(t *testing.T) {
	program := parseProgram(t, `{"one": 1, "two": 2, "three": 3}`)

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	dict, ok := stmt.Expression.(*ast.DictLiteral)
	if !ok {
		t.Fatalf("expression is not *ast.DictLiteral. got=%T", stmt.Expression)
	}

	if len(dict.Pairs) != 3 {
		t.Fatalf("dict.Pairs has wrong length. got=%d", len(dict.Pairs))
	}

	expected := []struct {
		key   string
		value int64
	}{
		{"one", 1},
		{"two", 2},
		{"three", 3},
	}

	// Pair order must match the literal
	for i, want := range expected {
		pair := dict.Pairs[i]
		if pair.Key.Value != want.key {
			t.Errorf("pairs[%d] key = %q, want %q", i, pair.Key.Value, want.key)
		}
		testIntegerLiteral(t, pair.Value, want.value)
	}
}

func TestEmptyDictLiteralParsing(t *testing.T) {
	program := parseProgram(t, "{}")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	dict := stmt.Expression.(*ast.DictLiteral)
	if len(dict.Pairs) != 0 {
		t.Errorf("expected empty dict. got=%d pairs", len(dict.Pairs))
	}
}

func TestIndexExpressionParsing(t *testing.T) {
	program := parseProgram(t, "myList[1 + 1]")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	indexExp, ok := stmt.Expression.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expression is not *ast.IndexExpression. got=%T", stmt.Expression)
	}

	if !testIdentifier(t, indexExp.Left, "myList") {
		return
	}
	if !testInfixExpression(t, indexExp.Index, 1, "+", 1) {
		return
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input         string
		expectedClass ferrors.ErrorClass
		wantSubstring string
	}{
		{"mut = 5", ferrors.ClassParse, "expected an identifier"},
		{"mut x 5", ferrors.ClassParse, "expected '='"},
		{"if (x { }", ferrors.ClassParse, "expected ')'"},
		{"while (true) { mut x = 1", ferrors.ClassParse, "unexpected end of input"},
		{"mut x = ", ferrors.ClassParse, "unexpected end of input"},
		{`{"key" 1}`, ferrors.ClassParse, "expected ':'"},
		{`{1: 2}`, ferrors.ClassParse, "expected a string literal"},
		{`mut s = "abc`, ferrors.ClassLex, "unterminated string literal"},
		{"mut x = 1 @", ferrors.ClassLex, "unrecognized character"},
	}

	for _, tt := range tests {
		l := lexer.New(tt.input)
		p := New(l)
		p.ParseProgram()

		errs := p.StructuredErrors()
		if len(errs) == 0 {
			t.Errorf("input %q: expected a parse error, got none", tt.input)
			continue
		}
		if len(errs) != 1 {
			t.Errorf("input %q: expected exactly 1 error, got %d", tt.input, len(errs))
		}
		err := errs[0]
		if err.Class != tt.expectedClass {
			t.Errorf("input %q: class = %q, want %q", tt.input, err.Class, tt.expectedClass)
		}
		if !strings.Contains(err.Message, tt.wantSubstring) {
			t.Errorf("input %q: message %q does not contain %q", tt.input, err.Message, tt.wantSubstring)
		}
		if err.Line == 0 {
			t.Errorf("input %q: error has no line number", tt.input)
		}
	}
}

func TestOnlyFirstErrorReported(t *testing.T) {
	// A stream of garbage should still produce a single diagnostic.
	l := lexer.New("mut = mut = mut =")
	p := New(l)
	p.ParseProgram()

	if got := len(p.StructuredErrors()); got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
}

func testLiteralExpression(t *testing.T, exp ast.Expression, expected any) bool {
	t.Helper()

	switch v := expected.(type) {
	case int:
		return testIntegerLiteral(t, exp, int64(v))
	case int64:
		return testIntegerLiteral(t, exp, v)
	case string:
		return testIdentifier(t, exp, v)
	case bool:
		return testBooleanLiteral(t, exp, v)
	}
	t.Errorf("type of exp not handled. got=%T", exp)
	return false
}

func testIntegerLiteral(t *testing.T, il ast.Expression, value int64) bool {
	t.Helper()

	integ, ok := il.(*ast.IntegerLiteral)
	if !ok {
		t.Errorf("il not *ast.IntegerLiteral. got=%T", il)
		return false
	}
	if integ.Value != value {
		t.Errorf("integ.Value not %d. got=%d", value, integ.Value)
		return false
	}
	if integ.TokenLiteral() != fmt.Sprintf("%d", value) {
		t.Errorf("integ.TokenLiteral not %d. got=%s", value, integ.TokenLiteral())
		return false
	}
	return true
}

func testIdentifier(t *testing.T, exp ast.Expression, value string) bool {
	t.Helper()

	ident, ok := exp.(*ast.Identifier)
	if !ok {
		t.Errorf("exp not *ast.Identifier. got=%T", exp)
		return false
	}
	if ident.Value != value {
		t.Errorf("ident.Value not %q. got=%q", value, ident.Value)
		return false
	}
	return true
}

func testBooleanLiteral(t *testing.T, exp ast.Expression, value bool) bool {
	t.Helper()

	bo, ok := exp.(*ast.BooleanLiteral)
	if !ok {
		t.Errorf("exp not *ast.BooleanLiteral. got=%T", exp)
		return false
	}
	if bo.Value != value {
		t.Errorf("bo.Value not %t. got=%t", value, bo.Value)
		return false
	}
	return true
}

func testInfixExpression(t *testing.T, exp ast.Expression, left any, operator string, right any) bool {
	t.Helper()

	opExp, ok := exp.(*ast.InfixExpression)
	if !ok {
		t.Errorf("exp is not *ast.InfixExpression. got=%T(%s)", exp, exp)
		return false
	}
	if !testLiteralExpression(t, opExp.Left, left) {
		return false
	}
	if opExp.Operator != operator {
		t.Errorf("exp.Operator is not %q. got=%q", operator, opExp.Operator)
		return false
	}
	return testLiteralExpression(t, opExp.Right, right)
}
