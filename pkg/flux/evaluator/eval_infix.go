package evaluator

import (
	"strconv"

	"github.com/fluxlang/flux/pkg/flux/ast"
	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/lexer"
)

func evalPrefixExpression(node *ast.PrefixExpression, right Object) Object {
	switch node.Operator {
	case "-":
		if integer, ok := right.(*Integer); ok {
			return &Integer{Value: -integer.Value}
		}
		return newErrorWithPos(ferrors.ClassType, node.Token, "unknown operator: -%s", right.Type())
	default:
		return newErrorWithPos(ferrors.ClassType, node.Token, "unknown operator: %s%s", node.Operator, right.Type())
	}
}

func evalInfixExpression(tok lexer.Token, operator string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfixExpression(tok, operator, left.(*Integer), right.(*Integer))

	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfixExpression(tok, operator, left.(*String), right.(*String))

	// '+' coerces the Int operand to its decimal text and concatenates
	case operator == "+" && left.Type() == STRING_OBJ && right.Type() == INTEGER_OBJ:
		return &String{Value: left.(*String).Value + strconv.FormatInt(right.(*Integer).Value, 10)}

	case operator == "+" && left.Type() == INTEGER_OBJ && right.Type() == STRING_OBJ:
		return &String{Value: strconv.FormatInt(left.(*Integer).Value, 10) + right.(*String).Value}

	case left.Type() == LIST_OBJ && right.Type() == LIST_OBJ:
		return evalListInfixExpression(tok, operator, left.(*List), right.(*List))

	case left.Type() == BOOLEAN_OBJ && right.Type() == BOOLEAN_OBJ:
		if operator == "==" {
			return nativeBoolToBooleanObject(left.(*Boolean).Value == right.(*Boolean).Value)
		}
		return newErrorWithPos(ferrors.ClassType, tok,
			"unknown operator: %s %s %s", left.Type(), operator, right.Type())

	// Cross-kind '==' is false, never an error. The other operators have no
	// cross-kind meaning.
	case operator == "==":
		return FALSE

	default:
		return newErrorWithPos(ferrors.ClassType, tok,
			"type mismatch: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIntegerInfixExpression(tok lexer.Token, operator string, left, right *Integer) Object {
	switch operator {
	case "+":
		return &Integer{Value: left.Value + right.Value}
	case "-":
		return &Integer{Value: left.Value - right.Value}
	case "*":
		return &Integer{Value: left.Value * right.Value}
	case "/":
		if right.Value == 0 {
			return newErrorWithPos(ferrors.ClassValue, tok, "division by zero")
		}
		// Go division truncates toward zero, so the script-level modulo
		// idiom a - (b * (a / b)) tracks the dividend's sign
		return &Integer{Value: left.Value / right.Value}
	case "<":
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case ">":
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case "==":
		return nativeBoolToBooleanObject(left.Value == right.Value)
	default:
		return newErrorWithPos(ferrors.ClassType, tok,
			"unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalStringInfixExpression(tok lexer.Token, operator string, left, right *String) Object {
	switch operator {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "<":
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case ">":
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case "==":
		return nativeBoolToBooleanObject(left.Value == right.Value)
	default:
		return newErrorWithPos(ferrors.ClassType, tok,
			"unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalListInfixExpression(tok lexer.Token, operator string, left, right *List) Object {
	switch operator {
	case "+":
		// Fresh backing slice - neither operand is aliased by the result
		elements := make([]Object, 0, len(left.Elements)+len(right.Elements))
		elements = append(elements, left.Elements...)
		elements = append(elements, right.Elements...)
		return &List{Elements: elements}
	case "==":
		return FALSE
	default:
		return newErrorWithPos(ferrors.ClassType, tok,
			"unknown operator: %s %s %s", left.Type(), operator, right.Type())
	}
}

func evalIndexExpression(tok lexer.Token, left, index Object) Object {
	switch {
	case left.Type() == LIST_OBJ && index.Type() == INTEGER_OBJ:
		return evalListIndexExpression(tok, left.(*List), index.(*Integer))
	case left.Type() == DICT_OBJ:
		return evalDictIndexExpression(tok, left.(*Dict), index)
	default:
		return newErrorWithPos(ferrors.ClassType, tok,
			"index operator not supported: %s[%s]", left.Type(), index.Type())
	}
}

func evalListIndexExpression(tok lexer.Token, list *List, index *Integer) Object {
	idx := index.Value
	max := int64(len(list.Elements))

	if idx < 0 || idx >= max {
		return newErrorWithPos(ferrors.ClassIndex, tok,
			"list index %d out of range for list of %d elements", idx, max)
	}

	return list.Elements[idx]
}

func evalDictIndexExpression(tok lexer.Token, dict *Dict, index Object) Object {
	key, ok := index.(*String)
	if !ok {
		return newErrorWithPos(ferrors.ClassType, tok, "dict key must be a string, got %s", index.Type())
	}

	value, ok := dict.Get(key.Value)
	if !ok {
		return newErrorWithPos(ferrors.ClassIndex, tok, "dict key not found: %q", key.Value)
	}

	return value
}
