package astio

import (
	"texlerc/ast"

	"gopkg.in/yaml.v3"
)

var arithOps = map[string]ast.ArithOp{
	"add": ast.OpAdd,
	"sub": ast.OpSub,
	"mul": ast.OpMul,
	"div": ast.OpDiv,
	"mod": ast.OpMod,
}

var stringOps = map[string]ast.StringOp{
	"concat": ast.OpConcat,
	"remove": ast.OpRemove,
}

var compareOps = map[string]ast.CompareOp{
	"eq": ast.CmpEq,
	"ne": ast.CmpNe,
	"gt": ast.CmpGt,
	"ge": ast.CmpGe,
	"lt": ast.CmpLt,
	"le": ast.CmpLe,
}

var kindNames = map[string]ast.ValueKind{
	"number":  ast.KindNumber,
	"string":  ast.KindString,
	"boolean": ast.KindBoolean,
	"bool":    ast.KindBoolean,
	"file":    ast.KindFilePath,
}

// decodeValue decodes a value: a mapping with a single key naming its form.
func decodeValue(sc *scope, node *yaml.Node) (ast.Expr, error) {
	key, value, err := singleKey(node, "value")
	if err != nil {
		return nil, err
	}

	if op, ok := arithOps[key]; ok {
		left, right, err := decodePair(sc, value, key)
		if err != nil {
			return nil, err
		}

		return &ast.NumberArith{Op: op, Left: left, Right: right}, nil
	}

	if op, ok := stringOps[key]; ok {
		left, right, err := decodePair(sc, value, key)
		if err != nil {
			return nil, err
		}

		return &ast.StringArith{Op: op, Left: left, Right: right}, nil
	}

	if op, ok := compareOps[key]; ok {
		left, right, err := decodePair(sc, value, key)
		if err != nil {
			return nil, err
		}

		return &ast.Compare{Op: op, Left: left, Right: right}, nil
	}

	switch key {
	case "ref":
		v, ok := sc.lookup(value.Value)
		if !ok {
			return nil, errorAt(value, "variable `%s` not found", value.Value)
		}

		return &ast.VarRef{Var: v}, nil
	case "number", "string", "bool", "const":
		lit, err := decodeLiteral(node)
		if err != nil {
			return nil, err
		}

		return &ast.Literal{Var: lit}, nil
	case "call":
		return decodeCall(sc, value)
	case "range":
		var bounds []int64
		if err := value.Decode(&bounds); err != nil || len(bounds) != 2 {
			return nil, errorAt(value, "range must be a pair of integers")
		}

		if bounds[0] < 1 || bounds[1] < bounds[0] {
			return nil, errorAt(value, "invalid range [%d, %d)", bounds[0], bounds[1])
		}

		return &ast.List{Kind: ast.ListRange, From: bounds[0], To: bounds[1]}, nil
	case "list":
		if value.Kind != yaml.SequenceNode {
			return nil, errorAt(value, "list must be a sequence")
		}

		if len(value.Content) == 0 {
			return &ast.List{Kind: ast.ListBlank}, nil
		}

		elems := make([]ast.Expr, 0, len(value.Content))
		for _, elemNode := range value.Content {
			elem, err := decodeValue(sc, elemNode)
			if err != nil {
				return nil, err
			}

			elems = append(elems, elem)
		}

		return &ast.List{Kind: ast.ListExprs, Elems: elems}, nil
	case "is":
		var in isNode
		if err := value.Decode(&in); err != nil {
			return nil, errorAt(value, "invalid type test: %s", err)
		}

		v, ok := sc.lookup(in.Ref)
		if !ok {
			return nil, errorAt(value, "variable `%s` not found", in.Ref)
		}

		kind, ok := kindNames[in.Kind]
		if !ok {
			return nil, errorAt(value, "unknown kind `%s`", in.Kind)
		}

		return &ast.TypeTest{Operand: v, Kind: kind}, nil
	default:
		return nil, errorAt(node, "unknown value `%s`", key)
	}
}

// decodePair decodes the two operands of a binary operator.
func decodePair(sc *scope, node *yaml.Node, op string) (ast.Expr, ast.Expr, error) {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return nil, nil, errorAt(node, "`%s` takes exactly two operands", op)
	}

	left, err := decodeValue(sc, node.Content[0])
	if err != nil {
		return nil, nil, err
	}

	right, err := decodeValue(sc, node.Content[1])
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

// decodeLiteral decodes a literal value (`number`, `string`, `bool` or a
// nested `const`) into an anonymous variable.
func decodeLiteral(node *yaml.Node) (*ast.Variable, error) {
	key, value, err := singleKey(node, "literal")
	if err != nil {
		return nil, err
	}

	lit := &ast.Variable{}
	switch key {
	case "number":
		lit.Kind = ast.KindNumber
		if err := value.Decode(&lit.Number); err != nil {
			return nil, errorAt(value, "`%s` is not a number", value.Value)
		}
	case "string":
		lit.Kind = ast.KindString
		if value.Kind != yaml.ScalarNode {
			return nil, errorAt(value, "string literal must be a scalar")
		}
		lit.Text = value.Value
	case "bool":
		lit.Kind = ast.KindBoolean
		if err := value.Decode(&lit.Boolean); err != nil {
			return nil, errorAt(value, "`%s` is not a boolean", value.Value)
		}
	case "const":
		inner, err := decodeLiteral(value)
		if err != nil {
			return nil, err
		}

		lit.Kind, lit.Const = ast.KindConstant, inner
	default:
		return nil, errorAt(node, "`%s` is not a literal", key)
	}

	return lit, nil
}

// decodeCall decodes a call chain.
func decodeCall(sc *scope, node *yaml.Node) (ast.Expr, error) {
	var cn callNode
	if err := node.Decode(&cn); err != nil {
		return nil, errorAt(node, "invalid call chain: %s", err)
	}

	cc := &ast.CallChain{}
	if cn.Receiver != "" {
		recv, ok := sc.lookup(cn.Receiver)
		if !ok {
			return nil, errorAt(node, "variable `%s` not found", cn.Receiver)
		}

		cc.Receiver = recv
	}

	if len(cn.Steps) == 0 {
		return nil, errorAt(node, "call chain has no steps")
	}

	for _, stepMap := range cn.Steps {
		if len(stepMap) != 1 {
			return nil, errorAt(node, "each step must be a mapping with a single key")
		}

		for name, argsNode := range stepMap {
			kind, ok := ast.StepKindFromName(name)
			if !ok {
				return nil, errorAt(node, "unknown step `%s`", name)
			}

			step := ast.CallStep{Kind: kind}
			if argsNode.Kind != 0 && !(argsNode.Kind == yaml.ScalarNode && argsNode.Tag == "!!null") {
				if argsNode.Kind != yaml.SequenceNode {
					return nil, errorAt(&argsNode, "arguments of `%s` must be a list", name)
				}

				for _, argNode := range argsNode.Content {
					arg, err := decodeValue(sc, argNode)
					if err != nil {
						return nil, err
					}

					step.Args = append(step.Args, arg)
				}
			}

			cc.Steps = append(cc.Steps, step)
		}
	}

	return cc, nil
}
