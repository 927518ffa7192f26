package astio

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"texlerc/ast"
	"texlerc/common"

	"gopkg.in/yaml.v3"
)

// DecodeError is an error in an AST document.  Line is the 1-based line of
// the offending node, or 0 if unknown.
type DecodeError struct {
	Line int
	Msg  string
}

func (de *DecodeError) Error() string {
	if de.Line > 0 {
		return fmt.Sprintf("line %d: %s", de.Line, de.Msg)
	}

	return de.Msg
}

func errorAt(node *yaml.Node, msg string, args ...interface{}) error {
	line := 0
	if node != nil {
		line = node.Line
	}

	return &DecodeError{Line: line, Msg: fmt.Sprintf(msg, args...)}
}

// LoadFile decodes the AST document at path.
func LoadFile(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads and decodes an AST document.
func Decode(r io.Reader) (*ast.Program, error) {
	buff, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return DecodeBytes(buff)
}

// DecodeBytes decodes an AST document.  All variable references are resolved
// and every node is checked for shape; the resulting tree is ready for the
// generator.
func DecodeBytes(buff []byte) (*ast.Program, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(buff, doc); err != nil {
		return nil, fmt.Errorf("error decoding YAML: %w", err)
	}

	if doc.Entry == nil {
		return nil, &DecodeError{Msg: "document has no entry function"}
	}

	prog := &ast.Program{}
	names := make(map[string]bool)

	for _, fnode := range doc.Functions {
		fn, err := decodeFunction(fnode)
		if err != nil {
			return nil, err
		}

		if names[fn.Name] {
			return nil, &DecodeError{Msg: fmt.Sprintf("function `%s` declared multiple times", fn.Name)}
		}

		names[fn.Name] = true
		prog.Functions = append(prog.Functions, fn)
	}

	entry, err := decodeFunction(doc.Entry)
	if err != nil {
		return nil, err
	}

	if names[entry.Name] {
		return nil, &DecodeError{Msg: fmt.Sprintf("function `%s` declared multiple times", entry.Name)}
	}

	prog.Entry = entry
	return prog, nil
}

// -----------------------------------------------------------------------------

// checkName validates a user name.  Names starting with an underscore are
// reserved for generated code.
func checkName(node *yaml.Node, name string) error {
	if !common.IsValidIdentifier(name) {
		return errorAt(node, "`%s` is not a valid name", name)
	}

	if strings.HasPrefix(name, "_") {
		return errorAt(node, "names starting with `_` are reserved: `%s`", name)
	}

	return nil
}

// decodeFunction decodes a function: its parameters are numeric values in
// the function's outermost scope, and its return variable must be visible
// at the end of the body.
func decodeFunction(fnode *FunctionNode) (*ast.Function, error) {
	if err := checkName(nil, fnode.Name); err != nil {
		return nil, fmt.Errorf("function: %w", err)
	}

	fn := &ast.Function{Name: fnode.Name}
	sc := newScope(nil)

	for _, pname := range fnode.Params {
		if err := checkName(nil, pname); err != nil {
			return nil, fmt.Errorf("function `%s`: %w", fn.Name, err)
		}

		param := &ast.Variable{Name: pname, Kind: ast.KindNumber}
		if !sc.declare(param) {
			return nil, fmt.Errorf("function `%s`: parameter `%s` declared multiple times", fn.Name, pname)
		}

		fn.Params = append(fn.Params, param)
	}

	body, err := decodeBody(sc, fnode.Body)
	if err != nil {
		return nil, fmt.Errorf("function `%s`: %w", fn.Name, err)
	}
	fn.Body = body

	if fnode.Return != "" {
		ret, ok := sc.lookup(fnode.Return)
		if !ok {
			return nil, fmt.Errorf("function `%s`: return variable `%s` not found", fn.Name, fnode.Return)
		}

		fn.Return = ret
	}

	return fn, nil
}

// decodeBody decodes a statement list in the given scope.
func decodeBody(sc *scope, nodes []yaml.Node) ([]ast.Expr, error) {
	body := make([]ast.Expr, 0, len(nodes))
	for i := range nodes {
		expr, err := decodeStmt(sc, &nodes[i])
		if err != nil {
			return nil, err
		}

		body = append(body, expr)
	}

	return body, nil
}

// singleKey unpacks a mapping with exactly one key.
func singleKey(node *yaml.Node, what string) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return "", nil, errorAt(node, "%s must be a mapping with a single key", what)
	}

	return node.Content[0].Value, node.Content[1], nil
}

// decodeStmt decodes a single statement.
func decodeStmt(sc *scope, node *yaml.Node) (ast.Expr, error) {
	key, value, err := singleKey(node, "statement")
	if err != nil {
		return nil, err
	}

	switch key {
	case "declare":
		return decodeDeclare(sc, value)
	case "file":
		return decodeFile(sc, value)
	case "assign":
		var an assignNode
		if err := value.Decode(&an); err != nil {
			return nil, errorAt(value, "invalid assignment: %s", err)
		}

		dest, ok := sc.lookup(an.To)
		if !ok {
			return nil, errorAt(value, "variable `%s` not found", an.To)
		}

		val, err := decodeValue(sc, &an.Value)
		if err != nil {
			return nil, err
		}

		return &ast.Assignment{Dest: dest, Value: val}, nil
	case "loop":
		return decodeLoop(sc, value)
	case "if":
		return decodeIf(sc, value)
	case "using":
		var un usingNode
		if err := value.Decode(&un); err != nil {
			return nil, errorAt(value, "invalid file block: %s", err)
		}

		file, ok := sc.lookup(un.File)
		if !ok {
			return nil, errorAt(value, "variable `%s` not found", un.File)
		}

		if !file.IsFile() {
			return nil, errorAt(value, "`%s` is not a file", un.File)
		}

		body, err := decodeBody(newScope(sc), un.Do)
		if err != nil {
			return nil, err
		}

		return &ast.FileBlock{File: file, Body: body}, nil
	case "block":
		var nodes []yaml.Node
		if err := value.Decode(&nodes); err != nil {
			return nil, errorAt(value, "block must be a list of statements")
		}

		body, err := decodeBody(newScope(sc), nodes)
		if err != nil {
			return nil, err
		}

		return &ast.Block{Body: body}, nil
	case "noop":
		return &ast.Noop{}, nil
	default:
		return nil, errorAt(node, "unknown statement `%s`", key)
	}
}

// decodeAction decodes the body of a loop or a branch: a single statement or
// a list of statements (which becomes a block).  Actions get their own scope.
func decodeAction(sc *scope, node *yaml.Node) (ast.Expr, error) {
	if node == nil || node.Kind == 0 {
		return &ast.Noop{}, nil
	}

	if node.Kind == yaml.SequenceNode {
		nodes := make([]yaml.Node, len(node.Content))
		for i, n := range node.Content {
			nodes[i] = *n
		}

		body, err := decodeBody(newScope(sc), nodes)
		if err != nil {
			return nil, err
		}

		return &ast.Block{Body: body}, nil
	}

	return decodeStmt(newScope(sc), node)
}

func decodeDeclare(sc *scope, node *yaml.Node) (ast.Expr, error) {
	var dn declareNode
	if err := node.Decode(&dn); err != nil {
		return nil, errorAt(node, "invalid declaration: %s", err)
	}

	if err := checkName(node, dn.Name); err != nil {
		return nil, err
	}

	v := &ast.Variable{Name: dn.Name}
	set := 0
	if dn.Number != nil {
		v.Kind, v.Number = ast.KindNumber, *dn.Number
		set++
	}

	if dn.Bool != nil {
		v.Kind, v.Boolean = ast.KindBoolean, *dn.Bool
		set++
	}

	if dn.String != nil {
		v.Kind, v.Text = ast.KindString, *dn.String
		set++
	}

	if dn.Const.Kind != 0 {
		lit, err := decodeLiteral(&dn.Const)
		if err != nil {
			return nil, err
		}

		v.Kind, v.Const = ast.KindConstant, lit
		set++
	}

	if set != 1 {
		return nil, errorAt(node, "declaration of `%s` must have exactly one of number, bool, string or const", dn.Name)
	}

	if !sc.declare(v) {
		return nil, errorAt(node, "variable `%s` declared multiple times", dn.Name)
	}

	return &ast.VarDecl{Var: v}, nil
}

func decodeFile(sc *scope, node *yaml.Node) (ast.Expr, error) {
	var fn fileNode
	if err := node.Decode(&fn); err != nil {
		return nil, errorAt(node, "invalid file declaration: %s", err)
	}

	if err := checkName(node, fn.Name); err != nil {
		return nil, err
	}

	seps := make([]string, 0, len(fn.Separators))
	for i := range fn.Separators {
		sep := &fn.Separators[i]
		if sep.Kind != yaml.ScalarNode || sep.Tag != "!!str" {
			return nil, errorAt(sep, "separators of `%s` must be strings", fn.Name)
		}

		seps = append(seps, sep.Value)
	}

	v := &ast.Variable{Name: fn.Name, Kind: ast.KindFilePath, Text: fn.Path}
	if !sc.declare(v) {
		return nil, errorAt(node, "variable `%s` declared multiple times", fn.Name)
	}

	return &ast.FileDecl{Var: v, Separators: seps}, nil
}

func decodeLoop(sc *scope, node *yaml.Node) (ast.Expr, error) {
	var ln loopNode
	if err := node.Decode(&ln); err != nil {
		return nil, errorAt(node, "invalid loop: %s", err)
	}

	if err := checkName(node, ln.Var); err != nil {
		return nil, err
	}

	iterable, err := decodeValue(sc, &ln.In)
	if err != nil {
		return nil, err
	}

	switch it := iterable.(type) {
	case *ast.CallChain:
	case *ast.List:
		if it.Kind != ast.ListRange {
			return nil, errorAt(&ln.In, "only ranges and call chains can be iterated")
		}
	default:
		return nil, errorAt(&ln.In, "only ranges and call chains can be iterated")
	}

	loopScope := newScope(sc)
	v := &ast.Variable{Name: ln.Var, Kind: ast.KindLoop}
	if !loopScope.declare(v) {
		return nil, errorAt(node, "variable `%s` declared multiple times", ln.Var)
	}

	action, err := decodeAction(loopScope, &ln.Do)
	if err != nil {
		return nil, err
	}

	return &ast.Loop{Var: v, Iterable: iterable, Action: action}, nil
}

func decodeIf(sc *scope, node *yaml.Node) (ast.Expr, error) {
	var in ifNode
	if err := node.Decode(&in); err != nil {
		return nil, errorAt(node, "invalid conditional: %s", err)
	}

	cond, err := decodeValue(sc, &in.Cond)
	if err != nil {
		return nil, err
	}

	switch cond.(type) {
	case *ast.Compare, *ast.TypeTest:
	default:
		return nil, errorAt(&in.Cond, "condition must be a comparison or a type test")
	}

	then, err := decodeAction(sc, &in.Then)
	if err != nil {
		return nil, err
	}

	elseExpr, err := decodeAction(sc, &in.Else)
	if err != nil {
		return nil, err
	}

	return &ast.Conditional{Cond: cond, Then: then, Else: elseExpr}, nil
}
