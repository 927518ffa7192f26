package ast

// Expr is an expression node.  Every node handed to the generator implements
// this interface; the set of implementations is closed.
type Expr interface {
	exprNode()
}

// -----------------------------------------------------------------------------

// VarDecl declares a variable initialized from its payload.
type VarDecl struct {
	Var *Variable
}

// FileDecl declares a file variable.  The variable name prefix selects the
// open mode: `input...` reads, `output...` writes.  Each separator must be a
// single character.
type FileDecl struct {
	Var        *Variable
	Separators []string
}

// Assignment stores the value of an expression in a variable.  The value is
// one of VarRef, Literal, NumberArith, StringArith or CallChain.
type Assignment struct {
	Dest  *Variable
	Value Expr
}

// Loop runs an action once per element of an iterable.  The iterable is
// either a range List or a CallChain.
type Loop struct {
	Var      *Variable
	Iterable Expr
	Action   Expr
}

// Conditional branches on a TypeTest or a Compare.  Else is always present:
// an absent else branch is represented by Noop.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// FileBlock establishes File as the working file of its body.
type FileBlock struct {
	File *Variable
	Body []Expr
}

// Block is a nested expression list with its own scope.
type Block struct {
	Body []Expr
}

// Noop does nothing.
type Noop struct{}

// VarRef is a reference to a declared variable.
type VarRef struct {
	Var *Variable
}

// Literal is an anonymous literal value.
type Literal struct {
	Var *Variable
}

func (*VarDecl) exprNode()     {}
func (*FileDecl) exprNode()    {}
func (*Assignment) exprNode()  {}
func (*Loop) exprNode()        {}
func (*Conditional) exprNode() {}
func (*FileBlock) exprNode()   {}
func (*Block) exprNode()       {}
func (*Noop) exprNode()        {}
func (*VarRef) exprNode()      {}
func (*Literal) exprNode()     {}

// -----------------------------------------------------------------------------

// ArithOp is a numeric operator.
type ArithOp int

// Enumeration of numeric operators.
const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

var arithOpSymbols = [...]string{"+", "-", "*", "/", "%"}

func (op ArithOp) String() string {
	if op >= 0 && int(op) < len(arithOpSymbols) {
		return arithOpSymbols[op]
	}

	return "?"
}

// NumberArith is a binary numeric operation.
type NumberArith struct {
	Op          ArithOp
	Left, Right Expr
}

// StringOp is a string operator.
type StringOp int

// Enumeration of string operators.
const (
	OpConcat StringOp = iota
	OpRemove
)

// StringArith is a binary string operation.  Remove is accepted but has no
// effect.
type StringArith struct {
	Op          StringOp
	Left, Right Expr
}

// CompareOp is a comparison operator.
type CompareOp int

// Enumeration of comparison operators.
const (
	CmpEq CompareOp = iota
	CmpNe
	CmpGt
	CmpGe
	CmpLt
	CmpLe
)

var compareOpSymbols = [...]string{"==", "!=", ">", ">=", "<", "<="}

func (op CompareOp) String() string {
	if op >= 0 && int(op) < len(compareOpSymbols) {
		return compareOpSymbols[op]
	}

	return "?"
}

// Compare is a binary comparison used as a condition.
type Compare struct {
	Op          CompareOp
	Left, Right Expr
}

// TypeTest tests the runtime classification of a variable.
type TypeTest struct {
	Operand *Variable
	Kind    ValueKind
}

func (*NumberArith) exprNode() {}
func (*StringArith) exprNode() {}
func (*Compare) exprNode()     {}
func (*TypeTest) exprNode()    {}
