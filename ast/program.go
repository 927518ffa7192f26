package ast

// Program is the root of the tree handed to the generator.  The entry
// function is the one invoked by the synthesized program entry point; the
// other functions are emitted ahead of it in order.
type Program struct {
	Entry     *Function
	Functions []*Function
}

// Function is a single user-defined function.  A function without a return
// variable lowers to an integer-returning procedure (status code); a function
// with one lowers to a procedure returning that runtime value.
type Function struct {
	Name   string
	Params []*Variable
	Body   []Expr
	Return *Variable
}

// AllFunctions returns the helper functions followed by the entry function:
// the order in which they are emitted.
func (p *Program) AllFunctions() []*Function {
	fns := make([]*Function, 0, len(p.Functions)+1)
	fns = append(fns, p.Functions...)
	if p.Entry != nil {
		fns = append(fns, p.Entry)
	}

	return fns
}

// -----------------------------------------------------------------------------

// ValueKind is the kind of value a variable holds.
type ValueKind int

// Enumeration of value kinds.
const (
	KindNumber   ValueKind = iota
	KindBoolean            // true or false
	KindString             // string literal
	KindConstant           // a constant-wrapped literal (`Variable.Const`)
	KindFilePath           // file declared by path
	KindLoop               // bound by a loop (counter or read line)
)

var valueKindNames = [...]string{
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindString:   "string",
	KindConstant: "constant",
	KindFilePath: "file",
	KindLoop:     "loop",
}

func (vk ValueKind) String() string {
	if vk >= 0 && int(vk) < len(valueKindNames) {
		return valueKindNames[vk]
	}

	return "unknown"
}

// Variable is a named (or, for literals, anonymous) value.  Only the payload
// field matching `Kind` is meaningful.  File variables keep their path in
// `Text`.
type Variable struct {
	Name string
	Kind ValueKind

	Number  float64
	Boolean bool
	Text    string

	// Const is the wrapped literal of a constant variable.
	Const *Variable
}

// IsFile returns whether the variable names a file.
func (v *Variable) IsFile() bool {
	return v.Kind == KindFilePath
}

// Literal returns the variable that actually carries the payload: the wrapped
// literal for constants and the variable itself otherwise.
func (v *Variable) Literal() *Variable {
	if v.Kind == KindConstant && v.Const != nil {
		return v.Const.Literal()
	}

	return v
}
