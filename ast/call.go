package ast

// StepKind is the operation performed by a call step.
type StepKind int

// Enumeration of call steps.
const (
	StepLines StepKind = iota
	StepColumns
	StepByIndex
	StepFilter
	StepToString
	StepAt
)

var stepNames = [...]string{
	StepLines:    "lines",
	StepColumns:  "columns",
	StepByIndex:  "byIndex",
	StepFilter:   "filter",
	StepToString: "toString",
	StepAt:       "at",
}

func (sk StepKind) String() string {
	if sk >= 0 && int(sk) < len(stepNames) {
		return stepNames[sk]
	}

	return "unknown"
}

// StepKindFromName looks up a step by its source name.
func StepKindFromName(name string) (StepKind, bool) {
	for i, n := range stepNames {
		if n == name {
			return StepKind(i), true
		}
	}

	return 0, false
}

// CallStep is a single step of a call chain.
type CallStep struct {
	Kind StepKind
	Args []Expr
}

// CallChain is an ordered sequence of call steps.  Each step's output is the
// implicit receiver of the next.  Receiver is the explicit receiver of the
// first step and may be nil, in which case the working file of the enclosing
// file block is used.
type CallChain struct {
	Receiver *Variable
	Steps    []CallStep
}

// Has returns whether the chain contains a step of the given kind.
func (cc *CallChain) Has(kind StepKind) bool {
	return cc.Index(kind) >= 0
}

// Index returns the position of the first step of the given kind or -1.
func (cc *CallChain) Index(kind StepKind) int {
	for i, step := range cc.Steps {
		if step.Kind == kind {
			return i
		}
	}

	return -1
}

// Step returns the first step of the given kind or nil.
func (cc *CallChain) Step(kind StepKind) *CallStep {
	if i := cc.Index(kind); i >= 0 {
		return &cc.Steps[i]
	}

	return nil
}

func (*CallChain) exprNode() {}

// -----------------------------------------------------------------------------

// ListKind distinguishes the forms of a list literal.
type ListKind int

// Enumeration of list kinds.
const (
	ListBlank ListKind = iota // no elements
	ListExprs                 // an explicit sequence of elements
	ListRange                 // the 1-based numeric range [From, To)
)

// List is a list or range literal.
type List struct {
	Kind     ListKind
	Elems    []Expr
	From, To int64
}

func (*List) exprNode() {}
