package astio

import "gopkg.in/yaml.v3"

// Document is the YAML form of a program.
type Document struct {
	Functions []*FunctionNode `yaml:"functions,omitempty"`
	Entry     *FunctionNode   `yaml:"entry"`
}

// FunctionNode is the YAML form of a function.
type FunctionNode struct {
	Name   string      `yaml:"name"`
	Params []string    `yaml:"params,omitempty"`
	Return string      `yaml:"return,omitempty"`
	Body   []yaml.Node `yaml:"body"`
}

// declareNode is the body of a `declare` statement.  Exactly one payload
// field is set.  Node fields are values: an absent node has a zero Kind.
type declareNode struct {
	Name   string     `yaml:"name"`
	Number *float64   `yaml:"number,omitempty"`
	Bool   *bool      `yaml:"bool,omitempty"`
	String *string    `yaml:"string,omitempty"`
	Const  yaml.Node  `yaml:"const,omitempty"`
}

// fileNode is the body of a `file` statement.
type fileNode struct {
	Name       string      `yaml:"name"`
	Path       string      `yaml:"path"`
	Separators []yaml.Node `yaml:"separators,omitempty"`
}

// assignNode is the body of an `assign` statement.
type assignNode struct {
	To    string    `yaml:"to"`
	Value yaml.Node `yaml:"value"`
}

// loopNode is the body of a `loop` statement.
type loopNode struct {
	Var string    `yaml:"var"`
	In  yaml.Node `yaml:"in"`
	Do  yaml.Node `yaml:"do"`
}

// ifNode is the body of an `if` statement.  Else may be omitted.
type ifNode struct {
	Cond yaml.Node `yaml:"cond"`
	Then yaml.Node `yaml:"then"`
	Else yaml.Node `yaml:"else,omitempty"`
}

// usingNode is the body of a `using` statement (a file block).
type usingNode struct {
	File string      `yaml:"file"`
	Do   []yaml.Node `yaml:"do"`
}

// callNode is the body of a `call` value.  Each step is a mapping from the
// step name to its argument list.
type callNode struct {
	Receiver string                 `yaml:"receiver,omitempty"`
	Steps    []map[string]yaml.Node `yaml:"steps"`
}

// isNode is the body of an `is` condition.
type isNode struct {
	Ref  string `yaml:"ref"`
	Kind string `yaml:"kind"`
}
