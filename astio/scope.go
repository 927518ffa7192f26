package astio

import "texlerc/ast"

// scope is a lexical scope of variable names.
type scope struct {
	parent *scope
	vars   map[string]*ast.Variable
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*ast.Variable)}
}

// lookup finds a variable in this scope or any enclosing one.
func (s *scope) lookup(name string) (*ast.Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

// declare adds a variable to this scope.  It returns false if any visible
// scope already declares the name.
func (s *scope) declare(v *ast.Variable) bool {
	if _, ok := s.lookup(v.Name); ok {
		return false
	}

	s.vars[v.Name] = v
	return true
}
