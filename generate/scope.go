package generate

// release is a pending release of a heap value owned by a scope.
type release struct {
	// name is the C name of the released value.
	name string

	// stmt is the C statement performing the release.
	stmt string
}

// scope is the list of values that must be released when the enclosing C
// block is left.  Scopes are nested: an early return leaves every enclosing
// scope of the function at once.
type scope struct {
	parent   *scope
	releases []release
}

// push records a value that must be released by this scope.
func (s *scope) push(name, stmt string) {
	s.releases = append(s.releases, release{name: name, stmt: stmt})
}

// drop removes a pending release: the value's ownership has been transferred
// elsewhere.  It returns false if the scope does not own the value.
func (s *scope) drop(name string) bool {
	for i := len(s.releases) - 1; i >= 0; i-- {
		if s.releases[i].name == name {
			s.releases = append(s.releases[:i], s.releases[i+1:]...)
			return true
		}
	}

	return false
}

// pending returns the releases of this scope in the order they must run
// (last pushed first), skipping any value named in exclude.
func (s *scope) pending(exclude map[string]bool) []release {
	out := make([]release, 0, len(s.releases))
	for i := len(s.releases) - 1; i >= 0; i-- {
		if !exclude[s.releases[i].name] {
			out = append(out, s.releases[i])
		}
	}

	return out
}

// -----------------------------------------------------------------------------

// pushScope opens a new release scope nested in the current one.
func (g *Generator) pushScope() {
	g.scope = &scope{parent: g.scope}
}

// popScope closes the current release scope.  If the scope is left normally,
// its releases are emitted; the function's return value is never released on
// the normal path since it is handed to the caller.
func (g *Generator) popScope(normal bool) {
	if normal {
		exclude := map[string]bool{}
		if g.fn != nil && g.fn.Return != nil {
			exclude[varName(g.fn.Return)] = true
		}

		for _, r := range g.scope.pending(exclude) {
			g.e.line(r.stmt)
		}
	}

	g.scope = g.scope.parent
}

// own records a value owned by the current scope.
func (g *Generator) own(name, stmt string) {
	g.scope.push(name, stmt)
}

// disown transfers a value out of whichever enclosing scope owns it.
func (g *Generator) disown(name string) {
	for s := g.scope; s != nil; s = s.parent {
		if s.drop(name) {
			return
		}
	}
}

// openBlock opens a C block with its own release scope.
func (g *Generator) openBlock(format string, args ...interface{}) {
	g.e.open(format, args...)
	g.pushScope()
}

// closeBlock releases the block's values and closes it.
func (g *Generator) closeBlock() {
	g.popScope(true)
	g.e.close()
}

// unwind closes n blocks opened by openBlock.
func (g *Generator) unwind(n int) {
	for ; n > 0; n-- {
		g.closeBlock()
	}
}

// emitEarlyReturn emits an error exit from the current function: every value
// owned by any enclosing scope (the return value included) is released before
// returning the function's failure sentinel.  Values named in exclude have
// already been released by the failing operation.
func (g *Generator) emitEarlyReturn(exclude ...string) {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	for s := g.scope; s != nil; s = s.parent {
		for _, r := range s.pending(skip) {
			g.e.line(r.stmt)
		}
	}

	if g.fn != nil && g.fn.Return != nil {
		g.e.line("return NULL;")
	} else {
		g.e.line("return 1;")
	}
}

// emitGuard emits `if (cond) { <early return> }`.
func (g *Generator) emitGuard(cond string, exclude ...string) {
	g.e.open("if (%s)", cond)
	g.emitEarlyReturn(exclude...)
	g.e.close()
}

// emitGuardMsg is emitGuard with a diagnostic printed by the generated
// program before it returns.  msg must be a complete fprintf argument list.
func (g *Generator) emitGuardMsg(cond, msg string, exclude ...string) {
	g.e.open("if (%s)", cond)
	g.e.linef("fprintf(stderr, %s);", msg)
	g.emitEarlyReturn(exclude...)
	g.e.close()
}

// emitAllocGuard emits the allocation failure check for name.
func (g *Generator) emitAllocGuard(name string) {
	g.e.open("if (%s == NULL)", name)
	g.e.lines(allocGuard)
	g.e.close()
}
