package script

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// Definition is one named script function with the source text that
// defines it.
type Definition struct {
	Name   string
	Source string
}

// Program is the arena of named function definitions making up the
// agent's script surface. It is an explicit name-keyed map rather than
// an opaque concatenation of compiled units, so override behavior on
// merge is a plain map write: when two sources define the same name,
// the later merge wins.
type Program struct {
	order []string // first-definition order, names never repeat
	defs  map[string]Definition
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{defs: make(map[string]Definition)}
}

// add installs a definition, overriding any previous one with the same
// name.
func (p *Program) add(def Definition) {
	if _, exists := p.defs[def.Name]; !exists {
		p.order = append(p.order, def.Name)
	}
	p.defs[def.Name] = def
}

// Merge unions other's definitions into p. A name present in both
// keeps other's definition.
func (p *Program) Merge(other *Program) {
	for _, name := range other.order {
		p.add(other.defs[name])
	}
}

// Lookup returns the definition for name.
func (p *Program) Lookup(name string) (Definition, bool) {
	def, ok := p.defs[name]
	return def, ok
}

// Names returns all defined names in first-definition order.
func (p *Program) Names() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Len returns the number of definitions.
func (p *Program) Len() int {
	return len(p.defs)
}

// CompileSource parses a script and extracts its top-level function
// declarations into a Program. filename only labels parser
// diagnostics. Sources with no function declarations compile to an
// empty program; syntax errors return a *CompileError.
func CompileSource(filename, source string) (*Program, error) {
	parsed, err := parser.ParseFile(nil, filename, source, 0)
	if err != nil {
		return nil, &CompileError{Tool: filename, Err: err}
	}

	prog := NewProgram()
	for _, stmt := range parsed.Body {
		decl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		fn := decl.Function
		if fn == nil || fn.Name == nil {
			continue
		}
		prog.add(Definition{
			Name: fn.Name.Name.String(),
			// file.Idx positions are 1-based offsets into the source.
			Source: source[int(fn.Idx0())-1 : int(fn.Idx1())-1],
		})
	}
	return prog, nil
}
