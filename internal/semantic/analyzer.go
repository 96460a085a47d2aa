// Package semantic populates the class table from a parse tree.
//
// Population is a single top-down pass in fixed order: imported classes and
// user classes are declared first so that any type name can be resolved,
// then imported method signatures, superclass links, fields, methods with
// their parameters and finally method locals. A method refused as a
// duplicate still gets its locals so its body can be checked. The registry is frozen at the
// end and handed over as a read-only symtab.Table.
//
// Every defect is reported to the accumulator and skipped; the pass never
// stops early, so one run surfaces every declaration error in the file.
package semantic

import (
	"errors"

	"github.com/hassan/jmm/internal/diag"
	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
	"github.com/hassan/jmm/internal/semantic/types"
	"github.com/hassan/jmm/internal/symtab"
)

// Analyzer runs the population pass.
type Analyzer struct {
	diags    *diag.Accumulator
	registry *symtab.Registry

	// classes pairs each accepted class declaration with its descriptor.
	classes []declared
}

type declared struct {
	node  *ast.Node
	class *symtab.Class
}

// New creates an analyzer reporting to diags.
func New(diags *diag.Accumulator) *Analyzer {
	return &Analyzer{
		diags:    diags,
		registry: symtab.NewRegistry(),
	}
}

// Analyze populates and freezes the class table for prog.
func (a *Analyzer) Analyze(prog *ast.Node) *symtab.Table {
	imports := append(prog.ChildrenOf(ast.KindImport), prog.ChildrenOf(ast.KindStaticImport)...)

	for _, imp := range imports {
		a.declareImport(imp)
	}
	for _, node := range prog.ChildrenOf(ast.KindClass) {
		a.declareClass(node)
	}
	for _, imp := range imports {
		a.importMethod(imp)
	}
	for _, d := range a.classes {
		a.linkSuper(d)
	}
	for _, d := range a.classes {
		a.declareMembers(d)
	}
	for _, d := range a.classes {
		a.declareMethods(d)
	}
	for _, d := range a.classes {
		for _, fn := range d.class.Functions() {
			a.declareLocals(fn)
		}
		for _, fn := range d.class.Rejected() {
			a.declareLocals(fn)
		}
	}

	return a.registry.Freeze()
}

func (a *Analyzer) declareImport(imp *ast.Node) {
	if _, err := a.registry.Declare(imp.Value, types.ClassExternal, imp.Pos); err != nil {
		a.duplicate(imp.Pos, err)
	}
}

func (a *Analyzer) declareClass(node *ast.Node) {
	c, err := a.registry.Declare(node.Value, types.ClassUser, node.Pos)
	if err != nil {
		a.duplicate(node.Pos, err)
		return
	}
	c.Decl = node
	a.classes = append(a.classes, declared{node: node, class: c})
}

// importMethod registers the method named by "import [static] C.m(T...) R;".
func (a *Analyzer) importMethod(imp *ast.Node) {
	if imp.NumChildren() == 0 {
		return
	}
	c := a.registry.Lookup(imp.Value)
	if c == nil || !c.IsExternal() {
		return
	}

	name := imp.Child(0)
	var sig types.Signature
	for _, t := range imp.Child(1).Children {
		sig.Params = append(sig.Params, a.resolveType(t))
	}
	ret := a.resolveType(imp.Child(2))

	static := imp.Is(ast.KindStaticImport)
	fn := symtab.NewImported(name.Value, sig, ret, static, name.Pos)

	var err error
	if static {
		err = c.AddStatic(fn)
	} else {
		err = c.AddMethod(fn)
	}
	if errors.Is(err, symtab.ErrDuplicate) {
		// Repeating an import is harmless.
		a.diags.Minor(diag.DuplicateDeclaration, name.Pos, "%v", err)
	} else if err != nil {
		a.diags.Major(diag.DuplicateDeclaration, name.Pos, "%v", err)
	}
}

func (a *Analyzer) linkSuper(d declared) {
	ext := d.node.ChildrenOf(ast.KindExtends)
	if len(ext) == 0 {
		return
	}
	node := ext[0]
	super := a.registry.Lookup(node.Value)
	if super == nil {
		a.diags.Major(diag.UnresolvedIdentifier, node.Pos, "%s cannot be resolved to a type", node.Value)
		return
	}
	if err := d.class.SetSuper(super); err != nil {
		a.diags.Major(diag.CyclicInheritance, node.Pos, "%v", err)
	}
}

func (a *Analyzer) declareMembers(d declared) {
	for _, field := range d.node.ChildrenOf(ast.KindVarDecl) {
		typ := a.resolveType(field.Child(0))
		if _, err := d.class.AddMember(field.Value, typ, field.Pos); err != nil {
			a.duplicate(field.Pos, err)
		}
	}
}

func (a *Analyzer) declareMethods(d declared) {
	for _, node := range d.node.Children {
		switch node.Kind {
		case ast.KindMethod:
			fn := symtab.NewMethod(node.Value, a.resolveType(node.Child(0)), node.Pos)
			fn.Decl = node
			for _, param := range node.Child(1).Children {
				a.declareParam(fn, param.Value, a.resolveType(param.Child(0)), param.Pos)
			}
			if err := d.class.AddMethod(fn); err != nil {
				a.duplicate(node.Pos, err)
				d.class.AddRejected(fn)
			}

		case ast.KindMain:
			fn := symtab.NewMain(node.Pos)
			fn.Decl = node
			a.declareParam(fn, node.Value, types.StringArray, node.Pos)
			if err := d.class.SetMain(fn); err != nil {
				a.duplicate(node.Pos, err)
				d.class.AddRejected(fn)
			}
		}
	}
}

// declareParam adds a parameter. A duplicate name is reported and the
// parameter still takes a slot under a hidden name, so the signature keeps
// the declared arity.
func (a *Analyzer) declareParam(fn *symtab.Function, name string, typ types.Type, pos lexer.Position) {
	_, err := fn.Locals.AddParameter(name, typ, pos)
	if err == nil {
		return
	}
	a.duplicate(pos, err)
	if errors.Is(err, symtab.ErrDuplicate) {
		hidden := "$" + name + "@" + pos.String()
		_, _ = fn.Locals.AddParameter(hidden, typ, pos)
	}
}

func (a *Analyzer) declareLocals(fn *symtab.Function) {
	if fn.Decl == nil {
		return
	}
	body := fn.Decl.ChildrenOf(ast.KindBody)
	if len(body) == 0 {
		return
	}
	for _, local := range body[0].ChildrenOf(ast.KindVarDecl) {
		typ := a.resolveType(local.Child(0))
		if _, err := fn.Locals.Define(local.Value, typ, local.Pos); err != nil {
			a.duplicate(local.Pos, err)
		}
	}
}

// resolveType maps a Type node to a descriptor, reporting unknown class
// names and substituting Unknown for them.
func (a *Analyzer) resolveType(node *ast.Node) types.Type {
	if node == nil {
		return types.Unknown
	}
	if t := a.registry.ResolveType(node.Value); t != nil {
		return t
	}
	a.diags.Major(diag.UnresolvedIdentifier, node.Pos, "%s cannot be resolved to a type", node.Value)
	return types.Unknown
}

func (a *Analyzer) duplicate(pos lexer.Position, err error) {
	a.diags.Major(diag.DuplicateDeclaration, pos, "%v", err)
}
