package analyzer

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"strings"
)

// FlowName is the declaration a scene.go file must provide.
const FlowName = "Flow"

// ParseGo lowers the Flow declaration in a Go scene file. Flow may be a
// function declaration or a package-level variable holding a function
// literal.
func ParseGo(filename string, src []byte) (*Node, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	body := findFlow(file)
	if body == nil {
		return nil, fmt.Errorf("%s: no %s declaration", filename, FlowName)
	}

	l := &lowerer{fset: fset, vars: make(map[string]*Node), imports: importNames(file)}
	return l.block(body), nil
}

// EstimateGo analyses a Go scene file, falling back on any failure.
func EstimateGo(filename string, src []byte) Estimate {
	root, err := ParseGo(filename, src)
	if err != nil {
		return Fallback(err.Error())
	}
	return Analyze(root)
}

func findFlow(file *ast.File) *ast.BlockStmt {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name == FlowName && d.Body != nil {
				return d.Body
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, name := range vs.Names {
					if name.Name != FlowName || i >= len(vs.Values) {
						continue
					}
					if lit, ok := vs.Values[i].(*ast.FuncLit); ok {
						return lit.Body
					}
				}
			}
		}
	}
	return nil
}

type lowerer struct {
	fset *token.FileSet
	// vars maps local names to the task expression last assigned to them.
	vars    map[string]*Node
	imports map[string]bool
}

func importNames(file *ast.File) map[string]bool {
	names := make(map[string]bool)
	for _, imp := range file.Imports {
		if imp.Name != nil {
			names[imp.Name.Name] = true
			continue
		}
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		names[path.Base(p)] = true
	}
	return names
}

func (l *lowerer) pos(p token.Pos) string {
	return l.fset.Position(p).String()
}

func (l *lowerer) block(b *ast.BlockStmt) *Node {
	if b == nil {
		return nil
	}
	n := Block()
	n.Pos = l.pos(b.Pos())
	for _, stmt := range b.List {
		if c := l.stmt(stmt); c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (l *lowerer) stmt(s ast.Stmt) *Node {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return l.expr(s.X)
	case *ast.ReturnStmt:
		var parts []*Node
		for _, r := range s.Results {
			parts = append(parts, l.expr(r))
		}
		return collapse(parts)
	case *ast.AssignStmt:
		l.assign(s.Lhs, s.Rhs)
		return nil
	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok && gd.Tok == token.VAR {
			for _, spec := range gd.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					lhs := make([]ast.Expr, len(vs.Names))
					for i, name := range vs.Names {
						lhs[i] = name
					}
					l.assign(lhs, vs.Values)
				}
			}
		}
		return nil
	case *ast.BlockStmt:
		return l.block(s)
	case *ast.IfStmt:
		branch := &Node{Kind: KindBranch, Pos: l.pos(s.Pos())}
		if body := l.block(s.Body); body != nil {
			branch.Children = append(branch.Children, body)
		}
		if s.Else != nil {
			if e := l.stmt(s.Else); e != nil {
				branch.Children = append(branch.Children, e)
			}
		}
		return Block(l.stmtOrNil(s.Init), l.expr(s.Cond), branch)
	case *ast.SwitchStmt:
		return Block(l.stmtOrNil(s.Init), l.expr(s.Tag), l.clauses(s.Body))
	case *ast.TypeSwitchStmt:
		return l.clauses(s.Body)
	case *ast.ForStmt:
		return &Node{
			Kind:     KindLoop,
			Count:    forCount(s),
			Children: []*Node{l.block(s.Body)},
			Pos:      l.pos(s.Pos()),
		}
	case *ast.RangeStmt:
		return &Node{
			Kind:     KindLoop,
			Count:    rangeCount(s),
			Children: []*Node{l.block(s.Body)},
			Pos:      l.pos(s.Pos()),
		}
	case *ast.LabeledStmt:
		return l.stmt(s.Stmt)
	}
	return nil
}

func (l *lowerer) stmtOrNil(s ast.Stmt) *Node {
	if s == nil {
		return nil
	}
	return l.stmt(s)
}

func (l *lowerer) clauses(body *ast.BlockStmt) *Node {
	branch := &Node{Kind: KindBranch, Pos: l.pos(body.Pos())}
	for _, c := range body.List {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}
		b := Block()
		for _, s := range cc.Body {
			b.Children = append(b.Children, l.stmtOrNil(s))
		}
		branch.Children = append(branch.Children, Block(b.Children...))
	}
	return branch
}

func (l *lowerer) assign(lhs, rhs []ast.Expr) {
	if len(lhs) != len(rhs) {
		return
	}
	for i, e := range lhs {
		id, ok := e.(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}
		if n := l.expr(rhs[i]); n != nil {
			l.vars[id.Name] = n
		} else {
			delete(l.vars, id.Name)
		}
	}
}

// expr lowers an expression to the tasks it builds, or nil.
func (l *lowerer) expr(e ast.Expr) *Node {
	switch e := e.(type) {
	case *ast.CallExpr:
		return l.call(e)
	case *ast.ParenExpr:
		return l.expr(e.X)
	case *ast.UnaryExpr:
		return l.expr(e.X)
	case *ast.BinaryExpr:
		x, y := l.expr(e.X), l.expr(e.Y)
		if x == nil && y == nil {
			return nil
		}
		return Block(x, y)
	case *ast.FuncLit:
		return l.block(e.Body)
	case *ast.Ident:
		return l.vars[e.Name]
	case *ast.CompositeLit:
		return l.composite(e)
	}
	return nil
}

func (l *lowerer) call(c *ast.CallExpr) *Node {
	n := &Node{Kind: KindCall, Pos: l.pos(c.Pos())}
	switch fn := c.Fun.(type) {
	case *ast.Ident:
		n.Name = fn.Name
	case *ast.SelectorExpr:
		n.Name = fn.Sel.Name
		// Package-qualified calls such as motion.All are not member calls.
		if id, ok := fn.X.(*ast.Ident); !ok || !l.imports[id.Name] {
			n.Member = true
		}
	case *ast.IndexExpr:
		n.Name = calleeName(fn.X)
	default:
		n.Name = calleeName(c.Fun)
	}
	for _, a := range c.Args {
		n.Args = append(n.Args, l.arg(a))
	}
	return n
}

// composite lowers a keyed literal such as motion.Animation{To: ..., Duration: 1}
// to a pseudo-call carrying its From, To and Duration fields.
func (l *lowerer) composite(c *ast.CompositeLit) *Node {
	n := &Node{Kind: KindCall, Name: calleeName(c.Type), Pos: l.pos(c.Pos())}
	for _, elt := range c.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch key.Name {
		case "From", "To", "Duration":
			n.Args = append(n.Args, l.arg(kv.Value))
		}
	}
	if len(n.Args) == 0 {
		return nil
	}
	return n
}

func (l *lowerer) arg(e ast.Expr) Arg {
	if v, ok := numberLit(e); ok {
		return NumArg(v)
	}
	if s, ok := stringLit(e); ok {
		return StrArg(s)
	}
	return NodeArg(l.expr(e))
}

func calleeName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return calleeName(e.X)
	case *ast.IndexListExpr:
		return calleeName(e.X)
	case *ast.StarExpr:
		return calleeName(e.X)
	}
	return ""
}

func numberLit(e ast.Expr) (float64, bool) {
	switch e := e.(type) {
	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.FLOAT {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(e.Value, "_", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	case *ast.ParenExpr:
		return numberLit(e.X)
	case *ast.UnaryExpr:
		v, ok := numberLit(e.X)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case token.SUB:
			return -v, true
		case token.ADD:
			return v, true
		}
	}
	return 0, false
}

func stringLit(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

func intLit(e ast.Expr) (int, bool) {
	v, ok := numberLit(e)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

// forCount recognises `for i := a; i < b; i++` (or <=) with literal bounds.
// Anything else runs once.
func forCount(s *ast.ForStmt) int {
	init, ok := s.Init.(*ast.AssignStmt)
	if !ok || len(init.Lhs) != 1 || len(init.Rhs) != 1 {
		return 1
	}
	v, ok := init.Lhs[0].(*ast.Ident)
	if !ok {
		return 1
	}
	from, ok := intLit(init.Rhs[0])
	if !ok {
		return 1
	}
	cond, ok := s.Cond.(*ast.BinaryExpr)
	if !ok {
		return 1
	}
	if id, ok := cond.X.(*ast.Ident); !ok || id.Name != v.Name {
		return 1
	}
	to, ok := intLit(cond.Y)
	if !ok {
		return 1
	}
	if post, ok := s.Post.(*ast.IncDecStmt); !ok || post.Tok != token.INC {
		return 1
	}

	switch cond.Op {
	case token.LSS:
		return max(to-from, 0)
	case token.LEQ:
		return max(to-from+1, 0)
	}
	return 1
}

// rangeCount recognises ranging over an integer literal or a slice literal.
func rangeCount(s *ast.RangeStmt) int {
	if n, ok := intLit(s.X); ok {
		return max(n, 0)
	}
	if lit, ok := s.X.(*ast.CompositeLit); ok {
		return len(lit.Elts)
	}
	return 1
}

// collapse returns the single node in parts, a block of several, or nil.
func collapse(parts []*Node) *Node {
	b := Block(parts...)
	switch len(b.Children) {
	case 0:
		return nil
	case 1:
		return b.Children[0]
	}
	return b
}
