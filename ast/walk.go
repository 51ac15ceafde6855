package ast

// Walk traverses the tree rooted at n in depth-first pre-order, calling fn
// for every node. If fn returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
	case *LetStmt:
		Walk(n.Name, fn)
		Walk(n.Value, fn)
	case *ExprStmt:
		Walk(n.X, fn)
	case *MemberExpr:
		Walk(n.Object, fn)
	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *ParenExpr:
		Walk(n.X, fn)
	case *ArrowFunc:
		Walk(n.Param, fn)
		Walk(n.Body, fn)
	case *AwaitExpr:
		Walk(n.X, fn)
	case *PipeExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}

// CloneExpr returns a deep copy of e.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *Ident:
		c := *e
		return &c
	case *StringLit:
		c := *e
		return &c
	case *NumberLit:
		c := *e
		return &c
	case *BoolLit:
		c := *e
		return &c
	case *NullLit:
		c := *e
		return &c
	case *MemberExpr:
		return &MemberExpr{Object: CloneExpr(e.Object), Property: e.Property}
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = CloneExpr(a)
		}

		return &CallExpr{Callee: CloneExpr(e.Callee), Args: args}
	case *ParenExpr:
		return &ParenExpr{X: CloneExpr(e.X), OpenPos: e.OpenPos}
	case *ArrowFunc:
		param := *e.Param
		return &ArrowFunc{Param: &param, Body: CloneExpr(e.Body)}
	case *AwaitExpr:
		return &AwaitExpr{X: CloneExpr(e.X), AwaitPos: e.AwaitPos}
	case *AwaitMarker:
		c := *e
		return &c
	case *PipeExpr:
		return &PipeExpr{Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}
	case *BinaryExpr:
		return &BinaryExpr{Op: e.Op, Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}
	default:
		return e
	}
}

// CloneStmt returns a deep copy of s.
func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *LetStmt:
		name := *s.Name
		return &LetStmt{Name: &name, Value: CloneExpr(s.Value), LetPos: s.LetPos}
	case *ExprStmt:
		return &ExprStmt{X: CloneExpr(s.X)}
	default:
		return s
	}
}

// CloneProgram returns a deep copy of p.
func CloneProgram(p *Program) *Program {
	if p == nil {
		return nil
	}

	stmts := make([]Stmt, len(p.Stmts))
	for i, s := range p.Stmts {
		stmts[i] = CloneStmt(s)
	}

	return &Program{Stmts: stmts}
}
