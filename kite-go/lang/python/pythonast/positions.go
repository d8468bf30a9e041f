package pythonast

import "go/token"

// Begin and End for each node. Nodes produced by error recovery may be
// missing some words, in which case the nearest known position is used.

func (n *BadExpr) Begin() token.Pos { return n.From }
func (n *BadExpr) End() token.Pos   { return n.To }

func (n *NameExpr) Begin() token.Pos { return wordBegin(n.Ident, 0) }
func (n *NameExpr) End() token.Pos   { return wordEnd(n.Ident, 0) }

func (n *EllipsisExpr) Begin() token.Pos { return n.From }
func (n *EllipsisExpr) End() token.Pos   { return n.To }

func (n *NumberExpr) Begin() token.Pos { return wordBegin(n.Number, 0) }
func (n *NumberExpr) End() token.Pos   { return wordEnd(n.Number, 0) }

func (n *StringExpr) Begin() token.Pos {
	if len(n.Strings) == 0 {
		return 0
	}
	return n.Strings[0].Begin
}

func (n *StringExpr) End() token.Pos {
	if len(n.Strings) == 0 {
		return 0
	}
	return n.Strings[len(n.Strings)-1].End
}

func (n *AttributeExpr) Begin() token.Pos { return nodeBegin(n.Value, wordBegin(n.Dot, 0)) }
func (n *AttributeExpr) End() token.Pos {
	return wordEnd(n.Attribute, wordEnd(n.Dot, nodeEnd(n.Value, 0)))
}

func (n *CallExpr) Begin() token.Pos { return nodeBegin(n.Func, wordBegin(n.LeftParen, 0)) }
func (n *CallExpr) End() token.Pos {
	if n.RightParen != nil {
		return n.RightParen.End
	}
	if len(n.Args) > 0 {
		return n.Args[len(n.Args)-1].End()
	}
	return wordEnd(n.LeftParen, nodeEnd(n.Func, 0))
}

func (n *Argument) Begin() token.Pos {
	if n.Star != nil {
		return n.Star.Begin
	}
	if n.Name != nil {
		return n.Name.Begin()
	}
	return nodeBegin(n.Value, 0)
}
func (n *Argument) End() token.Pos { return nodeEnd(n.Value, wordEnd(n.Equals, 0)) }

func (n *IndexExpr) Begin() token.Pos { return nodeBegin(n.Value, 0) }
func (n *IndexExpr) End() token.Pos {
	return wordEnd(n.RightBrack, nodeEnd(n.Index, nodeEnd(n.Value, 0)))
}

func (n *SliceExpr) Begin() token.Pos { return n.From }
func (n *SliceExpr) End() token.Pos   { return n.To }

func (n *TupleExpr) Begin() token.Pos {
	if n.LeftParen != nil {
		return n.LeftParen.Begin
	}
	if len(n.Elts) > 0 {
		return n.Elts[0].Begin()
	}
	return 0
}

func (n *TupleExpr) End() token.Pos {
	if n.RightParen != nil {
		return n.RightParen.End
	}
	if len(n.Elts) > 0 {
		return n.Elts[len(n.Elts)-1].End()
	}
	return wordEnd(n.LeftParen, 0)
}

func (n *ListExpr) Begin() token.Pos { return wordBegin(n.LeftBrack, 0) }
func (n *ListExpr) End() token.Pos   { return wordEnd(n.RightBrack, wordEnd(n.LeftBrack, 0)) }

func (n *SetExpr) Begin() token.Pos { return wordBegin(n.LeftBrace, 0) }
func (n *SetExpr) End() token.Pos   { return wordEnd(n.RightBrace, wordEnd(n.LeftBrace, 0)) }

func (n *DictExpr) Begin() token.Pos { return wordBegin(n.LeftBrace, 0) }
func (n *DictExpr) End() token.Pos   { return wordEnd(n.RightBrace, wordEnd(n.LeftBrace, 0)) }

func (n *KeyValuePair) Begin() token.Pos { return nodeBegin(n.Key, nodeBegin(n.Value, 0)) }
func (n *KeyValuePair) End() token.Pos   { return nodeEnd(n.Value, nodeEnd(n.Key, 0)) }

func (n *StarExpr) Begin() token.Pos { return wordBegin(n.Star, nodeBegin(n.Value, 0)) }
func (n *StarExpr) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Star, 0)) }

func (n *UnaryExpr) Begin() token.Pos { return wordBegin(n.Op, nodeBegin(n.Value, 0)) }
func (n *UnaryExpr) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Op, 0)) }

func (n *BinaryExpr) Begin() token.Pos { return nodeBegin(n.Left, wordBegin(n.Op, 0)) }
func (n *BinaryExpr) End() token.Pos   { return nodeEnd(n.Right, wordEnd(n.Op, 0)) }

func (n *IfExpr) Begin() token.Pos { return nodeBegin(n.Body, 0) }
func (n *IfExpr) End() token.Pos   { return nodeEnd(n.Else, nodeEnd(n.Condition, 0)) }

func (n *LambdaExpr) Begin() token.Pos { return wordBegin(n.Lambda, 0) }
func (n *LambdaExpr) End() token.Pos   { return nodeEnd(n.Body, wordEnd(n.Lambda, 0)) }

func (n *ComprehensionExpr) Begin() token.Pos {
	return wordBegin(n.Open, nodeBegin(n.Key, nodeBegin(n.Value, 0)))
}

func (n *ComprehensionExpr) End() token.Pos {
	if n.Close != nil {
		return n.Close.End
	}
	if len(n.Generators) > 0 {
		return n.Generators[len(n.Generators)-1].End()
	}
	return nodeEnd(n.Value, 0)
}

func (n *Generator) Begin() token.Pos { return wordBegin(n.For, nodeBegin(n.Target, 0)) }
func (n *Generator) End() token.Pos {
	if len(n.Filters) > 0 {
		return n.Filters[len(n.Filters)-1].End()
	}
	return nodeEnd(n.Iterable, nodeEnd(n.Target, 0))
}

func (n *YieldExpr) Begin() token.Pos { return wordBegin(n.Yield, 0) }
func (n *YieldExpr) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Yield, 0)) }

func (n *AwaitExpr) Begin() token.Pos { return wordBegin(n.Await, 0) }
func (n *AwaitExpr) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Await, 0)) }

func (n *DottedExpr) Begin() token.Pos {
	if len(n.Names) == 0 {
		return 0
	}
	return n.Names[0].Begin()
}

func (n *DottedExpr) End() token.Pos {
	if len(n.Names) == 0 {
		return 0
	}
	return n.Names[len(n.Names)-1].End()
}

func (n *Parameter) Begin() token.Pos { return wordBegin(n.Star, nodeBegin(n.Name, 0)) }
func (n *Parameter) End() token.Pos {
	return nodeEnd(n.Default, nodeEnd(n.Annotation, nodeEnd(n.Name, wordEnd(n.Star, 0))))
}

func (n *BadStmt) Begin() token.Pos { return n.From }
func (n *BadStmt) End() token.Pos   { return n.To }

func (n *ExprStmt) Begin() token.Pos { return nodeBegin(n.Value, 0) }
func (n *ExprStmt) End() token.Pos   { return nodeEnd(n.Value, 0) }

func (n *AssignStmt) Begin() token.Pos {
	if len(n.Targets) > 0 {
		return n.Targets[0].Begin()
	}
	return nodeBegin(n.Value, 0)
}

func (n *AssignStmt) End() token.Pos {
	if !IsNil(n.Value) {
		return n.Value.End()
	}
	if !IsNil(n.Annotation) {
		return n.Annotation.End()
	}
	if len(n.Targets) > 0 {
		return n.Targets[len(n.Targets)-1].End()
	}
	return 0
}

func (n *AugAssignStmt) Begin() token.Pos { return nodeBegin(n.Target, wordBegin(n.Op, 0)) }
func (n *AugAssignStmt) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Op, 0)) }

func (n *ReturnStmt) Begin() token.Pos { return wordBegin(n.Return, 0) }
func (n *ReturnStmt) End() token.Pos   { return nodeEnd(n.Value, wordEnd(n.Return, 0)) }

func (n *PassStmt) Begin() token.Pos { return wordBegin(n.Pass, 0) }
func (n *PassStmt) End() token.Pos   { return wordEnd(n.Pass, 0) }

func (n *BreakStmt) Begin() token.Pos { return wordBegin(n.Break, 0) }
func (n *BreakStmt) End() token.Pos   { return wordEnd(n.Break, 0) }

func (n *ContinueStmt) Begin() token.Pos { return wordBegin(n.Continue, 0) }
func (n *ContinueStmt) End() token.Pos   { return wordEnd(n.Continue, 0) }

func (n *DelStmt) Begin() token.Pos { return wordBegin(n.Del, 0) }
func (n *DelStmt) End() token.Pos {
	if len(n.Targets) > 0 {
		return n.Targets[len(n.Targets)-1].End()
	}
	return wordEnd(n.Del, 0)
}

func (n *RaiseStmt) Begin() token.Pos { return wordBegin(n.Raise, 0) }
func (n *RaiseStmt) End() token.Pos   { return nodeEnd(n.From, nodeEnd(n.Type, wordEnd(n.Raise, 0))) }

func (n *GlobalStmt) Begin() token.Pos { return wordBegin(n.Global, 0) }
func (n *GlobalStmt) End() token.Pos   { return namesEnd(n.Names, wordEnd(n.Global, 0)) }

func (n *NonLocalStmt) Begin() token.Pos { return wordBegin(n.NonLocal, 0) }
func (n *NonLocalStmt) End() token.Pos   { return namesEnd(n.Names, wordEnd(n.NonLocal, 0)) }

func namesEnd(names []*NameExpr, fallback token.Pos) token.Pos {
	if len(names) == 0 {
		return fallback
	}
	return names[len(names)-1].End()
}

func (n *AssertStmt) Begin() token.Pos { return wordBegin(n.Assert, 0) }
func (n *AssertStmt) End() token.Pos {
	return nodeEnd(n.Message, nodeEnd(n.Condition, wordEnd(n.Assert, 0)))
}

func (n *DottedAsName) Begin() token.Pos { return nodeBegin(n.External, 0) }
func (n *DottedAsName) End() token.Pos {
	if n.Internal != nil {
		return n.Internal.End()
	}
	return nodeEnd(n.External, 0)
}

func (n *ImportNameStmt) Begin() token.Pos { return wordBegin(n.Import, 0) }
func (n *ImportNameStmt) End() token.Pos {
	if len(n.Names) > 0 {
		return n.Names[len(n.Names)-1].End()
	}
	return wordEnd(n.Import, 0)
}

func (n *ImportAsName) Begin() token.Pos { return nodeBegin(n.External, 0) }
func (n *ImportAsName) End() token.Pos {
	if n.Internal != nil {
		return n.Internal.End()
	}
	return nodeEnd(n.External, 0)
}

func (n *ImportFromStmt) Begin() token.Pos { return wordBegin(n.From, 0) }
func (n *ImportFromStmt) End() token.Pos   { return n.To }

func (n *Branch) Begin() token.Pos { return nodeBegin(n.Condition, 0) }
func (n *Branch) End() token.Pos   { return bodyEnd(n.Body, nodeEnd(n.Condition, 0)) }

func (n *IfStmt) Begin() token.Pos { return wordBegin(n.If, 0) }
func (n *IfStmt) End() token.Pos {
	end := wordEnd(n.If, 0)
	if len(n.Branches) > 0 {
		end = n.Branches[len(n.Branches)-1].End()
	}
	return bodyEnd(n.Else, end)
}

func (n *WhileStmt) Begin() token.Pos { return wordBegin(n.While, 0) }
func (n *WhileStmt) End() token.Pos {
	return bodyEnd(n.Else, bodyEnd(n.Body, nodeEnd(n.Condition, 0)))
}

func (n *ForStmt) Begin() token.Pos { return wordBegin(n.Async, wordBegin(n.For, 0)) }
func (n *ForStmt) End() token.Pos {
	return bodyEnd(n.Else, bodyEnd(n.Body, nodeEnd(n.Iterable, 0)))
}

func (n *ExceptClause) Begin() token.Pos { return wordBegin(n.Except, 0) }
func (n *ExceptClause) End() token.Pos   { return bodyEnd(n.Body, wordEnd(n.Except, 0)) }

func (n *TryStmt) Begin() token.Pos { return wordBegin(n.Try, 0) }
func (n *TryStmt) End() token.Pos {
	end := bodyEnd(n.Body, wordEnd(n.Try, 0))
	if len(n.Handlers) > 0 {
		end = n.Handlers[len(n.Handlers)-1].End()
	}
	return bodyEnd(n.Finally, bodyEnd(n.Else, end))
}

func (n *WithItem) Begin() token.Pos { return nodeBegin(n.Value, 0) }
func (n *WithItem) End() token.Pos   { return nodeEnd(n.Target, nodeEnd(n.Value, 0)) }

func (n *WithStmt) Begin() token.Pos { return wordBegin(n.Async, wordBegin(n.With, 0)) }
func (n *WithStmt) End() token.Pos   { return bodyEnd(n.Body, wordEnd(n.With, 0)) }

func (n *FunctionDefStmt) Begin() token.Pos {
	if len(n.Decorators) > 0 {
		return n.Decorators[0].Begin()
	}
	return wordBegin(n.Async, wordBegin(n.Def, 0))
}
func (n *FunctionDefStmt) End() token.Pos { return bodyEnd(n.Body, nodeEnd(n.Name, 0)) }

func (n *ClassDefStmt) Begin() token.Pos {
	if len(n.Decorators) > 0 {
		return n.Decorators[0].Begin()
	}
	return wordBegin(n.Class, 0)
}
func (n *ClassDefStmt) End() token.Pos { return bodyEnd(n.Body, nodeEnd(n.Name, 0)) }

func (n *Module) Begin() token.Pos {
	if len(n.Body) == 0 {
		return 0
	}
	return n.Body[0].Begin()
}
func (n *Module) End() token.Pos { return bodyEnd(n.Body, 0) }
