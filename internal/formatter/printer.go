package formatter

import (
	"strings"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/types"
)

// Printer AST 打印器
type Printer struct {
	options *Options
	buf     strings.Builder
	indent  int
	line    int
	col     int
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	return &Printer{
		options: options,
		line:    1,
	}
}

// Print 打印 AST 并返回格式化的代码
func (p *Printer) Print(file *ast.File) string {
	p.printFile(file)

	result := p.buf.String()

	// 移除行尾空格
	if p.options.RemoveTrailingSpace {
		lines := strings.Split(result, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t")
		}
		result = strings.Join(lines, "\n")
	}

	// 确保文件末尾有换行符
	if p.options.EnsureNewlineAtEOF && result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result
}

// printFile 打印文件；函数与类声明前后各空一行
func (p *Printer) printFile(file *ast.File) {
	for i, stmt := range file.Body {
		if i > 0 && p.options.BlankLineBetween && (isDeclaration(stmt) || isDeclaration(file.Body[i-1])) {
			p.writeln()
		}
		p.printStatement(stmt)
	}
}

func isDeclaration(s ast.Statement) bool {
	switch s.(type) {
	case *ast.FunctionDecl, *ast.ClassDecl:
		return true
	}
	return false
}

// 辅助方法

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
	p.col += len(s)
}

func (p *Printer) writeln(s ...string) {
	for _, str := range s {
		p.buf.WriteString(str)
	}
	p.buf.WriteString("\n")
	p.line++
	p.col = 0
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.options.IndentString(), p.indent))
	p.col = p.indent * p.options.IndentSize
}

func (p *Printer) openBrace() {
	if p.options.NewlineBeforeBrace {
		p.writeln()
		p.writeIndent()
		p.write("{")
	} else {
		// K&R 风格：开括号前一个空格，不换行
		p.write(" {")
	}
	p.writeln()
	p.indent++
}

// closeBrace 关闭大括号，不换行
func (p *Printer) closeBrace() {
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *Printer) writeOperator(op string) {
	if p.options.SpaceAroundOps {
		p.write(" ")
	}
	p.write(op)
	if p.options.SpaceAroundOps {
		p.write(" ")
	}
}

// writeKeyword 写关键字及其后的左括号
func (p *Printer) writeKeyword(kw string) {
	p.write(kw)
	if p.options.SpaceBeforeParen {
		p.write(" ")
	}
	p.write("(")
}

// ============================================================================
// 表达式打印
// ============================================================================

func (p *Printer) printExpression(expr ast.Expression) {
	if expr == nil {
		return
	}
	for i := 0; i < expr.Parens(); i++ {
		p.write("(")
	}
	p.printBareExpression(expr)
	for i := 0; i < expr.Parens(); i++ {
		p.write(")")
	}
}

func (p *Printer) printBareExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Literal:
		p.write(ast.LiteralText(e))
	case *ast.Ident:
		p.write(e.Name)
	case *ast.ThisExpr:
		p.write("this")
	case *ast.SuperExpr:
		p.write("super")
	case *ast.FieldRef:
		p.printExpression(e.Receiver)
		p.write(".")
		p.write(e.Name)
	case *ast.IndexExpr:
		p.printExpression(e.X)
		p.write("[")
		p.printExpression(e.Index)
		p.write("]")
	case *ast.CallExpr:
		p.printExpression(e.Callee)
		p.printArgs(e.Args)
	case *ast.SuperCall:
		p.write("super")
		p.printArgs(e.Args)
	case *ast.NewExpr:
		p.write("new ")
		p.write(e.Type.String())
		p.printArgs(e.Args)
	case *ast.AssignExpr:
		p.printExpression(e.Target)
		op := "="
		if e.Op != types.OpNone {
			op = e.Op.String() + "="
		}
		// 赋值总是带空格
		p.write(" " + op + " ")
		p.printExpression(e.Value)
	case *ast.BinaryExpr:
		p.printExpression(e.Left)
		p.writeBinaryOperator(e.Op)
		p.printExpression(e.Right)
	case *ast.ChainExpr:
		for i, x := range e.Operands {
			if i > 0 {
				p.writeBinaryOperator(e.Op)
			}
			p.printExpression(x)
		}
	case *ast.UnaryExpr:
		p.write(e.Op.String())
		if e.Op == types.TypeOf {
			p.write(" ")
		} else if strings.HasPrefix(ast.Sprint(e.X), e.Op.String()) && e.X.Parens() == 0 {
			// - -x
			p.write(" ")
		}
		p.printExpression(e.X)
	case *ast.UpdateExpr:
		if e.Prefix {
			p.write(e.Op.String())
			p.printExpression(e.X)
		} else {
			p.printExpression(e.X)
			p.write(e.Op.String())
		}
	case *ast.ConditionalExpr:
		p.printExpression(e.Cond)
		p.write(" ? ")
		p.printExpression(e.Then)
		p.write(" : ")
		p.printExpression(e.Else)
	case *ast.FunctionExpr:
		p.printFunction(e.Func)
	case *ast.ArrayLit:
		p.write("[")
		for i, x := range e.Elems {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(x)
		}
		p.write("]")
	case *ast.ObjectLit:
		p.write("{")
		for i, prop := range e.Props {
			if i > 0 {
				p.write(", ")
			}
			p.write(prop.Key)
			p.write(": ")
			p.printExpression(prop.Value)
		}
		p.write("}")
	}
}

// writeBinaryOperator 关键字运算符两侧必须有空格
func (p *Printer) writeBinaryOperator(op types.Operator) {
	if op == types.InstanceOf || op == types.In {
		p.write(" " + op.String() + " ")
		return
	}
	p.writeOperator(op.String())
}

func (p *Printer) printArgs(args []ast.Expression) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpression(a)
	}
	p.write(")")
}

// ============================================================================
// 语句打印
// ============================================================================

// printStatement 打印一条带缩进、以换行结束的语句
func (p *Printer) printStatement(stmt ast.Statement) {
	p.writeIndent()
	p.printStatementBody(stmt)
}

// printStatementBody 从当前列开始打印语句，以换行结束
func (p *Printer) printStatementBody(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		p.printExpression(s.X)
		p.writeln(";")
	case *ast.VarDecl:
		p.printStatementInline(s)
		p.writeln(";")
	case *ast.EmptyStmt:
		p.writeln(";")
	case *ast.Block:
		p.printBlock(s)
		p.writeln()
	case *ast.IfStmt:
		p.printIf(s)
	case *ast.WhileStmt:
		p.writeKeyword("while")
		p.printExpression(s.Cond)
		p.write(")")
		p.endBody(p.printBody(s.Body))
	case *ast.DoWhileStmt:
		p.write("do")
		if p.printBody(s.Body) {
			p.write(" ")
		} else {
			p.writeIndent()
		}
		p.writeKeyword("while")
		p.printExpression(s.Cond)
		p.writeln(");")
	case *ast.ForStmt:
		p.writeKeyword("for")
		if s.Init != nil {
			p.printStatementInline(s.Init)
		}
		p.write("; ")
		p.printExpression(s.Cond)
		p.write("; ")
		for i, u := range s.Update {
			if i > 0 {
				p.write(", ")
			}
			p.printExpression(u)
		}
		p.write(")")
		p.endBody(p.printBody(s.Body))
	case *ast.ForInStmt:
		p.writeKeyword("for")
		if s.Decl != nil {
			p.printStatementInline(s.Decl)
		} else {
			p.printExpression(s.Target)
		}
		p.write(" in ")
		p.printExpression(s.Object)
		p.write(")")
		p.endBody(p.printBody(s.Body))
	case *ast.SwitchStmt:
		p.printSwitch(s)
	case *ast.BreakStmt:
		p.write("break")
		p.writeLabel(s.Label)
		p.writeln(";")
	case *ast.ContinueStmt:
		p.write("continue")
		p.writeLabel(s.Label)
		p.writeln(";")
	case *ast.ReturnStmt:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpression(s.Value)
		}
		p.writeln(";")
	case *ast.ThrowStmt:
		p.write("throw ")
		p.printExpression(s.Value)
		p.writeln(";")
	case *ast.TryStmt:
		p.write("try")
		p.printBlock(s.Body)
		for _, c := range s.Catches {
			p.write(" ")
			p.writeKeyword("catch")
			p.write(c.Param.String())
			p.write(")")
			p.printBlock(c.Body)
		}
		if s.Finally != nil {
			p.write(" finally")
			p.printBlock(s.Finally)
		}
		p.writeln()
	case *ast.LabeledStmt:
		p.write(s.Label)
		p.write(": ")
		p.printStatementBody(s.Body)
	case *ast.FunctionDecl:
		p.printFunction(s)
		p.writeln()
	case *ast.ClassDecl:
		p.printClass(s)
		p.writeln()
	}
}

func (p *Printer) writeLabel(label string) {
	if label != "" {
		p.write(" ")
		p.write(label)
	}
}

// printIf 打印 if 链；else if 与前一个分支同行
func (p *Printer) printIf(s *ast.IfStmt) {
	p.writeKeyword("if")
	p.printExpression(s.Cond)
	p.write(")")
	inline := p.printBody(s.Then)
	if s.Else == nil {
		p.endBody(inline)
		return
	}
	if inline {
		p.write(" ")
	} else {
		p.writeIndent()
	}
	p.write("else")
	if elif, ok := s.Else.(*ast.IfStmt); ok {
		p.write(" ")
		p.printIf(elif)
		return
	}
	p.endBody(p.printBody(s.Else))
}

// printBody 打印循环或分支体；块与关键字同行，其余语句另起一行缩进
//
// 返回 true 表示输出停在 } 之后，尚未换行。
func (p *Printer) printBody(body ast.Statement) bool {
	if b, ok := body.(*ast.Block); ok {
		p.printBlock(b)
		return true
	}
	p.writeln()
	p.indent++
	p.printStatement(body)
	p.indent--
	return false
}

func (p *Printer) endBody(inline bool) {
	if inline {
		p.writeln()
	}
}

func (p *Printer) printSwitch(s *ast.SwitchStmt) {
	p.writeKeyword("switch")
	p.printExpression(s.Tag)
	p.write(")")
	p.openBrace()
	for _, c := range s.Cases {
		if c.Has(ast.DocumentedFallthrough) {
			p.indent++
			p.writeIndent()
			p.writeln("// falls through")
			p.indent--
		}
		p.writeIndent()
		if c.Expr == nil {
			p.writeln("default:")
		} else {
			p.write("case ")
			p.printExpression(c.Expr)
			p.writeln(":")
		}
		p.indent++
		for _, stmt := range c.Body {
			p.printStatement(stmt)
		}
		p.indent--
	}
	p.closeBrace()
	p.writeln()
}

// printStatementInline 打印 for 头部中的初始化部分（不带分号）
func (p *Printer) printStatementInline(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		p.write(s.Kind.String())
		p.write(" ")
		for i, d := range s.Decls {
			if i > 0 {
				p.write(", ")
			}
			p.write(d.Name)
			if d.Type != nil {
				p.write(": ")
				p.write(d.Type.String())
			}
			if d.Init != nil {
				p.write(" = ")
				p.printExpression(d.Init)
			}
		}
	case *ast.ExprStmt:
		p.printExpression(s.X)
	}
}

// printBlock 打印块，输出停在 } 之后
func (p *Printer) printBlock(block *ast.Block) {
	p.openBrace()
	for _, stmt := range block.Stmts {
		p.printStatement(stmt)
	}
	p.closeBrace()
}

// ============================================================================
// 声明节点打印
// ============================================================================

func (p *Printer) writeModifiers(mods ast.Modifiers) {
	if m := mods.String(); m != "" {
		p.write(m)
		p.write(" ")
	}
}

// printFunction 打印函数、方法或构造函数，输出停在 } 之后
func (p *Printer) printFunction(fn *ast.FunctionDecl) {
	p.writeModifiers(fn.Modifiers)
	switch fn.Kind {
	case ast.FuncDeclaration, ast.FuncExpression:
		p.write("function")
		if fn.Name != "" {
			p.write(" ")
			p.write(fn.Name)
		}
	case ast.FuncConstructor:
		p.write("constructor")
	default:
		p.write(fn.Name)
	}
	p.write("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.String())
	}
	p.write(")")
	if fn.ReturnType != nil {
		p.write(": ")
		p.write(fn.ReturnType.String())
	}
	if fn.Body == nil {
		p.write(" {}")
		return
	}
	p.printBlock(fn.Body)
}

func (p *Printer) printClass(class *ast.ClassDecl) {
	p.writeModifiers(class.Modifiers)
	p.write("class ")
	p.write(class.Name)
	if class.Super != nil {
		p.write(" extends ")
		p.write(class.Super.String())
	}
	p.openBrace()

	for _, f := range class.Fields {
		p.writeIndent()
		p.writeModifiers(f.Modifiers)
		p.write(f.Name)
		if f.Type != nil {
			p.write(": ")
			p.write(f.Type.String())
		}
		if f.Init != nil {
			p.write(" = ")
			p.printExpression(f.Init)
		}
		p.writeln(";")
	}

	for i, m := range class.Methods {
		if p.options.BlankLineBetween && (i > 0 || len(class.Fields) > 0) {
			p.writeln()
		}
		p.writeIndent()
		p.printFunction(m)
		p.writeln()
	}

	p.closeBrace()
}
