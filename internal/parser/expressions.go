package parser

import (
	"math"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
	"github.com/tangzhangming/jscheck/internal/types"
)

// ============================================================================
// 表达式解析 (Pratt Parser / 优先级攀升)
// ============================================================================

// 运算符优先级
const (
	PREC_NONE       = iota
	PREC_ASSIGNMENT // =, +=, -=, ...
	PREC_TERNARY    // ?:
	PREC_OR         // ||
	PREC_AND        // &&
	PREC_BIT_OR     // |
	PREC_BIT_XOR    // ^
	PREC_BIT_AND    // &
	PREC_EQUALITY   // ==, !=, ===, !==
	PREC_COMPARISON // <, >, <=, >=, instanceof, in
	PREC_SHIFT      // <<, >>, >>>
	PREC_TERM       // +, -
	PREC_FACTOR     // *, /, %
	PREC_UNARY      // !, -, ~, typeof, ++, --
	PREC_POSTFIX    // ++, --, [], ., ()
	PREC_PRIMARY
)

func (p *Parser) getPrecedence(t token.TokenType) int {
	switch t {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN,
		token.XOR_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN, token.USHR_ASSIGN:
		return PREC_ASSIGNMENT
	case token.QUESTION:
		return PREC_TERNARY
	case token.OR:
		return PREC_OR
	case token.AND:
		return PREC_AND
	case token.BIT_OR:
		return PREC_BIT_OR
	case token.BIT_XOR:
		return PREC_BIT_XOR
	case token.BIT_AND:
		return PREC_BIT_AND
	case token.EQ, token.NE, token.STRICT_EQ, token.STRICT_NE:
		return PREC_EQUALITY
	case token.LT, token.LE, token.GT, token.GE, token.INSTANCEOF, token.IN:
		return PREC_COMPARISON
	case token.LEFT_SHIFT, token.RIGHT_SHIFT, token.UNSIGNED_RIGHT_SHIFT:
		return PREC_SHIFT
	case token.PLUS, token.MINUS:
		return PREC_TERM
	case token.STAR, token.SLASH, token.PERCENT:
		return PREC_FACTOR
	case token.LBRACKET, token.LPAREN, token.DOT:
		return PREC_POSTFIX
	case token.INCREMENT, token.DECREMENT:
		// 换行后的 ++/-- 属于下一条语句
		if p.onNewLine() {
			return PREC_NONE
		}
		return PREC_POSTFIX
	default:
		return PREC_NONE
	}
}

// binaryOperators token 到二元运算符
var binaryOperators = map[token.TokenType]types.Operator{
	token.OR:                   types.OrOr,
	token.AND:                  types.AndAnd,
	token.BIT_OR:               types.Or,
	token.BIT_XOR:              types.Xor,
	token.BIT_AND:              types.And,
	token.EQ:                   types.EqualEqual,
	token.NE:                   types.NotEqual,
	token.STRICT_EQ:            types.EqualEqualEqual,
	token.STRICT_NE:            types.NotEqualEqual,
	token.LT:                   types.Less,
	token.LE:                   types.LessEqual,
	token.GT:                   types.Greater,
	token.GE:                   types.GreaterEqual,
	token.INSTANCEOF:           types.InstanceOf,
	token.IN:                   types.In,
	token.LEFT_SHIFT:           types.LeftShift,
	token.RIGHT_SHIFT:          types.RightShift,
	token.UNSIGNED_RIGHT_SHIFT: types.UnsignedRightShift,
	token.PLUS:                 types.Plus,
	token.MINUS:                types.Minus,
	token.STAR:                 types.Multiply,
	token.SLASH:                types.Divide,
	token.PERCENT:              types.Remainder,
}

// compoundOperators 复合赋值 token 到运算符；= 对应 OpNone
var compoundOperators = map[token.TokenType]types.Operator{
	token.ASSIGN:         types.OpNone,
	token.PLUS_ASSIGN:    types.Plus,
	token.MINUS_ASSIGN:   types.Minus,
	token.STAR_ASSIGN:    types.Multiply,
	token.SLASH_ASSIGN:   types.Divide,
	token.PERCENT_ASSIGN: types.Remainder,
	token.AND_ASSIGN:     types.And,
	token.OR_ASSIGN:      types.Or,
	token.XOR_ASSIGN:     types.Xor,
	token.SHL_ASSIGN:     types.LeftShift,
	token.SHR_ASSIGN:     types.RightShift,
	token.USHR_ASSIGN:    types.UnsignedRightShift,
}

func (p *Parser) parseExpression() ast.Expression {
	// 检查递归深度，防止栈溢出
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.error(i18n.T(i18n.ErrNestingTooDeep))
		p.panicMode = true
		p.exprDepth--
		return nil
	}
	defer func() { p.exprDepth-- }()

	return p.parsePrecedence(PREC_ASSIGNMENT)
}

func (p *Parser) parsePrecedence(precedence int) ast.Expression {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for precedence <= p.getPrecedence(p.peek().Type) && !p.panicMode {
		left = p.parseInfixExpr(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	tok := p.peek()
	switch tok.Type {
	case token.INT, token.LONG, token.DOUBLE, token.FLOAT, token.STRING,
		token.TRUE, token.FALSE, token.NULL:
		p.advance()
		if tok.IsMinMagnitude() && !p.panicMode && len(p.errors) < maxParseErrors {
			p.errors = append(p.errors, Error{
				Span:    token.SpanFromToken(tok),
				Message: i18n.T(i18n.ErrIntegerOutOfRange, tok.Literal),
				Lexical: true,
			})
		}
		return p.arena.NewLiteral(token.SpanFromToken(tok), tok.Type, tok.Literal, tok.Value)
	case token.IDENT:
		p.advance()
		return p.arena.NewIdent(token.SpanFromToken(tok), tok.Literal)
	case token.THIS:
		p.advance()
		return p.arena.NewThis(token.SpanFromToken(tok))
	case token.SUPER:
		return p.parseSuper()
	case token.LPAREN:
		return p.parseGroup()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.NOT, token.MINUS, token.PLUS, token.BIT_NOT, token.TYPEOF:
		return p.parseUnaryExpr()
	case token.INCREMENT, token.DECREMENT:
		return p.parsePrefixIncDec()
	case token.NEW:
		return p.parseNewExpr()
	case token.FUNCTION:
		fn := p.parseFunction(ast.FuncExpression, 0)
		if fn == nil {
			return nil
		}
		return p.arena.NewFunctionExpr(fn.Span(), fn)
	case token.ILLEGAL:
		// 词法错误已报告
		p.advance()
		p.panicMode = true
		return nil
	case token.EOF, token.RPAREN, token.RBRACE, token.RBRACKET, token.SEMICOLON:
		p.error(i18n.T(i18n.ErrExpectedExpression))
		p.panicMode = true
		return nil
	default:
		p.error(i18n.T(i18n.ErrUnexpectedToken, tok.Type))
		p.advance() // 跳过无效 token，防止无限循环
		p.panicMode = true
		return nil
	}
}

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	switch p.peek().Type {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN,
		token.XOR_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN, token.USHR_ASSIGN:
		return p.parseAssignExpr(left)
	case token.QUESTION:
		return p.parseTernaryExpr(left)
	case token.LBRACKET:
		return p.parseIndexExpr(left)
	case token.LPAREN:
		return p.parseCallExpr(left)
	case token.DOT:
		return p.parseDotAccess(left)
	case token.INCREMENT, token.DECREMENT:
		return p.parsePostfixIncDec(left)
	}
	if _, ok := binaryOperators[p.peek().Type]; ok {
		return p.parseBinaryExpr(left)
	}
	return left
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	opTok := p.advance()
	op := binaryOperators[opTok.Type]
	prec := p.getPrecedence(opTok.Type)
	right := p.parsePrecedence(prec + 1)
	if right == nil {
		return nil
	}
	return p.combine(op, left, right)
}

// combine 构造 left op right；同运算符的左脊足够长时展平成 ChainExpr
func (p *Parser) combine(op types.Operator, left, right ast.Expression) ast.Expression {
	span := left.Span().Cover(right.Span())
	if !flattenable(op) {
		return p.arena.NewBinary(span, op, left, right)
	}

	if chain, ok := left.(*ast.ChainExpr); ok && chain.Op == op && chain.Parens() == 0 {
		chain.Append(right)
		return chain
	}

	bin := p.arena.NewBinary(span, op, left, right)
	if spineArity(bin, p.chainThreshold) < p.chainThreshold {
		return bin
	}

	chain := p.arena.NewChain(span, op, ast.Flatten(bin))
	p.chainThreshold = min(2*p.chainThreshold, maxChainThreshold)
	return chain
}

// flattenable 短路运算和 instanceof 保持二叉形式
func flattenable(op types.Operator) bool {
	return !op.IsLogical() && op != types.InstanceOf
}

// spineArity 左脊上同运算符的操作数个数，数到 limit 为止
func spineArity(root *ast.BinaryExpr, limit int) int {
	n := 1
	var cur ast.Expression = root
	for n < limit {
		b, ok := cur.(*ast.BinaryExpr)
		if !ok || b.Op != root.Op || (b != root && b.Parens() > 0) {
			break
		}
		n++
		cur = b.Left
	}
	return n
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	// 检查左侧是否是有效的赋值目标
	if !isValidAssignTarget(left) {
		p.error(i18n.T(i18n.ErrInvalidAssignTarget))
	}

	opTok := p.advance()
	right := p.parsePrecedence(PREC_ASSIGNMENT)
	if right == nil {
		return nil
	}
	return p.arena.NewAssign(left.Span().Cover(right.Span()), compoundOperators[opTok.Type], left, right)
}

// isValidAssignTarget 检查表达式是否是有效的赋值目标
func isValidAssignTarget(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Ident, *ast.FieldRef, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTernaryExpr(left ast.Expression) ast.Expression {
	p.advance() // ?
	then := p.parseExpression()
	if then == nil {
		return nil
	}
	p.consume(token.COLON)
	if p.panicMode {
		return nil
	}
	elseExpr := p.parsePrecedence(PREC_TERNARY)
	if elseExpr == nil {
		return nil
	}
	return p.arena.NewConditional(left.Span().Cover(elseExpr.Span()), left, then, elseExpr)
}

var unaryOperators = map[token.TokenType]types.Operator{
	token.NOT:     types.Not,
	token.MINUS:   types.UnaryMinus,
	token.PLUS:    types.UnaryPlus,
	token.BIT_NOT: types.Twiddle,
	token.TYPEOF:  types.TypeOf,
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	op := p.advance()
	if lit := p.parseNegatedMinimum(op); lit != nil {
		return lit
	}
	operand := p.parsePrecedence(PREC_UNARY)
	if operand == nil {
		return nil
	}
	return p.arena.NewUnary(p.spanFrom(op.Pos), unaryOperators[op.Type], operand)
}

// parseNegatedMinimum 把 -2147483648 和 -9223372036854775808L 合成一个字面量
//
// 字面量后面跟着成员访问、调用或下标时，操作数不是字面量本身，不合并。
func (p *Parser) parseNegatedMinimum(op token.Token) ast.Expression {
	tok := p.peek()
	if op.Type != token.MINUS || !tok.IsMinMagnitude() || p.getPrecedence(p.peekNext().Type) >= PREC_POSTFIX {
		return nil
	}
	p.advance()
	value := int64(math.MinInt32)
	if tok.Type == token.LONG {
		value = math.MinInt64
	}
	return p.arena.NewLiteral(p.spanFrom(op.Pos), tok.Type, "-"+tok.Literal, value)
}

func updateOperator(t token.TokenType) types.Operator {
	if t == token.INCREMENT {
		return types.PlusPlus
	}
	return types.MinusMinus
}

func (p *Parser) parsePrefixIncDec() ast.Expression {
	op := p.advance()
	operand := p.parsePrecedence(PREC_UNARY)
	if operand == nil {
		return nil
	}
	if !isValidAssignTarget(operand) {
		p.errorAt(operand.Span(), i18n.T(i18n.ErrInvalidAssignTarget))
	}
	return p.arena.NewUpdate(p.spanFrom(op.Pos), updateOperator(op.Type), true, operand)
}

func (p *Parser) parsePostfixIncDec(left ast.Expression) ast.Expression {
	op := p.advance()
	if !isValidAssignTarget(left) {
		p.errorAt(left.Span(), i18n.T(i18n.ErrInvalidAssignTarget))
	}
	return p.arena.NewUpdate(p.spanFrom(left.Pos()), updateOperator(op.Type), false, left)
}

// parseGroup 括号表达式；括号不生成节点，只增加括号计数
func (p *Parser) parseGroup() ast.Expression {
	p.advance() // (
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	p.consume(token.RPAREN)
	if p.panicMode {
		return nil
	}
	expr.SetParens(expr.Parens() + 1)
	return expr
}

func (p *Parser) parseSuper() ast.Expression {
	tok := p.advance()
	if p.check(token.LPAREN) {
		args := p.parseArguments()
		if p.panicMode {
			return nil
		}
		return p.arena.NewSuperCall(p.spanFrom(tok.Pos), args)
	}
	if !p.check(token.DOT) {
		p.error(i18n.T(i18n.ErrExpectedToken, "'.'"))
		p.panicMode = true
		return nil
	}
	return p.arena.NewSuper(token.SpanFromToken(tok))
}

// parseArguments 解析 (a, b, c)
func (p *Parser) parseArguments() []ast.Expression {
	p.consume(token.LPAREN)
	var args []ast.Expression
	for !p.check(token.RPAREN) && !p.isAtEnd() && !p.panicMode {
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RPAREN)
	return args
}

func (p *Parser) parseCallExpr(left ast.Expression) ast.Expression {
	args := p.parseArguments()
	if p.panicMode {
		return nil
	}
	return p.arena.NewCall(p.spanFrom(left.Pos()), left, args)
}

func (p *Parser) parseIndexExpr(left ast.Expression) ast.Expression {
	p.advance() // [
	index := p.parseExpression()
	if index == nil {
		return nil
	}
	p.consume(token.RBRACKET)
	if p.panicMode {
		return nil
	}
	return p.arena.NewIndex(p.spanFrom(left.Pos()), left, index)
}

func (p *Parser) parseDotAccess(left ast.Expression) ast.Expression {
	p.advance() // .
	name := p.peek()
	// 关键字也可以作属性名：a.default、e.in
	if name.Type != token.IDENT && !token.IsKeyword(name.Type) {
		p.error(i18n.T(i18n.ErrExpectedIdentifier))
		p.panicMode = true
		return nil
	}
	p.advance()
	return p.arena.NewFieldRef(p.spanFrom(left.Pos()), left, name.Literal, token.SpanFromToken(name))
}

func (p *Parser) parseNewExpr() ast.Expression {
	newTok := p.advance()
	typ := p.parseTypeName()
	if typ == nil {
		return nil
	}
	var args []ast.Expression
	if p.check(token.LPAREN) {
		args = p.parseArguments()
		if p.panicMode {
			return nil
		}
	}
	return p.arena.NewNew(p.spanFrom(newTok.Pos), typ, args)
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lbracket := p.advance()
	var elems []ast.Expression
	for !p.check(token.RBRACKET) && !p.isAtEnd() && !p.panicMode {
		elem := p.parseExpression()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RBRACKET)
	if p.panicMode {
		return nil
	}
	return p.arena.NewArrayLit(p.spanFrom(lbracket.Pos), elems)
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	lbrace := p.advance()
	var props []*ast.Property
	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.panicMode {
		key := p.peek()
		switch {
		case key.Type == token.IDENT || token.IsKeyword(key.Type):
		case key.Type == token.STRING || key.Type == token.INT:
		default:
			p.error(i18n.T(i18n.ErrExpectedIdentifier))
			p.panicMode = true
			return nil
		}
		p.advance()
		p.consume(token.COLON)
		if p.panicMode {
			return nil
		}
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		props = append(props, p.arena.NewProperty(p.spanFrom(key.Pos), key.Literal, value))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RBRACE)
	if p.panicMode {
		return nil
	}
	return p.arena.NewObjectLit(p.spanFrom(lbrace.Pos), props)
}

// errorAt 在指定范围报错（不进入 panicMode）
func (p *Parser) errorAt(span token.Span, message string) {
	if p.panicMode || len(p.errors) >= maxParseErrors {
		return
	}
	p.errors = append(p.errors, Error{Span: span, Message: message})
}
