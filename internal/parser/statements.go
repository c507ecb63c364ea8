package parser

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 语句解析
// ============================================================================

func (p *Parser) parseStatement() ast.Statement {
	switch p.peek().Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.LET, token.CONST:
		decl := p.parseVarDecl()
		if decl == nil {
			return nil
		}
		p.consumeSemicolon()
		return decl
	case token.FUNCTION:
		return p.parseFunction(ast.FuncDeclaration, 0)
	case token.CLASS, token.PUBLIC, token.PROTECTED, token.PRIVATE,
		token.FINAL, token.DEPRECATED:
		return p.parseClass()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.DO:
		return p.parseDoWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.SWITCH:
		return p.parseSwitchStmt()
	case token.BREAK:
		return p.parseBreakStmt()
	case token.CONTINUE:
		return p.parseContinueStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.THROW:
		return p.parseThrowStmt()
	case token.TRY:
		return p.parseTryStmt()
	case token.SEMICOLON:
		tok := p.advance()
		return p.arena.NewEmpty(token.SpanFromToken(tok))
	case token.IDENT:
		if p.peekNext().Type == token.COLON {
			return p.parseLabeledStmt()
		}
	}
	return p.parseExprStmt()
}

func (p *Parser) parseBlock() *ast.Block {
	lbrace := p.consume(token.LBRACE)
	if p.panicMode {
		return nil
	}

	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStatement()
		if p.panicMode {
			// 块内错误恢复：同步后继续解析同一个块
			p.synchronizeInBlock()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	p.consume(token.RBRACE)
	if p.panicMode {
		return nil
	}
	return p.arena.NewBlock(p.spanFrom(lbrace.Pos), stmts)
}

// synchronizeInBlock 块内的同步：停在语句边界，不越过本块的 }
func (p *Parser) synchronizeInBlock() {
	p.panicMode = false
	for !p.isAtEnd() {
		switch p.peek().Type {
		case token.RBRACE:
			return
		case token.SEMICOLON:
			p.advance()
			return
		case token.VAR, token.LET, token.CONST, token.IF, token.FOR, token.WHILE,
			token.DO, token.SWITCH, token.RETURN, token.TRY, token.THROW,
			token.BREAK, token.CONTINUE, token.FUNCTION, token.CLASS:
			if p.onNewLine() {
				return
			}
		case token.LBRACE:
			// 整个跳过嵌套块
			p.skipBody()
			p.panicMode = false
			continue
		}
		p.advance()
	}
}

func (p *Parser) parseExprStmt() ast.Statement {
	start := p.peek().Pos
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	p.consumeSemicolon()
	return p.arena.NewExprStmt(p.spanFrom(start), expr)
}

// parseVarDecl 解析 var/let/const 声明（不含结尾分号）
func (p *Parser) parseVarDecl() *ast.VarDecl {
	kw := p.advance()
	var decls []*ast.Declarator
	for {
		name := p.consumeIdent()
		if p.panicMode {
			return nil
		}
		typ := p.parseOptionalType()
		if p.panicMode {
			return nil
		}
		var init ast.Expression
		if p.match(token.ASSIGN) {
			init = p.parseExpression()
			if init == nil {
				return nil
			}
		}
		decls = append(decls, p.arena.NewDeclarator(p.spanFrom(name.Pos), name.Literal, typ, init))
		if !p.match(token.COMMA) {
			break
		}
	}
	return p.arena.NewVarDecl(p.spanFrom(kw.Pos), kw.Type, decls)
}

func (p *Parser) parseIfStmt() ast.Statement {
	ifTok := p.advance()
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	var els ast.Statement
	if p.match(token.ELSE) {
		els = p.parseStatement()
		if els == nil {
			return nil
		}
		if elif, ok := els.(*ast.IfStmt); ok {
			elif.Set(ast.ElseIf)
		}
	}
	return p.arena.NewIf(p.spanFrom(ifTok.Pos), cond, then, els)
}

// parseCondition 解析 ( expr )
func (p *Parser) parseCondition() ast.Expression {
	p.consume(token.LPAREN)
	if p.panicMode {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	p.consume(token.RPAREN)
	if p.panicMode {
		return nil
	}
	return cond
}

func (p *Parser) parseWhileStmt() ast.Statement {
	whileTok := p.advance()
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return p.arena.NewWhile(p.spanFrom(whileTok.Pos), cond, body)
}

func (p *Parser) parseDoWhileStmt() ast.Statement {
	doTok := p.advance()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	p.consume(token.WHILE)
	if p.panicMode {
		return nil
	}
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	// do-while 后的分号可省略
	p.match(token.SEMICOLON)
	return p.arena.NewDoWhile(p.spanFrom(doTok.Pos), body, cond)
}

func (p *Parser) parseForStmt() ast.Statement {
	forTok := p.advance()
	p.consume(token.LPAREN)
	if p.panicMode {
		return nil
	}

	if p.isForIn() {
		return p.parseForIn(forTok)
	}

	var init ast.Statement
	switch {
	case p.check(token.SEMICOLON):
	case p.checkAny(token.VAR, token.LET, token.CONST):
		decl := p.parseVarDecl()
		if decl == nil {
			return nil
		}
		init = decl
	default:
		start := p.peek().Pos
		x := p.parseExpression()
		if x == nil {
			return nil
		}
		init = p.arena.NewExprStmt(p.spanFrom(start), x)
	}
	p.consume(token.SEMICOLON)
	if p.panicMode {
		return nil
	}

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.parseExpression()
		if cond == nil {
			return nil
		}
	}
	p.consume(token.SEMICOLON)
	if p.panicMode {
		return nil
	}

	var update []ast.Expression
	for !p.check(token.RPAREN) && !p.isAtEnd() {
		x := p.parseExpression()
		if x == nil {
			return nil
		}
		update = append(update, x)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RPAREN)
	if p.panicMode {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return p.arena.NewFor(p.spanFrom(forTok.Pos), init, cond, update, body)
}

// isForIn 预读判断 for (var x in o) 或 for (x in o)
func (p *Parser) isForIn() bool {
	switch p.peek().Type {
	case token.VAR, token.LET, token.CONST:
		return p.lookAhead(1).Type == token.IDENT && p.lookAhead(2).Type == token.IN
	case token.IDENT:
		return p.lookAhead(1).Type == token.IN
	}
	return false
}

func (p *Parser) parseForIn(forTok token.Token) ast.Statement {
	var decl *ast.VarDecl
	var target ast.Expression

	if p.checkAny(token.VAR, token.LET, token.CONST) {
		kw := p.advance()
		name := p.advance()
		d := p.arena.NewDeclarator(token.SpanFromToken(name), name.Literal, nil, nil)
		decl = p.arena.NewVarDecl(p.spanFrom(kw.Pos), kw.Type, []*ast.Declarator{d})
	} else {
		name := p.advance()
		target = p.arena.NewIdent(token.SpanFromToken(name), name.Literal)
	}
	p.consume(token.IN)
	object := p.parseExpression()
	if object == nil {
		return nil
	}
	p.consume(token.RPAREN)
	if p.panicMode {
		return nil
	}
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return p.arena.NewForIn(p.spanFrom(forTok.Pos), decl, target, object, body)
}

func (p *Parser) parseSwitchStmt() ast.Statement {
	switchTok := p.advance()
	tag := p.parseCondition()
	if tag == nil {
		return nil
	}
	p.consume(token.LBRACE)
	if p.panicMode {
		return nil
	}

	var cases []*ast.CaseClause
	hasDefault := false
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		caseTok := p.peek()
		var x ast.Expression
		switch caseTok.Type {
		case token.CASE:
			p.advance()
			x = p.parseExpression()
			if x == nil {
				return nil
			}
		case token.DEFAULT:
			p.advance()
			if hasDefault {
				p.errorAt(token.SpanFromToken(caseTok), i18n.T(i18n.ErrDuplicateDefault))
			}
			hasDefault = true
		default:
			p.error(i18n.T(i18n.ErrExpectedCaseDefault))
			p.panicMode = true
			return nil
		}
		p.consume(token.COLON)
		if p.panicMode {
			return nil
		}

		var body []ast.Statement
		for !p.checkAny(token.CASE, token.DEFAULT, token.RBRACE) && !p.isAtEnd() {
			stmt := p.parseStatement()
			if p.panicMode {
				p.synchronizeInBlock()
				continue
			}
			if stmt != nil {
				body = append(body, stmt)
			}
		}

		clause := p.arena.NewCase(p.spanFrom(caseTok.Pos), x, body)
		if isFallthroughComment(caseTok.Preceding) {
			clause.Set(ast.DocumentedFallthrough)
		}
		cases = append(cases, clause)
	}

	p.consume(token.RBRACE)
	if p.panicMode {
		return nil
	}
	return p.arena.NewSwitch(p.spanFrom(switchTok.Pos), tag, cases)
}

// parseLabel break/continue 后同一行的标签
func (p *Parser) parseLabel() string {
	if p.check(token.IDENT) && !p.onNewLine() {
		return p.advance().Literal
	}
	return ""
}

func (p *Parser) parseBreakStmt() ast.Statement {
	tok := p.advance()
	label := p.parseLabel()
	p.consumeSemicolon()
	return p.arena.NewBreak(p.spanFrom(tok.Pos), label)
}

func (p *Parser) parseContinueStmt() ast.Statement {
	tok := p.advance()
	label := p.parseLabel()
	p.consumeSemicolon()
	return p.arena.NewContinue(p.spanFrom(tok.Pos), label)
}

func (p *Parser) parseReturnStmt() ast.Statement {
	tok := p.advance()
	var value ast.Expression
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.isAtEnd() && !p.onNewLine() {
		value = p.parseExpression()
		if value == nil {
			return nil
		}
	}
	p.consumeSemicolon()
	return p.arena.NewReturn(p.spanFrom(tok.Pos), value)
}

func (p *Parser) parseThrowStmt() ast.Statement {
	tok := p.advance()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	p.consumeSemicolon()
	return p.arena.NewThrow(p.spanFrom(tok.Pos), value)
}

func (p *Parser) parseTryStmt() ast.Statement {
	tryTok := p.advance()
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	var catches []*ast.CatchClause
	for p.check(token.CATCH) {
		catchTok := p.advance()
		p.consume(token.LPAREN)
		if p.panicMode {
			return nil
		}
		name := p.consumeIdent()
		if p.panicMode {
			return nil
		}
		typ := p.parseOptionalType()
		if p.panicMode {
			return nil
		}
		param := p.arena.NewParam(p.spanFrom(name.Pos), name.Literal, typ)
		p.consume(token.RPAREN)
		if p.panicMode {
			return nil
		}
		cbody := p.parseBlock()
		if cbody == nil {
			return nil
		}
		catches = append(catches, p.arena.NewCatch(p.spanFrom(catchTok.Pos), param, cbody))
	}

	var finally *ast.Block
	if p.match(token.FINALLY) {
		finally = p.parseBlock()
		if finally == nil {
			return nil
		}
	}

	if len(catches) == 0 && finally == nil {
		p.error(i18n.T(i18n.ErrCatchOrFinally))
		p.panicMode = true
		return nil
	}
	return p.arena.NewTry(p.spanFrom(tryTok.Pos), body, catches, finally)
}

func (p *Parser) parseLabeledStmt() ast.Statement {
	label := p.advance()
	p.advance() // :
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return p.arena.NewLabeled(p.spanFrom(label.Pos), label.Literal, body)
}
