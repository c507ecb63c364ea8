package parser

import (
	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 声明解析：函数、类、类型注解
// ============================================================================

// parseFunction 解析 function [name](params)[: T] { ... }
//
// 方法与构造函数由 parseClass 调用，此时已经越过名字之前的部分。
func (p *Parser) parseFunction(kind ast.FuncKind, mods ast.Modifiers) *ast.FunctionDecl {
	start := p.peek().Pos
	if kind == ast.FuncDeclaration || kind == ast.FuncExpression {
		p.consume(token.FUNCTION)
		if p.panicMode {
			return nil
		}
	}

	var name token.Token
	switch {
	case kind == ast.FuncConstructor:
		name = p.advance()
	case kind == ast.FuncExpression && !p.check(token.IDENT):
		// 匿名函数表达式
	default:
		name = p.consumeIdent()
		if p.panicMode {
			return nil
		}
	}

	params := p.parseParams()
	if p.panicMode {
		return nil
	}
	ret := p.parseOptionalType()
	if p.panicMode {
		return nil
	}

	var nameSpan token.Span
	if name.Literal != "" {
		nameSpan = token.SpanFromToken(name)
	}

	if !p.check(token.LBRACE) {
		p.error(i18n.T(i18n.ErrExpectedToken, "'{'"))
		p.panicMode = true
		return nil
	}

	if p.diet {
		bodyStart, bodyEnd := p.skipBody()
		if p.panicMode {
			return nil
		}
		fn := p.arena.NewFunction(p.spanFrom(start), kind, name.Literal, nameSpan, params, ret)
		fn.Modifiers = mods
		fn.BodyStart, fn.BodyEnd = bodyStart, bodyEnd
		return fn
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn := p.arena.NewFunction(p.spanFrom(start), kind, name.Literal, nameSpan, params, ret)
	fn.Modifiers = mods
	fn.Body = body
	return fn
}

// parseParams 解析 (a, b: int, ...)
func (p *Parser) parseParams() []*ast.Param {
	p.consume(token.LPAREN)
	if p.panicMode {
		return nil
	}
	var params []*ast.Param
	for !p.check(token.RPAREN) && !p.isAtEnd() {
		name := p.consumeIdent()
		if p.panicMode {
			return nil
		}
		typ := p.parseOptionalType()
		if p.panicMode {
			return nil
		}
		params = append(params, p.arena.NewParam(p.spanFrom(name.Pos), name.Literal, typ))
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RPAREN)
	return params
}

// parseOptionalType 解析可选的 : Type 注解
func (p *Parser) parseOptionalType() *ast.TypeRef {
	if !p.match(token.COLON) {
		return nil
	}
	return p.parseTypeName()
}

// parseTypeName 解析 Name 或 Name[][]
func (p *Parser) parseTypeName() *ast.TypeRef {
	name := p.peek()
	if name.Type != token.IDENT {
		p.error(i18n.T(i18n.ErrExpectedType))
		p.panicMode = true
		return nil
	}
	p.advance()
	dims := 0
	for p.check(token.LBRACKET) && p.peekNext().Type == token.RBRACKET {
		p.advance()
		p.advance()
		dims++
	}
	return p.arena.NewTypeRef(p.spanFrom(name.Pos), name.Literal, dims)
}

// parseModifiers 收集连续的修饰符关键字
func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for token.IsModifier(p.peek().Type) {
		mods |= ast.FromToken(p.advance().Type)
	}
	return mods
}

// parseClass 解析 [mods] class Name [extends Super] { members }
func (p *Parser) parseClass() ast.Statement {
	start := p.peek().Pos
	mods := p.parseModifiers()
	p.consume(token.CLASS)
	if p.panicMode {
		return nil
	}
	name := p.consumeIdent()
	if p.panicMode {
		return nil
	}

	var super *ast.TypeRef
	if p.match(token.EXTENDS) {
		super = p.parseTypeName()
		if super == nil {
			return nil
		}
	}

	p.consume(token.LBRACE)
	if p.panicMode {
		return nil
	}

	var fields []*ast.FieldDecl
	var methods []*ast.FunctionDecl
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if p.match(token.SEMICOLON) {
			continue
		}
		memberStart := p.peek().Pos
		memberMods := p.parseModifiers()

		switch {
		case p.check(token.CONSTRUCTOR):
			fn := p.parseFunction(ast.FuncConstructor, memberMods)
			if fn == nil {
				return nil
			}
			methods = append(methods, fn)
		case p.match(token.FUNCTION):
			fn := p.parseFunction(ast.FuncMethod, memberMods)
			if fn == nil {
				return nil
			}
			methods = append(methods, fn)
		case p.check(token.IDENT) && p.peekNext().Type == token.LPAREN:
			fn := p.parseFunction(ast.FuncMethod, memberMods)
			if fn == nil {
				return nil
			}
			methods = append(methods, fn)
		default:
			field := p.parseField(memberStart, memberMods)
			if field == nil {
				return nil
			}
			fields = append(fields, field)
		}
	}

	p.consume(token.RBRACE)
	if p.panicMode {
		return nil
	}

	class := p.arena.NewClass(p.spanFrom(start), mods, name.Literal, token.SpanFromToken(name), super)
	class.Fields = fields
	class.Methods = methods
	return class
}

// parseField 解析 [var] name [: T] [= init];
func (p *Parser) parseField(start token.Position, mods ast.Modifiers) *ast.FieldDecl {
	p.match(token.VAR)
	if !p.check(token.IDENT) {
		p.error(i18n.T(i18n.ErrExpectedMember))
		p.panicMode = true
		return nil
	}
	name := p.advance()
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
	p.consumeSemicolon()
	if p.panicMode {
		return nil
	}
	return p.arena.NewField(p.spanFrom(start), mods, name.Literal, typ, init)
}
