package parser

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jscheck/internal/ast"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/lexer"
	"github.com/tangzhangming/jscheck/internal/token"
)

// Parser 语法分析器
type Parser struct {
	lexer     *lexer.Lexer
	tokens    []token.Token
	current   int
	errors    []Error
	filename  string
	arena     *ast.Arena
	diet      bool // 跳过函数体，留待 ParseBody
	panicMode bool // 错误恢复模式标志，用于避免级联报错
	exprDepth int  // 表达式解析深度，防止栈溢出

	// 左结合长链展平阈值：每展平一次加倍，上限 maxChainThreshold
	chainThreshold int
}

const (
	// maxExprDepth 最大表达式嵌套深度，防止栈溢出
	maxExprDepth = 200

	initialChainThreshold = 20
	maxChainThreshold     = 160
)

// Error 语法分析错误
type Error struct {
	Span    token.Span
	Message string
	Lexical bool // 推迟到语法分析才能判断的词法错误，如整数越界
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

// Option 解析选项
type Option func(*Parser)

// WithDiet 开启 diet 模式：函数与方法体只记录 token 范围，由 ParseBody 按需解析
func WithDiet(diet bool) Option {
	return func(p *Parser) { p.diet = diet }
}

// WithArena 使用给定的节点池
func WithArena(a *ast.Arena) Option {
	return func(p *Parser) { p.arena = a }
}

// New 创建一个新的语法分析器
func New(source, filename string, opts ...Option) *Parser {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	p := &Parser{
		lexer:          l,
		tokens:         tokens,
		filename:       filename,
		chainThreshold: initialChainThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.arena == nil {
		// 经验值：每 3 个 token 大约一个节点
		p.arena = ast.NewArena(len(tokens) / 3)
	}
	return p
}

// Parse 解析源文件
func (p *Parser) Parse() *ast.File {
	var body []ast.Statement

	for !p.isAtEnd() {
		p.panicMode = false // 每次迭代重置 panicMode

		stmt := p.parseStatement()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}

	start := p.tokens[0].Pos
	file := p.arena.NewFile(token.Span{Start: start, End: p.peek().Pos}, p.filename, body)
	if p.diet {
		file.Bodies = p
	}
	return file
}

// ParseBody 解析 diet 模式下跳过的函数体
//
// 返回该函数体内的语法错误（用 multierr 合并），没有错误时返回 nil。
func (p *Parser) ParseBody(fn *ast.FunctionDecl) error {
	if !fn.HasLazyBody() {
		return nil
	}

	saved, savedDiet := p.current, p.diet
	firstErr := len(p.errors)
	p.current, p.diet, p.panicMode = fn.BodyStart, false, false

	body := p.parseBlock()
	if body == nil {
		// 保证函数体非 nil，后续阶段无需再判断
		body = p.arena.NewBlock(token.Span{Start: p.tokens[fn.BodyStart].Pos, End: p.tokens[fn.BodyEnd-1].End()}, nil)
	}
	fn.Body = body
	fn.BodyStart, fn.BodyEnd = 0, 0

	p.current, p.diet, p.panicMode = saved, savedDiet, false

	var err error
	for _, e := range p.errors[firstErr:] {
		err = multierr.Append(err, e)
	}
	return err
}

// Arena 返回节点池
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// LexErrors 返回词法错误
func (p *Parser) LexErrors() []lexer.Error {
	return p.lexer.Errors()
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0 || p.lexer.HasErrors()
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() token.Token {
	return p.lookAhead(1)
}

func (p *Parser) lookAhead(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // 返回EOF
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) checkAny(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t token.TokenType) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.error(i18n.T(i18n.ErrExpectedToken, quoteToken(t)))
	p.panicMode = true
	return token.Token{} // 返回零值，调用方应检查 panicMode
}

// consumeIdent 读取标识符；非保留的上下文关键字也可作名字
func (p *Parser) consumeIdent() token.Token {
	if p.check(token.IDENT) || p.check(token.CONSTRUCTOR) {
		return p.advance()
	}
	p.error(i18n.T(i18n.ErrExpectedIdentifier))
	p.panicMode = true
	return token.Token{}
}

// onNewLine 当前 token 是否与上一个 token 不在同一行
func (p *Parser) onNewLine() bool {
	return p.current == 0 || p.peek().Pos.Line > p.previous().Pos.Line
}

// consumeSemicolon 语句结束：分号，或在 }、文件尾、换行处自动插入
func (p *Parser) consumeSemicolon() {
	if p.match(token.SEMICOLON) {
		return
	}
	if p.check(token.RBRACE) || p.isAtEnd() || p.onNewLine() {
		return
	}
	p.error(i18n.T(i18n.ErrExpectedToken, "';'"))
	p.panicMode = true
}

// spanFrom 从 start 到上一个 token 结束的范围
func (p *Parser) spanFrom(start token.Position) token.Span {
	if p.current == 0 {
		return token.Span{Start: start, End: start}
	}
	return token.Span{Start: start, End: p.previous().End()}
}

func quoteToken(t token.TokenType) string {
	return "'" + t.String() + "'"
}

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

func (p *Parser) error(message string) {
	// panicMode 下跳过后续错误，避免级联报错
	if p.panicMode {
		return
	}

	tok := p.peek()
	span := token.SpanFromToken(tok)

	// 避免在同一位置重复报错
	if len(p.errors) > 0 {
		last := p.errors[len(p.errors)-1]
		if last.Span.Start.Offset == span.Start.Offset {
			return
		}
	}

	// 检查是否超过最大错误数量
	if len(p.errors) >= maxParseErrors {
		if len(p.errors) == maxParseErrors {
			p.errors = append(p.errors, Error{Span: span, Message: i18n.T(i18n.ErrTooManyErrors)})
		}
		p.panicMode = true
		return
	}

	// 词法错误已经报告过，不再重复
	if tok.Type == token.ILLEGAL {
		return
	}

	p.errors = append(p.errors, Error{Span: span, Message: message})
}

func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		// 分号后是安全点
		if p.previous().Type == token.SEMICOLON {
			return
		}
		// 右大括号后通常是安全点
		if p.previous().Type == token.RBRACE {
			return
		}

		// 新语句/声明的开始是安全的同步点
		switch p.peek().Type {
		case token.CLASS, token.FUNCTION, token.VAR, token.LET, token.CONST,
			token.IF, token.FOR, token.WHILE, token.DO, token.SWITCH,
			token.RETURN, token.TRY, token.THROW, token.BREAK, token.CONTINUE:
			return
		}

		p.advance()
	}
}

// skipBody 跳过一个以 { 开始的平衡块，返回 [start, end) token 下标
func (p *Parser) skipBody() (start, end int) {
	start = p.current
	depth := 0
	for !p.isAtEnd() {
		switch p.advance().Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return start, p.current
			}
		}
	}
	p.error(i18n.T(i18n.ErrExpectedToken, "'}'"))
	p.panicMode = true
	return start, p.current
}

// isFallthroughComment 注释是否声明了有意的 case 贯穿
func isFallthroughComment(comment string) bool {
	c := strings.ToLower(comment)
	return strings.Contains(c, "falls through") ||
		strings.Contains(c, "fall through") ||
		strings.Contains(c, "fallthrough")
}
