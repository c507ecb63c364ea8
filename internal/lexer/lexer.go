package lexer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 把方言源码切成 token。列号按字节计数（语言服务器再换算成 UTF-16）。
// 换行不生成 token，解析器比较相邻 token 的行号来自动补分号。
//
// 纯 ASCII 字符走单字节路径，不含转义的字符串直接切片。
//
// 注释不生成 token，但最近一条注释的文本会挂到下一个 token 的
// Preceding 字段上，供 switch 的 "falls through" 标注识别使用。
//
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	tokens   []token.Token // 已扫描的 Token 列表

	start     int // 当前 Token 的起始位置（字节偏移）
	current   int // 当前扫描位置（字节偏移）
	line      int // 当前行号（从1开始）
	column    int // 当前列号（从1开始）
	lineStart int // 当前行的起始偏移

	pendingComment string // 尚未挂到 token 上的注释

	errors []Error // 词法错误列表
}

// Error 表示词法分析错误
type Error struct {
	Pos     token.Position // 错误位置
	Message string         // 错误信息
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// New 创建一个新的词法分析器
func New(source, filename string) *Lexer {
	// 经验值：平均每 5 个字符产生一个 token
	estimatedTokens := len(source) / 5
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ScanTokens 扫描所有 tokens，最后一个 Token 总是 EOF
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.start = l.current
	l.tokens = append(l.tokens, token.Token{
		Type:      token.EOF,
		Pos:       l.currentPos(),
		Preceding: l.pendingComment,
	})

	return l.tokens
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {

	// ----------------------------------------------------------
	// 空白
	// ----------------------------------------------------------
	case ' ', '\t', '\r':
		l.skipWhitespace()

	case '\n':
		l.newLine()
		l.skipWhitespace()

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ',':
		l.addToken(token.COMMA)
	case ';':
		l.addToken(token.SEMICOLON)
	case ':':
		l.addToken(token.COLON)
	case '?':
		l.addToken(token.QUESTION)
	case '~':
		l.addToken(token.BIT_NOT)

	case '.':
		// .5 这样的小数
		if isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(token.DOT)
		}

	// ----------------------------------------------------------
	// 运算符（可能是多字符）
	// ----------------------------------------------------------
	case '=':
		// = == ===
		if l.match('=') {
			if l.match('=') {
				l.addToken(token.STRICT_EQ)
			} else {
				l.addToken(token.EQ)
			}
		} else {
			l.addToken(token.ASSIGN)
		}

	case '!':
		// ! != !==
		if l.match('=') {
			if l.match('=') {
				l.addToken(token.STRICT_NE)
			} else {
				l.addToken(token.NE)
			}
		} else {
			l.addToken(token.NOT)
		}

	case '+':
		if l.match('+') {
			l.addToken(token.INCREMENT)
		} else if l.match('=') {
			l.addToken(token.PLUS_ASSIGN)
		} else {
			l.addToken(token.PLUS)
		}

	case '-':
		if l.match('-') {
			l.addToken(token.DECREMENT)
		} else if l.match('=') {
			l.addToken(token.MINUS_ASSIGN)
		} else {
			l.addToken(token.MINUS)
		}

	case '*':
		l.addAssignVariant(token.STAR, token.STAR_ASSIGN)

	case '/':
		if l.match('/') {
			l.lineComment()
		} else if l.match('*') {
			l.blockComment()
		} else {
			l.addAssignVariant(token.SLASH, token.SLASH_ASSIGN)
		}

	case '%':
		l.addAssignVariant(token.PERCENT, token.PERCENT_ASSIGN)

	case '^':
		l.addAssignVariant(token.BIT_XOR, token.XOR_ASSIGN)

	case '<':
		// < <= << <<=
		if l.match('=') {
			l.addToken(token.LE)
		} else if l.match('<') {
			l.addAssignVariant(token.LEFT_SHIFT, token.SHL_ASSIGN)
		} else {
			l.addToken(token.LT)
		}

	case '>':
		// > >= >> >>= >>> >>>=
		if l.match('=') {
			l.addToken(token.GE)
		} else if l.match('>') {
			if l.match('>') {
				l.addAssignVariant(token.UNSIGNED_RIGHT_SHIFT, token.USHR_ASSIGN)
			} else {
				l.addAssignVariant(token.RIGHT_SHIFT, token.SHR_ASSIGN)
			}
		} else {
			l.addToken(token.GT)
		}

	case '&':
		if l.match('&') {
			l.addToken(token.AND)
		} else {
			l.addAssignVariant(token.BIT_AND, token.AND_ASSIGN)
		}

	case '|':
		if l.match('|') {
			l.addToken(token.OR)
		} else {
			l.addAssignVariant(token.BIT_OR, token.OR_ASSIGN)
		}

	// ----------------------------------------------------------
	// 字符串字面量
	// ----------------------------------------------------------
	case '"':
		l.string('"')
	case '\'':
		l.string('\'')

	default:
		if isDigit(ch) {
			l.number()
		} else if isAlpha(ch) {
			l.identifier()
		} else {
			l.error(i18n.T(i18n.ErrUnexpectedChar, ch))
		}
	}
}

// addAssignVariant 处理 op 与 op= 两种形式
func (l *Lexer) addAssignVariant(plain, assign token.TokenType) {
	if l.match('=') {
		l.addToken(assign)
	} else {
		l.addToken(plain)
	}
}

// skipWhitespace 批量跳过连续的空白字符
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r':
			l.advanceByte()
		case '\n':
			l.advanceByte()
			l.newLine()
		default:
			return
		}
	}
}

// ============================================================================
// 注释处理
// ============================================================================

// lineComment 处理单行注释 //，不消费换行符
func (l *Lexer) lineComment() {
	begin := l.current
	for !l.isAtEnd() && l.peekByte() != '\n' {
		l.advance()
	}
	l.pendingComment = strings.TrimSpace(l.source[begin:l.current])
}

// blockComment 处理多行注释 /* */（不支持嵌套，与 JavaScript 一致）
func (l *Lexer) blockComment() {
	begin := l.current
	for !l.isAtEnd() {
		if l.peekByte() == '*' && l.peekNextByte() == '/' {
			text := l.source[begin:l.current]
			l.advance()
			l.advance()
			l.pendingComment = strings.TrimSpace(text)
			return
		}
		if l.peekByte() == '\n' {
			l.advance()
			l.newLine()
			continue
		}
		l.advance()
	}
	l.error(i18n.T(i18n.ErrUnterminatedComment))
}

// ============================================================================
// 字符串处理
// ============================================================================

// string 处理字符串字面量，支持 \n \r \t \\ \' \" \0 \uXXXX
func (l *Lexer) string(quote rune) {
	startOffset := l.current

	hasEscape := false
	scanPos := l.current
	for scanPos < len(l.source) {
		b := l.source[scanPos]
		if b == '\\' {
			hasEscape = true
			break
		}
		if b == byte(quote) || b == '\n' {
			break
		}
		scanPos++
	}

	// 快速路径：无转义字符，直接切片
	if !hasEscape {
		for l.current < scanPos {
			l.advance()
		}
		if l.isAtEnd() || l.peek() == '\n' {
			l.error(i18n.T(i18n.ErrUnterminatedString))
			return
		}
		value := l.source[startOffset:l.current]
		l.advance()
		l.addTokenWithValue(token.STRING, value)
		return
	}

	var sb strings.Builder
	sb.Grow(scanPos - startOffset + 16)

	for !l.isAtEnd() {
		ch := l.peek()
		if ch == quote {
			break
		}
		if ch == '\n' {
			l.error(i18n.T(i18n.ErrUnterminatedString))
			return
		}
		if ch != '\\' {
			sb.WriteRune(l.advance())
			continue
		}

		l.advance()
		if l.isAtEnd() {
			l.error(i18n.T(i18n.ErrUnterminatedString))
			return
		}
		escaped := l.advance()
		switch escaped {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case '0':
			sb.WriteByte(0)
		case 'u':
			if l.current+4 > len(l.source) {
				l.error(i18n.T(i18n.ErrInvalidEscape, "u"))
				return
			}
			hex := l.source[l.current : l.current+4]
			code, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				l.error(i18n.T(i18n.ErrInvalidEscape, "u"+hex))
				return
			}
			for i := 0; i < 4; i++ {
				l.advance()
			}
			sb.WriteRune(rune(code))
		default:
			sb.WriteRune(escaped)
		}
	}

	if l.isAtEnd() {
		l.error(i18n.T(i18n.ErrUnterminatedString))
		return
	}

	l.advance()
	l.addTokenWithValue(token.STRING, sb.String())
}

// ============================================================================
// 数字处理
// ============================================================================

// number 处理数字字面量
//
// 支持以下格式：
//   - 十进制整数：123，后缀 L 表示 long
//   - 十六进制整数：0x1A2B（可带 L 后缀）
//   - 浮点数：3.14、.5、1e10，后缀 f 表示 float，d 表示 double
//   - 整数加 f/d 后缀同样得到浮点字面量：1f、2d
func (l *Lexer) number() {
	firstDigit := l.source[l.start]

	if firstDigit == '0' && (l.peekByte() == 'x' || l.peekByte() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		digits := l.source[l.start:l.current]
		long := l.matchSuffix('l', 'L')
		value, err := strconv.ParseUint(digits[2:], 16, 64)
		if err != nil || len(digits) == 2 {
			l.error(i18n.T(i18n.ErrInvalidHexNumber, l.source[l.start:l.current]))
			return
		}
		if long {
			l.addTokenWithValue(token.LONG, int64(value))
			return
		}
		if value > 0xFFFFFFFF {
			l.error(i18n.T(i18n.ErrIntegerOutOfRange, l.source[l.start:l.current]))
			return
		}
		// 0xFFFFFFFF 这样的十六进制字面量按 32 位补码解释
		l.addTokenWithValue(token.INT, int64(int32(uint32(value))))
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := firstDigit == '.'
	if l.peekByte() == '.' && isDigit(l.peekNextRune()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			l.error(i18n.T(i18n.ErrInvalidExponent))
			return
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	digits := l.source[l.start:l.current]

	switch {
	case l.matchSuffix('f', 'F'):
		value, err := strconv.ParseFloat(digits, 32)
		if err != nil {
			l.error(i18n.T(i18n.ErrInvalidFloat, l.source[l.start:l.current]))
			return
		}
		l.addTokenWithValue(token.FLOAT, value)
	case l.matchSuffix('d', 'D') || isFloat:
		value, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			l.error(i18n.T(i18n.ErrInvalidFloat, l.source[l.start:l.current]))
			return
		}
		l.addTokenWithValue(token.DOUBLE, value)
	case l.matchSuffix('l', 'L'):
		value, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			// 是否紧跟在一元负号之后由语法分析检查
			if digits == token.MinLongMagnitude {
				l.addTokenWithValue(token.LONG, int64(math.MinInt64))
				return
			}
			l.error(i18n.T(i18n.ErrIntegerOutOfRange, l.source[l.start:l.current]))
			return
		}
		l.addTokenWithValue(token.LONG, value)
	default:
		// 单位数整数快速路径
		if len(digits) == 1 {
			l.addTokenWithValue(token.INT, int64(digits[0]-'0'))
			return
		}
		value, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			if digits == token.MinIntMagnitude {
				l.addTokenWithValue(token.INT, int64(math.MaxInt32)+1)
				return
			}
			l.error(i18n.T(i18n.ErrIntegerOutOfRange, digits))
			return
		}
		l.addTokenWithValue(token.INT, value)
	}
}

// matchSuffix 消费一个数字后缀字符
func (l *Lexer) matchSuffix(lower, upper byte) bool {
	b := l.peekByte()
	if b != lower && b != upper {
		return false
	}
	// 1fx 这样的写法不是后缀
	if next := l.peekNextRune(); isAlphaNumeric(next) {
		return false
	}
	l.advanceByte()
	return true
}

// identifier 处理标识符和关键字
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 底层字符操作（带 ASCII 优化）
// ============================================================================

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		l.current++
		l.column++
		return rune(b)
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	l.column++
	return r
}

// advanceByte 前进一个字节，调用者保证当前字符是 ASCII
func (l *Lexer) advanceByte() {
	l.current++
	l.column++
}

func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}
	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

func (l *Lexer) peekByte() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNextByte() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// peekNextRune 查看下一个 rune（用于浮点数和后缀检测）
func (l *Lexer) peekNextRune() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	b := l.source[l.current+1]
	if b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.current+1:])
	return r
}

// match 如果当前字符匹配则前进（只用于 ASCII 运算符）
func (l *Lexer) match(expected byte) bool {
	if l.current >= len(l.source) || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

func (l *Lexer) newLine() {
	l.line++
	l.column = 1
	l.lineStart = l.current
}

// currentPos 获取当前 token 的起始位置
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column - utf8.RuneCountInString(l.source[l.start:l.current]),
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

func (l *Lexer) addToken(tokenType token.TokenType) {
	l.addTokenWithValue(tokenType, nil)
}

// addTokenWithValue 添加一个 Token，并把待处理的注释挂上去
func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.Token{
		Type:      tokenType,
		Literal:   l.source[l.start:l.current],
		Value:     value,
		Pos:       l.currentPos(),
		Preceding: l.pendingComment,
	})
	l.pendingComment = ""
}

// error 记录一个词法错误并生成 ILLEGAL token，扫描不中断
func (l *Lexer) error(message string) {
	l.errors = append(l.errors, Error{
		Pos:     l.currentPos(),
		Message: message,
	})
	l.addToken(token.ILLEGAL)
}

// ============================================================================
// 字符分类函数
// ============================================================================

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// isAlpha 判断是否为标识符首字符（字母、下划线或 $）
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_' || ch == '$' ||
		unicode.IsLetter(ch)
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
