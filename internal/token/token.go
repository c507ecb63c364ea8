package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF, COMMENT）
// 2. 字面量（标识符、数字、字符串）
// 3. 运算符（算术、比较、逻辑、位运算）
// 4. 分隔符（括号、逗号、分号等）
// 5. 关键字（类型、值、声明、控制流等）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法字符
	EOF                      // 文件结束
	COMMENT                  // 注释

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符
	INT    // 整数字面量 123
	LONG   // 长整数字面量 123L
	DOUBLE // 浮点数字面量 1.5
	FLOAT  // 单精度字面量 1.5f
	STRING // 字符串字面量

	// ----------------------------------------------------------
	// 算术运算符
	// ----------------------------------------------------------
	PLUS           // +
	MINUS          // -
	STAR           // *
	SLASH          // /
	PERCENT        // %
	ASSIGN         // =
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	AND_ASSIGN     // &=
	OR_ASSIGN      // |=
	XOR_ASSIGN     // ^=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	USHR_ASSIGN    // >>>=
	INCREMENT      // ++
	DECREMENT      // --

	// ----------------------------------------------------------
	// 比较运算符
	// ----------------------------------------------------------
	EQ        // ==
	NE        // !=
	STRICT_EQ // ===
	STRICT_NE // !==
	LT        // <
	LE        // <=
	GT        // >
	GE        // >=

	// ----------------------------------------------------------
	// 逻辑运算符
	// ----------------------------------------------------------
	AND // &&
	OR  // ||
	NOT // !

	// ----------------------------------------------------------
	// 位运算符
	// ----------------------------------------------------------
	BIT_AND              // &
	BIT_OR               // |
	BIT_XOR              // ^
	BIT_NOT              // ~
	LEFT_SHIFT           // <<
	RIGHT_SHIFT          // >>
	UNSIGNED_RIGHT_SHIFT // >>>

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :
	QUESTION  // ?

	// ----------------------------------------------------------
	// 关键字 - 值
	// ----------------------------------------------------------
	keyword_beg // 关键字起始标记（不是实际 token）
	TRUE        // true
	FALSE       // false
	NULL        // null
	THIS        // this
	SUPER       // super

	// ----------------------------------------------------------
	// 关键字 - 声明
	// ----------------------------------------------------------
	VAR         // var
	LET         // let
	CONST       // const
	FUNCTION    // function
	CLASS       // class
	EXTENDS     // extends
	CONSTRUCTOR // constructor
	STATIC      // static
	FINAL       // final
	DEPRECATED  // deprecated

	// ----------------------------------------------------------
	// 关键字 - 访问控制
	// ----------------------------------------------------------
	PUBLIC    // public
	PROTECTED // protected
	PRIVATE   // private

	// ----------------------------------------------------------
	// 关键字 - 控制流
	// ----------------------------------------------------------
	IF       // if
	ELSE     // else
	SWITCH   // switch
	CASE     // case
	DEFAULT  // default
	FOR      // for
	WHILE    // while
	DO       // do
	BREAK    // break
	CONTINUE // continue
	RETURN   // return

	// ----------------------------------------------------------
	// 关键字 - 异常处理
	// ----------------------------------------------------------
	TRY     // try
	CATCH   // catch
	FINALLY // finally
	THROW   // throw

	// ----------------------------------------------------------
	// 关键字 - 运算符
	// ----------------------------------------------------------
	NEW        // new
	TYPEOF     // typeof
	INSTANCEOF // instanceof
	IN         // in
	keyword_end
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	// 特殊标记
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	// 字面量
	IDENT:  "IDENT",
	INT:    "INT",
	LONG:   "LONG",
	DOUBLE: "DOUBLE",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	// 算术运算符
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	SLASH:          "/",
	PERCENT:        "%",
	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	AND_ASSIGN:     "&=",
	OR_ASSIGN:      "|=",
	XOR_ASSIGN:     "^=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",
	USHR_ASSIGN:    ">>>=",
	INCREMENT:      "++",
	DECREMENT:      "--",

	// 比较运算符
	EQ:        "==",
	NE:        "!=",
	STRICT_EQ: "===",
	STRICT_NE: "!==",
	LT:        "<",
	LE:        "<=",
	GT:        ">",
	GE:        ">=",

	// 逻辑运算符
	AND: "&&",
	OR:  "||",
	NOT: "!",

	// 位运算符
	BIT_AND:              "&",
	BIT_OR:               "|",
	BIT_XOR:              "^",
	BIT_NOT:              "~",
	LEFT_SHIFT:           "<<",
	RIGHT_SHIFT:          ">>",
	UNSIGNED_RIGHT_SHIFT: ">>>",

	// 分隔符
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",
	QUESTION:  "?",

	// 关键字
	TRUE:        "true",
	FALSE:       "false",
	NULL:        "null",
	THIS:        "this",
	SUPER:       "super",
	VAR:         "var",
	LET:         "let",
	CONST:       "const",
	FUNCTION:    "function",
	CLASS:       "class",
	EXTENDS:     "extends",
	CONSTRUCTOR: "constructor",
	STATIC:      "static",
	FINAL:       "final",
	DEPRECATED:  "deprecated",
	PUBLIC:      "public",
	PROTECTED:   "protected",
	PRIVATE:     "private",
	IF:          "if",
	ELSE:        "else",
	SWITCH:      "switch",
	CASE:        "case",
	DEFAULT:     "default",
	FOR:         "for",
	WHILE:       "while",
	DO:          "do",
	BREAK:       "break",
	CONTINUE:    "continue",
	RETURN:      "return",
	TRY:         "try",
	CATCH:       "catch",
	FINALLY:     "finally",
	THROW:       "throw",
	NEW:         "new",
	TYPEOF:      "typeof",
	INSTANCEOF:  "instanceof",
	IN:          "in",
}

// ============================================================================
// 关键字查找表
// ============================================================================
//
// keywords 将关键字字符串映射到对应的 TokenType。
// 类型名（int、String 等）不是关键字，由语义分析按名字解析。
//
// ============================================================================

var keywords = map[string]TokenType{
	"true":        TRUE,
	"false":       FALSE,
	"null":        NULL,
	"this":        THIS,
	"super":       SUPER,
	"var":         VAR,
	"let":         LET,
	"const":       CONST,
	"function":    FUNCTION,
	"class":       CLASS,
	"extends":     EXTENDS,
	"constructor": CONSTRUCTOR,
	"static":      STATIC,
	"final":       FINAL,
	"deprecated":  DEPRECATED,
	"public":      PUBLIC,
	"protected":   PROTECTED,
	"private":     PRIVATE,
	"if":          IF,
	"else":        ELSE,
	"switch":      SWITCH,
	"case":        CASE,
	"default":     DEFAULT,
	"for":         FOR,
	"while":       WHILE,
	"do":          DO,
	"break":       BREAK,
	"continue":    CONTINUE,
	"return":      RETURN,
	"try":         TRY,
	"catch":       CATCH,
	"finally":     FINALLY,
	"throw":       THROW,
	"new":         NEW,
	"typeof":      TYPEOF,
	"instanceof":  INSTANCEOF,
	"in":          IN,
}

// LookupIdent 查找标识符是否为关键字
//
// 2-3 字符的关键字走 switch 快速路径，其余查 map。
func LookupIdent(ident string) TokenType {
	switch len(ident) {
	case 2:
		switch ident {
		case "if":
			return IF
		case "do":
			return DO
		case "in":
			return IN
		}
		return IDENT
	case 3:
		switch ident {
		case "var":
			return VAR
		case "let":
			return LET
		case "for":
			return FOR
		case "new":
			return NEW
		case "try":
			return TRY
		}
		return IDENT
	}

	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword 判断 TokenType 是否为关键字
func IsKeyword(t TokenType) bool {
	return t > keyword_beg && t < keyword_end
}

// IsModifier 判断是否为成员修饰符
func IsModifier(t TokenType) bool {
	switch t {
	case STATIC, FINAL, DEPRECATED, PUBLIC, PROTECTED, PRIVATE:
		return true
	}
	return false
}

// IsAssign 判断是否为赋值或复合赋值运算符
func IsAssign(t TokenType) bool {
	return t >= ASSIGN && t <= USHR_ASSIGN
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束，End 指向最后一个字符之后）
type Span struct {
	Start Position
	End   Position
}

// NewSpan 创建新的 Span
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// SpanFromToken 从 Token 创建覆盖整个 Token 的 Span
func SpanFromToken(t Token) Span {
	endPos := t.Pos
	endPos.Column += len(t.Literal)
	endPos.Offset += len(t.Literal)
	return Span{Start: t.Pos, End: endPos}
}

// Cover 返回同时覆盖 s 和 other 的最小范围
func (s Span) Cover(other Span) Span {
	out := s
	if !out.Start.IsValid() || (other.Start.IsValid() && other.Start.Offset < out.Start.Offset) {
		out.Start = other.Start
	}
	if other.End.Offset > out.End.Offset {
		out.End = other.End
	}
	return out
}

// Length 返回 Span 的字节长度
func (s Span) Length() int {
	return s.End.Offset - s.Start.Offset
}

// String 返回 Span 的字符串表示
func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", s.Start.Filename, s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始字面量
	Value   interface{} // 解析后的值 (int64、float64、string)
	Pos     Position    // 位置信息

	// Preceding 记录 token 之前紧邻的注释文本，用于识别 "falls through" 等标注
	Preceding string
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, INT, LONG, DOUBLE, FLOAT, STRING:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// End 返回 token 最后一个字符之后的位置
func (t Token) End() Position {
	end := t.Pos
	end.Column += len(t.Literal)
	end.Offset += len(t.Literal)
	return end
}

// 取负后分别是 int 和 long 最小值的十进制字面量，只能作为一元负号的操作数
const (
	MinIntMagnitude  = "2147483648"
	MinLongMagnitude = "9223372036854775808"
)

// IsMinMagnitude 是否是 2147483648 或 9223372036854775808L
func (t Token) IsMinMagnitude() bool {
	switch t.Type {
	case INT:
		return t.Literal == MinIntMagnitude
	case LONG:
		n := len(MinLongMagnitude)
		return len(t.Literal) == n+1 && t.Literal[:n] == MinLongMagnitude
	}
	return false
}

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
