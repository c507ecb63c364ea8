package lexer

import (
	"strings"
	"testing"
)

// ============================================================================
// Lexer 基准测试
// ============================================================================
//
// 运行基准测试：
//   go test -bench=. -benchmem ./internal/lexer/...
//
// ============================================================================

var benchSource = `
// 基准测试用的示例代码
class Account extends Object {
    private balance: double = 0;
    static count: int;

    constructor(initial: double) {
        this.balance = initial;
        Account.count++;
    }

    deposit(amount: double): boolean {
        if (amount <= 0 || amount !== amount) {
            return false;
        }
        this.balance += amount;
        return true;
    }
}

function sum(items) {
    var total = 0;
    for (var i = 0; i < items.length; i++) {
        total = total + items[i] * 2 >>> 1;
    }
    try {
        print("total: " + total);
    } catch (e) {
        throw e;
    } finally {
        total = 0x7FFFFFFF;
    }
    return total;
}
`

func BenchmarkLexer(b *testing.B) {
	b.SetBytes(int64(len(benchSource)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		New(benchSource, "bench.js").ScanTokens()
	}
}

func BenchmarkLexerLarge(b *testing.B) {
	src := strings.Repeat(benchSource, 100)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		New(src, "bench.js").ScanTokens()
	}
}

func BenchmarkLexerLongConcat(b *testing.B) {
	src := "var s = " + strings.Repeat(`"a" + `, 10000) + `"z";`
	b.SetBytes(int64(len(src)))
	for i := 0; i < b.N; i++ {
		New(src, "bench.js").ScanTokens()
	}
}
