package formatter

import (
	"testing"
)

func TestFormatFunction(t *testing.T) {
	input := `function f(a){var b=a+1;if(b>2){return b;}else return 0;}`
	expected := "function f(a) {\n" +
		"    var b = a + 1;\n" +
		"    if (b > 2) {\n" +
		"        return b;\n" +
		"    } else\n" +
		"        return 0;\n" +
		"}\n"

	got, err := FormatWithDefaultOptions(input, "test.js")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestFormatOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentStyle = "tabs"
	opts.SpaceAroundOps = false
	opts.SpaceBeforeParen = false

	got, err := Format("while (x) { x = a + b; }", "test.js", opts)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	expected := "while(x) {\n\tx = a+b;\n}\n"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		`var s = "a" + 1 + 'b';`,
		`for (var i = 0; i < n; i++) for (k in o) if (!k) continue; else break;`,
		`do { x--; } while (x > 0); outer: while (true) { break outer; }`,
		`try { f(); } catch (e: Error) { g(e); } catch (e) {} finally { h(); }`,
		`public class A extends B {
    static final x: int = 1;
    constructor(v) { super(v); this.y = - -v; }
    function m(v): String {
        switch (v) {
        case 1:
            f();
            // falls through
        case 2:
            break;
        default:
        }
        return typeof v;
    }
}`,
		`var f = function (a) { return [a, {k: a}, new Point(a)]; };`,
		`x = (a + b) * c ? d : e instanceof F;`,
	}

	for _, src := range sources {
		first, err := FormatWithDefaultOptions(src, "test.js")
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		second, err := FormatWithDefaultOptions(first, "test.js")
		if err != nil {
			t.Errorf("reformat of %q failed: %v\n%s", src, err, first)
			continue
		}
		if first != second {
			t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", first, second)
		}
	}
}

func TestFormatKeepsFallthroughNote(t *testing.T) {
	src := "switch (x) { case 1: a();\n// falls through\ncase 2: b(); }"
	got, err := FormatWithDefaultOptions(src, "test.js")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	expected := "switch (x) {\n" +
		"    case 1:\n" +
		"        a();\n" +
		"        // falls through\n" +
		"    case 2:\n" +
		"        b();\n" +
		"}\n"
	if got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestFormatSyntaxError(t *testing.T) {
	if _, err := FormatWithDefaultOptions("var = ;", "test.js"); err == nil {
		t.Error("expected error")
	}
}

func TestFormatPartial(t *testing.T) {
	got, err := FormatPartial("x=1;", "test.js", DefaultOptions(), 1)
	if err != nil {
		t.Fatalf("FormatPartial: %v", err)
	}
	if got != "    x = 1;\n" {
		t.Errorf("unexpected output %q", got)
	}
}
