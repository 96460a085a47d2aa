package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/hassan/jmm/internal/lexer"
	"github.com/hassan/jmm/internal/parser/ast"
)

func parseExpr(t *testing.T, source string) *ast.Node {
	t.Helper()
	tokens, err := lexer.New(source, "test.jmm").Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", source, err)
	}
	expr, err := New(tokens).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q) error: %v", source, err)
	}
	return expr
}

// sexpr renders an expression tree compactly for comparisons.
func sexpr(n *ast.Node) string {
	if n.NumChildren() == 0 {
		return n.String()
	}
	parts := make([]string, 0, n.NumChildren()+1)
	parts = append(parts, n.String())
	for _, c := range n.Children {
		parts = append(parts, sexpr(c))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func TestParser_ExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(Add Integer(1) (Mul Integer(2) Integer(3)))"},
		{"1 - 2 - 3", "(Sub (Sub Integer(1) Integer(2)) Integer(3))"},
		{"a < b && c", "(And (Less Identifier(a) Identifier(b)) Identifier(c))"},
		{"!a && b", "(And (Not Identifier(a)) Identifier(b))"},
		{"(1 + 2) * 3", "(Mul (Add Integer(1) Integer(2)) Integer(3))"},
		{"a[i + 1]", "(Bracket Identifier(a) (Add Identifier(i) Integer(1)))"},
		{"a.length", "(Length Identifier(a))"},
		{"this.foo(1, true)", "(Call(foo) This (Args Integer(1) True))"},
		{"new int[n].length", "(Length (NewIntArray Identifier(n)))"},
		{"new A().f()", "(Call(f) NewClass(A) Args)"},
		{"!x.length < 2", "(Less (Not (Length Identifier(x))) Integer(2))"},
		{"a / b * c", "(Mul (Div Identifier(a) Identifier(b)) Identifier(c))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sexpr(parseExpr(t, tt.input))
			if got != tt.expected {
				t.Errorf("parse(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParser_Program(t *testing.T) {
	source := `
import static io.println(int) void;
import Lib.size() int;
import Other;

class A extends B {
	int x;
	boolean[] nope;
}
`
	// boolean[] is not a type, so the class body is rejected at "[".
	_, err := Parse(source, "test.jmm")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("Parse() error = %v, want *SyntaxError", err)
	}
	if se.Pos.Line != 8 {
		t.Errorf("syntax error line = %d, want 8", se.Pos.Line)
	}
}

func TestParser_FullClass(t *testing.T) {
	source := `
import static io.println(int) void;

class Counter extends Base {
	int count;
	int[] data;

	public int add(int a, Counter other) {
		int sum;
		sum = a + count;
		data[0] = sum;
		if (sum < 10) { count = sum; } else count = 0;
		while (false) sum = sum - 1;
		io.println(sum);
		return sum;
	}

	public static void main(String[] args) {
		Counter c;
		c = new Counter();
		c.add(1, c);
	}
}
`
	prog, err := Parse(source, "counter.jmm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	imports := prog.ChildrenOf(ast.KindStaticImport)
	if len(imports) != 1 || imports[0].Value != "io" {
		t.Fatalf("static imports = %v, want [io]", imports)
	}
	if got := imports[0].Child(0).Value; got != "println" {
		t.Errorf("imported method = %q, want println", got)
	}
	if got := imports[0].Child(2).Value; got != "void" {
		t.Errorf("imported return type = %q, want void", got)
	}

	classes := prog.ChildrenOf(ast.KindClass)
	if len(classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(classes))
	}
	class := classes[0]
	if class.Value != "Counter" {
		t.Errorf("class name = %q, want Counter", class.Value)
	}
	if ext := class.ChildrenOf(ast.KindExtends); len(ext) != 1 || ext[0].Value != "Base" {
		t.Errorf("extends = %v, want Base", ext)
	}
	fields := class.ChildrenOf(ast.KindVarDecl)
	if len(fields) != 2 || fields[1].Child(0).Value != "int[]" {
		t.Errorf("fields = %v, want count and int[] data", fields)
	}

	methods := class.ChildrenOf(ast.KindMethod)
	if len(methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(methods))
	}
	add := methods[0]
	if add.Child(1).NumChildren() != 2 {
		t.Errorf("add has %d params, want 2", add.Child(1).NumChildren())
	}
	body := add.Child(2)
	wantBody := []ast.Kind{
		ast.KindVarDecl, ast.KindAssignment, ast.KindAssignment,
		ast.KindIf, ast.KindWhile, ast.KindExprStmt,
	}
	if body.NumChildren() != len(wantBody) {
		t.Fatalf("body has %d children, want %d", body.NumChildren(), len(wantBody))
	}
	for i, k := range wantBody {
		if body.Child(i).Kind != k {
			t.Errorf("body[%d] = %v, want %v", i, body.Child(i).Kind, k)
		}
	}
	if got := body.Child(3).NumChildren(); got != 3 {
		t.Errorf("if has %d children, want 3 (with else)", got)
	}
	if !add.Child(3).Is(ast.KindReturn) {
		t.Errorf("last method child = %v, want Return", add.Child(3))
	}

	mains := class.ChildrenOf(ast.KindMain)
	if len(mains) != 1 || mains[0].Value != "args" {
		t.Fatalf("main = %v, want main(args)", mains)
	}
	if got := mains[0].Child(0).NumChildren(); got != 3 {
		t.Errorf("main body has %d children, want 3", got)
	}
}

func TestParser_BracketAssignmentTarget(t *testing.T) {
	source := "class A { public int f(int[] a) { a[1] = 2; return 0; } }"
	prog, err := Parse(source, "test.jmm")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	assign := prog.Child(0).Child(0).Child(2).Child(0)
	if !assign.Is(ast.KindAssignment) {
		t.Fatalf("statement = %v, want Assignment", assign)
	}
	if !assign.Child(0).Is(ast.KindBracket) {
		t.Errorf("target = %v, want Bracket", assign.Child(0))
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		column   int
		expected string
	}{
		{
			name:     "missing semicolon",
			input:    "class A { int x }",
			line:     1,
			column:   17,
			expected: `";"`,
		},
		{
			name:     "missing return",
			input:    "class A { public int f() { } }",
			line:     1,
			column:   28,
			expected: `"return"`,
		},
		{
			name:     "no class",
			input:    "import A;",
			line:     1,
			column:   10,
			expected: `"class"`,
		},
		{
			name:     "bad main",
			input:    "class A { public static void start(String[] a) { } }",
			line:     1,
			column:   30,
			expected: `"main"`,
		},
		{
			name:   "invalid assignment target",
			input:  "class A { public int f() { 1 = 2; return 0; } }",
			line:   1,
			column: 28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, "test.jmm")
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse() error = %v, want *SyntaxError", err)
			}
			if se.Pos.Line != tt.line || se.Pos.Column != tt.column {
				t.Errorf("error at %d:%d, want %d:%d", se.Pos.Line, se.Pos.Column, tt.line, tt.column)
			}
			if tt.expected == "" {
				return
			}
			found := false
			for _, e := range se.Expected {
				if e == tt.expected {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected = %v, want it to contain %s", se.Expected, tt.expected)
			}
		})
	}
}

func TestParser_LexicalErrorPassesThrough(t *testing.T) {
	_, err := Parse("class A { # }", "test.jmm")
	var le *lexer.Error
	if !errors.As(err, &le) {
		t.Fatalf("Parse() error = %v, want *lexer.Error", err)
	}
}
