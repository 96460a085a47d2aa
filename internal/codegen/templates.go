package codegen

import (
	"strings"

	"github.com/hassan/jmm/internal/semantic/types"
)

// Instruction templates. Each '?' is a positional placeholder filled by
// Subst in order.
const (
	Bytecode  = ".bytecode ?"
	ClassName = ".class public ?"
	SuperName = ".super ?"
	Field     = ".field public ? ?"
	Locals    = "\t.limit locals ?"
	Stack     = "\t.limit stack ?"
	ClassType = "L?;"
	Label     = "?:"

	DefaultSuper = "java/lang/Object"

	// class, method, parameter descriptors, return descriptor
	MethodRef = "?/?(?)?"

	// method, parameter descriptors, return descriptor
	MethodSignature = "?(?)?"

	// signature, limits, body
	Method = "\n.method public ?\n?\n?\n.end method"

	// limits, body
	Main = "\n.method public static main([Ljava/lang/String;)V\n?\n?\n.end method"

	DefaultMain = "\n.method public static main([Ljava/lang/String;)V\n\t.limit stack 1\n\t.limit locals 1\n\treturn\n.end method"

	// superclass
	DefaultInitializer = "\n.method public <init>()V\n\taload_0\n\tinvokenonvirtual ?/<init>()V\n\treturn\n.end method"
)

// Instructions. The emitter indents them.
const (
	IConst      = "iconst_?"
	IConstM1    = "iconst_m1"
	BIPush      = "bipush ?"
	SIPush      = "sipush ?"
	LDC         = "ldc ?"
	ILoad       = "iload ?"
	IStore      = "istore ?"
	ALoad       = "aload ?"
	AStore      = "astore ?"
	ALoad0      = "aload_0"
	Swap        = "swap"
	Dup         = "dup"
	Pop         = "pop"
	GetField    = "getfield ?/? ?"
	PutField    = "putfield ?/? ?"
	IALoad      = "iaload"
	IAStore     = "iastore"
	ArrayLength = "arraylength"
	NewArray    = "newarray int"
	NewObject   = "new ?"
	InvokeInit  = "invokespecial ?/<init>()V"
	Virtual     = "invokevirtual ?"
	Static      = "invokestatic ?"
	IXor        = "ixor"
	IfEq        = "ifeq ?"
	IfICmpLT    = "if_icmplt ?"
	Goto        = "goto ?"
	IReturn     = "ireturn"
	AReturn     = "areturn"
	Return      = "return"
)

// binaryOps maps operators with a direct instruction. "<" is lowered with
// a branch.
var binaryOps = map[string]string{
	"+":  "iadd",
	"-":  "isub",
	"*":  "imul",
	"/":  "idiv",
	"&&": "iand",
}

// Subst fills the placeholders of template with args, left to right.
// Placeholders past the last argument are left as they are, and a '?'
// inside an argument is never treated as a placeholder.
func Subst(template string, args ...string) string {
	var sb strings.Builder
	rest := template
	for _, arg := range args {
		i := strings.IndexByte(rest, '?')
		if i < 0 {
			break
		}
		sb.WriteString(rest[:i])
		sb.WriteString(arg)
		rest = rest[i+1:]
	}
	sb.WriteString(rest)
	return sb.String()
}

// Descriptor returns the type descriptor of t: I, Z, [I, V,
// [Ljava/lang/String; or L<class>;.
func Descriptor(t types.Type) string {
	switch t := t.(type) {
	case *types.IntType:
		return "I"
	case *types.BooleanType:
		return "Z"
	case *types.IntArrayType:
		return "[I"
	case *types.VoidType:
		return "V"
	case *types.StringArrayType:
		return "[Ljava/lang/String;"
	case *types.ClassType:
		return Subst(ClassType, t.Name)
	default:
		return Subst(ClassType, DefaultSuper)
	}
}

// Descriptors concatenates the descriptors of a parameter list.
func Descriptors(params []types.Type) string {
	var sb strings.Builder
	for _, p := range params {
		sb.WriteString(Descriptor(p))
	}
	return sb.String()
}
