package codegen

import (
	"strconv"
	"strings"
)

// emitter collects the instructions of one method body and tracks the
// operand stack depth they reach.
//
// Every instruction is emitted with its net stack effect. The depth after
// each instruction is an upper bound of the real depth on every path, so
// max never under-estimates the stack the method needs.
type emitter struct {
	lines  []string
	depth  int
	max    int
	labels int
}

// emit appends an instruction whose net effect on the stack is delta.
func (e *emitter) emit(delta int, inst string) {
	e.lines = append(e.lines, "\t"+inst)
	e.adjust(delta)
}

// adjust changes the tracked depth without emitting anything. It is used
// where two paths join with the same depth but were emitted one after the
// other.
func (e *emitter) adjust(delta int) {
	e.depth += delta
	if e.depth < 0 {
		e.depth = 0
	}
	if e.depth > e.max {
		e.max = e.depth
	}
}

// newLabel returns a label name unique within the method.
func (e *emitter) newLabel() string {
	l := "L" + strconv.Itoa(e.labels)
	e.labels++
	return l
}

func (e *emitter) label(name string) {
	e.lines = append(e.lines, Subst(Label, name))
}

// pushInt emits the shortest instruction that pushes v.
func (e *emitter) pushInt(v int32) {
	switch {
	case v == -1:
		e.emit(1, IConstM1)
	case v >= 0 && v <= 5:
		e.emit(1, Subst(IConst, strconv.Itoa(int(v))))
	case v >= -128 && v <= 127:
		e.emit(1, Subst(BIPush, strconv.Itoa(int(v))))
	case v >= -32768 && v <= 32767:
		e.emit(1, Subst(SIPush, strconv.Itoa(int(v))))
	default:
		e.emit(1, Subst(LDC, strconv.Itoa(int(v))))
	}
}

func (e *emitter) String() string {
	return strings.Join(e.lines, "\n")
}
