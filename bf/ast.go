// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

import (
	"fmt"
	"strings"
)

// Expression is a node of the syntax tree, either a *Loop or an *Operator.
type Expression interface {
	fmt.Stringer
	expression()
}

// Operator is a run of Count identical, adjacent operations.
type Operator struct {
	Kind  Token // Never TOKEN_LOOP_START or TOKEN_LOOP_END.
	Count uint  // Always 1 or more.
}

func (op *Operator) expression() {}

func (op *Operator) String() string {
	if op.Count == 1 {
		return op.Kind.String()
	}
	return fmt.Sprintf("%v%d", op.Kind, op.Count)
}

// Loop repeats its Body while the current cell is non-zero.
type Loop struct {
	Body []Expression
}

func (lp *Loop) expression() {}

func (lp *Loop) String() string {
	return "[" + Format(lp.Body) + "]"
}

// Format renders a syntax tree compactly, with run lengths after their
// symbol, ie "+3>[-]".
func Format(exprs []Expression) string {
	var sb strings.Builder
	for _, expr := range exprs {
		sb.WriteString(expr.String())
	}
	return sb.String()
}

// CountInstructions counts the nodes of a tree. Each operator counts one, and
// each loop counts one plus its body.
func CountInstructions(exprs []Expression) (count int) {
	for _, expr := range exprs {
		switch node := expr.(type) {
		case *Loop:
			count += 1 + CountInstructions(node.Body)
		case *Operator:
			count++
		}
	}
	return
}

// CountLoops counts the loops in a tree, at all depths.
func CountLoops(exprs []Expression) (count int) {
	for _, expr := range exprs {
		if node, ok := expr.(*Loop); ok {
			count += 1 + CountLoops(node.Body)
		}
	}
	return
}
