// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bf

// Optimize merges adjacent operators of the same kind into a single run,
// separately for each loop body. Merges never cross a loop, and I/O
// operators are never merged. Loops are never removed.
//
// The tree is modified in place; the shortened top level is returned.
func Optimize(exprs []Expression) []Expression {
	var prev *Operator
	var removed []int

	for n, expr := range exprs {
		switch node := expr.(type) {
		case *Loop:
			node.Body = Optimize(node.Body)
			prev = nil
		case *Operator:
			if prev != nil && !node.Kind.IsIo() && prev.Kind == node.Kind {
				prev.Count += node.Count
				removed = append(removed, n)
				continue
			}
			prev = node
		}
	}

	// Compact in a single pass; removed is in ascending order.
	kept := exprs[:0]
	for n, expr := range exprs {
		if len(removed) != 0 && removed[0] == n {
			removed = removed[1:]
			continue
		}
		kept = append(kept, expr)
	}
	clear(exprs[len(kept):])

	return kept
}
