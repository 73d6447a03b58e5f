package dag

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lfalab/internal/pyfmt"
)

// String returns the canonical textual form of the expression, e.g.
//
//	(+
//	  id
//	  (stencil [((0,), 1.0)]))
//
// Operands are printed on their own lines, indented by two spaces per level.
func (n *Node) String() string {
	switch o := n.op.(type) {
	case identityOp:
		return "id"
	case zeroOp:
		return "0"
	case stencilOp:
		return "(stencil " + o.st.String() + ")"
	case highPassOp:
		return form("hp_filter", o.fine.String(), o.coarse.String())
	case transferOp:
		name := "interpolate"
		if o.restrict {
			name = "restrict"
		}
		return form(name, o.fine.String(), o.coarse.String())
	case addOp:
		return form("+", n.deps[0].String(), n.deps[1].String())
	case mulOp:
		return form("*", n.deps[0].String(), n.deps[1].String())
	case scalarOp:
		return form("*", pyfmt.Number(o.s), n.deps[0].String())
	case inverseOp:
		return form("inverse", n.deps[0].String())
	case adjointOp:
		return form("adjoint", n.deps[0].String())
	case subscriptOp:
		return form(fmt.Sprintf("at %d %d", o.i, o.j), n.deps[0].String())
	case blockOp:
		return form("block", o.elems.Format((*Node).String))
	case systemOp:
		var sb strings.Builder
		sb.WriteByte('[')
		for i := 0; i < o.rows; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('[')
			for j := 0; j < o.cols; j++ {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(n.deps[i*o.cols+j].String())
			}
			sb.WriteByte(']')
		}
		sb.WriteByte(']')
		return form("system", sb.String())
	}
	panic(fmt.Sprintf("dag: unknown operation %T", n.op))
}

// form renders "(head\n  arg\n  arg)", indenting nested lines.
func form(head string, args ...string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, a := range args {
		sb.WriteString("\n  ")
		sb.WriteString(strings.ReplaceAll(a, "\n", "\n  "))
	}
	sb.WriteByte(')')
	return sb.String()
}
