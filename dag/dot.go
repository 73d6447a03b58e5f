package dag

import (
	"fmt"
	"io"

	"github.com/emicklei/dot"

	"github.com/katalvlaran/lfalab/internal/pyfmt"
)

// DOT renders the expression as a Graphviz graph. Every distinct node appears
// once; edges point from an operator to its operands and carry the operand
// position when the operation is not symmetric.
func DOT(n *Node) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "TB")
	g.Attr("fontname", "helvetica")

	ids := make(map[*Node]dot.Node)
	var visit func(*Node) dot.Node
	visit = func(v *Node) dot.Node {
		if d, ok := ids[v]; ok {
			return d
		}
		d := g.Node(fmt.Sprintf("n%d", len(ids))).
			Attr("label", label(v)).
			Attr("shape", shape(v.Kind()))
		ids[v] = d
		for i, dep := range v.deps {
			e := g.Edge(d, visit(dep))
			if v.Kind() == KindMul || v.Kind() == KindSystem || v.Kind() == KindBlock {
				e.Label(i)
			}
		}
		return d
	}
	visit(n)

	return g
}

// WriteDOT writes DOT(n) to w.
func WriteDOT(w io.Writer, n *Node) error {
	_, err := io.WriteString(w, DOT(n).String())
	return err
}

// label is a one-line description of a single node.
func label(n *Node) string {
	switch o := n.op.(type) {
	case identityOp:
		return "id"
	case zeroOp:
		return "0"
	case stencilOp:
		return o.st.String()
	case highPassOp:
		return fmt.Sprintf("hp_filter %v %v", o.fine, o.coarse)
	case transferOp:
		return fmt.Sprintf("%s %v %v", n.Kind(), o.fine, o.coarse)
	case addOp:
		return "+"
	case mulOp:
		return "*"
	case scalarOp:
		return "* " + pyfmt.Number(o.s)
	case subscriptOp:
		return fmt.Sprintf("at %d %d", o.i, o.j)
	case blockOp:
		return fmt.Sprintf("block %v", o.elems.Shape())
	case systemOp:
		return fmt.Sprintf("system %dx%d", o.rows, o.cols)
	}
	return n.Kind().String()
}

func shape(k Kind) string {
	switch {
	case k == KindIdentity || k == KindZero || k.IsGenerator():
		return "box"
	case k == KindBlock || k == KindSystem:
		return "box3d"
	}
	return "ellipse"
}
