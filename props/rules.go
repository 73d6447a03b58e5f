package props

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/katalvlaran/lfalab/ndarray"
)

// sameRank rejects mixing operators of different dimension or system shape.
func sameRank(op string, a, b Properties) error {
	if a.Dim() != b.Dim() {
		return errors.Wrapf(ErrShapeMismatch, "%s: dimension %d vs %d", op, a.Dim(), b.Dim())
	}
	if a.IsSystem() != b.IsSystem() {
		return errors.Wrapf(ErrShapeMismatch, "%s: system and scalar operand", op)
	}

	return nil
}

// Add derives the properties of a + b. Input clusters are expanded to their
// least common coupling; afterwards both domains must agree.
func Add(a, b Properties) (Properties, error) {
	if err := sameRank("add", a, b); err != nil {
		return Properties{}, err
	}
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "add: %dx%d system vs %dx%d system", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	lcc := a.Input.LCC(b.Input)
	aex, bex := a.expandInputTo(lcc), b.expandInputTo(lcc)
	if !aex.Output.Equal(bex.Output) || !aex.Input.Equal(bex.Input) {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "add: incompatible operands %v and %v", a, b)
	}
	aex.granularity = lcmAll(aex.granularity, bex.granularity)

	return aex, nil
}

// Mul derives the properties of the composition a·b (apply b first).
func Mul(a, b Properties) (Properties, error) {
	if err := sameRank("mul", a, b); err != nil {
		return Properties{}, err
	}
	if a.Cols != b.Rows {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "mul: %dx%d system times %dx%d system", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	lcc := a.Input.LCC(b.Output)
	aex, bex := a.expandInputTo(lcc), b.expandOutputTo(lcc)
	if !aex.Input.Equal(bex.Output) {
		return Properties{}, errors.Wrapf(ErrShapeMismatch,
			"mul: contraction domains differ: first input %v, second output %v", a.Input, b.Output)
	}

	return Properties{
		Output:      aex.Output,
		Input:       bex.Input,
		Rows:        a.Rows,
		Cols:        b.Cols,
		granularity: lcmAll(aex.granularity, bex.granularity),
	}, nil
}

// Scale derives the properties of s·a, which are those of a.
func Scale(a Properties) Properties { return a }

// Inverse derives the properties of a⁻¹. The operator must map a domain onto
// itself and, for systems, have as many block rows as columns.
func Inverse(a Properties) (Properties, error) {
	if a.Rows != a.Cols {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "inverse: non-square %dx%d system", a.Rows, a.Cols)
	}
	if !a.Output.Equal(a.Input) {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "inverse: output %v differs from input %v", a.Output, a.Input)
	}

	return a, nil
}

// Adjoint derives the properties of aᴴ: domains and system shape swap.
func Adjoint(a Properties) Properties {
	out := a
	out.Output, out.Input = a.Input, a.Output
	out.Rows, out.Cols = a.Cols, a.Rows

	return out
}

// Subscript derives the properties of element (i, j) of a system.
func Subscript(a Properties, i, j int) (Properties, error) {
	if !a.IsSystem() {
		return Properties{}, errors.Wrap(ErrShapeMismatch, "subscript: operator is not a system")
	}
	if i < 0 || i >= a.Rows || j < 0 || j >= a.Cols {
		return Properties{}, errors.Wrapf(ErrShapeMismatch, "subscript: (%d, %d) outside %dx%d system", i, j, a.Rows, a.Cols)
	}

	return a.Element(), nil
}

// Block derives the properties of a periodic operator assembled from an array
// of scalar operators. Every element must be a scalar operator with unit
// clusters mapping the same grid onto itself; the result couples clusters of
// the array's shape on that grid.
func Block(elems ndarray.Array[Properties]) (Properties, error) {
	if elems.Len() == 0 {
		return Properties{}, errors.Wrap(ErrShapeMismatch, "block: no elements")
	}
	first := elems.Flat()[0]
	var errs error
	for i, e := range elems.Flat() {
		c := elems.Range().Coord(i)
		switch {
		case e.IsSystem():
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "block: element %v is a system", c))
		case e.Dim() != elems.Dim():
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "block: element %v has dimension %d, array has %d", c, e.Dim(), elems.Dim()))
		case !ndarray.AllZero(minusOne(e.Output.Cluster)) || !ndarray.AllZero(minusOne(e.Input.Cluster)):
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "block: element %v couples harmonics", c))
		case !e.Output.Equal(e.Input) || !e.Output.Grid.Equal(first.Output.Grid):
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "block: element %v is not an operator on %v", c, first.Output.Grid))
		}
	}
	if errs != nil {
		return Properties{}, errs
	}

	out := New(first.Output.Expand(elems.Shape()), first.Input.Expand(elems.Shape()))
	for _, e := range elems.Flat() {
		out.granularity = lcmAll(out.granularity, e.granularity)
	}

	return out, nil
}

// System derives the properties of a rows×cols block operator. All elements
// must be scalar operators with identical properties.
func System(elems [][]Properties) (Properties, error) {
	if len(elems) == 0 || len(elems[0]) == 0 {
		return Properties{}, errors.Wrap(ErrShapeMismatch, "system: no elements")
	}
	first := elems[0][0]
	cols := len(elems[0])
	var errs error
	for i, row := range elems {
		if len(row) != cols {
			errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "system: row %d has %d entries, want %d", i, len(row), cols))
			continue
		}
		for j, e := range row {
			switch {
			case e.IsSystem():
				errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "system: element (%d, %d) is a system", i, j))
			case !e.Equal(first):
				errs = multierr.Append(errs, errors.Wrapf(ErrShapeMismatch, "system: element (%d, %d) is %v, want %v", i, j, e, first))
			}
		}
	}
	if errs != nil {
		return Properties{}, errs
	}
	out := first
	out.Rows, out.Cols = len(elems), cols
	for _, row := range elems {
		for _, e := range row {
			out.granularity = lcmAll(out.granularity, e.granularity)
		}
	}

	return out, nil
}

func minusOne(v []int) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = x - 1
	}

	return out
}
