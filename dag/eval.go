// SPDX-License-Identifier: MIT

package dag

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/lfalab/grid"
	"github.com/katalvlaran/lfalab/ndarray"
	"github.com/katalvlaran/lfalab/symbol"
)

// Symbol samples the operator. See Evaluate.
func (n *Node) Symbol(opts ...EvalOption) (*symbol.Symbol, error) {
	return Evaluate(context.Background(), n, opts...)
}

// Evaluate samples the operator n.
//
// Blueprint:
//
//	Stage 1 (Configure): round the requested resolution up to a value every
//	                     node can be sampled at; fix one sampling for the call.
//	Stage 2 (Order):     collect the distinct reachable nodes, dependencies first.
//	Stage 3 (Count):     give every node one pending consumer per distinct
//	                     parent; the caller is one more consumer of n.
//	Stage 4 (Compute):   compute each node from its dependencies' symbols,
//	                     then release every dependency whose last consumer
//	                     this was.
//	Stage 5 (Finalize):  hand n's symbol to the caller and release it.
//
// On failure every cached symbol is released and all counts are drained
// before the error is returned. ctx is checked between nodes.
func Evaluate(ctx context.Context, n *Node, opts ...EvalOption) (*symbol.Symbol, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	o := defaultEvalOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// Stage 1: Configure
	s, err := o.sampling(n)
	if err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "dag.Evaluate", trace.WithAttributes(
		attribute.String("kind", n.Kind().String()),
		attribute.IntSlice("resolution", s.Resolution),
	))
	defer span.End()
	timer := prometheus.NewTimer(o.metrics.duration)
	defer timer.ObserveDuration()

	e := &evaluation{
		root:     n,
		sampling: s,
		log:      o.log.WithValues("resolution", s.Resolution),
		metrics:  o.metrics,
		state:    make(map[*Node]*entry),
	}

	// Stages 2 and 3: Order and Count
	e.visit(n)
	for _, v := range e.order {
		for _, d := range distinct(v.deps) {
			e.state[d].pending++
		}
	}
	e.state[n].pending++

	// Stages 4 and 5: Compute and Finalize
	sym, err := e.run(ctx)
	o.metrics.peakLive.Set(float64(e.peakLive))
	if o.stats != nil {
		e.fill(o.stats)
	}
	span.SetAttributes(attribute.Int("nodes", len(e.order)), attribute.Int("peak_live", e.peakLive))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.evaluations.WithLabelValues("error").Inc()
		return nil, err
	}
	o.metrics.evaluations.WithLabelValues("ok").Inc()

	return sym, nil
}

// sampling fixes the sampled frequencies of a call on n.
func (o evalOptions) sampling(n *Node) (grid.Sampling, error) {
	d := n.Dim()
	res := o.resolution
	if res == nil {
		res = []int{o.defaultResolution}
	}
	if len(res) == 1 && d > 1 {
		res = ndarray.Fill(d, res[0])
	}
	if len(res) != d {
		return grid.Sampling{}, errors.Wrapf(grid.ErrDimension, "resolution %v for a %d-dimensional operator", res, d)
	}
	for _, r := range res {
		if r < 1 {
			return grid.Sampling{}, errors.Wrapf(grid.ErrResolution, "resolution %v", res)
		}
	}
	res = n.props.AdjustResolution(res)

	if o.baseFrequency == nil {
		return grid.NewSampling(res, n.InputGrid()), nil
	}
	base := o.baseFrequency
	if len(base) == 1 && d > 1 {
		base = ndarray.Fill(d, base[0])
	}
	if len(base) != d {
		return grid.Sampling{}, errors.Wrapf(grid.ErrDimension, "base frequency %v for a %d-dimensional operator", base, d)
	}
	return grid.NewSamplingAt(res, base), nil
}

// entry is the transient state of one node during one call.
type entry struct {
	pending  int // consumers that have not been computed yet
	computed int
	symbol   *symbol.Symbol
}

// evaluation is the side table of one call.
type evaluation struct {
	root     *Node
	sampling grid.Sampling
	log      logr.Logger
	metrics  *Metrics
	state    map[*Node]*entry
	order    []*Node // dependencies first

	live, peakLive, released int
}

// visit appends n and its unvisited dependencies to e.order in post-order.
// Nodes reference only nodes that existed before them, so the graph has no
// cycles and the state map doubles as the visited set.
func (e *evaluation) visit(n *Node) {
	if _, seen := e.state[n]; seen {
		return
	}
	e.state[n] = &entry{}
	for _, d := range n.deps {
		e.visit(d)
	}
	e.order = append(e.order, n)
}

func (e *evaluation) run(ctx context.Context) (*symbol.Symbol, error) {
	for _, n := range e.order {
		if err := ctx.Err(); err != nil {
			return nil, e.abort(err)
		}
		deps := make([]*symbol.Symbol, len(n.deps))
		for i, d := range n.deps {
			deps[i] = e.state[d].symbol
		}
		sym, err := n.compute(deps, e.sampling)
		if err != nil {
			return nil, e.abort(errors.Wrapf(err, "evaluate %s", n.Kind()))
		}
		st := e.state[n]
		st.symbol = sym
		st.computed++
		e.live++
		e.peakLive = max(e.peakLive, e.live)
		e.metrics.computed.Inc()
		e.log.V(1).Info("computed symbol", "kind", n.Kind().String(), "live", e.live)

		for _, d := range distinct(n.deps) {
			e.release(d)
		}
	}

	sym := e.state[e.root].symbol
	e.release(e.root)

	return sym, nil
}

// release drops one pending consumer of n and frees its symbol once none are
// left.
func (e *evaluation) release(n *Node) {
	st := e.state[n]
	st.pending--
	if st.pending < 0 {
		panic(fmt.Sprintf("dag: internal invariant violation: pending count of %s node below zero", n.Kind()))
	}
	if st.pending > 0 {
		return
	}
	if st.symbol != nil {
		st.symbol = nil
		e.live--
		e.released++
		e.metrics.released.Inc()
		e.log.V(2).Info("released symbol", "kind", n.Kind().String(), "live", e.live)
	}
}

// abort releases every cached symbol and drains all counts.
func (e *evaluation) abort(err error) error {
	for _, n := range e.order {
		st := e.state[n]
		st.pending = 0
		if st.symbol != nil {
			st.symbol = nil
			e.live--
			e.released++
			e.metrics.released.Inc()
		}
	}
	e.log.V(1).Info("evaluation failed", "error", err.Error())

	return err
}

// distinct returns nodes without repetitions, keeping the first occurrence.
func distinct(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}
	out := make([]*Node, 0, len(nodes))
	seen := make(map[*Node]struct{}, len(nodes))
	for _, n := range nodes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// compute derives the symbol of n from the symbols of its dependencies.
func (n *Node) compute(deps []*symbol.Symbol, s grid.Sampling) (*symbol.Symbol, error) {
	switch o := n.op.(type) {
	case identityOp:
		return symbol.Identity(n.props, s)
	case zeroOp:
		return symbol.Zero(n.props, s)
	case stencilOp:
		return symbol.FromStencil(o.st, o.g, s)
	case highPassOp:
		return symbol.HighPass(o.fine, o.coarse, s)
	case transferOp:
		fine, coarse := grid.NewDomain(o.fine, o.factor...), grid.NewDomain(o.coarse)
		if o.restrict {
			return symbol.Constant(coarse, fine, symbol.FlatRestrictionBlock(o.factor), s)
		}
		return symbol.Constant(fine, coarse, symbol.FlatInterpolationBlock(o.factor), s)
	case addOp:
		return deps[0].Add(deps[1])
	case mulOp:
		return deps[0].Mul(deps[1])
	case scalarOp:
		return deps[0].Scale(o.s), nil
	case inverseOp:
		return deps[0].Inverse()
	case adjointOp:
		return deps[0].Adjoint(), nil
	case subscriptOp:
		return deps[0].Element(o.i, o.j)
	case blockOp:
		scalars := ndarray.New[*symbol.Symbol](o.elems.Shape()...)
		copy(scalars.Flat(), deps)
		return symbol.Block(scalars, o.g, s)
	case systemOp:
		rows := make([][]*symbol.Symbol, o.rows)
		for i := range rows {
			rows[i] = deps[i*o.cols : (i+1)*o.cols]
		}
		return symbol.AssembleSystem(rows)
	}
	panic(fmt.Sprintf("dag: unknown operation %T", n.op))
}
