package dag

import (
	"errors"

	"github.com/katalvlaran/lfalab/props"
)

// Sentinel errors for expression construction and evaluation.
var (
	// ErrShapeMismatch is returned when operands cannot be combined. It is the
	// same value as props.ErrShapeMismatch.
	ErrShapeMismatch = props.ErrShapeMismatch

	// ErrInvalidOperation is returned when a capability is requested from a
	// node kind that does not provide it.
	ErrInvalidOperation = errors.New("dag: invalid operation")

	// ErrInvalidPower is returned by Pow for exponents below one.
	ErrInvalidPower = errors.New("dag: power must be at least 1")

	// ErrNilNode is returned when a nil node is passed as an operand.
	ErrNilNode = errors.New("dag: nil node")
)
