// Package priors: sentinel error set.
package priors

import "errors"

var (
	// ErrParse signals a malformed "name ~ family(p1, p2)" expression.
	ErrParse = errors.New("priors: malformed prior expression")

	// ErrUnknownFamily signals a family name outside the four supported.
	ErrUnknownFamily = errors.New("priors: unknown distribution family")

	// ErrInvalidParams signals family parameters outside their valid
	// domain (e.g. a uniform with p1 >= p2, a normal with sigma <= 0).
	ErrInvalidParams = errors.New("priors: invalid family parameters")

	// ErrMixedTarget signals a PriorSet whose members are bound to both
	// gdata and ldata, which is not allowed.
	ErrMixedTarget = errors.New("priors: cannot mix gdata and ldata targets in one PriorSet")

	// ErrDuplicateName signals two priors bound to the same parameter name.
	ErrDuplicateName = errors.New("priors: duplicate parameter name")

	// ErrEmptySet signals a PriorSet with zero members.
	ErrEmptySet = errors.New("priors: prior set is empty")

	// ErrDimensionMismatch signals a particle vector whose length does not
	// match the PriorSet's parameter count k.
	ErrDimensionMismatch = errors.New("priors: particle dimension does not match prior count")
)
