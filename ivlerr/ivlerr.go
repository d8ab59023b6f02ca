// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package ivlerr defines the small, closed set of error kinds raised by
// the interval collections and the indexes that implement them.
package ivlerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure raised by a collection operation. Kinds are
// semantically meaningful: callers branch on them rather than on error
// identity.
type Kind int

const (
	// Other is an unclassified failure.
	Other Kind = iota
	// EmptyCollection is returned by operations that require at least
	// one stored interval (Span, LowestInterval, HighestInterval, Choose).
	EmptyCollection
	// InvalidArgument is returned for a nil endpoint/query, or an
	// out-of-range index where the operation requires one in range.
	InvalidArgument
	// ReadOnlyViolation is returned by any mutation attempted on a
	// read-only collection.
	ReadOnlyViolation
	// CorruptState indicates an internal invariant was violated. It is
	// always a programmer error, never a caller mistake.
	CorruptState
)

var kinds = map[Kind]string{
	Other:             "interval collection error",
	EmptyCollection:   "collection is empty",
	InvalidArgument:   "invalid argument",
	ReadOnlyViolation: "collection is read-only",
	CorruptState:      "internal invariant violated",
}

func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s
	}
	return "unknown error kind"
}

// Error is the concrete error type returned by every package in this
// module. Op names the failing public operation (e.g. "dit.Tree.Add").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// E constructs an *Error of the given kind for operation op, optionally
// wrapping a lower-level cause.
func E(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// NewCorrupt constructs a CorruptState error and attaches a stack trace
// to it, since a CorruptState is always a bug and the trace is the only
// way to find where the invariant actually broke.
func NewCorrupt(op, msg string) *Error {
	return &Error{Kind: CorruptState, Op: op, Err: errors.New(msg)}
}

// Is reports whether err is an *Error of the given kind, unwrapping
// along the way.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ee, ok := err.(*Error); ok {
			e = ee
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
