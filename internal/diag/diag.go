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

// Package diag carries the optional structured-logging hook that the
// dit and ibs constructors accept via a functional option. Callers
// who never wire one up pay nothing: the zero value logs to zap's no-op
// core, so indexes never require a logger to function.
package diag

import "go.uber.org/zap"

// Logger wraps a *zap.Logger so index packages can hold one by value
// without a nil check at every call site.
type Logger struct {
	z *zap.Logger
}

// Nop returns a Logger that discards everything, the default every
// index constructor starts from.
func Nop() Logger {
	return Logger{z: zap.NewNop()}
}

// Wrap adapts an existing *zap.Logger. A nil z behaves like Nop.
func Wrap(z *zap.Logger) Logger {
	if z == nil {
		return Nop()
	}
	return Logger{z: z}
}

func (l Logger) core() *zap.Logger {
	if l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

// Debug logs rebalance and pruning chatter: useful when tuning an
// index, never on by default.
func (l Logger) Debug(msg string, fields ...zap.Field) { l.core().Debug(msg, fields...) }

// Warn logs recoverable but unexpected conditions, such as a rejected
// Add that a caller likely didn't intend.
func (l Logger) Warn(msg string, fields ...zap.Field) { l.core().Warn(msg, fields...) }

// Error logs a detected CorruptState before the caller's error return
// carries the same information back out.
func (l Logger) Error(msg string, fields ...zap.Field) { l.core().Error(msg, fields...) }

// Option configures a Logger on an index constructor. dit.New and
// ibs.New accept ...Option so zero-argument construction keeps working.
type Option func(*Logger)

// WithZap attaches z as the index's diagnostics sink.
func WithZap(z *zap.Logger) Option {
	return func(l *Logger) { *l = Wrap(z) }
}

// Apply builds a Logger from opts, starting from Nop.
func Apply(opts []Option) Logger {
	l := Nop()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}
