// Package check reports violated preconditions.
//
// A violation is a programming error in the caller (dividing by zero, asking
// for a negative number of fractional digits), not malformed input. It is
// raised with panic and is never turned into an error value by the numeric
// packages. Recovery belongs to the application layer: the CLI prints a
// diagnostic and exits, and the batch runner fails the offending line.
package check

import "fmt"

// Violation is the panic value raised by Fail and That.
type Violation struct {
	Op      string // operation that rejected its arguments, e.g. "BigInt.Quo"
	Message string
}

// Error implements the error interface so a recovered Violation can be
// printed or wrapped like any other error.
func (v *Violation) Error() string {
	if v.Op == "" {
		return "check failed: " + v.Message
	}
	return fmt.Sprintf("check failed: %s: %s", v.Op, v.Message)
}

// That aborts with a Violation when cond is false.
func That(cond bool, op, msg string) {
	if !cond {
		Fail(op, msg)
	}
}

// Fail aborts unconditionally.
func Fail(op, msg string) {
	panic(&Violation{Op: op, Message: msg})
}

// Recover converts a recovered panic value into a *Violation.
// Any other panic value is re-raised untouched.
//
//	defer func() {
//		if v := check.Recover(recover()); v != nil {
//			...
//		}
//	}()
func Recover(r any) *Violation {
	if r == nil {
		return nil
	}
	if v, ok := r.(*Violation); ok {
		return v
	}
	panic(r)
}
