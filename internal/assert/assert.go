package assert

import (
	"fmt"
)

// That panics with the formatted message if cond is false. Use it for
// internal invariants only, never for errors a caller can trigger.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("invariant violated: "+format, args...))
	}
}

func InBounds(index, length int) {
	if index < 0 || index >= length {
		panic(fmt.Sprintf("invariant violated: index %d out of bounds for length %d", index, length))
	}
}
