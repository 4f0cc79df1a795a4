package domain

import "fmt"

// Method represents the cost-basis accounting method used to deplete lots
type Method string

const (
	// MethodACB pools all eligible units into one weighted-average price
	MethodACB Method = "ACB"
	// MethodFIFO consumes the oldest lots first
	MethodFIFO Method = "FIFO"
	// MethodLIFO consumes the newest lots first
	MethodLIFO Method = "LIFO"
	// MethodHIFO consumes the highest-cost lots first
	MethodHIFO Method = "HIFO"
)

// ParseMethod parses a string into a Method
// Returns an UnsupportedMethod error for anything outside the four methods
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodACB, MethodFIFO, MethodLIFO, MethodHIFO:
		return Method(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
}
