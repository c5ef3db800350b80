package payhere

import "crypto/subtle"

// constantTimeEqual compares two signatures without leaking timing information.
// Unequal lengths are rejected up front.
func constantTimeEqual(expected, provided string) bool {
	if len(expected) != len(provided) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
