package domain

// Focus and realm number bounds.
const (
	MinFocusNumber = 1
	MaxFocusNumber = 9

	// UnsetFocus marks a store that has not received a focus number yet.
	UnsetFocus = 0

	// UnknownRealm marks a store that has not received a realm number yet.
	UnknownRealm = -1
)

// MasterNumbers are preserved unreduced by digit reduction.
var MasterNumbers = [...]int{11, 22, 33, 44}

// IsMasterNumber reports whether n is one of 11, 22, 33 or 44.
func IsMasterNumber(n int) bool {
	for _, m := range MasterNumbers {
		if n == m {
			return true
		}
	}
	return false
}

// ValidateFocus checks that n is a selectable focus number.
func ValidateFocus(n int) error {
	if n < MinFocusNumber || n > MaxFocusNumber {
		return NewValidationError("focus", "is out of range", ErrInvalidFocus)
	}
	return nil
}

// ValidateRealm checks that n lies in [0,9] or is a master number.
func ValidateRealm(n int) error {
	if (n >= 0 && n <= 9) || IsMasterNumber(n) {
		return nil
	}
	return NewValidationError("realm", "is out of range", ErrInvalidRealm)
}
