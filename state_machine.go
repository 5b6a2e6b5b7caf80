package auth

import "github.com/goliatone/go-errors"

// AccountState is the lifecycle state of an account.
type AccountState = string

const (
	// StateUnverified is the initial state assigned at registration.
	StateUnverified AccountState = "unverified"
	// StateVerified is reached once the verification token is consumed.
	// There is no path back.
	StateVerified AccountState = "verified"
)

const textCodeInvalidTransition = "invalid_account_transition"

// ErrInvalidTransition is returned when a requested state change is not allowed.
var ErrInvalidTransition = errors.New("invalid account state transition", errors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(errors.CodeBadRequest)

// transitions is the full graph: a single edge.
var transitions = map[AccountState][]AccountState{
	StateUnverified: {StateVerified},
	StateVerified:   {},
}

// CanTransition reports whether the state graph permits from -> to.
func CanTransition(from, to AccountState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanLogin gates the login operation on the account state.
func CanLogin(state AccountState) bool {
	return state == StateVerified
}

// Verify moves the user to the verified state, consuming the token. The
// caller persists the result.
func Verify(user *User) error {
	if user == nil {
		return errors.New("cannot verify nil user", errors.CategoryInternal)
	}

	if !CanTransition(user.State(), StateVerified) {
		return ErrInvalidTransition
	}

	user.MarkVerified()
	return nil
}
