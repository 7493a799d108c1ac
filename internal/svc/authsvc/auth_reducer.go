package authsvc

import "github.com/mkrupp/storefront/internal/domain"

// Action is a session state transition consumed by Reduce.
type Action interface {
	isAuthAction()
}

type (
	// ActionLoginStart marks a sign-in or sign-up as in flight.
	ActionLoginStart struct{}

	// ActionLoginSuccess establishes an authenticated session.
	ActionLoginSuccess struct {
		Token   string
		UserID  string
		Profile domain.UserProfile
	}

	// ActionLoginFailure records a failed sign-in or sign-up and leaves the session unauthenticated.
	ActionLoginFailure struct {
		Err error
	}

	// ActionLogout resets the session.
	ActionLogout struct{}

	// ActionClearError drops the last error.
	ActionClearError struct{}

	// ActionSetLoading toggles the loading flag.
	ActionSetLoading struct {
		Loading bool
	}

	// ActionSetError records a failed operation that does not affect authentication.
	ActionSetError struct {
		Err error
	}

	// ActionProfileUpdated replaces the profile of an authenticated session.
	ActionProfileUpdated struct {
		Profile domain.UserProfile
	}

	// ActionTokenRefreshed replaces the token of an authenticated session.
	ActionTokenRefreshed struct {
		Token string
	}
)

func (ActionLoginStart) isAuthAction()     {}
func (ActionLoginSuccess) isAuthAction()   {}
func (ActionLoginFailure) isAuthAction()   {}
func (ActionLogout) isAuthAction()         {}
func (ActionClearError) isAuthAction()     {}
func (ActionSetLoading) isAuthAction()     {}
func (ActionSetError) isAuthAction()       {}
func (ActionProfileUpdated) isAuthAction() {}
func (ActionTokenRefreshed) isAuthAction() {}

// Reduce returns the session that results from applying action to state.
// It never mutates state.
func Reduce(state domain.Session, action Action) domain.Session {
	switch a := action.(type) {
	case ActionLoginStart:
		state.IsLoading = true
		state.LastError = nil
	case ActionLoginSuccess:
		profile := a.Profile
		state = domain.Session{
			Token:           a.Token,
			UserID:          a.UserID,
			Profile:         &profile,
			IsAuthenticated: true,
		}
	case ActionLoginFailure:
		state = domain.Session{LastError: a.Err}
	case ActionLogout:
		state = domain.Session{}
	case ActionClearError:
		state.LastError = nil
	case ActionSetLoading:
		state.IsLoading = a.Loading
	case ActionSetError:
		state.IsLoading = false
		state.LastError = a.Err
	case ActionProfileUpdated:
		if state.IsAuthenticated {
			profile := a.Profile
			state.Profile = &profile
		}

		state.IsLoading = false
		state.LastError = nil
	case ActionTokenRefreshed:
		if state.IsAuthenticated && a.Token != "" {
			state.Token = a.Token
		}

		state.IsLoading = false
		state.LastError = nil
	}

	return state
}
