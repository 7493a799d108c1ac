package cartsvc

import (
	"errors"
	"slices"

	"github.com/mkrupp/storefront/internal/domain"
)

// Action is a cart state transition consumed by Reduce.
type Action interface {
	isCartAction()
}

type (
	// ActionSetLoading toggles the loading flag.
	ActionSetLoading struct {
		Loading bool
	}

	// ActionSetError records a failed operation. An auth-required failure also
	// empties the cart: without a session the cart is empty by definition.
	ActionSetError struct {
		Err error
	}

	// ActionLoadSuccess replaces the lines wholesale.
	ActionLoadSuccess struct {
		Lines  []domain.CartLine
		CartID string
	}

	// ActionClearSuccess empties the cart.
	ActionClearSuccess struct{}
)

func (ActionSetLoading) isCartAction()   {}
func (ActionSetError) isCartAction()     {}
func (ActionLoadSuccess) isCartAction()  {}
func (ActionClearSuccess) isCartAction() {}

// Reduce returns the cart state that results from applying action to state.
// It never mutates state or the lines carried by action.
func Reduce(state domain.CartState, action Action) domain.CartState {
	switch a := action.(type) {
	case ActionSetLoading:
		state.IsLoading = a.Loading
	case ActionSetError:
		state.IsLoading = false
		state.LastError = a.Err

		if errors.Is(a.Err, domain.ErrAuthRequired) {
			state.Lines = []domain.CartLine{}
			state.CartID = ""
		}
	case ActionLoadSuccess:
		state = domain.CartState{
			Lines:  slices.Clone(a.Lines),
			CartID: a.CartID,
		}

		if state.Lines == nil {
			state.Lines = []domain.CartLine{}
		}
	case ActionClearSuccess:
		state = domain.CartState{Lines: []domain.CartLine{}}
	}

	return state
}
