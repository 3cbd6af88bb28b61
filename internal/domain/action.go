package domain

import "fmt"

// Action is a user interaction on a cart line.
type Action string

const (
	ActionIncrement      Action = "increment"
	ActionDecrement      Action = "decrement"
	ActionRemove         Action = "remove"
	ActionToggleFavorite Action = "toggle-favorite"
)

// ParseAction validates a raw action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionIncrement, ActionDecrement, ActionRemove, ActionToggleFavorite:
		return a, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownAction, s)
	}
}

// AffectsCart reports whether the action mutates cart state.
// Toggling a favorite is presentation only.
func (a Action) AffectsCart() bool {
	return a == ActionIncrement || a == ActionDecrement || a == ActionRemove
}

// Apply performs the action on the line for productID and reports
// whether the cart changed.
func (a Action) Apply(c *Cart, productID string) bool {
	switch a {
	case ActionIncrement:
		return c.IncrementItem(productID)
	case ActionDecrement:
		return c.DecrementItem(productID)
	case ActionRemove:
		return c.RemoveItem(productID)
	default:
		return false
	}
}
