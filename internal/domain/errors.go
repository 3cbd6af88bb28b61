package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can
// branch with errors.Is without knowing every sentinel.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

var (
	ErrInvalidProductID    = fmt.Errorf("%w: product id must be letters, digits, '-', '_', '.' or '~' and not start with '.'", ErrInvalidArgument)
	ErrInvalidProductName  = fmt.Errorf("%w: product name is required", ErrInvalidArgument)
	ErrInvalidProductPrice = fmt.Errorf("%w: product price must not be negative", ErrInvalidArgument)
	ErrNilProduct          = fmt.Errorf("%w: product is required", ErrInvalidArgument)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	ErrQuantityOverflow    = fmt.Errorf("%w: quantity exceeds the line limit", ErrInvalidArgument)
	ErrUnknownAction       = fmt.Errorf("%w: unknown action", ErrInvalidArgument)

	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrProductExists   = fmt.Errorf("%w: product already exists", ErrConflict)
)
