package render

import (
	"context"
	"log/slog"

	"github.com/mrops-br/shopping-cart/internal/app/dto"
	"github.com/mrops-br/shopping-cart/internal/domain"
)

// Dispatcher applies cart actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, productID string, action domain.Action) *dto.CartResponse
}

// Binder turns raw clicks into cart actions. Favorite toggles stay in the
// renderer; everything else goes to the cart.
type Binder struct {
	cart     Dispatcher
	renderer *Renderer
	logger   *slog.Logger
}

// NewBinder creates a binder routing cart actions to cart and favorite
// toggles to renderer.
func NewBinder(cart Dispatcher, renderer *Renderer, logger *slog.Logger) *Binder {
	return &Binder{
		cart:     cart,
		renderer: renderer,
		logger:   logger,
	}
}

// Bind handles a click on the control named action for productID.
func (b *Binder) Bind(ctx context.Context, productID, action string) error {
	a, err := domain.ParseAction(action)
	if err != nil {
		b.logger.WarnContext(ctx, "Ignoring unknown action",
			slog.String("product_id", productID),
			slog.String("action", action),
		)
		return err
	}

	if !a.AffectsCart() {
		toggled := b.renderer.ToggleFavorite(productID)
		b.logger.DebugContext(ctx, "Favorite toggled",
			slog.String("product_id", productID),
			slog.Bool("shown", toggled),
			slog.Bool("favorite", b.renderer.IsFavorite(productID)),
		)
		return nil
	}

	b.cart.Dispatch(ctx, productID, a)
	return nil
}
