package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		pname   string
		price   decimal.Decimal
		wantErr error
	}{
		{"valid", "1", "Baskets", decimal.NewFromInt(100), nil},
		{"free item", "9", "Sticker", decimal.Zero, nil},
		{"missing id", "", "Baskets", decimal.NewFromInt(100), ErrInvalidProductID},
		{"uuid id", "0b8f2c1e-6a0e-4c57-9d0b-3f1a2b4c5d6e", "Baskets", decimal.NewFromInt(100), nil},
		{"id with slash", "a/b", "Baskets", decimal.NewFromInt(100), ErrInvalidProductID},
		{"id with space", "a b", "Baskets", decimal.NewFromInt(100), ErrInvalidProductID},
		{"id with query", "a?b", "Baskets", decimal.NewFromInt(100), ErrInvalidProductID},
		{"dot segment id", "..", "Baskets", decimal.NewFromInt(100), ErrInvalidProductID},
		{"missing name", "1", "", decimal.NewFromInt(100), ErrInvalidProductName},
		{"negative price", "1", "Baskets", decimal.NewFromInt(-1), ErrInvalidProductPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.id, tt.pname, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if p != nil {
					t.Errorf("expected nil product on error")
				}
				return
			}
			if p.ID != tt.id || p.Name != tt.pname || !p.Price.Equal(tt.price) {
				t.Errorf("unexpected product %+v", p)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	for _, raw := range []string{"increment", "decrement", "remove", "toggle-favorite"} {
		a, err := ParseAction(raw)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", raw, err)
		}
		if string(a) != raw {
			t.Errorf("expected %q, got %q", raw, a)
		}
	}

	_, err := ParseAction("explode")
	if !errors.Is(err, ErrUnknownAction) || !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected unknown action error, got %v", err)
	}
}

func TestAction_Apply(t *testing.T) {
	tests := []struct {
		action    Action
		changed   bool
		wantTotal int64
	}{
		{ActionIncrement, true, 210},
		{ActionDecrement, true, 170},
		{ActionRemove, true, 150},
		{ActionToggleFavorite, false, 190},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			c := demoCart(t)
			if got := tt.action.Apply(c, "2"); got != tt.changed {
				t.Fatalf("expected changed=%v, got %v", tt.changed, got)
			}
			if tt.action.AffectsCart() != tt.changed {
				t.Errorf("AffectsCart mismatch for %s", tt.action)
			}
			assertTotal(t, c, tt.wantTotal)
		})
	}
}
