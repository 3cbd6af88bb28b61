package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/mrops-br/shopping-cart/internal/domain"
)

type cartTestContext struct {
	cart     *domain.Cart
	products map[string]*domain.Product
	err      error
}

func (c *cartTestContext) reset() {
	c.cart = nil
	c.products = make(map[string]*domain.Product)
	c.err = nil
}

func (c *cartTestContext) anEmptyCart() error {
	c.cart = domain.NewCart()
	return nil
}

func (c *cartTestContext) theCatalogContains(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		price, err := decimal.NewFromString(row.Cells[2].Value)
		if err != nil {
			return err
		}
		p, err := domain.NewProduct(row.Cells[0].Value, row.Cells[1].Value, price)
		if err != nil {
			return err
		}
		c.products[p.ID] = p
	}
	return nil
}

func (c *cartTestContext) iAddOfProduct(quantity int, id string) error {
	p, ok := c.products[id]
	if !ok {
		return fmt.Errorf("product %q is not in the catalog", id)
	}
	c.err = c.cart.AddItem(p, quantity)
	return nil
}

func (c *cartTestContext) iDecrementProduct(id string) error {
	c.cart.DecrementItem(id)
	return nil
}

func (c *cartTestContext) iRemoveProduct(id string) error {
	c.cart.RemoveItem(id)
	return nil
}

func (c *cartTestContext) iSetTheQuantityOfProductTo(id string, quantity int) error {
	c.cart.UpdateItemQuantity(id, quantity)
	return nil
}

func (c *cartTestContext) theCartHasLines(n int) error {
	if c.cart.Len() != n {
		return fmt.Errorf("expected %d lines, got %d", n, c.cart.Len())
	}
	return nil
}

func (c *cartTestContext) theCartTotalIs(total string) error {
	want, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	if got := c.cart.TotalPrice(); !got.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theQuantityOfProductIs(id string, quantity int) error {
	line, ok := c.cart.Line(id)
	if !ok {
		return fmt.Errorf("no line for product %q", id)
	}
	if line.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, line.Quantity)
	}
	return nil
}

func (c *cartTestContext) theCartHasNoLineForProduct(id string) error {
	if _, ok := c.cart.Line(id); ok {
		return fmt.Errorf("expected no line for product %q", id)
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWithAnInvalidArgument() error {
	if c.err == nil {
		return errors.New("expected an error but got none")
	}
	if !errors.Is(c.err, domain.ErrInvalidArgument) {
		return fmt.Errorf("expected invalid argument, got %v", c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the catalog contains:$`, tc.theCatalogContains)

	// When steps
	ctx.Step(`^I add (-?\d+) of product "([^"]*)"$`, tc.iAddOfProduct)
	ctx.Step(`^I decrement product "([^"]*)"$`, tc.iDecrementProduct)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I set the quantity of product "([^"]*)" to (-?\d+)$`, tc.iSetTheQuantityOfProductTo)

	// Then steps
	ctx.Step(`^the cart has (\d+) lines$`, tc.theCartHasLines)
	ctx.Step(`^the cart total is (\d+(?:\.\d+)?)$`, tc.theCartTotalIs)
	ctx.Step(`^the quantity of product "([^"]*)" is (\d+)$`, tc.theQuantityOfProductIs)
	ctx.Step(`^the cart has no line for product "([^"]*)"$`, tc.theCartHasNoLineForProduct)
	ctx.Step(`^the operation fails with an invalid argument$`, tc.theOperationFailsWithAnInvalidArgument)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
