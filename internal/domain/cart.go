package domain

import (
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine pairs a product with the quantity held in the cart.
type CartLine struct {
	Product  *Product
	Quantity int
}

// TotalPrice returns the unit price multiplied by the quantity.
func (l *CartLine) TotalPrice() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l *CartLine) view() LineView {
	return LineView{
		ProductID:   l.Product.ID,
		ProductName: l.Product.Name,
		UnitPrice:   l.Product.Price,
		Quantity:    l.Quantity,
		LineTotal:   l.TotalPrice(),
	}
}

// LineView is a read-only copy of a cart line, as presented to renderers.
type LineView struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
}

// Snapshot is the full state of a cart at one point in time.
type Snapshot struct {
	CartID    string
	Lines     []LineView
	Total     decimal.Decimal
	ItemCount int
}

// ChangeKind identifies what happened to a line.
type ChangeKind int

const (
	LineAdded ChangeKind = iota
	LineUpdated
	LineRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case LineAdded:
		return "added"
	case LineUpdated:
		return "updated"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes a single successful cart mutation. Line holds the
// state after the change and is zero for LineRemoved.
type Change struct {
	Kind      ChangeKind
	ProductID string
	Line      LineView
	Total     decimal.Decimal
}

// Listener receives cart changes.
type Listener func(Change)

// Cart is an ordered collection of lines keyed by product id.
//
// Cart is not safe for concurrent use; the owner serializes access.
// Every line has a quantity of at least one and no two lines share a
// product id.
type Cart struct {
	ID string

	lines []*CartLine
	index map[string]*CartLine

	listeners    map[int]Listener
	listenerSeq  []int
	nextListener int
}

// NewCart creates an empty cart with a fresh id.
func NewCart() *Cart {
	return &Cart{
		ID:        uuid.New().String(),
		index:     make(map[string]*CartLine),
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener called after every successful mutation.
// The returned function removes it.
func (c *Cart) Subscribe(l Listener) func() {
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	c.listenerSeq = append(c.listenerSeq, id)

	return func() {
		if _, ok := c.listeners[id]; !ok {
			return
		}
		delete(c.listeners, id)
		for i, v := range c.listenerSeq {
			if v == id {
				c.listenerSeq = append(c.listenerSeq[:i], c.listenerSeq[i+1:]...)
				break
			}
		}
	}
}

// AddItem adds quantity units of product, merging with an existing line
// for the same product id. A merge that would push the line past
// math.MaxInt fails with ErrQuantityOverflow.
func (c *Cart) AddItem(product *Product, quantity int) error {
	if product == nil {
		return ErrNilProduct
	}
	if err := product.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if line, ok := c.index[product.ID]; ok {
		if quantity > math.MaxInt-line.Quantity {
			return ErrQuantityOverflow
		}
		line.Quantity += quantity
		c.notify(LineUpdated, line)
		return nil
	}

	line := &CartLine{Product: product, Quantity: quantity}
	c.lines = append(c.lines, line)
	c.index[product.ID] = line
	c.notify(LineAdded, line)
	return nil
}

// RemoveItem drops the line for productID. It reports false, and changes
// nothing, when the cart holds no such line.
func (c *Cart) RemoveItem(productID string) bool {
	line, ok := c.index[productID]
	if !ok {
		return false
	}

	delete(c.index, productID)
	for i, l := range c.lines {
		if l == line {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}

	c.notify(LineRemoved, line)
	return true
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of
// zero or less removes the line. Unknown ids are ignored.
func (c *Cart) UpdateItemQuantity(productID string, quantity int) bool {
	line, ok := c.index[productID]
	if !ok {
		return false
	}
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}

	line.Quantity = quantity
	c.notify(LineUpdated, line)
	return true
}

// IncrementItem adds one unit to an existing line. A line already at
// math.MaxInt is left as is.
func (c *Cart) IncrementItem(productID string) bool {
	line, ok := c.index[productID]
	if !ok || line.Quantity == math.MaxInt {
		return false
	}
	return c.UpdateItemQuantity(productID, line.Quantity+1)
}

// DecrementItem takes one unit from an existing line, removing the line
// when its last unit goes.
func (c *Cart) DecrementItem(productID string) bool {
	line, ok := c.index[productID]
	if !ok {
		return false
	}
	return c.UpdateItemQuantity(productID, line.Quantity-1)
}

// TotalPrice sums the line totals. An empty cart totals zero.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.TotalPrice())
	}
	return total
}

// Line returns the line for productID.
func (c *Cart) Line(productID string) (LineView, bool) {
	line, ok := c.index[productID]
	if !ok {
		return LineView{}, false
	}
	return line.view(), true
}

// Lines returns the lines in display order.
func (c *Cart) Lines() []LineView {
	views := make([]LineView, len(c.lines))
	for i, line := range c.lines {
		views[i] = line.view()
	}
	return views
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the number of units across all lines, saturating at
// math.MaxInt.
func (c *Cart) ItemCount() int {
	n := 0
	for _, line := range c.lines {
		if line.Quantity > math.MaxInt-n {
			return math.MaxInt
		}
		n += line.Quantity
	}
	return n
}

// Snapshot copies the lines, total and item count.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		CartID:    c.ID,
		Lines:     c.Lines(),
		Total:     c.TotalPrice(),
		ItemCount: c.ItemCount(),
	}
}

func (c *Cart) notify(kind ChangeKind, line *CartLine) {
	change := Change{
		Kind:      kind,
		ProductID: line.Product.ID,
		Total:     c.TotalPrice(),
	}
	if kind != LineRemoved {
		change.Line = line.view()
	}

	// Copy so a listener may unsubscribe itself.
	seq := append([]int(nil), c.listenerSeq...)
	for _, id := range seq {
		if l, ok := c.listeners[id]; ok {
			l(change)
		}
	}
}
