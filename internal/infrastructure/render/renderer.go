package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mrops-br/shopping-cart/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type cardData struct {
	ID        string
	Name      string
	Lower     string
	UnitPrice string
	Quantity  int
	Favorite  bool
}

type pageData struct {
	Cards []template.HTML
	Total string
}

// Renderer keeps a pre-rendered card per cart line and redraws only the
// cards a change touches. Favorites live here since they never reach the
// cart.
type Renderer struct {
	mu        sync.RWMutex
	order     []string
	lines     map[string]domain.LineView
	cards     map[string]template.HTML
	favorites map[string]bool
	total     decimal.Decimal

	// draws counts card renders per shown product.
	draws map[string]int

	logger *slog.Logger
}

// NewRenderer creates an empty renderer. Call Attach to follow a cart.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{
		lines:     make(map[string]domain.LineView),
		cards:     make(map[string]template.HTML),
		favorites: make(map[string]bool),
		draws:     make(map[string]int),
		total:     decimal.Zero,
		logger:    logger,
	}
}

// Source is a cart the renderer can follow.
type Source interface {
	Subscribe(initial func(domain.Snapshot), l domain.Listener) func()
}

// Attach draws the current state of src and follows its changes until
// the returned function is called.
func (r *Renderer) Attach(src Source) func() {
	return src.Subscribe(r.Sync, r.OnChange)
}

// Sync discards every card and redraws from s.
func (r *Renderer) Sync(s domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = r.order[:0]
	clear(r.lines)
	clear(r.cards)
	clear(r.draws)
	for _, line := range s.Lines {
		r.order = append(r.order, line.ProductID)
		r.lines[line.ProductID] = line
		r.draw(line.ProductID)
	}
	for id := range r.favorites {
		if _, ok := r.lines[id]; !ok {
			delete(r.favorites, id)
		}
	}
	r.total = s.Total
}

// OnChange applies a single cart change.
func (r *Renderer) OnChange(c domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch c.Kind {
	case domain.LineAdded:
		r.order = append(r.order, c.ProductID)
		r.lines[c.ProductID] = c.Line
		r.draw(c.ProductID)
	case domain.LineUpdated:
		r.lines[c.ProductID] = c.Line
		r.draw(c.ProductID)
	case domain.LineRemoved:
		r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == c.ProductID })
		delete(r.lines, c.ProductID)
		delete(r.cards, c.ProductID)
		delete(r.favorites, c.ProductID)
		delete(r.draws, c.ProductID)
	}
	r.total = c.Total
}

// ToggleFavorite flips the heart on a card. It reports false when no card
// is shown for productID.
func (r *Renderer) ToggleFavorite(productID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lines[productID]; !ok {
		return false
	}
	r.favorites[productID] = !r.favorites[productID]
	r.draw(productID)
	return true
}

// IsFavorite reports whether the card for productID shows a filled heart.
func (r *Renderer) IsFavorite(productID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.favorites[productID]
}

// Render writes the full page from the cached cards.
func (r *Renderer) Render(w io.Writer) error {
	r.mu.RLock()
	data := pageData{
		Cards: make([]template.HTML, 0, len(r.order)),
		Total: r.total.StringFixed(2),
	}
	for _, id := range r.order {
		data.Cards = append(data.Cards, r.cards[id])
	}
	r.mu.RUnlock()

	return templates.ExecuteTemplate(w, "page", data)
}

// draw re-renders one card. Callers hold the write lock.
func (r *Renderer) draw(productID string) {
	line := r.lines[productID]
	data := cardData{
		ID:        line.ProductID,
		Name:      line.ProductName,
		Lower:     strings.ToLower(line.ProductName),
		UnitPrice: line.UnitPrice.String(),
		Quantity:  line.Quantity,
		Favorite:  r.favorites[productID],
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "card", data); err != nil {
		r.logger.Error("Failed to render cart line",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
		r.cards[productID] = template.HTML(fmt.Sprintf("<!-- %s unavailable -->", template.HTMLEscapeString(productID)))
		return
	}

	r.cards[productID] = template.HTML(buf.String())
	r.draws[productID]++
}
