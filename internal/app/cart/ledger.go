package cart

import (
	"slices"
	"sort"
	"sync"

	"github.com/mrops-br/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger maps product ids to cart lines. There is at most one line per
// product and no line ever holds a quantity below 1.
type Ledger struct {
	mu    sync.RWMutex
	lines map[int]domain.CartLine
	order []int
}

func NewLedger() *Ledger {
	return &Ledger{lines: map[int]domain.CartLine{}}
}

// AddItem merges qty into the product's line, creating it if needed.
// qty below 1 is ignored.
func (l *Ledger) AddItem(product domain.Product, qty int) {
	if qty < 1 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if line, ok := l.lines[product.ID]; ok {
		line.Quantity += qty
		l.lines[product.ID] = line
		return
	}
	l.lines[product.ID] = domain.CartLine{Product: product, Quantity: qty}
	l.order = append(l.order, product.ID)
}

// RemoveItem deletes the line for id if present
func (l *Ledger) RemoveItem(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(id)
}

func (l *Ledger) removeLocked(id int) {
	if _, ok := l.lines[id]; !ok {
		return
	}
	delete(l.lines, id)
	if i := slices.Index(l.order, id); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
}

// SetQuantity overwrites the quantity of an existing line; qty below 1
// removes it. Unknown ids are ignored.
func (l *Ledger) SetQuantity(id, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if qty < 1 {
		l.removeLocked(id)
		return
	}
	line, ok := l.lines[id]
	if !ok {
		return
	}
	line.Quantity = qty
	l.lines[id] = line
}

// Subtotal is the sum of price × quantity over all lines
func (l *Ledger) Subtotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.subtotalLocked()
}

func (l *Ledger) subtotalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemCount is the sum of quantities, not the number of lines
func (l *Ledger) ItemCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.itemCountLocked()
}

func (l *Ledger) itemCountLocked() int {
	n := 0
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

func (l *Ledger) LineCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.lines)
}

// Line returns the line for id
func (l *Ledger) Line(id int) (domain.CartLine, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	line, ok := l.lines[id]
	return line, ok
}

// Lines returns the lines in the order they were first added
func (l *Ledger) Lines() []domain.CartLine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.linesLocked()
}

func (l *Ledger) linesLocked() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.lines[id])
	}
	return out
}

// Summary is a consistent read of the lines and their totals
type Summary struct {
	Lines     []domain.CartLine
	ItemCount int
	Subtotal  decimal.Decimal
}

// Summary reads lines, item count and subtotal under one lock
func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Summary{
		Lines:     l.linesLocked(),
		ItemCount: l.itemCountLocked(),
		Subtotal:  l.subtotalLocked(),
	}
}

// Snapshot returns the persistable form of the ledger
func (l *Ledger) Snapshot() domain.CartSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := make(domain.CartSnapshot, len(l.lines))
	for id, line := range l.lines {
		snap[id] = line
	}
	return snap
}

// Restore replaces the ledger with snapshot. Lines with a quantity below 1
// or an invalid product are dropped. A nil snapshot yields an empty cart.
// It returns the number of dropped lines.
func (l *Ledger) Restore(snapshot domain.CartSnapshot) int {
	lines := make(map[int]domain.CartLine, len(snapshot))
	order := make([]int, 0, len(snapshot))
	dropped := 0
	for id, line := range snapshot {
		if line.Quantity < 1 || line.ID != id || line.Validate() != nil {
			dropped++
			continue
		}
		lines[id] = line
		order = append(order, id)
	}
	// Snapshots are maps; restore in id order so listing is deterministic.
	sort.Ints(order)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = lines
	l.order = order
	return dropped
}
