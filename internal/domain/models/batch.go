package models

import "time"

// BatchState is the walker's position relative to the ingredient list.
type BatchState string

const (
	BatchNotStarted BatchState = "not_started"
	BatchInProgress BatchState = "in_progress"
	BatchComplete   BatchState = "complete"
)

// BatchRun is a guided production walk over a scaled ingredient list. The
// ingredient order is a frozen snapshot captured when the run starts, so the
// walk stays stable regardless of later changes to the scaled recipe.
type BatchRun struct {
	ID         string        `json:"id"`
	Recipe     string        `json:"recipe"`
	Factor     float64       `json:"factor"`
	Quantities IngredientMap `json:"quantities"`
	Order      []string      `json:"order"`
	Cursor     *int          `json:"cursor"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// State derives the walker state from the cursor.
func (b *BatchRun) State() BatchState {
	switch {
	case b.Cursor == nil:
		return BatchNotStarted
	case *b.Cursor >= len(b.Order):
		return BatchComplete
	default:
		return BatchInProgress
	}
}

// Current returns the ingredient under the cursor. ok is false outside the
// in-progress state.
func (b *BatchRun) Current() (string, IngredientAmount, bool) {
	if b.State() != BatchInProgress {
		return "", IngredientAmount{}, false
	}
	name := b.Order[*b.Cursor]
	amt, _ := b.Quantities.Get(name)
	return name, amt, true
}

// Start moves to step 0 and re-captures the ingredient order.
func (b *BatchRun) Start() {
	b.Order = b.Quantities.Names()
	zero := 0
	b.Cursor = &zero
}

// Next advances one step, saturating into the complete state.
func (b *BatchRun) Next() bool {
	if b.State() != BatchInProgress {
		return false
	}
	next := *b.Cursor + 1
	b.Cursor = &next
	return true
}

// Back steps backwards one ingredient. Disallowed at step 0 and outside the
// in-progress state.
func (b *BatchRun) Back() bool {
	if b.State() != BatchInProgress || *b.Cursor == 0 {
		return false
	}
	prev := *b.Cursor - 1
	b.Cursor = &prev
	return true
}

// Reset returns the run to the not-started state.
func (b *BatchRun) Reset() {
	b.Cursor = nil
}

// Restart re-enters the walk at step 0, keeping the previously captured
// order. Legal from the complete and not-started states; an in-progress
// walk must be reset first.
func (b *BatchRun) Restart() bool {
	if b.State() == BatchInProgress {
		return false
	}
	zero := 0
	b.Cursor = &zero
	return true
}
