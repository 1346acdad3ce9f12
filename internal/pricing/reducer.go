package pricing

import (
	"errors"
	"fmt"
)

// EventType names a selection change.
type EventType string

const (
	EventSetContent             EventType = "set_content"
	EventClearContent           EventType = "clear_content"
	EventSetProduct             EventType = "set_product"
	EventClearProduct           EventType = "clear_product"
	EventSetQuantity            EventType = "set_quantity"
	EventSetTreatmentDiscount   EventType = "set_treatment_discount"
	EventClearTreatmentDiscount EventType = "clear_treatment_discount"
	EventSetRetailDiscount      EventType = "set_retail_discount"
	EventClearRetailDiscount    EventType = "clear_retail_discount"
)

var (
	ErrUnknownEvent = errors.New("unknown selection event")
	ErrInvalidSlot  = errors.New("slot out of range")
)

// Event is one user edit of a treatment form. Slot is 1-based.
type Event struct {
	Type     EventType `json:"type" binding:"required"`
	Slot     int       `json:"slot,omitempty"`
	Ref      Ref       `json:"ref"`
	Quantity int64     `json:"quantity,omitempty"`
}

// Reduce applies one event and returns the new selection. The input is not modified.
func Reduce(sel Selection, ev Event) (Selection, error) {
	switch ev.Type {
	case EventSetContent, EventClearContent:
		if ev.Slot < 1 || ev.Slot > ContentSlots {
			return sel, fmt.Errorf("%w: content slot %d", ErrInvalidSlot, ev.Slot)
		}
		if ev.Type == EventSetContent {
			sel.Contents[ev.Slot-1] = ev.Ref
		} else {
			sel.Contents[ev.Slot-1] = Ref{}
		}

	case EventSetProduct, EventClearProduct, EventSetQuantity:
		if ev.Slot < 1 || ev.Slot > ProductSlots {
			return sel, fmt.Errorf("%w: product slot %d", ErrInvalidSlot, ev.Slot)
		}
		p := &sel.Products[ev.Slot-1]
		switch ev.Type {
		case EventSetProduct:
			p.Product = ev.Ref
			if p.Quantity == 0 {
				p.Quantity = 1
			}
		case EventClearProduct:
			*p = ProductSlot{}
		case EventSetQuantity:
			p.Quantity = ev.Quantity
		}

	case EventSetTreatmentDiscount:
		sel.TreatmentDiscount = ev.Ref
	case EventClearTreatmentDiscount:
		sel.TreatmentDiscount = Ref{}
	case EventSetRetailDiscount:
		sel.RetailDiscount = ev.Ref
	case EventClearRetailDiscount:
		sel.RetailDiscount = Ref{}

	default:
		return sel, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return sel, nil
}

// Replay folds events over sel in order. It stops at the first invalid event and
// returns the selection reached so far together with the error.
func Replay(sel Selection, events []Event) (Selection, error) {
	for i, ev := range events {
		next, err := Reduce(sel, ev)
		if err != nil {
			return sel, fmt.Errorf("event %d: %w", i, err)
		}
		sel = next
	}
	return sel, nil
}
