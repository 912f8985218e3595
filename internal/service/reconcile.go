package service

import (
	"sort"

	"go-order-api/internal/errx"
	"go-order-api/internal/model"
	"go-order-api/pkg/validator"
)

// reconcilePlan is the set of writes that brings an order's lines to a target.
type reconcilePlan struct {
	orderID uint
	// Removed lines, ascending product id.
	Removed []model.OrderLine
	// Upserts carry the final quantity of every updated or added line, in application order.
	Upserts []model.OrderLine
	// Stock holds the final stock of every product whose counter changed.
	Stock map[uint]int
}

// changedProducts returns the ids in Stock, ascending.
func (p *reconcilePlan) changedProducts() []uint {
	return sortedKeys(p.Stock)
}

// validateTarget rejects non-positive quantities, zero product ids and repeated products.
func validateTarget(target []model.LineRequest) error {
	seen := make(map[uint]int, len(target))
	for i := range target {
		line := target[i]
		if line.Quantity <= 0 {
			return errx.Validation("line %d: quantity for product %d must be greater than zero", i, line.ProductID)
		}
		if errs := validator.ValidateStruct(&line); len(errs) > 0 {
			return errx.Validation("line %d: %s", i, errs[0].String())
		}
		if prev, dup := seen[line.ProductID]; dup {
			return errx.Validation("line %d: product %d already listed at line %d", i, line.ProductID, prev)
		}
		seen[line.ProductID] = i
	}
	return nil
}

// targetProductIDs returns every product id touched by existing lines or the target, ascending.
func targetProductIDs(existing []model.OrderLine, target []model.LineRequest) []uint {
	ids := make(map[uint]int, len(existing)+len(target))
	for _, l := range existing {
		ids[l.ProductID] = 0
	}
	for _, t := range target {
		ids[t.ProductID] = 0
	}
	return sortedKeys(ids)
}

// planReconcile computes the writes for one reconciliation against the locked products.
//
// Steps run in a fixed order: removals, decreases, increases, additions, each by ascending
// product id. Every step sees the working stock left by the ones before it, so units freed
// earlier in the call are available to later increases and additions. Products missing from
// the store make stock returns a no-op and make any decrement fail with InsufficientStock.
func planReconcile(orderID uint, existing []model.OrderLine, products map[uint]*model.Product, target []model.LineRequest) (*reconcilePlan, error) {
	want := make(map[uint]int, len(target))
	for _, t := range target {
		want[t.ProductID] = t.Quantity
	}
	current := make(map[uint]int, len(existing))
	for _, l := range existing {
		current[l.ProductID] = l.Quantity
	}

	stock := make(map[uint]int, len(products))
	for id, p := range products {
		stock[id] = p.Stock
	}
	changed := make(map[uint]int)

	var removals, decreases, increases, additions []uint
	for id := range current {
		if _, ok := want[id]; !ok {
			removals = append(removals, id)
		}
	}
	for id, qty := range want {
		have, ok := current[id]
		switch {
		case !ok:
			additions = append(additions, id)
		case qty < have:
			decreases = append(decreases, id)
		case qty > have:
			increases = append(increases, id)
		}
	}
	for _, ids := range [][]uint{removals, decreases, increases, additions} {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	plan := &reconcilePlan{orderID: orderID}

	give := func(id uint, qty int) {
		if _, ok := stock[id]; ok {
			stock[id] += qty
			changed[id] = 0
		}
	}
	take := func(id uint, qty int) error {
		available, ok := stock[id]
		if !ok || available < qty {
			return errx.InsufficientStock(id, qty, available, ok)
		}
		stock[id] = available - qty
		changed[id] = 0
		return nil
	}
	setLine := func(id uint) {
		plan.Upserts = append(plan.Upserts, model.OrderLine{OrderID: orderID, ProductID: id, Quantity: want[id]})
	}

	for _, id := range removals {
		give(id, current[id])
		plan.Removed = append(plan.Removed, model.OrderLine{OrderID: orderID, ProductID: id, Quantity: current[id]})
	}
	for _, id := range decreases {
		give(id, current[id]-want[id])
		setLine(id)
	}
	for _, id := range increases {
		if err := take(id, want[id]-current[id]); err != nil {
			return nil, err
		}
		setLine(id)
	}
	for _, id := range additions {
		if err := take(id, want[id]); err != nil {
			return nil, err
		}
		setLine(id)
	}

	plan.Stock = make(map[uint]int, len(changed))
	for id := range changed {
		plan.Stock[id] = stock[id]
	}
	return plan, nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
