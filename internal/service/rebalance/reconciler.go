// Package rebalance holds the reconciliation state of one rebalance
// confirmation dialog: the proposed buy/sell operations, the automatic
// balancing of their amounts and the per-item customized/selected flags.
package rebalance

import (
	"errors"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

// balanceTolerance is the max |totalBuy - totalSell| still considered
// balanced: 1 unit of currency, enough to swallow the rounding noise of
// the upstream percentage-based calculation.
var balanceTolerance = decimal.NewFromInt(1)

var ErrItemNotFound = errors.New("rebalance item not found")

// Reconciliation is a framework-independent state object. All mutations
// are synchronous and in-memory; one instance per open dialog.
type Reconciliation struct {
	Items []model.RebalanceLineItem `json:"items"`
}

// New seeds the line items from a proposal batch (CurrentAmount = Amount,
// not customized, selected) and immediately auto-balances.
func New(ops []model.ProposedOperation) *Reconciliation {
	items := make([]model.RebalanceLineItem, 0, len(ops))
	for _, op := range ops {
		items = append(items, model.RebalanceLineItem{
			ProposedOperation: op,
			CurrentAmount:     op.Amount,
			Customized:        false,
			Selected:          true,
		})
	}

	r := &Reconciliation{Items: items}
	r.autoBalance()
	return r
}

// Restore rebuilds the state object from persisted session items without
// re-running auto-balance.
func Restore(items []model.RebalanceLineItem) *Reconciliation {
	return &Reconciliation{Items: items}
}

// Delta is sum(CurrentAmount of selected buys) - sum(CurrentAmount of
// selected sells).
func (r *Reconciliation) Delta() decimal.Decimal {
	delta := decimal.Zero
	for _, item := range r.Items {
		if !item.Selected {
			continue
		}
		if item.Action == model.ActionBuy {
			delta = delta.Add(item.CurrentAmount)
		} else {
			delta = delta.Sub(item.CurrentAmount)
		}
	}
	return delta
}

func (r *Reconciliation) Status() model.BalanceStatus {
	delta := r.Delta()
	return model.BalanceStatus{
		Balanced: delta.Abs().LessThanOrEqual(balanceTolerance),
		Delta:    delta,
	}
}

// EditAmount overwrites the item's current amount and marks it customized.
// Customized amounts are sticky: no auto-balance run ever touches them, and
// editing does not re-distribute the other items.
func (r *Reconciliation) EditAmount(assetName string, amount decimal.Decimal) error {
	item := r.find(assetName)
	if item == nil {
		return ErrItemNotFound
	}

	item.CurrentAmount = amount
	item.Customized = true
	return nil
}

// ToggleSelected flips the item's inclusion. Amounts are not
// re-distributed; the excluded amount simply drops out of the totals.
func (r *Reconciliation) ToggleSelected(assetName string) error {
	item := r.find(assetName)
	if item == nil {
		return ErrItemNotFound
	}

	item.Selected = !item.Selected
	return nil
}

// Reset restores every item to its proposed amount with default flags and
// re-runs auto-balance from scratch.
func (r *Reconciliation) Reset() {
	for i := range r.Items {
		r.Items[i].CurrentAmount = r.Items[i].Amount
		r.Items[i].Customized = false
		r.Items[i].Selected = true
	}
	r.autoBalance()
}

// Confirm returns the final operation list for the execution collaborator.
// Deselected items are included, tagged selected=false. Confirming while
// unbalanced is allowed; the caller reads Status for the warning.
func (r *Reconciliation) Confirm() []model.ConfirmedOperation {
	ops := make([]model.ConfirmedOperation, 0, len(r.Items))
	for _, item := range r.Items {
		ops = append(ops, model.ConfirmedOperation{
			AssetName: item.AssetName,
			Action:    item.Action,
			Amount:    item.CurrentAmount,
			Selected:  item.Selected,
		})
	}
	return ops
}

// autoBalance closes the gap between the buy and sell totals by scaling
// the smaller side's non-customized items so both sides match to the cent.
// Runs on init and reset only.
func (r *Reconciliation) autoBalance() {
	buyTotal, sellTotal := r.sideTotals()

	gap := buyTotal.Sub(sellTotal)
	if gap.Abs().LessThanOrEqual(balanceTolerance) {
		return
	}

	// the side with the lower aggregate amount gets adjusted upward
	side := model.ActionBuy
	smaller, larger := buyTotal, sellTotal
	if gap.Sign() > 0 {
		side = model.ActionSell
		smaller, larger = sellTotal, buyTotal
	}

	var adjIdx []int
	adjTotal := decimal.Zero
	for i := range r.Items {
		item := r.Items[i]
		if item.Selected && !item.Customized && item.Action == side {
			adjIdx = append(adjIdx, i)
			adjTotal = adjTotal.Add(item.CurrentAmount)
		}
	}

	// every item on the short side is customized: leave the imbalance and
	// let Status report it instead of touching user-edited amounts
	if len(adjIdx) == 0 {
		return
	}

	// customized+selected amounts on the short side stay fixed, so the
	// adjustable items must sum to the rest
	fixed := smaller.Sub(adjTotal)
	target := larger.Sub(fixed).Round(2)
	if target.Sign() <= 0 {
		return
	}

	assigned := decimal.Zero
	last := len(adjIdx) - 1
	for k, i := range adjIdx {
		if k == last {
			// last adjusted item absorbs the rounding remainder so the
			// side sums match exactly
			r.Items[i].CurrentAmount = target.Sub(assigned)
			break
		}

		var share decimal.Decimal
		if adjTotal.IsZero() {
			share = decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(adjIdx))))
		} else {
			share = r.Items[i].CurrentAmount.Div(adjTotal)
		}

		amount := target.Mul(share).Round(2)
		r.Items[i].CurrentAmount = amount
		assigned = assigned.Add(amount)
	}
}

// sideTotals sums CurrentAmount per side over selected items, customized
// ones included.
func (r *Reconciliation) sideTotals() (buyTotal, sellTotal decimal.Decimal) {
	for _, item := range r.Items {
		if !item.Selected {
			continue
		}
		if item.Action == model.ActionBuy {
			buyTotal = buyTotal.Add(item.CurrentAmount)
		} else {
			sellTotal = sellTotal.Add(item.CurrentAmount)
		}
	}
	return buyTotal, sellTotal
}

func (r *Reconciliation) find(assetName string) *model.RebalanceLineItem {
	for i := range r.Items {
		if r.Items[i].AssetName == assetName {
			return &r.Items[i]
		}
	}
	return nil
}
