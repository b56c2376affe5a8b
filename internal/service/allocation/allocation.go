// Package allocation implements target-allocation reconciliation for base
// wallet templates: template validation, per-wallet diffs against the
// template and the materiality filter applied before preview/apply.
package allocation

import (
	"errors"
	"fmt"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTemplate      = errors.New("target allocations must sum to 100")
	ErrAllocationOutOfRange = errors.New("allocation must be between 0 and 100")
)

var (
	// differences at or below 0.1 percentage points are noise, not changes
	materialityThreshold = decimal.RequireFromString("0.1")
	templateSumTolerance = decimal.RequireFromString("0.01")
	hundred              = decimal.NewFromInt(100)
)

// ValidateTemplate checks the soft invariant that a template's ideal
// allocations sum to 100, within 0.01 to tolerate percentage rounding.
// Runs before any preview or apply, so a broken template never causes
// partial state changes.
func ValidateTemplate(targets []model.TargetAsset) error {
	sum := decimal.Zero
	for _, target := range targets {
		sum = sum.Add(target.IdealAllocation)
	}

	if sum.Sub(hundred).Abs().GreaterThan(templateSumTolerance) {
		return fmt.Errorf("%w: got %s", ErrInvalidTemplate, sum)
	}

	return nil
}

// ValidateAllocation bounds-checks a single ideal allocation value.
func ValidateAllocation(value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrAllocationOutOfRange, value)
	}
	return nil
}

// ComputeChanges diffs a wallet's current per-asset allocation against the
// template and returns the material changes only. Assets appear in
// template order first, then remaining holdings in input order; a wallet
// with no material change is already standardized.
func ComputeChanges(holdings []model.AssetHolding, targets []model.TargetAsset) []model.AllocationChange {
	current := make(map[string]model.AssetHolding, len(holdings))
	for _, holding := range holdings {
		current[holding.AssetUUID] = holding
	}

	inTemplate := make(map[string]struct{}, len(targets))

	changes := make([]model.AllocationChange, 0, len(targets))
	for _, target := range targets {
		inTemplate[target.AssetUUID] = struct{}{}

		from := decimal.Zero
		name := target.AssetName
		if holding, ok := current[target.AssetUUID]; ok {
			from = holding.CurrentAllocation
			if name == "" {
				name = holding.AssetName
			}
		}

		appendIfMaterial(&changes, target.AssetUUID, name, from, target.IdealAllocation)
	}

	// assets held by the wallet but absent from the template go to zero
	for _, holding := range holdings {
		if _, ok := inTemplate[holding.AssetUUID]; ok {
			continue
		}
		appendIfMaterial(&changes, holding.AssetUUID, holding.AssetName, holding.CurrentAllocation, decimal.Zero)
	}

	return changes
}

func appendIfMaterial(changes *[]model.AllocationChange, assetUUID, assetName string, from, to decimal.Decimal) {
	diff := to.Sub(from)
	if diff.Abs().LessThanOrEqual(materialityThreshold) {
		return
	}

	*changes = append(*changes, model.AllocationChange{
		AssetUUID:   assetUUID,
		AssetName:   assetName,
		FromPercent: from,
		ToPercent:   to,
		DiffPercent: diff,
	})
}
