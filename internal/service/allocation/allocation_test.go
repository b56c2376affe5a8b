package allocation

import (
	"testing"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targets(allocations ...string) []model.TargetAsset {
	out := make([]model.TargetAsset, 0, len(allocations))
	for i, allocation := range allocations {
		out = append(out, model.TargetAsset{
			AssetUUID:       string(rune('a' + i)),
			IdealAllocation: decimal.RequireFromString(allocation),
		})
	}
	return out
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name        string
		allocations []string
		wantErr     bool
	}{
		{name: "exact hundred", allocations: []string{"60", "40"}, wantErr: false},
		{name: "within tolerance", allocations: []string{"60", "39.995"}, wantErr: false},
		{name: "sum too low", allocations: []string{"60", "39.5"}, wantErr: true},
		{name: "sum too high", allocations: []string{"60", "40.5"}, wantErr: true},
		{name: "empty template", allocations: nil, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTemplate(targets(tc.allocations...))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTemplate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAllocation(t *testing.T) {
	assert.NoError(t, ValidateAllocation(decimal.Zero))
	assert.NoError(t, ValidateAllocation(decimal.NewFromInt(100)))
	assert.NoError(t, ValidateAllocation(decimal.RequireFromString("33.5")))

	assert.ErrorIs(t, ValidateAllocation(decimal.RequireFromString("-0.01")), ErrAllocationOutOfRange)
	assert.ErrorIs(t, ValidateAllocation(decimal.RequireFromString("100.01")), ErrAllocationOutOfRange)
}

func holding(uuid, name, current string) model.AssetHolding {
	return model.AssetHolding{
		AssetUUID:         uuid,
		AssetName:         name,
		CurrentAllocation: decimal.RequireFromString(current),
	}
}

func target(uuid, name, ideal string) model.TargetAsset {
	return model.TargetAsset{
		AssetUUID:       uuid,
		AssetName:       name,
		IdealAllocation: decimal.RequireFromString(ideal),
	}
}

func TestComputeChanges_MaterialityFilter(t *testing.T) {
	holdings := []model.AssetHolding{
		holding("btc", "Bitcoin", "49.95"),
		holding("eth", "Ethereum", "30.00"),
	}
	templateTargets := []model.TargetAsset{
		target("btc", "Bitcoin", "50.00"),  // diff 0.05, immaterial
		target("eth", "Ethereum", "29.89"), // diff -0.11, material
	}

	changes := ComputeChanges(holdings, templateTargets)

	require.Len(t, changes, 1)
	assert.Equal(t, "eth", changes[0].AssetUUID)
	assert.Equal(t, "-0.11", changes[0].DiffPercent.String())
}

func TestComputeChanges_ExactThresholdExcluded(t *testing.T) {
	changes := ComputeChanges(
		[]model.AssetHolding{holding("btc", "Bitcoin", "49.9")},
		[]model.TargetAsset{target("btc", "Bitcoin", "50.0")},
	)
	assert.Empty(t, changes)
}

func TestComputeChanges_NewAndLeftoverAssets(t *testing.T) {
	holdings := []model.AssetHolding{
		holding("btc", "Bitcoin", "60"),
		holding("doge", "Dogecoin", "40"),
	}
	templateTargets := []model.TargetAsset{
		target("btc", "Bitcoin", "50"),
		target("sol", "Solana", "50"),
	}

	changes := ComputeChanges(holdings, templateTargets)

	require.Len(t, changes, 3)

	// template order first, leftover holdings after
	assert.Equal(t, "btc", changes[0].AssetUUID)
	assert.Equal(t, "-10", changes[0].DiffPercent.String())

	assert.Equal(t, "sol", changes[1].AssetUUID)
	assert.Equal(t, "0", changes[1].FromPercent.String())
	assert.Equal(t, "50", changes[1].ToPercent.String())

	assert.Equal(t, "doge", changes[2].AssetUUID)
	assert.Equal(t, "0", changes[2].ToPercent.String())
	assert.Equal(t, "-40", changes[2].DiffPercent.String())
}

func TestComputeChanges_AlreadyStandardized(t *testing.T) {
	holdings := []model.AssetHolding{
		holding("btc", "Bitcoin", "50"),
		holding("eth", "Ethereum", "50"),
	}
	templateTargets := []model.TargetAsset{
		target("btc", "Bitcoin", "50"),
		target("eth", "Ethereum", "50"),
	}

	assert.Empty(t, ComputeChanges(holdings, templateTargets))
}
