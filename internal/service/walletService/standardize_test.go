package walletService

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func templateWallet(env *testEnv, targets ...model.TargetAsset) int64 {
	env.repo.baseWallets[1] = model.BaseWallet{
		BaseWalletID: 1,
		Name:         "Conservative",
		Targets:      targets,
	}
	return 1
}

func linkedWallet(env *testEnv, walletID int64, holdings ...model.AssetHolding) {
	baseWalletID := int64(1)
	env.repo.wallets[walletID] = model.Wallet{
		WalletID:     walletID,
		CustomerID:   1,
		BaseWalletID: &baseWalletID,
		StartDate:    time.Now(),
	}
	env.dataApi.holdings[walletID] = holdings
}

func TestApplyStandardization_AggregatesCounts(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", AssetName: "Bitcoin", IdealAllocation: dec("50")},
		model.TargetAsset{AssetUUID: "eth", AssetName: "Ethereum", IdealAllocation: dec("50")},
	)

	// drifted wallet, both assets move
	linkedWallet(env, 1,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("60")},
		model.AssetHolding{AssetUUID: "eth", CurrentAllocation: dec("40")},
	)

	// holdings fetch fails outright
	linkedWallet(env, 2)
	env.dataApi.fetchErr[2] = errors.New("wallet data api down")

	// already standardized, nothing to do
	linkedWallet(env, 3,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("50")},
		model.AssetHolding{AssetUUID: "eth", CurrentAllocation: dec("50")},
	)

	// one of two asset updates fails
	linkedWallet(env, 4,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("70")},
		model.AssetHolding{AssetUUID: "eth", CurrentAllocation: dec("30")},
	)
	env.dataApi.updateErr["4:btc"] = errors.New("update rejected")

	now := time.Now()
	report, err := env.service.ApplyStandardization(context.Background(), baseWalletID, now.Year(), now.Month())
	require.NoError(t, err)

	assert.Equal(t, 1, report.WalletsUpdated)
	assert.Equal(t, 2, report.Errors)

	// the clean wallet got both updates and its cache flushed
	assert.Contains(t, env.dataApi.updates, "1:btc")
	assert.Contains(t, env.dataApi.updates, "1:eth")
	assert.Contains(t, env.cache.flushed, int64(1))
}

func TestApplyStandardization_AddsMissingAssets(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", AssetName: "Bitcoin", IdealAllocation: dec("50")},
		model.TargetAsset{AssetUUID: "sol", AssetName: "Solana", IdealAllocation: dec("50")},
	)

	linkedWallet(env, 1,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("100")},
	)

	now := time.Now()
	report, err := env.service.ApplyStandardization(context.Background(), baseWalletID, now.Year(), now.Month())
	require.NoError(t, err)

	assert.Equal(t, 1, report.WalletsUpdated)
	assert.Equal(t, 0, report.Errors)
	assert.Contains(t, env.dataApi.updates, "1:btc")
	assert.Contains(t, env.dataApi.adds, "1:sol")
}

func TestApplyStandardization_InvalidTemplate(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", IdealAllocation: dec("60")},
		model.TargetAsset{AssetUUID: "eth", IdealAllocation: dec("39.5")},
	)

	now := time.Now()
	_, err := env.service.ApplyStandardization(context.Background(), baseWalletID, now.Year(), now.Month())
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestApplyStandardization_UnknownTemplate(t *testing.T) {
	env := newTestEnv()

	now := time.Now()
	_, err := env.service.ApplyStandardization(context.Background(), 42, now.Year(), now.Month())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPreviewStandardization(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", AssetName: "Bitcoin", IdealAllocation: dec("50")},
		model.TargetAsset{AssetUUID: "eth", AssetName: "Ethereum", IdealAllocation: dec("50")},
	)

	linkedWallet(env, 1,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("60")},
		model.AssetHolding{AssetUUID: "eth", CurrentAllocation: dec("40")},
	)
	linkedWallet(env, 2,
		model.AssetHolding{AssetUUID: "btc", CurrentAllocation: dec("50.05")},
		model.AssetHolding{AssetUUID: "eth", CurrentAllocation: dec("49.95")},
	)

	now := time.Now()
	preview, err := env.service.PreviewStandardization(context.Background(), baseWalletID, now.Year(), now.Month())
	require.NoError(t, err)

	require.Len(t, preview.Wallets, 2)

	assert.False(t, preview.Wallets[0].AlreadyStandardized)
	assert.Len(t, preview.Wallets[0].Changes, 2)

	// sub-materiality drift counts as standardized
	assert.True(t, preview.Wallets[1].AlreadyStandardized)
	assert.Empty(t, preview.Wallets[1].Changes)

	// preview writes nothing
	assert.Empty(t, env.dataApi.updates)
	assert.Empty(t, env.dataApi.adds)
}

func TestPreviewStandardization_SkipsUnlinkedWallets(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", AssetName: "Bitcoin", IdealAllocation: dec("100")},
	)

	otherBase := int64(99)
	env.repo.wallets[1] = model.Wallet{WalletID: 1, BaseWalletID: &otherBase}
	env.repo.wallets[2] = model.Wallet{WalletID: 2}

	now := time.Now()
	preview, err := env.service.PreviewStandardization(context.Background(), baseWalletID, now.Year(), now.Month())
	require.NoError(t, err)
	assert.Empty(t, preview.Wallets)
}
