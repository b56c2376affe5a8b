package walletService

import (
	"context"
	"testing"
	"time"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBaseWallet_ValidatesTemplate(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.CreateBaseWallet(context.Background(), "Aggressive", "high", []model.TargetAsset{
		{AssetUUID: "btc", IdealAllocation: dec("60")},
		{AssetUUID: "eth", IdealAllocation: dec("40.5")},
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	baseWalletID, err := env.service.CreateBaseWallet(context.Background(), "Aggressive", "high", []model.TargetAsset{
		{AssetUUID: "btc", IdealAllocation: dec("60")},
		{AssetUUID: "eth", IdealAllocation: dec("40")},
	})
	require.NoError(t, err)
	assert.Len(t, env.repo.replacedTargets[baseWalletID], 2)
}

func TestSetBaseWalletTargets(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", IdealAllocation: dec("100")},
	)

	newTargets := []model.TargetAsset{
		{AssetUUID: "btc", IdealAllocation: dec("70")},
		{AssetUUID: "eth", IdealAllocation: dec("30")},
	}
	require.NoError(t, env.service.SetBaseWalletTargets(context.Background(), baseWalletID, newTargets))
	assert.Equal(t, newTargets, env.repo.replacedTargets[baseWalletID])

	err := env.service.SetBaseWalletTargets(context.Background(), baseWalletID, []model.TargetAsset{
		{AssetUUID: "btc", IdealAllocation: dec("99.5")},
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	err = env.service.SetBaseWalletTargets(context.Background(), 42, newTargets)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestEditBaseWalletTargetAllocation(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", IdealAllocation: dec("60")},
		model.TargetAsset{AssetUUID: "eth", IdealAllocation: dec("40")},
	)

	// single-value edits may leave the sum off 100 until the next full check
	require.NoError(t, env.service.EditBaseWalletTargetAllocation(context.Background(), baseWalletID, "btc", dec("55")))

	replaced := env.repo.replacedTargets[baseWalletID]
	require.Len(t, replaced, 2)
	assert.Equal(t, "55", replaced[0].IdealAllocation.String())
	assert.Equal(t, "40", replaced[1].IdealAllocation.String())
}

func TestEditBaseWalletTargetAllocation_Bounds(t *testing.T) {
	env := newTestEnv()
	baseWalletID := templateWallet(env,
		model.TargetAsset{AssetUUID: "btc", IdealAllocation: dec("100")},
	)

	err := env.service.EditBaseWalletTargetAllocation(context.Background(), baseWalletID, "btc", dec("101"))
	assert.ErrorIs(t, err, service.ErrValidation)

	err = env.service.EditBaseWalletTargetAllocation(context.Background(), baseWalletID, "btc", dec("-1"))
	assert.ErrorIs(t, err, service.ErrValidation)

	err = env.service.EditBaseWalletTargetAllocation(context.Background(), baseWalletID, "doge", dec("10"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGenerateCashflowReport(t *testing.T) {
	env := newTestEnv()
	env.repo.cashflowRows = []model.CashflowRow{
		{WalletID: 1, CustomerName: "Alice", Deposits: dec("100"), Withdrawals: dec("20")},
	}

	link, err := env.service.GenerateCashflowReport(context.Background(), 2026, time.August)
	require.NoError(t, err)
	assert.Contains(t, link, "https://drive.example/")
	require.Len(t, env.cloud.uploaded, 1)
	assert.Contains(t, env.cloud.uploaded[0], "cashflow_2026_08")
}

func TestGenerateCashflowReport_NoData(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.GenerateCashflowReport(context.Background(), 2026, time.July)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
