package walletService

import (
	"context"
	"testing"

	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalWallet(env *testEnv) int64 {
	env.repo.wallets[1] = model.Wallet{WalletID: 1, CustomerID: 1}
	env.calcApi.proposal = []model.ProposedOperation{
		{AssetName: "Bitcoin", Action: model.ActionBuy, Amount: dec("600.00")},
		{AssetName: "Ethereum", Action: model.ActionBuy, Amount: dec("300.00")},
		{AssetName: "Solana", Action: model.ActionSell, Amount: dec("1000.00")},
	}
	return 1
}

func TestCreateRebalanceSession(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, status, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)

	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, walletID, sess.WalletID)
	require.Len(t, sess.Items, 3)
	assert.True(t, status.Balanced)

	// session is retrievable afterwards
	got, _, err := env.service.GetRebalanceSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sess.SessionID, got.SessionID)
}

func TestCreateRebalanceSession_UnknownWallet(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.service.CreateRebalanceSession(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestEditSessionAmount(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, _, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)

	updated, status, err := env.service.EditSessionAmount(context.Background(), sess.SessionID, "Bitcoin", dec("700.00"))
	require.NoError(t, err)

	item := updated.Items[0]
	assert.Equal(t, "700.00", item.CurrentAmount.StringFixed(2))
	assert.True(t, item.Customized)
	assert.False(t, status.Balanced)
}

func TestEditSessionAmount_Negative(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.service.EditSessionAmount(context.Background(), "whatever", "Bitcoin", dec("-5"))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestEditSessionAmount_UnknownSession(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.service.EditSessionAmount(context.Background(), "missing", "Bitcoin", dec("5"))
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestEditSessionAmount_UnknownAsset(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, _, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)

	_, _, err = env.service.EditSessionAmount(context.Background(), sess.SessionID, "Dogecoin", dec("5"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestResetSession_RevertsEdits(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, initialStatus, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)
	initialAmounts := make([]string, 0, len(sess.Items))
	for _, item := range sess.Items {
		initialAmounts = append(initialAmounts, item.CurrentAmount.StringFixed(2))
	}

	_, _, err = env.service.EditSessionAmount(context.Background(), sess.SessionID, "Bitcoin", dec("123.45"))
	require.NoError(t, err)
	_, _, err = env.service.ToggleSessionItem(context.Background(), sess.SessionID, "Solana")
	require.NoError(t, err)

	reverted, status, err := env.service.ResetSession(context.Background(), sess.SessionID)
	require.NoError(t, err)

	assert.Equal(t, initialStatus, status)
	for i, item := range reverted.Items {
		assert.Equal(t, initialAmounts[i], item.CurrentAmount.StringFixed(2))
		assert.False(t, item.Customized)
		assert.True(t, item.Selected)
	}
}

func TestConfirmRebalanceSession(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, _, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)

	_, _, err = env.service.ToggleSessionItem(context.Background(), sess.SessionID, "Ethereum")
	require.NoError(t, err)

	status, err := env.service.ConfirmRebalanceSession(context.Background(), sess.SessionID)
	require.NoError(t, err)
	assert.False(t, status.Balanced)

	// full batch goes to execution, deselected item tagged
	submitted := env.execApi.submitted[walletID]
	require.Len(t, submitted, 3)
	assert.False(t, submitted[1].Selected)

	// recorded in history and rebalance timestamp set
	assert.Len(t, env.repo.insertedOps[walletID], 3)
	_, ok := env.repo.rebalancedAt[walletID]
	assert.True(t, ok)

	// session is gone
	_, _, err = env.service.GetRebalanceSession(context.Background(), sess.SessionID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestCancelSession(t *testing.T) {
	env := newTestEnv()
	walletID := proposalWallet(env)

	sess, _, err := env.service.CreateRebalanceSession(context.Background(), walletID)
	require.NoError(t, err)

	require.NoError(t, env.service.CancelSession(context.Background(), sess.SessionID))

	_, _, err = env.service.GetRebalanceSession(context.Background(), sess.SessionID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// nothing was executed or recorded
	assert.Empty(t, env.execApi.submitted)
	assert.Empty(t, env.repo.insertedOps)
}
