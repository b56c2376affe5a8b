package model

import (
	"github.com/shopspring/decimal"
)

type OperationAction string

const (
	ActionBuy  OperationAction = "buy"
	ActionSell OperationAction = "sell"
)

// ProposedOperation is one line of the proposal batch produced by the
// external rebalance-calculation service.
type ProposedOperation struct {
	AssetName        string          `json:"assetName"`
	AssetIcon        string          `json:"assetIcon"`
	Action           OperationAction `json:"action"`
	Amount           decimal.Decimal `json:"amount"`
	TargetAllocation decimal.Decimal `json:"targetAllocation"`
}

// RebalanceLineItem is the working state of one proposed operation inside
// a reconciliation session. CurrentAmount starts equal to Amount and may be
// overwritten by auto-balancing or by a manual edit; a manual edit marks
// the item Customized and takes it out of any further auto-balancing.
type RebalanceLineItem struct {
	ProposedOperation
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Customized    bool            `json:"customized"`
	Selected      bool            `json:"selected"`
}

type BalanceStatus struct {
	Balanced bool            `json:"balanced"`
	Delta    decimal.Decimal `json:"delta"`
}

type ConfirmedOperation struct {
	AssetName string          `json:"assetName"`
	Action    OperationAction `json:"action"`
	Amount    decimal.Decimal `json:"amount"`
	Selected  bool            `json:"selected"`
}

type RebalanceSession struct {
	SessionID string              `json:"sessionID"`
	WalletID  int64               `json:"walletID"`
	Items     []RebalanceLineItem `json:"items"`
}
