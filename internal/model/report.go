package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletOperation is one row of the wallet operations history: confirmed
// rebalance trades plus deposits/withdrawals recorded by the surrounding
// system.
type WalletOperation struct {
	WalletID      int64           `json:"walletID"`
	AssetName     string          `json:"assetName"`
	OperationType string          `json:"operationType"` // buy, sell, deposit, withdrawal
	Amount        decimal.Decimal `json:"amount"`
	Selected      bool            `json:"selected"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type CashflowRow struct {
	WalletID     int64           `json:"walletID"`
	CustomerName string          `json:"customerName"`
	Deposits     decimal.Decimal `json:"deposits"`
	Withdrawals  decimal.Decimal `json:"withdrawals"`
	BuyVolume    decimal.Decimal `json:"buyVolume"`
	SellVolume   decimal.Decimal `json:"sellVolume"`
}
