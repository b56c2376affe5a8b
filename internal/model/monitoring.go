package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletClosing struct {
	WalletID     int64           `json:"walletID"`
	CustomerName string          `json:"customerName"`
	CloseDate    time.Time       `json:"closeDate"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

type ManagerPerformance struct {
	ManagerName  string          `json:"managerName"`
	WalletsCount int             `json:"walletsCount"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

type OverdueWallet struct {
	WalletID           int64      `json:"walletID"`
	CustomerName       string     `json:"customerName"`
	LastRebalanceAt    *time.Time `json:"lastRebalanceAt,omitempty"`
	DaysSinceRebalance int        `json:"daysSinceRebalance"`
}
