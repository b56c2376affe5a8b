package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	CustomerID  int64  `db:"customer_id"`
	Name        string `db:"name"`
	Email       string `db:"email"`
	ManagerName string `db:"manager_name"`
}

type Wallet struct {
	WalletID        int64           `db:"wallet_id"`
	CustomerID      int64           `db:"customer_id"`
	BaseWalletID    *int64          `db:"base_wallet_id"`
	StartDate       time.Time       `db:"start_date"`
	CloseDate       *time.Time      `db:"close_date"`
	CurrentValue    decimal.Decimal `db:"current_value"`
	LastRebalanceAt *time.Time      `db:"last_rebalance_at"`
}

type BaseWallet struct {
	BaseWalletID int64  `db:"base_wallet_id"`
	Name         string `db:"name"`
	RiskProfile  string `db:"risk_profile"`
}

type TargetAsset struct {
	BaseWalletID    int64           `db:"base_wallet_id"`
	AssetUUID       string          `db:"asset_uuid"`
	AssetName       string          `db:"asset_name"`
	IdealAllocation decimal.Decimal `db:"ideal_allocation"`
}

type WalletClosing struct {
	WalletID     int64           `db:"wallet_id"`
	CustomerName string          `db:"customer_name"`
	CloseDate    time.Time       `db:"close_date"`
	CurrentValue decimal.Decimal `db:"current_value"`
}

type ManagerPerformance struct {
	ManagerName  string          `db:"manager_name"`
	WalletsCount int             `db:"wallets_count"`
	TotalValue   decimal.Decimal `db:"total_value"`
}

type OverdueWallet struct {
	WalletID           int64      `db:"wallet_id"`
	CustomerName       string     `db:"customer_name"`
	LastRebalanceAt    *time.Time `db:"last_rebalance_at"`
	DaysSinceRebalance int        `db:"days_since_rebalance"`
}

type CashflowRow struct {
	WalletID     int64           `db:"wallet_id"`
	CustomerName string          `db:"customer_name"`
	Deposits     decimal.Decimal `db:"deposits"`
	Withdrawals  decimal.Decimal `db:"withdrawals"`
	BuyVolume    decimal.Decimal `db:"buy_volume"`
	SellVolume   decimal.Decimal `db:"sell_volume"`
}
