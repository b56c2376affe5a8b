package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	CustomerID  int64  `json:"customerID"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ManagerName string `json:"managerName"`
}

type Wallet struct {
	WalletID        int64           `json:"walletID"`
	CustomerID      int64           `json:"customerID"`
	BaseWalletID    *int64          `json:"baseWalletID,omitempty"`
	StartDate       time.Time       `json:"startDate"`
	CloseDate       *time.Time      `json:"closeDate,omitempty"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	LastRebalanceAt *time.Time      `json:"lastRebalanceAt,omitempty"`
}

// AssetHolding is one asset inside a client wallet as served by the
// external wallet data service.
type AssetHolding struct {
	AssetUUID         string          `json:"assetUuid"`
	AssetName         string          `json:"assetName"`
	Quantity          decimal.Decimal `json:"quantity"`
	CurrentAllocation decimal.Decimal `json:"currentAllocation"`
	IdealAllocation   decimal.Decimal `json:"idealAllocation"`
}

// BaseWallet is a named risk-profile template of ideal per-asset
// allocations used to standardize many client wallets at once.
type BaseWallet struct {
	BaseWalletID int64         `json:"baseWalletID"`
	Name         string        `json:"name"`
	RiskProfile  string        `json:"riskProfile"`
	Targets      []TargetAsset `json:"targets"`
}

type TargetAsset struct {
	AssetUUID       string          `json:"assetUuid"`
	AssetName       string          `json:"assetName"`
	IdealAllocation decimal.Decimal `json:"idealAllocation"`
}

// AllocationChange is one per-asset diff between a wallet's current
// allocation and the template's ideal allocation. Computed on demand,
// never persisted.
type AllocationChange struct {
	AssetUUID   string          `json:"assetUuid"`
	AssetName   string          `json:"assetName"`
	FromPercent decimal.Decimal `json:"fromPercent"`
	ToPercent   decimal.Decimal `json:"toPercent"`
	DiffPercent decimal.Decimal `json:"diffPercent"`
}

type WalletStandardization struct {
	WalletID            int64              `json:"walletID"`
	AlreadyStandardized bool               `json:"alreadyStandardized"`
	Changes             []AllocationChange `json:"changes"`
}

type StandardizationPreview struct {
	BaseWalletID int64                   `json:"baseWalletID"`
	Wallets      []WalletStandardization `json:"wallets"`
}

type StandardizationReport struct {
	WalletsUpdated int `json:"walletsUpdated"`
	Errors         int `json:"errors"`
}
