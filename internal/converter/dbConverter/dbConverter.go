package dbConverter

import (
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/model/dbModel"
)

func ConvertCustomer(dbCustomer dbModel.Customer) model.Customer {
	return model.Customer{
		CustomerID:  dbCustomer.CustomerID,
		Name:        dbCustomer.Name,
		Email:       dbCustomer.Email,
		ManagerName: dbCustomer.ManagerName,
	}
}

func ConvertWallet(dbWallet dbModel.Wallet) model.Wallet {
	return model.Wallet{
		WalletID:        dbWallet.WalletID,
		CustomerID:      dbWallet.CustomerID,
		BaseWalletID:    dbWallet.BaseWalletID,
		StartDate:       dbWallet.StartDate,
		CloseDate:       dbWallet.CloseDate,
		CurrentValue:    dbWallet.CurrentValue,
		LastRebalanceAt: dbWallet.LastRebalanceAt,
	}
}

func ConvertBaseWallet(dbBaseWallet dbModel.BaseWallet) model.BaseWallet {
	return model.BaseWallet{
		BaseWalletID: dbBaseWallet.BaseWalletID,
		Name:         dbBaseWallet.Name,
		RiskProfile:  dbBaseWallet.RiskProfile,
	}
}

func ConvertTargetAsset(dbTarget dbModel.TargetAsset) model.TargetAsset {
	return model.TargetAsset{
		AssetUUID:       dbTarget.AssetUUID,
		AssetName:       dbTarget.AssetName,
		IdealAllocation: dbTarget.IdealAllocation,
	}
}

func ConvertWalletClosing(dbClosing dbModel.WalletClosing) model.WalletClosing {
	return model.WalletClosing{
		WalletID:     dbClosing.WalletID,
		CustomerName: dbClosing.CustomerName,
		CloseDate:    dbClosing.CloseDate,
		CurrentValue: dbClosing.CurrentValue,
	}
}

func ConvertManagerPerformance(dbPerf dbModel.ManagerPerformance) model.ManagerPerformance {
	return model.ManagerPerformance{
		ManagerName:  dbPerf.ManagerName,
		WalletsCount: dbPerf.WalletsCount,
		TotalValue:   dbPerf.TotalValue,
	}
}

func ConvertOverdueWallet(dbOverdue dbModel.OverdueWallet) model.OverdueWallet {
	return model.OverdueWallet{
		WalletID:           dbOverdue.WalletID,
		CustomerName:       dbOverdue.CustomerName,
		LastRebalanceAt:    dbOverdue.LastRebalanceAt,
		DaysSinceRebalance: dbOverdue.DaysSinceRebalance,
	}
}

func ConvertCashflowRow(dbRow dbModel.CashflowRow) model.CashflowRow {
	return model.CashflowRow{
		WalletID:     dbRow.WalletID,
		CustomerName: dbRow.CustomerName,
		Deposits:     dbRow.Deposits,
		Withdrawals:  dbRow.Withdrawals,
		BuyVolume:    dbRow.BuyVolume,
		SellVolume:   dbRow.SellVolume,
	}
}
