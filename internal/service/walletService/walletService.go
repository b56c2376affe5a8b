// Package walletService orchestrates the back-office use cases: customer
// and wallet registry, base wallet templates, rebalance reconciliation
// sessions, wallet standardization, monitoring views and reports.
package walletService

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/data/repository"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/novortex/wallet-backoffice/internal/service"
	"github.com/novortex/wallet-backoffice/utils"
	"github.com/shopspring/decimal"
)

type repo interface {
	InsertCustomer(ctx context.Context, customer model.Customer) (customerID int64, err error)
	GetCustomers(ctx context.Context) ([]model.Customer, error)
	InsertWallet(ctx context.Context, wallet model.Wallet) (walletID int64, err error)
	GetWallet(ctx context.Context, walletID int64) (model.Wallet, error)
	GetWalletsStartedInMonth(ctx context.Context, year int, month time.Month) ([]model.Wallet, error)
	SetWalletRebalancedAt(ctx context.Context, walletID int64, rebalancedAt time.Time) error
	InsertWalletOperations(ctx context.Context, walletID int64, operations []model.ConfirmedOperation) error
	InsertBaseWallet(ctx context.Context, name, riskProfile string) (baseWalletID int64, err error)
	GetBaseWallet(ctx context.Context, baseWalletID int64) (model.BaseWallet, error)
	GetBaseWallets(ctx context.Context) ([]model.BaseWallet, error)
	GetBaseWalletTargets(ctx context.Context, baseWalletID int64) ([]model.TargetAsset, error)
	ReplaceBaseWalletTargets(ctx context.Context, baseWalletID int64, targets []model.TargetAsset) error
	GetWalletClosings(ctx context.Context, year int, month time.Month) ([]model.WalletClosing, error)
	GetManagerPerformance(ctx context.Context) ([]model.ManagerPerformance, error)
	GetOverdueWallets(ctx context.Context, cadenceDays int) ([]model.OverdueWallet, error)
	GetCashflowRows(ctx context.Context, year int, month time.Month) ([]model.CashflowRow, error)
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error
}

type cache interface {
	SetWalletAssets(ctx context.Context, walletID int64, holdings []model.AssetHolding) error
	GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error)
	FlushWalletAssets(ctx context.Context, walletID int64) error
}

type sessionStore interface {
	SaveSession(ctx context.Context, sess model.RebalanceSession) error
	GetSession(ctx context.Context, sessionID string) (model.RebalanceSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type rebalanceCalcApi interface {
	GetProposal(ctx context.Context, walletID int64) ([]model.ProposedOperation, error)
}

type walletDataApi interface {
	GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error)
	UpdateAssetAllocation(ctx context.Context, walletID int64, assetUUID string, idealAllocation decimal.Decimal) error
	AddAssetToWallet(ctx context.Context, walletID int64, assetUUID string, idealAllocation decimal.Decimal) error
}

type executionApi interface {
	SubmitOperations(ctx context.Context, walletID int64, operations []model.ConfirmedOperation) error
}

type reportGenerator interface {
	GenerateCashflow(ctx context.Context, year int, month time.Month, rows []model.CashflowRow) (fileBytes []byte, fileExtension string, err error)
}

type cloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type notifier interface {
	NotifyClosings(ctx context.Context, year int, month time.Month, closings []model.WalletClosing) error
	NotifyOverdueRebalances(ctx context.Context, overdue []model.OverdueWallet) error
}

type WalletService struct {
	cfg              *config.Config
	repo             repo
	cache            cache
	sessionStore     sessionStore
	rebalanceCalcApi rebalanceCalcApi
	walletDataApi    walletDataApi
	executionApi     executionApi
	reportGenerator  reportGenerator
	cloudStorage     cloudStorage
	notifier         notifier
}

func New(
	cfg *config.Config,
	repo repo,
	cache cache,
	sessionStore sessionStore,
	rebalanceCalcApi rebalanceCalcApi,
	walletDataApi walletDataApi,
	executionApi executionApi,
	reportGenerator reportGenerator,
	cloudStorage cloudStorage,
	notifier notifier,
) *WalletService {
	return &WalletService{
		cfg:              cfg,
		repo:             repo,
		cache:            cache,
		sessionStore:     sessionStore,
		rebalanceCalcApi: rebalanceCalcApi,
		walletDataApi:    walletDataApi,
		executionApi:     executionApi,
		reportGenerator:  reportGenerator,
		cloudStorage:     cloudStorage,
		notifier:         notifier,
	}
}

func (s *WalletService) CreateCustomer(ctx context.Context, customer model.Customer) (int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.CreateCustomer"

	slog.Debug("CreateCustomer start", slog.String("rqID", rqID), slog.String("op", op))

	customerID, err := s.repo.InsertCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return 0, service.ErrAlreadyExists
		}
		slog.Error("failed on repo.InsertCustomer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	slog.Debug("CreateCustomer completed", slog.String("rqID", rqID), slog.String("op", op))

	return customerID, nil
}

func (s *WalletService) GetCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.GetCustomers(ctx)
}

func (s *WalletService) CreateWallet(ctx context.Context, wallet model.Wallet) (int64, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.CreateWallet"

	slog.Debug("CreateWallet start", slog.String("rqID", rqID), slog.String("op", op))

	if wallet.BaseWalletID != nil {
		_, err := s.repo.GetBaseWallet(ctx, *wallet.BaseWalletID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, service.ErrValidation
			}
			return 0, err
		}
	}

	if wallet.StartDate.IsZero() {
		wallet.StartDate = time.Now()
	}

	walletID, err := s.repo.InsertWallet(ctx, wallet)
	if err != nil {
		slog.Error("failed on repo.InsertWallet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return 0, err
	}

	slog.Debug("CreateWallet completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("walletID", walletID))

	return walletID, nil
}

func (s *WalletService) GetWallet(ctx context.Context, walletID int64) (model.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, walletID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Wallet{}, service.ErrNotFound
		}
		return model.Wallet{}, err
	}
	return wallet, nil
}

// GetWalletAssets serves a wallet's holdings cache-first; the external
// wallet data service is the source of truth on a miss.
func (s *WalletService) GetWalletAssets(ctx context.Context, walletID int64) ([]model.AssetHolding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GetWalletAssets"

	holdings, err := s.cache.GetWalletAssets(ctx, walletID)
	if err == nil {
		return holdings, nil
	}

	holdings, err = s.walletDataApi.GetWalletAssets(ctx, walletID)
	if err != nil {
		slog.Error("failed on walletDataApi.GetWalletAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	err = s.cache.SetWalletAssets(ctx, walletID, holdings)
	if err != nil {
		slog.Error("failed on cache.SetWalletAssets", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return holdings, nil
}
