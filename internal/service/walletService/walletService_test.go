package walletService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/data/repository"
	"github.com/novortex/wallet-backoffice/data/session"
	"github.com/novortex/wallet-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	mu              sync.Mutex
	customers       []model.Customer
	wallets         map[int64]model.Wallet
	baseWallets     map[int64]model.BaseWallet
	insertedOps     map[int64][]model.ConfirmedOperation
	rebalancedAt    map[int64]time.Time
	replacedTargets map[int64][]model.TargetAsset
	cashflowRows    []model.CashflowRow
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		wallets:         make(map[int64]model.Wallet),
		baseWallets:     make(map[int64]model.BaseWallet),
		insertedOps:     make(map[int64][]model.ConfirmedOperation),
		rebalancedAt:    make(map[int64]time.Time),
		replacedTargets: make(map[int64][]model.TargetAsset),
	}
}

func (r *fakeRepo) InsertCustomer(_ context.Context, customer model.Customer) (int64, error) {
	r.customers = append(r.customers, customer)
	return int64(len(r.customers)), nil
}

func (r *fakeRepo) GetCustomers(_ context.Context) ([]model.Customer, error) {
	return r.customers, nil
}

func (r *fakeRepo) InsertWallet(_ context.Context, wallet model.Wallet) (int64, error) {
	id := int64(len(r.wallets) + 1)
	wallet.WalletID = id
	r.wallets[id] = wallet
	return id, nil
}

func (r *fakeRepo) GetWallet(_ context.Context, walletID int64) (model.Wallet, error) {
	wallet, ok := r.wallets[walletID]
	if !ok {
		return model.Wallet{}, repository.ErrNotFound
	}
	return wallet, nil
}

func (r *fakeRepo) GetWalletsStartedInMonth(_ context.Context, _ int, _ time.Month) ([]model.Wallet, error) {
	out := make([]model.Wallet, 0, len(r.wallets))
	for id := int64(1); id <= int64(len(r.wallets)); id++ {
		if wallet, ok := r.wallets[id]; ok {
			out = append(out, wallet)
		}
	}
	return out, nil
}

func (r *fakeRepo) SetWalletRebalancedAt(_ context.Context, walletID int64, rebalancedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rebalancedAt[walletID] = rebalancedAt
	return nil
}

func (r *fakeRepo) InsertWalletOperations(_ context.Context, walletID int64, operations []model.ConfirmedOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertedOps[walletID] = operations
	return nil
}

func (r *fakeRepo) InsertBaseWallet(_ context.Context, name, riskProfile string) (int64, error) {
	id := int64(len(r.baseWallets) + 1)
	r.baseWallets[id] = model.BaseWallet{BaseWalletID: id, Name: name, RiskProfile: riskProfile}
	return id, nil
}

func (r *fakeRepo) GetBaseWallet(_ context.Context, baseWalletID int64) (model.BaseWallet, error) {
	baseWallet, ok := r.baseWallets[baseWalletID]
	if !ok {
		return model.BaseWallet{}, repository.ErrNotFound
	}
	return baseWallet, nil
}

func (r *fakeRepo) GetBaseWallets(_ context.Context) ([]model.BaseWallet, error) {
	out := make([]model.BaseWallet, 0, len(r.baseWallets))
	for _, baseWallet := range r.baseWallets {
		out = append(out, baseWallet)
	}
	return out, nil
}

func (r *fakeRepo) GetBaseWalletTargets(_ context.Context, baseWalletID int64) ([]model.TargetAsset, error) {
	baseWallet, ok := r.baseWallets[baseWalletID]
	if !ok {
		return nil, nil
	}
	return baseWallet.Targets, nil
}

func (r *fakeRepo) ReplaceBaseWalletTargets(_ context.Context, baseWalletID int64, targets []model.TargetAsset) error {
	r.replacedTargets[baseWalletID] = targets
	baseWallet := r.baseWallets[baseWalletID]
	baseWallet.Targets = targets
	r.baseWallets[baseWalletID] = baseWallet
	return nil
}

func (r *fakeRepo) GetWalletClosings(_ context.Context, _ int, _ time.Month) ([]model.WalletClosing, error) {
	return nil, nil
}

func (r *fakeRepo) GetManagerPerformance(_ context.Context) ([]model.ManagerPerformance, error) {
	return nil, nil
}

func (r *fakeRepo) GetOverdueWallets(_ context.Context, _ int) ([]model.OverdueWallet, error) {
	return nil, nil
}

func (r *fakeRepo) GetCashflowRows(_ context.Context, _ int, _ time.Month) ([]model.CashflowRow, error) {
	return r.cashflowRows, nil
}

func (r *fakeRepo) WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error {
	return tFunc(ctx)
}

type fakeCache struct {
	mu      sync.Mutex
	assets  map[int64][]model.AssetHolding
	flushed []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{assets: make(map[int64][]model.AssetHolding)}
}

func (c *fakeCache) SetWalletAssets(_ context.Context, walletID int64, holdings []model.AssetHolding) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assets[walletID] = holdings
	return nil
}

func (c *fakeCache) GetWalletAssets(_ context.Context, walletID int64) ([]model.AssetHolding, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	holdings, ok := c.assets[walletID]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return holdings, nil
}

func (c *fakeCache) FlushWalletAssets(_ context.Context, walletID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.assets, walletID)
	c.flushed = append(c.flushed, walletID)
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.RebalanceSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]model.RebalanceSession)}
}

func (s *fakeSessionStore) SaveSession(_ context.Context, sess model.RebalanceSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = sess
	return nil
}

func (s *fakeSessionStore) GetSession(_ context.Context, sessionID string) (model.RebalanceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return model.RebalanceSession{}, session.ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

type fakeRebalanceCalcApi struct {
	proposal []model.ProposedOperation
	err      error
}

func (a *fakeRebalanceCalcApi) GetProposal(_ context.Context, _ int64) ([]model.ProposedOperation, error) {
	return a.proposal, a.err
}

type fakeWalletDataApi struct {
	mu        sync.Mutex
	holdings  map[int64][]model.AssetHolding
	fetchErr  map[int64]error
	updateErr map[string]error
	updates   []string
	adds      []string
}

func newFakeWalletDataApi() *fakeWalletDataApi {
	return &fakeWalletDataApi{
		holdings:  make(map[int64][]model.AssetHolding),
		fetchErr:  make(map[int64]error),
		updateErr: make(map[string]error),
	}
}

func (a *fakeWalletDataApi) GetWalletAssets(_ context.Context, walletID int64) ([]model.AssetHolding, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.fetchErr[walletID]; err != nil {
		return nil, err
	}
	return a.holdings[walletID], nil
}

func (a *fakeWalletDataApi) UpdateAssetAllocation(_ context.Context, walletID int64, assetUUID string, _ decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := fmt.Sprintf("%d:%s", walletID, assetUUID)
	if err := a.updateErr[key]; err != nil {
		return err
	}
	a.updates = append(a.updates, key)
	return nil
}

func (a *fakeWalletDataApi) AddAssetToWallet(_ context.Context, walletID int64, assetUUID string, _ decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adds = append(a.adds, fmt.Sprintf("%d:%s", walletID, assetUUID))
	return nil
}

type fakeExecutionApi struct {
	mu        sync.Mutex
	submitted map[int64][]model.ConfirmedOperation
	err       error
}

func newFakeExecutionApi() *fakeExecutionApi {
	return &fakeExecutionApi{submitted: make(map[int64][]model.ConfirmedOperation)}
}

func (a *fakeExecutionApi) SubmitOperations(_ context.Context, walletID int64, operations []model.ConfirmedOperation) error {
	if a.err != nil {
		return a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitted[walletID] = operations
	return nil
}

type fakeReportGenerator struct{}

func (fakeReportGenerator) GenerateCashflow(_ context.Context, _ int, _ time.Month, _ []model.CashflowRow) ([]byte, string, error) {
	return []byte("xlsx"), ".xlsx", nil
}

type fakeCloudStorage struct {
	uploaded []string
}

func (c *fakeCloudStorage) UploadFile(_ context.Context, _ io.Reader, filename string) (string, error) {
	c.uploaded = append(c.uploaded, filename)
	return "https://drive.example/" + filename, nil
}

type fakeNotifier struct{}

func (fakeNotifier) NotifyClosings(_ context.Context, _ int, _ time.Month, _ []model.WalletClosing) error {
	return nil
}

func (fakeNotifier) NotifyOverdueRebalances(_ context.Context, _ []model.OverdueWallet) error {
	return nil
}

type testEnv struct {
	service      *WalletService
	repo         *fakeRepo
	cache        *fakeCache
	sessionStore *fakeSessionStore
	calcApi      *fakeRebalanceCalcApi
	dataApi      *fakeWalletDataApi
	execApi      *fakeExecutionApi
	cloud        *fakeCloudStorage
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:         newFakeRepo(),
		cache:        newFakeCache(),
		sessionStore: newFakeSessionStore(),
		calcApi:      &fakeRebalanceCalcApi{},
		dataApi:      newFakeWalletDataApi(),
		execApi:      newFakeExecutionApi(),
		cloud:        &fakeCloudStorage{},
	}

	cfg := &config.Config{
		Rebalance: config.Rebalance{CadenceDays: 30},
	}

	env.service = New(
		cfg,
		env.repo,
		env.cache,
		env.sessionStore,
		env.calcApi,
		env.dataApi,
		env.execApi,
		fakeReportGenerator{},
		env.cloud,
		fakeNotifier{},
	)

	return env
}
