package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/domain"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/ports"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WalletRepository ---

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) FindWalletByName(ctx context.Context, name string) (*domain.Wallet, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateWalletStartingValue(ctx context.Context, walletID string, serializedValue string) error {
	args := m.Called(ctx, walletID, serializedValue)
	return args.Error(0)
}

func (m *MockWalletRepository) DeleteWallet(ctx context.Context, walletID string) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

func (m *MockWalletRepository) RedenominateWallet(ctx context.Context, walletID string, amounts []ports.AmountUpdate, serializedStartingValue string) error {
	args := m.Called(ctx, walletID, amounts, serializedStartingValue)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionAmount(ctx context.Context, transactionID string, serializedAmount string) error {
	args := m.Called(ctx, transactionID, serializedAmount)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// stubConverter converts through a fixed base-relative rate table without any
// fetching. Update is a no-op.
type stubConverter struct {
	rates map[string]decimal.Decimal
}

func (c *stubConverter) Update(context.Context, bool) {}

func (c *stubConverter) ConvertAmount(_ context.Context, amount decimal.Decimal, source, dest money.Currency) (decimal.Decimal, error) {
	if source == dest {
		return amount, nil
	}
	srcRate, okSrc := c.rates[source.Code]
	destRate, okDest := c.rates[dest.Code]
	if !okSrc || !okDest {
		return decimal.Decimal{}, apperrors.NewConversionError(source.Code, dest.Code)
	}
	return amount.DivRound(srcRate, 128).Mul(destRate), nil
}

// --- Test Suite ---

type WalletServiceTestSuite struct {
	suite.Suite
	walletRepo *MockWalletRepository
	txnRepo    *MockTransactionRepository
	converter  *stubConverter
	service    *services.WalletService
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.walletRepo = new(MockWalletRepository)
	suite.txnRepo = new(MockTransactionRepository)
	// 1 EUR buys 2 USD and 100 BTC in this table.
	suite.converter = &stubConverter{rates: map[string]decimal.Decimal{
		"EUR": decimal.NewFromInt(1),
		"USD": decimal.NewFromInt(2),
		"BTC": decimal.NewFromInt(100),
	}}
	suite.service = services.NewWalletService(suite.walletRepo, suite.txnRepo, suite.converter)
}

func testWallet(start string, currency money.Currency) *domain.Wallet {
	return &domain.Wallet{
		WalletID:      uuid.NewString(),
		Name:          "checking",
		StartingValue: money.MustValue(start, currency),
	}
}

func testTransaction(walletID, amount string, currency money.Currency) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		WalletID:      walletID,
		Amount:        money.MustValue(amount, currency),
		Description:   "test transaction",
		Date:          "2018-01-01",
	}
}

func (suite *WalletServiceTestSuite) TestCreateWallet_Success() {
	ctx := context.Background()
	start := money.MustValue("100.00", money.EUR)

	suite.walletRepo.On("FindWalletByName", ctx, "checking").Return(nil, apperrors.ErrNotFound).Once()
	suite.walletRepo.On("SaveWallet", ctx, mock.MatchedBy(func(w domain.Wallet) bool {
		return w.Name == "checking" && w.StartingValue.Equal(start) && w.WalletID != ""
	})).Return(nil).Once()

	wallet, err := suite.service.CreateWallet(ctx, "checking", start)

	suite.Require().NoError(err)
	suite.Equal(money.EUR, wallet.Currency())
	suite.walletRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestCreateWallet_DuplicateName() {
	ctx := context.Background()
	existing := testWallet("0", money.EUR)
	suite.walletRepo.On("FindWalletByName", ctx, "checking").Return(existing, nil).Once()

	_, err := suite.service.CreateWallet(ctx, "checking", money.MustValue("0", money.EUR))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.walletRepo.AssertNotCalled(suite.T(), "SaveWallet", mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestGetBalance() {
	ctx := context.Background()
	wallet := testWallet("100.00", money.EUR)
	txns := []domain.Transaction{
		testTransaction(wallet.WalletID, "50.00", money.EUR),
		testTransaction(wallet.WalletID, "-20.00", money.EUR),
	}

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil).Once()
	suite.txnRepo.On("ListTransactionsByWallet", ctx, wallet.WalletID).Return(txns, nil).Once()

	balance, err := suite.service.GetBalance(ctx, wallet.WalletID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(money.MustValue("130.00", money.EUR)), "got %s", balance)
}

func (suite *WalletServiceTestSuite) TestGetBalance_EmptyWallet() {
	ctx := context.Background()
	wallet := testWallet("-12.50", money.USD)

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil).Once()
	suite.txnRepo.On("ListTransactionsByWallet", ctx, wallet.WalletID).Return([]domain.Transaction{}, nil).Once()

	balance, err := suite.service.GetBalance(ctx, wallet.WalletID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(money.MustValue("-12.50", money.USD)))
}

func (suite *WalletServiceTestSuite) TestConvertWalletCurrency() {
	ctx := context.Background()
	wallet := testWallet("100.00", money.EUR)
	txns := []domain.Transaction{
		testTransaction(wallet.WalletID, "50.00", money.EUR),
		testTransaction(wallet.WalletID, "-20.00", money.EUR),
	}

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil).Once()
	suite.txnRepo.On("ListTransactionsByWallet", ctx, wallet.WalletID).Return(txns, nil).Once()

	var captured []ports.AmountUpdate
	var capturedStart string
	suite.walletRepo.On("RedenominateWallet", ctx, wallet.WalletID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).([]ports.AmountUpdate)
			capturedStart = args.Get(3).(string)
		}).Return(nil).Once()

	updated, err := suite.service.ConvertWalletCurrency(ctx, wallet.WalletID, money.USD)

	suite.Require().NoError(err)
	suite.Equal(money.USD, updated.Currency())
	suite.True(updated.StartingValue.Equal(money.MustValue("200", money.USD)))

	// Transaction updates are handed to the store first and in order, each
	// already expressed in the target currency.
	suite.Require().Len(captured, 2)
	suite.Equal(txns[0].TransactionID, captured[0].TransactionID)
	suite.Equal(txns[1].TransactionID, captured[1].TransactionID)
	for _, update := range captured {
		v, err := money.Deserialize(update.SerializedAmount)
		suite.Require().NoError(err)
		suite.Equal(money.USD, v.Currency)
	}
	first, _ := money.Deserialize(captured[0].SerializedAmount)
	suite.True(first.Equal(money.MustValue("100", money.USD)))

	start, err := money.Deserialize(capturedStart)
	suite.Require().NoError(err)
	suite.True(start.Equal(money.MustValue("200", money.USD)))

	suite.walletRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestConvertWalletCurrency_SameCurrencyIsNoop() {
	ctx := context.Background()
	wallet := testWallet("100.00", money.EUR)

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil).Once()

	updated, err := suite.service.ConvertWalletCurrency(ctx, wallet.WalletID, money.EUR)

	suite.Require().NoError(err)
	suite.Equal(money.EUR, updated.Currency())
	suite.walletRepo.AssertNotCalled(suite.T(), "RedenominateWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestConvertWalletCurrency_UnknownRateFailsBeforeWrite() {
	ctx := context.Background()
	wallet := testWallet("100.00", money.EUR)
	txns := []domain.Transaction{testTransaction(wallet.WalletID, "1", money.EUR)}

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil).Once()
	suite.txnRepo.On("ListTransactionsByWallet", ctx, wallet.WalletID).Return(txns, nil).Once()

	// NAD has no rate in the stub table.
	_, err := suite.service.ConvertWalletCurrency(ctx, wallet.WalletID, money.NAD)

	suite.Require().Error(err)
	suite.True(apperrors.IsConversionError(err))
	suite.walletRepo.AssertNotCalled(suite.T(), "RedenominateWallet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WalletServiceTestSuite) TestBalanceConservedUnderConversion() {
	ctx := context.Background()
	wallet := testWallet("100.00", money.EUR)
	txns := []domain.Transaction{
		testTransaction(wallet.WalletID, "50.00", money.EUR),
		testTransaction(wallet.WalletID, "-20.00", money.EUR),
	}

	suite.walletRepo.On("FindWalletByID", ctx, wallet.WalletID).Return(wallet, nil)
	suite.txnRepo.On("ListTransactionsByWallet", ctx, wallet.WalletID).Return(txns, nil).Twice()

	before, err := suite.service.GetBalance(ctx, wallet.WalletID)
	suite.Require().NoError(err)
	beforeInUSD, err := before.Convert(ctx, suite.converter, money.USD)
	suite.Require().NoError(err)

	var captured []ports.AmountUpdate
	suite.walletRepo.On("RedenominateWallet", ctx, wallet.WalletID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).([]ports.AmountUpdate) }).
		Return(nil).Once()

	updated, err := suite.service.ConvertWalletCurrency(ctx, wallet.WalletID, money.USD)
	suite.Require().NoError(err)

	// Rebuild the wallet's post-conversion state from what was persisted and
	// sum it the way GetBalance does.
	after := updated.StartingValue
	for _, update := range captured {
		v, err := money.Deserialize(update.SerializedAmount)
		suite.Require().NoError(err)
		after, err = after.Add(ctx, suite.converter, v)
		suite.Require().NoError(err)
	}

	suite.True(after.Equal(beforeInUSD), "balance before conversion %s, after %s", beforeInUSD, after)
}

func (suite *WalletServiceTestSuite) TestTransfer() {
	ctx := context.Background()
	source := testWallet("100.00", money.EUR)
	dest := testWallet("0", money.USD)
	dest.Name = "savings"

	suite.walletRepo.On("FindWalletByID", ctx, source.WalletID).Return(source, nil).Once()
	suite.walletRepo.On("FindWalletByID", ctx, dest.WalletID).Return(dest, nil).Once()

	var saved []domain.Transaction
	suite.txnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(domain.Transaction)) }).
		Return(nil).Twice()

	out, in, err := suite.service.Transfer(ctx, source.WalletID, dest.WalletID, money.MustValue("10", money.EUR), "")

	suite.Require().NoError(err)
	suite.True(out.Amount.Equal(money.MustValue("-10", money.EUR)))
	suite.True(in.Amount.Equal(money.MustValue("20", money.USD)))
	suite.Require().Len(saved, 2)
	suite.Equal(source.WalletID, saved[0].WalletID)
	suite.Equal(dest.WalletID, saved[1].WalletID)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestTransfer_RejectsSelfAndNonPositive() {
	ctx := context.Background()

	_, _, err := suite.service.Transfer(ctx, "w1", "w1", money.MustValue("10", money.EUR), "")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.Transfer(ctx, "w1", "w2", money.MustValue("0", money.EUR), "")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
