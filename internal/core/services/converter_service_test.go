package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/namboy94/papio/internal/apperrors"
	"github.com/namboy94/papio/internal/core/money"
	"github.com/namboy94/papio/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock rate sources ---

type MockFiatSource struct {
	mock.Mock
}

func (m *MockFiatSource) FetchRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

type MockCryptoSource struct {
	mock.Mock
}

func (m *MockCryptoSource) FetchPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) Load() (map[string]decimal.Decimal, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockRateCache) Store(rates map[string]decimal.Decimal) error {
	args := m.Called(rates)
	return args.Error(0)
}

// --- Test Suite ---

type ConverterServiceTestSuite struct {
	suite.Suite
	fiat   *MockFiatSource
	crypto *MockCryptoSource
}

func (suite *ConverterServiceTestSuite) SetupTest() {
	suite.fiat = new(MockFiatSource)
	suite.crypto = new(MockCryptoSource)
}

func (suite *ConverterServiceTestSuite) newConverter() *services.ConverterService {
	return services.NewConverterService(suite.fiat, suite.crypto, nil, time.Minute, slog.Default())
}

func rates(pairs map[string]string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs))
	for code, rate := range pairs {
		out[code] = decimal.RequireFromString(rate)
	}
	return out
}

func (suite *ConverterServiceTestSuite) TestIdentityConversion() {
	// No update, no rates: converting a currency into itself never touches
	// the table and returns the amount unchanged.
	conv := suite.newConverter()
	amount := decimal.RequireFromString("123.456789")

	got, err := conv.ConvertAmount(context.Background(), amount, money.BTC, money.BTC)

	suite.Require().NoError(err)
	suite.True(got.Equal(amount))
	suite.fiat.AssertNotCalled(suite.T(), "FetchRates", mock.Anything)
}

func (suite *ConverterServiceTestSuite) TestConvertWithLiveRates() {
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{
		"USD": "1.25", "ZAR": "20", "NAD": "20",
	}), nil).Once()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{
		"BTC": "10000",
	}), nil).Once()

	conv := suite.newConverter()
	ctx := context.Background()

	// 100 EUR at 1.25 USD per EUR.
	got, err := conv.ConvertAmount(ctx, decimal.RequireFromString("100"), money.EUR, money.USD)
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.RequireFromString("125")), "got %s", got)

	// 1 BTC priced at 10000 EUR converts back to 10000 EUR.
	got, err = conv.ConvertAmount(ctx, decimal.RequireFromString("1"), money.BTC, money.EUR)
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.RequireFromString("10000")), "got %s", got)

	suite.True(conv.Valid())
	suite.fiat.AssertExpectations(suite.T())
	suite.crypto.AssertExpectations(suite.T())
}

func (suite *ConverterServiceTestSuite) TestBaseCurrencyPinnedToOne() {
	// Even a provider that quotes the base currency cannot move its rate.
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{
		"EUR": "2", "USD": "2", "ZAR": "2", "NAD": "2",
	}), nil).Once()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{"BTC": "1"}), nil).Once()

	conv := suite.newConverter()
	conv.Update(context.Background(), true)

	suite.True(conv.Rates()["EUR"].Equal(decimal.NewFromInt(1)))
}

func (suite *ConverterServiceTestSuite) TestFallbackSubstitution() {
	// Live fetching is dead; the pre-seeded fallback supplies BTC's rate.
	suite.fiat.On("FetchRates", mock.Anything).Return(nil, assert.AnError)
	suite.crypto.On("FetchPrices", mock.Anything).Return(nil, assert.AnError)

	conv := suite.newConverter()
	conv.SetFallback(rates(map[string]string{"BTC": "100"}))
	conv.Update(context.Background(), true)

	// BTC's table rate is exactly 100, so 1 EUR buys 100 BTC.
	got, err := conv.ConvertAmount(context.Background(), decimal.NewFromInt(1), money.EUR, money.BTC)
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.NewFromInt(100)), "got %s", got)
}

func (suite *ConverterServiceTestSuite) TestConversionErrorOnUnknownPair() {
	suite.fiat.On("FetchRates", mock.Anything).Return(nil, assert.AnError)
	suite.crypto.On("FetchPrices", mock.Anything).Return(nil, assert.AnError)

	conv := suite.newConverter()

	_, err := conv.ConvertAmount(context.Background(), decimal.NewFromInt(5), money.USD, money.BTC)

	suite.Require().Error(err)
	suite.True(apperrors.IsConversionError(err))
	var convErr *apperrors.ConversionError
	suite.Require().ErrorAs(err, &convErr)
	suite.Equal("USD", convErr.Source)
	suite.Equal("BTC", convErr.Destination)
	suite.False(conv.Valid())
}

func (suite *ConverterServiceTestSuite) TestMissingCurrencyKeepsPreviousValue() {
	// First update delivers USD; the second one loses it. The stale value
	// must survive rather than being reset to a fabricated constant.
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{"USD": "1.5"}), nil).Once()
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{}), nil).Once()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{}), nil)

	conv := suite.newConverter()
	conv.Update(context.Background(), true)
	suite.True(conv.Rates()["USD"].Equal(decimal.RequireFromString("1.5")))

	conv.Update(context.Background(), true)
	suite.True(conv.Rates()["USD"].Equal(decimal.RequireFromString("1.5")))
	suite.fiat.AssertExpectations(suite.T())
}

func (suite *ConverterServiceTestSuite) TestFreshnessWindowSkipsRefetch() {
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{"USD": "1.25"}), nil).Once()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{"BTC": "10000"}), nil).Once()

	conv := suite.newConverter()
	ctx := context.Background()

	conv.Update(ctx, false)
	conv.Update(ctx, false) // within the window: no network I/O

	suite.fiat.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
	suite.crypto.AssertNumberOfCalls(suite.T(), "FetchPrices", 1)
}

func (suite *ConverterServiceTestSuite) TestForcedUpdateRefetches() {
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{"USD": "1.25"}), nil).Twice()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{"BTC": "10000"}), nil).Twice()

	conv := suite.newConverter()
	ctx := context.Background()

	conv.Update(ctx, false)
	conv.Update(ctx, true)

	suite.fiat.AssertExpectations(suite.T())
	suite.crypto.AssertExpectations(suite.T())
}

func (suite *ConverterServiceTestSuite) TestCacheRoundTrip() {
	cache := new(MockRateCache)
	cache.On("Load").Return(rates(map[string]string{"BTC": "250"}), nil).Once()
	cache.On("Store", mock.Anything).Return(nil)

	suite.fiat.On("FetchRates", mock.Anything).Return(nil, assert.AnError)
	suite.crypto.On("FetchPrices", mock.Anything).Return(nil, assert.AnError)

	conv := services.NewConverterService(suite.fiat, suite.crypto, cache, time.Minute, slog.Default())
	conv.Update(context.Background(), true)

	// The cached BTC rate survives a completely failed fetch and gets
	// snapshotted back into the cache file.
	suite.True(conv.Rates()["BTC"].Equal(decimal.NewFromInt(250)))
	cache.AssertCalled(suite.T(), "Store", mock.MatchedBy(func(m map[string]decimal.Decimal) bool {
		rate, ok := m["BTC"]
		return ok && rate.Equal(decimal.NewFromInt(250))
	}))

	got, err := conv.ConvertAmount(context.Background(), decimal.NewFromInt(500), money.BTC, money.EUR)
	suite.Require().NoError(err)
	suite.True(got.Equal(decimal.NewFromInt(2)), "got %s", got)
}

func (suite *ConverterServiceTestSuite) TestRepeatedConversionsDoNotDrift() {
	suite.fiat.On("FetchRates", mock.Anything).Return(rates(map[string]string{"USD": "1.17"}), nil).Once()
	suite.crypto.On("FetchPrices", mock.Anything).Return(rates(map[string]string{}), nil).Once()

	conv := suite.newConverter()
	ctx := context.Background()

	amount := decimal.RequireFromString("100.00")
	current := amount
	for i := 0; i < 50; i++ {
		usd, err := conv.ConvertAmount(ctx, current, money.EUR, money.USD)
		suite.Require().NoError(err)
		current, err = conv.ConvertAmount(ctx, usd, money.USD, money.EUR)
		suite.Require().NoError(err)
	}

	// Round-tripping at 128-digit intermediate precision stays exact at any
	// displayable precision.
	suite.Equal(amount.StringFixed(8), current.StringFixed(8))
}

func TestConverterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConverterServiceTestSuite))
}
