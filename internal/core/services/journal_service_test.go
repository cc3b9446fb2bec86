package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) SumLineAmounts(ctx context.Context, accountID, currencyID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, currencyID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[domain.BalanceKey]decimal.Decimal) (string, error) {
	args := m.Called(ctx, entry, balanceChanges)
	return args.String(0), args.Error(1)
}

func (m *MockJournalRepository) ReplaceEntryLines(ctx context.Context, entry domain.JournalEntry, newLines []domain.JournalEntryLine, balanceChanges map[domain.BalanceKey]decimal.Decimal, mirrors []domain.AccountTransaction) error {
	args := m.Called(ctx, entry, newLines, balanceChanges, mirrors)
	return args.Error(0)
}

// --- Mock ExchangeRate service ---
type MockRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateReaderSvc = (*MockRateService)(nil)

func (m *MockRateService) ResolveRate(ctx context.Context, fromCurrencyID, toCurrencyID string, date *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrencyID, toCurrencyID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateService) GetRateHistory(ctx context.Context, fromCurrencyID, toCurrencyID string) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyID, toCurrencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Test Suite ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	mockRateSvc      *MockRateService
	service          portssvc.JournalSvcFacade
	accountA         string
	accountB         string
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.mockRateSvc = new(MockRateService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockCurrencyRepo, suite.mockRateSvc)
	suite.accountA = uuid.NewString()
	suite.accountB = uuid.NewString()
}

func (suite *JournalServiceTestSuite) expectLineAccounts(ids ...string) {
	accounts := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		accounts[id] = domain.Account{AccountID: id}
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.Anything).Return(accounts, nil).Once()
}

func (suite *JournalServiceTestSuite) expectCurrencyUSD() {
	suite.mockCurrencyRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyID: "USD", Name: "USD", IsBase: true}, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByID", mock.Anything, "USD").
		Return(&domain.Currency{CurrencyID: "USD", Name: "USD", IsBase: true}, nil)
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestPostEntry_AppliesPerLineEffects() {
	ctx := context.Background()
	suite.expectLineAccounts(suite.accountA, suite.accountB)
	suite.expectCurrencyUSD()

	keyA := domain.BalanceKey{AccountID: suite.accountA, CurrencyID: "USD"}
	keyB := domain.BalanceKey{AccountID: suite.accountB, CurrencyID: "USD"}
	suite.mockJournalRepo.On("SaveEntry", ctx,
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return len(entry.Lines) == 2 && entry.Description == "office rent"
		}),
		mock.MatchedBy(func(changes map[domain.BalanceKey]decimal.Decimal) bool {
			return len(changes) == 2 &&
				changes[keyA].Equal(decimal.NewFromInt(100)) &&
				changes[keyB].Equal(decimal.NewFromInt(-100))
		})).Return("J000042", nil).Once()

	entry, err := suite.service.PostEntry(ctx, dto.CreateEntryRequest{
		EntryDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "office rent",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "USD", DebitAmount: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
			{AccountID: suite.accountB, CurrencyID: "USD", CreditAmount: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
		},
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("J000042", entry.EntryNumber)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_UnbalancedEntryAllowed() {
	ctx := context.Background()
	suite.expectLineAccounts(suite.accountA, suite.accountB)
	suite.expectCurrencyUSD()

	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything,
		mock.MatchedBy(func(changes map[domain.BalanceKey]decimal.Decimal) bool {
			keyA := domain.BalanceKey{AccountID: suite.accountA, CurrencyID: "USD"}
			keyB := domain.BalanceKey{AccountID: suite.accountB, CurrencyID: "USD"}
			return changes[keyA].Equal(decimal.NewFromInt(100)) &&
				changes[keyB].Equal(decimal.NewFromInt(-40))
		})).Return("J000043", nil).Once()

	entry, err := suite.service.PostEntry(ctx, dto.CreateEntryRequest{
		EntryDate: time.Now(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "USD", DebitAmount: decimal.NewFromInt(100), ExchangeRate: decimal.NewFromInt(1)},
			{AccountID: suite.accountB, CurrencyID: "USD", CreditAmount: decimal.NewFromInt(40), ExchangeRate: decimal.NewFromInt(1)},
		},
	})

	suite.Require().NoError(err)
	suite.NotNil(entry)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_NoLines() {
	ctx := context.Background()

	entry, err := suite.service.PostEntry(ctx, dto.CreateEntryRequest{EntryDate: time.Now()})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *JournalServiceTestSuite) TestPostEntry_LineWithNoAmount() {
	ctx := context.Background()
	suite.expectLineAccounts(suite.accountA)
	suite.mockCurrencyRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyID: "USD"}, nil).Once()

	entry, err := suite.service.PostEntry(ctx, dto.CreateEntryRequest{
		EntryDate: time.Now(),
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "USD"},
		},
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry")
}

func (suite *JournalServiceTestSuite) TestPostEntry_ResolvesMissingRate() {
	ctx := context.Background()
	entryDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	suite.expectLineAccounts(suite.accountA)
	suite.mockCurrencyRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyID: "USD", IsBase: true}, nil).Once()
	suite.mockCurrencyRepo.On("FindCurrencyByID", mock.Anything, "INR").
		Return(&domain.Currency{CurrencyID: "INR", Name: "INR"}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", mock.Anything, "INR", "USD",
		mock.MatchedBy(func(date *time.Time) bool { return date != nil && date.Equal(entryDate) })).
		Return(decimal.NewFromFloat(0.012), nil).Once()

	suite.mockJournalRepo.On("SaveEntry", ctx,
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			line := entry.Lines[0]
			return line.ExchangeRate.Equal(decimal.NewFromFloat(0.012)) &&
				line.BaseAmount.Equal(decimal.NewFromInt(1000).Mul(decimal.NewFromFloat(0.012)))
		}),
		mock.Anything).Return("J000044", nil).Once()

	entry, err := suite.service.PostEntry(ctx, dto.CreateEntryRequest{
		EntryDate: entryDate,
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "INR", DebitAmount: decimal.NewFromInt(1000)},
		},
	})

	suite.Require().NoError(err)
	suite.NotNil(entry)
	suite.mockRateSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_ReversesOldAndAppliesNew() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entryDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).
		Return(&domain.JournalEntry{EntryID: entryID, EntryDate: entryDate}, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entryID).
		Return([]domain.JournalEntryLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.accountA, CurrencyID: "USD", DebitAmount: decimal.NewFromInt(100)},
		}, nil).Once()

	suite.expectLineAccounts(suite.accountA)
	suite.expectCurrencyUSD()

	keyA := domain.BalanceKey{AccountID: suite.accountA, CurrencyID: "USD"}
	suite.mockJournalRepo.On("ReplaceEntryLines", ctx,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.MatchedBy(func(newLines []domain.JournalEntryLine) bool {
			return len(newLines) == 1 && newLines[0].DebitAmount.Equal(decimal.NewFromInt(60))
		}),
		// -100 from the old line plus +60 from the new one.
		mock.MatchedBy(func(changes map[domain.BalanceKey]decimal.Decimal) bool {
			return len(changes) == 1 && changes[keyA].Equal(decimal.NewFromInt(-40))
		}),
		mock.MatchedBy(func(mirrors []domain.AccountTransaction) bool {
			return len(mirrors) == 1 &&
				mirrors[0].TransactionType == domain.Deposit &&
				mirrors[0].Amount.Equal(decimal.NewFromInt(60)) &&
				mirrors[0].CurrencyName == "USD"
		})).Return(nil).Once()

	entry, err := suite.service.UpdateEntry(ctx, entryID, dto.UpdateEntryRequest{
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "USD", DebitAmount: decimal.NewFromInt(60), ExchangeRate: decimal.NewFromInt(1)},
		},
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Len(entry.Lines, 1)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_CreditLineMirrorsWithdraw() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).
		Return(&domain.JournalEntry{EntryID: entryID, EntryDate: time.Now()}, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entryID).
		Return([]domain.JournalEntryLine{}, nil).Once()

	suite.expectLineAccounts(suite.accountB)
	suite.expectCurrencyUSD()

	suite.mockJournalRepo.On("ReplaceEntryLines", ctx, mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(mirrors []domain.AccountTransaction) bool {
			return len(mirrors) == 1 &&
				mirrors[0].TransactionType == domain.Withdraw &&
				mirrors[0].Amount.Equal(decimal.NewFromInt(25))
		})).Return(nil).Once()

	_, err := suite.service.UpdateEntry(ctx, entryID, dto.UpdateEntryRequest{
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountB, CurrencyID: "USD", CreditAmount: decimal.NewFromInt(25), ExchangeRate: decimal.NewFromInt(1)},
		},
	})

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_NotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entryID).
		Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.UpdateEntry(ctx, entryID, dto.UpdateEntryRequest{
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.accountA, CurrencyID: "USD", DebitAmount: decimal.NewFromInt(1), ExchangeRate: decimal.NewFromInt(1)},
		},
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestReconcile_WithinTolerance() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.accountA).
		Return(&domain.Account{AccountID: suite.accountA}, nil).Once()
	suite.mockAccountRepo.On("FindCurrencyBalance", mock.Anything, suite.accountA, "USD").
		Return(&domain.AccountCurrencyBalance{AccountID: suite.accountA, CurrencyID: "USD", Balance: decimal.NewFromFloat(100.009)}, nil).Once()
	suite.mockJournalRepo.On("SumLineAmounts", mock.Anything, suite.accountA, "USD").
		Return(decimal.NewFromInt(100), decimal.Zero, nil).Once()

	rec, err := suite.service.Reconcile(ctx, suite.accountA, "USD")

	suite.Require().NoError(err)
	suite.True(rec.IsBalanced)
	suite.True(rec.Difference.Equal(decimal.NewFromFloat(0.009)))
}

func (suite *JournalServiceTestSuite) TestReconcile_OutsideTolerance() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.accountA).
		Return(&domain.Account{AccountID: suite.accountA}, nil).Once()
	suite.mockAccountRepo.On("FindCurrencyBalance", mock.Anything, suite.accountA, "USD").
		Return(&domain.AccountCurrencyBalance{AccountID: suite.accountA, CurrencyID: "USD", Balance: decimal.NewFromFloat(100.011)}, nil).Once()
	suite.mockJournalRepo.On("SumLineAmounts", mock.Anything, suite.accountA, "USD").
		Return(decimal.NewFromInt(100), decimal.Zero, nil).Once()

	rec, err := suite.service.Reconcile(ctx, suite.accountA, "USD")

	suite.Require().NoError(err)
	suite.False(rec.IsBalanced)
}

func (suite *JournalServiceTestSuite) TestReconcile_MissingBalanceRowCountsAsZero() {
	ctx := context.Background()

	suite.mockAccountRepo.On("FindAccountByID", mock.Anything, suite.accountA).
		Return(&domain.Account{AccountID: suite.accountA}, nil).Once()
	suite.mockAccountRepo.On("FindCurrencyBalance", mock.Anything, suite.accountA, "EUR").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockJournalRepo.On("SumLineAmounts", mock.Anything, suite.accountA, "EUR").
		Return(decimal.NewFromInt(30), decimal.NewFromInt(10), nil).Once()

	rec, err := suite.service.Reconcile(ctx, suite.accountA, "EUR")

	suite.Require().NoError(err)
	suite.True(rec.AccountBalance.IsZero())
	suite.True(rec.JournalBalance.Equal(decimal.NewFromInt(20)))
	suite.True(rec.Difference.Equal(decimal.NewFromInt(-20)))
	suite.False(rec.IsBalanced)
}

func (suite *JournalServiceTestSuite) TestListEntries_DefaultsLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", mock.Anything, 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	page, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.NotNil(page)
	suite.Empty(page.Entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
