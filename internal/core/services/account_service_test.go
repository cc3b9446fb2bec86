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

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindCurrencyBalance(ctx context.Context, accountID, currencyID string) (*domain.AccountCurrencyBalance, error) {
	args := m.Called(ctx, accountID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountCurrencyBalance), args.Error(1)
}

func (m *MockAccountRepository) ListCurrencyBalances(ctx context.Context, accountID string) ([]domain.AccountCurrencyBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountCurrencyBalance), args.Error(1)
}

func (m *MockAccountRepository) SumTransactionTotals(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account, seed *domain.AccountCurrencyBalance) error {
	args := m.Called(ctx, account, seed)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateCurrentBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, accountID, balance, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, now time.Time) error {
	args := m.Called(ctx, accountID, now)
	return args.Error(0)
}

// --- Mock CurrencyRepository (account tests) ---
type MockCurrencyRepository2 struct {
	MockCurrencyRepository
}

// --- Mock CategoryRepository (account tests) ---
type MockCategoryRepository2 struct {
	MockCategoryRepository
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository2
	mockCategoryRepo *MockCategoryRepository2
	service          portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCurrencyRepo = new(MockCurrencyRepository2)
	suite.mockCategoryRepo = new(MockCategoryRepository2)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockCurrencyRepo, suite.mockCategoryRepo)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_SeedsCurrencyBalance() {
	ctx := context.Background()
	currencyID := "USD"
	req := dto.CreateAccountRequest{
		Name:           "Cash Drawer",
		AccountType:    "cash",
		CurrencyID:     &currencyID,
		InitialBalance: decimal.NewFromInt(500),
	}

	suite.mockCurrencyRepo.On("FindCurrencyByID", ctx, "USD").Return(&domain.Currency{CurrencyID: "USD"}, nil).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Cash Drawer" &&
			a.InitialBalance.Equal(decimal.NewFromInt(500)) &&
			a.CurrentBalance.Equal(decimal.NewFromInt(500)) &&
			a.IsActive
	}), mock.MatchedBy(func(seed *domain.AccountCurrencyBalance) bool {
		return seed != nil && seed.CurrencyID == "USD" && seed.Balance.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.True(account.CurrentBalance.Equal(req.InitialBalance))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NoCurrencyNoSeed() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:        "Multi Currency Wallet",
		AccountType: "wallet",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account"), (*domain.AccountCurrencyBalance)(nil)).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.NotNil(account)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByID")
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeInitialBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Name:           "Bad",
		AccountType:    "cash",
		InitialBalance: decimal.NewFromInt(-1),
	}

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	currencyID := "XXX"
	req := dto.CreateAccountRequest{
		Name:        "Bad",
		AccountType: "cash",
		CurrencyID:  &currencyID,
	}

	suite.mockCurrencyRepo.On("FindCurrencyByID", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestRecomputeBalance_DerivesFromLog() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		InitialBalance: decimal.NewFromInt(100),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("SumTransactionTotals", ctx, accountID).
		Return(decimal.NewFromInt(250), decimal.NewFromInt(80), nil).Once()
	suite.mockAccountRepo.On("UpdateCurrentBalance", ctx, accountID,
		mock.MatchedBy(func(b decimal.Decimal) bool { return b.Equal(decimal.NewFromInt(270)) }),
		mock.AnythingOfType("time.Time")).Return(nil).Once()

	balance, err := suite.service.RecomputeBalance(ctx, accountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(270)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_BalanceRecomputedNotTrusted() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID:      accountID,
		Name:           "Cash",
		InitialBalance: decimal.NewFromInt(100),
		CurrentBalance: decimal.NewFromInt(9999),
	}
	newInitial := decimal.NewFromInt(200)

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("SumTransactionTotals", ctx, accountID).
		Return(decimal.NewFromInt(50), decimal.NewFromInt(20), nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.InitialBalance.Equal(newInitial) && a.CurrentBalance.Equal(decimal.NewFromInt(230))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{InitialBalance: &newInitial})

	suite.Require().NoError(err)
	suite.True(updated.CurrentBalance.Equal(decimal.NewFromInt(230)))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetCurrencyBalances_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	balances, err := suite.service.GetCurrencyBalances(ctx, accountID)

	suite.Require().Error(err)
	suite.Nil(balances)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "ListCurrencyBalances")
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&domain.Account{AccountID: accountID}, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, accountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	ctx := context.Background()

	suite.mockAccountRepo.On("ListAccounts", ctx, 20, 0).Return([]domain.Account{}, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, 0, 0)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
