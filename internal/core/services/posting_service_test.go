package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalWriter service ---
type MockJournalWriterService struct {
	mock.Mock
}

var _ portssvc.JournalWriterSvc = (*MockJournalWriterService)(nil)

func (m *MockJournalWriterService) PostEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalWriterService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Test Suite ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalSvc  *MockJournalWriterService
	mockRateSvc     *MockRateService
	mockCurrencySvc *MockCurrencyService
	roleMap         domain.AccountRoleMap
	service         portssvc.PostingSvcFacade
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalSvc = new(MockJournalWriterService)
	suite.mockRateSvc = new(MockRateService)
	suite.mockCurrencySvc = new(MockCurrencyService)
	suite.roleMap = domain.AccountRoleMap{
		domain.RoleCash:       "acc-cash",
		domain.RoleReceivable: "acc-receivable",
		domain.RolePayable:    "acc-payable",
		domain.RoleRevenue:    "acc-revenue",
		domain.RoleExpense:    "acc-expense",
	}
	suite.service = services.NewPostingService(suite.mockJournalSvc, suite.mockRateSvc, suite.mockCurrencySvc, suite.roleMap)
}

func lineFor(req dto.CreateEntryRequest, accountID string) *dto.CreateEntryLineRequest {
	for i := range req.Lines {
		if req.Lines[i].AccountID == accountID {
			return &req.Lines[i]
		}
	}
	return nil
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestRecordSale_PartiallyPaidSplitsDebits() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			if req.ReferenceType == nil || *req.ReferenceType != "SALE" || len(req.Lines) != 3 {
				return false
			}
			cash := lineFor(req, "acc-cash")
			receivable := lineFor(req, "acc-receivable")
			revenue := lineFor(req, "acc-revenue")
			return cash != nil && cash.DebitAmount.Equal(decimal.NewFromInt(400)) &&
				receivable != nil && receivable.DebitAmount.Equal(decimal.NewFromInt(600)) &&
				revenue != nil && revenue.CreditAmount.Equal(decimal.NewFromInt(1000))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	entry, err := suite.service.RecordSale(ctx, dto.SalePostingRequest{
		SaleID:       uuid.NewString(),
		TotalAmount:  decimal.NewFromInt(1000),
		PaidAmount:   decimal.NewFromInt(400),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		SaleDate:     time.Now(),
	})

	suite.Require().NoError(err)
	suite.NotNil(entry)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordSale_FullyPaidHasNoReceivableLine() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			return len(req.Lines) == 2 &&
				lineFor(req, "acc-receivable") == nil &&
				lineFor(req, "acc-cash") != nil &&
				lineFor(req, "acc-revenue") != nil
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordSale(ctx, dto.SalePostingRequest{
		SaleID:       uuid.NewString(),
		TotalAmount:  decimal.NewFromInt(250),
		PaidAmount:   decimal.NewFromInt(250),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		SaleDate:     time.Now(),
	})

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordSale_PaidExceedsTotal() {
	ctx := context.Background()

	entry, err := suite.service.RecordSale(ctx, dto.SalePostingRequest{
		SaleID:      uuid.NewString(),
		TotalAmount: decimal.NewFromInt(100),
		PaidAmount:  decimal.NewFromInt(150),
		CurrencyID:  "USD",
		SaleDate:    time.Now(),
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *PostingServiceTestSuite) TestRecordSale_RevenueRoleUnmapped() {
	ctx := context.Background()
	service := services.NewPostingService(suite.mockJournalSvc, suite.mockRateSvc, suite.mockCurrencySvc,
		domain.AccountRoleMap{domain.RoleCash: "acc-cash"})

	entry, err := service.RecordSale(ctx, dto.SalePostingRequest{
		SaleID:      uuid.NewString(),
		TotalAmount: decimal.NewFromInt(100),
		CurrencyID:  "USD",
		SaleDate:    time.Now(),
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrRoleUnmapped)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *PostingServiceTestSuite) TestRecordSale_ResolvesRateAsOfSaleDate() {
	ctx := context.Background()
	saleDate := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	suite.mockCurrencySvc.On("GetBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyID: "USD", IsBase: true}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", mock.Anything, "EUR", "USD",
		mock.MatchedBy(func(date *time.Time) bool { return date != nil && date.Equal(saleDate) })).
		Return(decimal.NewFromFloat(1.1), nil).Once()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			revenue := lineFor(req, "acc-revenue")
			return revenue != nil && revenue.ExchangeRate.Equal(decimal.NewFromFloat(1.1))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordSale(ctx, dto.SalePostingRequest{
		SaleID:      uuid.NewString(),
		TotalAmount: decimal.NewFromInt(500),
		CurrencyID:  "EUR",
		SaleDate:    saleDate,
	})

	suite.Require().NoError(err)
	suite.mockRateSvc.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordPurchase_PartiallyPaidSplitsCredits() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			if req.ReferenceType == nil || *req.ReferenceType != "PURCHASE" || len(req.Lines) != 3 {
				return false
			}
			expense := lineFor(req, "acc-expense")
			cash := lineFor(req, "acc-cash")
			payable := lineFor(req, "acc-payable")
			return expense != nil && expense.DebitAmount.Equal(decimal.NewFromInt(800)) &&
				cash != nil && cash.CreditAmount.Equal(decimal.NewFromInt(300)) &&
				payable != nil && payable.CreditAmount.Equal(decimal.NewFromInt(500))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordPurchase(ctx, dto.PurchasePostingRequest{
		PurchaseID:   uuid.NewString(),
		TotalAmount:  decimal.NewFromInt(800),
		PaidAmount:   decimal.NewFromInt(300),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		PurchaseDate: time.Now(),
	})

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordPurchase_UnpaidGoesFullyToPayable() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			payable := lineFor(req, "acc-payable")
			return len(req.Lines) == 2 &&
				lineFor(req, "acc-cash") == nil &&
				payable != nil && payable.CreditAmount.Equal(decimal.NewFromInt(800))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordPurchase(ctx, dto.PurchasePostingRequest{
		PurchaseID:   uuid.NewString(),
		TotalAmount:  decimal.NewFromInt(800),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		PurchaseDate: time.Now(),
	})

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordPayment_IncomingSettlesReceivable() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			if req.ReferenceType == nil || *req.ReferenceType != "PAYMENT" || len(req.Lines) != 2 {
				return false
			}
			cash := lineFor(req, "acc-cash")
			receivable := lineFor(req, "acc-receivable")
			return cash != nil && cash.DebitAmount.Equal(decimal.NewFromInt(150)) &&
				receivable != nil && receivable.CreditAmount.Equal(decimal.NewFromInt(150))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordPayment(ctx, dto.PaymentPostingRequest{
		PaymentID:    uuid.NewString(),
		Direction:    dto.PaymentIncoming,
		Amount:       decimal.NewFromInt(150),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		PaymentDate:  time.Now(),
	})

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordPayment_OutgoingSettlesPayable() {
	ctx := context.Background()

	suite.mockJournalSvc.On("PostEntry", mock.Anything,
		mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
			payable := lineFor(req, "acc-payable")
			cash := lineFor(req, "acc-cash")
			return payable != nil && payable.DebitAmount.Equal(decimal.NewFromInt(90)) &&
				cash != nil && cash.CreditAmount.Equal(decimal.NewFromInt(90))
		})).Return(&domain.JournalEntry{EntryID: uuid.NewString()}, nil).Once()

	_, err := suite.service.RecordPayment(ctx, dto.PaymentPostingRequest{
		PaymentID:    uuid.NewString(),
		Direction:    dto.PaymentOutgoing,
		Amount:       decimal.NewFromInt(90),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		PaymentDate:  time.Now(),
	})

	suite.Require().NoError(err)
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestRecordPayment_UnknownDirection() {
	ctx := context.Background()

	entry, err := suite.service.RecordPayment(ctx, dto.PaymentPostingRequest{
		PaymentID:    uuid.NewString(),
		Direction:    "SIDEWAYS",
		Amount:       decimal.NewFromInt(10),
		CurrencyID:   "USD",
		ExchangeRate: decimal.NewFromInt(1),
		PaymentDate:  time.Now(),
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalSvc.AssertNotCalled(suite.T(), "PostEntry")
}

func (suite *PostingServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()

	entry, err := suite.service.RecordPayment(ctx, dto.PaymentPostingRequest{
		PaymentID:   uuid.NewString(),
		Direction:   dto.PaymentIncoming,
		Amount:      decimal.Zero,
		CurrencyID:  "USD",
		PaymentDate: time.Now(),
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
