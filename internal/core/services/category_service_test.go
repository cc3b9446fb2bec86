package services_test

import (
	"context"
	"testing"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.CoaCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoaCategory), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.CoaCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoaCategory), args.Error(1)
}

func (m *MockCategoryRepository) CountChildren(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) CountAccounts(ctx context.Context, categoryID string) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.CoaCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.CoaCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

// --- Test Suite ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCategoryRepository
	service  portssvc.CategorySvcFacade
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCategoryRepository)
	suite.service = services.NewCategoryService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *CategoryServiceTestSuite) TestCreateCategory_RootLevelZero() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{
		Name:         "Assets",
		Code:         "1000",
		CategoryType: domain.Asset,
	}

	suite.mockRepo.On("SaveCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.Name == "Assets" && c.Code == "1000" && c.Level == 0 && c.ParentID == nil
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(0, category.Level)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_ChildLevelFromParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := &domain.CoaCategory{CategoryID: parentID, Level: 2}
	req := dto.CreateCategoryRequest{
		Name:         "Petty Cash",
		Code:         "1010",
		CategoryType: domain.Asset,
		ParentID:     &parentID,
	}

	suite.mockRepo.On("FindCategoryByID", ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.Level == 3 && c.ParentID != nil && *c.ParentID == parentID
	})).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(3, category.Level)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_MissingParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateCategoryRequest{
		Name:         "Orphan",
		Code:         "9999",
		CategoryType: domain.Expense,
		ParentID:     &parentID,
	}

	suite.mockRepo.On("FindCategoryByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	category, err := suite.service.CreateCategory(ctx, req)

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory")
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_OnlyNameAndCodeChange() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	parentID := uuid.NewString()
	existing := &domain.CoaCategory{
		CategoryID:   categoryID,
		ParentID:     &parentID,
		Name:         "Old",
		Code:         "2000",
		CategoryType: domain.Liability,
		Level:        1,
	}
	newName := "New"
	newCode := "2100"

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.Name == newName && c.Code == newCode && c.Level == 1 && c.ParentID != nil && *c.ParentID == parentID
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{Name: &newName, Code: &newCode})

	suite.Require().NoError(err)
	suite.Equal(newName, category.Name)
	suite.Equal(1, category.Level)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ReparentRecomputesLevel() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	oldParentID := uuid.NewString()
	newParentID := uuid.NewString()
	existing := &domain.CoaCategory{
		CategoryID:   categoryID,
		ParentID:     &oldParentID,
		Name:         "Office Supplies",
		Code:         "5200",
		CategoryType: domain.Expense,
		Level:        1,
	}

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, newParentID).
		Return(&domain.CoaCategory{CategoryID: newParentID, Level: 3}, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.ParentID != nil && *c.ParentID == newParentID && c.Level == 4
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{ParentID: &newParentID})

	suite.Require().NoError(err)
	suite.Equal(4, category.Level)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ReparentToRoot() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	oldParentID := uuid.NewString()
	existing := &domain.CoaCategory{
		CategoryID: categoryID,
		ParentID:   &oldParentID,
		Level:      2,
	}
	root := ""

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.ParentID == nil && c.Level == 0
	})).Return(nil).Once()

	category, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{ParentID: &root})

	suite.Require().NoError(err)
	suite.Nil(category.ParentID)
	suite.Equal(0, category.Level)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_SelfParent() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.CoaCategory{CategoryID: categoryID, Level: 1}, nil).Once()

	category, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{ParentID: &categoryID})

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCategory")
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_MissingParent() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	missingParentID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.CoaCategory{CategoryID: categoryID}, nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, missingParentID).
		Return(nil, apperrors.ErrNotFound).Once()

	category, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{ParentID: &missingParentID})

	suite.Require().Error(err)
	suite.Nil(category)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateCategory")
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_ReparentDoesNotCascade() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	newParentID := uuid.NewString()

	// The moved category has its own subtree; only the moved row is written.
	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).
		Return(&domain.CoaCategory{CategoryID: categoryID, Level: 1}, nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, newParentID).
		Return(&domain.CoaCategory{CategoryID: newParentID, Level: 0}, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.MatchedBy(func(c domain.CoaCategory) bool {
		return c.CategoryID == categoryID && c.Level == 1
	})).Return(nil).Once()

	_, err := suite.service.UpdateCategory(ctx, categoryID, dto.UpdateCategoryRequest{ParentID: &newParentID})

	suite.Require().NoError(err)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "UpdateCategory", 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_BlockedByChildren() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(&domain.CoaCategory{CategoryID: categoryID}, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, categoryID).Return(int64(2), nil).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCategory")
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_BlockedByAccounts() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(&domain.CoaCategory{CategoryID: categoryID}, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, categoryID).Return(int64(0), nil).Once()
	suite.mockRepo.On("CountAccounts", ctx, categoryID).Return(int64(1), nil).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCategory")
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_Success() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(&domain.CoaCategory{CategoryID: categoryID}, nil).Once()
	suite.mockRepo.On("CountChildren", ctx, categoryID).Return(int64(0), nil).Once()
	suite.mockRepo.On("CountAccounts", ctx, categoryID).Return(int64(0), nil).Once()
	suite.mockRepo.On("DeleteCategory", ctx, categoryID).Return(nil).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeleteCategory_NotFound() {
	ctx := context.Background()
	categoryID := uuid.NewString()

	suite.mockRepo.On("FindCategoryByID", ctx, categoryID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteCategory(ctx, categoryID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteCategory")
}

func TestCategoryService(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
