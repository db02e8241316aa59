package services_test

import (
	"resep/internal/models"
	"resep/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	args := m.Called(recipe, ingredients, tags)
	return args.Error(0)
}

func (m *MockRecipeRepository) Replace(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	args := m.Called(recipe, ingredients, tags)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(id uint) (*models.Recipe, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) List(filter repositories.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ListByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	args := m.Called(authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthor(authorID uint) (int64, error) {
	args := m.Called(authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCatalogRepository is a mock implementation of repositories.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SearchIngredients(namePrefix string) ([]models.Ingredient, error) {
	args := m.Called(namePrefix)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) GetIngredientByID(id uint) (*models.Ingredient, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	args := m.Called(ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogRepository) CreateIngredients(ingredients []models.Ingredient) error {
	args := m.Called(ingredients)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetAllTags() ([]models.Tag, error) {
	args := m.Called()
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) GetTagByID(id uint) (*models.Tag, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) GetTagsByIDs(ids []uint) ([]models.Tag, error) {
	args := m.Called(ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) CreateTags(tags []models.Tag) error {
	args := m.Called(tags)
	return args.Error(0)
}
