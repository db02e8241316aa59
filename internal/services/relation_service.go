package services

import (
	"fmt"

	"resep/internal/models"
	"resep/internal/repositories"
)

// RelationService handles the user-to-target pair relations that share
// one contract: favorite, shopping cart, and subscription. Create is
// create-or-conflict, delete is delete-or-missing, and the conflict
// detection rides on the storage-level unique constraints so that
// concurrent toggles stay race-safe.
type RelationService struct {
	relationRepo repositories.RelationRepository
	recipeRepo   repositories.RecipeRepository
	userRepo     repositories.UserRepository
	renderer     ShoppingListRenderer
}

// NewRelationService creates a new RelationService.
func NewRelationService(
	relationRepo repositories.RelationRepository,
	recipeRepo repositories.RecipeRepository,
	userRepo repositories.UserRepository,
	renderer ShoppingListRenderer,
) *RelationService {
	return &RelationService{
		relationRepo: relationRepo,
		recipeRepo:   recipeRepo,
		userRepo:     userRepo,
		renderer:     renderer,
	}
}

// AddFavorite favorites a recipe for the user and returns its summary.
func (s *RelationService) AddFavorite(userID, recipeID uint) (*RecipeSummary, error) {
	return s.addRecipeRelation(repositories.RelationFavorite, userID, recipeID,
		"recipe is already in favorites")
}

// RemoveFavorite un-favorites a recipe. Removing an absent favorite is
// a reported NotFound, not a silent success.
func (s *RelationService) RemoveFavorite(userID, recipeID uint) error {
	return s.removeRelation(repositories.RelationFavorite, userID, recipeID,
		"recipe is not in favorites")
}

// AddToCart puts a recipe in the user's shopping cart and returns its
// summary.
func (s *RelationService) AddToCart(userID, recipeID uint) (*RecipeSummary, error) {
	return s.addRecipeRelation(repositories.RelationShoppingCart, userID, recipeID,
		"recipe is already in shopping cart")
}

// RemoveFromCart takes a recipe out of the user's shopping cart.
func (s *RelationService) RemoveFromCart(userID, recipeID uint) error {
	return s.removeRelation(repositories.RelationShoppingCart, userID, recipeID,
		"recipe is not in shopping cart")
}

// Subscribe subscribes the user to an author and returns the author's
// profile with their recipes. Self-subscription is rejected before the
// uniqueness path with its own message.
func (s *RelationService) Subscribe(subscriberID, authorID uint, recipesLimit int) (*AuthorWithRecipes, error) {
	author, err := s.userRepo.GetByID(authorID)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("user %d not found", authorID), "")
	}
	if subscriberID == authorID {
		return nil, fmt.Errorf("%w: cannot subscribe to yourself", ErrValidation)
	}
	if err := s.relationRepo.Create(repositories.RelationSubscription, subscriberID, authorID); err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("user %d not found", authorID),
			"already subscribed to this author")
	}
	return s.authorWithRecipes(author, true, recipesLimit)
}

// Unsubscribe removes the subscription.
func (s *RelationService) Unsubscribe(subscriberID, authorID uint) error {
	if _, err := s.userRepo.GetByID(authorID); err != nil {
		return translateStoreError(err, fmt.Sprintf("user %d not found", authorID), "")
	}
	if err := s.relationRepo.Delete(repositories.RelationSubscription, subscriberID, authorID); err != nil {
		return translateStoreError(err, "subscription does not exist", "")
	}
	return nil
}

// Subscriptions lists the authors the user follows, each with their
// recipes.
func (s *RelationService) Subscriptions(subscriberID uint, recipesLimit int) ([]AuthorWithRecipes, error) {
	authors, err := s.relationRepo.ListSubscribedAuthors(subscriberID)
	if err != nil {
		return nil, err
	}
	result := make([]AuthorWithRecipes, 0, len(authors))
	for i := range authors {
		entry, err := s.authorWithRecipes(&authors[i], true, recipesLimit)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, nil
}

// GetProfile retrieves a user profile with the is_subscribed flag
// computed for the viewer. A viewer of 0 denotes an unauthenticated
// request.
func (s *RelationService) GetProfile(viewerID, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("user %d not found", userID), "")
	}
	isSubscribed := false
	if viewerID != 0 && viewerID != userID {
		if isSubscribed, err = s.relationRepo.Exists(repositories.RelationSubscription, viewerID, userID); err != nil {
			return nil, err
		}
	}
	resp := profile(user, isSubscribed)
	return &resp, nil
}

// BuildShoppingList aggregates the user's cart into one row per
// distinct ingredient, amounts summed, ordered by ingredient name.
func (s *RelationService) BuildShoppingList(userID uint) ([]repositories.ShoppingListRow, error) {
	return s.relationRepo.SumCartIngredients(userID)
}

// RenderShoppingList aggregates the user's cart and hands the rows to
// the configured renderer.
func (s *RelationService) RenderShoppingList(userID uint) ([]byte, error) {
	rows, err := s.BuildShoppingList(userID)
	if err != nil {
		return nil, err
	}
	if s.renderer == nil {
		return nil, fmt.Errorf("shopping list renderer is not configured")
	}
	return s.renderer.Render(rows)
}

func (s *RelationService) addRecipeRelation(kind repositories.RelationKind, userID, recipeID uint, conflictMsg string) (*RecipeSummary, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	if err := s.relationRepo.Create(kind, userID, recipeID); err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), conflictMsg)
	}
	resp := summary(recipe)
	return &resp, nil
}

func (s *RelationService) removeRelation(kind repositories.RelationKind, userID, recipeID uint, missingMsg string) error {
	if err := s.relationRepo.Delete(kind, userID, recipeID); err != nil {
		return translateStoreError(err, missingMsg, "")
	}
	return nil
}

func (s *RelationService) authorWithRecipes(author *models.User, isSubscribed bool, recipesLimit int) (*AuthorWithRecipes, error) {
	recipes, err := s.recipeRepo.ListByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, summary(&recipes[i]))
	}
	return &AuthorWithRecipes{
		UserResponse: profile(author, isSubscribed),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}
