package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"resep/internal/models"
	"resep/internal/repositories"

	"github.com/google/uuid"
)

// RecipeService handles business logic for recipes: the atomic
// create/replace of a recipe with its associations, authorization,
// filtered listings, and representation assembly.
type RecipeService struct {
	recipeRepo   repositories.RecipeRepository
	catalogRepo  repositories.CatalogRepository
	relationRepo repositories.RelationRepository
	userRepo     repositories.UserRepository
	assets       AssetStore
	events       EventPublisher
}

// NewRecipeService creates a new RecipeService. The asset store and
// event publisher may be nil; image handling and event publishing are
// then skipped.
func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	catalogRepo repositories.CatalogRepository,
	relationRepo repositories.RelationRepository,
	userRepo repositories.UserRepository,
	assets AssetStore,
	events EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipeRepo:   recipeRepo,
		catalogRepo:  catalogRepo,
		relationRepo: relationRepo,
		userRepo:     userRepo,
		assets:       assets,
		events:       events,
	}
}

// CreateRecipe validates the input, stores the image, and commits the
// recipe row together with its ingredient and tag association rows in
// one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*RecipeResponse, error) {
	ingredients, tags, err := s.resolveAssociations(in)
	if err != nil {
		return nil, err
	}
	if in.Image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}

	imageRef, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        in.Name,
		Image:       imageRef,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	if err := s.recipeRepo.Create(recipe, ingredients, tags); err != nil {
		s.releaseImage(ctx, imageRef)
		return nil, err
	}

	s.publish("recipe.created", recipe)
	return s.GetRecipe(authorID, recipe.ID)
}

// UpdateRecipe replaces a recipe wholesale: scalar fields are updated,
// the old association rows are deleted and the new sets inserted, and
// the old image is released when a new one is supplied. Only the
// author or an administrator may update; other users get Forbidden.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID uint, in RecipeInput) (*RecipeResponse, error) {
	existing, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	if err := s.authorize(actorID, existing); err != nil {
		return nil, err
	}

	ingredients, tags, err := s.resolveAssociations(in)
	if err != nil {
		return nil, err
	}

	imageRef := existing.Image
	oldImage := ""
	if in.Image != "" {
		imageRef, err = s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		oldImage = existing.Image
	}

	recipe := &models.Recipe{
		ID:          recipeID,
		AuthorID:    existing.AuthorID,
		Name:        in.Name,
		Image:       imageRef,
		Text:        in.Text,
		CookingTime: in.CookingTime,
	}
	if err := s.recipeRepo.Replace(recipe, ingredients, tags); err != nil {
		if oldImage != "" {
			s.releaseImage(ctx, imageRef)
		}
		return nil, translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	if oldImage != "" {
		s.releaseImage(ctx, oldImage)
	}

	return s.GetRecipe(actorID, recipeID)
}

// DeleteRecipe deletes a recipe and releases its image. Only the
// author or an administrator may delete.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID uint) error {
	existing, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	if err := s.authorize(actorID, existing); err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(recipeID); err != nil {
		return translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	s.releaseImage(ctx, existing.Image)

	s.publish("recipe.deleted", existing)
	return nil
}

// GetRecipe retrieves a recipe with the is_favorited,
// is_in_shopping_cart and author is_subscribed flags computed for the
// viewer. A viewer of 0 denotes an unauthenticated request; all flags
// are then false.
func (s *RecipeService) GetRecipe(viewerID, recipeID uint) (*RecipeResponse, error) {
	recipe, err := s.recipeRepo.GetByID(recipeID)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("recipe %d not found", recipeID), "")
	}
	return s.buildResponse(viewerID, recipe)
}

// ListRecipes retrieves recipes matching the filter. The favorited and
// cart flags are silently ignored for unauthenticated viewers; an
// unauthenticated user has no favorites or cart by definition.
func (s *RecipeService) ListRecipes(viewerID uint, filter RecipeListFilter) ([]RecipeResponse, error) {
	repoFilter := repositories.RecipeFilter{
		AuthorID: filter.AuthorID,
		TagSlugs: filter.TagSlugs,
	}
	if viewerID != 0 {
		if filter.IsFavorited {
			repoFilter.FavoritedBy = viewerID
		}
		if filter.IsInShoppingCart {
			repoFilter.InCartOf = viewerID
		}
	}

	recipes, err := s.recipeRepo.List(repoFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.buildResponse(viewerID, &recipes[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// resolveAssociations validates the ingredient and tag references
// (no duplicates, all referenced rows exist) and builds the
// association rows for the write transaction.
func (s *RecipeService) resolveAssociations(in RecipeInput) ([]models.RecipeIngredient, []models.RecipeTag, error) {
	ingredientIDs := make([]uint, 0, len(in.Ingredients))
	seenIngredients := make(map[uint]bool, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if seenIngredients[ing.ID] {
			return nil, nil, fmt.Errorf("%w: ingredients: ingredient %d referenced more than once", ErrValidation, ing.ID)
		}
		seenIngredients[ing.ID] = true
		if ing.Amount < 1 {
			return nil, nil, fmt.Errorf("%w: ingredients: amount must be at least 1", ErrValidation)
		}
		ingredientIDs = append(ingredientIDs, ing.ID)
	}

	seenTags := make(map[uint]bool, len(in.Tags))
	for _, tagID := range in.Tags {
		if seenTags[tagID] {
			return nil, nil, fmt.Errorf("%w: tags: tag %d referenced more than once", ErrValidation, tagID)
		}
		seenTags[tagID] = true
	}

	if in.CookingTime < 1 {
		return nil, nil, fmt.Errorf("%w: cooking_time: must be at least 1", ErrValidation)
	}

	existingIngredients, err := s.catalogRepo.GetIngredientsByIDs(ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(existingIngredients) != len(ingredientIDs) {
		return nil, nil, fmt.Errorf("%w: ingredients: unknown ingredient referenced", ErrValidation)
	}

	existingTags, err := s.catalogRepo.GetTagsByIDs(in.Tags)
	if err != nil {
		return nil, nil, err
	}
	if len(existingTags) != len(in.Tags) {
		return nil, nil, fmt.Errorf("%w: tags: unknown tag referenced", ErrValidation)
	}

	ingredientRows := make([]models.RecipeIngredient, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ingredientRows = append(ingredientRows, models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		})
	}
	tagRows := make([]models.RecipeTag, 0, len(in.Tags))
	for _, tagID := range in.Tags {
		tagRows = append(tagRows, models.RecipeTag{TagID: tagID})
	}
	return ingredientRows, tagRows, nil
}

func (s *RecipeService) authorize(actorID uint, recipe *models.Recipe) error {
	if recipe.AuthorID == actorID {
		return nil
	}
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return translateStoreError(err, fmt.Sprintf("user %d not found", actorID), "")
	}
	if actor.Role == models.RoleAdmin {
		return nil
	}
	return fmt.Errorf("%w: only the author may modify this recipe", ErrForbidden)
}

func (s *RecipeService) buildResponse(viewerID uint, recipe *models.Recipe) (*RecipeResponse, error) {
	isFavorited := false
	isInCart := false
	isSubscribed := false
	if viewerID != 0 {
		var err error
		if isFavorited, err = s.relationRepo.Exists(repositories.RelationFavorite, viewerID, recipe.ID); err != nil {
			return nil, err
		}
		if isInCart, err = s.relationRepo.Exists(repositories.RelationShoppingCart, viewerID, recipe.ID); err != nil {
			return nil, err
		}
		if isSubscribed, err = s.relationRepo.Exists(repositories.RelationSubscription, viewerID, recipe.AuthorID); err != nil {
			return nil, err
		}
	}

	author := recipe.Author
	if author == nil {
		var err error
		author, err = s.userRepo.GetByID(recipe.AuthorID)
		if err != nil {
			return nil, translateStoreError(err, fmt.Sprintf("user %d not found", recipe.AuthorID), "")
		}
	}

	ingredients := make([]IngredientInRecipe, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		item := IngredientInRecipe{
			ID:     row.IngredientID,
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	tags := make([]models.Tag, 0, len(recipe.Tags))
	for _, row := range recipe.Tags {
		if row.Tag != nil {
			tags = append(tags, *row.Tag)
		}
	}

	return &RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           profile(author, isSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}, nil
}

// storeImage decodes a base64 data URI and uploads it to the asset
// store, returning the stored reference.
func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if s.assets == nil {
		log.Println("Asset store is not configured. Skipping image upload.")
		return "", nil
	}

	key := "recipes/" + uuid.New().String() + extensionFor(contentType)
	ref, err := s.assets.Upload(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store recipe image: %w", err)
	}
	return ref, nil
}

func (s *RecipeService) releaseImage(ctx context.Context, ref string) {
	if s.assets == nil || ref == "" {
		return
	}
	if err := s.assets.Delete(ctx, ref); err != nil {
		// The recipe write already committed; a stale blob is not
		// worth failing the request over.
		log.Printf("Warning: failed to release image %s: %v", ref, err)
	}
}

func (s *RecipeService) publish(routingKey string, recipe *models.Recipe) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": recipe.AuthorID,
		"name":      recipe.Name,
	})
	if err != nil {
		log.Printf("Failed to marshal recipe event: %v", err)
		return
	}
	if err := s.events.PublishRecipeEvent(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for recipe %d: %v", routingKey, recipe.ID, err)
	}
}

// decodeDataURI splits a "data:<mime>;base64,<payload>" URI and
// decodes the payload. Bare base64 without the prefix is accepted and
// treated as PNG.
func decodeDataURI(dataURI string) (string, []byte, error) {
	contentType := "image/png"
	payload := dataURI
	if strings.HasPrefix(dataURI, "data:") {
		rest := strings.TrimPrefix(dataURI, "data:")
		mime, encoded, found := strings.Cut(rest, ";base64,")
		if !found {
			return "", nil, fmt.Errorf("%w: image: not a base64 data URI", ErrValidation)
		}
		contentType = mime
		payload = encoded
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: image: invalid base64 payload", ErrValidation)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
