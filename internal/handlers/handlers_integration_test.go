package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resep/internal/handlers"
	"resep/internal/middleware"
	"resep/internal/models"
	"resep/internal/repositories"
	"resep/internal/services"
	"resep/pkg/shoplist"
)

var (
	app *fiber.App
	db  *gorm.DB

	flourID, sugarID, milkID uint
	breakfastID, dinnerID    uint
)

func TestMain(m *testing.M) {
	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}

	seedCatalog()

	userRepo := repositories.NewGORMUserRepository(db)
	catalogRepo := repositories.NewGORMCatalogRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	relationRepo := repositories.NewGORMRelationRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	catalogService := services.NewCatalogService(catalogRepo)
	recipeService := services.NewRecipeService(recipeRepo, catalogRepo, relationRepo, userRepo, nil, nil)
	relationService := services.NewRelationService(relationRepo, recipeRepo, userRepo, shoplist.NewPDFRenderer())

	authRequired := middleware.AuthRequired(authService)
	authOptional := middleware.OptionalAuth(authService)

	app = fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(apiV1)
	handlers.NewUserHandler(relationService).RegisterRoutes(apiV1, authRequired, authOptional)
	handlers.NewRelationHandler(relationService).RegisterRoutes(apiV1, authRequired)
	handlers.NewRecipeHandler(recipeService).RegisterRoutes(apiV1, authRequired, authOptional)

	os.Exit(m.Run())
}

func seedCatalog() {
	ingredients := []models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	if err := db.Create(&ingredients).Error; err != nil {
		log.Fatalf("Failed to seed ingredients: %v", err)
	}
	flourID, sugarID, milkID = ingredients[0].ID, ingredients[1].ID, ingredients[2].ID

	tags := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	if err := db.Create(&tags).Error; err != nil {
		log.Fatalf("Failed to seed tags: %v", err)
	}
	breakfastID, dinnerID = tags[0].ID, tags[1].ID
}

func request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a user through the API and returns their ID
// and a fresh token.
func registerAndLogin(t *testing.T, username string) (uint, string) {
	t.Helper()

	email := username + "@example.com"
	resp := request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username":   username,
		"email":      email,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registered struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &registered)
	require.NotZero(t, registered.User.ID)

	resp = request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logged struct {
		Token string `json:"token"`
	}
	decode(t, resp, &logged)
	require.NotEmpty(t, logged.Token)

	return registered.User.ID, logged.Token
}

func createRecipe(t *testing.T, token, name string, ingredients []fiber.Map, tagIDs []uint) uint {
	t.Helper()

	resp := request(t, http.MethodPost, "/api/v1/recipes/", token, fiber.Map{
		"name":         name,
		"image":        "aGVsbG8=",
		"text":         "Step one, step two.",
		"cooking_time": 30,
		"ingredients":  ingredients,
		"tags":         tagIDs,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var recipe services.RecipeResponse
	decode(t, resp, &recipe)
	require.NotZero(t, recipe.ID)
	return recipe.ID
}

func TestRegisterValidation(t *testing.T) {
	// Reserved username
	resp := request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username":   "me",
		"email":      "reserved@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Duplicate username
	registerAndLogin(t, "dupuser")
	resp = request(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"username":   "dupuser",
		"email":      "dupuser2@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Wrong password
	resp = request(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email":    "dupuser@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestRecipeCRUD(t *testing.T) {
	authorID, authorToken := registerAndLogin(t, "author1")
	_, otherToken := registerAndLogin(t, "other1")

	recipeID := createRecipe(t, authorToken, "Pancakes", []fiber.Map{
		{"id": flourID, "amount": 200},
		{"id": milkID, "amount": 300},
	}, []uint{breakfastID})

	// Detail view carries the resolved associations
	resp := request(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipeID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var recipe services.RecipeResponse
	decode(t, resp, &recipe)
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, authorID, recipe.Author.ID)
	assert.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)
	assert.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)

	// Another user may not update it
	update := fiber.Map{
		"name":         "Stolen Pancakes",
		"text":         "Mine now.",
		"cooking_time": 5,
		"ingredients":  []fiber.Map{{"id": flourID, "amount": 100}},
		"tags":         []uint{breakfastID},
	}
	resp = request(t, http.MethodPut, fmt.Sprintf("/api/v1/recipes/%d", recipeID), otherToken, update)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The author replaces the recipe wholesale
	resp = request(t, http.MethodPut, fmt.Sprintf("/api/v1/recipes/%d", recipeID), authorToken, fiber.Map{
		"name":         "Crepes",
		"text":         "Thinner.",
		"cooking_time": 20,
		"ingredients":  []fiber.Map{{"id": sugarID, "amount": 50}},
		"tags":         []uint{dinnerID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &recipe)
	assert.Equal(t, "Crepes", recipe.Name)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "sugar", recipe.Ingredients[0].Name)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "dinner", recipe.Tags[0].Slug)

	// Unknown ingredient reference is a validation error
	resp = request(t, http.MethodPost, "/api/v1/recipes/", authorToken, fiber.Map{
		"name":         "Mystery",
		"image":        "aGVsbG8=",
		"text":         "???",
		"cooking_time": 10,
		"ingredients":  []fiber.Map{{"id": 9999, "amount": 1}},
		"tags":         []uint{breakfastID},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Another user may not delete it either
	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", recipeID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", recipeID), authorToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipeID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestRecipeListFilters(t *testing.T) {
	authorID, authorToken := registerAndLogin(t, "author2")
	breakfastRecipe := createRecipe(t, authorToken, "Omelette", []fiber.Map{
		{"id": milkID, "amount": 100},
	}, []uint{breakfastID})
	dinnerRecipe := createRecipe(t, authorToken, "Stew", []fiber.Map{
		{"id": flourID, "amount": 50},
	}, []uint{dinnerID})

	listIDs := func(path, token string) []uint {
		resp := request(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var recipes []services.RecipeResponse
		decode(t, resp, &recipes)
		ids := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
		}
		return ids
	}

	// Author filter
	ids := listIDs(fmt.Sprintf("/api/v1/recipes/?author=%d", authorID), "")
	assert.ElementsMatch(t, []uint{breakfastRecipe, dinnerRecipe}, ids)

	// Single tag
	ids = listIDs(fmt.Sprintf("/api/v1/recipes/?author=%d&tags=breakfast", authorID), "")
	assert.Equal(t, []uint{breakfastRecipe}, ids)

	// Multiple tags are OR semantics without duplicate rows
	ids = listIDs(fmt.Sprintf("/api/v1/recipes/?author=%d&tags=breakfast,dinner", authorID), "")
	assert.ElementsMatch(t, []uint{breakfastRecipe, dinnerRecipe}, ids)

	// Favorite filter scopes to the requesting user
	resp := request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", breakfastRecipe), authorToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	ids = listIDs(fmt.Sprintf("/api/v1/recipes/?author=%d&is_favorited=1", authorID), authorToken)
	assert.Equal(t, []uint{breakfastRecipe}, ids)

	// Anonymous requests ignore the favorite filter instead of failing
	ids = listIDs(fmt.Sprintf("/api/v1/recipes/?author=%d&is_favorited=1", authorID), "")
	assert.ElementsMatch(t, []uint{breakfastRecipe, dinnerRecipe}, ids)
}

func TestFavoriteToggle(t *testing.T) {
	_, authorToken := registerAndLogin(t, "author3")
	_, readerToken := registerAndLogin(t, "reader3")
	recipeID := createRecipe(t, authorToken, "Toast", []fiber.Map{
		{"id": flourID, "amount": 10},
	}, []uint{breakfastID})

	// Unauthenticated toggles are rejected
	resp := request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Add returns the short representation
	resp = request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), readerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var summary services.RecipeSummary
	decode(t, resp, &summary)
	assert.Equal(t, recipeID, summary.ID)
	assert.Equal(t, "Toast", summary.Name)

	// Adding twice is a conflict
	resp = request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), readerToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Unknown recipe
	resp = request(t, http.MethodPost, "/api/v1/recipes/999999/favorite", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Remove once, then the pair is gone
	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), readerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestShoppingCartAndDownload(t *testing.T) {
	_, authorToken := registerAndLogin(t, "author4")
	readerID, readerToken := registerAndLogin(t, "reader4")

	// Two recipes sharing an ingredient; the shopping list must sum it.
	first := createRecipe(t, authorToken, "Bread", []fiber.Map{
		{"id": flourID, "amount": 200},
		{"id": milkID, "amount": 100},
	}, []uint{breakfastID})
	second := createRecipe(t, authorToken, "Cake", []fiber.Map{
		{"id": flourID, "amount": 300},
		{"id": sugarID, "amount": 150},
	}, []uint{dinnerID})

	for _, id := range []uint{first, second} {
		resp := request(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", id), readerToken, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// One row per distinct ingredient, amounts summed, ordered by name
	rows, err := repositories.NewGORMRelationRepository(db).SumCartIngredients(readerID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, repositories.ShoppingListRow{Name: "flour", MeasurementUnit: "g", Total: 500}, rows[0])
	assert.Equal(t, repositories.ShoppingListRow{Name: "milk", MeasurementUnit: "ml", Total: 100}, rows[1])
	assert.Equal(t, repositories.ShoppingListRow{Name: "sugar", MeasurementUnit: "g", Total: 150}, rows[2])

	// The download is a PDF attachment
	resp := request(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "shoplist.pdf")
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))

	// Removing one recipe drops its exclusive ingredients from the list
	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", second), readerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	rows, err = repositories.NewGORMRelationRepository(db).SumCartIngredients(readerID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 200, rows[0].Total)
}

func TestSubscriptionFlow(t *testing.T) {
	authorID, authorToken := registerAndLogin(t, "author5")
	readerID, readerToken := registerAndLogin(t, "reader5")
	createRecipe(t, authorToken, "Soup", []fiber.Map{
		{"id": milkID, "amount": 200},
	}, []uint{dinnerID})

	// Self-subscription is rejected
	resp := request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/subscribe", readerID), readerToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Subscribing returns the author with their recipes
	resp = request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/subscribe", authorID), readerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var author services.AuthorWithRecipes
	decode(t, resp, &author)
	assert.Equal(t, authorID, author.ID)
	assert.True(t, author.IsSubscribed)
	assert.Len(t, author.Recipes, 1)
	assert.Equal(t, int64(1), author.RecipesCount)

	// Twice is a conflict
	resp = request(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/subscribe", authorID), readerToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The author's profile now carries the flag for the reader
	resp = request(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", authorID), readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile services.UserResponse
	decode(t, resp, &profile)
	assert.True(t, profile.IsSubscribed)

	// And the subscriptions listing includes the author
	resp = request(t, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=1", readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subscriptions []services.AuthorWithRecipes
	decode(t, resp, &subscriptions)
	require.Len(t, subscriptions, 1)
	assert.Equal(t, authorID, subscriptions[0].ID)
	assert.Len(t, subscriptions[0].Recipes, 1)

	// Unsubscribe removes the pair; twice is a 404
	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/subscribe", authorID), readerToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = request(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d/subscribe", authorID), readerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCatalogEndpoints(t *testing.T) {
	// Prefix search is unauthenticated
	resp := request(t, http.MethodGet, "/api/v1/ingredients/?name=fl", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ingredients []models.Ingredient
	decode(t, resp, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flour", ingredients[0].Name)

	resp = request(t, http.MethodGet, "/api/v1/tags/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tags []models.Tag
	decode(t, resp, &tags)
	assert.GreaterOrEqual(t, len(tags), 2)

	resp = request(t, http.MethodGet, fmt.Sprintf("/api/v1/tags/%d", breakfastID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tag models.Tag
	decode(t, resp, &tag)
	assert.Equal(t, "breakfast", tag.Slug)

	resp = request(t, http.MethodGet, "/api/v1/ingredients/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestMeEndpoint(t *testing.T) {
	userID, token := registerAndLogin(t, "selfuser")

	resp := request(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile services.UserResponse
	decode(t, resp, &profile)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "selfuser", profile.Username)
	assert.False(t, profile.IsSubscribed)

	resp = request(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
