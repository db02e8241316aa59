package main_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	mainapp "resep"
	"resep/pkg/shoplist"
)

var (
	v   *viper.Viper
	app *fiber.App
)

func TestMain(m *testing.M) {
	v = viper.New()
	v.SetDefault("APP_PORT", ":8081")
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.AutomaticEnv()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}

	app, err = mainapp.NewApp(db, v.GetString("JWT_SECRET"), nil, nil, shoplist.NewPDFRenderer())
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	code := m.Run()

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	os.Exit(code)
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	appPort := v.GetString("APP_PORT")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Printf("Test server stopped: %v", err)
		}
	}()

	// Give the server a moment to start.
	time.Sleep(100 * time.Millisecond)

	client := &http.Client{}

	t.Run("HealthCheck", func(t *testing.T) {
		healthCheckURL := fmt.Sprintf("http://localhost%s/health", appPort)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthCheckURL, nil)
		if err != nil {
			t.Fatalf("Failed to create health check request: %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Health check request failed: %v", err)
		}
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read health check response body: %v", err)
		}
		assert.Contains(t, string(bodyBytes), "\"status\":\"healthy\"")
	})

	t.Run("OpenCatalogAccess", func(t *testing.T) {
		tagsURL := fmt.Sprintf("http://localhost%s/api/v1/tags", appPort)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
		if err != nil {
			t.Fatalf("Failed to create tags request: %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Tags request failed: %v", err)
		}
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, "Tag listing should not require a token")
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		meURL := fmt.Sprintf("http://localhost%s/api/v1/users/me", appPort)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
		if err != nil {
			t.Fatalf("Failed to create profile request: %v", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Profile request failed without token: %v", err)
		}
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "Expected Unauthorized for /users/me without token")
	})
}
