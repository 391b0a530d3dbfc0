package app

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/redis"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	util.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	App    *App
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		JWT: config.JWTConfig{
			Secret:            "integration-secret",
			AccessTokenExpiry: time.Hour,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Storage: config.StorageConfig{
			Driver:    "local",
			MediaRoot: t.TempDir(),
			MediaURL:  "/media",
		},
		ShortLink: config.ShortLinkConfig{
			BaseURL:     "https://foodgram.example.org",
			RecipePage:  "/recipes/%d",
			TokenLength: 6,
		},
		Limits: config.LimitsConfig{
			MaxIngredientAmount: 10000,
			MaxCookingTime:      32000,
			DefaultPageSize:     6,
			MaxPageSize:         100,
		},
	}
}

func setupIntegrationTest(t *testing.T) *TestServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	require.NoError(t, db.Seed(testDB))

	mr := miniredis.RunT(t)
	blacklist := redis.NewTokenBlacklist(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := testConfig(t)
	application := New(cfg, Dependencies{
		DB:       testDB,
		Revoker:  blacklist,
		Images:   storage.NewLocalStorage(cfg.Storage.MediaRoot, cfg.Storage.MediaURL),
		Registry: prometheus.NewRegistry(),
	})

	return &TestServer{Router: application.Engine, DB: testDB, App: application}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (ts *TestServer) signUp(t *testing.T, username string) (uint, string) {
	t.Helper()
	w := ts.request(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": strings.ToUpper(username[:1]) + username[1:],
		"last_name":  "Tester",
		"password":   "long-enough-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(parse(t, w)["id"].(float64))

	w = ts.request(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return id, parse(t, w)["auth_token"].(string)
}

func (ts *TestServer) catalogueID(t *testing.T, m interface{}, column, value string) uint {
	t.Helper()
	var id uint
	require.NoError(t, ts.DB.Model(m).Where(column+" = ?", value).Pluck("id", &id).Error)
	require.NotZero(t, id)
	return id
}

func TestCompleteRecipeJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})

	t.Log("Step 1: Sign up an author and a reader")
	authorID, authorToken := ts.signUp(t, "author")
	_, readerToken := ts.signUp(t, "reader")

	carrot := ts.catalogueID(t, &model.Ingredient{}, "name", "carrot")
	potato := ts.catalogueID(t, &model.Ingredient{}, "name", "potato")
	dinner := ts.catalogueID(t, &model.Tag{}, "slug", "dinner")

	t.Log("Step 2: Publish two recipes")
	recipeIDs := make([]uint, 0, 2)
	for _, r := range []struct {
		name    string
		carrots int
	}{{"Carrot soup", 100}, {"Roast", 50}} {
		w := ts.request(t, http.MethodPost, "/api/recipes", authorToken, map[string]interface{}{
			"ingredients": []map[string]interface{}{
				{"id": carrot, "amount": r.carrots},
				{"id": potato, "amount": 15},
			},
			"tags":         []uint{dinner},
			"image":        image,
			"name":         r.name,
			"text":         "Cook until done.",
			"cooking_time": 40,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		recipeIDs = append(recipeIDs, uint(parse(t, w)["id"].(float64)))
	}

	t.Log("Step 3: Reader follows the author and fills the cart")
	w := ts.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe?recipes_limit=1", authorID), readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(2), parse(t, w)["recipes_count"])

	for _, id := range recipeIDs {
		w = ts.request(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), readerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w = ts.request(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", recipeIDs[0]), readerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Log("Step 4: Reader sees the flags on the feed")
	w = ts.request(t, http.MethodGet, "/api/recipes?tags=dinner", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := parse(t, w)
	assert.Equal(t, float64(2), feed["count"])
	for _, item := range feed["results"].([]interface{}) {
		recipe := item.(map[string]interface{})
		assert.Equal(t, true, recipe["is_in_shopping_cart"])
		assert.Equal(t, true, recipe["author"].(map[string]interface{})["is_subscribed"])
	}

	t.Log("Step 5: Download the shopping list")
	w = ts.request(t, http.MethodGet, "/api/recipes/download_shopping_cart?format=xlsx", readerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))

	t.Log("Step 6: Follow the short link")
	w = ts.request(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipeIDs[1]), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	link := parse(t, w)["short-link"].(string)
	w = ts.request(t, http.MethodGet, strings.TrimPrefix(link, "https://foodgram.example.org"), "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/recipes/%d", recipeIDs[1]), w.Header().Get("Location"))

	t.Log("Step 7: Author deletes a recipe; its links disappear")
	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", recipeIDs[0]), authorToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = ts.request(t, http.MethodGet, "/api/recipes?is_in_shopping_cart=1", readerToken, nil)
	assert.Equal(t, float64(1), parse(t, w)["count"])

	t.Log("Step 8: Logout revokes the reader token")
	w = ts.request(t, http.MethodPost, "/api/auth/token/logout", readerToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = ts.request(t, http.MethodGet, "/api/users/me", readerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSuperuserCanDeleteUsers(t *testing.T) {
	ts := setupIntegrationTest(t)

	created, err := ts.App.UserService.EnsureSuperuser("admin", "admin@example.com", "admin-password")
	require.NoError(t, err)
	require.True(t, created)

	created, err = ts.App.UserService.EnsureSuperuser("admin", "admin@example.com", "admin-password")
	require.NoError(t, err)
	assert.False(t, created)

	victimID, victimToken := ts.signUp(t, "victim")

	w := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", victimID), victimToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.request(t, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-password",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := parse(t, w)["auth_token"].(string)

	w = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", victimID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	users, err := repository.NewUserRepository(ts.DB).UsernameExists("victim")
	require.NoError(t, err)
	assert.False(t, users)
}

func TestInfrastructureEndpoints(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", parse(t, w)["status"])

	ts.request(t, http.MethodGet, "/api/tags", "", nil)
	w = ts.request(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `foodgram_http_requests_total{method="GET",route="/api/tags",status="200"} 1`)

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
