package handlers_test

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"friendgift/internal/config"
	"friendgift/internal/database"
	"friendgift/internal/keys"
	"friendgift/internal/models"
	"friendgift/internal/repositories"
	"friendgift/internal/server"
	"friendgift/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const issuer = "friendgift-app"

type testEnv struct {
	app        *fiber.App
	privateKey *rsa.PrivateKey
}

// setupApp builds the full app on a fresh in-memory SQLite database with a
// single existing user, omar/password.
func setupApp(t *testing.T) testEnv {
	t.Helper()

	db, err := database.Open(config.DriverSQLite, database.InMemorySQLiteDSN(), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	userRepo := repositories.NewGORMUserRepository(db)
	friendRepo := repositories.NewGORMFriendRepository(db)
	require.NoError(t, userRepo.Create(&models.User{Username: "omar", Password: "password", CreatedAt: time.Now().UTC()}))

	privatePEM, publicPEM, err := keys.Generate(keys.DefaultBits)
	require.NoError(t, err)
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	require.NoError(t, err)
	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	require.NoError(t, err)

	logger := zap.NewNop()
	tokens := services.NewTokenService(priv, pub, issuer, 8*time.Hour)
	app := server.New(server.Deps{
		Auth:             services.NewAuthService(userRepo, tokens, logger),
		Friends:          services.NewFriendService(friendRepo, logger),
		Tokens:           tokens,
		Logger:           logger,
		HealthCheck:      func() error { return database.Ping(db) },
		CORSAllowOrigins: "*",
	})
	return testEnv{app: app, privateKey: priv}
}

type response struct {
	status int
	body   []byte
}

func (r response) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (e testEnv) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw}
}

func (e testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	var out map[string]string
	resp.decode(t, &out)
	require.NotEmpty(t, out["token"])
	return out["token"]
}

func (e testEnv) register(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var out map[string]string
	resp.decode(t, &out)
	return out["token"]
}

func (e testEnv) addFriend(t *testing.T, token, name string) models.FriendDTO {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/friends", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var friend models.FriendDTO
	resp.decode(t, &friend)
	return friend
}

func TestRegisterThenListEmpty(t *testing.T) {
	env := setupApp(t)

	token := env.register(t, "alice", "password123")
	require.NotEmpty(t, token)

	resp := env.do(t, http.MethodGet, "/api/friends", token, nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, string(resp.body))
}

func TestRegister_Errors(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "omar", "password": "password"})
	assert.Equal(t, http.StatusConflict, resp.status)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "  omar ", "password": "password"})
	assert.Equal(t, http.StatusConflict, resp.status, "username is trimmed before the lookup")

	for _, body := range []map[string]string{
		{"username": "ab", "password": "password123"},
		{"username": "bad name", "password": "password123"},
		{"username": "carol", "password": "123"},
		{"username": "", "password": ""},
		{},
	} {
		resp = env.do(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusBadRequest, resp.status, body)
	}

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestLogin(t *testing.T) {
	env := setupApp(t)
	env.login(t, "omar", "password")

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "omar", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nobody", "password": "password"})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", "{not json")
	assert.Equal(t, http.StatusUnauthorized, resp.status)
}

func TestFriendCRUDFlow(t *testing.T) {
	env := setupApp(t)
	token := env.login(t, "omar", "password")

	john := env.addFriend(t, token, "John")
	assert.Equal(t, "John", john.Name)
	assert.NotEmpty(t, john.ID)

	resp := env.do(t, http.MethodPut, "/api/friends/"+john.ID, token, map[string]string{"name": "John Doe"})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	var updated models.FriendDTO
	resp.decode(t, &updated)
	assert.Equal(t, models.FriendDTO{ID: john.ID, Name: "John Doe"}, updated)

	resp = env.do(t, http.MethodDelete, "/api/friends/"+john.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.status)
	assert.Empty(t, resp.body)

	resp = env.do(t, http.MethodGet, "/api/friends", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var friends []models.FriendDTO
	resp.decode(t, &friends)
	for _, f := range friends {
		assert.NotEqual(t, john.ID, f.ID)
	}

	resp = env.do(t, http.MethodDelete, "/api/friends/"+john.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)
}

func TestFriendListOrderAndValidation(t *testing.T) {
	env := setupApp(t)
	token := env.login(t, "omar", "password")

	var want []string
	for i := 0; i < 3; i++ {
		want = append(want, env.addFriend(t, token, gofakeit.Name()).ID)
	}

	resp := env.do(t, http.MethodGet, "/api/friends", token, nil)
	var friends []models.FriendDTO
	resp.decode(t, &friends)
	var got []string
	for _, f := range friends {
		got = append(got, f.ID)
	}
	assert.Equal(t, want, got)

	for _, name := range []string{"", "   ", strings.Repeat("x", 81)} {
		resp = env.do(t, http.MethodPost, "/api/friends", token, map[string]string{"name": name})
		assert.Equal(t, http.StatusBadRequest, resp.status)
	}
	resp = env.do(t, http.MethodPost, "/api/friends", token, "{")
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestUpdateFriend_NotFoundBeforeInvalid(t *testing.T) {
	env := setupApp(t)
	token := env.login(t, "omar", "password")
	john := env.addFriend(t, token, "John")

	resp := env.do(t, http.MethodPut, "/api/friends/does-not-exist", token, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodPut, "/api/friends/does-not-exist", token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodPut, "/api/friends/"+john.ID, token, map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodPut, "/api/friends/%20", token, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusBadRequest, resp.status)
}

func TestCrossUserIsolation(t *testing.T) {
	env := setupApp(t)
	omar := env.login(t, "omar", "password")
	alice := env.register(t, "alice", "password123")

	secret := env.addFriend(t, omar, "Secret")
	resp := env.do(t, http.MethodPost, "/api/friends/"+secret.ID+"/ideas", omar, map[string]string{"text": "Surprise"})
	require.Equal(t, http.StatusCreated, resp.status)

	resp = env.do(t, http.MethodGet, "/api/friends", alice, nil)
	assert.JSONEq(t, `[]`, string(resp.body))

	foreign := env.do(t, http.MethodPut, "/api/friends/"+secret.ID, alice, map[string]string{"name": "Stolen"})
	missing := env.do(t, http.MethodPut, "/api/friends/no-such-id", alice, map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusNotFound, foreign.status)
	assert.Equal(t, missing.status, foreign.status)
	assert.Equal(t, string(missing.body), string(foreign.body))

	resp = env.do(t, http.MethodDelete, "/api/friends/"+secret.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.status)

	resp = env.do(t, http.MethodGet, "/api/friends/"+secret.ID+"/ideas", alice, nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, string(resp.body))

	resp = env.do(t, http.MethodPost, "/api/friends/"+secret.ID+"/ideas", alice, map[string]string{"text": "Hijack"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	// omar's data is intact.
	resp = env.do(t, http.MethodGet, "/api/friends/"+secret.ID+"/ideas", omar, nil)
	var ideas []models.GiftIdeaDTO
	resp.decode(t, &ideas)
	require.Len(t, ideas, 1)
	assert.Equal(t, "Surprise", ideas[0].Text)
}

func TestIdeas(t *testing.T) {
	env := setupApp(t)
	token := env.login(t, "omar", "password")
	sarah := env.addFriend(t, token, "Sarah")

	resp := env.do(t, http.MethodPost, "/api/friends/"+sarah.ID+"/ideas", token, map[string]string{"text": "  Livre de cuisine "})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	var first models.GiftIdeaDTO
	resp.decode(t, &first)
	assert.Equal(t, "Livre de cuisine", first.Text)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	var raw map[string]interface{}
	resp.decode(t, &raw)
	createdAt, ok := raw["createdAt"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, createdAt)
	assert.NoError(t, err)

	resp = env.do(t, http.MethodPost, "/api/friends/"+sarah.ID+"/ideas", token, map[string]string{"text": "Montre"})
	var second models.GiftIdeaDTO
	resp.decode(t, &second)

	resp = env.do(t, http.MethodGet, "/api/friends/"+sarah.ID+"/ideas", token, nil)
	require.Equal(t, http.StatusOK, resp.status)
	var ideas []models.GiftIdeaDTO
	resp.decode(t, &ideas)
	require.Len(t, ideas, 2)
	assert.Equal(t, second.ID, ideas[0].ID, "newest first")
	assert.Equal(t, first.ID, ideas[1].ID)

	for _, text := range []string{"", "  ", strings.Repeat("x", 401)} {
		resp = env.do(t, http.MethodPost, "/api/friends/"+sarah.ID+"/ideas", token, map[string]string{"text": text})
		assert.Equal(t, http.StatusBadRequest, resp.status)
	}

	resp = env.do(t, http.MethodPost, "/api/friends/missing/ideas", token, map[string]string{"text": "Book"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = env.do(t, http.MethodGet, "/api/friends/missing/ideas", token, nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, string(resp.body))
}

func TestDeleteFriendRemovesIdeas(t *testing.T) {
	env := setupApp(t)
	token := env.login(t, "omar", "password")
	hassan := env.addFriend(t, token, "Hassan")

	resp := env.do(t, http.MethodPost, "/api/friends/"+hassan.ID+"/ideas", token, map[string]string{"text": "Montre connectée"})
	require.Equal(t, http.StatusCreated, resp.status)

	resp = env.do(t, http.MethodDelete, "/api/friends/"+hassan.ID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.status)

	resp = env.do(t, http.MethodGet, "/api/friends/"+hassan.ID+"/ideas", token, nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.JSONEq(t, `[]`, string(resp.body))
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	env := setupApp(t)
	valid := env.login(t, "omar", "password")

	now := time.Now()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":    issuer,
		"sub":    "omar",
		"upn":    "omar",
		"groups": []string{services.RoleUser},
		"iat":    now.Add(-9 * time.Hour).Unix(),
		"exp":    now.Add(-time.Hour).Unix(),
	}).SignedString(env.privateKey)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	// Claim to be alice while keeping omar's signature.
	forgedPayload := strings.TrimRight(jwtSegment(t, map[string]interface{}{
		"iss": issuer, "sub": "alice", "upn": "alice", "groups": []string{"user"}, "exp": now.Add(time.Hour).Unix(),
	}), "=")
	tampered := parts[0] + "." + forgedPayload + "." + parts[2]

	for name, token := range map[string]string{
		"none":     "",
		"garbage":  "garbage",
		"expired":  expired,
		"tampered": tampered,
	} {
		t.Run(name, func(t *testing.T) {
			for _, route := range []struct{ method, path string }{
				{http.MethodGet, "/api/friends"},
				{http.MethodPost, "/api/friends"},
				{http.MethodPut, "/api/friends/x"},
				{http.MethodDelete, "/api/friends/x"},
				{http.MethodGet, "/api/friends/x/ideas"},
				{http.MethodPost, "/api/friends/x/ideas"},
			} {
				resp := env.do(t, route.method, route.path, token, nil)
				assert.Equal(t, http.StatusUnauthorized, resp.status, route.method+" "+route.path)
			}
		})
	}
}

func jwtSegment(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	raw, err := json.Marshal(claims)
	require.NoError(t, err)
	return jwt.EncodeSegment(raw)
}
