package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mjwalters/stockroom/pkg/stockroom/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)
	handler.RegisterRoutes(r.Group("/api/auth"))
	return r
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestPasswordHashing(t *testing.T) {
	password := "testpassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == password {
		t.Error("Hash should not equal plain password")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword should return true for correct password")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Error("CheckPassword should return false for incorrect password")
	}
}

func TestAccessToken(t *testing.T) {
	user := models.User{Username: "alice", Role: models.RoleUser}
	user.ID = 1

	token, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("Expected UserID 1, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Expected username alice, got %s", claims.Username)
	}
	if claims.Role != "user" {
		t.Errorf("Expected role user, got %s", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("Expected token type %s, got %s", TokenTypeAccess, claims.TokenType)
	}
}

func TestRefreshTokenType(t *testing.T) {
	user := models.User{Username: "alice", Role: models.RoleUser}
	user.ID = 1

	token, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("Expected token type %s, got %s", TokenTypeRefresh, claims.TokenType)
	}
}

func TestInvalidToken(t *testing.T) {
	if _, err := ValidateToken("invalid-token"); err == nil {
		t.Error("Expected error for invalid token")
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postJSON(router, "/api/auth/register", RegisterRequest{Username: "bob", Password: "secret123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// Duplicate username rejected, user count unchanged
	resp = postJSON(router, "/api/auth/register", RegisterRequest{Username: "bob", Password: "other"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate, got %d", resp.Code)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	resp = postJSON(router, "/api/auth/login", LoginRequest{Username: "bob", Password: "secret123"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var login LoginResponse
	json.Unmarshal(resp.Body.Bytes(), &login)
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Error("Expected both tokens in login response")
	}
	if login.User.Username != "bob" {
		t.Errorf("Expected username bob, got %s", login.User.Username)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	resp := postJSON(router, "/api/auth/register", RegisterRequest{Username: "bob"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	postJSON(router, "/api/auth/register", RegisterRequest{Username: "bob", Password: "secret123"})

	resp := postJSON(router, "/api/auth/login", LoginRequest{Username: "bob", Password: "wrong"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}

	resp = postJSON(router, "/api/auth/login", LoginRequest{Username: "nobody", Password: "secret123"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	postJSON(router, "/api/auth/register", RegisterRequest{Username: "bob", Password: "secret123"})
	resp := postJSON(router, "/api/auth/login", LoginRequest{Username: "bob", Password: "secret123"})

	var login LoginResponse
	json.Unmarshal(resp.Body.Bytes(), &login)

	resp = postJSON(router, "/api/auth/refresh", RefreshRequest{RefreshToken: login.RefreshToken})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if _, err := ValidateToken(body["accessToken"]); err != nil {
		t.Errorf("Refreshed access token should validate: %v", err)
	}

	// An access token cannot be used as a refresh token
	resp = postJSON(router, "/api/auth/refresh", RefreshRequest{RefreshToken: login.AccessToken})
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(db), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	// Missing token
	req, _ := http.NewRequest("GET", "/protected", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", resp.Code)
	}

	// Valid token
	hash, _ := HashPassword("password123")
	user := models.User{Username: "carol", PasswordHash: hash, Role: models.RoleUser}
	db.Create(&user)
	token, _ := GenerateAccessToken(user)

	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 with token, got %d: %s", resp.Code, resp.Body.String())
	}

	// Token for a user that no longer exists
	db.Unscoped().Delete(&user)
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for deleted user, got %d", resp.Code)
	}
}

func TestPermit(t *testing.T) {
	db := setupTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", AuthMiddleware(db), Permit("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	hash, _ := HashPassword("password123")
	user := models.User{Username: "dave", PasswordHash: hash, Role: models.RoleUser}
	db.Create(&user)
	admin := models.User{Username: "eve", PasswordHash: hash, Role: models.RoleAdmin}
	db.Create(&admin)

	userToken, _ := GenerateAccessToken(user)
	adminToken, _ := GenerateAccessToken(admin)

	req, _ := http.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for user role, got %d", resp.Code)
	}

	req, _ = http.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for admin role, got %d", resp.Code)
	}
}
