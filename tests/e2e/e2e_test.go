package e2e

import (
	"bytes"
	"encoding/json"
	"estatehub/internal/database"
	"estatehub/internal/domain/auth"
	"estatehub/internal/domain/lead"
	"estatehub/internal/domain/listing"
	"estatehub/internal/domain/notification"
	"estatehub/internal/domain/upload"
	"estatehub/internal/domain/verification"
	"estatehub/internal/middleware"
	jwtsvc "estatehub/internal/pkg/jwt"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message interface{} `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	models := []interface{}{
		&auth.User{},
		&verification.Request{},
		&listing.Listing{},
		&lead.Lead{},
		&notification.Notification{},
	}
	for _, model := range models {
		err := db.AutoMigrate(model)
		require.NoError(t, err, fmt.Sprintf("Failed to migrate %T", model))
	}

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	storage := upload.NewLocalStorage(t.TempDir(), "/static/uploads")

	userRepo := auth.NewUserRepository(db)
	requestRepo := verification.NewRequestRepository(db)
	listingRepo := listing.NewListingRepository(db)
	leadRepo := lead.NewLeadRepository(db)
	notifRepo := notification.NewRepository(db)

	hub := notification.NewHub()
	notifService := notification.NewService(notifRepo, hub)

	authService := auth.NewService(userRepo, jwtService)
	verifService := verification.NewService(userRepo, requestRepo, verification.Config{
		PageSize:        20,
		MaxPageSize:     100,
		MaxReasonLength: 500,
	}, notifService)
	listingService := listing.NewService(listingRepo, storage, listing.Config{
		PageSize:        20,
		MaxPageSize:     100,
		MaxReasonLength: 500,
		MaxImages:       10,
	}, notifService)
	leadService := lead.NewService(leadRepo, userRepo, lead.Config{
		PageSize:    20,
		MaxPageSize: 100,
		Weights:     lead.DefaultScoreWeights(),
	}, notifService)

	authHandler := auth.NewHandler(authService)
	verifHandler := verification.NewHandler(verifService)
	listingHandler := listing.NewHandler(listingService)
	leadHandler := lead.NewHandler(leadService)
	notifHandler := notification.NewHandler(notifService, hub, jwtService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	public := v1.Group("/")
	public.Use(middleware.OptionalJWTAuth(jwtService))
	{
		auth.RegisterPublicRoutes(public, authHandler)
		verification.RegisterPublicRoutes(public, verifHandler)
		listing.RegisterPublicRoutes(public, listingHandler)
		lead.RegisterPublicRoutes(public, leadHandler)
	}

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		auth.RegisterProtectedRoutes(protected, authHandler)
		listing.RegisterProtectedRoutes(protected, listingHandler)
		notification.RegisterProtectedRoutes(protected, notifHandler)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
	{
		verification.RegisterAdminRoutes(admin, verifHandler)
		listing.RegisterAdminRoutes(admin, listingHandler)
	}

	leadAdmin := v1.Group("/admin")
	leadAdmin.Use(middleware.JWTAuth(jwtService))
	lead.RegisterAdminRoutes(leadAdmin, leadHandler)

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
	}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	return w, nil
}

func parseResponse(w *httptest.ResponseRecorder) (*TestResponse, error) {
	var resp TestResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	if err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	}
	return &resp, err
}

// seedUser creates a user straight in the database, bypassing the
// registration review queue. Used for reviewer accounts.
func (s *E2ETestSuite) seedUser(t *testing.T, email string, role auth.UserRole) *auth.User {
	hash, err := auth.HashPassword("Password123!")
	require.NoError(t, err)

	user := &auth.User{
		Email:              email,
		PasswordHash:       hash,
		Role:               role,
		Name:               "Seeded " + string(role),
		IsActive:           true,
		IsVerified:         true,
		VerificationStatus: auth.StatusApproved,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func (s *E2ETestSuite) login(t *testing.T, email string) string {
	w, err := s.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code, "login failed for %s: %s", email, w.Body.String())

	resp, err := parseResponse(w)
	require.NoError(t, err)
	return resp.Data["token"].(string)
}

// =============================================================================
// Flow 1: Agent registration, review and first login
// =============================================================================

func TestFlow1_AgentOnboarding(t *testing.T) {
	suite := setupTestSuite(t)
	suite.seedUser(t, "admin@test.com", auth.RoleAdmin)
	adminToken := suite.login(t, "admin@test.com")

	var requestID float64

	t.Run("POST /auth/register", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "agent@test.com",
			"password": "Password123!",
			"name":     "Jane Agent",
			"phone":    "+15550100200",
			"position": "Listing Agent",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "pending", resp.Data["status"])
		requestID = resp.Data["id"].(float64)

		log.Printf("✅ POST /auth/register - SUCCESS")
	})

	t.Run("Login is blocked until approved", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "agent@test.com",
			"password": "Password123!",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "NOT_VERIFIED", resp.Error.Code)

		log.Printf("✅ Login blocked while pending - SUCCESS")
	})

	t.Run("Non-admins cannot reach the review queue", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/admin/verifications", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("POST /admin/verifications/:id/approve", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/verifications/%d/approve", int64(requestID))
		w, err := suite.makeRequest("POST", path, map[string]interface{}{
			"notes": "documents checked",
		}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "approved", resp.Data["status"])

		// Second approve loses the race against the first
		w, err = suite.makeRequest("POST", path, map[string]interface{}{}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)

		log.Printf("✅ POST /admin/verifications/:id/approve - SUCCESS")
	})

	t.Run("GET /auth/me after approval", func(t *testing.T) {
		token := suite.login(t, "agent@test.com")

		w, err := suite.makeRequest("GET", "/api/v1/auth/me", nil, token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "agent@test.com", resp.Data["email"])
		assert.Equal(t, "approved", resp.Data["verification_status"])

		log.Printf("✅ GET /auth/me - SUCCESS")
	})

	t.Run("Approval left a notification", func(t *testing.T) {
		token := suite.login(t, "agent@test.com")

		w, err := suite.makeRequest("GET", "/api/v1/notifications/unread-count", nil, token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(1), resp.Data["unread"])

		log.Printf("✅ GET /notifications/unread-count - SUCCESS")
	})
}

// =============================================================================
// Flow 2: Listing moderation and public visibility
// =============================================================================

func TestFlow2_ListingModeration(t *testing.T) {
	suite := setupTestSuite(t)
	suite.seedUser(t, "agent@test.com", auth.RoleUser)
	suite.seedUser(t, "super@test.com", auth.RoleSuperAdmin)

	agentToken := suite.login(t, "agent@test.com")
	superToken := suite.login(t, "super@test.com")

	var listingID float64

	t.Run("POST /listings creates a pending listing", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/listings", map[string]interface{}{
			"title":    "Sunny two bedroom",
			"price":    250000,
			"city":     "Austin",
			"state":    "TX",
			"bedrooms": 2,
			"area":     84.5,
		}, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Data["approval_status"])
		listingID = resp.Data["id"].(float64)

		log.Printf("✅ POST /listings - SUCCESS")
	})

	t.Run("Pending listing is hidden from anonymous viewers", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/listings", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(0), resp.Data["total"])

		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/listings/%d", int64(listingID)), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)

		log.Printf("✅ Pending listing hidden - SUCCESS")
	})

	t.Run("Owner still sees the pending listing", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/listings/%d", int64(listingID)), nil, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST /admin/listings/:id/approve publishes it", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/listings/%d/approve", int64(listingID))
		w, err := suite.makeRequest("POST", path, nil, superToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		w, err = suite.makeRequest("GET", "/api/v1/listings", nil, "")
		require.NoError(t, err)
		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(1), resp.Data["total"])

		log.Printf("✅ POST /admin/listings/:id/approve - SUCCESS")
	})

	t.Run("Reject after approve is a conflict", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/listings/%d/reject", int64(listingID))
		w, err := suite.makeRequest("POST", path, map[string]interface{}{
			"reason": "stale photos",
		}, superToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)

		log.Printf("✅ Reject after approve rejected - SUCCESS")
	})

	t.Run("Agents cannot call moderation endpoints", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/listings/%d/approve", int64(listingID))
		w, err := suite.makeRequest("POST", path, nil, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// =============================================================================
// Flow 3: Lead intake, assignment and status work
// =============================================================================

func TestFlow3_LeadPipeline(t *testing.T) {
	suite := setupTestSuite(t)
	agent := suite.seedUser(t, "agent@test.com", auth.RoleUser)
	suite.seedUser(t, "other@test.com", auth.RoleUser)
	suite.seedUser(t, "admin@test.com", auth.RoleAdmin)

	agentToken := suite.login(t, "agent@test.com")
	otherToken := suite.login(t, "other@test.com")
	adminToken := suite.login(t, "admin@test.com")

	var leadID float64

	t.Run("POST /leads accepts an anonymous submission", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/leads", map[string]interface{}{
			"name":    "Sam Buyer",
			"phone":   "+1 (555) 010-0200",
			"email":   "sam@example.com",
			"message": "Looking for a place",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "15550100200", resp.Data["phone"])
		assert.Equal(t, float64(35), resp.Data["score"])
		leadID = resp.Data["id"].(float64)

		log.Printf("✅ POST /leads - SUCCESS")
	})

	t.Run("Listing leads requires the admin role", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/admin/leads", nil, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, err = suite.makeRequest("GET", "/api/v1/admin/leads", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(1), resp.Data["total"])

		log.Printf("✅ GET /admin/leads - SUCCESS")
	})

	t.Run("PATCH /admin/leads/:id/assign", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/leads/%d/assign", int64(leadID))
		w, err := suite.makeRequest("PATCH", path, map[string]interface{}{
			"assignee_id": agent.ID,
		}, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(agent.ID), resp.Data["assigned_to"])

		log.Printf("✅ PATCH /admin/leads/:id/assign - SUCCESS")
	})

	t.Run("Assignee can work the lead, others cannot", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/leads/%d/status", int64(leadID))

		w, err := suite.makeRequest("PATCH", path, map[string]interface{}{
			"status": "contacted",
		}, otherToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, err = suite.makeRequest("PATCH", path, map[string]interface{}{
			"status": "contacted",
		}, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, "contacted", resp.Data["status"])
		assert.NotEmpty(t, resp.Data["last_contacted_at"])

		log.Printf("✅ PATCH /admin/leads/:id/status - SUCCESS")
	})

	t.Run("Assignee can read the lead, others cannot", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/admin/leads/%d", int64(leadID))

		w, err := suite.makeRequest("GET", path, nil, otherToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, err = suite.makeRequest("GET", path, nil, agentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /admin/leads/stats", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/admin/leads/stats", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, float64(1), resp.Data["total"])
		assert.Equal(t, float64(0), resp.Data["unassigned"])

		log.Printf("✅ GET /admin/leads/stats - SUCCESS")
	})
}
