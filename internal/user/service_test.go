package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social_login_backend/internal/common"
	"social_login_backend/internal/role"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRepository backs the service tests with canned users.
type mockRepository struct {
	users map[uuid.UUID]*User
}

func (m *mockRepository) FindByEmails(ctx context.Context, emails []string) ([]User, error) {
	return nil, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
}

func (m *mockRepository) CreateIfAbsent(ctx context.Context, user *User) error {
	return nil
}

func (m *mockRepository) AddProvider(ctx context.Context, id uuid.UUID, provider string) error {
	return nil
}

func testUser() *User {
	now := time.Now()
	return &User{
		BaseModel: common.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		LinkedProviders: []string{
			"github",
			"google",
		},
		Roles: []role.Role{{ShortName: "member", DisplayName: "Member"}},
	}
}

func TestService_GetUserByID(t *testing.T) {
	dbUser := testUser()
	repo := &mockRepository{users: map[uuid.UUID]*User{dbUser.ID: dbUser}}
	svc := NewService(repo, zap.NewNop())

	u, err := svc.GetUserByID(context.Background(), dbUser.ID)
	require.NoError(t, err)

	assert.Equal(t, dbUser.ID, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, []string{"github", "google"}, u.LinkedProviders)
	assert.Equal(t, []string{"member"}, u.Roles)
}

func TestService_GetUserByID_NotFound(t *testing.T) {
	svc := NewService(&mockRepository{users: map[uuid.UUID]*User{}}, zap.NewNop())

	_, err := svc.GetUserByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUser_HasProvider(t *testing.T) {
	u := testUser()
	assert.True(t, u.HasProvider("github"))
	assert.True(t, u.HasProvider("google"))
	assert.False(t, u.HasProvider("gitlab"))
	assert.False(t, (&User{}).HasProvider("github"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail(" Ada@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("  "))
}

func TestHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dbUser := testUser()
	repo := &mockRepository{users: map[uuid.UUID]*User{dbUser.ID: dbUser}}
	handler := NewHandler(NewService(repo, zap.NewNop()), zap.NewNop())

	injectUser := func(id uuid.UUID) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(common.UserIDKey, id)
			c.Next()
		}
	}

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), injectUser(dbUser.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, dbUser.ID, body.Data.ID)
	assert.Equal(t, "ada@example.com", body.Data.Email)
	assert.Equal(t, []string{"github", "google"}, body.Data.LinkedProviders)
	assert.Equal(t, []string{"member"}, body.Data.Roles)
}

func TestHandler_Me_NoAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(NewService(&mockRepository{}, zap.NewNop()), zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), func(c *gin.Context) { c.Next() })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
