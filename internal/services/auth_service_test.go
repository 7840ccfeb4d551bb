package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"carcare/internal/domain"
	"carcare/internal/models"
	"carcare/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 7
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	req := models.RegisterRequest{Name: "Al", Email: "a@x.com", Password: "secret1"}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "a@x.com" && u.Name == "Al" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")) == nil
	})).Return(nil).Once()

	user, err := authService.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.NotEqual(t, "secret1", user.Password)
	cost, err := bcrypt.Cost([]byte(user.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
	mockRepo.AssertExpectations(t)

	// Email already registered, as reported by the unique index
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(domain.ConflictError{Resource: "user"}).Once()
	_, err = authService.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, "Email already registered", err.Error())
	mockRepo.AssertExpectations(t)

	// Storage failure is not a conflict
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(errors.New("database error")).Once()
	_, err = authService.Register(ctx, req)
	require.Error(t, err)
	assert.False(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register_PasswordTooLongForBcrypt(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)

	_, err := authService.Register(context.Background(), models.RegisterRequest{Name: "Al", Email: "a@x.com", Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	user := &models.User{ID: 42, Name: "Al", Email: "a@x.com", Password: string(hashedPassword)}

	// Successful login
	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	token, got, err := authService.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, got)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(user, nil).Once()
	_, _, err = authService.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "wrongpassword"})
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", err.Error())
	mockRepo.AssertExpectations(t)

	// Unknown email fails the same way
	mockRepo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, domain.NotFoundError{Resource: "user"}).Once()
	_, _, err = authService.Login(ctx, models.LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password", err.Error())
	mockRepo.AssertExpectations(t)

	// Storage failure is not an authentication failure
	mockRepo.On("GetByEmail", ctx, "a@x.com").Return(nil, fmt.Errorf("connection refused")).Once()
	_, _, err = authService.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.False(t, domain.IsUnauthorized(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)

	valid, err := authService.IssueToken(&models.User{ID: 5, Email: "a@x.com"})
	require.NoError(t, err)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)

	// Garbage
	_, err = authService.ValidateToken("invalid.token.string")
	require.Error(t, err)
	assert.Equal(t, "Invalid token", err.Error())

	// Signed with another secret
	other := services.NewAuthService(new(MockUserRepository), "other_secret", time.Hour)
	forged, err := other.IssueToken(&models.User{ID: 5})
	require.NoError(t, err)
	_, err = authService.ValidateToken(forged)
	assert.True(t, domain.IsUnauthorized(err))

	// Unsigned token
	none := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{UserID: 5, StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}})
	noneString, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = authService.ValidateToken(noneString)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestAuthService_ExpiredTokenFailsDespiteValidSignature(t *testing.T) {
	expiredIssuer := services.NewAuthService(new(MockUserRepository), testJWTSecret, -time.Minute)
	token, err := expiredIssuer.IssueToken(&models.User{ID: 5})
	require.NoError(t, err)

	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, time.Hour)
	_, err = authService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
	assert.Equal(t, "Invalid token", err.Error())
}
