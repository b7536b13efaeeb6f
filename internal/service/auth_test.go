package service

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloghub-dev/bloghub/shared/domain"
	internal_errors "github.com/bloghub-dev/bloghub/shared/errors"
)

// Mock structs
type MockAuthStorage struct {
	SaveUserFunc           func(user domain.User) (domain.UserId, error)
	UserFunc               func(email domain.Email) (domain.User, error)
	UserByIdFunc           func(id domain.UserId) (domain.User, error)
	UpdateUserSettingsFunc func(id domain.UserId, settings domain.UserSettings) error
}

func (m *MockAuthStorage) SaveUser(user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return uuid.New(), nil
}

func (m *MockAuthStorage) User(email domain.Email) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(email)
	}
	return domain.User{Email: email}, nil
}

func (m *MockAuthStorage) UserById(id domain.UserId) (domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return domain.User{Id: id}, nil
}

func (m *MockAuthStorage) UpdateUserSettings(id domain.UserId, settings domain.UserSettings) error {
	if m.UpdateUserSettingsFunc != nil {
		return m.UpdateUserSettingsFunc(id, settings)
	}
	return nil
}

type MockJwtService struct {
	NewTokenFunc    func(user domain.User) (string, error)
	DecodeTokenFunc func(jwtStr string) (*jwt.Token, error)
}

func (m *MockJwtService) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token", nil
}

func (m *MockJwtService) DecodeToken(jwtStr string) (*jwt.Token, error) {
	if m.DecodeTokenFunc != nil {
		return m.DecodeTokenFunc(jwtStr)
	}
	return nil, nil
}

func TestAuthRegister(t *testing.T) {
	creds := domain.Credentials{Email: "user@example.com", Password: "password123"}
	settings := domain.UserSettings{AutoReplyEnabled: true, ReplyDelayMinutes: 5}

	t.Run("password is stored hashed", func(t *testing.T) {
		userId := uuid.New()
		storage := &MockAuthStorage{
			SaveUserFunc: func(user domain.User) (domain.UserId, error) {
				assert.Equal(t, creds.Email, user.Email)
				assert.NotEqual(t, creds.Password, user.PassHash, "password must not be stored in plain text")
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)))
				assert.True(t, user.AutoReplyEnabled)
				assert.Equal(t, 5, user.ReplyDelayMinutes)
				return userId, nil
			},
			UserByIdFunc: func(id domain.UserId) (domain.User, error) {
				assert.Equal(t, userId, id)
				return domain.User{Id: id, Email: creds.Email}, nil
			},
		}
		service := NewAuth(storage, &MockJwtService{})

		user, err := service.Register(creds, settings)
		require.NoError(t, err)
		assert.Equal(t, userId, user.Id)
	})

	t.Run("duplicate email is passed through", func(t *testing.T) {
		conflict := &internal_errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
		storage := &MockAuthStorage{
			SaveUserFunc: func(user domain.User) (domain.UserId, error) {
				return uuid.Nil, conflict
			},
		}
		service := NewAuth(storage, &MockJwtService{})

		_, err := service.Register(creds, settings)
		assert.ErrorIs(t, err, conflict)
	})
}

func TestAuthLogin(t *testing.T) {
	password := "password123"
	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := domain.User{Id: uuid.New(), Email: "user@example.com", PassHash: string(passHash)}

	t.Run("valid credentials return a token", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(email domain.Email) (domain.User, error) {
				assert.Equal(t, user.Email, email)
				return user, nil
			},
		}
		jwtService := &MockJwtService{
			NewTokenFunc: func(u domain.User) (string, error) {
				assert.Equal(t, user.Id, u.Id)
				return "signed-token", nil
			},
		}
		service := NewAuth(storage, jwtService)

		token, err := service.Login(domain.Credentials{Email: user.Email, Password: password})
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("wrong password returns 401", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(email domain.Email) (domain.User, error) { return user, nil },
		}
		service := NewAuth(storage, &MockJwtService{})

		_, err := service.Login(domain.Credentials{Email: user.Email, Password: "wrong"})
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	})

	t.Run("unknown email returns the same 401", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(email domain.Email) (domain.User, error) {
				return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
			},
		}
		service := NewAuth(storage, &MockJwtService{})

		_, err := service.Login(domain.Credentials{Email: "nobody@example.com", Password: password})
		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
		assert.Equal(t, "Invalid credentials", statusErr.Message, "must not leak whether the email exists")
	})
}

func TestAuthUpdateSettings(t *testing.T) {
	userId := uuid.New()
	settings := domain.UserSettings{AutoReplyEnabled: true, ReplyDelayMinutes: 10}

	storage := &MockAuthStorage{
		UpdateUserSettingsFunc: func(id domain.UserId, s domain.UserSettings) error {
			assert.Equal(t, userId, id)
			assert.Equal(t, settings, s)
			return nil
		},
		UserByIdFunc: func(id domain.UserId) (domain.User, error) {
			return domain.User{Id: id, AutoReplyEnabled: true, ReplyDelayMinutes: 10}, nil
		},
	}
	service := NewAuth(storage, &MockJwtService{})

	user, err := service.UpdateSettings(userId, settings)
	require.NoError(t, err)
	assert.True(t, user.AutoReplyEnabled)
	assert.Equal(t, 10, user.ReplyDelayMinutes)
}
