package service

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/bloghub-dev/bloghub/shared/domain"
	"github.com/bloghub-dev/bloghub/shared/errors"
	"github.com/bloghub-dev/bloghub/shared/jwt"
	"github.com/bloghub-dev/bloghub/shared/logger"
)

type AuthService interface {
	Register(creds domain.Credentials, settings domain.UserSettings) (domain.User, error)
	Login(creds domain.Credentials) (string, error)
	Me(userId domain.UserId) (domain.User, error)
	UpdateSettings(userId domain.UserId, settings domain.UserSettings) (domain.User, error)
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdateUserSettings(id domain.UserId, settings domain.UserSettings) error
}

type Auth struct {
	storage AuthStorage
	jwt     jwt.JwtService
}

func NewAuth(storage AuthStorage, jwtService jwt.JwtService) AuthService {
	return &Auth{storage: storage, jwt: jwtService}
}

// Register hashes the password and creates the user together with their
// auto-reply settings. A duplicate email surfaces as 409 from storage.
func (a *Auth) Register(creds domain.Credentials, settings domain.UserSettings) (domain.User, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{
		Email:             creds.Email,
		PassHash:          string(passHash),
		AutoReplyEnabled:  settings.AutoReplyEnabled,
		ReplyDelayMinutes: settings.ReplyDelayMinutes,
	}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}
	return a.storage.UserById(id)
}

// Login verifies the credentials and returns a signed access token.
// A missing user and a wrong password produce the same 401 so the endpoint
// does not leak which emails are registered.
func (a *Auth) Login(creds domain.Credentials) (string, error) {
	invalidCreds := &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

	user, err := a.storage.User(creds.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", invalidCreds
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", invalidCreds
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (a *Auth) Me(userId domain.UserId) (domain.User, error) {
	return a.storage.UserById(userId)
}

// UpdateSettings persists the new auto-reply settings and returns the
// refreshed user.
func (a *Auth) UpdateSettings(userId domain.UserId, settings domain.UserSettings) (domain.User, error) {
	if err := a.storage.UpdateUserSettings(userId, settings); err != nil {
		return domain.User{}, err
	}
	return a.storage.UserById(userId)
}
