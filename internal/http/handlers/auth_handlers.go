package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/auth"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func createUser(w http.ResponseWriter, username, password, role string) (models.User, bool) {
	if len(username) < 3 || len(password) < 6 {
		http.Error(w, "username or password too short", http.StatusBadRequest)
		return models.User{}, false
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return models.User{}, false
	}

	now := time.Now().UTC()
	user, err := userRepo.CreateUser(models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username already exists", http.StatusConflict)
			return models.User{}, false
		}
		if errors.Is(err, repo.ErrInvalidRole) {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return models.User{}, false
		}
		logx.Error().Err(err).Str("username", username).Msg("failed to create user")
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return models.User{}, false
	}
	return user, true
}

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {string} string "Invalid input"
// @Failure 409 {string} string "User exists"
// @Router /register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "missing credentials", http.StatusBadRequest)
		return
	}

	user, ok := createUser(w, creds.Username, creds.Password, models.RoleUser)
	if !ok {
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusCreated, RegisterResult{Message: "user registered", Token: token})
}

// RegisterAsAdminHandler godoc
// @Summary Create user with custom role
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user body RegisterAsAdminRequest true "User to create with role"
// @Success 201 {object} map[string]string
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Router /admin/users [post]
func RegisterAsAdminHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterAsAdminRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" || req.Role == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if !models.ValidRole(req.Role) {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	if _, ok := createUser(w, req.Username, req.Password, req.Role); !ok {
		return
	}
	respond(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body UserLogin true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials UserLogin
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		logx.Warn().Str("username", credentials.Username).Msg("failed login attempt")
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	refresh := auth.NewRefreshToken()
	if err := refreshStore.Save(r.Context(), refresh, user.Username, refreshTTL); err != nil {
		logx.Error().Err(err).Msg("failed to store refresh token")
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh})
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Description The presented refresh token is single use.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	username, next, err := auth.Rotate(r.Context(), refreshStore, req.RefreshToken, refreshTTL)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenNotFound) {
			http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		logx.Error().Err(err).Msg("failed to rotate refresh token")
		http.Error(w, "could not refresh token", http.StatusInternalServerError)
		return
	}

	user, err := userRepo.GetByUsername(username)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	token, err := auth.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, LoginResult{Token: token, RefreshToken: next})
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 204
// @Failure 400 {string} string "Invalid input"
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if err := refreshStore.Delete(r.Context(), req.RefreshToken); err != nil {
		logx.Error().Err(err).Msg("failed to revoke refresh token")
		http.Error(w, "could not revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
