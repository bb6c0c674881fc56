package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/shindora/internal/accounts/store"
	"github.com/example/shindora/internal/domain"
	"github.com/example/shindora/internal/platform/api"
	"github.com/example/shindora/internal/platform/auth"
	"github.com/example/shindora/internal/platform/events"
	"github.com/example/shindora/internal/platform/httpserver"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
	resetTokenTTL  = 30 * time.Minute
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	AvatarURL *string `json:"avatar_url"`
	Password  *string `json:"password"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        store.User `json:"user"`
}

func reqID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		api.Unauthorized(w, "UNAUTHENTICATED", "authentication required", reqID(r))
		return "", false
	}
	return userID, true
}

func validateUsername(username string) error {
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters: %w", minUsernameLen, maxUsernameLen, domain.ErrInvalidArgument)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, domain.ErrInvalidArgument)
	}
	return nil
}

func defaultAvatarURL(username string) string {
	return "https://ui-avatars.com/api/?background=random&name=" + url.QueryEscape(username)
}

// Register handles POST /api/auth/register
func Register(us store.Store, tokens auth.Tokens, pub *events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		username := strings.TrimSpace(req.Username)
		if err := validateUsername(username); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		if err := validatePassword(req.Password); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			api.Internal(w, reqID(r))
			return
		}
		u, err := us.Create(r.Context(), store.User{
			Username:     username,
			Email:        strings.TrimSpace(req.Email),
			AvatarURL:    defaultAvatarURL(username),
			Role:         "user",
			PasswordHash: hash,
		})
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		pub.Publish(events.SubjectAuthRegistered, "user_registered", u.ID, map[string]any{"username": u.Username})
		writeToken(w, tokens, u, reqID(r))
	}
}

// Login handles POST /api/auth/login
func Login(us store.Store, tokens auth.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		u, err := us.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
		if errors.Is(err, domain.ErrNotFound) {
			api.Unauthorized(w, "BAD_CREDENTIALS", "incorrect username or password", reqID(r))
			return
		}
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
			api.Unauthorized(w, "BAD_CREDENTIALS", "incorrect username or password", reqID(r))
			return
		}
		writeToken(w, tokens, u, reqID(r))
	}
}

func writeToken(w http.ResponseWriter, tokens auth.Tokens, u store.User, requestID string) {
	signed, exp, err := tokens.Issue(u.ID, u.Role, time.Now().UTC())
	if err != nil {
		api.Internal(w, requestID)
		return
	}
	api.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   exp,
		User:        u,
	})
}

// Me handles GET /api/auth/me
func Me(us store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		u, err := us.GetByID(r.Context(), userID)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}

// UpdateProfile handles PUT /api/auth/profile
func UpdateProfile(us store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requesterID(w, r)
		if !ok {
			return
		}
		var req updateProfileRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		in := store.UpdateInput{Email: req.Email, AvatarURL: req.AvatarURL}
		if req.Username != nil {
			username := strings.TrimSpace(*req.Username)
			if err := validateUsername(username); err != nil {
				domain.WriteHTTP(w, reqID(r), err)
				return
			}
			in.Username = &username
		}
		if req.Password != nil {
			if err := validatePassword(*req.Password); err != nil {
				domain.WriteHTTP(w, reqID(r), err)
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				api.Internal(w, reqID(r))
				return
			}
			in.PasswordHash = hash
		}
		u, err := us.Update(r.Context(), userID, in)
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// hashResetToken is the stored form of a reset token. Only the digest is
// persisted, so a leaked resets table cannot be replayed.
func hashResetToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

// ForgotPassword handles POST /api/auth/forgot-password
// The response is the same whether or not the email is known, so the
// endpoint cannot be used to enumerate accounts. The token itself goes out
// through the delivery channel (logged in development deployments).
func ForgotPassword(us store.Store, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		accepted := func() {
			api.WriteJSON(w, http.StatusOK, map[string]string{
				"status": "ok",
				"detail": "if the email is registered, a reset token has been issued",
			})
		}
		u, err := us.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
		if err != nil {
			accepted()
			return
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			api.Internal(w, reqID(r))
			return
		}
		token := hex.EncodeToString(buf)
		err = us.SaveResetToken(r.Context(), store.ResetToken{
			Hash:      hashResetToken(token),
			UserID:    u.ID,
			ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
		})
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		log.Info("password reset token issued",
			zap.String("user_id", u.ID),
			zap.String("reset_token", token))
		accepted()
	}
}

// ResetPassword handles POST /api/auth/reset-password
func ResetPassword(us store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := api.Decode(w, r, &req); err != nil {
			api.BadRequest(w, "INVALID_BODY", "invalid request body", reqID(r), nil)
			return
		}
		if err := validatePassword(req.NewPassword); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		userID, err := us.ConsumeResetToken(r.Context(), hashResetToken(req.Token), time.Now().UTC())
		if err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			api.Internal(w, reqID(r))
			return
		}
		if _, err := us.Update(r.Context(), userID, store.UpdateInput{PasswordHash: hash}); err != nil {
			domain.WriteHTTP(w, reqID(r), err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
	}
}
