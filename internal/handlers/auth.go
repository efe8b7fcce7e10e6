package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/token"
)

// AuthHandler exposes the public login endpoint.
type AuthHandler struct {
	authService *services.AuthService
	issuer      *token.Issuer
}

func NewAuthHandler(authService *services.AuthService, issuer *token.Issuer) *AuthHandler {
	return &AuthHandler{authService: authService, issuer: issuer}
}

// LoginResponse carries the identity token issued on a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies a username/password pair and returns an identity token.
// The failure message is identical for an unknown username and a wrong
// password so the response does not leak which one was at fault.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields := decodeFields(r)
	if fields == nil {
		writeMsg(w, http.StatusBadRequest, "Missing JSON In Request")
		return
	}

	req := loginRequest{
		Username: stringField(fields, "username"),
		Password: stringField(fields, "password"),
	}
	if req.Username == "" {
		writeMsg(w, http.StatusBadRequest, "Missing username parameter")
		return
	}
	if req.Password == "" {
		writeMsg(w, http.StatusBadRequest, "Missing password parameter")
		return
	}

	identity, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			writeMsg(w, http.StatusUnauthorized, "Bad Username Or Password")
			return
		}
		writeMsg(w, http.StatusInternalServerError, "Failed To Authenticate")
		return
	}

	signed, err := h.issuer.Issue(identity)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, "Failed To Create Token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: signed})
}

// RequireAuth verifies the bearer token and injects the recovered
// identity into the request context. Requests with a missing or invalid
// token never reach the business handlers.
func RequireAuth(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeMsg(w, http.StatusUnauthorized, "Missing Authorization Header")
				return
			}

			identity, err := issuer.Verify(tokenString)
			if err != nil {
				writeMsg(w, http.StatusUnauthorized, "Invalid Token")
				return
			}

			ctx := context.WithValue(r.Context(), contextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	value := strings.TrimSpace(parts[1])
	if value == "" {
		return "", errors.New("invalid authorization")
	}
	return value, nil
}
