// Package auth issues and verifies the bearer tokens guarding the
// authenticated part of the reporting API.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/lestrrat-go/jwx/jwt"
)

const (
	// RefreshTokenSub marks refresh tokens so they can't be replayed as
	// access tokens.
	RefreshTokenSub = "refresh"

	tokenIssuer = "reports.grocerly.io"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 24 * time.Hour
)

// Config contains the configuration for the auth server.
type Config struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	AdminSecret string `mapstructure:"admin_secret"`
}

// Server holds the JWT key material and the admin secret tokens are issued
// against.
type Server struct {
	jwtAuth *jwtauth.JWTAuth
	c       *Config
}

// New creates a new auth server.
func New(c *Config) (*Server, error) {
	if c.JWTSecret == "" || c.AdminSecret == "" {
		return nil, fmt.Errorf("jwt secret and admin secret must be set")
	}
	return &Server{
		jwtAuth: jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		c:       c,
	}, nil
}

type AuthRequest struct {
	Password     string `json:"password"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (a *AuthRequest) Bind(r *http.Request) error {
	if a.Password == "" && a.RefreshToken == "" {
		return fmt.Errorf("neither password nor refresh token was sent")
	}
	return nil
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (a *AuthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Tokens issues a fresh access/refresh token pair.
func (s *Server) Tokens() (*AuthResponse, error) {
	_, ts, err := s.jwtAuth.Encode(map[string]interface{}{
		"iss": tokenIssuer,
		"exp": time.Now().Add(accessTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	_, rts, err := s.jwtAuth.Encode(map[string]interface{}{
		"sub": RefreshTokenSub,
		"exp": time.Now().Add(refreshTokenTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  ts,
		RefreshToken: rts,
	}, nil
}

// Login exchanges the admin password or a refresh token for a token pair.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	ar := &AuthRequest{}

	if err := render.Bind(r, ar); err != nil {
		slog.Default().ErrorContext(r.Context(), "login bind failed",
			slog.String("err", err.Error()),
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}

	authorized := false

	if ar.Password != "" && ar.Password == s.c.AdminSecret {
		authorized = true
	}

	if ar.RefreshToken != "" {
		rt, err := jwtauth.VerifyToken(s.jwtAuth, ar.RefreshToken)
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}
		if rt.Subject() == RefreshTokenSub {
			authorized = true
		}
	}

	if !authorized {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "password or refresh token is invalid"})
		return
	}

	tokens, err := s.Tokens()
	if err != nil {
		slog.Default().ErrorContext(r.Context(), "token issue failed",
			slog.String("err", err.Error()),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "can't issue token"})
		return
	}
	render.Render(w, r, tokens)
}

// Verifier extracts the bearer token from incoming requests.
func (s *Server) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(s.jwtAuth)
}

// Authenticator rejects requests without a valid access token. Refresh tokens
// are only good for Login.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": err.Error()})
			return
		}

		if token == nil || jwt.Validate(token) != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "invalid token"})
			return
		}

		if token.Subject() == RefreshTokenSub {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "use access token instead"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Principal describes the authenticated caller of /user.
type Principal struct {
	Issuer    string    `json:"issuer"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PrincipalFromContext reads the verified token back out of the request
// context.
func PrincipalFromContext(r *http.Request) (*Principal, error) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("no token in context")
	}
	return &Principal{
		Issuer:    token.Issuer(),
		Subject:   token.Subject(),
		ExpiresAt: token.Expiration(),
	}, nil
}
