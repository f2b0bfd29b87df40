package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/config"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/models"
)

var (
	ErrMissingCredential = fmt.Errorf("%w: lipsește tokenul", apperr.ErrUnauthorized)
	ErrInvalidCredential = fmt.Errorf("%w: token invalid sau expirat", apperr.ErrUnauthorized)
	ErrWeakSecret        = errors.New("JWT_SECRET_KEY lipsește sau este prea scurt")
)

// Identity is the caller resolved from a verified token. The token is the only
// source of truth for the role, nothing is re-read from the database.
type Identity struct {
	UserID string
	Email  string
	Role   models.Role
}

type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Gate struct {
	secret    []byte
	ttl       time.Duration
	ephemeral bool
}

// NewGate builds the gate from configuration. When the configured secret is
// absent or shorter than MinSecretLength a random secret is generated for the
// lifetime of the process, so tokens do not survive a restart. With
// RequireSecret set the weak secret is an error instead.
func NewGate(cfg config.Auth) (*Gate, error) {
	ttl := cfg.AccessTokenDuration
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}

	if len(cfg.JWTSecretKey) >= cfg.MinSecretLength && cfg.JWTSecretKey != "" {
		return &Gate{secret: []byte(cfg.JWTSecretKey), ttl: ttl}, nil
	}

	if cfg.RequireSecret {
		return nil, fmt.Errorf("%w (minim %d caractere)", ErrWeakSecret, cfg.MinSecretLength)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("eroare la generarea secretului efemer: %w", err)
	}

	logger.Warningf("JWT_SECRET_KEY lipsește sau are sub %d caractere: se folosește un secret efemer, "+
		"tokenurile emise devin invalide la repornirea procesului", cfg.MinSecretLength)

	return &Gate{secret: []byte(hex.EncodeToString(secret)), ttl: ttl, ephemeral: true}, nil
}

// Ephemeral reports whether the signing secret was generated at startup.
func (g *Gate) Ephemeral() bool {
	return g.ephemeral
}

func (g *Gate) Issue(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("eroare la semnarea tokenului: %w", err)
	}
	return signed, nil
}

func (g *Gate) Authenticate(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingCredential
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("metodă de semnare neașteptată: %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		// Parser detail stays in the log; callers only ever see the sentinel.
		logger.Debugf("token respins: %v", err)
		return nil, ErrInvalidCredential
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.UserID == "" || c.Role == "" {
		return nil, ErrInvalidCredential
	}

	return &Identity{UserID: c.UserID, Email: c.Email, Role: models.Role(c.Role)}, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: format Authorization invalid", ErrInvalidCredential)
	}
	return strings.TrimSpace(parts[1]), nil
}

// Authorize checks the identity's role against allowed. An empty allowed set
// accepts any authenticated identity.
func Authorize(id *Identity, allowed ...models.Role) error {
	if id == nil {
		return ErrMissingCredential
	}
	if len(allowed) == 0 {
		return nil
	}
	for _, role := range allowed {
		if id.Role.Is(role) {
			return nil
		}
	}
	return apperr.Forbidden("rolul %s nu are acces la această operațiune", id.Role)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
