package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// JWTProvider issues and validates HS256 tokens. Validation re-reads the
// user so revoked accounts drop out as soon as the row is gone.
type JWTProvider struct {
	secret []byte
	issuer string
	users  storage.UserRepository
	logger internal.Logger
	now    func() time.Time
}

func NewJWTProvider(secret, issuer string, users storage.UserRepository, logger internal.Logger) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
		issuer: issuer,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

func (p *JWTProvider) IssueToken(u *internal.User) (string, error) {
	now := p.now()
	claims := &Claims{
		Email: u.Email,
		Name:  u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *JWTProvider) Authenticate(ctx context.Context, tokenString string) (*internal.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		p.logger.Warnf("invalid token: %v", err)
		return nil, internal.UnauthorizedError("invalid or expired token")
	}

	user, err := p.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		p.logger.Warnf("token for unknown user %s", claims.Subject)
		return nil, internal.UnauthorizedError("unknown user")
	}
	return user, nil
}

var _ Provider = (*JWTProvider)(nil)
