package auth

import (
	"context"

	"github.com/danilofortes/stackhabit/internal"
)

// Provider resolves a bearer token into the authenticated user. The rest
// of the service never authenticates directly.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}
