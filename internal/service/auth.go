package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/auth"
	"github.com/danilofortes/stackhabit/internal/storage"
)

var validate = validator.New()

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string         `json:"token"`
	User  *internal.User `json:"user"`
}

type TokenIssuer interface {
	IssueToken(u *internal.User) (string, error)
}

func Register(ctx context.Context, users storage.UserRepository, issuer TokenIssuer, req *RegisterRequest) (*AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &internal.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		CreatedAt:    now(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, internal.ConflictError("email already in use")
		}
		return nil, err
	}

	token, err := issuer.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func Login(ctx context.Context, users storage.UserRepository, issuer TokenIssuer, req *LoginRequest) (*AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}

	user, err := users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.UnauthorizedError("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, internal.UnauthorizedError("invalid email or password")
	}

	token, err := issuer.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
