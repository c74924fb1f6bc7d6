// Package services contains server-side business logic: credential issuance,
// course authoring behind the ownership guard, and the purchase ledger.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TokenIssuer mints a bearer token for a principal of the given kind.
type TokenIssuer interface {
	Issue(principalID string, kind models.Kind) (string, error)
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) bool
	CompareDummy(password string) bool
}

// AuthService registers principals and exchanges credentials for tokens.
// Users and admins go through the same code with a different kind.
type AuthService struct {
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hasher      PasswordHasher
}

func NewAuthService(m repomanager.RepositoryManager, tokens TokenIssuer, hasher PasswordHasher) *AuthService {
	return &AuthService{repomanager: m, tokens: tokens, hasher: hasher}
}

// Signup creates a principal of kind. An email already registered for that
// kind yields common.ErrDuplicateIdentity, including when two signups race
// and the store rejects the second insert.
func (s *AuthService) Signup(ctx context.Context, kind models.Kind, in SignupInput) (*models.Principal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Principals()

	_, err := repo.GetByEmail(ctx, kind, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateIdentity
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	p, err := repo.Create(ctx, &models.Principal{
		ID:           uuid.NewString(),
		Kind:         kind,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return p, nil
}

// Signin verifies the credentials and returns a token scoped to kind.
func (s *AuthService) Signin(ctx context.Context, kind models.Kind, in SigninInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	p, err := s.repomanager.Principals().GetByEmail(ctx, kind, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(in.Password)
			return "", common.ErrUnknownIdentity
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Compare(p.PasswordHash, in.Password) {
		return "", common.ErrBadCredentials
	}

	token, err := s.tokens.Issue(p.ID, kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}
