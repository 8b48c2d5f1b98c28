package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/access"
)

// AccessServiceImpl implements the AccessService interface
type AccessServiceImpl struct {
	accessRepo access.Repository
	logger     *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(accessRepo access.Repository, logger *slog.Logger) AccessService {
	return &AccessServiceImpl{
		accessRepo: accessRepo,
		logger:     logger,
	}
}

// Grant upserts the (account, user) record: a missing record is created
// GRANTED with the given type, an existing one gets its type updated and its
// state restored to GRANTED. Repeated grants never error.
func (s *AccessServiceImpl) Grant(ctx context.Context, accountID, userID uuid.UUID, accessType access.Type) (*access.AccountAccess, error) {
	existing, err := s.accessRepo.Find(ctx, accountID, userID)
	if err != nil {
		if !errors.Is(err, access.ErrAccessNotFound{}) {
			return nil, err
		}

		grant, err := access.NewGrant(accountID, userID, accessType)
		if err != nil {
			return nil, err
		}
		if err := s.accessRepo.Create(ctx, grant); err != nil {
			return nil, err
		}

		s.logger.Info("Access granted", "account_id", accountID.String(), "user_id", userID.String(), "type", string(accessType))
		return grant, nil
	}

	if err := existing.Regrant(accessType); err != nil {
		return nil, err
	}
	if err := s.accessRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("Access re-granted", "account_id", accountID.String(), "user_id", userID.String(), "type", string(accessType))
	return existing, nil
}

// Revoke marks the record REVOKED. Revoking an already revoked record leaves
// it REVOKED; a missing record is an error.
func (s *AccessServiceImpl) Revoke(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error) {
	existing, err := s.accessRepo.Find(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	existing.Revoke()
	if err := s.accessRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("Access revoked", "account_id", accountID.String(), "user_id", userID.String())
	return existing, nil
}

// FindAccess looks up the record for the pair
func (s *AccessServiceImpl) FindAccess(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error) {
	return s.accessRepo.Find(ctx, accountID, userID)
}
