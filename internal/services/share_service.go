package services

import (
	"errors"
	"fmt"

	"curio/internal/models"
	"curio/internal/repositories"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ShareService handles the per-collection public share link. A share moves
// between absent, enabled, and disabled; only an enabled share's token
// resolves publicly.
type ShareService struct {
	store repositories.Store
}

// NewShareService creates a new ShareService.
func NewShareService(store repositories.Store) *ShareService {
	return &ShareService{store: store}
}

// CreateOrEnable ensures a collection has an enabled share. With no share
// yet, a token is minted; a disabled share is re-enabled with its existing
// token; an enabled share is untouched. rotate forces a fresh token in every
// state, permanently invalidating the old one.
func (s *ShareService) CreateOrEnable(userID, collectionID string, rotate bool) (*models.CollectionShare, error) {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return nil, err
	}

	share, err := s.store.Shares().GetByCollection(collectionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		token, err := mintShareToken()
		if err != nil {
			return nil, err
		}
		share = &models.CollectionShare{
			CollectionID: collectionID,
			Token:        token,
			IsEnabled:    true,
		}
		if err := s.store.Shares().Create(share); err != nil {
			return nil, err
		}
		return share, nil
	}

	if rotate {
		token, err := mintShareToken()
		if err != nil {
			return nil, err
		}
		share.Token = token
	}
	share.IsEnabled = true
	if err := s.store.Shares().Save(share); err != nil {
		return nil, err
	}
	return share, nil
}

// Disable turns off an existing share. The token is kept so a later enable
// without rotation restores the same link. Disabling an already disabled
// share is idempotent; a collection without a share is not found.
func (s *ShareService) Disable(userID, collectionID string) error {
	if _, err := s.store.Collections().GetOwned(userID, collectionID); err != nil {
		return err
	}
	share, err := s.store.Shares().GetByCollection(collectionID)
	if err != nil {
		return err
	}
	if !share.IsEnabled {
		return nil
	}
	share.IsEnabled = false
	return s.store.Shares().Save(share)
}

// Resolve returns the shared collection for an enabled token. Disabled and
// unknown tokens produce the same not-found failure.
func (s *ShareService) Resolve(token string) (*models.Collection, error) {
	share, err := s.store.Shares().GetEnabledByToken(token)
	if err != nil {
		return nil, err
	}
	return s.store.Collections().GetByID(share.CollectionID)
}

// ResolveItem returns one item of the shared collection. An item id valid
// elsewhere but outside the shared collection is rejected, not served.
func (s *ShareService) ResolveItem(token, itemID string) (*models.Item, error) {
	share, err := s.store.Shares().GetEnabledByToken(token)
	if err != nil {
		return nil, err
	}
	return s.store.Items().GetInCollection(share.CollectionID, itemID)
}

func mintShareToken() (string, error) {
	token, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to mint share token: %w", err)
	}
	return token, nil
}
