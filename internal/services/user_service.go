package services

import (
	"errors"
	"log"
	"time"

	"curio/internal/models"
	"curio/internal/repositories"

	"curio/pkg/filestore"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profile changes and account deletion.
type UserService struct {
	store repositories.Store
	files filestore.Store
}

// NewUserService creates a new UserService.
func NewUserService(store repositories.Store, files filestore.Store) *UserService {
	return &UserService{store: store, files: files}
}

// UpdateUsername changes the user's username after verifying the current
// password. The new name must not belong to another user.
func (s *UserService) UpdateUsername(userID, newUsername, currentPassword string) (*models.User, error) {
	user, err := s.store.Users().GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if existing, err := s.store.Users().GetByUsername(newUsername); err == nil && existing.ID != userID {
		return nil, conflictf("username %q already taken", newUsername)
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user.Username = newUsername
	user.UpdatedDate = time.Now().UTC()
	if err := s.store.Users().Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything they own in one explicit
// ordered cascade: images, tag associations, items, shares, collections,
// then the user row. Requires password verification. Stored files are
// removed after commit, best-effort.
func (s *UserService) DeleteAccount(userID, currentPassword string) error {
	user, err := s.store.Users().GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	var orphanedURLs []string
	err = s.store.InTransaction(func(tx repositories.Store) error {
		images, err := tx.Images().ListByOwner(userID)
		if err != nil {
			return err
		}
		for _, img := range images {
			orphanedURLs = append(orphanedURLs, img.ImageURL)
		}

		if err := tx.Images().DeleteByOwner(userID); err != nil {
			return err
		}
		if err := tx.Tags().ClearByOwner(userID); err != nil {
			return err
		}
		if err := tx.Items().DeleteByOwner(userID); err != nil {
			return err
		}
		if err := tx.Shares().DeleteByOwner(userID); err != nil {
			return err
		}
		if err := tx.Collections().DeleteByOwner(userID); err != nil {
			return err
		}
		return tx.Users().Delete(userID)
	})
	if err != nil {
		return err
	}

	for _, url := range orphanedURLs {
		if err := s.files.Remove(url); err != nil {
			log.Printf("Failed to remove stored file %s: %v", url, err)
		}
	}
	return nil
}
