package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/andy/tasktimer/internal/crypto"
	"github.com/andy/tasktimer/internal/storage"
	"github.com/sirupsen/logrus"
)

// DataWiper erases every stored record
type DataWiper interface {
	Wipe(ctx context.Context) error
}

// AccountService handles operations on the user's whole data set
type AccountService interface {
	// DeleteAccount verifies the password, then erases all projects, tasks,
	// sessions and attachments and forgets the stored database key.
	DeleteAccount(ctx context.Context, password string) error
}

type accountService struct {
	wiper   DataWiper
	store   storage.FileStore
	keyring crypto.Keyring
	log     logrus.FieldLogger
}

// NewAccountService creates a new account service
func NewAccountService(
	wiper DataWiper,
	store storage.FileStore,
	keyring crypto.Keyring,
	log logrus.FieldLogger,
) AccountService {
	return &accountService{
		wiper:   wiper,
		store:   store,
		keyring: keyring,
		log:     log,
	}
}

func (s *accountService) DeleteAccount(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("password is required to delete your account")
	}

	key, err := s.keyring.GetKey()
	if err != nil {
		return fmt.Errorf("failed to read database key: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(password)) != 1 {
		return ErrInvalidPassword
	}

	// Rows go first so no attachment row is left pointing at a missing blob
	if err := s.wiper.Wipe(ctx); err != nil {
		return fmt.Errorf("failed to delete account data: %w", err)
	}
	if err := s.store.RemoveAll(); err != nil {
		s.log.WithError(err).Warn("account data deleted but attachment blobs were not removed")
	}

	// The data is gone either way; a key that cannot be removed only needs
	// manual cleanup.
	if err := s.keyring.DeleteKey(); err != nil {
		s.log.WithError(err).Warn("account data deleted but database key was not removed")
	}

	s.log.Info("account deleted")
	return nil
}
