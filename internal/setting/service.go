package setting

import (
	"context"
	"errors"

	"github.com/Shynif/nuit-de-linfo-2025/internal/setting/entity"
	"github.com/Shynif/nuit-de-linfo-2025/internal/setting/repo"
)

// Store is the persistence the service depends on.
type Store interface {
	Get(ctx context.Context, id string) (*entity.AccountSettings, error)
	SetPublic(ctx context.Context, id string, public bool) (int64, error)
}

// Service encapsulates account settings logic.
type Service struct {
	store Store
	// OnVisibilityChange runs after a successful visibility update.
	OnVisibilityChange func()
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

var ErrNotFound = errors.New("not found")

// Get returns the settings of the given user.
func (s *Service) Get(ctx context.Context, userID string) (*entity.AccountSettings, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

// SetPublic shows or hides the user on the leaderboard.
func (s *Service) SetPublic(ctx context.Context, userID string, public bool) error {
	rows, err := s.store.SetPublic(ctx, userID, public)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	if s.OnVisibilityChange != nil {
		s.OnVisibilityChange()
	}
	return nil
}
