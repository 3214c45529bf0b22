package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
	userrepo "github.com/Shynif/nuit-de-linfo-2025/internal/user/repo"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

// PasswordHasher is the credential hasher the service relies on.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, stored string) (bool, error)
}

// Store is the persistence the service needs. Lookups return nil, nil when the
// row does not exist.
type Store interface {
	Create(ctx context.Context, u *entity.User) error
	GetByName(ctx context.Context, name string) (*entity.User, error)
	UpdateHighscoreIfGreater(ctx context.Context, id string, score int) (found, raised bool, err error)
}

// UserService orchestrates registration, login and score submission.
type UserService struct {
	store  Store
	hasher PasswordHasher
	newID  func() string
	// OnHighscore runs after a submitted score raised a highscore.
	OnHighscore func()
}

func NewUserService(store Store, hasher PasswordHasher) *UserService {
	return &UserService{store: store, hasher: hasher, newID: utilities.NewUserID}
}

var (
	ErrMissingCredentials = errors.New("missing username or password")
	ErrNameTaken          = errors.New("username already taken")
	ErrBadCredentials     = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Register creates a visible account with a zero highscore.
func (s *UserService) Register(ctx context.Context, name, password string) (*entity.User, error) {
	if name == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	existing, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrNameTaken
	}
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{ID: s.newID(), Name: name, Password: hash, Highscore: 0, Public: true}
	if err := s.store.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, userrepo.ErrDuplicateName) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks name and password. An unknown name and a wrong password
// both yield ErrBadCredentials after one key derivation.
func (s *UserService) Authenticate(ctx context.Context, name, password string) (*entity.User, error) {
	if name == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.store.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	stored := ""
	if u != nil {
		stored = u.Password
	}
	// an empty stored value still costs one derivation
	ok, err := s.hasher.Verify(ctx, password, stored)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if u == nil || !ok {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// SubmitScore records score as the new highscore when it beats the current one.
func (s *UserService) SubmitScore(ctx context.Context, userID string, score int) (bool, error) {
	found, raised, err := s.store.UpdateHighscoreIfGreater(ctx, userID, score)
	if err != nil {
		return false, fmt.Errorf("update highscore: %w", err)
	}
	if !found {
		return false, ErrUserNotFound
	}
	if raised && s.OnHighscore != nil {
		s.OnHighscore()
	}
	return raised, nil
}
