package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"plantshop/internal/api"
	"plantshop/internal/models"
	"plantshop/pkg/localstore"
)

// AuthService holds the client session: the signed-in user and their
// bearer token, mirrored into the local store so the session survives
// restarts. It doubles as the API client's TokenSource, and its
// HandleUnauthorized is wired to the client's 401 hook so stored
// credentials are dropped the moment the backend rejects them.
type AuthService struct {
	api   api.UserAPI
	store *localstore.Store

	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool
	err     string
}

// NewAuthService creates the session store. store may be nil for a
// purely in-memory session (tests).
func NewAuthService(userAPI api.UserAPI, store *localstore.Store) *AuthService {
	return &AuthService{api: userAPI, store: store}
}

// Restore loads a persisted session, discarding it if the token has
// already expired. Call once at startup.
func (s *AuthService) Restore() error {
	if s.store == nil {
		return nil
	}
	token, user, err := s.store.Load()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if tokenExpired(token) {
		log.Printf("Stored session has expired; clearing")
		return s.store.Clear()
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// Register creates a new account. The caller still has to log in.
func (s *AuthService) Register(ctx context.Context, user models.User) (*models.User, error) {
	s.begin()
	created, err := s.api.Register(ctx, user)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		return nil, err
	}
	return created, nil
}

// Login authenticates, stores the session in memory, and persists it.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	s.begin()
	result, err := s.api.Login(ctx, username, password)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = err.Error()
		s.mu.Unlock()
		return err
	}
	s.token = result.Token
	user := result.User
	s.user = &user
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(result.Token, &user); err != nil {
			log.Printf("Warning: failed to persist session: %v", err)
		}
	}
	return nil
}

// Logout drops the in-memory session and the persisted copy.
func (s *AuthService) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.err = ""
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			log.Printf("Warning: failed to clear persisted session: %v", err)
		}
	}
}

// HandleUnauthorized implements the global 401 policy: clear stored
// credentials so the UI falls back to the login route.
func (s *AuthService) HandleUnauthorized() {
	log.Printf("Backend returned 401; clearing session")
	s.Logout()
}

// Token implements api.TokenSource.
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, or nil.
func (s *AuthService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// SignedIn reports whether a session is active.
func (s *AuthService) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAdmin reports whether the signed-in user has admin rights.
func (s *AuthService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// Error returns the last auth error, or "".
func (s *AuthService) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Loading reports whether an auth request is in flight.
func (s *AuthService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthService) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the backend's job, this is only a local
// pre-check to avoid doomed requests.
func tokenExpired(tokenString string) bool {
	parser := jwt.Parser{}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		// An unparseable token is as good as expired.
		return true
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}

// ensure the service satisfies the client's token interface
var _ api.TokenSource = (*AuthService)(nil)
