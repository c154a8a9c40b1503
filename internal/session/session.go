package session

import (
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const (
	cartKey    = "cart"
	authKey    = "logged_in"
	contextKey = "session_state"

	defaultMaxAge = 86400 * 7
)

func init() {
	gob.Register([]domain.CartItem{})
}

const (
	StoreFilesystem = "filesystem"
	StoreCookie     = "cookie"
)

type Options struct {
	Name   string
	Secret string
	// Store is StoreFilesystem (default) or StoreCookie. The cookie store
	// keeps everything in a 4KB cookie, which bounds the cart size.
	Store string
	// Dir holds filesystem sessions; empty uses a directory under os.TempDir.
	Dir    string
	Secure bool
	MaxAge int
}

// Manager loads the client's session into every request.
type Manager struct {
	store   sessions.Store
	name    string
	bounded bool
	log     *logrus.Logger
}

func NewManager(opts Options, logger *logrus.Logger) (*Manager, error) {
	if opts.Secret == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if opts.Name == "" {
		opts.Name = "storefront"
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = defaultMaxAge
	}

	hashKey := sha256.Sum256([]byte("auth:" + opts.Secret))
	blockKey := sha256.Sum256([]byte("enc:" + opts.Secret))
	cookieOpts := &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	var store sessions.Store
	switch opts.Store {
	case "", StoreFilesystem:
		dir := opts.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "storefront-sessions")
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		fs := sessions.NewFilesystemStore(dir, hashKey[:], blockKey[:])
		fs.Options = cookieOpts
		fs.MaxLength(0)
		store = fs
		logger.Infof("Session: using filesystem store in %s", dir)
	case StoreCookie:
		cs := sessions.NewCookieStore(hashKey[:], blockKey[:])
		cs.Options = cookieOpts
		store = cs
		logger.Info("Session: using cookie store")
	default:
		return nil, fmt.Errorf("unknown session store %q", opts.Store)
	}

	return &Manager{store: store, name: opts.Name, bounded: opts.Store == StoreCookie, log: logger}, nil
}

func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.store.Get(c.Request, m.name)
		if err != nil {
			// expired key or tampered cookie; gorilla hands back a fresh session
			m.log.Warnf("Session: could not decode session, starting a new one: %v", err)
		}
		if s == nil {
			s = sessions.NewSession(m.store, m.name)
		}
		c.Set(contextKey, &State{session: s, req: c.Request, w: c.Writer, bounded: m.bounded})
		c.Next()
	}
}

// FromContext returns the state loaded by Middleware.
func FromContext(c *gin.Context) *State {
	return c.MustGet(contextKey).(*State)
}

// State is the per-client session: cart sequence, admin flag and flash
// messages. Every mutation is written back immediately.
type State struct {
	session *sessions.Session
	req     *http.Request
	w       http.ResponseWriter
	bounded bool
}

var (
	_ domain.CartStore = (*State)(nil)
	_ domain.AuthState = (*State)(nil)
)

func (s *State) Items() []domain.CartItem {
	items, _ := s.session.Values[cartKey].([]domain.CartItem)
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}

// Append returns domain.ErrCartFull when a cookie-backed session cannot hold
// another item; the cart is left as it was.
func (s *State) Append(item domain.CartItem) error {
	prev := s.Items()
	s.session.Values[cartKey] = append(s.Items(), item)
	err := s.save()
	if err != nil && s.bounded {
		s.session.Values[cartKey] = prev
		return fmt.Errorf("%w: %v", domain.ErrCartFull, err)
	}
	return err
}

func (s *State) Clear() error {
	delete(s.session.Values, cartKey)
	return s.save()
}

func (s *State) Authenticated() bool {
	v, _ := s.session.Values[authKey].(bool)
	return v
}

func (s *State) SetAuthenticated(v bool) error {
	if v {
		s.session.Values[authKey] = true
	} else {
		delete(s.session.Values, authKey)
	}
	return s.save()
}

func (s *State) AddFlash(msg string) error {
	s.session.AddFlash(msg)
	return s.save()
}

// Flashes consumes the pending flash messages.
func (s *State) Flashes() ([]string, error) {
	raw := s.session.Flashes()
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	if len(raw) == 0 {
		return msgs, nil
	}
	return msgs, s.save()
}

func (s *State) save() error {
	if err := s.session.Save(s.req, s.w); err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}
