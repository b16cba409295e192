package store

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"

	"neo4j-explorer-backend/internal/config"
)

// Session adapts a gorilla session to KV. Every write is followed by a
// single Save so the backing file and cookie change together.
type Session struct {
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
}

func NewSession(session *sessions.Session, r *http.Request, w http.ResponseWriter) *Session {
	return &Session{session: session, r: r, w: w}
}

func (s *Session) Get(key string) (string, bool) {
	value, ok := s.session.Values[key]
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func (s *Session) SetAll(values map[string]string) error {
	previous := s.snapshot()
	for k, v := range values {
		s.session.Values[k] = v
	}
	if err := s.session.Save(s.r, s.w); err != nil {
		s.session.Values = previous
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Session) Clear() error {
	previous := s.snapshot()
	for k := range s.session.Values {
		delete(s.session.Values, k)
	}
	if err := s.session.Save(s.r, s.w); err != nil {
		s.session.Values = previous
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Session) snapshot() map[interface{}]interface{} {
	values := make(map[interface{}]interface{}, len(s.session.Values))
	for k, v := range s.session.Values {
		values[k] = v
	}
	return values
}

// NewSessionBackend returns a filesystem-backed session store. The cookie
// only carries the session id.
func NewSessionBackend(cfg config.SessionConfig) (*sessions.FilesystemStore, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}

	hashKey, blockKey, err := deriveKeys(secret)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	fs := sessions.NewFilesystemStore(cfg.Dir, hashKey, blockKey)
	// the node list can outgrow the default 4096 byte limit
	fs.MaxLength(0)
	fs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return fs, nil
}

func deriveKeys(secret []byte) (hashKey, blockKey []byte, err error) {
	kdf := hkdf.New(sha256.New, secret, nil, []byte("neo4j-explorer session keys"))
	hashKey = make([]byte, 64)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive hash key: %w", err)
	}
	if _, err := io.ReadFull(kdf, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive block key: %w", err)
	}
	return hashKey, blockKey, nil
}
