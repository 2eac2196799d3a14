package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// SessionJar is a cookie jar whose cookies for the backend host survive
// across CLI invocations via a JSON file in the data dir.
type SessionJar struct {
	mu   sync.Mutex
	jar  http.CookieJar
	path string
	base *url.URL
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OpenSessionJar loads any saved session for baseURL from path.
func OpenSessionJar(path, baseURL string) (*SessionJar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	s := &SessionJar{jar: jar, path: path, base: base}
	s.load()
	return s, nil
}

func (s *SessionJar) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var stored []storedCookie
	if json.Unmarshal(data, &stored) != nil {
		return
	}
	cookies := make([]*http.Cookie, len(stored))
	for i, c := range stored {
		cookies[i] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	s.jar.SetCookies(s.base, cookies)
}

func (s *SessionJar) save() {
	cookies := s.jar.Cookies(s.base)
	stored := make([]storedCookie, len(cookies))
	for i, c := range cookies {
		stored[i] = storedCookie{Name: c.Name, Value: c.Value}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	os.WriteFile(s.path, data, 0o600)
}

// Cookies implements http.CookieJar.
func (s *SessionJar) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jar.Cookies(u)
}

// SetCookies implements http.CookieJar and persists the result.
func (s *SessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jar.SetCookies(u, cookies)
	s.save()
}

// Clear drops the in-memory session and removes the saved file. Used on
// logout and whenever the backend answers 401.
func (s *SessionJar) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	s.jar = jar

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
