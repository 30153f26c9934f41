package cookie

import (
	"net/http"
	"sync"
	"time"
)

// deletedValue is written as the value of an expiring cookie.
const deletedValue = "null"

// Jar holds the cookies of a single request and the changes made to them.
type Jar struct {
	incoming map[string]string
	entries  map[string]*http.Cookie // nil entry = deleted
	changed  []string
	path     string
	domain   string
	mu       sync.Mutex
	dev      bool
}

// JarOption configures a Jar.
type JarOption func(*Jar)

// WithDevelopment drops the Secure default so cookies survive plain HTTP.
func WithDevelopment(dev bool) JarOption {
	return func(j *Jar) {
		j.dev = dev
	}
}

// WithDefaultPath sets the path applied to every cookie. Defaults to "/".
func WithDefaultPath(path string) JarOption {
	return func(j *Jar) {
		if path != "" {
			j.path = path
		}
	}
}

// WithDefaultDomain sets the domain applied to every cookie.
func WithDefaultDomain(domain string) JarOption {
	return func(j *Jar) {
		j.domain = domain
	}
}

// NewJar parses a raw Cookie header. Malformed pairs are skipped.
func NewJar(header string, opts ...JarOption) *Jar {
	j := &Jar{
		incoming: make(map[string]string),
		entries:  make(map[string]*http.Cookie),
		path:     "/",
	}
	for _, opt := range opts {
		opt(j)
	}

	if header != "" {
		r := http.Request{Header: http.Header{"Cookie": {header}}}
		for _, c := range r.Cookies() {
			if _, seen := j.incoming[c.Name]; !seen {
				j.incoming[c.Name] = c.Value
			}
		}
	}

	return j
}

// Get returns the current value of a cookie, including pending changes.
func (j *Jar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if c, ok := j.entries[name]; ok {
		if c == nil {
			return "", false
		}
		return c.Value, true
	}
	v, ok := j.incoming[name]
	return v, ok
}

// Set records a cookie. Defaults are Path, HttpOnly, SameSite=Strict and
// Secure outside development; options override them.
func (j *Jar) Set(name, value string, opts ...Option) {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.path,
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   !j.dev,
		SameSite: http.SameSiteStrictMode,
	}
	for _, opt := range opts {
		opt(c)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[name] = c
	j.markChanged(name)
}

// Delete schedules an expiring cookie, even if the name was never present.
func (j *Jar) Delete(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[name] = nil
	j.markChanged(name)
}

// Changed reports whether any cookie was set or deleted.
func (j *Jar) Changed() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.changed) > 0
}

// Collect serializes every changed cookie as a Set-Cookie value,
// in the order the names were first changed.
func (j *Jar) Collect() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.changed) == 0 {
		return nil
	}

	out := make([]string, 0, len(j.changed))
	now := time.Now()
	for _, name := range j.changed {
		c := j.entries[name]
		if c == nil {
			c = &http.Cookie{
				Name:     name,
				Value:    deletedValue,
				Path:     j.path,
				Domain:   j.domain,
				MaxAge:   -1,
				Expires:  now,
				HttpOnly: true,
			}
		}
		if v := c.String(); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (j *Jar) markChanged(name string) {
	for _, n := range j.changed {
		if n == name {
			return
		}
	}
	j.changed = append(j.changed, name)
}
