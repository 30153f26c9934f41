package cookie

import (
	"net/http"
	"time"
)

// Option overrides a cookie attribute set by the jar defaults.
type Option func(*http.Cookie)

// WithMaxAge sets both Max-Age and Expires relative to now.
// A non-positive duration expires the cookie immediately.
func WithMaxAge(d time.Duration) Option {
	return func(c *http.Cookie) {
		if d <= 0 {
			c.MaxAge = -1
			c.Expires = time.Now()
			return
		}
		c.MaxAge = int(d.Seconds())
		c.Expires = time.Now().Add(d)
	}
}

// WithExpires sets an absolute expiry time.
func WithExpires(t time.Time) Option {
	return func(c *http.Cookie) {
		c.Expires = t
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(c *http.Cookie) {
		c.Path = path
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(c *http.Cookie) {
		c.Domain = domain
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(c *http.Cookie) {
		c.HttpOnly = httpOnly
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(c *http.Cookie) {
		c.Secure = secure
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(c *http.Cookie) {
		c.SameSite = ss
	}
}
