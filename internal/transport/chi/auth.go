package chi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SessionCookie is the name of the admin session cookie.
const SessionCookie = "riverdub_session"

// SessionVerifier validates a session token and returns its login.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type loginKey struct{}

// LoginFromContext returns the authenticated login, if any.
func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey{}).(string)
	return login, ok
}

// sessionToken reads the token from the session cookie or a Bearer header.
// The header wins when both are present.
func sessionToken(r *http.Request) string {
	const bearerPrefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(h[len(bearerPrefix):])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession returns a middleware that rejects requests without a valid session.
func RequireSession(verifier SessionVerifier) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, err := verifier.Verify(r.Context(), sessionToken(r))
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), loginKey{}, login)))
		})
	}
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
	clients map[string]*limiterEntry
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows perMinute attempts per IP with the given burst.
// A non-positive perMinute disables throttling.
func NewLoginLimiter(perMinute float64, burst int) *LoginLimiter {
	every := rate.Inf
	if perMinute > 0 {
		every = rate.Limit(perMinute / 60)
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginLimiter{
		every:   every,
		burst:   burst,
		ttl:     10 * time.Minute,
		now:     time.Now,
		clients: make(map[string]*limiterEntry),
	}
}

// Allow reports whether the client at ip may attempt a login now.
func (l *LoginLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > l.ttl {
			delete(l.clients, k)
		}
	}

	e, ok := l.clients[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Middleware rejects throttled clients with 429.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, codeRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware,
// when installed, has already rewritten it from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
