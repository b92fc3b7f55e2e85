package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrrecords/internal/transport/http/api"
	"hrrecords/internal/transport/http/shared"
)

// keyFunc picks the identity a request is counted against.
type keyFunc func(r *http.Request) string

// fixedWindow counts hits per key in windows that start on a key's first hit.
type fixedWindow struct {
	name   string
	limit  int
	window time.Duration
	key    keyFunc
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string]*windowCount
	lastPrune time.Time
}

type windowCount struct {
	n       int
	resetAt time.Time
}

type verdict struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func newFixedWindow(name string, limit int, window time.Duration, key keyFunc) *fixedWindow {
	return &fixedWindow{
		name:   name,
		limit:  limit,
		window: window,
		key:    key,
		now:    time.Now,
		hits:   make(map[string]*windowCount),
	}
}

func (fw *fixedWindow) take(key string) verdict {
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if now.Sub(fw.lastPrune) > fw.window {
		for k, c := range fw.hits {
			if now.After(c.resetAt) {
				delete(fw.hits, k)
			}
		}
		fw.lastPrune = now
	}

	c, ok := fw.hits[key]
	if !ok || now.After(c.resetAt) {
		c = &windowCount{resetAt: now.Add(fw.window)}
		fw.hits[key] = c
	}
	c.n++
	return verdict{
		allowed:   c.n <= fw.limit,
		remaining: max(fw.limit-c.n, 0),
		resetIn:   c.resetAt.Sub(now),
	}
}

// admit counts r and writes the limit headers. A rejected request has already
// been answered with 429 when admit returns false.
func (fw *fixedWindow) admit(w http.ResponseWriter, r *http.Request) bool {
	if fw.limit <= 0 {
		return true
	}
	key := fw.key(r)
	if key == "" {
		key = "ip:" + shared.ClientIP(r)
	}
	v := fw.take(key)

	resetSec := ceilSeconds(v.resetIn)
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(fw.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if v.allowed {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded",
		"scope", fw.name,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", fw.limit,
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// RateLimit caps every request per signed-in operator, or per client IP for
// anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	general := newFixedWindow("general", limit, window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if general.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveRateLimit adds tighter budgets to operator login, counted by client
// IP and by submitted email, and to spreadsheet import, counted by actor.
func SensitiveRateLimit(loginLimit, importLimit int, window time.Duration) func(http.Handler) http.Handler {
	scopes := map[string][]*fixedWindow{
		"/auth/login": {
			newFixedWindow("login_ip", loginLimit, window, ipKey),
			newFixedWindow("login_email", loginLimit, window, loginEmailKey),
		},
	}
	imports := []*fixedWindow{newFixedWindow("import", importLimit, window, actorOrIPKey)}
	scopes["/employees/import"] = imports
	scopes["/import_excel"] = imports

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				for _, fw := range scopes[normalizedAPIPath(r.URL.Path)] {
					if !fw.admit(w, r) {
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ipKey(r *http.Request) string {
	return "ip:" + shared.ClientIP(r)
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.Email != "" {
		return "user:" + strings.ToLower(user.Email)
	}
	return ipKey(r)
}

// loginEmailKey reads the email from a JSON login body and restores the body
// for the handler. Without a readable email it falls back to the client IP.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ipKey(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}
	if err != nil {
		return ipKey(r)
	}
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil || strings.TrimSpace(body.Email) == "" {
		return ipKey(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(body.Email))
}

// normalizedAPIPath maps /api/x and /x onto the same route key.
func normalizedAPIPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		path = strings.TrimPrefix(path, "/api")
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
