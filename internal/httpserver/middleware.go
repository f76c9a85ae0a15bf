package httpserver

import (
	"context"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"sapphirus/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookie = "sapphirus_session"

	ctxUserID = "userID"
	ctxRole   = "role"

	loginPath      = "/auth"
	storefrontHome = "/"
	dashboardHome  = "/dashboard"
)

const (
	cacheTTL   = 5 * time.Minute
	sweepEvery = time.Minute

	roleFetchAttempts = 3
	roleFetchTimeout  = 5 * time.Second
	backoffBase       = time.Second
	backoffCap        = 4 * time.Second
	jitterMax         = time.Second
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// ttlCache is a key→(value, expiry) map with lazy expiry on read and a
// periodic sweep. Lifecycle is explicit: newTTLCache starts the sweeper,
// stop ends it.
type ttlCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	done    chan struct{}
}

func newTTLCache(ttl, sweepInterval time.Duration) *ttlCache {
	c := &ttlCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep(sweepInterval)
	return c
}

func (c *ttlCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false
	}
	return e.value, true
}

func (c *ttlCache) set(key, value string) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *ttlCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *ttlCache) stop() {
	close(c.done)
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// authGate resolves the caller's session and role, caches both with TTL, and
// redirects unauthorized navigation.
type authGate struct {
	auth     AuthService
	logger   *log.Logger
	sessions *ttlCache
	roles    *ttlCache
	sleep    func(time.Duration)
}

func newAuthGate(auth AuthService, logger *log.Logger) *authGate {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &authGate{
		auth:     auth,
		logger:   logger,
		sessions: newTTLCache(cacheTTL, sweepEvery),
		roles:    newTTLCache(cacheTTL, sweepEvery),
		sleep:    time.Sleep,
	}
}

// Close stops the cache sweepers and flushes cached state.
func (g *authGate) Close() {
	g.sessions.stop()
	g.roles.stop()
}

// pageGate implements the navigation state machine for the /dashboard,
// /profile and /auth prefixes.
func (g *authGate) pageGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		userID, ok := g.resolveSession(c)

		if !ok {
			if strings.HasPrefix(path, dashboardHome) || strings.HasPrefix(path, "/profile") {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		role := g.roleFor(c.Request.Context(), userID)

		if path == loginPath {
			if role == domain.RoleAdmin {
				c.Redirect(http.StatusFound, dashboardHome)
			} else {
				c.Redirect(http.StatusFound, storefrontHome)
			}
			c.Abort()
			return
		}

		// Role unknown fails closed for admin routes; the session itself
		// is kept.
		if strings.HasPrefix(path, dashboardHome) && role != domain.RoleAdmin {
			c.Redirect(http.StatusFound, storefrontHome)
			c.Abort()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, string(role))
		c.Next()
	}
}

// requireSession enforces authentication for JSON API routes (401, no
// redirect).
func (g *authGate) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := g.resolveSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// optionalSession resolves the session if present and passes through either
// way. Anonymous checkout is tolerated.
func (g *authGate) optionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := g.resolveSession(c); ok {
			c.Set(ctxUserID, userID)
		}
		c.Next()
	}
}

func (g *authGate) resolveSession(c *gin.Context) (string, bool) {
	token := bearerToken(c)
	if token == "" {
		if v, err := c.Cookie(sessionCookie); err == nil {
			token = v
		}
	}
	if token == "" {
		return "", false
	}

	if userID, ok := g.sessions.get(token); ok {
		return userID, true
	}

	userID, err := g.auth.LookupByToken(c.Request.Context(), token)
	if err != nil {
		return "", false
	}
	g.sessions.set(token, userID)
	return userID, true
}

// roleFor returns the cached role, fetching with retries on a miss. After
// exhausting retries the role is unknown, which denies admin access without
// logging the user out.
func (g *authGate) roleFor(ctx context.Context, userID string) domain.Role {
	if v, ok := g.roles.get(userID); ok {
		return domain.Role(v)
	}

	role, err := g.fetchRoleWithRetry(ctx, userID)
	if err != nil {
		g.logger.Printf("auth gate: role fetch failed after %d attempts user=%s err=%v", roleFetchAttempts, userID, err)
		return ""
	}
	g.roles.set(userID, string(role))
	return role
}

func (g *authGate) fetchRoleWithRetry(ctx context.Context, userID string) (domain.Role, error) {
	delay := backoffBase
	var lastErr error
	for attempt := 0; attempt < roleFetchAttempts; attempt++ {
		if attempt > 0 {
			g.sleep(delay + time.Duration(rand.Int63n(int64(jitterMax))))
			delay *= 2
			if delay > backoffCap {
				delay = backoffCap
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, roleFetchTimeout)
		role, err := g.auth.RoleByID(attemptCtx, userID)
		cancel()
		if err == nil {
			return role, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
