package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/models"
)

// RateLimitedReply is the chat reply sent to a throttled client.
const RateLimitedReply = "リクエストが多すぎます。しばらく待ってから再度お試しください。"

const sweepInterval = 5 * time.Minute

// RateLimitConfig controls the per-client request budget.
//
// Paths under ExemptPaths are never counted. A throttled request to one of
// ReplyPaths is answered like any other chat turn (200 with a reply and a
// null graph) so the chat UI always gets a renderable body; everything else
// gets 429.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
	ExemptPaths []string
	ReplyPaths  []string
}

// DefaultExemptPaths are never rate limited.
var DefaultExemptPaths = []string{"/api/health", "/metrics"}

// DefaultReplyPaths answer throttled clients with a chat reply.
var DefaultReplyPaths = []string{"/chat"}

// DefaultRateLimitConfig returns the limiter settings of the default config.
func DefaultRateLimitConfig() *RateLimitConfig {
	return NewRateLimitConfig(config.DefaultConfig().RateLimit)
}

// NewRateLimitConfig builds the limiter settings from application config.
func NewRateLimitConfig(cfg config.RateLimitConfig) *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:     cfg.Enabled,
		MaxRequests: cfg.MaxRequests,
		Window:      time.Duration(cfg.WindowSeconds) * time.Second,
		ExemptPaths: append([]string(nil), DefaultExemptPaths...),
		ReplyPaths:  append([]string(nil), DefaultReplyPaths...),
	}
}

// verdict is the outcome of charging one request to a client.
type verdict struct {
	allowed    bool
	remaining  int
	resetAt    time.Time
	retryAfter time.Duration
}

// slidingWindow keeps the hit times of every client seen inside the window.
type slidingWindow struct {
	mu    sync.Mutex
	limit int
	span  time.Duration
	now   func() time.Time
	hits  map[string][]time.Time
}

func newSlidingWindow(limit int, span time.Duration) *slidingWindow {
	return &slidingWindow{
		limit: limit,
		span:  span,
		now:   time.Now,
		hits:  make(map[string][]time.Time),
	}
}

// live drops the hits older than the window. Caller holds mu.
func (w *slidingWindow) live(key string, now time.Time) []time.Time {
	cutoff := now.Add(-w.span)
	kept := w.hits[key][:0]
	for _, t := range w.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// take charges one request to key if the budget allows it.
func (w *slidingWindow) take(key string) verdict {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	hits := w.live(key, now)

	if len(hits) >= w.limit {
		w.hits[key] = hits
		// the oldest live hit is the next one to leave the window
		resetAt := hits[0].Add(w.span)
		return verdict{resetAt: resetAt, retryAfter: resetAt.Sub(now)}
	}

	hits = append(hits, now)
	w.hits[key] = hits
	return verdict{
		allowed:   true,
		remaining: w.limit - len(hits),
		resetAt:   hits[0].Add(w.span),
	}
}

// sweep forgets clients with no live hits.
func (w *slidingWindow) sweep() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	for key := range w.hits {
		if hits := w.live(key, now); len(hits) > 0 {
			w.hits[key] = hits
		} else {
			delete(w.hits, key)
		}
	}
}

// RateLimit returns the per-client rate limiting middleware.
func RateLimit(cfg *RateLimitConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultRateLimitConfig()
	}
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	window := newSlidingWindow(cfg.MaxRequests, cfg.Window)
	go func() {
		// lives as long as the process
		for range time.Tick(sweepInterval) {
			window.sweep()
		}
	}()

	limit := strconv.Itoa(cfg.MaxRequests)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if hasAnyPrefix(path, cfg.ExemptPaths) {
			c.Next()
			return
		}

		v := window.take(clientKey(c))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(v.resetAt.Unix(), 10))
		if v.allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(retrySeconds(v.retryAfter)))
		if isReplyPath(path, cfg.ReplyPaths) {
			c.AbortWithStatusJSON(http.StatusOK, models.ChatResponse{Reply: RateLimitedReply})
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"detail": "Rate limit exceeded. Please try again later.",
		})
	}
}

// retrySeconds rounds up to whole seconds, never below one.
func retrySeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isReplyPath(path string, paths []string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range paths {
		if path == p {
			return true
		}
	}
	return false
}

// clientKey identifies the caller, preferring the first proxy hop.
func clientKey(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return c.ClientIP()
}
