package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"catalog-api/internal/respond"
)

const (
	msgTooManyRequests = "Too many requests"

	apiPathPrefix  = "/api/"
	authPathPrefix = "/api/v1/auth"

	// Client entries idle longer than this are dropped once the table grows past maxTrackedClients.
	clientIdleTTL     = 10 * time.Minute
	maxTrackedClients = 1000
)

// clientLimiter holds one client's buckets: auth routes draw from their own stricter bucket.
type clientLimiter struct {
	general  *rate.Limiter
	auth     *rate.Limiter
	lastSeen time.Time
}

type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int
	mu         sync.Mutex
	clients    map[string]*clientLimiter
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 20
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		clients:    map[string]*clientLimiter{},
	}
}

// Handler throttles /api/ requests per client IP; static images, health and metrics are not counted.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, apiPathPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := extractClientIP(r)
		limiter := m.limiterFor(clientIP, time.Now())

		bucket := limiter.general
		if strings.HasPrefix(strings.ToLower(r.URL.Path), authPathPrefix) {
			bucket = limiter.auth
		}

		if !bucket.Allow() {
			slog.Warn("rate limit exceeded", "ip", clientIP, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(bucket)))
			respond.Fail(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) limiterFor(clientIP string, now time.Time) *clientLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.clients[clientIP]
	if !ok {
		limiter = &clientLimiter{
			general: perMinute(m.generalRPM),
			auth:    perMinute(m.authRPM),
		}
		m.clients[clientIP] = limiter
	}
	limiter.lastSeen = now

	if len(m.clients) >= maxTrackedClients {
		m.evictIdleLocked(now)
	}
	return limiter
}

func (m *RateLimitMiddleware) evictIdleLocked(now time.Time) {
	cutoff := now.Add(-clientIdleTTL)
	for ip, limiter := range m.clients {
		if limiter.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}

// perMinute allows a full minute's budget as a burst and refills it evenly.
func perMinute(rpm int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
}

// retryAfterSeconds is the wait until the bucket holds a token again, at least one second.
func retryAfterSeconds(bucket *rate.Limiter) int {
	reservation := bucket.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()

	return max(1, int(math.Ceil(delay.Seconds())))
}

func extractClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(remote); err == nil && host != "" {
		return host
	}
	if remote == "" {
		return "unknown"
	}
	return remote
}
