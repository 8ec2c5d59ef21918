package rate_limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
	"golang.org/x/time/rate"
)

// Limit is the token bucket given to each client of a route.
type Limit struct {
	Rate  rate.Limit
	Burst int
}

var (
	LoginLimit    = Limit{Rate: 1, Burst: 5}
	CheckoutLimit = Limit{Rate: 1, Burst: 5}
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	mu       sync.Mutex
)

func GetVisitor(key string, l Limit) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[key]
	if !exists {
		limiter := rate.NewLimiter(l.Rate, l.Burst)
		visitors[key] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware limits each client IP on the named route.
func Middleware(route string, l Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !GetVisitor(route+"|"+ip, l).Allow() {
				logx.Warn().Str("route", route).Str("ip", ip).Msg("rate limit exceeded")
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StartVisitorCleanupLoop forgets clients idle for longer than idle, checking
// every interval until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mu.Lock()
			for key, v := range visitors {
				if time.Since(v.lastSeen) > idle {
					delete(visitors, key)
				}
			}
			mu.Unlock()
		}
	}
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}

func visitorCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(visitors)
}
