package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"taskManager/internal/logger"

	"go.uber.org/zap"
)

const maxTrackedClients = 10000

type window struct {
	count   int
	resetAt time.Time
}

// limiter считает запросы каждого адреса в фиксированном окне
type limiter struct {
	mtx     sync.Mutex
	limit   int
	period  time.Duration
	clients map[string]*window
}

func newLimiter(limit int, period time.Duration) *limiter {
	return &limiter{
		limit:   limit,
		period:  period,
		clients: make(map[string]*window),
	}
}

// take учитывает запрос клиента и возвращает остаток и конец окна.
// ok=false означает, что лимит окна исчерпан и запрос не учтён.
func (l *limiter) take(client string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	win, found := l.clients[client]
	if !found || now.After(win.resetAt) {
		if !found && len(l.clients) >= maxTrackedClients {
			l.prune(now)
		}
		win = &window{resetAt: now.Add(l.period)}
		l.clients[client] = win
	}

	if win.count >= l.limit {
		return 0, win.resetAt, false
	}
	win.count++
	return l.limit - win.count, win.resetAt, true
}

// prune удаляет клиентов с истёкшим окном
func (l *limiter) prune(now time.Time) {
	for client, win := range l.clients {
		if now.After(win.resetAt) {
			delete(l.clients, client)
		}
	}
}

// RateLimit ограничивает число запросов в минуту с одного адреса
func RateLimit(rpm int) func(http.Handler) http.Handler {
	l := newLimiter(rpm, time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			ip := clientIP(r)
			remaining, resetAt, ok := l.take(ip, now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retry := int(math.Ceil(resetAt.Sub(now).Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", ip),
					zap.Int("retry_after", retry))
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMITED", "слишком много запросов, повторите позже")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
