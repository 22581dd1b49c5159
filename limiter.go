package teamupdates

import (
	"sync"
	"time"
)

// SignInLimiter throttles credential checks per client IP. Only failed
// attempts consume the budget, so a correct password on the first try is
// never delayed.
type SignInLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
}

// NewSignInLimiter allows max failed attempts per IP inside a sliding window.
func NewSignInLimiter(max int, window time.Duration) *SignInLimiter {
	l := &SignInLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
	}
	go l.sweep()
	return l
}

// pruneLocked drops failures older than cutoff for one IP and returns what
// remains. Caller holds l.mu.
func (l *SignInLimiter) pruneLocked(ip string, cutoff time.Time) []time.Time {
	kept := l.attempts[ip][:0]
	for _, at := range l.attempts[ip] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	l.attempts[ip] = kept
	return kept
}

// sweep periodically deletes IPs whose failures have all aged out, so the
// map does not grow with every address that ever failed a sign-in.
func (l *SignInLimiter) sweep() {
	ticker := time.NewTicker(l.window)
	for range ticker.C {
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip := range l.attempts {
			if len(l.pruneLocked(ip, cutoff)) == 0 {
				delete(l.attempts, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Check reports whether ip may attempt another sign-in. It never consumes
// budget; Record the attempt only when the credentials turn out wrong.
func (l *SignInLimiter) Check(ip string) bool {
	cutoff := time.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pruneLocked(ip, cutoff)) < l.max
}

// Record counts one failed sign-in against ip.
func (l *SignInLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], time.Now())
	l.mu.Unlock()
}
