package main

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/time/rate"
)

// ============================================================================
// Rate Limiter
// ============================================================================
//
// Two separate cooldowns live here. The punish cooldown is a fixed
// window per member: repeated filter violations inside the window earn
// an additional mute on top of the per-violation deletion and report.
// The content throttle is a plain token bucket used to pace the
// violation DMs so a spammer is not also DM-flooded.
//
// Both are process-local and in-memory. Losing them on restart reopens
// the window, which is an accepted degradation.

const (
	punishWindow       = 10 * time.Second
	punishLimit        = 2
	FilterMuteDuration = 15 * time.Minute
	FilterMuteReason   = "Filter spam"
)

type punishBucket struct {
	windowStart time.Time
	count       int
}

type PunishCooldown struct {
	mu      sync.Mutex
	buckets map[string]*punishBucket
	now     func() time.Time
}

func NewPunishCooldown() *PunishCooldown {
	return &PunishCooldown{
		buckets: map[string]*punishBucket{},
		now:     time.Now,
	}
}

// ShouldAlsoMute records a filter trigger for the member and reports
// whether the caller should additionally mute them. The first two
// triggers inside a window pass silently; every further trigger in the
// same still-open window returns true. The window only resets once it
// elapses.
func (p *PunishCooldown) ShouldAlsoMute(guildID, userID snowflake.ID) bool {
	key := guildID.String() + ":" + userID.String()
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.buckets[key]
	if !ok || now.Sub(b.windowStart) >= punishWindow {
		p.buckets[key] = &punishBucket{windowStart: now, count: 1}
		return false
	}

	b.count++
	return b.count > punishLimit
}

var filterCooldown = NewPunishCooldown()

// --- Content-Command Throttle ---

// 1 per 5 seconds per key, used to pace outbound notification DMs.
// Not an escalation path.
var (
	contentThrottleMu sync.Mutex
	contentThrottles  = map[string]*rate.Limiter{}
)

func ContentThrottleAllow(key string) bool {
	contentThrottleMu.Lock()
	limiter, ok := contentThrottles[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(5*time.Second), 1)
		contentThrottles[key] = limiter
	}
	contentThrottleMu.Unlock()
	return limiter.Allow()
}
