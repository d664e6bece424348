package data

import (
	"context"
	"time"
)

// Health pings every configured backend and reports per-service status.
func (d *Data) Health(ctx context.Context) map[string]any {
	services := make(map[string]any)
	healthy := true

	check := func(name string, ping func(context.Context) error) {
		start := time.Now()
		err := ping(ctx)
		entry := map[string]any{"latency": time.Since(start).String()}
		if err != nil {
			entry["status"] = "unhealthy"
			entry["error"] = err.Error()
			healthy = false
		} else {
			entry["status"] = "healthy"
		}
		services[name] = entry
	}

	check("database", d.db.PingContext)
	if d.redis != nil {
		check("redis", func(ctx context.Context) error { return d.redis.Ping(ctx).Err() })
	}
	if d.meili != nil {
		check("meilisearch", d.meili.Health)
	}

	status := "healthy"
	if !healthy {
		status = "degraded"
	}
	return map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"services":  services,
	}
}
