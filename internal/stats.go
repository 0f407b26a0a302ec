// Package internal exposes lightweight process telemetry shared by the
// debug endpoint and the periodic stats worker.
package internal

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats samples the current process. Fields that cannot be read on
// the host platform are simply left out.
func ProcessStats() map[string]any {
	stats := map[string]any{
		"goroutines": runtime.NumGoroutine(),
		"sampled_at": time.Now().UTC().Format(time.RFC3339),
	}

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mi, err := p.MemoryInfo(); err == nil && mi != nil {
		stats["rss_bytes"] = mi.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats["cpu_percent"] = cpu
	}
	if created, err := p.CreateTime(); err == nil {
		stats["uptime_s"] = int64(time.Since(time.UnixMilli(created)).Seconds())
	}
	return stats
}

// StatsHandler serves process stats merged with application stats from the
// optional provider, as a flat JSON object.
func StatsHandler(provider func() map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		stats := ProcessStats()
		if provider != nil {
			for k, v := range provider() {
				stats[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}
