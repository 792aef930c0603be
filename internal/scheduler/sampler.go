package scheduler

import (
	"context"
	"os"
	"runtime"
	"time"

	"newslens/pkg/logger"
	"newslens/pkg/utils"
)

const samplerInterval = 15 * time.Minute

// startResourceSampler launches an iteration-scoped goroutine that logs
// process resource usage on the sampling interval, carrying the last sample
// time across iterations so short iterations do not flood the log. The
// returned channel closes when the goroutine has fully stopped.
func (s *Scheduler) startResourceSampler(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	utils.GoSafe(func() {
		defer close(done)

		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		s.maybeSampleResources()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.maybeSampleResources()
			}
		}
	})

	return done
}

// maybeSampleResources emits a sample when the interval has elapsed since
// the previous one. Reports whether a sample was taken.
func (s *Scheduler) maybeSampleResources() bool {
	now := s.now().UTC()
	if !s.lastSample.IsZero() && now.Sub(s.lastSample) < samplerInterval {
		return false
	}
	s.lastSample = now
	s.sampleResources()
	return true
}

func (s *Scheduler) sampleResources() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	dbSize := int64(0)
	if info, err := os.Stat(s.cfg.Database.Path); err == nil {
		dbSize = info.Size()
	}

	s.log.Info("Resource sample",
		logger.IntField("goroutines", runtime.NumGoroutine()),
		logger.Field("heap_alloc_bytes", mem.HeapAlloc),
		logger.Field("heap_objects", mem.HeapObjects),
		logger.Field("db_size_bytes", dbSize))
}
