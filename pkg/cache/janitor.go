package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soundprediction/verity/pkg/utils"
)

// janitor calls clean on a fixed interval until stopped.
type janitor struct {
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func startJanitor(interval time.Duration, clean func() (int, error), logger *slog.Logger) *janitor {
	j := &janitor{stop: make(chan struct{})}
	if interval <= 0 {
		return j
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := safeClean(clean, logger)
				if err != nil {
					logger.Warn("cache cleanup failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("cache cleanup removed expired entries", "count", n)
				}
			case <-j.stop:
				return
			}
		}
	}()
	return j
}

func (j *janitor) close() {
	j.once.Do(func() { close(j.stop) })
	j.wg.Wait()
}

// safeClean keeps a panicking backend from taking the janitor down with it.
func safeClean(clean func() (int, error), logger *slog.Logger) (n int, err error) {
	defer utils.RecoverAsError(&err, logger)
	return clean()
}
