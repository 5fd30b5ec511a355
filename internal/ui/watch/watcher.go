package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Subscribe watches the active-session record for external changes and
// delivers a notification per change burst. The parent directory is watched
// because the record appears and disappears as sessions start and stop, and
// fsnotify cannot watch a path that does not exist yet. Writes land via
// atomic rename, so a single update surfaces as a short burst of events;
// a debounce window collapses the burst into one notification.
func Subscribe(ctx context.Context, path string) (<-chan struct{}, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	target := filepath.Clean(path)

	go func() {
		defer fsw.Close()
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, func() {
					select {
					case changes <- struct{}{}:
					default:
					}
				})
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("session record watch error")
			}
		}
	}()

	return changes, nil
}
