package scenefile

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matt-g-everett/animtx/scene"
)

// debounce is how long a file must stay quiet before it is read again.
const debounce = 100 * time.Millisecond

// Watch calls reload with the freshly read scene each time the file at path
// changes, until ctx is cancelled. The parent directory is watched so that
// editors replacing the file are seen. A file that fails to read is logged
// and skipped.
func Watch(ctx context.Context, path string, reload func(*scene.Model)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settle = time.After(debounce)
		case <-settle:
			settle = nil
			m, err := Read(path)
			if err != nil {
				log.Printf("Ignoring change to %s: %v", path, err)
				continue
			}
			log.Printf("Reloaded %s", path)
			reload(m)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("Scene watcher error: %v", err)
		}
	}
}
