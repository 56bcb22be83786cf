package internal

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/jlint/internal/types"
)

// watchDebounce is how long a file must stay quiet before it is re-linted,
// so an editor's burst of writes is handled once.
const watchDebounce = 100 * time.Millisecond

// ReportFunc receives the result of re-linting a changed file.
type ReportFunc func(filename string, issues []tt.Issue, err error)

// Watch lints JavaScript files under dirs whenever they are written or
// created, until ctx is cancelled.
func (e *Engine) Watch(ctx context.Context, dirs []string, report ReportFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		for _, timer := range pending {
			if timer.Stop() {
				wg.Done()
			}
		}
		mu.Unlock()
		wg.Wait()
	}()

	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, ok := pending[name]; ok && timer.Stop() {
			wg.Done()
		}
		wg.Add(1)
		pending[name] = time.AfterFunc(watchDebounce, func() {
			defer wg.Done()
			mu.Lock()
			delete(pending, name)
			mu.Unlock()

			issues, err := e.Run(name)
			report(name, issues, err)
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			e.handleFileEvent(watcher, event, schedule)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event, schedule func(string)) {
	if event.Has(fsnotify.Create) {
		// new directories are watched as well
		if ok, _ := isDir(event.Name); ok {
			if err := watcher.Add(event.Name); err != nil {
				e.logger.Warn("failed to watch directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !IsSourceFile(event.Name) {
		return
	}
	e.logger.Debug("file changed", zap.String("file", event.Name))
	schedule(event.Name)
}
