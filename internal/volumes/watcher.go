package volumes

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"mediabrowse/internal/logging"
)

// Action tells what happened to a volume directory.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Change is one storage topology event.
type Change struct {
	Action Action
	Path   string
}

// Watcher reports volumes appearing and disappearing below the media root.
type Watcher struct {
	root string
	fw   *fsnotify.Watcher
}

// NewWatcher starts watching root.
func NewWatcher(root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(root); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	return &Watcher{root: root, fw: fw}, nil
}

// Run delivers changes to onChange until ctx is done or the watcher is
// closed. onChange runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(Change)) error {
	log := logging.Named("volumes")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			var action Action
			switch {
			case event.Has(fsnotify.Create):
				action = ActionAdd
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				action = ActionRemove
			default:
				continue
			}
			log.Debug("storage change", zap.String("action", string(action)), zap.String("path", event.Name))
			onChange(Change{Action: action, Path: event.Name})
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.String("root", w.root), zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
