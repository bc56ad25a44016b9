// Package watch watches the workspace for `**/*.java` changes made
// outside the editor — by version control, a build tool, or another
// process — using fsnotify to recursively watch every directory under
// the workspace roots and filtering events down to .java files.
package watch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// EventKind classifies a filtered filesystem event.
type EventKind int

const (
	EventCreate EventKind = iota
	EventChange
	EventDelete
)

// Event is a single filtered `**/*.java` filesystem change.
type Event struct {
	Kind EventKind
	Path string
}

// Watcher recursively watches a set of roots for .java file changes.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event
	done   chan struct{}
}

// New creates a Watcher rooted at roots. Every existing directory under
// each root is added to the underlying fsnotify watch list; directories
// created later are picked up as their parent's Create event arrives.
func New(roots []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	w := &Watcher{fs: fsw, events: make(chan Event, 64), done: make(chan struct{})}
	for _, root := range roots {
		if err := w.addTree(root); err != nil {
			return nil, errors.Wrapf(err, "watching %s", root)
		}
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// Events returns the channel of filtered .java file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case <-w.fs.Errors:
			// fsnotify surfaces transient errors (e.g. a watched
			// directory vanishing); the watcher keeps running.
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = w.fs.Add(ev.Name)
			return
		}
	}
	if !strings.HasSuffix(ev.Name, ".java") {
		return
	}
	switch {
	case ev.Op&fsnotify.Create != 0:
		w.events <- Event{Kind: EventCreate, Path: ev.Name}
	case ev.Op&(fsnotify.Write|fsnotify.Chmod) != 0:
		w.events <- Event{Kind: EventChange, Path: ev.Name}
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.events <- Event{Kind: EventDelete, Path: ev.Name}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
