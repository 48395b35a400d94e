package track

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-tt/internal/util"
)

// FileWatcher reports changes to a single data file. The parent directory
// is watched because saves replace the file by rename.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan struct{}
	done    chan struct{}
}

func NewFileWatcher(path string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		path:    filepath.Clean(path),
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go fw.processEvents()
	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.done)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			// Coalesce bursts; the receiver re-reads the file anyway.
			select {
			case fw.events <- struct{}{}:
			default:
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogWarnf("Data file watch error: %v", err)
		}
	}
}

// Events fires after the data file changed
func (fw *FileWatcher) Events() <-chan struct{} {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}
