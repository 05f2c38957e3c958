package ml

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the model artifact when its file is rewritten and hands the
// fresh model to a callback. A replacement that fails to load is skipped so
// the previously loaded model stays live.
type Watcher struct {
	fw        *fsnotify.Watcher
	path      string
	modelType string
	onReload  func(*LinearModel)
	done      chan struct{}
}

// WatchArtifact starts watching the artifact at path. The callback runs on the
// watcher goroutine after each successful reload.
func WatchArtifact(path, modelType string, onReload func(*LinearModel)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors and atomic writers replace
	// the file and drop a file-level watch in the process.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:        fw,
		path:      filepath.Clean(path),
		modelType: modelType,
		onReload:  onReload,
		done:      make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Writers produce bursts of events; settle before reloading.
			pending = time.After(200 * time.Millisecond)

		case <-pending:
			pending = nil
			model, err := LoadModel(w.modelType, w.path)
			if err != nil {
				log.Printf("Artifact reload skipped: %v", err)
				continue
			}
			log.Printf("Artifact reloaded from %s", w.path)
			w.onReload(model)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Printf("Artifact watcher error: %v", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}
