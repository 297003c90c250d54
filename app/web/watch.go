package web

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the templates whenever a file in dir changes, until ctx is done.
func (r *Renderer) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := r.Load(); err != nil {
					r.log.Warnf("%s is updated (%s) but templates did not reload: %v", event.Name, event.Op, err)
					continue
				}
				r.log.Infof("%s is updated (%s), templates reloaded", event.Name, event.Op)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.log.Warnf("template watch: %v", err)
			}
		}
	}()
	return nil
}
