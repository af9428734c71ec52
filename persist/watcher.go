// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package persist

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file's containing directory for writes,
// signalling on Events whenever that file changes. It is a narrowed,
// hand-written analogue of util/recwatch's recursive watcher: lampd only
// ever watches one path (the snapshot file), not an arbitrary directory
// tree, so this
// keeps recwatch's Logf/functional-configuration idiom without its
// recursive bookkeeping.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	Logf    func(format string, v ...interface{})

	// Events fires (empty struct) whenever the watched path is written.
	Events chan struct{}
}

// NewWatcher starts watching the directory containing path.
func NewWatcher(path string, logf func(string, ...interface{})) (*Watcher, error) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fsw,
		Logf:    logf,
		Events:  make(chan struct{}, 1),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.Events <- struct{}{}:
			default: // a pending signal already covers this one
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.Logf("persist: watch error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
