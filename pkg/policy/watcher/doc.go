// Package watcher triggers a callback when the policy document changes on
// disk.
//
// The policy directory is watched rather than the file itself: the updater
// replaces the document by renaming a temporary file over it, which would
// detach a watch placed on the old inode. Bursts of events are debounced so
// one replacement triggers one callback.
package watcher
