// Package monitor implements the concurrent file-arrival core of wxwatch.
//
// Two redundant detection sources, an fsnotify watcher and a polling
// scanner, feed a shared pipeline guarded by a dedup ledger. Detections
// update per-chat activity records; a chat that has been quiet past the idle
// threshold with enough pending files is handed, single-flight, to an
// injected external action. New arrivals during an action flag the chat for
// another round instead of being lost.
package monitor
