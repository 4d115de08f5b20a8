// Package event carries change notifications between entities of a model and
// the collaborators that watch them.
//
// Events are published on a topic, normally the handle of the entity that
// changed, and delivered synchronously to that topic's subscribers followed by
// the wildcard subscribers. A publish made from inside a handler is queued and
// delivered after the current event finishes, in FIFO order, before the
// outermost Publish returns. Handlers never re-enter each other.
package event
