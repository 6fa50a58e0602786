// Package event provides a synchronous topic-based event bus.
//
// Topics are hierarchical dot-separated strings (see the topic subpackage)
// and subscriptions may use wildcard patterns. Handlers run synchronously on
// the publishing goroutine in priority order; a panicking handler is isolated
// so that it cannot take down the publisher or suppress later handlers.
//
// The bus carries contained-document lifecycle notifications (see the events
// subpackage) so that tooling such as the watch view can observe the
// analysis pipeline without coupling to it.
package event
