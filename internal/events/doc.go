// Package events provides a typed publish/subscribe channel for focus and
// realm changes.
//
// Components publish ChangeEvent values through an EventEmitter without
// knowing which handlers consume them. The in-memory emitter delivers each
// event synchronously to every handler in registration order, so a publisher
// that serializes its own publishes gives every subscriber the same ordering.
//
// The primary components are:
// - ChangeEvent: a focus or realm change carrying the full (focus, realm) snapshot
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
