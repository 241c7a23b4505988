// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components in the system. HTTP handlers can emit
// notification events without knowing which handlers will process them,
// keeping the best-effort email machinery out of the request path.
//
// The primary components are:
// - NotificationEvent: Represents a request to send an account email
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
