// Package common holds the in-process dispatch plumbing shared by the
// application layer. The master station's bus adapter does not call command
// handlers directly; it sends typed requests through the Mediator, which
// keeps the JetStream wiring ignorant of which handler owns a subject.
package common

import (
	"context"
	"fmt"
	"reflect"
)

// Request is a command or query dispatched through the mediator. Station
// commands (apply delta, reset game) and queries (snapshot) all flow
// through here.
type Request interface{}

// Response is the result of handling a request.
type Response interface{}

// RequestHandler handles one request type.
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// Mediator dispatches requests to their registered handlers by type.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
}

type mediator struct {
	handlers map[reflect.Type]RequestHandler
}

// NewMediator creates an empty mediator. Registration happens once at
// daemon startup; Send is then safe for concurrent use because the handler
// map is never mutated again.
func NewMediator() Mediator {
	return &mediator{
		handlers: make(map[reflect.Type]RequestHandler),
	}
}

// Register binds a handler to a request type. Each type gets exactly one
// handler; a second registration is a wiring bug, not a runtime condition.
func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	if requestType == nil {
		return fmt.Errorf("mediator: request type cannot be nil")
	}

	if handler == nil {
		return fmt.Errorf("mediator: handler for %s cannot be nil", requestType)
	}

	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("mediator: %s already has a handler", requestType)
	}

	m.handlers[requestType] = handler
	return nil
}

// Send dispatches a request to the handler registered for its type.
func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("mediator: request cannot be nil")
	}

	requestType := reflect.TypeOf(request)
	handler, ok := m.handlers[requestType]

	if !ok {
		return nil, fmt.Errorf("mediator: no handler for %s", requestType)
	}

	return handler.Handle(ctx, request)
}

// RegisterHandler registers a handler with the request type inferred from
// the type parameter, sparing callers the reflect.TypeOf noise.
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	var zero T
	requestType := reflect.TypeOf(zero)
	return m.Register(requestType, handler)
}
