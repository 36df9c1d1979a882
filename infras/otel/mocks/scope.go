package mocks

import "hostel/infras/otel"

// noopScope discards everything; tests assert on behaviour, not spans.
type noopScope struct{}

func NewScope() otel.Scope {
	return noopScope{}
}

func (noopScope) End() {}
func (noopScope) TraceError(error) {}
func (noopScope) TraceIfError(error) {}
func (noopScope) AddEvent(string) {}
func (noopScope) SetAttribute(string, any) {}
func (noopScope) SetAttributes(map[string]any) {}
