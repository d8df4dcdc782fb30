package jwtservice

import (
	"context"
	"io"

	"github.com/MrEthical07/jwtservice/internal/audit"
)

// AuditEvent is one audited Sign or Verify call. It never contains the token,
// the payload or the secret.
type AuditEvent = audit.Event

// AuditSink receives audit events from the service's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink delivers audit events to a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

const (
	AuditEventSign   = audit.EventSign
	AuditEventVerify = audit.EventVerify
)

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

func (s *Service) emitAudit(ctx context.Context, eventType, algorithm string, err error) {
	if s.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: s.clock().UTC(),
		EventType: eventType,
		Algorithm: algorithm,
		IP:        clientIPFromContext(ctx),
		RequestID: requestIDFromContext(ctx),
		Success:   err == nil,
	}
	if err != nil {
		event.Error = string(CodeOf(err))
	}
	s.audit.Emit(ctx, event)
}
