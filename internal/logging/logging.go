// Package logging writes one JSON object per log line so the API, the
// checkout engine and the outbox relay can be grepped by request or order.
package logging

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Service is stamped on every line.
const Service = "storefront-api"

type Fields struct {
	RequestID  string `json:"request_id,omitempty"`
	UserID     int64  `json:"user_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	EventID    string `json:"event_id,omitempty"`
	Step       string `json:"step,omitempty"`
	Status     string `json:"status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Err        error  `json:"-"`
}

type line struct {
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
	Fields
}

// Log prints fields as a single JSON line through the standard logger.
func Log(fields Fields) {
	l := line{
		Service:   Service,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Fields:    fields,
	}
	if fields.Err != nil {
		l.Error = fields.Err.Error()
	}
	data, err := json.Marshal(l)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", Service, err.Error())
		return
	}
	log.Print(string(data))
}

// Info logs a plain message with a step name.
func Info(step, message string) {
	Log(Fields{Step: step, Status: "ok", Message: message})
}

// Error logs a failed step.
func Error(step string, err error) {
	Log(Fields{Step: step, Status: "error", Err: err})
}

type ctxKey struct{}

// WithRequestID stores the request id so code below the HTTP layer can log it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
