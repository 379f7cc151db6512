package llm

import (
	"context"
	"log/slog"
	"time"
)

// RequestLogEntry captures one model call for the audit trail.
type RequestLogEntry struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestLog records model calls. Implemented by the store; failures to
// record must never fail the request itself.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, entry RequestLogEntry) error
}

// LoggingProvider is a decorator that records every model call.
type LoggingProvider struct {
	inner  Provider
	log    RequestLog
	logger *slog.Logger
}

// WithLogging wraps a Provider with request auditing. log may be nil, in
// which case calls are only logged to the structured logger.
func WithLogging(p Provider, log RequestLog, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, log: log, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	entry := RequestLogEntry{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latencyMs,
		Success:   err == nil,
	}

	if resp != nil {
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		entry.Model = resp.Model
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}

	l.logger.Info("llm request",
		"purpose", purpose,
		"model", entry.Model,
		"latency_ms", latencyMs,
		"input_tokens", entry.InputTokens,
		"output_tokens", entry.OutputTokens,
		"success", entry.Success,
	)

	// Audit persistence is best-effort; a store failure must not fail
	// the model call.
	if l.log != nil {
		if logErr := l.log.AppendLLMRequest(ctx, entry); logErr != nil {
			l.logger.Warn("failed to persist llm request audit", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
