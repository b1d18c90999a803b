package errorbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/errorbot/observability/tracing"
)

const (
	// DefaultType is the report type used when none is given.
	DefaultType = "error"

	headerAPIKey    = "X-API-Key"
	headerRequestID = "X-Request-ID"
	userAgent       = "errorbot-go"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 64 << 10

	successLine   = "Error reported successfully"
	rejectedLine  = "Failed to report error: "
	transportLine = "Failed to report error to ErrorBot: "
)

// Report is the JSON payload of one error occurrence.
type Report struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Project string `json:"project"`
}

type response struct {
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ReportOption customizes a single report.
type ReportOption func(*Report)

// WithType sets the report type, e.g. "warning". Empty keeps DefaultType.
func WithType(t string) ReportOption {
	return func(rep *Report) {
		if t != "" {
			rep.Type = t
		}
	}
}

// NewReport builds the report ReportError would send for message.
func (r *Reporter) NewReport(message string, opts ...ReportOption) Report {
	rep := Report{
		Message: message,
		Type:    DefaultType,
		Project: r.project,
	}
	for _, opt := range opts {
		opt(&rep)
	}
	return rep
}

// ReportError sends message to ErrorBot and prints the outcome.
//
// It blocks until the server answers or the transport fails. Success prints
// a confirmation to the console output stream; any failure prints one line
// to the error stream. The report is never retried and nothing is returned.
// Cancellation of ctx is ignored; its values (trace id) are still used.
func (r *Reporter) ReportError(ctx context.Context, message string, opts ...ReportOption) {
	if r.disabled {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rep := r.NewReport(message, opts...)
	line, err := r.send(context.WithoutCancel(ctx), rep)
	if err != nil {
		r.log.WithContext(ctx).With("type", rep.Type).Debugf("report not delivered: %v", err)
		r.console.Failure(line)
		return
	}
	r.console.Success(successLine)
}

// CaptureError reports err.Error() with DefaultType. A nil err is ignored.
func (r *Reporter) CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.ReportError(ctx, err.Error())
}

// Send performs the HTTP exchange for rep without printing anything.
// Errors carry CodeTransportError or one of the rejection codes; see
// IsTransportError and IsReportRejected.
func (r *Reporter) Send(ctx context.Context, rep Report) error {
	if r.disabled {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := r.send(ctx, rep)
	return err
}

// send returns the console line describing a failure along with the error.
func (r *Reporter) send(ctx context.Context, rep Report) (string, error) {
	body, err := json.Marshal(rep)
	if err != nil {
		return transportLine + err.Error(), errx.Wrap(err, errx.WithCode(CodeTransportError))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportLine + err.Error(), errx.Wrap(err, errx.WithCode(CodeTransportError))
	}

	requestID := tracing.RequestID(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(headerAPIKey, r.apiKey)
	req.Header.Set(headerRequestID, requestID)

	resp, err := r.client.Do(req)
	if err != nil {
		return transportLine + err.Error(), errx.Wrap(err,
			errx.WithCode(CodeTransportError),
			errx.WithDetails(errx.D{"endpoint": r.endpoint}),
		)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportLine + err.Error(), errx.Wrap(err, errx.WithCode(CodeTransportError))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
		return transportLine + msg, errx.New("errorbot answered "+msg,
			errx.WithCode(CodeUnexpectedStatus),
			errx.WithDetails(errx.D{"status_code": resp.StatusCode}),
		)
	}

	var result response
	if err = json.Unmarshal(raw, &result); err != nil {
		return transportLine + "invalid response body", errx.Wrap(err,
			errx.WithCode(CodeInvalidResponse),
			errx.WithDetails(errx.D{"status_code": resp.StatusCode}),
		)
	}

	if !result.Success {
		return rejectedLine + result.Error.Message, errx.New("errorbot rejected report: "+result.Error.Message,
			errx.WithCode(CodeReportRejected),
			errx.WithDetails(errx.D{"server_message": result.Error.Message}),
		)
	}

	return "", nil
}
