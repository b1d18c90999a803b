package errorbot

import "github.com/code19m/errx"

// Error codes returned by Send.
const (
	// CodeTransportError is returned when the request never produced an HTTP response:
	// DNS, connection, TLS or timeout failures.
	CodeTransportError = "TRANSPORT_ERROR"

	// CodeReportRejected is returned when the server answered with "success": false.
	CodeReportRejected = "REPORT_REJECTED"

	// CodeUnexpectedStatus is returned for a non-2xx HTTP status.
	CodeUnexpectedStatus = "UNEXPECTED_STATUS"

	// CodeInvalidResponse is returned when a 2xx body is not the expected JSON.
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// IsTransportError reports whether err is a transport-level failure.
func IsTransportError(err error) bool {
	return errx.IsCodeIn(err, CodeTransportError)
}

// IsReportRejected reports whether err is an application-level failure:
// the server was reached but did not accept the report.
func IsReportRejected(err error) bool {
	return errx.IsCodeIn(err, CodeReportRejected, CodeUnexpectedStatus, CodeInvalidResponse)
}
