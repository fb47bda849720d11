package problem

import "fmt"

type InvalidParam struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ErrorDetail struct {
	In       string `json:"in"`
	Location string `json:"location"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// APIError implements error + Problem Details (RFC 7807)
type APIError struct {
	Title  string        `json:"title"`
	Status int           `json:"status"`
	Errors []ErrorDetail `json:"errors,omitempty"`

	// RetryAfter is set on rate-limit responses (seconds).
	RetryAfter int `json:"retry_after,omitempty"`
	// RequestedCount is set on capacity responses so the client can narrow filters.
	RequestedCount int `json:"requested_count,omitempty"`
	// RequestId correlates a server error with its ledger entry.
	RequestId string `json:"request_id,omitempty"`
}

func (e APIError) Error() string { return e.Title }

func NewBadRequest(location, detail string, params ...InvalidParam) APIError {
	return APIError{
		Title:  "Request validation failed",
		Status: 400,
		Errors: toErrorDetails(params, detail, "body", location, "bad_request"),
	}
}

func NewUnauthorized(detail string) APIError {
	return APIError{
		Title:  "Unauthorized",
		Status: 401,
		Errors: toErrorDetails(nil, detail, "header", "authorization", "unauthorized"),
	}
}

func NewNotFound(location, detail string, params ...InvalidParam) APIError {
	return APIError{
		Title:  "Resource Not Found",
		Status: 404,
		Errors: toErrorDetails(params, detail, "path", location, "not_found"),
	}
}

func NewForbidden(location, detail string) APIError {
	return APIError{
		Title:  "Forbidden",
		Status: 403,
		Errors: toErrorDetails(nil, detail, "", location, "forbidden"),
	}
}

// NewTooManyRequests carries the cooldown hint in seconds.
func NewTooManyRequests(detail string, retryAfter int) APIError {
	return APIError{
		Title:      "Too Many Requests",
		Status:     429,
		RetryAfter: retryAfter,
		Errors:     toErrorDetails(nil, detail, "", "", "rate_limited"),
	}
}

// NewPayloadTooLarge reports a result set over the export ceiling.
func NewPayloadTooLarge(maxRecords, requestedCount int) APIError {
	detail := fmt.Sprintf("Too many records requested. Maximum allowed: %d", maxRecords)
	return APIError{
		Title:          "Payload Too Large",
		Status:         413,
		RequestedCount: requestedCount,
		Errors:         toErrorDetails(nil, detail, "", "", "payload_too_large"),
	}
}

func NewInternalServerError(detail string) APIError {
	return APIError{
		Title:  "Internal Server Error",
		Status: 500,
		Errors: toErrorDetails(nil, detail, "", "", "internal_error"),
	}
}

// NewDownloadFailed is the generic server error returned when an export breaks
// after its ledger entry exists; only the correlation id leaks to the client.
func NewDownloadFailed(requestId string) APIError {
	err := NewInternalServerError("Download failed. Please try again later.")
	err.RequestId = requestId
	return err
}

func toErrorDetails(params []InvalidParam, fallbackDetail, fallbackIn, fallbackLocation, fallbackCode string) []ErrorDetail {
	if len(params) == 0 {
		if fallbackDetail == "" {
			return nil
		}
		return []ErrorDetail{{
			In:       fallbackIn,
			Location: fallbackLocation,
			Code:     fallbackCode,
			Detail:   fallbackDetail,
		}}
	}
	out := make([]ErrorDetail, 0, len(params))
	for _, p := range params {
		out = append(out, ErrorDetail{
			In:       "body",
			Location: p.Name,
			Code:     p.Name,
			Detail:   p.Reason,
		})
	}
	return out
}
