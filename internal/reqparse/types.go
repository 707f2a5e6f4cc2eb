/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package reqparse converts a prefix of a connection buffer into a
// structured description of an HTTP/1.x request, producing only
// non-owning views into that buffer (see internal/byteview). It never
// allocates for the request line, headers, or body — only the caller's
// pre-allocated header slice is populated.
package reqparse

import "github.com/badu/originserver/internal/byteview"

// MaxHeaders bounds the number of header fields a single request may
// carry (spec.md §3, RequestDescriptor.headers).
const MaxHeaders = 100

// MaxHeaderLineLength bounds a single raw header line, request line
// included. The source this spec was distilled from left the limit
// implementation-defined; this value matches the header-line ceiling
// common Go HTTP servers use before a client is considered abusive.
const MaxHeaderLineLength = 8192

// HeaderField is a (name, value) pair of views into the request buffer.
// Name is stored exactly as received; Value has leading ASCII spaces
// trimmed but its trailing '\r' is retained (see Parse's header-line
// handling) so numeric parsing can treat '\r' as an expected terminator
// rather than a copy boundary.
type HeaderField struct {
	Name  byteview.View
	Value byteview.View
}

// Request is the parser's output: spec.md §3's RequestDescriptor, before
// the URL-safety pipeline (component C) has populated DecodedTarget and
// NormalizedPath. All View fields alias the connection buffer and are
// invalidated by the next buffer realloc or shift.
type Request struct {
	Method  byteview.View
	Target  byteview.View
	Version byteview.View

	Headers []HeaderField

	ContentLength     uint64
	ContentLengthSeen bool
	ContentType       byteview.View
	Body              byteview.View

	KeepAlive bool

	// IsAPI and the narrowing of Target performed by ClassifyAPI
	// (spec.md §4.3.1) happen as the last parser step, per spec.md §4.2
	// step 6 ("Invoke §4.3.1 before returning").
	IsAPI bool

	// DecodedTarget and NormalizedPath are owned byte slices filled in
	// by the URL-safety pipeline (component C) after Parse returns, not
	// by Parse itself (spec.md §3: "decoded_target and normalized_path
	// ... allocated during C"). They are nil until the connection driver
	// runs that stage.
	DecodedTarget  []byte
	NormalizedPath []byte
}
