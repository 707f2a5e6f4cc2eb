/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package connio

import (
	"fmt"
	"io"
	"net"

	"github.com/badu/originserver/internal/response"
)

// ResponseHeaderBufferSize bounds the status line plus headers this
// package formats; spec.md's three response headers (Content-Type,
// Content-Length, Connection) never approach it, but a generous ceiling
// keeps a single append-heavy build from reallocating.
const ResponseHeaderBufferSize = 16384

// formatHeader implements spec.md §4.5 step 1's exact wire format: status
// line, Content-Length, Content-Type, Connection, blank line. Content-Type
// is omitted entirely when r.ContentType is empty, the shape spec.md §6
// and §8's error scenarios require for status-only responses (Content-Length: 0
// and Connection only, no Content-Type line).
func formatHeader(dst []byte, r *response.Response) []byte {
	connToken := "keep-alive"
	if r.CloseAfterSend {
		connToken = "close"
	}
	dst = append(dst, "HTTP/1.1 "...)
	dst = fmt.Appendf(dst, "%d", r.StatusCode)
	dst = append(dst, ' ')
	dst = append(dst, r.StatusText...)
	dst = append(dst, "\r\n"...)
	dst = append(dst, "Content-Length: "...)
	dst = fmt.Appendf(dst, "%d", r.ContentLength())
	dst = append(dst, "\r\n"...)
	if r.ContentType != "" {
		dst = append(dst, "Content-Type: "...)
		dst = append(dst, r.ContentType...)
		dst = append(dst, "\r\n"...)
	}
	dst = append(dst, "Connection: "...)
	dst = append(dst, connToken...)
	dst = append(dst, "\r\n\r\n"...)
	return dst
}

// writeFull retries partial writes until every byte is accepted or conn
// returns an error, matching the teacher's checkConnErrorWriter discipline
// of never treating a short write as success.
func writeFull(conn net.Conn, b []byte) error {
	for len(b) > 0 {
		n, err := conn.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// sendResponse writes r to conn: header buffer first, then the body
// (in-memory copy or zero-copy file transfer). headerBuf is reusable
// per-connection scratch space.
func sendResponse(conn net.Conn, r *response.Response, headerBuf []byte) error {
	head := formatHeader(headerBuf[:0], r)
	if err := writeFull(conn, head); err != nil {
		return err
	}

	switch p := r.Payload.(type) {
	case response.InMemory:
		if len(p.Body) == 0 {
			return nil
		}
		return writeFull(conn, p.Body)
	case response.File:
		return sendFile(conn, p)
	default:
		return nil
	}
}

// sendFile implements spec.md §4.5's zero-copy file transmission: if the
// connection exposes io.ReaderFrom (a *net.TCPConn does, via sendfile),
// hand it the file directly; otherwise fall back to io.Copy.
func sendFile(conn net.Conn, f response.File) error {
	if rf, ok := conn.(io.ReaderFrom); ok {
		_, err := rf.ReadFrom(io.LimitReader(f.Handle, f.Size))
		return err
	}
	_, err := io.CopyN(conn, f.Handle, f.Size)
	return err
}
