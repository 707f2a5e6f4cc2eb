/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package connio

import (
	"errors"
	"net"
	"time"

	"github.com/badu/originserver/internal/byteview"
	"github.com/badu/originserver/internal/httperr"
	"github.com/badu/originserver/internal/reqparse"
	"github.com/badu/originserver/internal/response"
	"github.com/badu/originserver/internal/router"
)

// DefaultReadTimeout is the idle-read deadline spec.md §4.5 and §5
// require: reset before every socket read, covering both "waiting for
// the next pipelined request" and "waiting for the rest of an in-flight
// one". Used when a caller has no svcconfig.Config.Listen override.
const DefaultReadTimeout = 10 * time.Second

var crlfcrlf = []byte("\r\n\r\n")

// Options configures the per-connection tuning spec.md §3 and §4.5 leave
// to the server: the idle-read deadline and the ConnectionBuffer's
// initial and maximum capacity. Serve's callers thread these in from
// svcconfig.Config.Listen rather than Serve hardcoding them.
type Options struct {
	ReadTimeout     time.Duration
	InitialCapacity int
	MaxCapacity     int
}

// DefaultOptions mirrors svcconfig.Default's listener values.
func DefaultOptions() Options {
	return Options{
		ReadTimeout:     DefaultReadTimeout,
		InitialCapacity: DefaultInitialCapacity,
		MaxCapacity:     DefaultMaxCapacity,
	}
}

// Logger is the narrow logging surface connio needs; internal/obslog
// satisfies it. Declared here, not imported from obslog, so this package
// stays usable without pulling in zap for tests.
type Logger interface {
	Warn(msg string, fields ...any)
}

// Serve drives one accepted connection through spec.md §4.5 until the
// peer closes, a fatal I/O error occurs, or a response sets
// CloseAfterSend. It owns conn and closes it on every exit path. opts
// tunes the read deadline and buffer bounds; a zero Options is not
// valid, callers should pass DefaultOptions() or a value built from
// svcconfig.Config.Listen.
func Serve(conn net.Conn, doc *router.DocRoot, log Logger, opts Options) {
	defer conn.Close()

	buf := NewBuffer(opts.InitialCapacity, opts.MaxCapacity)
	headers := make([]reqparse.HeaderField, 0, reqparse.MaxHeaders)
	headerBuf := make([]byte, 0, ResponseHeaderBufferSize)

	for {
		headerEnd, err := readUntilHeaders(conn, buf, opts)
		if err != nil {
			handleReadFault(conn, headerBuf, err, log)
			return
		}

		req, perr := reqparse.Parse(buf.Bytes(), buf.ParseOffset(), headerEnd, headers)
		if perr != nil {
			// A malformed request's bytes cannot be reliably
			// re-synchronized; spec.md §4.2 treats any parse failure as
			// terminal for the connection.
			sendErrorAndClose(conn, headerBuf, perr.(*httperr.Error), log)
			return
		}

		if req.ContentLength > uint64(opts.MaxCapacity) {
			sendErrorAndClose(conn, headerBuf, httperr.New(httperr.PayloadTooLarge, "content-length exceeds MAX_CAPACITY"), log)
			return
		}

		requestHeaderSize := headerEnd + 4 - buf.ParseOffset()
		totalSize := requestHeaderSize + int(req.ContentLength)

		if need := buf.ParseOffset() + totalSize; need > buf.Cap() {
			if err := buf.Grow(need); err != nil {
				sendErrorAndClose(conn, headerBuf, err.(*httperr.Error), log)
				return
			}
		}

		for buf.ReadOffset() < buf.ParseOffset()+totalSize {
			if err := readMore(conn, buf, opts); err != nil {
				handleReadFault(conn, headerBuf, err, log)
				return
			}
		}

		bodyStart := headerEnd + 4
		req.Body = byteview.Of(bodyStart, bodyStart+int(req.ContentLength))

		if err := req.ResolvePath(buf.Bytes()); err != nil {
			sendErrorAndClose(conn, headerBuf, err.(*httperr.Error), log)
			return
		}

		resp := router.Route(buf.Bytes(), req, doc)
		resp.CloseAfterSend = !req.KeepAlive

		sendErr := sendResponse(conn, resp, headerBuf)
		resp.Close()
		if sendErr != nil {
			if log != nil {
				log.Warn("response send failed", "error", sendErr)
			}
			return
		}

		buf.ConsumeRequest(totalSize)
		if resp.CloseAfterSend {
			return
		}

		if len(buf.Unparsed()) == 0 {
			buf.Shift()
		}
		// else: a pipelined request is already buffered; loop without
		// shifting so its offsets stay valid.
	}
}

// errSilentClose marks a read outcome spec.md §5's "Cancellation" rule
// maps to closing without a response: EOF or a zero-byte read with no
// request in flight.
var errSilentClose = errors.New("connio: silent close")

// readUntilHeaders reads from conn until the buffer holds a full
// request-line-plus-headers block, returning the offset of the "\r\n\r\n"
// terminator. It grows the buffer as needed and resets opts.ReadTimeout
// before every read.
func readUntilHeaders(conn net.Conn, buf *Buffer, opts Options) (int, error) {
	for {
		if idx := byteview.IndexBytes(buf.Bytes(), buf.ParseOffset(), buf.ReadOffset(), crlfcrlf); idx >= 0 {
			return idx, nil
		}
		if err := readMore(conn, buf, opts); err != nil {
			return 0, err
		}
	}
}

// readMore performs one deadline-guarded socket read into buf's free
// space, growing the buffer first if it is full.
func readMore(conn net.Conn, buf *Buffer, opts Options) error {
	if len(buf.FreeSpace()) == 0 {
		if err := buf.Grow(buf.Cap() + opts.InitialCapacity); err != nil {
			return err
		}
	}
	conn.SetReadDeadline(time.Now().Add(opts.ReadTimeout))
	n, err := conn.Read(buf.FreeSpace())
	if n > 0 {
		buf.Advance(n)
	}
	if err != nil {
		return classifyReadError(err, buf)
	}
	if n == 0 {
		return errSilentClose
	}
	return nil
}

// classifyReadError implements spec.md §5's distinction between a
// mid-request timeout (answered with 408) and a clean peer close
// (answered with nothing).
func classifyReadError(err error, buf *Buffer) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		if buf.ReadOffset() > buf.ParseOffset() {
			return httperr.New(httperr.RequestTimeout, "idle timeout mid-request")
		}
		return errSilentClose
	}
	return errSilentClose
}

// handleReadFault responds to a read-phase failure: a RequestTimeout
// gets its 408 response before the connection closes (spec.md §5,
// "Timeout mid-request"); a silent close or any other I/O error gets no
// response at all.
func handleReadFault(conn net.Conn, headerBuf []byte, err error, log Logger) {
	var httpErr *httperr.Error
	if errors.As(err, &httpErr) {
		sendErrorAndClose(conn, headerBuf, httpErr, log)
		return
	}
	if !errors.Is(err, errSilentClose) && log != nil {
		log.Warn("connection read failed", "error", err)
	}
}

// sendErrorAndClose writes the empty-bodied error response spec.md §7
// mandates for a parser/pipeline fault and always closes afterward. The
// empty ContentType suppresses the Content-Type header entirely: §6 and
// §8's error scenarios carry only Content-Length and Connection.
func sendErrorAndClose(conn net.Conn, headerBuf []byte, err *httperr.Error, log Logger) {
	resp := response.New(httperr.Status(err.ErrorKind()), httperr.StatusText(err.ErrorKind()), "", nil, true)
	if sendErr := sendResponse(conn, resp, headerBuf); sendErr != nil && log != nil {
		log.Warn("error response send failed", "error", sendErr)
	}
}
