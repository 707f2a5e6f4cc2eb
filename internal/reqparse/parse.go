/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqparse

import (
	"github.com/badu/originserver/internal/byteview"
	"github.com/badu/originserver/internal/httperr"
	"github.com/badu/originserver/internal/urlsafe"
)

var crlf = []byte("\r\n")

// Parse implements spec.md §4.2. buf is the connection buffer; requestStart
// is the offset of the request line; headerEnd is the offset such that
// buf[headerEnd:headerEnd+4] == "\r\n\r\n" (the caller — the connection
// driver — has already located that terminator). headers is reused
// storage the caller owns; its length becomes the returned Request's
// header count.
//
// Parse does not advance any cursor and does not read past headerEnd+2:
// the caller computes the full request size as
// (headerEnd - requestStart) + 4 + Request.ContentLength.
func Parse(buf []byte, requestStart, headerEnd int, headers []HeaderField) (*Request, error) {
	lineEnd := byteview.IndexBytes(buf, requestStart, headerEnd+2, crlf)
	if lineEnd < 0 {
		return nil, httperr.New(httperr.BadRequestLine, "no CRLF in request line")
	}
	if lineEnd-requestStart > MaxHeaderLineLength {
		return nil, httperr.New(httperr.HeaderTooLarge, "request line too long")
	}

	req := &Request{Headers: headers[:0]}
	if err := parseRequestLine(buf, requestStart, lineEnd, req); err != nil {
		return nil, err
	}

	pos := lineEnd + 2
	for pos < headerEnd+2 {
		p := byteview.IndexBytes(buf, pos, headerEnd+2, crlf)
		if p < 0 {
			return nil, httperr.New(httperr.BadHeaderSyntax, "unterminated header line")
		}
		if p-pos > MaxHeaderLineLength {
			return nil, httperr.New(httperr.HeaderTooLarge, "header line too long")
		}
		if err := parseHeaderLine(buf, pos, p, req); err != nil {
			return nil, err
		}
		pos = p + 2
	}

	if len(req.Headers) == 0 {
		return nil, httperr.New(httperr.MissingRequiredHeaders, "no headers between request line and terminator")
	}

	if byteview.HasPrefix(buf, req.Method, "G") && req.ContentLength > 0 {
		return nil, httperr.New(httperr.BodyNotAllowed, "GET with non-zero Content-Length")
	}

	req.Target, req.IsAPI = urlsafe.ClassifyAPI(buf, req.Target)

	return req, nil
}

// parseRequestLine implements spec.md §4.2 step 1.
func parseRequestLine(buf []byte, start, end int, req *Request) error {
	tok1s, tok1e, rest1 := nextToken(buf, start, end)
	if tok1s == tok1e {
		return httperr.New(httperr.BadRequestLine, "missing method")
	}
	tok2s, tok2e, rest2 := nextToken(buf, rest1, end)
	if tok2s == tok2e {
		return httperr.New(httperr.BadRequestLine, "missing target")
	}
	tok3s, tok3e, rest3 := nextToken(buf, rest2, end)
	if tok3s == tok3e {
		return httperr.New(httperr.BadRequestLine, "missing version")
	}
	if rest := skipSpaces(buf, rest3, end); rest != end {
		return httperr.New(httperr.BadRequestLine, "unexpected fourth token")
	}

	req.Method = byteview.Of(tok1s, tok1e)
	req.Target = byteview.Of(tok2s, tok2e)
	req.Version = byteview.Of(tok3s, tok3e)

	switch {
	case byteview.Equal(buf, req.Version, "HTTP/1.1"):
		req.KeepAlive = true
	case byteview.Equal(buf, req.Version, "HTTP/1.0"):
		req.KeepAlive = false
	default:
		return httperr.New(httperr.InvalidVersion, req.Version.String(buf))
	}
	return nil
}

func skipSpaces(buf []byte, pos, end int) int {
	for pos < end && buf[pos] == ' ' {
		pos++
	}
	return pos
}

// nextToken skips a run of spaces starting at pos, then returns the
// [start, end) bounds of the following non-space run and the position
// right after it. An empty token ([start,start)) signals no token was
// found before end.
func nextToken(buf []byte, pos, end int) (start, tokEnd, next int) {
	pos = skipSpaces(buf, pos, end)
	start = pos
	for pos < end && buf[pos] != ' ' {
		pos++
	}
	return start, pos, pos
}

// parseHeaderLine implements spec.md §4.2 step 2 and §4.2 step 3. line is
// [pos, crPos+1) — the raw header line including its trailing '\r' but
// excluding the '\n' (the spec requires the trailing '\r' be retained in
// the raw Value view while excluded from numeric parsing).
func parseHeaderLine(buf []byte, pos, crPos int, req *Request) error {
	if len(req.Headers) >= MaxHeaders {
		return httperr.New(httperr.TooManyHeaders, "too many headers")
	}

	colon := byteview.IndexBytes(buf, pos, crPos, []byte{':'})
	if colon < 0 || colon == pos {
		return httperr.New(httperr.BadHeaderSyntax, "missing or empty header name")
	}

	name := byteview.Of(pos, colon)
	rawValue := byteview.TrimLeadingSpace(buf, byteview.Of(colon+1, crPos+1))

	req.Headers = append(req.Headers, HeaderField{Name: name, Value: rawValue})

	switch {
	case byteview.EqualFold(buf, name, "Content-Length"):
		if req.ContentLengthSeen {
			return httperr.New(httperr.InvalidContentLength, "duplicate Content-Length")
		}
		n, err := parseContentLength(buf, rawValue)
		if err != nil {
			return err
		}
		req.ContentLength = n
		req.ContentLengthSeen = true
	case byteview.EqualFold(buf, name, "Content-Type"):
		req.ContentType = rawValue
	case byteview.EqualFold(buf, name, "Connection"):
		if byteview.ContainsFold(buf, rawValue, "close") {
			req.KeepAlive = false
		}
	case byteview.EqualFold(buf, name, "Transfer-Encoding"):
		return httperr.New(httperr.UnsupportedTransferEncoding, rawValue.String(buf))
	}
	return nil
}

// parseContentLength implements spec.md §4.2 step 3's Content-Length
// rule: ASCII decimal digits only, trailing '\r' tolerated as the raw
// view's last byte, any other byte or an overflow fails InvalidContentLength.
func parseContentLength(buf []byte, v byteview.View) (uint64, error) {
	b := v.Bytes(buf)
	if len(b) == 0 {
		return 0, httperr.New(httperr.InvalidContentLength, "empty value")
	}
	var n uint64
	sawDigit := false
	for i, c := range b {
		if c == '\r' && i == len(b)-1 {
			break
		}
		if c < '0' || c > '9' {
			return 0, httperr.New(httperr.InvalidContentLength, "non-digit byte")
		}
		sawDigit = true
		d := uint64(c - '0')
		if n > (^uint64(0)-d)/10 {
			return 0, httperr.New(httperr.InvalidContentLength, "overflow")
		}
		n = n*10 + d
	}
	if !sawDigit {
		return 0, httperr.New(httperr.InvalidContentLength, "no digits")
	}
	return n, nil
}
