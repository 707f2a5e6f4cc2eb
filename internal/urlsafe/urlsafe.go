/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package urlsafe implements the URL-safety pipeline: API classification,
// percent-decoding, and path normalization, in that order (decode must
// precede normalize, or a percent-encoded "../" would bypass the segment
// stack — see ClassifyAPI, Decode, Normalize).
package urlsafe

import (
	"github.com/badu/originserver/internal/byteview"
	"github.com/badu/originserver/internal/httperr"
)

const apiPrefix = "/api/"
const apiExact = "/api"

// ClassifyAPI implements spec.md §4.3.1. It narrows target in place: if
// target starts with "/api/", the returned view re-points 4 bytes to the
// right so "/api/echo" becomes "/echo"; if target equals exactly "/api",
// the returned view narrows to its single leading "/". Otherwise
// target is returned unchanged. The narrowing is a pointer move, not a
// copy: the returned View still aliases buf.
func ClassifyAPI(buf []byte, target byteview.View) (narrowed byteview.View, isAPI bool) {
	if byteview.HasPrefix(buf, target, apiPrefix) {
		return byteview.Of(target.Off+4, target.End()), true
	}
	if byteview.Equal(buf, target, apiExact) {
		// "/api" narrows to its own leading '/' (index 0), not a byte
		// past the end of the token — there is nothing meaningful there.
		return byteview.Of(target.Off, target.Off+1), true
	}
	return target, false
}

func isHexDigit(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'f') || ('A' <= b && b <= 'F')
}

func hexVal(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0')
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10
	default: // 'A' <= b && b <= 'F'
		return int(b-'A') + 10
	}
}

// Decode implements spec.md §4.3.2. It copies target (resolved against
// buf) into a freshly allocated slice with every well-formed %XX escape
// replaced by its decoded byte. The output is never longer than the
// input. A malformed escape (missing digits, non-hex digits, or a
// trailing '%' with fewer than two bytes remaining) fails with
// BadRequestPath.
func Decode(buf []byte, target byteview.View) ([]byte, error) {
	src := target.Bytes(buf)
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(src) || !isHexDigit(src[i+1]) || !isHexDigit(src[i+2]) {
			return nil, httperr.New(httperr.BadRequestPath, "malformed percent-encoding")
		}
		out = append(out, byte(hexVal(src[i+1])*16+hexVal(src[i+2])))
		i += 2
	}
	return out, nil
}

// Normalize implements spec.md §4.3.3: collapse repeated '/', drop '.'
// segments, pop the parent on '..' segments, and fail BadRequestPath if a
// '..' would pop above the root. The result always starts with '/' and
// is idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(decoded []byte) ([]byte, error) {
	stack := make([][]byte, 0, 8)

	i := 0
	for i < len(decoded) {
		for i < len(decoded) && decoded[i] == '/' {
			i++
		}
		start := i
		for i < len(decoded) && decoded[i] != '/' {
			i++
		}
		seg := decoded[start:i]
		if len(seg) == 0 {
			continue
		}
		switch {
		case len(seg) == 1 && seg[0] == '.':
			// dropped
		case len(seg) == 2 && seg[0] == '.' && seg[1] == '.':
			if len(stack) == 0 {
				return nil, httperr.New(httperr.BadRequestPath, "path escapes root")
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return []byte("/"), nil
	}

	size := 0
	for _, seg := range stack {
		size += 1 + len(seg)
	}
	out := make([]byte, 0, size)
	for _, seg := range stack {
		out = append(out, '/')
		out = append(out, seg...)
	}
	return out, nil
}
