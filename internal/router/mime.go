/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package router

import "strings"

// contentTypeForName implements spec.md §4.4's extension-to-MIME table:
// an ASCII case-sensitive match on the suffix after the last '.', with
// "application/octet-stream" for a name with no dot and "text/plain" for
// any other extension. Per spec.md §9's open question, this is
// deliberately lowercase-only; callers needing case-insensitive matching
// must extend the table, not this function.
func contentTypeForName(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return octetStream
	}
	switch name[dot+1:] {
	case "html":
		return "text/html"
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "png":
		return "image/png"
	default:
		return "text/plain"
	}
}

const (
	textPlain   = "text/plain"
	octetStream = "application/octet-stream"
)
