/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package reqparse

import "github.com/badu/originserver/internal/urlsafe"

// ResolvePath runs the remainder of the URL-safety pipeline (spec.md
// §4.3.2 and §4.3.3) against r.Target, which ClassifyAPI has already
// narrowed during Parse. It is a distinct step from Parse because
// spec.md §3 allocates DecodedTarget and NormalizedPath "during C", the
// stage the connection driver invokes after the parser returns.
func (r *Request) ResolvePath(buf []byte) error {
	decoded, err := urlsafe.Decode(buf, r.Target)
	if err != nil {
		return err
	}
	normalized, err := urlsafe.Normalize(decoded)
	if err != nil {
		return err
	}
	r.DecodedTarget = decoded
	r.NormalizedPath = normalized
	return nil
}
