/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package router

import (
	"errors"
	"io/fs"
	"os"
	"syscall"

	"github.com/badu/originserver/internal/response"
)

// DocRoot is the process-wide, read-only document-root handle spec.md §6
// requires: opened once before the first connection is served, shared by
// every connection, and never closed until shutdown (spec.md §5, "Shared
// resources"). os.Root anchors every Open call so that no component of
// the requested path — however it arrived — can address data above the
// root, independent of the normalization already applied in §4.3.3 (this
// is the "ultimate guard" spec.md §4.4 step 3 demands).
type DocRoot struct {
	root *os.Root
}

// OpenDocRoot opens dir as the server's document root. The returned
// DocRoot must be closed at shutdown, not per-request.
func OpenDocRoot(dir string) (*DocRoot, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, err
	}
	return &DocRoot{root: root}, nil
}

// Close releases the document-root handle. Call this only at shutdown.
func (d *DocRoot) Close() error {
	return d.root.Close()
}

// serveStatic implements spec.md §4.4's static file handler.
func serveStatic(doc *DocRoot, normalizedPath string) *response.Response {
	relative := normalizedPath[1:] // strip leading '/'
	if relative == "" {
		relative = "index.html"
	}

	f, err := doc.root.Open(relative)
	if err != nil {
		return staticOpenError(err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return response.New(500, "Internal Server Error", textPlain, nil, false)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return response.New(403, "Forbidden", textPlain, []byte("Forbidden file route"), false)
	}

	return response.NewFile(200, "OK", contentTypeForName(relative), f, info.Size(), false)
}

// staticOpenError maps an Open failure to its router-defined status per
// spec.md §4.4 step 4: not-found and a not-a-directory path component
// both map to 404. A not-a-directory component (e.g. "/app.js/x" where
// "app.js" is a regular file) surfaces as syscall.ENOTDIR from
// os.Root.Open, not fs.ErrNotExist, so it needs its own case.
func staticOpenError(err error) *response.Response {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return response.New(404, "Not Found", textPlain, []byte("Route Not Found"), false)
	case errors.Is(err, fs.ErrPermission):
		return response.New(403, "Forbidden", textPlain, []byte("Forbidden file route"), false)
	default:
		return response.New(500, "Internal Server Error", textPlain, nil, false)
	}
}
