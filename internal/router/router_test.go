/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package router

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badu/originserver/internal/byteview"
	"github.com/badu/originserver/internal/reqparse"
	"github.com/badu/originserver/internal/response"
)

func newDocRoot(t *testing.T) *DocRoot {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hi</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "secret"), 0o000))
	t.Cleanup(func() { os.Chmod(filepath.Join(dir, "secret"), 0o755) })
	doc, err := OpenDocRoot(dir)
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func reqFor(method, path string) (*reqparse.Request, []byte) {
	buf := []byte(method)
	return &reqparse.Request{
		Method:         byteview.Of(0, len(method)),
		NormalizedPath: []byte(path),
		IsAPI:          false,
	}, buf
}

func TestRouteStaticIndex(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("GET", "/")
	req.NormalizedPath = []byte("/")
	resp := Route(buf, req, doc)
	require.Equal(t, 200, resp.StatusCode)
	f, ok := resp.Payload.(response.File)
	require.True(t, ok)
	defer f.Handle.Close()
	assert.Equal(t, "text/html", resp.ContentType)
}

func TestRouteStaticJS(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("GET", "/app.js")
	resp := Route(buf, req, doc)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/javascript", resp.ContentType)
	resp.Close()
}

func TestRouteStaticNotFound(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("GET", "/missing.html")
	resp := Route(buf, req, doc)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, []byte("Route Not Found"), resp.Payload.(response.InMemory).Body)
}

func TestRouteStaticForbiddenDirectory(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("GET", "/secret")
	resp := Route(buf, req, doc)
	// a directory is not a regular file: forbidden, per spec.md §4.4 step 5.
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRouteStaticNotADirectoryComponent(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("GET", "/app.js/x")
	resp := Route(buf, req, doc)
	// app.js is a regular file, not a directory: os.Root.Open surfaces
	// ENOTDIR here, which must map to 404 the same as a missing file.
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouteStaticNonGETRejected(t *testing.T) {
	doc := newDocRoot(t)
	req, buf := reqFor("POST", "/")
	resp := Route(buf, req, doc)
	assert.Equal(t, 405, resp.StatusCode)
}

func TestRouteAPIHello(t *testing.T) {
	req, buf := reqFor("GET", "/")
	req.IsAPI = true
	resp := Route(buf, req, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []byte("Hello"), resp.Payload.(response.InMemory).Body)
}

func TestRouteAPIEcho(t *testing.T) {
	buf := []byte("POSTabcde")
	req := &reqparse.Request{
		Method:         byteview.Of(0, 4),
		Body:           byteview.Of(4, 9),
		NormalizedPath: []byte("/echo"),
		IsAPI:          true,
	}
	resp := Route(buf, req, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []byte("abcde"), resp.Payload.(response.InMemory).Body)
}

func TestRouteAPINotFound(t *testing.T) {
	req, buf := reqFor("GET", "/nope")
	req.IsAPI = true
	resp := Route(buf, req, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestRouteAPIMethodNotAllowed(t *testing.T) {
	req, buf := reqFor("DELETE", "/whatever")
	req.IsAPI = true
	resp := Route(buf, req, nil)
	require.Equal(t, 405, resp.StatusCode)
	assert.Equal(t, []byte("This request method is currently unsupported"), resp.Payload.(response.InMemory).Body)
}
