/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package router implements spec.md §4.4: turning a fully parsed,
// URL-safety-resolved request into a Response value, either an
// in-memory body or an open file handle.
package router

import (
	"github.com/badu/originserver/internal/reqparse"
	"github.com/badu/originserver/internal/response"
)

const (
	methodGet  = "GET"
	methodPost = "POST"
)

var (
	methodNotAllowedBody = []byte("This request method is currently unsupported")
	routeNotFoundBody    = []byte("Route Not Found")
	helloBody            = []byte("Hello")
)

// Route implements the routing table of spec.md §4.4. buf is the
// connection buffer req's views alias; doc is the shared document-root
// handle. req.NormalizedPath and req.DecodedTarget must already be
// populated (component C has run). The returned Response's
// CloseAfterSend is always left at its zero value (false); the caller
// (internal/connio) applies spec.md §4.4's "Keep-alive propagation" rule
// (close_after_send = !request.keep_alive) uniformly, since the router
// "never flips this on its own".
func Route(buf []byte, req *reqparse.Request, doc *DocRoot) *response.Response {
	method := req.Method.String(buf)
	path := string(req.NormalizedPath)

	if req.IsAPI {
		return routeAPI(buf, req, method, path)
	}

	if method != methodGet {
		return methodNotAllowed()
	}
	return serveStatic(doc, path)
}

func routeAPI(buf []byte, req *reqparse.Request, method, path string) *response.Response {
	switch {
	case method == methodGet && path == "/":
		return response.New(200, "OK", textPlain, helloBody, false)
	case method == methodPost && path == "/echo":
		body := append([]byte(nil), req.Body.Bytes(buf)...)
		return response.New(200, "OK", textPlain, body, false)
	case method == methodGet || method == methodPost:
		return response.New(404, "Not Found", textPlain, routeNotFoundBody, false)
	default:
		return methodNotAllowed()
	}
}

func methodNotAllowed() *response.Response {
	return response.New(405, "Method Not Allowed", textPlain, methodNotAllowedBody, false)
}
