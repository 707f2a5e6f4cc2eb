/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package connio

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func pipeAndServe(t *testing.T) (client net.Conn, done chan struct{}) {
	t.Helper()
	client, server := net.Pipe()
	done = make(chan struct{})
	go func() {
		Serve(server, nil, nil, DefaultOptions())
		close(done)
	}()
	t.Cleanup(func() { client.Close() })
	return client, done
}

func readResponse(t *testing.T, r *bufio.Reader) (status string, headers map[string]string, body string) {
	t.Helper()
	statusLine, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	headers = make(map[string]string)
	contentLength := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read header line: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ": ", 2)
		headers[parts[0]] = parts[1]
		if parts[0] == "Content-Length" {
			contentLength = atoi(t, parts[1])
		}
	}
	buf := make([]byte, contentLength)
	if contentLength > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			t.Fatalf("read body: %v", err)
		}
	}
	return strings.TrimRight(statusLine, "\r\n"), headers, string(buf)
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("not a number: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func TestServeAPIHello(t *testing.T) {
	client, _ := pipeAndServe(t)
	if _, err := client.Write([]byte("GET /api/ HTTP/1.1\r\nHost: x\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(client)
	status, headers, body := readResponse(t, r)
	if status != "HTTP/1.1 200 OK" {
		t.Fatalf("status = %q", status)
	}
	if body != "Hello" {
		t.Fatalf("body = %q, want Hello", body)
	}
	if headers["Connection"] != "keep-alive" {
		t.Fatalf("Connection = %q, want keep-alive", headers["Connection"])
	}
}

func TestServePipelinedRequests(t *testing.T) {
	client, _ := pipeAndServe(t)
	reqs := "GET /api/ HTTP/1.1\r\nHost: x\r\n\r\nGET /api/ HTTP/1.1\r\nHost: x\r\n\r\n"
	if _, err := client.Write([]byte(reqs)); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(client)
	for i := 0; i < 2; i++ {
		status, _, body := readResponse(t, r)
		if status != "HTTP/1.1 200 OK" || body != "Hello" {
			t.Fatalf("response %d = %q %q", i, status, body)
		}
	}
}

func TestServeEchoRoundTrip(t *testing.T) {
	client, _ := pipeAndServe(t)
	payload := "abcde"
	req := "POST /api/echo HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\n" + payload
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(client)
	status, _, body := readResponse(t, r)
	if status != "HTTP/1.1 200 OK" || body != payload {
		t.Fatalf("status=%q body=%q", status, body)
	}
}

func TestServeMalformedRequestClosesConnection(t *testing.T) {
	client, done := pipeAndServe(t)
	// No headers before the terminator: MissingRequiredHeaders.
	if _, err := client.Write([]byte("GET / HTTP/1.1\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(client)
	status, headers, _ := readResponse(t, r)
	if status != "HTTP/1.1 400 Bad Request" {
		t.Fatalf("status = %q", status)
	}
	if headers["Connection"] != "close" {
		t.Fatalf("Connection = %q, want close", headers["Connection"])
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after malformed request")
	}
}

func TestServeConnectionCloseHeaderEndsConnection(t *testing.T) {
	client, done := pipeAndServe(t)
	req := "GET /api/ HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"
	if _, err := client.Write([]byte(req)); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := bufio.NewReader(client)
	status, headers, body := readResponse(t, r)
	if status != "HTTP/1.1 200 OK" || body != "Hello" {
		t.Fatalf("status=%q body=%q", status, body)
	}
	if headers["Connection"] != "close" {
		t.Fatalf("Connection = %q, want close", headers["Connection"])
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after Connection: close")
	}
}
