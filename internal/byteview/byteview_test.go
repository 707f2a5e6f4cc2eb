/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

package byteview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfAndBytes(t *testing.T) {
	buf := []byte("GET /index.html HTTP/1.1\r\n")
	v := Of(4, 15)
	require.Equal(t, 11, v.Len)
	assert.Equal(t, "/index.html", v.String(buf))
}

func TestEmptyView(t *testing.T) {
	v := Of(3, 3)
	assert.True(t, v.Empty())
	assert.Nil(t, v.Bytes([]byte("abc")))
}

var equalTests = []struct {
	desc string
	buf  string
	v    View
	want string
	eq   bool
}{
	{"exact match", "HTTP/1.1", Of(0, 8), "HTTP/1.1", true},
	{"length mismatch", "HTTP/1.1", Of(0, 7), "HTTP/1.1", false},
	{"content mismatch", "HTTP/1.0", Of(0, 8), "HTTP/1.1", false},
}

func TestEqual(t *testing.T) {
	for _, tt := range equalTests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Equal([]byte(tt.buf), tt.v, tt.want)
			assert.Equal(t, tt.eq, got)
		})
	}
}

func TestEqualFold(t *testing.T) {
	buf := []byte("Content-Length")
	assert.True(t, EqualFold(buf, Of(0, len(buf)), "content-length"))
	assert.True(t, EqualFold(buf, Of(0, len(buf)), "CONTENT-LENGTH"))
	assert.False(t, EqualFold(buf, Of(0, len(buf)), "content-type"))
}

func TestHasPrefix(t *testing.T) {
	buf := []byte("/api/echo")
	assert.True(t, HasPrefix(buf, Of(0, len(buf)), "/api/"))
	assert.False(t, HasPrefix(buf, Of(0, len(buf)), "/app/"))
}

func TestContainsFold(t *testing.T) {
	buf := []byte("keep-alive, Close")
	assert.True(t, ContainsFold(buf, Of(0, len(buf)), "close"))
	assert.False(t, ContainsFold(buf, Of(0, len(buf)), "upgrade"))
}

func TestIndexBytes(t *testing.T) {
	buf := []byte("GET / HTTP/1.1\r\nHost: x\r\n\r\nGARBAGE")
	idx := IndexBytes(buf, 0, len(buf), []byte("\r\n\r\n"))
	require.NotEqual(t, -1, idx)
	assert.Equal(t, "\r\n\r\n", string(buf[idx:idx+4]))

	// A limit shorter than the actual terminator must not find it.
	idx = IndexBytes(buf, 0, idx+2, []byte("\r\n\r\n"))
	assert.Equal(t, -1, idx)
}

func TestTrimLeadingSpace(t *testing.T) {
	buf := []byte("   text/plain")
	v := TrimLeadingSpace(buf, Of(0, len(buf)))
	assert.Equal(t, "text/plain", v.String(buf))
}
