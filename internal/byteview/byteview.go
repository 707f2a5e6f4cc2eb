/*
 * Copyright (c) 2018 The Go Authors. All rights reserved.
 * Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.
 */

// Package byteview provides a non-owning (offset, length) view into a
// caller-owned byte buffer. A View never copies and never allocates; it is
// only valid while the buffer it was cut from is not reallocated, shifted,
// or freed. Resolving a View against a stale buffer is a caller bug, not
// something this package can detect.
package byteview

// View is a borrow over buf[Off : Off+Len] for some buffer the caller
// still owns. It carries no reference to that buffer, so it survives
// being copied, stored in a slice, or returned by value.
type View struct {
	Off int
	Len int
}

// Empty reports whether v denotes zero bytes.
func (v View) Empty() bool { return v.Len == 0 }

// End returns the exclusive end offset of v.
func (v View) End() int { return v.Off + v.Len }

// Of returns the View covering offsets [start, end) of whatever buffer the
// caller resolves it against; an end before start yields an empty View.
func Of(start, end int) View {
	if end < start {
		end = start
	}
	return View{Off: start, Len: end - start}
}

// Bytes resolves v against buf. The returned slice aliases buf; it must
// not be retained past the next mutation of buf.
func (v View) Bytes(buf []byte) []byte {
	if v.Len == 0 {
		return nil
	}
	return buf[v.Off : v.Off+v.Len]
}

// String resolves v against buf and copies it into an owned string.
// Use Bytes when an alias is acceptable; String is for values that must
// outlive the connection buffer (e.g. logged fields).
func (v View) String(buf []byte) string {
	return string(v.Bytes(buf))
}

// isASCIISpace reports whether b is the single ASCII space byte 0x20.
// Only 0x20 counts here: HeaderField values are trimmed of leading
// spaces, not all whitespace (see spec for HeaderField.value).
func isASCIISpace(b byte) bool { return b == ' ' }

// TrimLeadingSpace returns a View over v with leading ASCII spaces (0x20)
// removed, resolved against buf.
func TrimLeadingSpace(buf []byte, v View) View {
	b := v.Bytes(buf)
	i := 0
	for i < len(b) && isASCIISpace(b[i]) {
		i++
	}
	return Of(v.Off+i, v.End())
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Equal reports whether v, resolved against buf, is byte-for-byte equal
// to s. Case-sensitive.
func Equal(buf []byte, v View, s string) bool {
	if v.Len != len(s) {
		return false
	}
	b := v.Bytes(buf)
	for i := 0; i < len(s); i++ {
		if b[i] != s[i] {
			return false
		}
	}
	return true
}

// EqualFold is Equal's ASCII case-insensitive counterpart, used for
// recognized header name comparisons (Content-Length, Content-Type,
// Connection, ...).
func EqualFold(buf []byte, v View, s string) bool {
	if v.Len != len(s) {
		return false
	}
	b := v.Bytes(buf)
	for i := 0; i < len(s); i++ {
		if lower(b[i]) != lower(s[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether v, resolved against buf, starts with prefix.
// Case-sensitive.
func HasPrefix(buf []byte, v View, prefix string) bool {
	if v.Len < len(prefix) {
		return false
	}
	b := v.Bytes(buf)
	for i := 0; i < len(prefix); i++ {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

// ContainsFold reports whether the ASCII substring sub occurs anywhere
// within v resolved against buf, ignoring case. Used for the
// Connection: close substring scan (spec.md §4.2 step 3), which must
// match "close" anywhere in the header value, not just as the whole
// value.
func ContainsFold(buf []byte, v View, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	b := v.Bytes(buf)
	if len(sub) > len(b) {
		return false
	}
	first := lower(sub[0])
	for i := 0; i+len(sub) <= len(b); i++ {
		if lower(b[i]) != first {
			continue
		}
		matched := true
		for j := 1; j < len(sub); j++ {
			if lower(b[i+j]) != lower(sub[j]) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// IndexBytes returns the offset of the first occurrence of sep within
// buf[from:limit], or -1 if absent. The search never looks past limit,
// so it can be bounded to the unparsed tail of a connection buffer
// without risking a scan into not-yet-valid bytes.
func IndexBytes(buf []byte, from, limit int, sep []byte) int {
	if limit > len(buf) {
		limit = len(buf)
	}
	if from < 0 {
		from = 0
	}
	n := len(sep)
	if n == 0 || from+n > limit {
		return -1
	}
	first := sep[0]
	for i := from; i+n <= limit; i++ {
		if buf[i] != first {
			continue
		}
		match := true
		for j := 1; j < n; j++ {
			if buf[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
