/*
 * MIT License
 *
 * Copyright (c) 2024-2026 The Robokit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package wire

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func postRequest(body string) string {
	return fmt.Sprintf(
		"POST /controller HTTP/1.1\r\n"+
			"Host: localhost:8042\r\n"+
			"Content-Type: text/plain;charset=UTF-8\r\n"+
			"Content-Length: %d\r\n\r\n%s",
		len(body), body)
}

func parseWhole(t *testing.T, raw string) *Request {
	t.Helper()
	parser := NewParser()
	require.NoError(t, parser.Feed([]byte(raw)))
	require.True(t, parser.Complete())
	request, err := parser.Request()
	require.NoError(t, err)
	return request
}

func TestParser(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Run("With a POST carrying a body", func(t *testing.T) {
		body := `{"value":"move"}`
		request := parseWhole(t, postRequest(body))

		assert.Equal(t, MethodPost, request.Method)
		assert.Equal(t, "/controller", request.Path)
		assert.Equal(t, "HTTP/1.1", request.Version)
		assert.Equal(t, len(body), request.ContentLength)
		assert.Equal(t, body, string(request.Body))
		assert.Equal(t, "localhost:8042", request.Header("Host"))
	})

	t.Run("With a GET carrying query parameters and no body", func(t *testing.T) {
		raw := "GET /controller?type=tank&command=forward HTTP/1.1\r\nHost: localhost\r\n\r\n"
		request := parseWhole(t, raw)

		assert.Equal(t, MethodGet, request.Method)
		assert.Equal(t, "/controller", request.Path)
		assert.Zero(t, request.ContentLength)
		assert.Empty(t, request.Body)

		tag, ok := request.QueryParam(QueryParamType)
		require.True(t, ok)
		assert.Equal(t, "tank", tag)
		command, ok := request.QueryParam(QueryParamCommand)
		require.True(t, ok)
		assert.Equal(t, "forward", command)
	})

	t.Run("With header lookup being case-insensitive", func(t *testing.T) {
		request := parseWhole(t, postRequest("x"))
		assert.Equal(t, "1", request.Header("content-length"))
		assert.Equal(t, "1", request.Header("Content-Length"))
		assert.Equal(t, "1", request.Header("CONTENT-LENGTH"))
	})

	t.Run("With bytes beyond the declared body length ignored", func(t *testing.T) {
		parser := NewParser()
		require.NoError(t, parser.Feed([]byte(postRequest("move")+"trailing garbage")))
		require.True(t, parser.Complete())
		request, err := parser.Request()
		require.NoError(t, err)
		assert.Equal(t, "move", string(request.Body))
	})
}

func TestParserChunking(t *testing.T) {
	defer goleak.VerifyNone(t)
	raw := postRequest(`{"value":"move"}`)

	t.Run("With one byte at a time matching a single feed", func(t *testing.T) {
		whole := parseWhole(t, raw)

		parser := NewParser()
		for i := 0; i < len(raw); i++ {
			require.NoError(t, parser.Feed([]byte{raw[i]}))
		}
		require.True(t, parser.Complete())
		bytewise, err := parser.Request()
		require.NoError(t, err)

		assert.Equal(t, whole, bytewise)
		assert.Equal(t, bytewise.ContentLength, len(bytewise.Body))
	})

	t.Run("With a split at every possible offset", func(t *testing.T) {
		whole := parseWhole(t, raw)
		for offset := 0; offset <= len(raw); offset++ {
			parser := NewParser()
			require.NoError(t, parser.Feed([]byte(raw[:offset])))
			require.NoError(t, parser.Feed([]byte(raw[offset:])))
			require.True(t, parser.Complete(), "offset %d", offset)
			request, err := parser.Request()
			require.NoError(t, err)
			assert.Equal(t, whole, request, "offset %d", offset)
		}
	})

	t.Run("With the header terminator split across two reads", func(t *testing.T) {
		raw := "GET /x?command=a HTTP/1.1\r\nHost: h\r\n\r\n"
		split := len(raw) - 2 // inside the terminator

		parser := NewParser()
		require.NoError(t, parser.Feed([]byte(raw[:split])))
		assert.False(t, parser.Complete())
		require.NoError(t, parser.Feed([]byte(raw[split:])))
		assert.True(t, parser.Complete())
	})
}

func TestParserFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Run("With an unsupported protocol version", func(t *testing.T) {
		parser := NewParser()
		err := parser.Feed([]byte("GET /x SPDY/3\r\n\r\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("With a malformed request line", func(t *testing.T) {
		parser := NewParser()
		err := parser.Feed([]byte("GET/x\r\n\r\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("With an unknown method", func(t *testing.T) {
		parser := NewParser()
		err := parser.Feed([]byte("BREW /pot HTTP/1.1\r\n\r\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("With a header line missing its separator", func(t *testing.T) {
		parser := NewParser()
		err := parser.Feed([]byte("GET /x HTTP/1.1\r\nBroken header\r\n\r\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("With a non-numeric content length", func(t *testing.T) {
		parser := NewParser()
		err := parser.Feed([]byte("POST /x HTTP/1.1\r\nContent-Length: many\r\n\r\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})

	t.Run("With a result requested before completion", func(t *testing.T) {
		parser := NewParser()
		require.NoError(t, parser.Feed([]byte("POST /x HTTP/1.1\r\nContent-Length: 5\r\n\r\nab")))
		require.False(t, parser.Complete())
		_, err := parser.Request()
		assert.ErrorIs(t, err, ErrIncompleteRequest)
	})
}

func TestBuildRequest(t *testing.T) {
	t.Run("With the synthesized request parsing back", func(t *testing.T) {
		payload := `{"value":"rotate"}`
		raw := BuildRequest("platform", "simple", "robot:8042", payload)

		request := parseWhole(t, raw)
		assert.Equal(t, MethodPost, request.Method)
		assert.Equal(t, "/units/platform", request.Path)
		tag, _ := request.QueryParam(QueryParamType)
		assert.Equal(t, "simple", tag)
		assert.Equal(t, payload, string(request.Body))
	})
}
