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

// Package wire implements the HTTP-shaped text protocol units speak over
// plain TCP: an incremental request parser, a receive-and-dispatch server
// unit and a persistent-connection client.
package wire

import (
	"bytes"
	"strconv"
	"strings"
)

// Supported request methods.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Header names the transport cares about. Lookup is case-insensitive;
// these are the canonical lower-case forms used as map keys.
const (
	headerContentLength = "content-length"
)

// Query parameter names used for GET command dispatch.
const (
	QueryParamType    = "type"
	QueryParamCommand = "command"
)

// headerTerminator ends the request-line-plus-headers block.
var headerTerminator = []byte("\r\n\r\n")

// Request is the fully parsed structured form of one inbound wire request.
type Request struct {
	// Method is the request method, GET or POST.
	Method string
	// Path is the request path without the query string.
	Path string
	// Version is the protocol version token from the request line.
	Version string
	// Query holds the parsed query parameters, empty when none were sent.
	Query map[string]string
	// Headers holds the header fields keyed by lower-cased name.
	Headers map[string]string
	// ContentLength is the declared body length, 0 when absent.
	ContentLength int
	// Body holds exactly ContentLength bytes of UTF-8 payload.
	Body []byte
}

// QueryParam returns one query parameter value.
func (r *Request) QueryParam(key string) (string, bool) {
	value, ok := r.Query[key]
	return value, ok
}

// Header returns one header value by case-insensitive name, or "" when
// the header was not sent.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

type parsePhase int

const (
	phaseHeader parsePhase = iota
	phaseBody
	phaseDone
)

// Parser incrementally reconstructs one Request from a raw byte stream.
// Bytes may arrive in arbitrary chunks: the header terminator is matched
// by a sliding window over the incoming bytes, so a terminator split
// across two reads is still found. Feed the stream until Complete reports
// true, then collect the result with Request.
//
// A Parser handles exactly one request and is not safe for concurrent use.
type Parser struct {
	phase  parsePhase
	header bytes.Buffer
	body   bytes.Buffer
	// window mirrors the last len(headerTerminator) bytes fed, across
	// chunk boundaries.
	window  []byte
	request *Request
}

// NewParser creates a Parser for a single request.
func NewParser() *Parser {
	return &Parser{window: make([]byte, 0, len(headerTerminator))}
}

// Feed consumes the next chunk of the stream. It fails as soon as the
// accumulated input is malformed; bytes beyond the declared body length
// are ignored.
func (p *Parser) Feed(data []byte) error {
	for i := 0; i < len(data); i++ {
		switch p.phase {
		case phaseHeader:
			p.header.WriteByte(data[i])
			p.slide(data[i])
			if p.terminated() {
				if err := p.finishHeader(); err != nil {
					return err
				}
			}
		case phaseBody:
			p.body.WriteByte(data[i])
			if p.body.Len() >= p.request.ContentLength {
				p.finishBody()
			}
		case phaseDone:
			return nil
		}
	}
	return nil
}

// Complete reports whether a full request has been reconstructed.
func (p *Parser) Complete() bool {
	return p.phase == phaseDone
}

// Request returns the parsed request once Complete reports true.
func (p *Parser) Request() (*Request, error) {
	if !p.Complete() {
		return nil, ErrIncompleteRequest
	}
	return p.request, nil
}

func (p *Parser) slide(b byte) {
	if len(p.window) == len(headerTerminator) {
		copy(p.window, p.window[1:])
		p.window[len(p.window)-1] = b
		return
	}
	p.window = append(p.window, b)
}

func (p *Parser) terminated() bool {
	return bytes.Equal(p.window, headerTerminator)
}

func (p *Parser) finishHeader() error {
	block := strings.TrimSuffix(p.header.String(), "\r\n\r\n")
	request, err := parseHeaderBlock(block)
	if err != nil {
		return err
	}
	p.request = request
	if request.ContentLength > 0 {
		p.phase = phaseBody
		return nil
	}
	p.finishBody()
	return nil
}

func (p *Parser) finishBody() {
	if p.request.ContentLength > 0 {
		p.request.Body = append([]byte(nil), p.body.Bytes()[:p.request.ContentLength]...)
	}
	p.phase = phaseDone
}

// parseHeaderBlock parses the request line and header fields. Carriage
// returns are stripped so the block can be handled line-oriented.
func parseHeaderBlock(block string) (*Request, error) {
	lines := strings.Split(strings.ReplaceAll(block, "\r", ""), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, NewErrMalformedRequest("empty request line")
	}

	request, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	request.Headers = make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, NewErrMalformedRequest("header line without separator: " + line)
		}
		request.Headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	if raw, ok := request.Headers[headerContentLength]; ok {
		length, err := strconv.Atoi(raw)
		if err != nil || length < 0 {
			return nil, NewErrMalformedRequest("invalid content length: " + raw)
		}
		request.ContentLength = length
	}
	return request, nil
}

func parseRequestLine(line string) (*Request, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, NewErrMalformedRequest("request line: " + line)
	}
	method, target, version := parts[0], parts[1], parts[2]

	if method != MethodGet && method != MethodPost {
		return nil, NewErrMalformedRequest("method: " + method)
	}
	if !strings.HasPrefix(version, "HTTP/1.") {
		return nil, NewErrUnsupportedVersion(version)
	}

	path, rawQuery, _ := strings.Cut(target, "?")
	return &Request{
		Method:  method,
		Path:    path,
		Version: version,
		Query:   parseQuery(rawQuery),
	}, nil
}

// parseQuery splits "k1=v1&k2=v2" into a map. Pairs without a value map
// to the empty string.
func parseQuery(rawQuery string) map[string]string {
	query := make(map[string]string)
	if rawQuery == "" {
		return query
	}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		query[key] = value
	}
	return query
}
