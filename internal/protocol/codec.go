// Package protocol implements the wire format: each request and response is
// one self-contained JSON value sent as raw bytes, with message boundaries
// detected by a successful parse rather than a length prefix.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DefaultMaxMessageSize caps how many bytes the decoder will buffer while
// waiting for a message to complete. Without a cap, input that never parses
// would accumulate forever; hitting it is a decode error instead.
const DefaultMaxMessageSize = 64 << 10

// ErrMalformedMessage reports input that can never become a valid JSON
// value, either because of a syntax error or because it outgrew the buffer
// cap without parsing.
var ErrMalformedMessage = errors.New("malformed message")

const readChunkSize = 1024

// Decoder accumulates bytes from r until a complete JSON value parses.
// Truncated-but-growing input is not an error; the decoder keeps reading.
type Decoder struct {
	r   io.Reader
	buf []byte
	max int
}

func NewDecoder(r io.Reader, maxMessageSize int) *Decoder {
	if maxMessageSize <= 0 {
		maxMessageSize = DefaultMaxMessageSize
	}
	return &Decoder{
		r:   r,
		max: maxMessageSize,
	}
}

// Decode reads the next message into v. A message must be one
// self-contained parse unit: once it parses, the buffer is reset, so a
// sender must not pack trailing bytes of a following message into the same
// write.
func (d *Decoder) Decode(v any) error {
	for {
		if len(d.buf) > 0 {
			done, err := d.tryParse(v)
			if done {
				return err
			}
		}
		if len(d.buf) >= d.max {
			d.buf = d.buf[:0]
			return ErrMalformedMessage
		}

		chunk := make([]byte, readChunkSize)
		n, err := d.r.Read(chunk)
		if n > 0 {
			d.buf = append(d.buf, chunk[:n]...)
			continue
		}
		if err != nil {
			return err
		}
	}
}

// tryParse attempts to decode the buffered bytes. It reports done=false
// when the buffer holds a truncated prefix of a valid message.
func (d *Decoder) tryParse(v any) (done bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(d.buf))
	err = dec.Decode(v)
	if err == nil {
		d.buf = d.buf[:0]
		return true, nil
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		// Incomplete value; keep accumulating.
		return false, nil
	}
	// Syntax errors and wrong top-level types can never resolve by
	// reading more bytes. Discard the buffer so the caller may answer
	// with an error and keep decoding from the stream.
	d.buf = d.buf[:0]
	return true, ErrMalformedMessage
}

// Encoder writes each message as a single JSON value in one write call.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
