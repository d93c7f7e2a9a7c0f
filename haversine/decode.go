package haversine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/sugawarayuuta/sonnet"

	"go.jacobcolvin.com/haversine/probe"
)

var (
	// ErrSyntax indicates malformed input.
	ErrSyntax = errors.New("syntax error")
	// ErrMissingMember indicates a pair object without one of its four
	// members.
	ErrMissingMember = errors.New("missing member")
)

// SyntaxError describes malformed input at a byte offset.
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

const (
	seenLat0 uint8 = 1 << iota
	seenLon0
	seenLat1
	seenLon1
)

var members = []struct {
	name string
	bit  uint8
}{
	{"lat0", seenLat0},
	{"lon0", seenLon0},
	{"lat1", seenLat1},
	{"lon1", seenLon1},
}

// Option configures a [Decoder].
type Option func(*Decoder)

// WithSession measures decoding in s.
func WithSession(s *probe.Session) Option {
	return func(d *Decoder) {
		d.s = s
	}
}

// Decoder reads a JSON array of [CoordPair]s from a stream, one object at a
// time. Members other than the four coordinates are ignored.
//
// Create instances with [NewDecoder].
type Decoder struct {
	r      *bufio.Reader
	s      *probe.Session
	offset int64
}

// NewDecoder returns a [Decoder] reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{r: bufio.NewReader(r)}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Decode reads the whole array. Anything but whitespace after the closing
// bracket is a [SyntaxError].
func (d *Decoder) Decode() ([]CoordPair, error) {
	b, err := d.nextToken()
	if err != nil {
		return nil, err
	}

	if b != '[' {
		return nil, d.syntaxError("unexpected opening character %q", b)
	}

	out := make([]CoordPair, 0)

	b, err = d.nextToken()
	if err != nil {
		return nil, err
	}

	if b == ']' {
		return out, d.expectEOF()
	}

	for {
		p, err := d.readPair(b)
		if err != nil {
			return nil, err
		}

		out = append(out, p)

		b, err = d.nextToken()
		if err != nil {
			return nil, err
		}

		switch b {
		case ',':
			b, err = d.nextToken()
			if err != nil {
				return nil, err
			}

		case ']':
			err = d.expectEOF()
			if err != nil {
				return nil, err
			}

			return out, nil

		default:
			return nil, d.syntaxError("unexpected byte %q", b)
		}
	}
}

// nextToken returns the next byte that is not ASCII whitespace.
func (d *Decoder) nextToken() (byte, error) {
	for {
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}

		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}

		return b, nil
	}
}

// expectEOF consumes trailing whitespace up to the end of input.
func (d *Decoder) expectEOF() error {
	for {
		b, err := d.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return d.readError(err)
		}

		switch b {
		case ' ', '\t', '\n', '\r':
			d.offset++
			d.s.RecordBytes(1)

			continue
		}

		return d.syntaxError("unexpected %q after top-level array", b)
	}
}

func (d *Decoder) readByte() (byte, error) {
	defer d.s.Block("Deserialize Read", 1).End()

	b, err := d.r.ReadByte()
	if err != nil {
		return 0, d.readError(err)
	}

	d.offset++
	d.s.RecordBytes(1)

	return b, nil
}

// readPair reads one object whose opening byte was already consumed.
func (d *Decoder) readPair(first byte) (CoordPair, error) {
	if first != '{' {
		return CoordPair{}, d.syntaxError("unexpected opening character %q", first)
	}

	obj, err := d.readObject()
	if err != nil {
		return CoordPair{}, err
	}

	err = d.validate(obj)
	if err != nil {
		return CoordPair{}, err
	}

	var (
		p    CoordPair
		seen uint8
		item []byte
	)

	body := obj[:len(obj)-1]
	for len(body) > 0 {
		item, body, _ = bytes.Cut(body, []byte{','})

		key, val, err := d.parseMember(item)
		if err != nil {
			return CoordPair{}, err
		}

		seen |= d.setMember(&p, key, val)
	}

	for _, m := range members {
		if seen&m.bit == 0 {
			return CoordPair{}, fmt.Errorf("%w: %s", ErrMissingMember, m.name)
		}
	}

	return p, nil
}

// readObject reads up to and including the closing brace.
func (d *Decoder) readObject() ([]byte, error) {
	defer d.s.Block("Deserialize Read", 2).End()

	obj, err := d.r.ReadBytes('}')
	d.offset += int64(len(obj))
	d.s.RecordBytes(uint64(len(obj)))

	if err != nil {
		return nil, d.readError(err)
	}

	return obj, nil
}

func (d *Decoder) validate(obj []byte) error {
	defer d.s.Block("Validate UTF8", 3).End()

	if !utf8.Valid(obj) {
		return d.syntaxError("invalid UTF-8")
	}

	return nil
}

func (d *Decoder) parseMember(item []byte) (string, float64, error) {
	defer d.s.Block("Process Key Val Pair", 4).End()

	key, val, ok := bytes.Cut(item, []byte{':'})
	if !ok {
		return "", 0, d.syntaxError("expected key:value, got %q", item)
	}

	val = bytes.TrimSpace(val)

	f, err := strconv.ParseFloat(string(val), 64)
	if err != nil {
		return "", 0, d.syntaxError("can't parse floating point value from %q", val)
	}

	return string(bytes.TrimSpace(key)), f, nil
}

// setMember stores v in the member of p named by the quoted key and returns
// its bit, or 0 for unknown keys.
func (d *Decoder) setMember(p *CoordPair, key string, v float64) uint8 {
	defer d.s.Block("Match Key", 5).End()

	switch key {
	case `"lat0"`:
		p.Lat0 = v

		return seenLat0
	case `"lon0"`:
		p.Lon0 = v

		return seenLon0
	case `"lat1"`:
		p.Lat1 = v

		return seenLat1
	case `"lon1"`:
		p.Lon1 = v

		return seenLon1
	}

	return 0
}

func (d *Decoder) syntaxError(format string, args ...any) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Offset: d.offset}
}

func (d *Decoder) readError(err error) error {
	if errors.Is(err, io.EOF) {
		return &SyntaxError{Msg: "unexpected end of input", Offset: d.offset}
	}

	return fmt.Errorf("read: %w", err)
}

// wirePair distinguishes absent members from zero values.
type wirePair struct {
	Lat0 *float64 `json:"lat0"`
	Lon0 *float64 `json:"lon0"`
	Lat1 *float64 `json:"lat1"`
	Lon1 *float64 `json:"lon1"`
}

func (w wirePair) pair() (CoordPair, error) {
	for _, m := range []struct {
		v    *float64
		name string
	}{{w.Lat0, "lat0"}, {w.Lon0, "lon0"}, {w.Lat1, "lat1"}, {w.Lon1, "lon1"}} {
		if m.v == nil {
			return CoordPair{}, fmt.Errorf("%w: %s", ErrMissingMember, m.name)
		}
	}

	return CoordPair{Lat0: *w.Lat0, Lon0: *w.Lon0, Lat1: *w.Lat1, Lon1: *w.Lon1}, nil
}

// DecodeAll parses a complete JSON array of [CoordPair]s held in data in a
// single pass.
func DecodeAll(data []byte, s *probe.Session) ([]CoordPair, error) {
	defer s.Block("Unmarshal", 6).End()

	var wire []wirePair

	err := sonnet.Unmarshal(data, &wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	out := make([]CoordPair, 0, len(wire))

	for i, w := range wire {
		p, err := w.pair()
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}

		out = append(out, p)
	}

	return out, nil
}
