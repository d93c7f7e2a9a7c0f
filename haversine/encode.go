package haversine

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"

	"go.jacobcolvin.com/haversine/probe"
)

// Encode streams pairs to w as a JSON array.
func Encode(w io.Writer, pairs iter.Seq[CoordPair], s *probe.Session) error {
	defer s.Block("Serialize Data to Json", 7).End()

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 128)

	var written uint64

	buf = append(buf, '[')

	first := true
	for p := range pairs {
		if !first {
			buf = append(buf, ',')
		}

		first = false
		buf = appendPair(buf, p)

		n, err := bw.Write(buf)
		written += uint64(n)

		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}

		buf = buf[:0]
	}

	buf = append(buf, ']')

	n, err := bw.Write(buf)
	written += uint64(n)

	s.RecordBytes(written)

	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	err = bw.Flush()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	return nil
}

func appendPair(buf []byte, p CoordPair) []byte {
	buf = append(buf, `{"lat0":`...)
	buf = strconv.AppendFloat(buf, p.Lat0, 'f', -1, 64)
	buf = append(buf, `,"lon0":`...)
	buf = strconv.AppendFloat(buf, p.Lon0, 'f', -1, 64)
	buf = append(buf, `,"lat1":`...)
	buf = strconv.AppendFloat(buf, p.Lat1, 'f', -1, 64)
	buf = append(buf, `,"lon1":`...)
	buf = strconv.AppendFloat(buf, p.Lon1, 'f', -1, 64)

	return append(buf, '}')
}
