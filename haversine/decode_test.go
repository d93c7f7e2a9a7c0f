package haversine_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/haversine/haversine"
	"go.jacobcolvin.com/haversine/probe"
	"go.jacobcolvin.com/haversine/stringtest"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  []haversine.CoordPair
	}{
		"empty array": {
			input: "[]",
			want:  []haversine.CoordPair{},
		},
		"empty array with whitespace": {
			input: " [ \n ] ",
			want:  []haversine.CoordPair{},
		},
		"single pair": {
			input: `[{"lat0":1.5,"lon0":-2,"lat1":3,"lon1":4.25}]`,
			want: []haversine.CoordPair{
				{Lat0: 1.5, Lon0: -2, Lat1: 3, Lon1: 4.25},
			},
		},
		"pretty printed": {
			input: stringtest.Input(`
				[
				  {"lat0": 1, "lon0": 2, "lat1": 3, "lon1": 4},
				  {"lon1": 8, "lat1": 7, "lon0": 6, "lat0": 5}
				]`),
			want: []haversine.CoordPair{
				{Lat0: 1, Lon0: 2, Lat1: 3, Lon1: 4},
				{Lat0: 5, Lon0: 6, Lat1: 7, Lon1: 8},
			},
		},
		"unknown member ignored": {
			input: `[{"lat0":1,"lon0":2,"lat1":3,"lon1":4,"alt":9}]`,
			want: []haversine.CoordPair{
				{Lat0: 1, Lon0: 2, Lat1: 3, Lon1: 4},
			},
		},
		"exponent": {
			input: `[{"lat0":1e1,"lon0":-2.5E-1,"lat1":0,"lon1":0}]`,
			want: []haversine.CoordPair{
				{Lat0: 10, Lon0: -0.25},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := haversine.NewDecoder(strings.NewReader(tc.input)).Decode()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			all, err := haversine.DecodeAll([]byte(tc.input), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, all, "DecodeAll must agree with Decoder")
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input      string
		wantErr    error
		wantOffset int64
	}{
		"not an array": {
			input:      `{"lat0":1}`,
			wantErr:    haversine.ErrSyntax,
			wantOffset: 1,
		},
		"empty input": {
			input:   "",
			wantErr: haversine.ErrSyntax,
		},
		"truncated object": {
			input:   `[{"lat0":1,"lon0":2`,
			wantErr: haversine.ErrSyntax,
		},
		"missing close bracket": {
			input:   `[{"lat0":1,"lon0":2,"lat1":3,"lon1":4}`,
			wantErr: haversine.ErrSyntax,
		},
		"bad separator": {
			input:   `[{"lat0":1,"lon0":2,"lat1":3,"lon1":4};`,
			wantErr: haversine.ErrSyntax,
		},
		"not a number": {
			input:   `[{"lat0":"north","lon0":2,"lat1":3,"lon1":4}]`,
			wantErr: haversine.ErrSyntax,
		},
		"missing member": {
			input:   `[{"lat0":1,"lon0":2,"lat1":3}]`,
			wantErr: haversine.ErrMissingMember,
		},
		"element not an object": {
			input:   `[1]`,
			wantErr: haversine.ErrSyntax,
		},
		"trailing data": {
			input:      `[{"lat0":1,"lon0":2,"lat1":3,"lon1":4}]Total time: 1ms`,
			wantErr:    haversine.ErrSyntax,
			wantOffset: 39,
		},
		"trailing data after whitespace": {
			input:      "[] \n x",
			wantErr:    haversine.ErrSyntax,
			wantOffset: 5,
		},
		"second array": {
			input:      "[][]",
			wantErr:    haversine.ErrSyntax,
			wantOffset: 2,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := haversine.NewDecoder(strings.NewReader(tc.input)).Decode()
			require.ErrorIs(t, err, tc.wantErr)

			_, allErr := haversine.DecodeAll([]byte(tc.input), nil)
			require.ErrorIs(t, allErr, tc.wantErr, "DecodeAll must reject the same input")

			if tc.wantOffset != 0 {
				var synErr *haversine.SyntaxError

				require.ErrorAs(t, err, &synErr)
				assert.Equal(t, tc.wantOffset, synErr.Offset)
			}
		})
	}
}

func TestDecodeAllMissingMember(t *testing.T) {
	t.Parallel()

	_, err := haversine.DecodeAll([]byte(`[{"lat0":1,"lon0":2,"lon1":4}]`), nil)
	require.ErrorIs(t, err, haversine.ErrMissingMember)
	assert.Contains(t, err.Error(), "lat1")

	_, err = haversine.DecodeAll([]byte(`[`), nil)
	require.ErrorIs(t, err, haversine.ErrSyntax)
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	want := slices.Collect(haversine.NewGenerator(99, 1500, true).All())

	var buf bytes.Buffer

	require.NoError(t, haversine.Encode(&buf, slices.Values(want), nil))

	got, err := haversine.NewDecoder(bytes.NewReader(buf.Bytes())).Decode()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pairs []haversine.CoordPair
		want  string
	}{
		"no pairs": {
			pairs: nil,
			want:  "[]",
		},
		"two pairs": {
			pairs: []haversine.CoordPair{
				{Lat0: 1.5, Lon0: -2, Lat1: 0, Lon1: 180},
				{Lat0: -0.125},
			},
			want: `[{"lat0":1.5,"lon0":-2,"lat1":0,"lon1":180},{"lat0":-0.125,"lon0":0,"lat1":0,"lon1":0}]`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, haversine.Encode(&buf, slices.Values(tc.pairs), nil))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestDecodeMeasured(t *testing.T) {
	t.Parallel()

	input := `[{"lat0":1,"lon0":2,"lat1":3,"lon1":4}, {"lat0":5,"lon0":6,"lat1":7,"lon1":8}]`

	s := probe.NewSession()

	root := s.Block("Deserialize Json", probe.Capacity-1)

	pairs, err := haversine.NewDecoder(strings.NewReader(input), haversine.WithSession(s)).Decode()
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	root.End()

	r, err := s.End()
	require.NoError(t, err)

	labels := make(map[string]probe.Entry)
	for _, e := range r.Entries {
		labels[e.Label] = e
	}

	require.Contains(t, labels, "Deserialize Json")
	assert.Equal(t, uint64(len(input)), labels["Deserialize Json"].Bytes)

	// Decoder blocks are direct children: they never close as roots.
	for _, label := range []string{"Deserialize Read", "Validate UTF8", "Process Key Val Pair", "Match Key"} {
		require.Contains(t, labels, label)
		assert.Zero(t, labels[label].Exclusive, label)
	}
}
