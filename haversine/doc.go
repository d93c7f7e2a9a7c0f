// Package haversine generates, encodes, decodes, and sums great-circle
// distances between coordinate pairs.
//
// The input format is a JSON array of objects with the members lat0, lon0,
// lat1, and lon1 (see [Schema]). [Encode] and [Decoder] stream it without an
// intermediate representation; [DecodeAll] parses a whole buffer in one pass
// with sonnet.
//
// Every stage is instrumented with [probe.Session] blocks. Pass a session with
// [WithSession] or as an argument; a nil session measures nothing.
package haversine
