package haversine

import "github.com/google/jsonschema-go/jsonschema"

// Schema returns the JSON Schema (draft 7) of the input format accepted by
// [Decoder] and [DecodeAll].
func Schema() *jsonschema.Schema {
	coord := func(desc string, limit float64) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:        "number",
			Description: desc,
			Minimum:     jsonschema.Ptr(-limit),
			Maximum:     jsonschema.Ptr(limit),
		}
	}

	return &jsonschema.Schema{
		Schema:      "http://json-schema.org/draft-07/schema#",
		Title:       "Coordinate pairs",
		Description: "Pairs of points whose mean haversine distance is computed.",
		Type:        "array",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"lat0": coord("Latitude of the first point in degrees.", 90),
				"lon0": coord("Longitude of the first point in degrees.", 180),
				"lat1": coord("Latitude of the second point in degrees.", 90),
				"lon1": coord("Longitude of the second point in degrees.", 180),
			},
			Required: []string{"lat0", "lon0", "lat1", "lon1"},
		},
	}
}
