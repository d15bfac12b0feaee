package domain

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// flatten encodes fixed as a JSON object and merges extra keys into it.
// Keys already present in fixed win.
func flatten(fixed any, extra map[string]any) ([]byte, error) {
	base, err := json.Marshal(fixed)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(extra)+8)
	for k, v := range extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal field %q", k)
		}
		merged[k] = raw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// extraFields decodes a JSON object and returns its members other than known.
func extraFields(data []byte, known ...string) (bson.M, error) {
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return bson.M(all), nil
}
