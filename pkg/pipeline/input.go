package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/epicflow/pkg/epic"
	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
	"github.com/matzehuels/epicflow/pkg/source/file"
)

// ReadInput loads either an epic snapshot or a saved layout from data. JSON
// documents carrying a viz_type are layouts; everything else is parsed as an
// epic snapshot in the given format.
func ReadInput(data []byte, format string) (*epic.Epic, *graph.Layout, error) {
	if format == "" || format == "json" {
		var probe struct {
			VizType string `json:"viz_type"`
		}
		if json.Unmarshal(data, &probe) == nil && probe.VizType != "" {
			l, err := graph.UnmarshalLayout(data)
			if err != nil {
				return nil, nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse layout")
			}
			return nil, &l, nil
		}
		format = string(file.FormatJSON)
	}
	e, err := file.Decode(data, file.Format(format))
	if err != nil {
		return nil, nil, err
	}
	return e, nil, nil
}
