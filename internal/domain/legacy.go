// internal/domain/legacy.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Snapshots written by the browser version of the app store body parts as
// display labels, instance IDs as numbers and weight/reps as strings.
// The decoders below accept both shapes so old exports load unchanged.

var legacyBodyParts = map[string]BodyPart{
	"가슴": BodyPartChest,
	"등":  BodyPartBack,
	"하체": BodyPartLegs,
	"어깨": BodyPartShoulders,
	"이두": BodyPartArms,
	"삼두": BodyPartArms,
	"팔":  BodyPartArms,
	"복근": BodyPartCore,
	"전체": BodyPartAll,
}

// NormalizeBodyPart maps a legacy label to its code. Codes and unknown values are returned as-is.
func NormalizeBodyPart(v BodyPart) BodyPart {
	if code, ok := legacyBodyParts[string(v)]; ok {
		return code
	}
	return v
}

// flexNumber decodes a JSON number or a numeric string ("60", "").
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a finite number: %q", s)
	}
	*f = flexNumber(v)
	return nil
}

// count rounds to the nearest whole number and clamps to the int32 range.
// Sign is kept so callers can reject or repair negative counts.
func (f flexNumber) count() int {
	return int(max(math.MinInt32, min(math.MaxInt32, math.Round(float64(f)))))
}

func (s *SetEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Weight      flexNumber `json:"weight"`
		Reps        flexNumber `json:"reps"`
		RestTime    flexNumber `json:"restTime"`
		IsCompleted bool       `json:"isCompleted"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SetEntry{
		Weight:      float64(raw.Weight),
		Reps:        raw.Reps.count(),
		RestTime:    raw.RestTime.count(),
		IsCompleted: raw.IsCompleted,
	}
	return nil
}

func (e *ExerciseInstance) UnmarshalJSON(data []byte) error {
	type plain ExerciseInstance
	var raw struct {
		plain
		InstanceID json.RawMessage `json:"instanceId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = ExerciseInstance(raw.plain)
	e.BodyPart = NormalizeBodyPart(e.BodyPart)
	if e.Sets == nil {
		e.Sets = []SetEntry{}
	}

	id := bytes.TrimSpace(raw.InstanceID)
	switch {
	case len(id) == 0 || string(id) == "null":
		e.InstanceID = ""
	case id[0] == '"':
		return json.Unmarshal(id, &e.InstanceID)
	default:
		e.InstanceID = string(id) // numeric ID from the browser version
	}
	return nil
}

func (d *ExerciseDefinition) UnmarshalJSON(data []byte) error {
	type plain ExerciseDefinition
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = ExerciseDefinition(raw)
	d.BodyPart = NormalizeBodyPart(d.BodyPart)
	return nil
}
