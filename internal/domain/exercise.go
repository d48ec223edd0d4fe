// internal/domain/exercise.go
package domain

// BodyPart is the category code used to group exercises for summary statistics.
type BodyPart string

const (
	BodyPartChest     BodyPart = "Chest"
	BodyPartBack      BodyPart = "Back"
	BodyPartLegs      BodyPart = "Legs"
	BodyPartShoulders BodyPart = "Shoulders"
	BodyPartArms      BodyPart = "Arms" // Biceps and triceps share one code
	BodyPartCore      BodyPart = "Core"

	// BodyPartAll is only meaningful as a catalog filter, never on an exercise.
	BodyPartAll BodyPart = "All"
)

// BodyParts lists the assignable categories in display order.
var BodyParts = []BodyPart{
	BodyPartChest,
	BodyPartBack,
	BodyPartLegs,
	BodyPartShoulders,
	BodyPartArms,
	BodyPartCore,
}

var bodyPartLabels = map[BodyPart]string{
	BodyPartChest:     "가슴",
	BodyPartBack:      "등",
	BodyPartLegs:      "하체",
	BodyPartShoulders: "어깨",
	BodyPartArms:      "팔",
	BodyPartCore:      "복근",
	BodyPartAll:       "전체",
}

// BodyPartLabel maps a body part code to its display label.
// Unknown codes pass through unchanged.
func BodyPartLabel(code BodyPart) string {
	if label, ok := bodyPartLabels[code]; ok {
		return label
	}
	return string(code)
}

// IsValid reports whether the code can be assigned to an exercise.
func (b BodyPart) IsValid() bool {
	for _, p := range BodyParts {
		if p == b {
			return true
		}
	}
	return false
}

// ExerciseDefinition represents a single exercise in the catalog.
// Built-in definitions ship with the app, custom ones are persisted under
// the custom exercises key.
type ExerciseDefinition struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	BodyPart BodyPart `json:"bodyPart"`
	IsCustom bool     `json:"isCustom,omitempty"`
}
