package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyPartLabel(t *testing.T) {
	assert.Equal(t, "하체", BodyPartLabel(BodyPartLegs))
	assert.Equal(t, "가슴", BodyPartLabel(BodyPartChest))
	assert.Equal(t, "팔", BodyPartLabel(BodyPartArms))
	assert.Equal(t, "Cardio", BodyPartLabel("Cardio"))
}

func TestBodyPart_IsValid(t *testing.T) {
	assert.True(t, BodyPartCore.IsValid())
	assert.False(t, BodyPartAll.IsValid())
	assert.False(t, BodyPart("Cardio").IsValid())
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-01-02", FormatDateKey(d))

	for _, bad := range []string{"", "2024-1-2", "2024-02-30", "02-01-2024", "2024-01-02T00:00:00Z"} {
		_, err := ParseDateKey(bad)
		assert.ErrorIs(t, err, ErrInvalidDateKey, bad)
	}
}

func TestExerciseInstance_Clone(t *testing.T) {
	orig := ExerciseInstance{InstanceID: "a", Sets: []SetEntry{{Weight: 60, Reps: 10}}}
	c := orig.Clone()
	c.Sets[0].Reps = 1
	assert.Equal(t, 10, orig.Sets[0].Reps)
}

func TestExerciseInstance_DecodeLegacySnapshot(t *testing.T) {
	// shape written by the browser version of the app
	data := `{
		"id": "squat", "name": "스쿼트", "bodyPart": "하체",
		"instanceId": 1718000000000.123,
		"sets": [{"weight": "100", "reps": "5", "restTime": 90, "isCompleted": true}]
	}`

	var ex ExerciseInstance
	require.NoError(t, json.Unmarshal([]byte(data), &ex))

	assert.Equal(t, "1718000000000.123", ex.InstanceID)
	assert.Equal(t, BodyPartLegs, ex.BodyPart)
	require.Len(t, ex.Sets, 1)
	assert.Equal(t, SetEntry{Weight: 100, Reps: 5, RestTime: 90, IsCompleted: true}, ex.Sets[0])
}

func TestExerciseInstance_DecodeCurrentShape(t *testing.T) {
	in := ExerciseInstance{
		InstanceID: "4f1c", ID: "bench_press", Name: "벤치 프레스", BodyPart: BodyPartChest,
		Sets: []SetEntry{{Weight: 62.5, Reps: 8, RestTime: 60}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out ExerciseInstance
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestExerciseInstance_DecodeMissingSets(t *testing.T) {
	var ex ExerciseInstance
	require.NoError(t, json.Unmarshal([]byte(`{"id":"plank","bodyPart":"Core"}`), &ex))
	assert.NotNil(t, ex.Sets)
	assert.Empty(t, ex.InstanceID)
}

func TestSetEntry_DecodeRejectsGarbage(t *testing.T) {
	for _, in := range []string{
		`{"weight":"heavy"}`,
		`{"weight":"NaN"}`,
		`{"reps":"Inf"}`,
		`{"restTime":"-Infinity"}`,
		`{"weight":"1e400"}`,
	} {
		var s SetEntry
		assert.Error(t, json.Unmarshal([]byte(in), &s), in)
	}
}

func TestSetEntry_DecodeRoundsCounts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want SetEntry
	}{
		{"fractional reps round", `{"weight":"60","reps":"7.5","restTime":89.6}`, SetEntry{Weight: 60, Reps: 8, RestTime: 90}},
		{"fraction below half", `{"reps":7.4}`, SetEntry{Reps: 7}},
		{"negatives kept for validation", `{"weight":"-5","reps":-2,"restTime":"-30"}`, SetEntry{Weight: -5, Reps: -2, RestTime: -30}},
		{"huge counts clamp", `{"reps":1e12,"restTime":-1e12}`, SetEntry{Reps: math.MaxInt32, RestTime: math.MinInt32}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s SetEntry
			require.NoError(t, json.Unmarshal([]byte(tc.in), &s))
			assert.Equal(t, tc.want, s)
		})
	}
}

func TestExerciseDefinition_DecodeLegacyBodyPart(t *testing.T) {
	var d ExerciseDefinition
	require.NoError(t, json.Unmarshal([]byte(`{"id":"custom_1","name":"케이블 컬","bodyPart":"이두","isCustom":true}`), &d))
	assert.Equal(t, BodyPartArms, d.BodyPart)
	assert.True(t, d.IsCustom)
}

func TestTransferMode_IsValid(t *testing.T) {
	assert.True(t, TransferCopy.IsValid())
	assert.True(t, TransferMove.IsValid())
	assert.False(t, TransferMode("swap").IsValid())
}
