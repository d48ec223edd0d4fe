package service

import (
	"alcyxob/bodyapp/internal/domain"
	"alcyxob/bodyapp/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrInvalidTransferMode = errors.New("invalid transfer mode, expected copy or move")
	ErrSameDayTransfer     = errors.New("source and target day are the same")

	// errNoChange lets a mutation skip the write entirely.
	errNoChange = errors.New("no change")
)

// --- Service Interface ---
type DayStore interface {
	// Load reads the persisted mapping. Call once at startup.
	Load(ctx context.Context) error

	// Get returns a copy of the day's exercises, never nil.
	Get(dateKey string) []domain.ExerciseInstance
	HasWorkout(dateKey string) bool
	// WorkoutDates lists the day-keys with at least one exercise, sorted.
	WorkoutDates() []string
	MonthCalendar(year int, month time.Month) [][]CalendarDay

	SetDay(ctx context.Context, dateKey string, exercises []domain.ExerciseInstance) error
	AddExercise(ctx context.Context, dateKey string, def domain.ExerciseDefinition) (domain.ExerciseInstance, error)
	AddSet(ctx context.Context, dateKey string, exerciseIndex int, set domain.SetEntry) error
	UpdateSet(ctx context.Context, dateKey string, exerciseIndex, setIndex int, set domain.SetEntry) error
	// CompleteSet toggles a set's completion flag and returns the updated set.
	CompleteSet(ctx context.Context, dateKey string, exerciseIndex, setIndex int) (domain.SetEntry, error)
	DeleteExercise(ctx context.Context, dateKey string, exerciseIndex int) error

	// Transfer appends fresh copies of source's exercises to target and,
	// for TransferMove, clears source. Returns how many exercises were transferred.
	Transfer(ctx context.Context, sourceKey, targetKey string, mode domain.TransferMode) (int, error)
	// CopyFrom loads another day's routine into targetKey. Same as Transfer with TransferCopy.
	CopyFrom(ctx context.Context, sourceKey, targetKey string) (int, error)

	// Snapshot returns the persisted form of the whole store.
	Snapshot() ([]byte, error)
}

// --- Service Implementation ---

// dayStore keeps the date-key -> exercises mapping in memory and writes
// the full mapping back to the repository after every mutation.
type dayStore struct {
	mu    sync.Mutex
	repo  repository.KeyValueRepository
	days  map[string][]domain.ExerciseInstance
	newID func() string

	// quarantined holds entries under keys that are not valid dates.
	// They are never served but are written back unchanged on every save.
	quarantined map[string]json.RawMessage
}

// NewDayStore creates an empty store persisting to repo. Call Load before serving.
func NewDayStore(repo repository.KeyValueRepository) DayStore {
	return &dayStore{
		repo:  repo,
		days:  make(map[string][]domain.ExerciseInstance),
		newID: uuid.NewString,
	}
}

func (s *dayStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.repo.Load(ctx, repository.WorkoutsKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("no saved workouts, starting with an empty store")
			s.days = make(map[string][]domain.ExerciseInstance)
			return nil
		}
		return fmt.Errorf("load workouts: %w", err)
	}

	days, quarantined, err := decodeDays(data)
	if err != nil {
		log.Warnf("saved workouts are malformed, starting with an empty store: %v", err)
		s.days = make(map[string][]domain.ExerciseInstance)
		s.quarantined = nil
		return nil
	}

	s.days = s.normalize(days)
	s.quarantined = quarantined
	log.Infof("loaded workouts for %d days", len(s.days))
	return nil
}

// decodeDays splits a snapshot into valid days and the raw entries of keys
// that are not dates.
func decodeDays(data []byte) (map[string][]domain.ExerciseInstance, map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, errors.New("snapshot is null")
	}

	days := make(map[string][]domain.ExerciseInstance, len(raw))
	var quarantined map[string]json.RawMessage
	for k, v := range raw {
		if _, err := domain.ParseDateKey(k); err != nil {
			log.Warnf("keeping workouts under malformed day-key %q aside, they are saved back unchanged", k)
			if quarantined == nil {
				quarantined = make(map[string]json.RawMessage)
			}
			quarantined[k] = v
			continue
		}
		var exercises []domain.ExerciseInstance
		if err := json.Unmarshal(v, &exercises); err != nil {
			return nil, nil, fmt.Errorf("day %s: %w", k, err)
		}
		days[k] = exercises
	}
	return days, quarantined, nil
}

// encode marshals days together with the quarantined entries.
func (s *dayStore) encode(days map[string][]domain.ExerciseInstance) ([]byte, error) {
	if len(s.quarantined) == 0 {
		return json.Marshal(days)
	}
	all := make(map[string]any, len(days)+len(s.quarantined))
	for k, v := range s.quarantined {
		all[k] = v
	}
	for k, v := range days {
		all[k] = v
	}
	return json.Marshal(all)
}

// normalize makes every instance ID unique store-wide and zeroes negative
// set values left by the browser version.
func (s *dayStore) normalize(days map[string][]domain.ExerciseInstance) map[string][]domain.ExerciseInstance {
	// Walk days in key order so repaired IDs are deterministic per snapshot.
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]struct{})
	out := make(map[string][]domain.ExerciseInstance, len(days))
	for _, k := range keys {
		exercises := days[k]
		if exercises == nil {
			exercises = []domain.ExerciseInstance{}
		}
		for i := range exercises {
			if _, dup := seen[exercises[i].InstanceID]; exercises[i].InstanceID == "" || dup {
				exercises[i].InstanceID = s.newID()
			}
			seen[exercises[i].InstanceID] = struct{}{}

			for j := range exercises[i].Sets {
				set := &exercises[i].Sets[j]
				if validateSet(*set) == nil {
					continue
				}
				log.Warnf("zeroing negative values in %s exercise %d set %d", k, i, j)
				set.Weight = max(set.Weight, 0)
				set.Reps = max(set.Reps, 0)
				set.RestTime = max(set.RestTime, 0)
			}
		}
		out[k] = exercises
	}
	return out
}

func (s *dayStore) Get(dateKey string) []domain.ExerciseInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneExercises(s.days[dateKey])
}

func (s *dayStore) HasWorkout(dateKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.days[dateKey]) > 0
}

func (s *dayStore) WorkoutDates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]string, 0, len(s.days))
	for k, exercises := range s.days {
		// An empty day is the same as no day.
		if len(exercises) > 0 {
			dates = append(dates, k)
		}
	}
	sort.Strings(dates)
	return dates
}

func (s *dayStore) MonthCalendar(year int, month time.Month) [][]CalendarDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildMonthCalendar(year, month, func(dateKey string) []domain.ExerciseInstance {
		return s.days[dateKey]
	})
}

func (s *dayStore) SetDay(ctx context.Context, dateKey string, exercises []domain.ExerciseInstance) error {
	for i, ex := range exercises {
		for j, set := range ex.Sets {
			if err := validateSet(set); err != nil {
				return fmt.Errorf("exercise %d set %d: %w", i, j, err)
			}
		}
	}
	return s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		replaced := cloneExercises(exercises)
		taken := s.instanceIDsExcept(days, dateKey)
		for i := range replaced {
			if _, dup := taken[replaced[i].InstanceID]; replaced[i].InstanceID == "" || dup {
				replaced[i].InstanceID = s.newID()
			}
			taken[replaced[i].InstanceID] = struct{}{}
		}
		days[dateKey] = replaced
		return nil
	})
}

func (s *dayStore) AddExercise(ctx context.Context, dateKey string, def domain.ExerciseDefinition) (domain.ExerciseInstance, error) {
	instance := domain.ExerciseInstance{
		InstanceID: s.newID(),
		ID:         def.ID,
		Name:       def.Name,
		BodyPart:   def.BodyPart,
		IsCustom:   def.IsCustom,
		Sets:       []domain.SetEntry{},
	}
	err := s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		days[dateKey] = append(cloneExercises(days[dateKey]), instance)
		return nil
	})
	if err != nil {
		return domain.ExerciseInstance{}, err
	}
	return instance.Clone(), nil
}

func (s *dayStore) AddSet(ctx context.Context, dateKey string, exerciseIndex int, set domain.SetEntry) error {
	if err := validateSet(set); err != nil {
		return err
	}
	return s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		exercises := cloneExercises(days[dateKey])
		if exerciseIndex < 0 || exerciseIndex >= len(exercises) {
			return fmt.Errorf("%w: exercise %d on %s", ErrIndexOutOfRange, exerciseIndex, dateKey)
		}
		exercises[exerciseIndex].Sets = append(exercises[exerciseIndex].Sets, set)
		days[dateKey] = exercises
		return nil
	})
}

func (s *dayStore) UpdateSet(ctx context.Context, dateKey string, exerciseIndex, setIndex int, set domain.SetEntry) error {
	if err := validateSet(set); err != nil {
		return err
	}
	return s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		exercises := cloneExercises(days[dateKey])
		if err := checkSetIndex(exercises, dateKey, exerciseIndex, setIndex); err != nil {
			return err
		}
		exercises[exerciseIndex].Sets[setIndex] = set
		days[dateKey] = exercises
		return nil
	})
}

func (s *dayStore) CompleteSet(ctx context.Context, dateKey string, exerciseIndex, setIndex int) (domain.SetEntry, error) {
	var updated domain.SetEntry
	err := s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		exercises := cloneExercises(days[dateKey])
		if err := checkSetIndex(exercises, dateKey, exerciseIndex, setIndex); err != nil {
			return err
		}
		set := &exercises[exerciseIndex].Sets[setIndex]
		set.IsCompleted = !set.IsCompleted
		updated = *set
		days[dateKey] = exercises
		return nil
	})
	return updated, err
}

func (s *dayStore) DeleteExercise(ctx context.Context, dateKey string, exerciseIndex int) error {
	return s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		exercises := cloneExercises(days[dateKey])
		if exerciseIndex < 0 || exerciseIndex >= len(exercises) {
			return fmt.Errorf("%w: exercise %d on %s", ErrIndexOutOfRange, exerciseIndex, dateKey)
		}
		days[dateKey] = append(exercises[:exerciseIndex], exercises[exerciseIndex+1:]...)
		return nil
	})
}

func (s *dayStore) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encode(s.days)
}

// mutate applies fn to a working copy of the mapping, persists the result
// and only then swaps it in. fn must assign new slices, never modify the
// slices it finds in the map, since those are shared with the live mapping.
// A failed fn or a failed write leaves the store untouched.
func (s *dayStore) mutate(ctx context.Context, fn func(days map[string][]domain.ExerciseInstance) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.days)
	if err := fn(next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	data, err := s.encode(next)
	if err != nil {
		return fmt.Errorf("encode workouts: %w", err)
	}
	if err := s.repo.Save(ctx, repository.WorkoutsKey, data); err != nil {
		log.Errorf("failed to persist workouts: %v", err)
		return fmt.Errorf("save workouts: %w", err)
	}

	s.days = next
	return nil
}

// instanceIDsExcept collects instance IDs of every day but skip.
func (s *dayStore) instanceIDsExcept(days map[string][]domain.ExerciseInstance, skip string) map[string]struct{} {
	ids := make(map[string]struct{})
	for k, exercises := range days {
		if k == skip {
			continue
		}
		for _, ex := range exercises {
			ids[ex.InstanceID] = struct{}{}
		}
	}
	return ids
}

// validateSet rejects negative weight, reps or rest time.
func validateSet(set domain.SetEntry) error {
	switch {
	case set.Weight < 0 || math.IsNaN(set.Weight) || math.IsInf(set.Weight, 0):
		return fmt.Errorf("%w: weight must be a non-negative number, got %v", ErrValidationFailed, set.Weight)
	case set.Reps < 0:
		return fmt.Errorf("%w: reps must be >= 0, got %d", ErrValidationFailed, set.Reps)
	case set.RestTime < 0:
		return fmt.Errorf("%w: rest time must be >= 0, got %d", ErrValidationFailed, set.RestTime)
	}
	return nil
}

func checkSetIndex(exercises []domain.ExerciseInstance, dateKey string, exerciseIndex, setIndex int) error {
	if exerciseIndex < 0 || exerciseIndex >= len(exercises) {
		return fmt.Errorf("%w: exercise %d on %s", ErrIndexOutOfRange, exerciseIndex, dateKey)
	}
	if setIndex < 0 || setIndex >= len(exercises[exerciseIndex].Sets) {
		return fmt.Errorf("%w: set %d of exercise %d on %s", ErrIndexOutOfRange, setIndex, exerciseIndex, dateKey)
	}
	return nil
}

func cloneExercises(exercises []domain.ExerciseInstance) []domain.ExerciseInstance {
	out := make([]domain.ExerciseInstance, len(exercises))
	for i, ex := range exercises {
		out[i] = ex.Clone()
	}
	return out
}
