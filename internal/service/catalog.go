package service

import (
	"alcyxob/bodyapp/internal/domain"
	"alcyxob/bodyapp/internal/repository"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrValidationFailed = errors.New("exercise validation failed")
)

const customIDPrefix = "custom_"

// DefaultExercises is the built-in catalog.
var DefaultExercises = []domain.ExerciseDefinition{
	{ID: "bench_press", Name: "벤치 프레스", BodyPart: domain.BodyPartChest},
	{ID: "incline_bench_press", Name: "인클라인 벤치 프레스", BodyPart: domain.BodyPartChest},
	{ID: "incline_dumbbell_press", Name: "인클라인 덤벨 프레스", BodyPart: domain.BodyPartChest},
	{ID: "dumbbell_fly", Name: "덤벨 플라이", BodyPart: domain.BodyPartChest},
	{ID: "push_up", Name: "푸쉬업", BodyPart: domain.BodyPartChest},
	{ID: "decline_push_up", Name: "디클라인 푸쉬업", BodyPart: domain.BodyPartChest},
	{ID: "incline_push_up", Name: "인클라인 푸쉬업", BodyPart: domain.BodyPartChest},
	{ID: "squat", Name: "스쿼트", BodyPart: domain.BodyPartLegs},
	{ID: "leg_press", Name: "레그 프레스", BodyPart: domain.BodyPartLegs},
	{ID: "lunge", Name: "런지", BodyPart: domain.BodyPartLegs},
	{ID: "bulgarian_split_squat", Name: "불가리안 스쿼트", BodyPart: domain.BodyPartLegs},
	{ID: "deadlift", Name: "데드리프트", BodyPart: domain.BodyPartBack},
	{ID: "pull_up", Name: "풀업", BodyPart: domain.BodyPartBack},
	{ID: "lat_pulldown", Name: "랫 풀다운", BodyPart: domain.BodyPartBack},
	{ID: "dumbbell_row", Name: "덤벨 로우", BodyPart: domain.BodyPartBack},
	{ID: "shoulder_press", Name: "숄더 프레스", BodyPart: domain.BodyPartShoulders},
	{ID: "lateral_raise", Name: "사이드 레터럴 레이즈", BodyPart: domain.BodyPartShoulders},
	{ID: "pike_push_up", Name: "파이크 푸쉬업", BodyPart: domain.BodyPartShoulders},
	{ID: "bicep_curl", Name: "바벨 컬", BodyPart: domain.BodyPartArms},
	{ID: "dumbbell_curl", Name: "덤벨 컬", BodyPart: domain.BodyPartArms},
	{ID: "tricep_extension", Name: "트라이셉스 익스텐션", BodyPart: domain.BodyPartArms},
	{ID: "dumbbell_lying_tricep_extension", Name: "덤벨 라잉 트라이셉스 익스텐션", BodyPart: domain.BodyPartArms},
	{ID: "overhead_extension", Name: "오버헤드 익스텐션", BodyPart: domain.BodyPartArms},
	{ID: "dumbbell_kickback", Name: "덤벨 킥백", BodyPart: domain.BodyPartArms},
	{ID: "dips", Name: "딥스", BodyPart: domain.BodyPartArms},
	{ID: "crunch", Name: "크런치", BodyPart: domain.BodyPartCore},
	{ID: "plank", Name: "플랭크", BodyPart: domain.BodyPartCore},
}

// --- Service Interface ---
type ExerciseCatalog interface {
	// List returns the built-in exercises followed by the custom ones.
	List(ctx context.Context) ([]domain.ExerciseDefinition, error)
	// Search filters List by a case-insensitive name substring and a body part ("" or All = any).
	Search(ctx context.Context, query string, bodyPart domain.BodyPart) ([]domain.ExerciseDefinition, error)
	Find(ctx context.Context, id string) (*domain.ExerciseDefinition, error)
	// AddCustom stores a new custom exercise and returns the updated custom list.
	AddCustom(ctx context.Context, name string, bodyPart domain.BodyPart) ([]domain.ExerciseDefinition, error)
	// DeleteCustom removes a custom exercise and returns the updated custom list.
	DeleteCustom(ctx context.Context, id string) ([]domain.ExerciseDefinition, error)
}

// --- Service Implementation ---

// exerciseCatalog implements the ExerciseCatalog interface.
// Custom exercises are read from the repository on every call, there is no cache.
type exerciseCatalog struct {
	// mu serialises the load-modify-save of the custom list.
	mu    sync.Mutex
	repo  repository.KeyValueRepository
	newID func() string
}

// NewExerciseCatalog creates a catalog persisting custom exercises to repo.
func NewExerciseCatalog(repo repository.KeyValueRepository) ExerciseCatalog {
	return &exerciseCatalog{
		repo:  repo,
		newID: func() string { return customIDPrefix + uuid.NewString() },
	}
}

func (c *exerciseCatalog) List(ctx context.Context) ([]domain.ExerciseDefinition, error) {
	custom, err := c.loadCustom(ctx)
	if err != nil {
		return nil, err
	}
	all := make([]domain.ExerciseDefinition, 0, len(DefaultExercises)+len(custom))
	all = append(all, DefaultExercises...)
	all = append(all, custom...)
	return all, nil
}

func (c *exerciseCatalog) Search(ctx context.Context, query string, bodyPart domain.BodyPart) ([]domain.ExerciseDefinition, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	bodyPart = domain.NormalizeBodyPart(bodyPart)
	matches := make([]domain.ExerciseDefinition, 0, len(all))
	for _, ex := range all {
		if query != "" && !strings.Contains(strings.ToLower(ex.Name), query) {
			continue
		}
		if bodyPart != "" && bodyPart != domain.BodyPartAll && ex.BodyPart != bodyPart {
			continue
		}
		matches = append(matches, ex)
	}
	return matches, nil
}

func (c *exerciseCatalog) Find(ctx context.Context, id string) (*domain.ExerciseDefinition, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrExerciseNotFound
}

func (c *exerciseCatalog) AddCustom(ctx context.Context, name string, bodyPart domain.BodyPart) ([]domain.ExerciseDefinition, error) {
	name = strings.TrimSpace(name)
	bodyPart = domain.NormalizeBodyPart(bodyPart)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !bodyPart.IsValid() {
		return nil, fmt.Errorf("%w: unknown body part %q", ErrValidationFailed, bodyPart)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	custom, err := c.loadCustom(ctx)
	if err != nil {
		return nil, err
	}
	custom = append(custom, domain.ExerciseDefinition{
		ID:       c.newID(),
		Name:     name,
		BodyPart: bodyPart,
		IsCustom: true,
	})
	if err := c.saveCustom(ctx, custom); err != nil {
		return nil, err
	}
	return custom, nil
}

func (c *exerciseCatalog) DeleteCustom(ctx context.Context, id string) ([]domain.ExerciseDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	custom, err := c.loadCustom(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]domain.ExerciseDefinition, 0, len(custom))
	for _, ex := range custom {
		if ex.ID != id {
			updated = append(updated, ex)
		}
	}
	// Unknown IDs (built-ins included) leave the list as it was.
	if len(updated) == len(custom) {
		return custom, nil
	}
	if err := c.saveCustom(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// loadCustom reads the custom list. A missing or malformed value is an empty list.
func (c *exerciseCatalog) loadCustom(ctx context.Context) ([]domain.ExerciseDefinition, error) {
	data, err := c.repo.Load(ctx, repository.CustomExercisesKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.ExerciseDefinition{}, nil
		}
		return nil, fmt.Errorf("load custom exercises: %w", err)
	}

	var custom []domain.ExerciseDefinition
	if err := json.Unmarshal(data, &custom); err != nil {
		log.Warnf("custom exercises value is malformed, treating as empty: %v", err)
		return []domain.ExerciseDefinition{}, nil
	}
	if custom == nil {
		custom = []domain.ExerciseDefinition{}
	}
	for i := range custom {
		custom[i].IsCustom = true
	}
	return custom, nil
}

func (c *exerciseCatalog) saveCustom(ctx context.Context, custom []domain.ExerciseDefinition) error {
	data, err := json.Marshal(custom)
	if err != nil {
		return err
	}
	if err := c.repo.Save(ctx, repository.CustomExercisesKey, data); err != nil {
		return fmt.Errorf("save custom exercises: %w", err)
	}
	return nil
}
