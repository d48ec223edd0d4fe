package service

import (
	"alcyxob/bodyapp/internal/domain"
	"context"

	log "github.com/sirupsen/logrus"
)

func (s *dayStore) Transfer(ctx context.Context, sourceKey, targetKey string, mode domain.TransferMode) (int, error) {
	if !mode.IsValid() {
		return 0, ErrInvalidTransferMode
	}

	transferred := 0
	err := s.mutate(ctx, func(days map[string][]domain.ExerciseInstance) error {
		source := days[sourceKey]
		if len(source) == 0 {
			return errNoChange
		}

		// Build the copies first, the source is only cleared once they exist.
		copies := make([]domain.ExerciseInstance, len(source))
		for i, ex := range source {
			copies[i] = cloneForTransfer(ex, s.newID())
		}

		days[targetKey] = append(cloneExercises(days[targetKey]), copies...)
		if mode == domain.TransferMove {
			days[sourceKey] = []domain.ExerciseInstance{}
		}
		transferred = len(copies)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if transferred == 0 {
		log.Debugf("transfer %s -> %s skipped, source has no exercises", sourceKey, targetKey)
	} else {
		log.Infof("%s: %d exercises %s -> %s", mode, transferred, sourceKey, targetKey)
	}
	return transferred, nil
}

func (s *dayStore) CopyFrom(ctx context.Context, sourceKey, targetKey string) (int, error) {
	return s.Transfer(ctx, sourceKey, targetKey, domain.TransferCopy)
}

// cloneForTransfer deep-copies ex under a new instance ID with every set
// marked not completed. Weight, reps and rest time carry over.
func cloneForTransfer(ex domain.ExerciseInstance, instanceID string) domain.ExerciseInstance {
	c := ex.Clone()
	c.InstanceID = instanceID
	for i := range c.Sets {
		c.Sets[i].IsCompleted = false
	}
	return c
}
