package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/logger"

	"lovelottery/internal/catalog"
	"lovelottery/internal/models"
	"lovelottery/internal/storage"
)

const (
	exhaustedMessage = "送你一句情话~"
	tryAgainMessage  = "再接再厉，送你一句情话~"
)

func prizeMessage(name string) string {
	return fmt.Sprintf("恭喜你抽中了%s！", name)
}

// LotteryService owns the single draw state of a deployment.
// Every load-mutate-save sequence runs under mu, so concurrent requests
// never hand out the same slot twice.
type LotteryService struct {
	mu      sync.Mutex
	store   storage.StateStore
	catalog *catalog.Catalog
	rng     RNG
}

// NewLotteryService creates a LotteryService persisting through store.
func NewLotteryService(store storage.StateStore, cat *catalog.Catalog, rng RNG) *LotteryService {
	return &LotteryService{
		store:   store,
		catalog: cat,
		rng:     rng,
	}
}

// Load returns the current state, creating and persisting a fresh one when
// nothing usable is stored. It never fails: read errors are logged and
// replaced by a default state.
func (s *LotteryService) Load(ctx context.Context) *models.DrawState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save persists state as-is.
func (s *LotteryService) Save(ctx context.Context, state *models.DrawState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, state)
}

// Status reports draw progress.
func (s *LotteryService) Status(ctx context.Context) models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	return models.Status{
		DrawnCount:   state.CurrentDrawIndex,
		TotalDraws:   state.TotalDraws,
		AllDrawsUsed: state.Exhausted(),
	}
}

// AdminInfo reports progress together with the whole sequence, future draws included.
func (s *LotteryService) AdminInfo(ctx context.Context) models.AdminInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)
	return models.AdminInfo{
		CurrentDrawIndex: state.CurrentDrawIndex,
		TotalDraws:       state.TotalDraws,
		DrawSequence:     state.DrawSequence,
		Prizes:           state.Prizes,
		AllDrawsUsed:     state.Exhausted(),
	}
}

// Draw consumes the next slot of the sequence. Once the sequence is
// exhausted it keeps answering with a random quote and leaves the state
// untouched. The advanced cursor is persisted before the result is
// returned; if that fails the draw is not counted and the error is returned.
func (s *LotteryService) Draw(ctx context.Context) (models.DrawResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx)

	if len(state.DrawSequence) == 0 {
		logger.Warningf("Draw sequence is empty, regenerating")
		s.reshuffle(state)
		if err := s.save(ctx, state); err != nil {
			logger.Errorf("Failed to persist regenerated sequence: %v", err)
		}
	}

	if state.Exhausted() {
		return models.DrawResult{
			Type:    models.KindPoem,
			Result:  s.randomPoem(state),
			Message: exhaustedMessage,
		}, nil
	}

	entry := state.DrawSequence[state.CurrentDrawIndex]
	next := state.Clone()
	next.CurrentDrawIndex++
	if err := s.save(ctx, next); err != nil {
		return models.DrawResult{}, fmt.Errorf("persist draw %d: %w", next.CurrentDrawIndex, err)
	}
	logger.Infof("Draw %d/%d: %s (%s)", next.CurrentDrawIndex, next.TotalDraws, entry.ID, entry.Type)

	if entry.Type == models.KindPrize {
		return models.DrawResult{
			Type:    models.KindPrize,
			Result:  entry.Name,
			Message: prizeMessage(entry.Name),
		}, nil
	}
	return models.DrawResult{
		Type:    models.KindPoem,
		Result:  s.randomPoem(next),
		Message: tryAgainMessage,
	}, nil
}

// Reset reshuffles the sequence and rewinds the cursor. Prizes and poems are kept.
func (s *LotteryService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load(ctx).Clone()
	s.reshuffle(state)
	if err := s.save(ctx, state); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	logger.Infof("Lottery reset, %d draws available", state.TotalDraws)
	return nil
}

func (s *LotteryService) load(ctx context.Context) *models.DrawState {
	state, legacy, err := s.store.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrStateNotFound):
		return s.initState(ctx)
	case err != nil:
		logger.Errorf("Failed to read lottery state, using defaults: %v", err)
		return s.initState(ctx)
	case legacy:
		logger.Warningf("Upgrading legacy lottery state to version %d", models.StateVersion)
		s.upgrade(state)
		if err := s.save(ctx, state); err != nil {
			logger.Errorf("Failed to persist upgraded state: %v", err)
		}
		return state
	}

	s.normalize(state)
	return state
}

func (s *LotteryService) initState(ctx context.Context) *models.DrawState {
	state := s.newState()
	if err := s.save(ctx, state); err != nil {
		logger.Errorf("Failed to persist initial state: %v", err)
	}
	return state
}

func (s *LotteryService) save(ctx context.Context, state *models.DrawState) error {
	if err := s.store.Write(ctx, state); err != nil {
		logger.Errorf("Failed to write lottery state: %v", err)
		return err
	}
	return nil
}

func (s *LotteryService) newState() *models.DrawState {
	state := &models.DrawState{
		Prizes: append([]models.Entry(nil), s.catalog.Prizes...),
		Poems:  append([]string(nil), s.catalog.Poems...),
	}
	s.reshuffle(state)
	return state
}

// upgrade fills in the fields a legacy record lacks, keeping its prizes and poems.
func (s *LotteryService) upgrade(state *models.DrawState) {
	s.normalize(state)
	s.reshuffle(state)
}

// normalize repairs reference data and keeps the cursor inside the sequence.
func (s *LotteryService) normalize(state *models.DrawState) {
	if len(state.Prizes) == 0 {
		state.Prizes = append([]models.Entry(nil), s.catalog.Prizes...)
	}
	if len(state.Poems) == 0 {
		state.Poems = append([]string(nil), s.catalog.Poems...)
	}
	if state.TotalDraws != len(state.DrawSequence) {
		state.TotalDraws = len(state.DrawSequence)
	}
	state.CurrentDrawIndex = min(max(state.CurrentDrawIndex, 0), state.TotalDraws)
}

// reshuffle builds a fresh sequence from the state's prizes and the catalog fillers.
func (s *LotteryService) reshuffle(state *models.DrawState) {
	slots := make([]models.Entry, 0, len(state.Prizes)+len(s.catalog.Fillers))
	slots = append(slots, state.Prizes...)
	slots = append(slots, s.catalog.Fillers...)

	state.Version = models.StateVersion
	state.DrawSequence = shuffle(slots, s.rng)
	state.TotalDraws = len(state.DrawSequence)
	state.CurrentDrawIndex = 0
}

func (s *LotteryService) randomPoem(state *models.DrawState) string {
	return state.Poems[s.rng.IntN(len(state.Poems))]
}
