package scores

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"pathscheduler-bot/internal/models"
	"pathscheduler-bot/internal/store"
	"pathscheduler-bot/internal/util"
)

// ErrAlreadySubmitted means a record already exists for this (quiz, user)
// pair. Score records are write-once.
var ErrAlreadySubmitted = errors.New("scores: already submitted")

const leaderboardSize = 10

type Service struct {
	store store.Store

	// Serializes the read-before-write per score key, so two submissions
	// racing through this process cannot both pass the existence check.
	// Cross-process duplicates remain possible: the store has no CAS.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(st store.Store) *Service {
	return &Service{
		store: st,
		locks: map[string]*sync.Mutex{},
	}
}

// Submit stores rec under its (quizId, userId) key with a server-assigned
// RFC3339 date. A record already present, whatever its payload, means
// ErrAlreadySubmitted; stored records are never overwritten.
func (s *Service) Submit(ctx context.Context, rec models.ScoreRecord) error {
	key := store.ScoreKey(rec.QuizID, rec.UserID)

	unlock := s.lockKey(key)
	defer unlock()

	_, err := s.store.Get(ctx, key)
	if err == nil {
		s.releaseKey(key)
		return ErrAlreadySubmitted
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	rec.Date = util.NowISO()
	encoded, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, key, string(encoded)); err != nil {
		return err
	}
	s.releaseKey(key)
	return nil
}

// Leaderboard returns the top entries for a quiz, highest score first.
// Ties rank the earlier submission higher. The scan over the quiz prefix is
// unbounded; fine while quizzes stay small.
func (s *Service) Leaderboard(ctx context.Context, quizID string) ([]models.ScoreRecord, error) {
	values, err := s.store.List(ctx, store.QuizPrefix(quizID))
	if err != nil {
		return nil, err
	}

	records := make([]models.ScoreRecord, 0, len(values))
	for _, v := range values {
		var rec models.ScoreRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		si, sj := numeric(records[i].Score), numeric(records[j].Score)
		if si != sj {
			return si > sj
		}
		return records[i].Date < records[j].Date
	})

	if len(records) > leaderboardSize {
		records = records[:leaderboardSize]
	}
	return records, nil
}

// UserStatus returns the stored record verbatim, or ok=false if the user
// has not played this quiz.
func (s *Service) UserStatus(ctx context.Context, quizID, userID string) (json.RawMessage, bool, error) {
	val, err := s.store.Get(ctx, store.ScoreKey(quizID, userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(val), true, nil
}

func (s *Service) lockKey(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// releaseKey drops the lock entry once a record is known to exist under the
// key. The key is write-once, so later submissions fail the existence check
// whether or not they serialize; only transient store errors keep the entry.
func (s *Service) releaseKey(key string) {
	s.mu.Lock()
	delete(s.locks, key)
	s.mu.Unlock()
}

func numeric(n json.Number) float64 {
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}
