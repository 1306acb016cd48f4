package metrics

import (
	"sync"
	"time"
)

// Metrics хранит счетчики работы движка.
// nil *Metrics допустим и ничего не считает
type Metrics struct {
	mu   sync.RWMutex
	data Snapshot
}

// Snapshot - копия счетчиков на момент вызова
type Snapshot struct {
	SessionsCreated     int64
	SessionsCompleted   int64
	SessionsAbandoned   int64
	AnswersAccepted     int64
	AnswerConflicts     int64
	APICallsTotal       int64
	APICallsSuccessful  int64
	FeedbackFallbacks   int64
	AssessmentFallbacks int64
	LastUpdateTime      time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{data: Snapshot{LastUpdateTime: time.Now()}}
}

func (m *Metrics) update(fn func(*Snapshot)) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.data)
	m.data.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementSessionsCreated() {
	m.update(func(s *Snapshot) { s.SessionsCreated++ })
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.update(func(s *Snapshot) { s.SessionsCompleted++ })
}

func (m *Metrics) IncrementSessionsAbandoned() {
	m.update(func(s *Snapshot) { s.SessionsAbandoned++ })
}

func (m *Metrics) IncrementAnswersAccepted() {
	m.update(func(s *Snapshot) { s.AnswersAccepted++ })
}

// IncrementAnswerConflicts считает условные записи, проигранные параллельному ответу
func (m *Metrics) IncrementAnswerConflicts() {
	m.update(func(s *Snapshot) { s.AnswerConflicts++ })
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.update(func(s *Snapshot) {
		s.APICallsTotal++
		if success {
			s.APICallsSuccessful++
		}
	})
}

func (m *Metrics) IncrementFeedbackFallbacks() {
	m.update(func(s *Snapshot) { s.FeedbackFallbacks++ })
}

func (m *Metrics) IncrementAssessmentFallbacks() {
	m.update(func(s *Snapshot) { s.AssessmentFallbacks++ })
}

func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}
