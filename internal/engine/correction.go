package engine

import (
	"time"

	"go.uber.org/zap"
)

type CorrectionStatus string

const (
	CorrectionAttempting CorrectionStatus = "attempting"
	CorrectionSuccess    CorrectionStatus = "success"
	CorrectionFailed     CorrectionStatus = "failed"
)

// CorrectionAttempt tracks one simulated retry after a simulated
// failure. Once the status leaves attempting it never changes again.
type CorrectionAttempt struct {
	ID                 string
	OriginalError      string
	CorrectionStrategy string
	Status             CorrectionStatus
	Timestamp          time.Time
}

// BeginCorrection opens a correction attempt and schedules its
// resolution. The outcome comes from the injected random source so
// tests can force either branch. Attempts are independent; several may
// be attempting at once.
func (s *Session) BeginCorrection(originalError string) CorrectionAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginCorrectionLocked(originalError)
}

func (s *Session) beginCorrectionLocked(originalError string) CorrectionAttempt {
	attempt := CorrectionAttempt{
		ID:                 s.newID(),
		OriginalError:      originalError,
		CorrectionStrategy: "Analyzing command syntax and retrying with corrected parameters",
		Status:             CorrectionAttempting,
		Timestamp:          s.now(),
	}
	s.corrections = append(s.corrections, attempt)
	s.log.Info("self-correction started", zap.String("correction_id", attempt.ID))

	id := attempt.ID
	s.clock.After(s.correctionDelay, func() {
		s.resolveCorrection(id)
	})
	return attempt
}

func (s *Session) resolveCorrection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.corrections {
		c := &s.corrections[i]
		if c.ID != id || c.Status != CorrectionAttempting {
			continue
		}
		if s.rand() < s.correctionSuccessRate {
			c.Status = CorrectionSuccess
		} else {
			c.Status = CorrectionFailed
		}
		s.log.Info("self-correction resolved",
			zap.String("correction_id", id),
			zap.String("status", string(c.Status)))
		return
	}
}

// Corrections returns all attempts in creation order.
func (s *Session) Corrections() []CorrectionAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CorrectionAttempt, len(s.corrections))
	copy(out, s.corrections)
	return out
}

// CorrectionActive reports whether at least one attempt is still
// attempting.
func (s *Session) CorrectionActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.corrections {
		if s.corrections[i].Status == CorrectionAttempting {
			return true
		}
	}
	return false
}
