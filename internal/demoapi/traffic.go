package demoapi

import (
	"context"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// GenerateTraffic writes a routine SYSTEM log line after every random pause
// in [logMin, logMax] until ctx is done.
func (s *Server) GenerateTraffic(ctx context.Context) {
	for {
		timer := time.NewTimer(s.nextPause())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		msg := s.pickTraffic()
		if _, err := s.store.AddLog(ctx, "SYSTEM", msg, "info"); err != nil && ctx.Err() == nil {
			s.log.Warn("traffic generator: %v", err)
		}
	}
}

func (s *Server) nextPause() time.Duration {
	if s.logMax <= s.logMin {
		return s.logMin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logMin + time.Duration(s.rng.Int64N(int64(s.logMax-s.logMin)+1))
}

func (s *Server) pickTraffic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return soc.NormalTraffic[s.rng.IntN(len(soc.NormalTraffic))]
}
