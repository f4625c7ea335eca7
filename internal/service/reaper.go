package service

import (
	"context"
	"time"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/logging"
)

// ReapIdle abandons live battles idle for longer than the idle timeout and
// drops every session, live or concluded, past that age. It returns the
// number of sessions removed.
func (s *Service) ReapIdle(ctx context.Context, now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	type idle struct {
		sess    *session
		idleFor time.Duration
	}
	var expired []idle
	s.mu.Lock()
	for id, sess := range s.sessions {
		d := now.Sub(sess.lastActivity)
		if d < s.idleTimeout {
			continue
		}
		expired = append(expired, idle{sess, d})
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, e := range expired {
		sess := e.sess
		if !sess.battle.Concluded() {
			sess.cancel()
			if err := sess.battle.Abandon(); err == nil {
				logging.Info("battle abandoned due to inactivity", logging.Fields{
					constants.LogFieldBattleID: sess.battle.ID(),
					constants.LogFieldRunID:    sess.run.RunID,
					constants.LogFieldIdle:     e.idleFor.String(),
				})
			}
		}
		s.conclude(ctx, sess)
	}
	return len(expired)
}
