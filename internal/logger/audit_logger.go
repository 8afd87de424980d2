// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for point-awarding events.
// Settlements mutate user standings, so every one is recorded with enough
// context to reconstruct the ledger.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetSettlement records a completed bet settlement.
func (al *AuditLogger) LogBetSettlement(betID, userID uuid.UUID, groupID int64, raceDate time.Time, points int) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"user_id":   userID,
		"group_id":  groupID,
		"race_date": raceDate.Format("2006-01-02"),
		"points":    points,
	}).Info("Bet settled")
}

// LogSweepCompleted records the outcome of an evaluation sweep.
func (al *AuditLogger) LogSweepCompleted(candidates, evaluated, skipped, failed int, duration time.Duration) {
	al.WithFields(logrus.Fields{
		"candidates": candidates,
		"evaluated":  evaluated,
		"skipped":    skipped,
		"failed":     failed,
		"duration":   duration.String(),
	}).Info("Bet evaluation sweep completed")
}
