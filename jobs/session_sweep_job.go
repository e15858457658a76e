package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/notifications"
)

// SweepStaleSessions flags confirmed sessions that ended more than 12 hours
// ago without any recorded outcome, so ops can chase down what happened
// before payouts are reconciled.
func SweepStaleSessions() {
	log.Println("Running job: SweepStaleSessions...")

	cutoff := time.Now().Add(-12 * time.Hour)

	var staleSchedules []models.Schedule
	err := database.DB.
		Where("status = ? AND end_time < ? AND session_status IS NULL AND session_action IS NULL",
			models.ScheduleStatusConfirmed, cutoff).
		Find(&staleSchedules).Error
	if err != nil {
		log.Printf("Error sweeping stale sessions: %v", err)
		return
	}

	if len(staleSchedules) == 0 {
		log.Println("No stale sessions found.")
		return
	}

	needsReview := models.SessionActionNeedsReview
	for _, schedule := range staleSchedules {
		schedule.SessionAction = &needsReview
		database.DB.Save(&schedule)
	}

	go notifications.NotifyOps(
		"Sessions Needing Review",
		fmt.Sprintf("<h1>Stale Sessions</h1><p>%d confirmed session(s) ended over 12 hours ago with no outcome recorded. They have been flagged as needs-review.</p>", len(staleSchedules)),
	)

	log.Printf("Flagged %d session(s) as needs-review.", len(staleSchedules))
}
