package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jptandoc/turo_backend/models"
)

// Session outcome policy. Every state transition locks the schedule row and
// applies balance changes as atomic `credits = credits + ?` updates inside
// the same transaction, so concurrent outcome calls cannot interleave into a
// lost update.
//
// Outcomes are one-way: there is no undo path for a recorded no-show.
// Disputes are handled out-of-band by support.

func lockSchedule(tx *gorm.DB, scheduleID uuid.UUID, schedule *models.Schedule) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(schedule, "id = ?", scheduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, scheduleID)
	}
	return err
}

// creditPayer refunds credits to whichever party paid for the session: the
// principal when principal_user_id is set, the student otherwise.
func creditPayer(tx *gorm.DB, schedule *models.Schedule, credits float64) error {
	if schedule.PrincipalUserID != nil {
		res := tx.Model(&models.Principal{}).
			Where("user_id = ?", *schedule.PrincipalUserID).
			Update("credits", gorm.Expr("credits + ?", credits))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: principal %s", ErrNotFound, *schedule.PrincipalUserID)
		}
		return nil
	}

	if schedule.StudentID == nil {
		return fmt.Errorf("%w: schedule %s has no payer", ErrValidation, schedule.ID)
	}
	res := tx.Model(&models.Student{}).
		Where("user_id = ?", *schedule.StudentID).
		Update("credits", gorm.Expr("credits + ?", credits))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: student %s", ErrNotFound, *schedule.StudentID)
	}
	return nil
}

func creditTutor(tx *gorm.DB, tutorID uuid.UUID, credits float64) error {
	res := tx.Model(&models.Tutor{}).
		Where("user_id = ?", tutorID).
		Update("credits", gorm.Expr("credits + ?", credits))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: tutor %s", ErrNotFound, tutorID)
	}
	return nil
}

// MarkStudentNoShow grants the session's credits to the tutor. The payer is
// not refunded; the tutor reserved the hour.
func MarkStudentNoShow(db *gorm.DB, scheduleID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		if schedule.SessionStatus != nil {
			return fmt.Errorf("%w: session already %s", ErrConflict, *schedule.SessionStatus)
		}
		if schedule.Status == models.ScheduleStatusCancelled {
			return fmt.Errorf("%w: session is cancelled", ErrConflict)
		}

		status := models.SessionStatusStudentNoShow
		noShowType := models.NoShowTypeStudent
		schedule.SessionStatus = &status
		schedule.SessionAction = &status
		schedule.NoShowType = &noShowType
		if err := tx.Save(&schedule).Error; err != nil {
			return err
		}

		return creditTutor(tx, schedule.TutorID, schedule.CreditsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// MarkTutorNoShow refunds the payer. A session the tutor already claimed as
// successful (or that has a submitted review) cannot be flipped to a no-show.
func MarkTutorNoShow(db *gorm.DB, scheduleID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		if schedule.SessionStatus != nil && *schedule.SessionStatus == models.SessionStatusSuccessful {
			return fmt.Errorf("%w: session already marked successful", ErrConflict)
		}
		if schedule.SessionAction != nil && *schedule.SessionAction == models.SessionActionReviewSubmitted {
			return fmt.Errorf("%w: a review has already been submitted for this session", ErrConflict)
		}
		if schedule.SessionStatus != nil {
			return fmt.Errorf("%w: session already %s", ErrConflict, *schedule.SessionStatus)
		}

		status := models.SessionStatusTutorNoShow
		noShowType := models.NoShowTypeTutor
		schedule.SessionStatus = &status
		schedule.SessionAction = &status
		schedule.NoShowType = &noShowType
		schedule.CreditsRefunded = schedule.CreditsRequired
		if err := tx.Save(&schedule).Error; err != nil {
			return err
		}

		return creditPayer(tx, &schedule, schedule.CreditsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ConfirmSchedule moves a pending booking to confirmed. Only the session's
// tutor may confirm.
func ConfirmSchedule(db *gorm.DB, scheduleID, tutorUserID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		if schedule.TutorID != tutorUserID {
			return fmt.Errorf("%w: you are not the tutor for this session", ErrForbidden)
		}
		if schedule.Status != models.ScheduleStatusPending {
			return fmt.Errorf("%w: session is already %s", ErrConflict, schedule.Status)
		}

		schedule.Status = models.ScheduleStatusConfirmed
		return tx.Save(&schedule).Error
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// CompleteSession records a successful outcome and credits the tutor's
// stored balance exactly once. If a review already earned the credits, the
// successful mark is recorded without a second grant.
func CompleteSession(db *gorm.DB, scheduleID, tutorUserID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		if schedule.TutorID != tutorUserID {
			return fmt.Errorf("%w: you are not the tutor for this session", ErrForbidden)
		}
		if schedule.Status != models.ScheduleStatusConfirmed {
			return fmt.Errorf("%w: only confirmed sessions can be marked successful", ErrValidation)
		}
		if schedule.EndTime.After(time.Now()) {
			return fmt.Errorf("%w: cannot mark a session successful before it has ended", ErrValidation)
		}
		if schedule.SessionStatus != nil {
			return fmt.Errorf("%w: session already %s", ErrConflict, *schedule.SessionStatus)
		}

		alreadyEarned := schedule.SessionAction != nil && *schedule.SessionAction == models.SessionActionReviewSubmitted

		status := models.SessionStatusSuccessful
		schedule.SessionStatus = &status
		if err := tx.Save(&schedule).Error; err != nil {
			return err
		}

		if alreadyEarned {
			return nil
		}
		return creditTutor(tx, schedule.TutorID, schedule.CreditsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// RecordSessionReview marks review-submitted for the payer. A review on a
// confirmed session earns the tutor's credits when the successful mark has
// not already done so.
func RecordSessionReview(db *gorm.DB, scheduleID, payerUserID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		isPayer := (schedule.StudentID != nil && *schedule.StudentID == payerUserID) ||
			(schedule.PrincipalUserID != nil && *schedule.PrincipalUserID == payerUserID)
		if !isPayer {
			return fmt.Errorf("%w: this is not your session", ErrForbidden)
		}
		if schedule.Status != models.ScheduleStatusConfirmed {
			return fmt.Errorf("%w: reviews can only be submitted for confirmed sessions", ErrValidation)
		}
		if schedule.SessionAction != nil && *schedule.SessionAction == models.SessionActionReviewSubmitted {
			return fmt.Errorf("%w: a review has already been submitted", ErrConflict)
		}
		if schedule.SessionStatus != nil && *schedule.SessionStatus != models.SessionStatusSuccessful {
			return fmt.Errorf("%w: session already %s", ErrConflict, *schedule.SessionStatus)
		}

		alreadyEarned := schedule.SessionStatus != nil && *schedule.SessionStatus == models.SessionStatusSuccessful

		action := models.SessionActionReviewSubmitted
		schedule.SessionAction = &action
		if err := tx.Save(&schedule).Error; err != nil {
			return err
		}

		if alreadyEarned {
			return nil
		}
		return creditTutor(tx, schedule.TutorID, schedule.CreditsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// CancelSchedule cancels an upcoming session and returns the booked credits
// to the payer. Either party may cancel before the start time.
func CancelSchedule(db *gorm.DB, scheduleID, callerUserID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockSchedule(tx, scheduleID, &schedule); err != nil {
			return err
		}
		isParty := schedule.TutorID == callerUserID ||
			(schedule.StudentID != nil && *schedule.StudentID == callerUserID) ||
			(schedule.PrincipalUserID != nil && *schedule.PrincipalUserID == callerUserID)
		if !isParty {
			return fmt.Errorf("%w: this is not your session", ErrForbidden)
		}
		if schedule.Status != models.ScheduleStatusPending && schedule.Status != models.ScheduleStatusConfirmed {
			return fmt.Errorf("%w: session is already %s", ErrConflict, schedule.Status)
		}
		if schedule.SessionStatus != nil {
			return fmt.Errorf("%w: session already %s", ErrConflict, *schedule.SessionStatus)
		}
		if schedule.StartTime.Before(time.Now()) {
			return fmt.Errorf("%w: cannot cancel a session that has already started", ErrValidation)
		}

		schedule.Status = models.ScheduleStatusCancelled
		schedule.CreditsRefunded = schedule.CreditsRequired
		if err := tx.Save(&schedule).Error; err != nil {
			return err
		}

		return creditPayer(tx, &schedule, schedule.CreditsRequired)
	})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}
