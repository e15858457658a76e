package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jptandoc/turo_backend/models"
)

var scheduleColumns = []string{
	"id", "tutor_id", "student_id", "principal_user_id",
	"subject", "start_time", "end_time",
	"status", "session_status", "session_action", "no_show_type",
	"credits_required", "credits_refunded",
}

func TestMarkStudentNoShow_CreditsTutor(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	tutorID := uuid.New()
	studentID := uuid.New()
	start := time.Now().Add(-2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), tutorID.String(), studentID.String(), nil,
				"Math", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				5.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tutors" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := MarkStudentNoShow(db, scheduleID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusStudentNoShow, *schedule.SessionStatus)
	assert.Equal(t, models.NoShowTypeStudent, *schedule.NoShowType)
	// the payer keeps nothing back: no refund on a student no-show
	assert.Equal(t, 0.0, schedule.CreditsRefunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkStudentNoShow_ConflictWhenOutcomeRecorded(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	successful := models.SessionStatusSuccessful
	start := time.Now().Add(-2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), uuid.New().String(), nil,
				"Math", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, successful, nil, nil,
				5.0, 0.0))
	mock.ExpectRollback()

	_, err := MarkStudentNoShow(db, scheduleID)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTutorNoShow_RefundsPrincipal(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	principalID := uuid.New()
	start := time.Now().Add(-2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), nil, principalID.String(),
				"Science", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				8.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "principals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := MarkTutorNoShow(db, scheduleID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusTutorNoShow, *schedule.SessionStatus)
	assert.Equal(t, models.NoShowTypeTutor, *schedule.NoShowType)
	assert.Equal(t, 8.0, schedule.CreditsRefunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTutorNoShow_ConflictAfterSuccess(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	successful := models.SessionStatusSuccessful
	start := time.Now().Add(-2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), uuid.New().String(), nil,
				"Science", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, successful, nil, nil,
				8.0, 0.0))
	mock.ExpectRollback()

	_, err := MarkTutorNoShow(db, scheduleID)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmSchedule_OnlyAssignedTutor(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	tutorID := uuid.New()
	start := time.Now().Add(2 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), tutorID.String(), uuid.New().String(), nil,
				"English", start, start.Add(time.Hour),
				models.ScheduleStatusPending, nil, nil, nil,
				5.0, 0.0))
	mock.ExpectRollback()

	_, err := ConfirmSchedule(db, scheduleID, uuid.New())
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteSession_CreditsTutorOnce(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	tutorID := uuid.New()
	start := time.Now().Add(-3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), tutorID.String(), uuid.New().String(), nil,
				"English", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				5.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tutors" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := CompleteSession(db, scheduleID, tutorID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusSuccessful, *schedule.SessionStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteSession_NoDoubleGrantAfterReview(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	tutorID := uuid.New()
	reviewed := models.SessionActionReviewSubmitted
	start := time.Now().Add(-3 * time.Hour)

	// the review already earned the credits, so no tutors update follows
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), tutorID.String(), uuid.New().String(), nil,
				"English", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, reviewed, nil,
				5.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := CompleteSession(db, scheduleID, tutorID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusSuccessful, *schedule.SessionStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteSession_RejectsBeforeEndTime(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	tutorID := uuid.New()
	start := time.Now().Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), tutorID.String(), uuid.New().String(), nil,
				"English", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				5.0, 0.0))
	mock.ExpectRollback()

	_, err := CompleteSession(db, scheduleID, tutorID)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSessionReview_EarnsWhenNotYetSuccessful(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	studentID := uuid.New()
	start := time.Now().Add(-3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), studentID.String(), nil,
				"History", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				4.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "tutors" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := RecordSessionReview(db, scheduleID, studentID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActionReviewSubmitted, *schedule.SessionAction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSessionReview_NoDoubleGrantAfterSuccess(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	studentID := uuid.New()
	successful := models.SessionStatusSuccessful
	start := time.Now().Add(-3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), studentID.String(), nil,
				"History", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, successful, nil, nil,
				4.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := RecordSessionReview(db, scheduleID, studentID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActionReviewSubmitted, *schedule.SessionAction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSchedule_RefundsStudentBeforeStart(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	studentID := uuid.New()
	start := time.Now().Add(4 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), studentID.String(), nil,
				"History", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				4.0, 0.0))
	mock.ExpectExec(`UPDATE "schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "students" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	schedule, err := CancelSchedule(db, scheduleID, studentID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusCancelled, schedule.Status)
	assert.Equal(t, 4.0, schedule.CreditsRefunded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSchedule_RejectsAfterStart(t *testing.T) {
	db, mock, closeDB := newTestDB(t)
	defer closeDB()

	scheduleID := uuid.New()
	studentID := uuid.New()
	start := time.Now().Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "schedules" WHERE id = .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(scheduleID.String(), uuid.New().String(), studentID.String(), nil,
				"History", start, start.Add(time.Hour),
				models.ScheduleStatusConfirmed, nil, nil, nil,
				4.0, 0.0))
	mock.ExpectRollback()

	_, err := CancelSchedule(db, scheduleID, studentID)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}
