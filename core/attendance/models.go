package attendance

import "time"

// Status values recorded by lecturers. The ledger does not enforce this
// domain on write; whatever was submitted is persisted as-is.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

type (
	// Attendance is one status record for one enrollment on one date.
	// Nothing prevents several rows for the same enrollment and date.
	Attendance struct {
		ID           int       `json:"id"`
		EnrollmentID int       `json:"enrollment_id"`
		Date         time.Time `json:"date"`
		Status       string    `json:"status"`
	}

	// EntryForm is a submitted attendance sheet: enrollment id -> status.
	EntryForm struct {
		Statuses map[int]string `json:"statuses"`
	}

	// AbsentEnrollment identifies an enrollment with at least one Absent
	// row, joined with the student's contact details.
	AbsentEnrollment struct {
		EnrollmentID int    `json:"enrollment_id"`
		StudentName  string `json:"student_name"`
		Email        string `json:"email"`
	}
)
