package models

import "time"

// Doctor is a physician profile with its nested user account.
type Doctor struct {
	ID            int64  `json:"id"`
	User          User   `json:"user"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number"`
}

// Patient is a registered patient record.
type Patient struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DateOfBirth     string     `json:"date_of_birth"`
	MedicalHistory  string     `json:"medical_history,omitempty"`
	AttendingDoctor int64      `json:"attending_doctor"`
	CreatedBy       *int64     `json:"created_by"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// Attachment is a file linked to a case or prescription.
type Attachment struct {
	ID         int64      `json:"id"`
	Label      string     `json:"label"`
	File       string     `json:"file"`
	UploadedAt *time.Time `json:"uploaded_at"`
}

// Prescription is authored by a doctor against a case.
type Prescription struct {
	ID                 int64        `json:"id"`
	PrescriptionNumber string       `json:"prescription_number"`
	Case               int64        `json:"case"`
	Doctor             *int64       `json:"doctor"`
	Patient            int64        `json:"patient"`
	Details            string       `json:"details"`
	Attachments        []Attachment `json:"attachments"`
	CreatedAt          *time.Time   `json:"created_at"`
	UpdatedAt          *time.Time   `json:"updated_at"`
}

// Case is a clinical case opened for a patient.
type Case struct {
	ID                  int64          `json:"id"`
	CaseNumber          string         `json:"case_number"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	Symptoms            string         `json:"symptoms"`
	Details             string         `json:"details"`
	Patient             int64          `json:"patient"`
	PatientName         string         `json:"patient_name"`
	CreatedBy           *int64         `json:"created_by"`
	AssignedDoctors     []int64        `json:"assigned_doctors"`
	AssignedDoctorNames []string       `json:"assigned_doctor_names"`
	Attachments         []Attachment   `json:"attachments"`
	Prescriptions       []Prescription `json:"prescriptions"`
	CreatedAt           *time.Time     `json:"created_at"`
	UpdatedAt           *time.Time     `json:"updated_at"`
}

// Appointment schedules a patient visit with a doctor.
type Appointment struct {
	ID                int64      `json:"id"`
	AppointmentNumber string     `json:"appointment_number"`
	Patient           int64      `json:"patient"`
	PatientName       string     `json:"patient_name"`
	Case              *int64     `json:"case"`
	CaseName          string     `json:"case_name"`
	Doctor            int64      `json:"doctor"`
	DoctorName        string     `json:"doctor_name"`
	CreatedBy         *int64     `json:"created_by"`
	Notes             string     `json:"notes"`
	Status            string     `json:"status"`
	ScheduledAt       *time.Time `json:"scheduled_at"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// DoctorProfile is the doctor-specific part of an administered account.
type DoctorProfile struct {
	ID            int64  `json:"id"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number"`
}

// ReceptionistProfile is the receptionist-specific part of an account.
type ReceptionistProfile struct {
	ID         int64  `json:"id"`
	DeskNumber string `json:"desk_number"`
}

// AdminUser is a staff account as seen through admin/users/.
type AdminUser struct {
	User
	IsActive            bool                 `json:"is_active"`
	DoctorProfile       *DoctorProfile       `json:"doctor_profile"`
	ReceptionistProfile *ReceptionistProfile `json:"receptionist_profile"`
}
