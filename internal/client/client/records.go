package client

import "github.com/dmitrijs2005/medrecords/internal/client/models"

// Records binds every collection the service exposes to one gateway.
type Records struct {
	Patients      *Resource[models.Patient]
	Doctors       *Resource[models.Doctor]
	Cases         *Resource[models.Case]
	Appointments  *Resource[models.Appointment]
	Prescriptions *Resource[models.Prescription]
	AdminUsers    *Resource[models.AdminUser]
	AdminPatients *Resource[models.Patient]
}

func NewRecords(g *Gateway) *Records {
	return &Records{
		Patients:      NewResource[models.Patient](g, "patients/"),
		Doctors:       NewResource[models.Doctor](g, "doctors/"),
		Cases:         NewResource[models.Case](g, "cases/"),
		Appointments:  NewResource[models.Appointment](g, "appointments/"),
		Prescriptions: NewResource[models.Prescription](g, "prescriptions/"),
		AdminUsers:    NewResource[models.AdminUser](g, "admin/users/"),
		AdminPatients: NewResource[models.Patient](g, "admin/patients/"),
	}
}
