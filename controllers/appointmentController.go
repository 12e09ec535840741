package controllers

import (
	"Hospitality/handlers"
	"Hospitality/middlewares"
	"Hospitality/session"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes registers every session-protected route: the
// appointment directory, the reschedule workflow, the consultation draft and
// the reference catalogs.
func SetupAppointmentRoutes(router *gin.Engine, store *session.Store, appointmentHandler *handlers.AppointmentHandler, rescheduleHandler *handlers.RescheduleHandler, consultationHandler *handlers.ConsultationHandler, catalogHandler *handlers.CatalogHandler) {
	protected := router.Group("/").Use(middlewares.SessionAuthMiddleware(store))
	{
		protected.GET("/appointments", appointmentHandler.GetAppointments)
		protected.GET("/appointments/partition", appointmentHandler.GetPartitionedAppointments)
		protected.GET("/doctors/:doctor_id/slots", appointmentHandler.GetDoctorSlots)

		protected.POST("/appointments/:appointment_id/reschedule/select-date", rescheduleHandler.SelectDate)
		protected.POST("/appointments/:appointment_id/reschedule/select-slot", rescheduleHandler.SelectSlot)
		protected.POST("/appointments/:appointment_id/reschedule/confirm", rescheduleHandler.Confirm)
		protected.GET("/appointments/:appointment_id/reschedule", rescheduleHandler.State)

		protected.GET("/appointments/:appointment_id/consultation", consultationHandler.GetDraft)
		protected.DELETE("/appointments/:appointment_id/consultation", consultationHandler.DiscardDraft)
		protected.POST("/appointments/:appointment_id/consultation/diagnoses", consultationHandler.AddDiagnosisItem)
		protected.DELETE("/appointments/:appointment_id/consultation/diagnoses/:index", consultationHandler.RemoveDiagnosisItem)
		protected.PUT("/appointments/:appointment_id/consultation/flags", consultationHandler.SetFlags)
		protected.PUT("/appointments/:appointment_id/consultation/remarks", consultationHandler.SetRemarks)
		protected.POST("/appointments/:appointment_id/consultation/medicines", consultationHandler.AddMedicine)
		protected.PUT("/appointments/:appointment_id/consultation/medicines/:index", consultationHandler.UpdateMedicine)
		protected.DELETE("/appointments/:appointment_id/consultation/medicines/:index", consultationHandler.DeleteMedicine)
		protected.PUT("/appointments/:appointment_id/consultation/lab-tests", consultationHandler.SetLabTests)
		protected.POST("/appointments/:appointment_id/consultation/submit", consultationHandler.Submit)
		protected.POST("/appointments/:appointment_id/consultation/lab-tests/submit", consultationHandler.SubmitLabTests)

		protected.GET("/catalog/medicines", catalogHandler.GetMedicines)
		protected.GET("/catalog/target-organs", catalogHandler.GetTargetOrgans)
		protected.GET("/catalog/lab-test-types", catalogHandler.GetLabTestTypes)
	}
}
