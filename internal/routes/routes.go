package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/handlers"
	"medivault-server/internal/metrics"
	"medivault-server/internal/middleware"
	"medivault-server/internal/policy"
	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

// Options carries what SetupRoutes needs beyond the services themselves.
type Options struct {
	Tokens         *utils.TokenService
	Log            *zap.Logger
	Metrics        *metrics.Collector
	MetricsEnabled bool
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svcs *services.Services, opts Options) {
	authHandler := handlers.NewAuthHandler(svcs.Auth, opts.Log)
	userHandler := handlers.NewUserHandler(svcs.Auth, opts.Log)
	patientHandler := handlers.NewPatientHandler(svcs.Patients, opts.Log)
	appointmentHandler := handlers.NewAppointmentHandler(svcs.Appointments, opts.Log)
	prescriptionHandler := handlers.NewPrescriptionHandler(svcs.Prescriptions, opts.Log)
	documentHandler := handlers.NewDocumentHandler(svcs.Documents, opts.Log)
	adminHandler := handlers.NewAdminHandler(svcs.Admin, opts.Log)

	require := func(op policy.Operation) gin.HandlerFunc {
		return middleware.Require(op, opts.Metrics)
	}

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(opts.Tokens))
	{
		private.GET("/auth/me", require(policy.AuthProfile), authHandler.Me)
		private.GET("/users/doctors", require(policy.UserDoctors), userHandler.GetDoctors)

		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("", require(policy.PatientList), patientHandler.GetPatients)
			patientRoutes.GET("/:id", require(policy.PatientRead), patientHandler.GetPatient)
			patientRoutes.GET("/:id/summary", require(policy.PatientSummary), patientHandler.GetSummary)
			patientRoutes.GET("/user/:userId", require(policy.PatientReadByUser), patientHandler.GetPatientByUser)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", require(policy.AppointmentCreate), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/patient/:patientId", require(policy.AppointmentListPatient), appointmentHandler.GetPatientAppointments)
			appointmentRoutes.GET("/doctor/:doctorId", require(policy.AppointmentListDoctor), appointmentHandler.GetDoctorAppointments)
			appointmentRoutes.PATCH("/:id/status", require(policy.AppointmentUpdateStatus), appointmentHandler.UpdateAppointmentStatus)
		}

		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.POST("", require(policy.PrescriptionCreate), prescriptionHandler.CreatePrescription)
			prescriptionRoutes.GET("/:id", require(policy.PrescriptionRead), prescriptionHandler.GetPrescription)
			prescriptionRoutes.GET("/patient/:patientId", require(policy.PrescriptionListPatient), prescriptionHandler.GetPatientPrescriptions)
			prescriptionRoutes.GET("/doctor/:doctorId", require(policy.PrescriptionListDoctor), prescriptionHandler.GetDoctorPrescriptions)
			prescriptionRoutes.PATCH("/:id/status", require(policy.PrescriptionUpdateStatus), prescriptionHandler.UpdatePrescriptionStatus)
		}

		documentRoutes := private.Group("/documents")
		{
			documentRoutes.POST("", require(policy.DocumentCreate), documentHandler.AddDocument)
			documentRoutes.GET("/patient/:patientId", require(policy.DocumentListPatient), documentHandler.GetPatientDocuments)
			documentRoutes.DELETE("/:id", require(policy.DocumentDelete), documentHandler.DeleteDocument)
		}

		adminRoutes := private.Group("/admin")
		{
			adminRoutes.GET("/users", require(policy.AdminUsers), adminHandler.GetUsers)
			adminRoutes.DELETE("/users/:id", require(policy.AdminDeleteUser), adminHandler.DeleteUser)
			adminRoutes.GET("/stats", require(policy.AdminStats), adminHandler.GetStats)
		}
	}

	// Health check route
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
}
