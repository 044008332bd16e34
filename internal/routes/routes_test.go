package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medivault-server/internal/config"
	"medivault-server/internal/metrics"
	"medivault-server/internal/middleware"
	"medivault-server/internal/models"
	"medivault-server/internal/repository/memory"
	"medivault-server/internal/routes"
	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

type testServer struct {
	router  *gin.Engine
	tokens  *utils.TokenService
	metrics *metrics.Collector
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	tokens := utils.NewTokenService(config.JWTConfig{
		Secret:     "routes-test-secret-routes-test-secret",
		Issuer:     "medivault-test",
		Expiration: time.Hour,
	})
	m := metrics.NewCollector()
	log := zap.NewNop()

	router := gin.New()
	router.Use(middleware.RequestID())
	routes.SetupRoutes(router, services.New(store, tokens, log, m), routes.Options{
		Tokens:         tokens,
		Log:            log,
		Metrics:        m,
		MetricsEnabled: true,
	})
	return &testServer{router: router, tokens: tokens, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) register(t *testing.T, name, email, role string) models.AuthResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name":      name,
		"email":     email,
		"password":  "password123",
		"role":      role,
		"specialty": "Cardiology",
		"hospital":  "St. Mary",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.AuthResponse](t, w)
}

func (s *testServer) patientOf(t *testing.T, auth models.AuthResponse) string {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/v1/patients/user/"+jsonUint(auth.ID), auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.PatientResponse](t, w).ID
}

func jsonUint(v uint) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[utils.ErrorResponse](t, w).Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Doc", "doc@example.com", "DOCTOR")

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "medivault_auth_registrations_total")
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	reg := s.register(t, "Alice", "alice@example.com", "patient")
	assert.Equal(t, "Bearer", reg.Type)
	assert.Equal(t, models.RolePatient, reg.Role)
	assert.Empty(t, reg.Specialty, "doctor attributes are dropped for patients")

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[models.AuthResponse](t, w)
	assert.Equal(t, reg.ID, login.ID)
	assert.NotEmpty(t, login.Token)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}$`, me["createdAt"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Alice", "alice@example.com", "PATIENT")

	for _, body := range []gin.H{
		{"email": "alice@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "password123"},
		{"email": "", "password": ""},
	} {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", errorMessage(t, w))
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "X", "email": "not-an-email", "password": "123", "role": "PATIENT"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[utils.ValidationErrorResponse](t, w)
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "X", "email": "x@example.com", "password": "password123", "role": "NURSE"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid role: NURSE", errorMessage(t, w))

	s.register(t, "Dup", "dup@example.com", "DOCTOR")
	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "Dup", "email": "dup@example.com", "password": "password123", "role": "DOCTOR"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered: dup@example.com", errorMessage(t, w))
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", "Authorization header required"},
		{"wrong scheme", "Basic abc", "Invalid authorization header format"},
		{"garbage token", "Bearer not-a-jwt", "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.want, errorMessage(t, w))
		})
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t)
	reg := s.register(t, "Doc", "doc@example.com", "DOCTOR")

	past := s.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	token, _, err := past.Issue(&models.User{ID: reg.ID, Role: models.RoleDoctor})
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/v1/patients", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	patient := s.register(t, "Alice", "alice@example.com", "PATIENT")
	doctor := s.register(t, "Doc", "doc@example.com", "DOCTOR")

	tests := []struct {
		method, path string
		token        string
	}{
		{http.MethodGet, "/api/v1/patients", patient.Token},
		{http.MethodGet, "/api/v1/admin/users", patient.Token},
		{http.MethodGet, "/api/v1/admin/stats", doctor.Token},
		{http.MethodDelete, "/api/v1/documents/DOC-1", doctor.Token},
		{http.MethodPost, "/api/v1/prescriptions", patient.Token},
		{http.MethodGet, "/api/v1/appointments/doctor/1", patient.Token},
	}
	for _, tt := range tests {
		w := s.do(t, tt.method, tt.path, tt.token, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, tt.path)
		assert.Equal(t, "Access denied", errorMessage(t, w))
	}
}

func TestPatientCannotReachAnotherPatientsRecords(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	bob := s.register(t, "Bob", "bob@example.com", "PATIENT")
	bobID := s.patientOf(t, bob)

	for _, path := range []string{
		"/api/v1/patients/" + bobID,
		"/api/v1/appointments/patient/" + bobID,
		"/api/v1/prescriptions/patient/" + bobID,
		"/api/v1/documents/patient/" + bobID,
		"/api/v1/patients/user/" + jsonUint(bob.ID),
		"/api/v1/patients/P-DOES-NOT-EXIST",
	} {
		w := s.do(t, http.MethodGet, path, alice.Token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
}

func TestAppointmentFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	doctor := s.register(t, "Dr. Grey", "grey@example.com", "DOCTOR")
	aliceID := s.patientOf(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{
		"patientId": aliceID,
		"doctorId":  doctor.ID,
		"startTime": "2026-03-02T10:30",
		"status":    "COMPLETED",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	appt := decode[models.AppointmentResponse](t, w)
	assert.Equal(t, "requested", appt.Status)
	assert.Equal(t, models.DefaultAppointmentReason, appt.Reason)
	assert.Equal(t, "2026-03-02T10:30:00", appt.StartTime)
	assert.Equal(t, "Dr. Grey", appt.DoctorName)
	assert.Equal(t, "Alice", appt.PatientName)

	w = s.do(t, http.MethodPatch, "/api/v1/appointments/"+jsonUint(appt.ID)+"/status", doctor.Token, gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", decode[models.AppointmentResponse](t, w).Status)

	w = s.do(t, http.MethodPatch, "/api/v1/appointments/"+jsonUint(appt.ID)+"/status", doctor.Token, gin.H{"status": "No_Show"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no_show", decode[models.AppointmentResponse](t, w).Status)

	w = s.do(t, http.MethodPatch, "/api/v1/appointments/"+jsonUint(appt.ID)+"/status", doctor.Token, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status: confirmed", errorMessage(t, w))

	w = s.do(t, http.MethodPatch, "/api/v1/appointments/"+jsonUint(appt.ID)+"/status", doctor.Token, gin.H{"status": "postponed"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status: postponed", errorMessage(t, w))

	w = s.do(t, http.MethodGet, "/api/v1/appointments/doctor/"+jsonUint(doctor.ID), doctor.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AppointmentResponse](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/v1/appointments/patient/"+aliceID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AppointmentResponse](t, w), 1)
}

func TestAppointmentCreate_Errors(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	other := s.register(t, "Other", "other@example.com", "PATIENT")
	doctor := s.register(t, "Dr. Grey", "grey@example.com", "DOCTOR")
	aliceID := s.patientOf(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{"patientId": aliceID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "patientId, doctorId and startTime are required", errorMessage(t, w))

	w = s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{"patientId": aliceID, "doctorId": other.ID, "startTime": "2026-03-02T10:30"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Selected user is not a doctor", errorMessage(t, w))

	w = s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{"patientId": aliceID, "doctorId": 9999, "startTime": "2026-03-02T10:30"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{"patientId": aliceID, "doctorId": doctor.ID, "startTime": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.HasPrefix(errorMessage(t, w), "Invalid date format"))

	w = s.do(t, http.MethodPost, "/api/v1/appointments", alice.Token, gin.H{
		"patientId": aliceID, "doctorId": doctor.ID,
		"startTime": "2026-03-02T10:30", "endTime": "2026-03-02T09:30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "End time cannot be before start time", errorMessage(t, w))

	w = s.do(t, http.MethodPatch, "/api/v1/appointments/abc/status", doctor.Token, gin.H{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrescriptionFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	bob := s.register(t, "Bob", "bob@example.com", "PATIENT")
	doctor := s.register(t, "Dr. Grey", "grey@example.com", "DOCTOR")
	aliceID := s.patientOf(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/prescriptions", doctor.Token, gin.H{
		"patientId": aliceID,
		"diagnosis": "Strep throat",
		"medications": []gin.H{
			{"name": "Amoxicillin", "dose": "500mg", "frequency": "3x daily"},
			{"name": "Ibuprofen"},
		},
		"labTests": []string{"CBC"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rx := decode[models.PrescriptionResponse](t, w)
	assert.True(t, strings.HasPrefix(rx.ID, "RX-"))
	assert.Equal(t, "active", rx.Status)
	assert.Equal(t, "Dr. Grey", rx.DoctorName)
	assert.Equal(t, "Cardiology", rx.DoctorSpecialty)
	require.Len(t, rx.Medications, 2)
	assert.Equal(t, "Amoxicillin", rx.Medications[0].Name)
	assert.Equal(t, "Ibuprofen", rx.Medications[1].Name)

	w = s.do(t, http.MethodGet, "/api/v1/prescriptions/"+rx.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/prescriptions/"+rx.ID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/prescriptions/RX-MISSING", doctor.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Prescription not found: RX-MISSING", errorMessage(t, w))

	w = s.do(t, http.MethodPatch, "/api/v1/prescriptions/"+rx.ID+"/status", doctor.Token, gin.H{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", decode[models.PrescriptionResponse](t, w).Status)

	w = s.do(t, http.MethodGet, "/api/v1/prescriptions/doctor/"+jsonUint(doctor.ID), doctor.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.PrescriptionResponse](t, w), 1)
}

func TestPrescriptionCreate_Validation(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	doctor := s.register(t, "Dr. Grey", "grey@example.com", "DOCTOR")
	aliceID := s.patientOf(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/prescriptions", doctor.Token, gin.H{
		"patientId":   aliceID,
		"diagnosis":   "Flu",
		"medications": []gin.H{{"name": "Paracetamol"}, {"dose": "10mg"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[utils.ValidationErrorResponse](t, w)
	assert.Contains(t, body.Fields, "medications[1].name")

	w = s.do(t, http.MethodGet, "/api/v1/prescriptions/patient/"+aliceID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDocumentFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	admin := s.register(t, "Root", "root@example.com", "ADMIN")
	aliceID := s.patientOf(t, alice)

	w := s.do(t, http.MethodPost, "/api/v1/documents", alice.Token, gin.H{
		"patientId": aliceID,
		"name":      "blood-panel.pdf",
		"type":      "Lab Report",
		"fileUrl":   "https://files.example.com/blood-panel.pdf",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[models.DocumentResponse](t, w)
	assert.True(t, strings.HasPrefix(doc.ID, "DOC-"))
	assert.Equal(t, "0 KB", doc.Size)

	w = s.do(t, http.MethodGet, "/api/v1/documents/patient/"+aliceID, alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.DocumentResponse](t, w), 1)

	w = s.do(t, http.MethodDelete, "/api/v1/documents/"+doc.ID, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Document deleted"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/api/v1/documents/"+doc.ID, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "Root", "root@example.com", "ADMIN")
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")
	doctor := s.register(t, "Dr. Grey", "grey@example.com", "DOCTOR")

	w := s.do(t, http.MethodGet, "/api/v1/admin/stats", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[services.Stats](t, w)
	assert.EqualValues(t, 3, stats.Users)
	assert.EqualValues(t, 1, stats.Patients)
	assert.EqualValues(t, 1, stats.Doctors)

	w = s.do(t, http.MethodGet, "/api/v1/users/doctors", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	doctors := decode[[]models.UserSanitized](t, w)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/users/"+jsonUint(alice.ID), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/admin/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.UserSanitized](t, w), 2)

	w = s.do(t, http.MethodDelete, "/api/v1/admin/users/"+jsonUint(alice.ID), admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccessDeniedIsCounted(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "Alice", "alice@example.com", "PATIENT")

	s.do(t, http.MethodGet, "/api/v1/admin/stats", alice.Token, nil)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `medivault_auth_access_denied_total{operation="admin.stats"} 1`)
}
