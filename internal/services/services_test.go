package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medivault-server/internal/config"
	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
	"medivault-server/internal/repository/memory"
	"medivault-server/internal/utils"
)

type fixture struct {
	store   *memory.Store
	tokens  *utils.TokenService
	metrics *metrics.Collector
	svc     *Services

	admin   policy.Principal
	doctor  policy.Principal
	alice   policy.Principal
	bob     policy.Principal
	aliceID string
	bobID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	tokens := utils.NewTokenService(config.JWTConfig{
		Secret:     "service-test-secret-service-test-secret",
		Issuer:     "medivault-test",
		Expiration: time.Hour,
	})
	m := metrics.NewCollector()
	f := &fixture{
		store:   store,
		tokens:  tokens,
		metrics: m,
		svc:     New(store, tokens, zap.NewNop(), m),
	}

	f.admin = f.register(t, "Ada Admin", "admin@example.com", models.RoleAdmin)
	f.doctor = f.register(t, "Dr. House", "house@example.com", models.RoleDoctor)
	f.alice = f.register(t, "Alice", "alice@example.com", models.RolePatient)
	f.bob = f.register(t, "Bob", "bob@example.com", models.RolePatient)
	f.aliceID = f.patientID(t, f.alice)
	f.bobID = f.patientID(t, f.bob)
	return f
}

func (f *fixture) register(t *testing.T, name, email string, role models.Role) policy.Principal {
	t.Helper()
	resp, err := f.svc.Auth.Register(context.Background(), RegisterInput{
		Name:      name,
		Email:     email,
		Password:  "password123",
		Role:      string(role),
		Specialty: "Diagnostics",
		License:   "LIC-1",
		Hospital:  "Princeton-Plainsboro",
		Phone:     "555-0100",
	})
	require.NoError(t, err)
	return policy.Principal{UserID: resp.ID, Role: resp.Role}
}

func (f *fixture) patientID(t *testing.T, p policy.Principal) string {
	t.Helper()
	rec, err := f.store.Patients().FindByUserID(context.Background(), p.UserID)
	require.NoError(t, err)
	return rec.ID
}

func (f *fixture) count(t *testing.T, fn func(repository.Store) (int64, error)) int64 {
	t.Helper()
	n, err := fn(f.store)
	require.NoError(t, err)
	return n
}
