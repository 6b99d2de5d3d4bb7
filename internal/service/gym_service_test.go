package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/gymledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGymService_Create(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	gym, err := f.gymSvc.Create(ctx, GymInput{ID: " pulse ", Name: "Pulse Fitness", ManagerPassword: "pulse-pass", City: "Pune"})
	require.NoError(t, err)
	assert.Equal(t, "pulse", gym.ID)
	assert.Equal(t, testNow, gym.CreatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(gym.ManagerPasswordHash), []byte("pulse-pass")))

	_, err = f.gymSvc.Create(ctx, GymInput{ID: "pulse", Name: "Again", ManagerPassword: "pulse-pass"})
	assert.ErrorIs(t, err, ErrGymExists)

	_, err = f.gymSvc.Create(ctx, GymInput{ID: "", Name: "No Id", ManagerPassword: "pulse-pass"})
	assert.ErrorIs(t, err, ErrMissingGymField)

	_, err = f.gymSvc.Create(ctx, GymInput{ID: "weak", Name: "Weak", ManagerPassword: "123"})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	gyms, err := f.gymSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, gyms, 2)
}

func TestGymService_RenameMovesMembersAndSettings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	m := f.seedMember(t, "Mover", testNow, 30, 100)
	_, err := f.gymSvc.SaveSettings(ctx, domain.GymSettings{GymID: testGym, GymName: "Iron Temple", TermsAndConditions: "Be kind."})
	require.NoError(t, err)
	before, err := f.gyms.GetByID(ctx, testGym)
	require.NoError(t, err)

	gym, err := f.gymSvc.Update(ctx, testGym, GymInput{ID: "iron-temple-2", Name: "Iron Temple II"})
	require.NoError(t, err)
	assert.Equal(t, "iron-temple-2", gym.ID)
	assert.Equal(t, before.ManagerPasswordHash, gym.ManagerPasswordHash, "empty password keeps the old one")
	assert.Equal(t, []string{"iron-temple-2"}, f.gyms.IDs(ctx))

	_, err = f.members.GetByID(ctx, testGym, m.ID)
	assert.Error(t, err)
	moved, err := f.members.GetByID(ctx, "iron-temple-2", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "iron-temple-2", moved.GymID)

	settings, err := f.gymSvc.GetSettings(ctx, "iron-temple-2")
	require.NoError(t, err)
	assert.Equal(t, "Be kind.", settings.TermsAndConditions)
	assert.Equal(t, "iron-temple-2", settings.GymID)

	_, err = f.gymSvc.Update(ctx, "ghost", GymInput{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestGymService_RenameOntoExistingGym(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.gymSvc.Create(ctx, GymInput{ID: "taken", Name: "Taken", ManagerPassword: "taken-pass"})
	require.NoError(t, err)
	m := f.seedMember(t, "Stayer", testNow, 30, 100)

	_, err = f.gymSvc.Update(ctx, testGym, GymInput{ID: "taken", Name: "Clash"})
	assert.ErrorIs(t, err, ErrGymExists)

	_, err = f.members.GetByID(ctx, testGym, m.ID)
	assert.NoError(t, err, "members stay with the original gym")
}

func TestGymService_RenameRollsBackWhenCascadeFails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Stuck", testNow, 30, 100)
	_, err := f.gymSvc.SaveSettings(ctx, domain.GymSettings{GymID: testGym, TermsAndConditions: "Be kind."})
	require.NoError(t, err)

	f.settings.RenameErr = errors.New("settings store unavailable")
	_, err = f.gymSvc.Update(ctx, testGym, GymInput{ID: "iron-temple-2", Name: "Iron Temple II"})
	require.Error(t, err)

	assert.Equal(t, []string{testGym}, f.gyms.IDs(ctx))
	gym, err := f.gyms.GetByID(ctx, testGym)
	require.NoError(t, err)
	assert.NotEqual(t, "Iron Temple II", gym.Name)

	stayed, err := f.members.GetByID(ctx, testGym, m.ID)
	require.NoError(t, err)
	assert.Equal(t, testGym, stayed.GymID)

	settings, err := f.gymSvc.GetSettings(ctx, testGym)
	require.NoError(t, err)
	assert.Equal(t, "Be kind.", settings.TermsAndConditions)
}

func TestGymService_DeleteKeepsMembers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	m := f.seedMember(t, "Orphan", testNow, 30, 100)
	_, err := f.gymSvc.SaveSettings(ctx, domain.GymSettings{GymID: testGym})
	require.NoError(t, err)

	require.NoError(t, f.gymSvc.Delete(ctx, testGym))
	assert.ErrorIs(t, f.gymSvc.Delete(ctx, testGym), ErrGymNotFound)

	_, err = f.gymSvc.GetSettings(ctx, testGym)
	assert.ErrorIs(t, err, ErrGymNotFound)
	_, err = f.members.GetByID(ctx, testGym, m.ID)
	assert.NoError(t, err)
}

func TestGymService_Settings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	defaults, err := f.gymSvc.GetSettings(ctx, testGym)
	require.NoError(t, err)
	assert.Equal(t, domain.GymSettings{
		GymID:              testGym,
		AutoNotifyWhatsApp: false,
		GymName:            "Iron Temple",
		TermsAndConditions: domain.DefaultTerms,
	}, *defaults)

	saved, err := f.gymSvc.SaveSettings(ctx, domain.GymSettings{GymID: testGym, AutoNotifyWhatsApp: true, GymName: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Iron Temple", saved.GymName)

	got, err := f.gymSvc.GetSettings(ctx, testGym)
	require.NoError(t, err)
	assert.True(t, got.AutoNotifyWhatsApp)

	_, err = f.gymSvc.SaveSettings(ctx, domain.GymSettings{GymID: "ghost"})
	assert.ErrorIs(t, err, ErrGymNotFound)
}
