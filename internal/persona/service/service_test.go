package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museforge/internal/persona"
	"museforge/internal/persona/store/draft"
	"museforge/internal/persona/store/profile"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/notify"
)

// stubGate opens or closes the compliance gate for tests.
type stubGate struct {
	open bool
}

func (g *stubGate) ValidateForAction(context.Context, id.UserID, string) bool {
	return g.open
}

type fixture struct {
	svc      *Service
	gate     *stubGate
	recorder *notify.Recorder
	userID   id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gate := &stubGate{open: true}
	recorder := &notify.Recorder{}
	svc, err := New(draft.NewInMemoryStore(), profile.NewInMemoryStore(), gate, WithNotifier(recorder))
	require.NoError(t, err)

	return &fixture{svc: svc, gate: gate, recorder: recorder, userID: id.NewUserID()}
}

// fillWizard walks a draft through every step with valid data.
func (f *fixture) fillWizard(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := f.svc.UpdateStep(ctx, f.userID, map[string]string{"name": "Luna", "niche": "travel"})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, f.userID)
	require.NoError(t, err)

	_, err = f.svc.UpdateStep(ctx, f.userID, map[string]string{"appearance": "mid-20s, auburn hair"})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, f.userID)
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, f.userID)
	require.NoError(t, err)
}

func Test_New_RequiresCollaborators(t *testing.T) {
	gate := &stubGate{}

	_, err := New(nil, profile.NewInMemoryStore(), gate)
	require.Error(t, err)

	_, err = New(draft.NewInMemoryStore(), nil, gate)
	require.Error(t, err)

	_, err = New(draft.NewInMemoryStore(), profile.NewInMemoryStore(), nil)
	require.Error(t, err)
}

func Test_Draft_StartsAtIdentity(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.Draft(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, persona.StepIdentity, d.Step)

	// Repeated calls return the same draft rather than restarting.
	again, err := f.svc.Draft(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, d.CreatedAt, again.CreatedAt)
}

func Test_UpdateStep_MergesIntoCurrentStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.svc.UpdateStep(ctx, f.userID, map[string]string{"name": "Luna"})
	require.NoError(t, err)
	assert.Equal(t, "Luna", d.Field(persona.StepIdentity, "name"))

	d, err = f.svc.UpdateStep(ctx, f.userID, map[string]string{"niche": "travel"})
	require.NoError(t, err)
	assert.Equal(t, "Luna", d.Field(persona.StepIdentity, "name"), "earlier fields survive merges")
	assert.Equal(t, "travel", d.Field(persona.StepIdentity, "niche"))
}

func Test_UpdateStep_RejectsEmptyFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStep(context.Background(), f.userID, nil)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeBadRequest, "no fields in request"))
}

func Test_Advance_WithoutDraftIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Advance(context.Background(), f.userID)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "no draft in progress"))
}

func Test_Advance_ValidatesRequiredFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Draft(ctx, f.userID)
	require.NoError(t, err)

	_, err = f.svc.Advance(ctx, f.userID)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func Test_Back_ReturnsToPreviousStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStep(ctx, f.userID, map[string]string{"name": "Luna", "niche": "travel"})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, f.userID)
	require.NoError(t, err)

	d, err := f.svc.Back(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, persona.StepIdentity, d.Step)
}

func Test_CheckReady(t *testing.T) {
	t.Run("ready draft passes", func(t *testing.T) {
		f := newFixture(t)
		f.fillWizard(t)

		require.NoError(t, f.svc.CheckReady(context.Background(), f.userID))
	})

	t.Run("unfinished wizard is a conflict", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStep(context.Background(), f.userID, map[string]string{"name": "Luna", "niche": "travel"})
		require.NoError(t, err)

		err = f.svc.CheckReady(context.Background(), f.userID)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeConflict))
	})

	t.Run("closed compliance gate denies completion", func(t *testing.T) {
		f := newFixture(t)
		f.fillWizard(t)
		f.gate.open = false

		err := f.svc.CheckReady(context.Background(), f.userID)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeComplianceRequired))
	})
}

func Test_Finalize_CreatesPersonaAndClearsDraft(t *testing.T) {
	f := newFixture(t)
	f.fillWizard(t)
	ctx := context.Background()

	created, err := f.svc.Finalize(ctx, f.userID)
	require.NoError(t, err)

	assert.False(t, created.ID.IsNil())
	assert.Equal(t, "Luna", created.Name)
	assert.Equal(t, "travel", created.Niche)
	assert.Equal(t, notify.LevelSuccess, f.recorder.Last().Level)

	// The draft is consumed; a second finalize has nothing to work with.
	_, err = f.svc.Finalize(ctx, f.userID)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "no draft in progress"))

	personas, err := f.svc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, personas, 1)
	assert.Equal(t, created.ID, personas[0].ID)
}

func Test_Finalize_DeniedByGate(t *testing.T) {
	f := newFixture(t)
	f.fillWizard(t)
	f.gate.open = false

	_, err := f.svc.Finalize(context.Background(), f.userID)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeComplianceRequired))

	// Draft survives a denied completion.
	d, err := f.svc.Draft(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, persona.StepReview, d.Step)
}

func Test_Get_NotFoundForForeignPersona(t *testing.T) {
	f := newFixture(t)
	f.fillWizard(t)

	created, err := f.svc.Finalize(context.Background(), f.userID)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), id.NewUserID(), created.ID)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "persona not found"))
}

func Test_Discard_RemovesDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Draft(ctx, f.userID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Discard(ctx, f.userID))

	_, err = f.svc.Advance(ctx, f.userID)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeNotFound, "no draft in progress"))
}
