package persona

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

func completeDraft(userID id.UserID) Draft {
	d := NewDraft(userID, time.Now())
	d.Merge(StepIdentity, map[string]string{"name": "Luna", "niche": "travel", "backstory": "former flight attendant"})
	d.Merge(StepAppearance, map[string]string{"appearance": "mid-20s, auburn hair"})
	d.Merge(StepWardrobe, map[string]string{"wardrobe": "casual summer outfits"})
	d.Step = StepReview
	return d
}

func TestDraft_AdvanceWalksStepsInOrder(t *testing.T) {
	d := completeDraft(id.NewUserID())
	d.Step = StepIdentity

	require.NoError(t, d.Advance())
	assert.Equal(t, StepAppearance, d.Step)
	require.NoError(t, d.Advance())
	assert.Equal(t, StepWardrobe, d.Step)
	require.NoError(t, d.Advance())
	assert.Equal(t, StepReview, d.Step)

	err := d.Advance()
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeConflict, "draft is already at the final step"))
}

func TestDraft_AdvanceRequiresStepFields(t *testing.T) {
	d := NewDraft(id.NewUserID(), time.Now())

	err := d.Advance()
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	assert.Equal(t, StepIdentity, d.Step, "draft must not move on validation failure")

	d.Merge(StepIdentity, map[string]string{"name": "Luna", "niche": "travel"})
	require.NoError(t, d.Advance())
	assert.Equal(t, StepAppearance, d.Step)
}

func TestDraft_BackStopsAtFirstStep(t *testing.T) {
	d := NewDraft(id.NewUserID(), time.Now())
	d.Step = StepAppearance

	d.Back()
	assert.Equal(t, StepIdentity, d.Step)

	d.Back()
	assert.Equal(t, StepIdentity, d.Step)
}

func TestDraft_ReadyToComplete(t *testing.T) {
	t.Run("complete draft at review", func(t *testing.T) {
		d := completeDraft(id.NewUserID())
		require.NoError(t, d.ReadyToComplete())
	})

	t.Run("not at review step", func(t *testing.T) {
		d := completeDraft(id.NewUserID())
		d.Step = StepWardrobe

		err := d.ReadyToComplete()
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeConflict))
	})

	t.Run("missing required field", func(t *testing.T) {
		d := completeDraft(id.NewUserID())
		d.Data[StepAppearance] = nil

		err := d.ReadyToComplete()
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
	})
}

func TestFromDraft(t *testing.T) {
	userID := id.NewUserID()
	d := completeDraft(userID)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	personaID := id.NewPersonaID()

	p := FromDraft(d, personaID, now)

	assert.Equal(t, personaID, p.ID)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "Luna", p.Name)
	assert.Equal(t, "travel", p.Niche)
	assert.Equal(t, "former flight attendant", p.Backstory)
	assert.Equal(t, "mid-20s, auburn hair", p.Appearance)
	assert.Equal(t, "casual summer outfits", p.Wardrobe)
	assert.Equal(t, now, p.CreatedAt)
}
