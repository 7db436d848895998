package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "museforge/pkg/domain-errors"
)

// Parsing enforces the invariant that IDs are valid, non-empty, non-nil UUIDs
// at every trust boundary.
func TestParseUserID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
	})
}

func TestParseAssetID_RoundTrip(t *testing.T) {
	id := NewAssetID()
	parsed, err := ParseAssetID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

// Typed IDs prevent cross-type assignment at compile time; this documents the
// invariant and verifies distinctness at runtime.
func TestTypeDistinction(t *testing.T) {
	userID := UserID(uuid.New())
	personaID := PersonaID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ UserID = personaID
	// var _ PersonaID = userID

	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(personaID))
}
