// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct uuid-backed types so a PersonaID can never be passed where
// a UserID is expected. Construct them via the Parse functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "museforge/pkg/domain-errors"
)

type (
	// UserID identifies an account holder.
	UserID uuid.UUID

	// PersonaID identifies an AI influencer persona.
	PersonaID uuid.UUID

	// AssetID identifies a library asset (clothing, location, pose, accessory).
	AssetID uuid.UUID

	// ProductID identifies a purchasable credit pack.
	ProductID uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id PersonaID) String() string { return uuid.UUID(id).String() }
func (id AssetID) String() string   { return uuid.UUID(id).String() }
func (id ProductID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PersonaID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AssetID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ProductID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's marshaling, so each ID type
// carries its own text codec; without these the IDs would JSON-encode as
// byte arrays.

func (id UserID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id PersonaID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id AssetID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ProductID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PersonaID) UnmarshalText(b []byte) error {
	parsed, err := ParsePersonaID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AssetID) UnmarshalText(b []byte) error {
	parsed, err := ParseAssetID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ProductID) UnmarshalText(b []byte) error {
	parsed, err := ParseProductID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewPersonaID returns a fresh random PersonaID.
func NewPersonaID() PersonaID { return PersonaID(uuid.New()) }

// NewAssetID returns a fresh random AssetID.
func NewAssetID() AssetID { return AssetID(uuid.New()) }

// NewProductID returns a fresh random ProductID.
func NewProductID() ProductID { return ProductID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParsePersonaID constructs a PersonaID from external input.
func ParsePersonaID(s string) (PersonaID, error) {
	u, err := parseUUID(s, "persona_id")
	return PersonaID(u), err
}

// ParseAssetID constructs an AssetID from external input.
func ParseAssetID(s string) (AssetID, error) {
	u, err := parseUUID(s, "asset_id")
	return AssetID(u), err
}

// ParseProductID constructs a ProductID from external input.
func ParseProductID(s string) (ProductID, error) {
	u, err := parseUUID(s, "product_id")
	return ProductID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", field)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", field)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", field)
	}
	return u, nil
}
