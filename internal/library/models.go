// Package library manages the reusable asset collections a user builds
// their personas from: clothing, locations, poses, and accessories.
package library

import (
	"strings"
	"time"

	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

// Kind is the asset collection an asset belongs to.
type Kind string

const (
	KindClothing  Kind = "clothing"
	KindLocation  Kind = "location"
	KindPose      Kind = "pose"
	KindAccessory Kind = "accessory"
)

// Kinds lists all valid asset kinds.
func Kinds() []Kind {
	return []Kind{KindClothing, KindLocation, KindPose, KindAccessory}
}

// ParseKind validates an externally supplied kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindClothing:
		return KindClothing, nil
	case KindLocation:
		return KindLocation, nil
	case KindPose:
		return KindPose, nil
	case KindAccessory:
		return KindAccessory, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown asset kind %q", s)
	}
}

// Asset is one entry in a user's library. Prompt is the text fragment
// injected into generation requests when the asset is selected.
type Asset struct {
	ID         id.AssetID `json:"id"`
	UserID     id.UserID  `json:"user_id"`
	Kind       Kind       `json:"kind"`
	Name       string     `json:"name"`
	Prompt     string     `json:"prompt"`
	PreviewURL string     `json:"preview_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Input carries the user-editable asset fields.
type Input struct {
	Kind       Kind   `json:"kind"`
	Name       string `json:"name"`
	Prompt     string `json:"prompt"`
	PreviewURL string `json:"preview_url,omitempty"`
}

const (
	maxNameLen   = 120
	maxPromptLen = 2000
)

// Validate checks the input before it reaches a store.
func (in Input) Validate() error {
	if _, err := ParseKind(string(in.Kind)); err != nil {
		return err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "asset name cannot be empty")
	}
	if len(name) > maxNameLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "asset name exceeds %d characters", maxNameLen)
	}
	if len(in.Prompt) > maxPromptLen {
		return dErrors.Newf(dErrors.CodeInvalidInput, "asset prompt exceeds %d characters", maxPromptLen)
	}
	return nil
}
