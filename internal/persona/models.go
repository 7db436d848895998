// Package persona implements the influencer creation wizard: a draft moves
// through an ordered set of steps, each collecting a slice of the final
// persona, and completion is gated by compliance and a credit spend.
package persona

import (
	"time"

	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

// CreateItemID is the pricing item charged when a draft is completed.
const CreateItemID = "persona.create"

// Step is one stage of the creation wizard.
type Step string

const (
	StepIdentity   Step = "identity"
	StepAppearance Step = "appearance"
	StepWardrobe   Step = "wardrobe"
	StepReview     Step = "review"
)

// Steps lists the wizard stages in order.
func Steps() []Step {
	return []Step{StepIdentity, StepAppearance, StepWardrobe, StepReview}
}

// requiredFields names the fields a step must have before the wizard can
// advance past it. Wardrobe and review collect nothing mandatory.
var requiredFields = map[Step][]string{
	StepIdentity:   {"name", "niche"},
	StepAppearance: {"appearance"},
}

func stepIndex(step Step) int {
	for i, s := range Steps() {
		if s == step {
			return i
		}
	}
	return -1
}

// Draft is an in-progress persona, one per user. Data holds the collected
// fields keyed by the step that owns them.
type Draft struct {
	UserID    id.UserID                  `json:"user_id"`
	Step      Step                       `json:"step"`
	Data      map[Step]map[string]string `json:"data"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// NewDraft starts a fresh draft at the first step.
func NewDraft(userID id.UserID, now time.Time) Draft {
	return Draft{
		UserID:    userID,
		Step:      StepIdentity,
		Data:      map[Step]map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Field returns a collected value, or "" when the step or key is absent.
func (d Draft) Field(step Step, key string) string {
	return d.Data[step][key]
}

// Merge folds fields into the given step's data, overwriting existing keys.
func (d *Draft) Merge(step Step, fields map[string]string) {
	if d.Data == nil {
		d.Data = map[Step]map[string]string{}
	}
	if d.Data[step] == nil {
		d.Data[step] = map[string]string{}
	}
	for k, v := range fields {
		d.Data[step][k] = v
	}
}

// MissingFields lists the required fields of a step the draft has not
// collected yet.
func (d Draft) MissingFields(step Step) []string {
	var missing []string
	for _, field := range requiredFields[step] {
		if d.Field(step, field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Advance moves the draft to the next step after checking the current step's
// required fields. Advancing past the final step is a conflict.
func (d *Draft) Advance() error {
	if missing := d.MissingFields(d.Step); len(missing) > 0 {
		return dErrors.Newf(dErrors.CodeInvalidInput, "step %s is missing required fields: %v", d.Step, missing)
	}

	idx := stepIndex(d.Step)
	if idx < 0 || idx >= len(Steps())-1 {
		return dErrors.New(dErrors.CodeConflict, "draft is already at the final step")
	}
	d.Step = Steps()[idx+1]
	return nil
}

// Back moves the draft to the previous step. At the first step it is a no-op;
// the dashboard disables the button, the server just tolerates the call.
func (d *Draft) Back() {
	if idx := stepIndex(d.Step); idx > 0 {
		d.Step = Steps()[idx-1]
	}
}

// ReadyToComplete reports whether the draft can be finalized: it must sit at
// the review step with every earlier step's required fields collected.
func (d Draft) ReadyToComplete() error {
	if d.Step != StepReview {
		return dErrors.Newf(dErrors.CodeConflict, "draft is at step %s, complete the wizard first", d.Step)
	}
	for _, step := range Steps() {
		if missing := d.MissingFields(step); len(missing) > 0 {
			return dErrors.Newf(dErrors.CodeInvalidInput, "step %s is missing required fields: %v", step, missing)
		}
	}
	return nil
}

// Persona is a finished influencer profile.
type Persona struct {
	ID         id.PersonaID `json:"id"`
	UserID     id.UserID    `json:"user_id"`
	Name       string       `json:"name"`
	Niche      string       `json:"niche"`
	Backstory  string       `json:"backstory,omitempty"`
	Appearance string       `json:"appearance"`
	Wardrobe   string       `json:"wardrobe,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// FromDraft assembles the finished persona from the draft's collected fields.
func FromDraft(d Draft, personaID id.PersonaID, now time.Time) Persona {
	return Persona{
		ID:         personaID,
		UserID:     d.UserID,
		Name:       d.Field(StepIdentity, "name"),
		Niche:      d.Field(StepIdentity, "niche"),
		Backstory:  d.Field(StepIdentity, "backstory"),
		Appearance: d.Field(StepAppearance, "appearance"),
		Wardrobe:   d.Field(StepWardrobe, "wardrobe"),
		CreatedAt:  now,
	}
}
