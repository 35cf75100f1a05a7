// internal/models/card.go
package models

// EffectType identifies which mutation fires when a card resolves.
// The set is closed: every switch over EffectType is expected to be exhaustive.
type EffectType string

const (
	EffectGainFunds EffectType = "GAIN_FUNDS"
	EffectAcquire   EffectType = "ACQUIRE"
	EffectDefend    EffectType = "DEFEND"
	EffectFraud     EffectType = "FRAUD"
)

// Valid reports whether t is one of the four known effect types.
func (t EffectType) Valid() bool {
	switch t {
	case EffectGainFunds, EffectAcquire, EffectDefend, EffectFraud:
		return true
	}
	return false
}

// CardTemplate is the immutable definition shared by every physical card that references it.
type CardTemplate struct {
	TemplateID  string     `json:"templateId" yaml:"templateId"`
	Name        string     `json:"name" yaml:"name"`
	Cost        int        `json:"cost" yaml:"cost"`
	Type        EffectType `json:"type" yaml:"type"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	ImageFile   string     `json:"imageFile,omitempty" yaml:"imageFile,omitempty"`
}

// Card is a single physical card in a match. The template is looked up, never embedded.
type Card struct {
	ID         string `json:"id"`
	TemplateID string `json:"templateId"`
}
