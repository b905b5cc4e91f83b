package Models

import "gorm.io/gorm"

// Budget is the parent record voice-assistant participants hang off.
type Budget struct {
	gorm.Model
	Name string `json:"name"`
}

// VoiceAssistantProjectUser maps a budget to a project participant the voice
// assistant may address. Unique on (budget, email); removed together with the
// budget.
type VoiceAssistantProjectUser struct {
	gorm.Model
	BudgetID uint   `json:"budget_id" gorm:"uniqueIndex:idx_va_budget_email;not null"`
	Budget   Budget `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Email    string `json:"email" gorm:"uniqueIndex:idx_va_budget_email;size:255;not null"`
	Name     string `json:"name" gorm:"size:255"`
}
