package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CounselingLog is the audit row written after a completed
// staffing-recommendation run. RawResponse keeps the LLM reply as returned so
// the mapping behind a comment can be inspected later.
type CounselingLog struct {
	gorm.Model
	Channel     string         `json:"channel"`
	TargetID    string         `json:"target_id"`
	Description string         `json:"description"`
	RawResponse datatypes.JSON `json:"raw_response"`
	Comment     string         `json:"comment"`
}
