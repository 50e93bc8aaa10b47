package models

import "gorm.io/gorm"

// Report is a user complaint about another participant, filed through the
// REST layer and reviewed out of band (admin CLI).
type Report struct {
	gorm.Model

	ReporterID     string `gorm:"type:text;not null;index"`
	ReportedUserID string `gorm:"type:text;not null;index"`
	ConversationID string `gorm:"type:uuid"`
	Reason         string `gorm:"type:text;not null"`
	Status         string `gorm:"type:text"` // "new", "reviewed", "actioned"
}
