package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentKind string

const (
	KindCV          DocumentKind = "cv"
	KindCoverLetter DocumentKind = "coverLetter"
)

func (k DocumentKind) Valid() bool {
	return k == KindCV || k == KindCoverLetter
}

// Collection is the sub-collection name under users/{ownerId}.
func (k DocumentKind) Collection() string {
	switch k {
	case KindCV:
		return "cvs"
	case KindCoverLetter:
		return "coverLetters"
	}
	return ""
}

// ParseDocumentKind accepts a kind or its collection name.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch s {
	case "cv", "cvs":
		return KindCV, true
	case "coverLetter", "coverLetters", "cover-letters":
		return KindCoverLetter, true
	}
	return "", false
}

// SavedDocument is a CV or cover letter in users/{ownerId}/{collection}/{id}.
type SavedDocument struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string       `gorm:"type:text;not null;index:idx_documents_owner_kind" json:"ownerId"`
	Kind        DocumentKind `gorm:"type:text;not null;index:idx_documents_owner_kind" json:"kind"`
	Title       string       `gorm:"type:text;not null" json:"title"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time    `json:"createdAt"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

func (SavedDocument) TableName() string {
	return "saved_documents"
}
