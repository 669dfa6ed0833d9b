package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loneus/cv-builder/internal/models"
)

var ErrRecordNotFound = errors.New("record not found")

type DocumentRepository interface {
	Create(ctx context.Context, document *models.SavedDocument) error
	FindByID(ctx context.Context, ownerID string, kind models.DocumentKind, id uuid.UUID) (*models.SavedDocument, error)
	ListByOwner(ctx context.Context, ownerID string, kind models.DocumentKind) ([]models.SavedDocument, error)
	Delete(ctx context.Context, ownerID string, kind models.DocumentKind, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(ctx context.Context, document *models.SavedDocument) error {
	if err := d.db.WithContext(ctx).Create(document).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(ctx context.Context, ownerID string, kind models.DocumentKind, id uuid.UUID) (*models.SavedDocument, error) {
	var doc models.SavedDocument
	err := d.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND kind = ?", id, ownerID, kind).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document not found: %w", ErrRecordNotFound)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// ListByOwner implements DocumentRepository.
func (d *documentRepository) ListByOwner(ctx context.Context, ownerID string, kind models.DocumentKind) ([]models.SavedDocument, error) {
	docs := []models.SavedDocument{}
	err := d.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("created_at ASC").
		Order("id ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

// Delete implements DocumentRepository.
func (d *documentRepository) Delete(ctx context.Context, ownerID string, kind models.DocumentKind, id uuid.UUID) error {
	result := d.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND kind = ?", id, ownerID, kind).
		Delete(&models.SavedDocument{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete document: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("document not found: %w", ErrRecordNotFound)
	}

	return nil
}
