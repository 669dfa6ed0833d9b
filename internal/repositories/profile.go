package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loneus/cv-builder/internal/models"
)

type ProfileRepository interface {
	CreateIfAbsent(ctx context.Context, profile *models.UserProfile) error
	AssignRoleIfUnset(ctx context.Context, ownerID string, role models.Role) error
	UpsertForm(ctx context.Context, profile *models.UserProfile) error
	FindByOwner(ctx context.Context, ownerID string) (*models.UserProfile, error)
	FindByRole(ctx context.Context, role models.Role) ([]models.UserProfile, error)
}

// formColumns are overwritten by a profile save; role and created_at never are.
var formColumns = []string{
	"first_name", "last_name", "full_name", "job_title", "location", "email", "phone",
	"linkedin", "github", "portfolio", "summary", "experiences", "educations",
	"skills", "languages", "last_updated", "updated_at",
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// CreateIfAbsent implements ProfileRepository.
func (r *profileRepository) CreateIfAbsent(ctx context.Context, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoNothing: true,
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// AssignRoleIfUnset implements ProfileRepository.
func (r *profileRepository) AssignRoleIfUnset(ctx context.Context, ownerID string, role models.Role) error {
	err := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("owner_id = ? AND (role = '' OR role IS NULL)", ownerID).
		Updates(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

// UpsertForm implements ProfileRepository.
func (r *profileRepository) UpsertForm(ctx context.Context, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}},
			DoUpdates: clause.AssignmentColumns(formColumns),
		}).
		Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByOwner implements ProfileRepository.
func (r *profileRepository) FindByOwner(ctx context.Context, ownerID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile not found: %w", ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

// FindByRole implements ProfileRepository.
func (r *profileRepository) FindByRole(ctx context.Context, role models.Role) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	return profiles, nil
}
