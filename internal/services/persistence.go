package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
)

// PersistenceGateway writes and reads the per-owner records. Writes are
// dispatched without waiting for the database; callers get a PendingWrite.
type PersistenceGateway interface {
	CreateProfile(ctx context.Context, ownerID string, role models.Role, email string) (*PendingWrite, error)
	SaveProfile(ctx context.Context, ownerID string, form models.ProfileForm) (*PendingWrite, error)
	GetProfile(ctx context.Context, ownerID string) (*models.UserProfile, error)
	SaveDocument(ctx context.Context, ownerID string, kind models.DocumentKind, title, content string) (*models.SavedDocument, *PendingWrite, error)
	DeleteDocument(ctx context.Context, ownerID string, kind models.DocumentKind, documentID uuid.UUID) *PendingWrite
	ListDocuments(ctx context.Context, ownerID string, kind models.DocumentKind) ([]models.SavedDocument, error)
	GetDocument(ctx context.Context, ownerID string, kind models.DocumentKind, documentID uuid.UUID) (*models.SavedDocument, error)
}

// ProfileIndexer receives job-seeker profiles after they are saved.
type ProfileIndexer interface {
	IndexProfile(ctx context.Context, profile *models.UserProfile) error
}

type persistenceGateway struct {
	profileRepo repositories.ProfileRepository
	docRepo     repositories.DocumentRepository
	dispatcher  Dispatcher
	indexer     ProfileIndexer
	now         func() time.Time
}

func NewPersistenceGateway(
	profileRepo repositories.ProfileRepository,
	docRepo repositories.DocumentRepository,
	dispatcher Dispatcher,
	indexer ProfileIndexer,
) PersistenceGateway {
	return &persistenceGateway{
		profileRepo: profileRepo,
		docRepo:     docRepo,
		dispatcher:  dispatcher,
		indexer:     indexer,
		now:         time.Now,
	}
}

// CreateProfile implements PersistenceGateway. An existing profile keeps its
// fields; the role is only written when none is set yet.
func (g *persistenceGateway) CreateProfile(ctx context.Context, ownerID string, role models.Role, email string) (*PendingWrite, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}
	if !role.Valid() {
		return nil, invalidRequest("unknown role %q", role)
	}

	profile := &models.UserProfile{
		OwnerID: ownerID,
		Role:    role,
		Email:   email,
	}

	return g.dispatcher.Dispatch(OpCreateProfile, ownerID, "", func(ctx context.Context) error {
		if err := g.profileRepo.CreateIfAbsent(ctx, profile); err != nil {
			return err
		}
		return g.profileRepo.AssignRoleIfUnset(ctx, ownerID, role)
	}), nil
}

// SaveProfile implements PersistenceGateway.
func (g *persistenceGateway) SaveProfile(ctx context.Context, ownerID string, form models.ProfileForm) (*PendingWrite, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	now := g.now()
	profile := &models.UserProfile{OwnerID: ownerID}
	profile.ApplyForm(form.Clone())
	profile.LastUpdated = &now

	return g.dispatcher.Dispatch(OpSaveProfile, ownerID, "", func(ctx context.Context) error {
		if err := g.profileRepo.UpsertForm(ctx, profile); err != nil {
			return err
		}
		g.index(ctx, ownerID)
		return nil
	}), nil
}

func (g *persistenceGateway) index(ctx context.Context, ownerID string) {
	if g.indexer == nil {
		return
	}
	saved, err := g.profileRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("⚠️  Skipping candidate index for %s: %v\n", ownerID, err)
		return
	}
	if saved.Role != models.RoleJobSeeker {
		return
	}
	if err := g.indexer.IndexProfile(ctx, saved); err != nil {
		log.Printf("⚠️  Failed to index candidate %s: %v\n", ownerID, err)
	}
}

// GetProfile implements PersistenceGateway.
func (g *persistenceGateway) GetProfile(ctx context.Context, ownerID string) (*models.UserProfile, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}
	return g.profileRepo.FindByOwner(ctx, ownerID)
}

// SaveDocument implements PersistenceGateway. Every call inserts a new record.
func (g *persistenceGateway) SaveDocument(ctx context.Context, ownerID string, kind models.DocumentKind, title, content string) (*models.SavedDocument, *PendingWrite, error) {
	if ownerID == "" {
		return nil, nil, ErrAuthRequired
	}
	if !kind.Valid() {
		return nil, nil, invalidRequest("unknown document kind %q", kind)
	}
	if strings.TrimSpace(title) == "" {
		return nil, nil, invalidRequest("title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, invalidRequest("content is required")
	}

	now := g.now()
	doc := &models.SavedDocument{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Kind:        kind,
		Title:       title,
		Content:     content,
		CreatedAt:   now,
		LastUpdated: now,
	}
	record := *doc

	pending := g.dispatcher.Dispatch(OpSaveDocument, ownerID, doc.ID.String(), func(ctx context.Context) error {
		return g.docRepo.Create(ctx, &record)
	})
	return doc, pending, nil
}

// DeleteDocument implements PersistenceGateway.
func (g *persistenceGateway) DeleteDocument(ctx context.Context, ownerID string, kind models.DocumentKind, documentID uuid.UUID) *PendingWrite {
	return g.dispatcher.Dispatch(OpDeleteDocument, ownerID, documentID.String(), func(ctx context.Context) error {
		if ownerID == "" {
			return ErrAuthRequired
		}
		if !kind.Valid() {
			return fmt.Errorf("unknown document kind %q", kind)
		}
		return g.docRepo.Delete(ctx, ownerID, kind, documentID)
	})
}

// ListDocuments implements PersistenceGateway.
func (g *persistenceGateway) ListDocuments(ctx context.Context, ownerID string, kind models.DocumentKind) ([]models.SavedDocument, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}
	if !kind.Valid() {
		return nil, invalidRequest("unknown document kind %q", kind)
	}
	return g.docRepo.ListByOwner(ctx, ownerID, kind)
}

// GetDocument implements PersistenceGateway.
func (g *persistenceGateway) GetDocument(ctx context.Context, ownerID string, kind models.DocumentKind, documentID uuid.UUID) (*models.SavedDocument, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}
	if !kind.Valid() {
		return nil, invalidRequest("unknown document kind %q", kind)
	}
	return g.docRepo.FindByID(ctx, ownerID, kind, documentID)
}
