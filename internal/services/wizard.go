package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"loneus/cv-builder/internal/models"
	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/validation"
)

type Section struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// ProfileSections is the fixed order of the profile wizard.
var ProfileSections = []Section{
	{ID: 1, Title: "Personal Data", Fields: []string{"fullName", "jobTitle", "email", "phone", "location", "linkedin", "github", "portfolio"}},
	{ID: 2, Title: "Professional Experience", Fields: []string{"summary", "experiences"}},
	{ID: 3, Title: "Education and Training", Fields: []string{"educations"}},
	{ID: 4, Title: "Skills", Fields: []string{"skills"}},
	{ID: 5, Title: "Language Skills", Fields: []string{"languages"}},
}

type ListField string

const (
	ListExperiences ListField = "experiences"
	ListEducations  ListField = "educations"
)

// ProfilePatch carries the field values the client changed; nil means untouched.
type ProfilePatch struct {
	FullName    *string              `json:"fullName,omitempty"`
	JobTitle    *string              `json:"jobTitle,omitempty"`
	Location    *string              `json:"location,omitempty"`
	Email       *string              `json:"email,omitempty"`
	Phone       *string              `json:"phone,omitempty"`
	LinkedIn    *string              `json:"linkedin,omitempty"`
	GitHub      *string              `json:"github,omitempty"`
	Portfolio   *string              `json:"portfolio,omitempty"`
	Summary     *string              `json:"summary,omitempty"`
	Experiences *[]models.Experience `json:"experiences,omitempty"`
	Educations  *[]models.Education  `json:"educations,omitempty"`
	Skills      *string              `json:"skills,omitempty"`
	Languages   *string              `json:"languages,omitempty"`
}

// ProfileSaver is the part of the persistence gateway the wizard submits to.
type ProfileSaver interface {
	SaveProfile(ctx context.Context, ownerID string, form models.ProfileForm) (*PendingWrite, error)
}

// WizardState is a snapshot for rendering.
type WizardState struct {
	Step       int                `json:"step"`
	TotalSteps int                `json:"totalSteps"`
	Section    Section            `json:"section"`
	CanSubmit  bool               `json:"canSubmit"`
	Record     models.ProfileForm `json:"record"`
	Errors     validation.Errors  `json:"errors"`
}

// ProfileWizard is a finite-state machine over ProfileSections. Each state
// validates only its own fields on Next; Submit validates the whole record.
type ProfileWizard struct {
	mu       sync.Mutex
	sections []Section
	current  int
	record   models.ProfileForm
	errors   validation.Errors
	saver    ProfileSaver
}

func NewProfileWizard(record models.ProfileForm, saver ProfileSaver) *ProfileWizard {
	return &ProfileWizard{
		sections: ProfileSections,
		record:   record.Clone(),
		saver:    saver,
	}
}

// Step is 1-based.
func (w *ProfileWizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current + 1
}

func (w *ProfileWizard) Record() models.ProfileForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.record.Clone()
}

func (w *ProfileWizard) Errors() validation.Errors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append(validation.Errors(nil), w.errors...)
}

func (w *ProfileWizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WizardState{
		Step:       w.current + 1,
		TotalSteps: len(w.sections),
		Section:    w.sections[w.current],
		CanSubmit:  w.isLast(),
		Record:     w.record.Clone(),
		Errors:     append(validation.Errors(nil), w.errors...),
	}
}

func (w *ProfileWizard) isLast() bool {
	return w.current == len(w.sections)-1
}

// Next validates the active section and advances when it passes.
// It reports whether the active section was valid.
func (w *ProfileWizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	errs := validation.ValidateSection(w.record, w.sections[w.current].Fields)
	w.errors = errs
	if errs != nil {
		return false
	}
	if !w.isLast() {
		w.current++
	}
	return true
}

func (w *ProfileWizard) Prev() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current > 0 {
		w.current--
	}
}

// Update applies field values without validating them.
func (w *ProfileWizard) Update(patch ProfilePatch) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r := &w.record
	setString(&r.FullName, patch.FullName)
	setString(&r.JobTitle, patch.JobTitle)
	setString(&r.Location, patch.Location)
	setString(&r.Email, patch.Email)
	setString(&r.Phone, patch.Phone)
	setString(&r.LinkedIn, patch.LinkedIn)
	setString(&r.GitHub, patch.GitHub)
	setString(&r.Portfolio, patch.Portfolio)
	setString(&r.Summary, patch.Summary)
	setString(&r.Skills, patch.Skills)
	setString(&r.Languages, patch.Languages)
	if patch.Experiences != nil {
		r.Experiences = append([]models.Experience{}, (*patch.Experiences)...)
	}
	if patch.Educations != nil {
		r.Educations = append([]models.Education{}, (*patch.Educations)...)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// AddEntry appends a blank entry to the list and returns its index.
func (w *ProfileWizard) AddEntry(list ListField) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch list {
	case ListExperiences:
		w.record.Experiences = append(w.record.Experiences, models.Experience{})
		return len(w.record.Experiences) - 1, nil
	case ListEducations:
		w.record.Educations = append(w.record.Educations, models.Education{})
		return len(w.record.Educations) - 1, nil
	}
	return 0, invalidRequest("unknown list %q", list)
}

// RemoveEntry deletes the entry at index; later entries shift down by one.
func (w *ProfileWizard) RemoveEntry(list ListField, index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch list {
	case ListExperiences:
		if index < 0 || index >= len(w.record.Experiences) {
			return invalidRequest("no experience at index %d", index)
		}
		w.record.Experiences = append(w.record.Experiences[:index], w.record.Experiences[index+1:]...)
		return nil
	case ListEducations:
		if index < 0 || index >= len(w.record.Educations) {
			return invalidRequest("no education at index %d", index)
		}
		w.record.Educations = append(w.record.Educations[:index], w.record.Educations[index+1:]...)
		return nil
	}
	return invalidRequest("unknown list %q", list)
}

// Submit validates the entire record from the last section and hands it to
// the saver. Form state is kept whatever the outcome so the caller can retry.
func (w *ProfileWizard) Submit(ctx context.Context, ownerID string) (*PendingWrite, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.isLast() {
		return nil, ErrNotLastSection
	}

	if errs := validation.ValidateProfile(w.record); errs != nil {
		w.errors = errs
		return nil, fmt.Errorf("%w: %d field errors", ErrSubmitBlocked, len(errs))
	}
	w.errors = nil

	return w.saver.SaveProfile(ctx, ownerID, w.record.Clone())
}

// WizardStore keeps one unsaved wizard per owner in memory.
type WizardStore struct {
	mu      sync.Mutex
	wizards map[string]*ProfileWizard
	gateway PersistenceGateway
}

func NewWizardStore(gateway PersistenceGateway) *WizardStore {
	return &WizardStore{
		wizards: make(map[string]*ProfileWizard),
		gateway: gateway,
	}
}

// Begin starts a fresh wizard for the owner, replacing any unsaved one. The
// record starts from the persisted profile, or from defaults when none exists.
// Any other read failure is returned.
func (s *WizardStore) Begin(ctx context.Context, ownerID string, defaults models.ProfileForm) (*ProfileWizard, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	record := defaults
	profile, err := s.gateway.GetProfile(ctx, ownerID)
	switch {
	case err == nil:
		record = profile.Form()
		if record.Email == "" {
			record.Email = defaults.Email
		}
	case !errors.Is(err, repositories.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load profile for wizard: %w", err)
	}

	wizard := NewProfileWizard(record, s.gateway)

	s.mu.Lock()
	s.wizards[ownerID] = wizard
	s.mu.Unlock()

	return wizard, nil
}

func (s *WizardStore) Get(ownerID string) (*ProfileWizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wizards[ownerID]
	return w, ok
}

// Discard drops the owner's unsaved state.
func (s *WizardStore) Discard(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wizards, ownerID)
}
