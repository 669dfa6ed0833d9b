package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleJobSeeker Role = "personal"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

type Experience struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// ProfileForm is the aggregate record edited by the profile wizard.
// Field names match the JSON schema in internal/validation.
type ProfileForm struct {
	FullName    string       `json:"fullName"`
	JobTitle    string       `json:"jobTitle"`
	Location    string       `json:"location"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	LinkedIn    string       `json:"linkedin"`
	GitHub      string       `json:"github"`
	Portfolio   string       `json:"portfolio"`
	Summary     string       `json:"summary"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
	Skills      string       `json:"skills"`
	Languages   string       `json:"languages"`
}

// Clone returns a copy that shares no list storage with f.
func (f ProfileForm) Clone() ProfileForm {
	out := f
	out.Experiences = append([]Experience{}, f.Experiences...)
	out.Educations = append([]Education{}, f.Educations...)
	return out
}

// UserProfile is stored once per owner, the users/{ownerId} record.
type UserProfile struct {
	OwnerID     string                          `gorm:"type:text;primaryKey" json:"id"`
	Role        Role                            `gorm:"type:text" json:"role"`
	FirstName   string                          `gorm:"type:text" json:"firstName"`
	LastName    string                          `gorm:"type:text" json:"lastName"`
	FullName    string                          `gorm:"type:text" json:"fullName"`
	JobTitle    string                          `gorm:"type:text" json:"jobTitle"`
	Location    string                          `gorm:"type:text" json:"location"`
	Email       string                          `gorm:"type:text" json:"email"`
	Phone       string                          `gorm:"type:text" json:"phone"`
	LinkedIn    string                          `gorm:"column:linkedin;type:text" json:"linkedin"`
	GitHub      string                          `gorm:"column:github;type:text" json:"github"`
	Portfolio   string                          `gorm:"type:text" json:"portfolio"`
	Summary     string                          `gorm:"type:text" json:"summary"`
	Experiences datatypes.JSONSlice[Experience] `json:"experiences"`
	Educations  datatypes.JSONSlice[Education]  `json:"educations"`
	Skills      string                          `gorm:"type:text" json:"skills"`
	Languages   string                          `gorm:"type:text" json:"languages"`
	LastUpdated *time.Time                      `json:"lastUpdated,omitempty"`
	CreatedAt   time.Time                       `json:"createdAt"`
	UpdatedAt   time.Time                       `json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "profiles"
}

// Form projects the stored profile onto the wizard aggregate.
func (p *UserProfile) Form() ProfileForm {
	return ProfileForm{
		FullName:    p.FullName,
		JobTitle:    p.JobTitle,
		Location:    p.Location,
		Email:       p.Email,
		Phone:       p.Phone,
		LinkedIn:    p.LinkedIn,
		GitHub:      p.GitHub,
		Portfolio:   p.Portfolio,
		Summary:     p.Summary,
		Experiences: append([]Experience{}, p.Experiences...),
		Educations:  append([]Education{}, p.Educations...),
		Skills:      p.Skills,
		Languages:   p.Languages,
	}
}

// ApplyForm copies the aggregate onto the profile and derives first and last name.
func (p *UserProfile) ApplyForm(f ProfileForm) {
	p.FullName = f.FullName
	p.FirstName, p.LastName = SplitFullName(f.FullName)
	p.JobTitle = f.JobTitle
	p.Location = f.Location
	p.Email = f.Email
	p.Phone = f.Phone
	p.LinkedIn = f.LinkedIn
	p.GitHub = f.GitHub
	p.Portfolio = f.Portfolio
	p.Summary = f.Summary
	p.Experiences = append(datatypes.JSONSlice[Experience]{}, f.Experiences...)
	p.Educations = append(datatypes.JSONSlice[Education]{}, f.Educations...)
	p.Skills = f.Skills
	p.Languages = f.Languages
}

// SplitFullName treats the first word as the first name and the rest as the last name.
func SplitFullName(fullName string) (string, string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
