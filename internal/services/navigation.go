package services

import "loneus/cv-builder/internal/models"

type NavItem struct {
	Href  string `json:"href"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

type NavGroup struct {
	Label string    `json:"label"`
	Items []NavItem `json:"items"`
}

// View is one of LoadingView, JobSeekerView or RecruiterView.
type View interface {
	Kind() string
	isView()
}

// LoadingView is shown until the profile and its role are known.
type LoadingView struct{}

type JobSeekerView struct {
	Menu      []NavGroup `json:"menu"`
	Dashboard string     `json:"dashboard"`
}

type RecruiterView struct {
	Menu      []NavGroup `json:"menu"`
	Dashboard string     `json:"dashboard"`
}

func (LoadingView) Kind() string   { return "loading" }
func (JobSeekerView) Kind() string { return "jobSeeker" }
func (RecruiterView) Kind() string { return "recruiter" }

func (LoadingView) isView()   {}
func (JobSeekerView) isView() {}
func (RecruiterView) isView() {}

var jobSeekerMenu = []NavGroup{
	{
		Label: "Navigation",
		Items: []NavItem{
			{Href: "/dashboard", Icon: "home", Label: "Dashboard"},
			{Href: "/dashboard/job-board", Icon: "briefcase", Label: "Job Board"},
			{Href: "/dashboard/my-library", Icon: "library", Label: "My Library"},
			{Href: "/dashboard/my-skills", Icon: "star", Label: "My Skills"},
			{Href: "/dashboard/my-interests", Icon: "heart", Label: "My Interests"},
			{Href: "/dashboard/my-applications", Icon: "send", Label: "My Applications"},
		},
	},
	{
		Label: "Features",
		Items: []NavItem{
			{Href: "/dashboard/cv-editor", Icon: "file-text", Label: "CV Editor"},
			{Href: "/dashboard/cover-letters", Icon: "file-text", Label: "Cover Letters"},
			{Href: "/dashboard/ats-checker", Icon: "lightbulb", Label: "ATS Checker"},
		},
	},
}

var recruiterMenu = []NavGroup{
	{
		Label: "Recruitment",
		Items: []NavItem{
			{Href: "/dashboard/recruiter", Icon: "home", Label: "Recruiter Dashboard"},
			{Href: "/dashboard/candidate-search", Icon: "search", Label: "Search Candidates"},
			{Href: "/dashboard/job-postings", Icon: "briefcase", Label: "Job Postings"},
		},
	},
	{
		Label: "Company",
		Items: []NavItem{
			{Href: "/dashboard/company-profile", Icon: "building", Label: "Company Profile"},
		},
	},
}

// SettingsItem sits in the footer for every role and belongs to neither menu.
var SettingsItem = NavItem{Href: "/dashboard/settings", Icon: "settings", Label: "Settings"}

// ResolveView picks the menu and dashboard from the profile's role. A
// missing profile or an unset role is still loading; no role is assumed.
func ResolveView(profile *models.UserProfile) View {
	if profile == nil {
		return LoadingView{}
	}

	switch profile.Role {
	case models.RoleJobSeeker:
		return JobSeekerView{Menu: jobSeekerMenu, Dashboard: "personal"}
	case models.RoleRecruiter:
		return RecruiterView{Menu: recruiterMenu, Dashboard: "recruiter"}
	}
	return LoadingView{}
}
