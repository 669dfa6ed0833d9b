package services

import (
	"testing"

	"loneus/cv-builder/internal/models"
)

func TestResolveView(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.UserProfile
		want    string
	}{
		{name: "no profile yet", profile: nil, want: "loading"},
		{name: "role not assigned", profile: &models.UserProfile{OwnerID: "a"}, want: "loading"},
		{name: "unknown role", profile: &models.UserProfile{OwnerID: "a", Role: "admin"}, want: "loading"},
		{name: "job-seeker", profile: &models.UserProfile{OwnerID: "a", Role: models.RoleJobSeeker}, want: "jobSeeker"},
		{name: "recruiter", profile: &models.UserProfile{OwnerID: "a", Role: models.RoleRecruiter}, want: "recruiter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveView(tt.profile).Kind(); got != tt.want {
				t.Errorf("ResolveView().Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveView_Dashboards(t *testing.T) {
	seeker, ok := ResolveView(&models.UserProfile{Role: models.RoleJobSeeker}).(JobSeekerView)
	if !ok || seeker.Dashboard != "personal" {
		t.Errorf("job-seeker view = %+v", seeker)
	}

	recruiter, ok := ResolveView(&models.UserProfile{Role: models.RoleRecruiter}).(RecruiterView)
	if !ok || recruiter.Dashboard != "recruiter" {
		t.Errorf("recruiter view = %+v", recruiter)
	}
}

func TestMenusAreDisjoint(t *testing.T) {
	seen := make(map[string]bool)
	for _, group := range jobSeekerMenu {
		for _, item := range group.Items {
			seen[item.Href] = true
		}
	}

	for _, group := range recruiterMenu {
		for _, item := range group.Items {
			if seen[item.Href] {
				t.Errorf("%s appears in both menus", item.Href)
			}
			if item.Href == SettingsItem.Href {
				t.Errorf("settings belongs to neither menu")
			}
		}
	}
	if seen[SettingsItem.Href] {
		t.Errorf("settings belongs to neither menu")
	}
}
