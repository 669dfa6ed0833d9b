package services

import (
	"fmt"
	"strings"

	"loneus/cv-builder/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVContentPrompt creates prompt for CV content suggestions
func (pb *PromptBuilder) BuildCVContentPrompt(req CVContentRequest) string {
	return fmt.Sprintf(`You are an AI assistant specialized in generating CV content tailored for the Angolan job market.

Based on the user's job title, skills, experience, education, and language skills, suggest relevant content that aligns with current job trends in Angola.

Job Title: %s
Skills: %s
Experience: %s
Education: %s
Languages: %s

Return your response in the following JSON format:
{
  "suggestedContent": "<the suggested CV content>"
}`,
		req.JobTitle,
		bulletsOrNA(req.Skills),
		orNA(req.Experience),
		orNA(req.Education),
		bulletsOrNA(req.Languages))
}

// BuildATSPrompt creates prompt for ATS compatibility scoring
func (pb *PromptBuilder) BuildATSPrompt(req ATSRequest) string {
	return fmt.Sprintf(`You are an expert in Applicant Tracking Systems (ATS) and resume parsing.

Analyze the following CV text and provide an ATS compatibility score and feedback.

CV TEXT:
%s

Provide a score between 0 and 100, where 100 represents perfect ATS compatibility.
Provide specific and actionable feedback on how to improve the CV's ATS compatibility, focusing on areas such as formatting, keywords, section headings, and the use of tables and images.
Indicate any potential parsing issues that might arise with different ATS systems.

Return your response in the following JSON format:
{
  "score": <0-100>,
  "feedback": "<all the feedback as a single string>"
}`,
		req.CVText)
}

// BuildCoverLetterPrompt creates prompt for cover letter generation
func (pb *PromptBuilder) BuildCoverLetterPrompt(req CoverLetterRequest) string {
	recipient := ""
	if req.RecipientName != "" {
		recipient = fmt.Sprintf("\n- Hiring Manager: %s", req.RecipientName)
	}

	return fmt.Sprintf(`You are an expert career coach specializing in writing compelling cover letters for the Angolan job market.

Your task is to generate a professional and concise cover letter based on the provided user and job information. The tone should be professional but authentic. The letter should highlight how the user's profile aligns with the job.

USER INFORMATION:
- Full Name: %s
- Professional Summary: %s
- Key Skills: %s

JOB INFORMATION:
- Job Title: %s
- Company: %s%s

INSTRUCTIONS:
1. Start with a professional greeting. If a recipient name is provided, use it. Otherwise, use a general greeting like "Dear Hiring Manager".
2. The first paragraph should state the position being applied for and where it was seen (you can assume it was seen on Loneus). It should grab the reader's attention.
3. The body paragraphs (1-2) should connect the user's summary and skills to the job title and company. Briefly mention how their background is a good fit. Do not just list skills; frame them as solutions to the company's needs.
4. The closing paragraph should reiterate interest in the role and include a strong call to action (e.g., expressing eagerness to discuss their qualifications in an interview).
5. End with a professional closing, followed by the user's full name.

Return your response in the following JSON format:
{
  "coverLetterContent": "<the full cover letter>"
}`,
		req.UserProfile.FullName,
		orNA(req.UserProfile.Summary),
		orNA(req.UserProfile.Skills),
		req.JobTitle,
		req.CompanyName,
		recipient)
}

// BuildCandidateDocument flattens a profile into the text that is embedded for search.
func (pb *PromptBuilder) BuildCandidateDocument(p *models.UserProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n%s\n", p.FullName, p.JobTitle, p.Location)
	if p.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", p.Summary)
	}
	if p.Skills != "" {
		fmt.Fprintf(&sb, "Skills: %s\n", p.Skills)
	}
	for _, e := range p.Experiences {
		fmt.Fprintf(&sb, "Experience: %s at %s. %s\n", e.JobTitle, e.Company, e.Description)
	}
	for _, e := range p.Educations {
		fmt.Fprintf(&sb, "Education: %s, %s\n", e.Degree, e.Institution)
	}
	if p.Languages != "" {
		fmt.Fprintf(&sb, "Languages: %s\n", p.Languages)
	}
	return strings.TrimSpace(sb.String())
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func bulletsOrNA(items []string) string {
	var parts []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			parts = append(parts, "- "+item)
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return "\n" + strings.Join(parts, "\n")
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
