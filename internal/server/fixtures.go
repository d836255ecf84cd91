package server

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"resumeassist/internal/types"
)

// Fixtures are the canned answers the stub backend returns. Nothing is
// computed from the submitted documents.
type Fixtures struct {
	Analyze      types.AnalyzeResult     `json:"analyze"`
	Compare      types.CompareResult     `json:"compare"`
	Tailor       types.TailorResult      `json:"tailor"`
	CoverLetter  types.CoverLetterResult `json:"coverLetter"`
	ChatReplies  map[string]string       `json:"chatReplies"` // lowercase keyword -> reply
	ChatFallback string                  `json:"chatFallback"`
}

// DefaultFixtures returns the built-in answers
func DefaultFixtures() Fixtures {
	return Fixtures{
		Analyze: types.AnalyzeResult{
			Score:    82,
			ATSScore: 75,
			Strengths: []string{
				"Clear section headings",
				"Quantified achievements in recent roles",
			},
			FixSuggestions: []string{
				"Add a short professional summary",
				"List tools next to the projects that used them",
			},
		},
		Compare: types.CompareResult{
			BestResume: "Resume 1",
			BestScore:  84,
			ATSScore:   78,
			Improvements: []string{
				types.FirstResumePrefix + "Add metrics to the two most recent roles",
				types.SecondResumePrefix + "Fix inconsistent date formats",
				types.BothResumesPrefix + "Shorten the summary to three lines",
			},
		},
		Tailor: types.TailorResult{
			TailoredResume: "PROFESSIONAL SUMMARY\nEngineer whose experience lines up with the posted role.\n\nEXPERIENCE\n- Delivered the projects the job description emphasises\n",
		},
		CoverLetter: types.CoverLetterResult{
			CoverLetter: "Dear Hiring Manager,\n\nI am excited to apply for this role. My background matches the responsibilities you describe.\n\nSincerely,\nApplicant",
		},
		ChatReplies: map[string]string{
			"ats":          "ATS systems read plain layouts best. Avoid tables and keep standard section names.",
			"cover letter": "Use the cover letter page: upload your resume and paste the job description.",
			"compare":      "Upload two resumes on the compare page to see which one scores higher.",
		},
		ChatFallback: "I can help with resume feedback, ATS tips, tailoring and cover letters. What would you like to know?",
	}
}

// LoadFixtures reads fixtures from a JSON file. Each top-level section in the
// file replaces the built-in one as a whole; sections missing from the file
// keep their built-in values. Chat keywords are matched case-insensitively.
func LoadFixtures(path string) (Fixtures, error) {
	fixtures := DefaultFixtures()
	if path == "" {
		return fixtures, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fixtures, fmt.Errorf("failed to read fixtures file %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fixtures, fmt.Errorf("failed to parse fixtures file %s: %w", path, err)
	}

	sections := map[string]func(json.RawMessage) error{
		"analyze":      replaceWith(&fixtures.Analyze),
		"compare":      replaceWith(&fixtures.Compare),
		"tailor":       replaceWith(&fixtures.Tailor),
		"coverLetter":  replaceWith(&fixtures.CoverLetter),
		"chatReplies":  replaceWith(&fixtures.ChatReplies),
		"chatFallback": replaceWith(&fixtures.ChatFallback),
	}
	for name, section := range raw {
		decode, ok := sections[name]
		if !ok {
			return fixtures, fmt.Errorf("unknown section %q in fixtures file %s", name, path)
		}
		if err := decode(section); err != nil {
			return fixtures, fmt.Errorf("failed to parse section %q in fixtures file %s: %w", name, path, err)
		}
	}

	replies := make(map[string]string, len(fixtures.ChatReplies))
	for keyword, reply := range fixtures.ChatReplies {
		replies[strings.ToLower(strings.TrimSpace(keyword))] = reply
	}
	fixtures.ChatReplies = replies

	return fixtures, nil
}

// replaceWith decodes a section into a fresh value and stores it in dst
func replaceWith[T any](dst *T) func(json.RawMessage) error {
	return func(data json.RawMessage) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// ChatReply picks the reply for message. The longest matching keyword wins
// so results do not depend on map order.
func (f Fixtures) ChatReply(message string) string {
	lower := strings.ToLower(message)

	keywords := make([]string, 0, len(f.ChatReplies))
	for k := range f.ChatReplies {
		keywords = append(keywords, k)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return f.ChatReplies[k]
		}
	}
	return f.ChatFallback
}
