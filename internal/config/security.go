package config

import (
	"fmt"
	"regexp"
	"strings"
)

// SensitivePattern represents a pattern that might indicate sensitive data
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "DigitalOcean Token",
		Pattern:     regexp.MustCompile(`do[pro]_v1_[a-f0-9]{64}`),
		Description: "Potential DigitalOcean API token detected",
	},
	{
		Name:        "GitHub Token",
		Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
		Description: "Potential GitHub token detected",
	},
	{
		Name:        "Token",
		Pattern:     regexp.MustCompile(`(?i)(token|auth[_-]?token|access[_-]?token)\s*=\s*['"][a-zA-Z0-9_-]{15,}['"]`),
		Description: "Potential authentication token detected",
	},
}

// SensitiveDataFinding represents a detected sensitive data instance
type SensitiveDataFinding struct {
	PatternName string
	Description string
	Line        int
}

// DetectSensitiveData scans config content for credentials that belong in
// repository secrets. Each line is reported at most once.
func DetectSensitiveData(content string) []SensitiveDataFinding {
	var findings []SensitiveDataFinding

	for lineNum, line := range strings.Split(content, "\n") {
		for _, pattern := range sensitivePatterns {
			if pattern.Pattern.MatchString(line) {
				findings = append(findings, SensitiveDataFinding{
					PatternName: pattern.Name,
					Description: pattern.Description,
					Line:        lineNum + 1,
				})
				break
			}
		}
	}

	return findings
}

// FormatSensitiveDataWarning formats findings for the job log. Matched
// values are never echoed.
func FormatSensitiveDataWarning(path string, findings []SensitiveDataFinding) string {
	if len(findings) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Potential secrets in %s:", path)
	for _, f := range findings {
		fmt.Fprintf(&sb, " line %d (%s);", f.Line, f.Description)
	}
	sb.WriteString(" pass tokens through repository secrets instead")
	return sb.String()
}
