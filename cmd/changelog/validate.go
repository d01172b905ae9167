package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// Issue is a single validation finding
type Issue struct {
	Line    int
	Message string
}

var (
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	changeTypes    = map[string]bool{
		"Added":      true,
		"Changed":    true,
		"Deprecated": true,
		"Removed":    true,
		"Fixed":      true,
		"Security":   true,
	}
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a changelog follows Keep a Changelog spec",
	Long: `Validate that a changelog file follows the Keep a Changelog specification.

Checks include:
- File has a title (# Changelog)
- Has an [Unreleased] section
- Version entries use correct format: ## [X.Y.Z] - YYYY-MM-DD
- Change types are valid (Added, Changed, Deprecated, Removed, Fixed, Security)
- Link definitions exist for all versions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		issues := Validate(source)
		if len(issues) == 0 {
			fmt.Println("Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(issues))
		for _, issue := range issues {
			if issue.Line > 0 {
				fmt.Printf("  Line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Printf("  %s\n", issue.Message)
			}
		}
		os.Exit(1)
		return nil
	},
}

// Validate checks a changelog against the Keep a Changelog spec
func Validate(source []byte) []Issue {
	var issues []Issue
	report := func(line int, format string, args ...interface{}) {
		issues = append(issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
	}

	hasTitle := false
	hasUnreleased := false
	versions := make(map[string]bool)

	for i, line := range strings.Split(string(source), "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "# ") {
			hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				report(lineNum, "Title should contain 'Changelog'")
			}
			continue
		}

		if strings.HasPrefix(trimmed, "## [") {
			end := strings.Index(trimmed, "]")
			if end <= 4 {
				continue
			}
			version := trimmed[4:end]

			if strings.EqualFold(version, "unreleased") {
				hasUnreleased = true
				continue
			}
			versions[version] = true

			if !versionPattern.MatchString(version) {
				report(lineNum, "Version '%s' should follow semantic versioning (X.Y.Z)", version)
			}

			rest := strings.TrimSpace(trimmed[end+1:])
			date, ok := strings.CutPrefix(rest, "- ")
			if !ok {
				report(lineNum, "Version '%s' is missing a release date", version)
			} else if !datePattern.MatchString(strings.TrimSpace(date)) {
				report(lineNum, "Date '%s' should be in ISO 8601 format (YYYY-MM-DD)", strings.TrimSpace(date))
			}
			continue
		}

		if changeType, ok := strings.CutPrefix(trimmed, "### "); ok {
			if !changeTypes[changeType] {
				report(lineNum, "Invalid change type '%s'. Valid types: Added, Changed, Deprecated, Removed, Fixed, Security", changeType)
			}
		}
	}

	if !hasTitle {
		report(0, "Missing changelog title (# Changelog)")
	}
	if !hasUnreleased {
		report(0, "Missing [Unreleased] section")
	}

	if file, err := Parse(source); err == nil {
		for version := range versions {
			if _, ok := file.Links[version]; !ok {
				report(0, "Missing link definition for version [%s]", version)
			}
		}
		if hasUnreleased {
			if _, ok := file.Links["Unreleased"]; !ok {
				report(0, "Missing link definition for [Unreleased]")
			}
		}
	}

	return issues
}

func init() {
	validateCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(validateCmd)
}
