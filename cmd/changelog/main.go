package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Keep a Changelog parser and validator",
	Long:  `A tool for parsing and validating Keep a Changelog formatted markdown files.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var linkDefPattern = regexp.MustCompile(`(?m)^\[[^\]]+\]:\s+\S+\s*$`)

func stripLinkDefinitions(body string) string {
	var kept []string
	for _, line := range strings.Split(body, "\n") {
		if !linkDefPattern.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a version's changelog entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		version, _ := cmd.Flags().GetString("version")

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		file, err := Parse(source)
		if err != nil {
			return fmt.Errorf("parsing changelog: %w", err)
		}

		entry := file.Find(version)
		if entry == nil {
			return fmt.Errorf("version %s not found in changelog", version)
		}

		if entry.Date != "" {
			fmt.Printf("## [%s] - %s\n\n", entry.Version, entry.Date)
		} else {
			fmt.Printf("## [%s]\n\n", entry.Version)
		}
		fmt.Print(stripLinkDefinitions(entry.Body))

		if url, ok := file.Links[entry.Version]; ok {
			fmt.Printf("\n\n[%s]: %s\n", entry.Version, url)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all versions in the changelog",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		file, err := Parse(source)
		if err != nil {
			return fmt.Errorf("parsing changelog: %w", err)
		}

		for _, entry := range file.Entries {
			if entry.Date != "" {
				fmt.Printf("%s (%s)\n", entry.Version, entry.Date)
			} else {
				fmt.Println(entry.Version)
			}
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	extractCmd.Flags().StringP("version", "v", "", "Version to extract (with or without 'v' prefix)")
	_ = extractCmd.MarkFlagRequired("version")

	listCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(listCmd)
}
