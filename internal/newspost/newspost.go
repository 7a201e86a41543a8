// Package newspost converts a weekly summary into a hub news post.
package newspost

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// headerImageURL is the absolute location of the header image; relative
// paths from the summary do not resolve on the hub.
const headerImageURL = "https://raw.githubusercontent.com/orgpulse/orgpulse/main/assets/header.jpg"

var (
	filenameRe  = regexp.MustCompile(`^(\d{4})-W(\d{2})\.md$`)
	dateLineRe  = regexp.MustCompile(`\*(\d{4}-\d{2}-\d{2}) to (\d{4}-\d{2}-\d{2})\*`)
	imagePathRe = regexp.MustCompile(`\.\./\.\.?/assets/header\.jpg`)
)

// Frontmatter is the hub news post metadata block.
type Frontmatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Tease    string   `yaml:"tease"`
	Authors  string   `yaml:"authors"`
	Tags     []string `yaml:"tags"`
	Subsites []string `yaml:"subsites"`
}

// SummaryInfo is what the converter parses out of a weekly summary file.
type SummaryInfo struct {
	Week      int
	Year      int
	StartDate string
	EndDate   string
}

// FindLatestSummary returns the newest weekly summary in dir, relying on the
// sortable YYYY-Wxx naming.
func FindLatestSummary(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read summaries dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filenameRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no weekly summaries found in %s", dir)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(dir, names[0]), nil
}

// ParseSummaryInfo extracts week, year and the date range from a summary
// file's name and contents.
func ParseSummaryInfo(path string) (SummaryInfo, error) {
	m := filenameRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return SummaryInfo{}, fmt.Errorf("invalid summary filename: %s", filepath.Base(path))
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])

	content, err := os.ReadFile(path)
	if err != nil {
		return SummaryInfo{}, fmt.Errorf("read summary %s: %w", path, err)
	}
	d := dateLineRe.FindStringSubmatch(string(content))
	if d == nil {
		return SummaryInfo{}, fmt.Errorf("could not parse dates from summary %s", path)
	}

	return SummaryInfo{Week: week, Year: year, StartDate: d[1], EndDate: d[2]}, nil
}

// stripHeader removes the title and date lines plus any blank lines after them.
func stripHeader(content string) string {
	lines := strings.Split(content, "\n")
	start := 2
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start >= len(lines) {
		return ""
	}
	return strings.Join(lines[start:], "\n")
}

// fixImageURL rewrites the relative header image path to the absolute URL.
func fixImageURL(content string) string {
	return imagePathRe.ReplaceAllString(content, headerImageURL)
}

// Convert turns the latest weekly summary in summariesDir into a news post
// directory under outputDir and returns the path of the written index.md.
func Convert(summariesDir, outputDir string) (string, error) {
	summaryPath, err := FindLatestSummary(summariesDir)
	if err != nil {
		return "", err
	}

	info, err := ParseSummaryInfo(summaryPath)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(summaryPath)
	if err != nil {
		return "", fmt.Errorf("read summary %s: %w", summaryPath, err)
	}
	content := fixImageURL(stripHeader(string(raw)))

	fm := Frontmatter{
		Title:    fmt.Sprintf("Weekly Activity: Week %d, %d", info.Week, info.Year),
		Date:     info.EndDate,
		Tease:    "Weekly summary of activity across the organization's repositories",
		Authors:  "orgpulse bot",
		Tags:     []string{"community", "development"},
		Subsites: []string{"all"},
	}
	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}

	postDir := filepath.Join(outputDir, fmt.Sprintf("%s-weekly-activity", info.EndDate))
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		return "", fmt.Errorf("create post dir %s: %w", postDir, err)
	}

	outPath := filepath.Join(postDir, "index.md")
	var buf strings.Builder
	buf.WriteString("---\n")
	buf.Write(fmBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(content)

	if err := os.WriteFile(outPath, []byte(buf.String()), 0o644); err != nil {
		return "", fmt.Errorf("write news post %s: %w", outPath, err)
	}
	return outPath, nil
}
