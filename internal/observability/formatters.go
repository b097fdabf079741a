// Package observability provides the formatted terminal views and the
// structured logger used by the CLI.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/parsing"
	"github.com/jonathan/talentmatrix/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in short lists
	maxItemsToShow = 5
)

// frame is the set of box-drawing glyphs for one theme.
type frame struct {
	h, v                   string
	tl, tr, bl, br, ml, mr string
}

var (
	lightFrame = frame{h: "─", v: "│", tl: "┌", tr: "┐", bl: "└", br: "┘", ml: "├", mr: "┤"}
	darkFrame  = frame{h: "═", v: "║", tl: "╔", tr: "╗", bl: "╚", br: "╝", ml: "╠", mr: "╣"}
)

// ANSI colours for match bands; only the dark theme uses them.
var bandColours = map[types.MatchBand]string{
	types.MatchHigh:   "\x1b[32m",
	types.MatchMedium: "\x1b[33m",
	types.MatchLow:    "\x1b[31m",
}

const ansiReset = "\x1b[0m"

// Printer handles formatted output for the CLI views.
type Printer struct {
	out   io.Writer
	theme types.Theme
	frame frame
}

// NewPrinter creates a new Printer that writes to the given writer using the
// given theme.
func NewPrinter(out io.Writer, theme types.Theme) *Printer {
	f := lightFrame
	if theme == types.ThemeDark {
		f = darkFrame
	}
	return &Printer{out: out, theme: theme, frame: f}
}

// Theme returns the printer's theme.
func (p *Printer) Theme() types.Theme {
	return p.theme
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	f := p.frame
	border := strings.Repeat(f.h, boxWidth-2)
	fmt.Fprintf(p.out, "%s%s%s\n", f.tl, border, f.tr)
	fmt.Fprintf(p.out, "%s %s %s\n", f.v, pad(title, boxWidth-4), f.v)
	fmt.Fprintf(p.out, "%s%s%s\n", f.ml, border, f.mr)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "%s %s %s\n", f.v, pad(truncate(line, boxWidth-4), boxWidth-4), f.v)
	}

	fmt.Fprintf(p.out, "%s%s%s\n", f.bl, border, f.br)
}

// PrintMessage prints a one-line notice box, e.g. for warnings.
func (p *Printer) PrintMessage(title, msg string) {
	p.printBox(title, msg)
}

// PrintProfile outputs the profile header, links and grades.
func (p *Printer) PrintProfile(profile types.UserProfile) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name:     %s\n", orDash(profile.Name))
	fmt.Fprintf(&sb, "Email:    %s\n", orDash(profile.Email))
	fmt.Fprintf(&sb, "Roll No:  %s\n", orDash(profile.RollNumber))
	fmt.Fprintf(&sb, "Mobile:   %s\n", orDash(profile.MobileNumber))
	sb.WriteString("\n")

	links := []struct{ label, value string }{
		{"GitHub", profile.GithubUsername},
		{"LinkedIn", profile.LinkedinURL},
		{"LeetCode", profile.LeetcodeURL},
		{"HackerRank", profile.HackerrankURL},
		{"CodeChef", profile.CodechefURL},
		{"Codeforces", profile.CodeforcesURL},
		{"Resume", profile.ResumeRemoteURL},
	}
	for _, l := range links {
		if l.value != "" {
			fmt.Fprintf(&sb, "%-11s %s\n", l.label+":", l.value)
		}
	}

	if len(profile.Semesters) > 0 {
		sb.WriteString("\nGrades:\n")
		for _, name := range sortedSemesters(profile.Semesters) {
			fmt.Fprintf(&sb, "  %-12s %.2f\n", name, profile.Semesters[name])
		}
		if cgpa, ok := parsing.CGPA(profile.Semesters); ok {
			fmt.Fprintf(&sb, "  %-12s %.2f\n", "CGPA", cgpa)
		}
	}

	fmt.Fprintf(&sb, "\nSkills: %d  Projects: %d  GitHub: %d  Saved jobs: %d",
		len(profile.Skills), len(profile.ManualProjects), len(profile.GithubProjects), len(profile.AppliedJobs))

	p.printBox("PROFILE", sb.String())
}

// PrintSkills lists skills with their ids.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		p.printBox("SKILLS", "No skills yet.")
		return
	}
	var sb strings.Builder
	for i, s := range skills {
		fmt.Fprintf(&sb, "[%s] %s (%s)", s.ID, s.Name, s.Proficiency)
		if s.Tags != "" {
			fmt.Fprintf(&sb, " #%s", s.Tags)
		}
		if i < len(skills)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("SKILLS (%d)", len(skills)), sb.String())
}

// PrintProjects lists manual projects followed by GitHub projects.
func (p *Printer) PrintProjects(manual, github []types.Project) {
	var sb strings.Builder
	write := func(heading string, projects []types.Project) {
		fmt.Fprintf(&sb, "%s:\n", heading)
		if len(projects) == 0 {
			sb.WriteString("  (none)\n")
		}
		for _, pr := range projects {
			fmt.Fprintf(&sb, "  • [%s] %s\n", pr.ID, pr.Title)
			if pr.Description != "" {
				fmt.Fprintf(&sb, "    %s\n", pr.Description)
			}
			if pr.Link != "" {
				fmt.Fprintf(&sb, "    %s\n", pr.Link)
			}
		}
	}
	write("Manual", manual)
	sb.WriteString("\n")
	write("GitHub", github)
	p.printBox("PROJECTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLeetCode outputs solved counts and the top topics.
func (p *Printer) PrintLeetCode(stats *types.LeetCodeStats) {
	if stats == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Solved: %d  (easy %d, medium %d, hard %d)\n", stats.Total, stats.Easy, stats.Medium, stats.Hard)

	topics := slices.Clone(stats.Topics)
	slices.SortStableFunc(topics, func(a, b types.TopicStat) int { return b.Solved - a.Solved })
	if len(topics) > 0 {
		sb.WriteString("\nTop topics:\n")
		count := min(len(topics), maxItemsToShow)
		for i := 0; i < count; i++ {
			fmt.Fprintf(&sb, "  • %s: %d\n", topics[i].TopicName, topics[i].Solved)
		}
		if len(topics) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(topics)-maxItemsToShow)
		}
	}
	p.printBox("LEETCODE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobs lists search results, numbered so they can be saved by index.
func (p *Printer) PrintJobs(jobs []types.Job) {
	if len(jobs) == 0 {
		p.printBox("JOBS", "No jobs found.")
		return
	}
	var sb strings.Builder
	for i, j := range jobs {
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, j.Position)
		fmt.Fprintf(&sb, "    %s · %s", j.Company, j.Location)
		if j.Salary != "" {
			fmt.Fprintf(&sb, " · %s", j.Salary)
		}
		sb.WriteString("\n")
		if j.Date != "" {
			fmt.Fprintf(&sb, "    Posted: %s\n", j.Date)
		}
		fmt.Fprintf(&sb, "    %s", j.JobURL)
		if i < len(jobs)-1 {
			sb.WriteString("\n\n")
		}
	}
	p.printBox(fmt.Sprintf("JOBS (%d)", len(jobs)), sb.String())
}

// PrintAppliedJobs lists saved jobs.
func (p *Printer) PrintAppliedJobs(jobs []types.AppliedJob) {
	if len(jobs) == 0 {
		p.printBox("SAVED JOBS", "No saved jobs.")
		return
	}
	var sb strings.Builder
	for i, j := range jobs {
		fmt.Fprintf(&sb, "• %s at %s\n", j.JobTitle, orDash(j.CompanyName))
		fmt.Fprintf(&sb, "  %s", j.JobURL)
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(fmt.Sprintf("SAVED JOBS (%d)", len(jobs)), sb.String())
}

// PrintExtractResult shows extracted skills by category, or the extractor's
// raw text when raw is set.
func (p *Printer) PrintExtractResult(result *gateway.ExtractResult, raw bool) {
	if result == nil {
		return
	}
	if raw {
		text := result.RawText
		if text == "" {
			text = "(no raw text returned)"
		}
		p.printBox("RESUME RAW TEXT", text)
		return
	}

	var sb strings.Builder
	for i, c := range result.Categories {
		fmt.Fprintf(&sb, "%s:\n", c)
		for _, name := range result.Skills[c] {
			fmt.Fprintf(&sb, "  • %s\n", name)
		}
		if i < len(result.Categories)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("EXTRACTED SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBooks lists book search hits.
func (p *Printer) PrintBooks(query string, books []types.Book) {
	title := fmt.Sprintf("BOOKS: %s", query)
	if len(books) == 0 {
		p.printBox(title, "No books found.")
		return
	}
	var sb strings.Builder
	for i, b := range books {
		fmt.Fprintf(&sb, "• %s\n", b.Title)
		if len(b.Authors) > 0 {
			fmt.Fprintf(&sb, "  by %s\n", strings.Join(b.Authors, ", "))
		}
		if b.Download != "" {
			fmt.Fprintf(&sb, "  %s\n", b.Download)
		}
		if i < len(books)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompanies lists the target company catalogue.
func (p *Printer) PrintCompanies(companies []types.TargetCompany) {
	if len(companies) == 0 {
		p.printBox("TARGET COMPANIES", "No companies available.")
		return
	}
	var sb strings.Builder
	for i, c := range companies {
		sb.WriteString(c.Company)
		if c.Role != "" {
			fmt.Fprintf(&sb, " (%s)", c.Role)
		}
		if len(c.Skills) > 0 {
			fmt.Fprintf(&sb, "\n  %s", strings.Join(c.Skills, ", "))
		}
		if i < len(companies)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("TARGET COMPANIES", sb.String())
}

// PrintCareerReport outputs the AI career report.
func (p *Printer) PrintCareerReport(report *types.CareerReport) {
	if report == nil {
		return
	}
	var sb strings.Builder
	if s := report.UserSummary.CandidateSummary; s != "" {
		fmt.Fprintf(&sb, "%s\n", s)
	}
	if l := report.UserSummary.LeetcodeLevel; l != "" {
		fmt.Fprintf(&sb, "LeetCode level: %s\n", l)
	}
	fmt.Fprintf(&sb, "Jobs analysed: %d\n", report.JobsFoundCount)

	for _, a := range report.Analysis.JobAnalyses {
		fmt.Fprintf(&sb, "\n%s at %s  %s\n", a.Role, a.Company, p.band(a.MatchPercentage))
		if len(a.MissingSkills) > 0 {
			fmt.Fprintf(&sb, "  Missing: %s\n", strings.Join(a.MissingSkills, ", "))
		}
		if a.ActionPlan != "" {
			fmt.Fprintf(&sb, "  Plan: %s\n", a.ActionPlan)
		}
	}
	p.printBox("CAREER REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompanyAnalysis outputs the analysis against one company.
func (p *Printer) PrintCompanyAnalysis(company string, analysis *types.CompanyAnalysis) {
	if analysis == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match: %s\n", p.band(analysis.MatchPercentage))
	if len(analysis.MissingSkills) > 0 {
		fmt.Fprintf(&sb, "Missing: %s\n", strings.Join(analysis.MissingSkills, ", "))
	}
	if analysis.Advice != "" {
		fmt.Fprintf(&sb, "\n%s\n", analysis.Advice)
	}
	if len(analysis.Roadmap) > 0 {
		sb.WriteString("\nRoadmap:\n")
		for i, step := range analysis.Roadmap {
			label := step.Step
			if label == "" {
				label = fmt.Sprint(i + 1)
			}
			fmt.Fprintf(&sb, "  %s. %s\n", label, step.Action)
		}
	}
	p.printBox("ANALYSIS: "+strings.ToUpper(company), strings.TrimSuffix(sb.String(), "\n"))
}

// band renders a percentage with its band, coloured in the dark theme.
func (p *Printer) band(pct types.Percentage) string {
	if pct == "" {
		return "n/a"
	}
	b := pct.Band()
	text := fmt.Sprintf("%s [%s]", pct, b)
	if colour, ok := bandColours[b]; ok && p.theme == types.ThemeDark {
		return colour + text + ansiReset
	}
	return text
}

func sortedSemesters(semesters map[string]float64) []string {
	return slices.SortedFunc(maps.Keys(semesters), func(a, b string) int {
		if d := semesterOrder(a) - semesterOrder(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
}

// semesterOrder sorts "Semester N" labels numerically; other names last.
func semesterOrder(name string) int {
	var n int
	if _, err := fmt.Sscanf(name, "Semester %d", &n); err == nil {
		return n
	}
	return 1 << 20
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
