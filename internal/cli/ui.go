package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/qbicsoftware/samplegraph/pkg/pipeline"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings such as the factor picker's.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight for names the user picked or can pick.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning for sample issues and other warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printIssues prints one warning per tolerated sample anomaly.
func printIssues(issues []sample.Issue) {
	for _, is := range issues {
		switch is.Kind {
		case "dangling-child":
			printWarning("sample %s names child %s, which is not in the project", is.SampleID, is.Ref)
		case "duplicate-id":
			printWarning("sample id %s appears more than once; the last record wins", is.SampleID)
		default:
			printWarning("%s: %s %s", is.Kind, is.SampleID, is.Ref)
		}
	}
}

// statsLine summarizes a render on one line, e.g.
// "3 samples · 2 edges · 14 shapes · layout 41ms · cached".
func statsLine(res *pipeline.Result) string {
	parts := []string{
		fmt.Sprintf("%d samples", res.Stats.NodeCount),
		fmt.Sprintf("%d edges", res.Stats.EdgeCount),
		fmt.Sprintf("%d shapes", res.Stats.ShapeCount),
	}
	status := "layout " + res.Stats.LayoutTime.Round(time.Millisecond).String()
	if res.CacheInfo.LayoutHit {
		status = styleCached.Render("cached")
	}
	parts = append(parts, status)
	return strings.Join(parts, StyleDim.Render(" · "))
}

// printStats prints the statsLine of res, indented.
func printStats(res *pipeline.Result) {
	fmt.Println("  " + StyleDim.Render(statsLine(res)))
}
