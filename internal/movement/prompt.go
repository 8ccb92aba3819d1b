// Package movement executes one movement: prompt assembly, provider
// invocation, outcome detection, and parallel/team-leader fan-out.
package movement

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PromptContext carries the values substituted into a movement's
// instruction template.
type PromptContext struct {
	Task             string
	Iteration        int
	StepIteration    int
	ReportDir        string
	PreviousResponse string

	// ProjectRoot is used only to expand the qualified
	// ".takt/reports/{report_dir}/..." form to an absolute path — it is
	// never included in the rendered prompt itself, to avoid agent
	// confusion about the host filesystem layout.
	ProjectRoot string

	WorkDir  string
	Language string

	// Policies, Knowledge, and Instructions are the piece's resolved
	// piece-level facet content, rendered as context sections ahead of the
	// movement's own instruction. ReportFormat is the resolved
	// report-format facet content, if the piece declares one.
	Policies     []string
	Knowledge    []string
	Instructions []string
	ReportFormat string
}

const reportDirQualifiedPattern = ".takt/reports/{report_dir}"

// RenderPrompt substitutes placeholders in tmpl and prepends an Execution
// Context metadata block containing the working directory and language.
func RenderPrompt(tmpl string, ctx PromptContext) string {
	rendered := tmpl

	if ctx.ProjectRoot != "" && strings.Contains(rendered, reportDirQualifiedPattern) {
		abs := filepath.Join(ctx.ProjectRoot, ".takt", "reports", ctx.ReportDir)
		rendered = strings.ReplaceAll(rendered, reportDirQualifiedPattern, abs)
	}

	replacer := strings.NewReplacer(
		"{task}", ctx.Task,
		"{iteration}", fmt.Sprintf("%d", ctx.Iteration),
		"{step_iteration}", fmt.Sprintf("%d", ctx.StepIteration),
		"{report_dir}", ctx.ReportDir,
		"{previous_response}", ctx.PreviousResponse,
	)
	rendered = replacer.Replace(rendered)

	header := fmt.Sprintf("## Execution Context\n\n- Working directory: %s\n- Language: %s\n\n", ctx.WorkDir, ctx.Language)
	return header + pieceContextSections(ctx) + rendered
}

// pieceContextSections renders the piece's resolved piece-level facet
// content ahead of the movement's own instruction, one section per facet
// kind, omitting any kind the piece didn't declare.
func pieceContextSections(ctx PromptContext) string {
	var b strings.Builder
	for _, c := range ctx.Policies {
		fmt.Fprintf(&b, "## Policy\n\n%s\n\n", c)
	}
	for _, c := range ctx.Knowledge {
		fmt.Fprintf(&b, "## Knowledge\n\n%s\n\n", c)
	}
	for _, c := range ctx.Instructions {
		fmt.Fprintf(&b, "## Instruction\n\n%s\n\n", c)
	}
	if ctx.ReportFormat != "" {
		fmt.Fprintf(&b, "## Report Format\n\n%s\n\n", ctx.ReportFormat)
	}
	return b.String()
}
