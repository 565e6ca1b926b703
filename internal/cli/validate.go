package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/Nareshtt/motion-dom-canvas/internal/analyzer"
	"github.com/Nareshtt/motion-dom-canvas/internal/project"
	"github.com/Nareshtt/motion-dom-canvas/internal/script"
	"github.com/Nareshtt/motion-dom-canvas/internal/style"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // warnings fail validation
}

// ValidationIssue is one problem found in a project.
type ValidationIssue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Scene    string `json:"scene,omitempty"`
	Message  string `json:"message"`
	Suggest  string `json:"suggest,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Scenes int               `json:"scenes"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check project configuration, scene numbering and scene flows",
		Long: `Validate a project without playing it.

Errors: invalid project.yaml, misnumbered scene folders, scene sources that
do not parse.
Warnings: style tokens that do not parse (they are skipped at runtime),
scenes whose duration cannot be analysed, Go scenes not compiled into this
binary.

Exit codes:
  0 - Project valid
  1 - Errors found (or warnings with --strict)
  2 - Command error`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat warnings as errors")

	return cmd
}

func runValidate(opts *ValidateOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	result := &ValidationResult{}
	proj, err := loadProject(opts.Project)
	if err != nil {
		if GetExitCode(err) == ExitCommandError {
			_ = formatter.Error(errorCode(err), err.Error(), nil)
			return err
		}
		result.Issues = append(result.Issues, projectIssue(err))
	} else {
		result.Scenes = len(proj.Scenes)
		for _, sc := range proj.Scenes {
			formatter.VerboseLog("Validating scene: %s", sc.Dir)
			result.Issues = append(result.Issues, validateScene(sc, opts.Catalog)...)
		}
	}

	result.Valid = true
	for _, is := range result.Issues {
		if is.Severity == SeverityError || opts.Strict {
			result.Valid = false
		}
	}

	if err := formatter.Render(result, func(w io.Writer) error {
		return writeValidation(w, result)
	}); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

func projectIssue(err error) ValidationIssue {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		err = exitErr.Err
	}
	is := ValidationIssue{Severity: SeverityError, Code: errorCode(err), Message: err.Error()}
	var oe *project.OrderError
	if errors.As(err, &oe) && oe.Code == project.ErrCodeMissingIndex {
		is.Scene = oe.Sources[0]
		is.Suggest = oe.Suggest
	}
	return is
}

// validateScene parses one scene source and lints its style tokens.
func validateScene(sc project.Scene, catalog *project.Catalog) []ValidationIssue {
	issue := func(severity, code, message string) ValidationIssue {
		return ValidationIssue{Severity: severity, Code: code, Scene: sc.Dir, Message: message}
	}

	src, err := sc.ReadSource()
	if err != nil {
		return []ValidationIssue{issue(SeverityError, ErrCodeScene, err.Error())}
	}

	var root *analyzer.Node
	var issues []ValidationIssue
	switch sc.Kind {
	case project.SourceYAML:
		s, err := script.Parse(bytes.NewReader(src))
		if err != nil {
			return []ValidationIssue{issue(SeverityError, ErrCodeScene, err.Error())}
		}
		root = s.Node()
	default:
		root, err = analyzer.ParseGo(sc.Path, src)
		if err != nil {
			return []ValidationIssue{issue(SeverityError, ErrCodeScene, err.Error())}
		}
		if _, ok := catalog.Lookup(sc.Name); !ok {
			is := issue(SeverityWarning, ErrCodeNotCompiled, fmt.Sprintf("scene %q is not compiled into this binary", sc.Name))
			if hints := catalog.Suggest(sc.Name); len(hints) > 0 {
				is.Suggest = hints[0]
			}
			issues = append(issues, is)
		}
	}

	if est := analyzer.Analyze(root); est.Fallback {
		issues = append(issues, issue(SeverityWarning, ErrCodeFallback,
			"duration could not be analysed: "+strings.Join(est.Diagnostics, "; ")))
	}

	for _, tok := range analyzer.UnknownTokens(root) {
		is := issue(SeverityWarning, ErrCodeUnknownToken, fmt.Sprintf("unknown style token %q", tok))
		is.Suggest = suggestToken(tok)
		issues = append(issues, is)
	}
	return issues
}

// suggestToken proposes a correction for a token whose prefix is misspelt,
// keeping its value. It returns "" when no prefix is close.
func suggestToken(token string) string {
	neg := strings.HasPrefix(token, "-")
	name := strings.TrimPrefix(token, "-")

	cut := strings.LastIndex(name, "-")
	if cut <= 0 {
		return ""
	}
	head, value := name[:cut+1], name[cut+1:]

	best, bestDist := "", 3
	for _, p := range style.Prefixes() {
		if !strings.HasSuffix(p, "-") {
			continue
		}
		if d := fuzzy.LevenshteinDistance(head, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == "" {
		return ""
	}
	out := best + value
	if neg {
		out = "-" + out
	}
	if _, ok := style.Parse(out); !ok {
		return ""
	}
	return out
}

func writeValidation(w io.Writer, res *ValidationResult) error {
	for _, is := range res.Issues {
		where := ""
		if is.Scene != "" {
			where = is.Scene + ": "
		}
		fmt.Fprintf(w, "%s [%s] %s%s", is.Severity, is.Code, where, is.Message)
		if is.Suggest != "" {
			fmt.Fprintf(w, " (did you mean %q?)", is.Suggest)
		}
		fmt.Fprintln(w)
	}
	if res.Valid {
		fmt.Fprintf(w, "✓ %d scene(s) valid\n", res.Scenes)
	} else {
		fmt.Fprintln(w, "✗ validation failed")
	}
	return nil
}
