package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"resumeqa/internal/common"
	"resumeqa/internal/errors"
	"resumeqa/internal/types"

	"github.com/spf13/cobra"
)

// localContainer labels results parsed from a local file.
const localContainer = "local"

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the PDF resumes in the storage container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *common.Runtime) error {
			return common.RunCommand(cmd.Context(), rt.Logger, rootOpts.output, "list",
				func(ctx context.Context) (types.ResumeList, error) {
					return rt.Service.List(ctx, rt.Config.Storage.Container), nil
				})
		})
	},
}

var parseOpts struct {
	file string
}

var parseCmd = &cobra.Command{
	Use:   "parse [resume-name]",
	Short: "Extract contact details, sections, education and experience from a resume",
	Long: `Parse a resume from the storage container, or a local PDF, DOCX or text
file with --file. The name defaults to the file name when --file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resumeName(args, parseOpts.file)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(rt *common.Runtime) error {
			return common.RunCommand(cmd.Context(), rt.Logger, rootOpts.output, "parse",
				func(ctx context.Context) (*types.ParsedResume, error) {
					return parseResume(ctx, rt, name, parseOpts.file)
				})
		})
	},
}

var similarityOpts struct {
	file    string
	jobFile string
	jobText string
}

var similarityCmd = &cobra.Command{
	Use:   "similarity [resume-name]",
	Short: "Score a resume against a job description",
	Long: `Compute the TF-IDF cosine similarity between a resume and a job
description, scaled by the configured multiplier. The job description comes
from --job-file or --job-text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resumeName(args, similarityOpts.file)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(rt *common.Runtime) error {
			jd, err := jobDescription(rt, similarityOpts.jobFile, similarityOpts.jobText)
			if err != nil {
				return err
			}
			return common.RunCommand(cmd.Context(), rt.Logger, rootOpts.output, "similarity",
				func(ctx context.Context) (*types.SimilarityResult, error) {
					if similarityOpts.file == "" {
						return rt.Service.Similarity(ctx, name, rt.Config.Storage.Container, jd)
					}
					raw, err := readLocalResume(rt, similarityOpts.file)
					if err != nil {
						return nil, err
					}
					return rt.Service.SimilarityText(ctx, name, raw, jd)
				})
		})
	},
}

var askOpts struct {
	file     string
	question string
}

var askCmd = &cobra.Command{
	Use:   "ask [resume-name]",
	Short: "Answer a question about a resume",
	Long: `Answer a free-form question from the content of a resume. The
context sent to the model is the resume text or its parsed summary,
depending on ai.qa.contextMode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resumeName(args, askOpts.file)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(rt *common.Runtime) error {
			rt.Logger.Info("Answering question",
				"resume", name,
				"question_chars", len(askOpts.question))
			return common.RunCommand(cmd.Context(), rt.Logger, rootOpts.output, "ask",
				func(ctx context.Context) (*types.Answer, error) {
					if askOpts.file == "" {
						return rt.Service.Ask(ctx, name, rt.Config.Storage.Container, askOpts.question)
					}
					raw, err := readLocalResume(rt, askOpts.file)
					if err != nil {
						return nil, err
					}
					return rt.Service.AskText(ctx, name, raw, askOpts.question)
				})
		})
	},
}

var reportOpts struct {
	file string
	html bool
}

var reportCmd = &cobra.Command{
	Use:   "report [resume-name]",
	Short: "Render a parsed resume as a Markdown or HTML report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resumeName(args, reportOpts.file)
		if err != nil {
			return err
		}
		out := rootOpts.output
		out.OutputFormat = "markdown"
		if reportOpts.html {
			out.OutputFormat = "html"
		}
		return withRuntime(cmd, func(rt *common.Runtime) error {
			return common.RunCommand(cmd.Context(), rt.Logger, out, "report",
				func(ctx context.Context) (*types.ParsedResume, error) {
					return parseResume(ctx, rt, name, reportOpts.file)
				})
		})
	},
}

var historyOpts struct {
	resume string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent parse runs (requires database.enabled)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyOpts.limit < 0 {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest, "--limit must not be negative", nil)
		}
		return withRuntime(cmd, func(rt *common.Runtime) error {
			return common.RunCommand(cmd.Context(), rt.Logger, rootOpts.output, "history",
				func(ctx context.Context) (*types.ParseHistory, error) {
					return rt.Service.History(ctx, historyOpts.resume, historyOpts.limit)
				})
		})
	},
}

// resumeName returns the positional name, falling back to the base name of
// a local file.
func resumeName(args []string, file string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if file != "" {
		return filepath.Base(file), nil
	}
	return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
		"a resume name or --file is required", nil)
}

func parseResume(ctx context.Context, rt *common.Runtime, name, file string) (*types.ParsedResume, error) {
	if file == "" {
		return rt.Service.Parse(ctx, name, rt.Config.Storage.Container)
	}
	raw, err := readLocalResume(rt, file)
	if err != nil {
		return nil, err
	}
	return rt.Service.ParseText(ctx, name, localContainer, raw)
}

func readLocalResume(rt *common.Runtime, file string) (string, error) {
	return common.NewFileProcessor(rt.Config.Document.MaxBytes, rt.Logger).ReadDocument(file, rt.Extractor)
}

// jobDescription reads --job-file or returns --job-text; exactly one is allowed.
func jobDescription(rt *common.Runtime, file, text string) (string, error) {
	switch {
	case file != "" && text != "":
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"use either --job-file or --job-text, not both", nil)
	case file != "":
		jd, err := common.NewFileProcessor(rt.Config.Document.MaxBytes, rt.Logger).ReadText(file)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return jd, nil
	default:
		return text, nil
	}
}

func init() {
	parseCmd.Flags().StringVarP(&parseOpts.file, "file", "f", "", "Parse a local PDF, DOCX or text file instead of a stored resume")

	similarityCmd.Flags().StringVarP(&similarityOpts.file, "file", "f", "", "Score a local resume file instead of a stored resume")
	similarityCmd.Flags().StringVar(&similarityOpts.jobFile, "job-file", "", "File holding the job description")
	similarityCmd.Flags().StringVar(&similarityOpts.jobText, "job-text", "", "Job description text")
	similarityCmd.MarkFlagsOneRequired("job-file", "job-text")
	similarityCmd.MarkFlagsMutuallyExclusive("job-file", "job-text")

	askCmd.Flags().StringVarP(&askOpts.file, "file", "f", "", "Ask about a local resume file instead of a stored resume")
	askCmd.Flags().StringVarP(&askOpts.question, "question", "q", "", "Question to answer")
	_ = askCmd.MarkFlagRequired("question")

	reportCmd.Flags().StringVarP(&reportOpts.file, "file", "f", "", "Report on a local resume file instead of a stored resume")
	reportCmd.Flags().BoolVar(&reportOpts.html, "html", false, "Render a standalone HTML page instead of Markdown")

	historyCmd.Flags().StringVar(&historyOpts.resume, "resume", "", "Only show runs of this resume")
	historyCmd.Flags().IntVar(&historyOpts.limit, "limit", 0, "Maximum number of runs (default 50)")
}
