package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/domain/charm"
	"github.com/yungbote/taiyaki-backend/internal/prompt"
)

type promptOptions struct {
	responsesPath string
	subjectName   string
	hasPhoto      bool
	variant       string
}

func newPromptCmd() *cobra.Command {
	opts := &promptOptions{}
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the image prompt for a set of quiz answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrompt(cmd.OutOrStdout(), *opts)
		},
	}
	cmd.Flags().StringVar(&opts.responsesPath, "responses", "", "JSON file with quiz answers (- for stdin)")
	cmd.Flags().StringVar(&opts.subjectName, "name", "", "Subject name")
	cmd.Flags().BoolVar(&opts.hasPhoto, "photo", false, "Assume a reference photo is attached")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "Variant direction: classic or sculptural")
	_ = cmd.MarkFlagRequired("responses")
	return cmd
}

func runPrompt(out io.Writer, opts promptOptions) error {
	var raw []byte
	var err error
	if opts.responsesPath == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(opts.responsesPath)
	}
	if err != nil {
		return fmt.Errorf("read responses: %w", err)
	}

	var responses charm.QuizResponses
	if err := json.Unmarshal(raw, &responses); err != nil {
		return fmt.Errorf("parse responses: %w", err)
	}

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	b := prompt.NewBuilder(cat)
	in := prompt.Input{SubjectName: opts.subjectName, HasPhoto: opts.hasPhoto, Responses: responses}

	var text string
	switch v := charm.Variant(opts.variant); v {
	case "", charm.VariantPrimary:
		text = b.Build(in)
	case charm.VariantClassic, charm.VariantSculptural:
		text = b.BuildVariant(in, v)
	default:
		return fmt.Errorf("unknown variant %q", opts.variant)
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
