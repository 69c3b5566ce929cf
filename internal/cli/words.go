package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fadonmez/backend/internal/model"

	"github.com/spf13/cobra"
)

func newSampleCommand(opts *RootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "sample <language>",
		Short: "Print a random run of catalog words for a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				words, err := b.Queries.SampleWords(ctx, args[0], count)
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts.Format, words, func(w io.Writer) {
					for i := range words {
						printWord(w, &words[i])
					}
				})
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of words")
	return cmd
}

func newLookupCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word> <language>",
		Short: "Print a catalog word with its translations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b *Backend) error {
				word, err := b.Queries.GetWordByName(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), opts.Format, word, func(w io.Writer) {
					printWord(w, word)
				})
			})
		},
	}
}

func printWord(w io.Writer, word *model.Word) {
	translations := make([]string, 0, len(word.Translations))
	for _, t := range word.Translations {
		translations = append(translations, t.LanguageCode+"="+t.TranslationValue)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", word.WordName, word.LanguageCode, word.Level, strings.Join(translations, ","))
}
