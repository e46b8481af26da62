package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
)

// maxParseInput caps how much text parse reads.
const maxParseInput = 10 << 20

type parseOutput struct {
	Cards []cardtext.Card `json:"cards"`
	Count int             `json:"count"`
}

func newParseCmd() *cobra.Command {
	var opts cardtext.Options
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the cards parsed from a file or stdin as JSON",
		Long: `Parse reads text in any of the supported card formats ("front | back",
"front; back", "front: back", tab-separated, numbered lists) and prints the
resulting cards as JSON. Without a file argument it reads stdin.

Examples:
  flashdeck parse words.txt
  pbpaste | flashdeck parse --preserve-case`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}
			text, err := io.ReadAll(io.LimitReader(in, maxParseInput))
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			cards := cardtext.Parse(string(text), opts)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(parseOutput{Cards: cards, Count: len(cards)})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.PreserveCase, "preserve-case", false, "keep fields as written instead of normalizing them")
	flags.BoolVar(&opts.Lenient, "lenient", false, "fall back to the lenient parser when nothing structured is found")
	flags.BoolVar(&opts.FilterMetaWords, "filter-meta", false, `drop label pairs such as "word | translation"`)
	flags.BoolVar(&opts.EnglishBoundary, "english-boundary", false, "split separator-less lines before a common English word")
	flags.IntVar(&opts.MaxCards, "max", 0, "keep at most this many cards (0 means no limit)")
	return cmd
}
