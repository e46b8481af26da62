package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/platform/postgres"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

const (
	sampleDeckName        = "Cities of the Netherlands"
	sampleDeckDescription = "Learn about major cities in the Netherlands"
)

// sampleCities pairs each city with its province.
var sampleCities = [][2]string{
	{"Amsterdam", "Noord-Holland"},
	{"Rotterdam", "Zuid-Holland"},
	{"Den Haag", "Zuid-Holland"},
	{"Utrecht", "Provincie Utrecht"},
	{"Eindhoven", "Noord-Brabant"},
	{"Groningen", "Provincie Groningen"},
	{"Tilburg", "Noord-Brabant"},
	{"Almere", "Flevoland"},
	{"Breda", "Noord-Brabant"},
	{"Nijmegen", "Gelderland"},
	{"Enschede", "Overijssel"},
	{"Apeldoorn", "Gelderland"},
	{"Haarlem", "Noord-Holland"},
	{"Arnhem", "Gelderland"},
	{"Zaanstad", "Noord-Holland"},
	{"Amersfoort", "Provincie Utrecht"},
	{"Hoofddorp", "Noord-Holland"},
	{"Maastricht", "Limburg"},
	{"Leiden", "Zuid-Holland"},
	{"Dordrecht", "Zuid-Holland"},
	{"Zoetermeer", "Zuid-Holland"},
	{"Zwolle", "Overijssel"},
	{"Deventer", "Overijssel"},
	{"Delft", "Zuid-Holland"},
}

// sampleDeckText renders sampleCities in the bulk import format.
func sampleDeckText() string {
	var b strings.Builder
	for _, c := range sampleCities {
		fmt.Fprintf(&b, "%s | %s\n", c[0], c[1])
	}
	return b.String()
}

func newSeedCmd(load configLoader) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: `Create the "Cities of the Netherlands" sample deck for a user`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if err := config.Validate(cfg.Database); err != nil {
				return err
			}
			log, err := commandLogger(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			decks := postgres.NewPostgresDeckStore(db, log)
			cardStore := postgres.NewPostgresCardStore(db, log)
			deckService, err := service.NewDeckService(db, decks, cardStore, log)
			if err != nil {
				return err
			}
			cardService, err := service.NewCardService(db, decks, cardStore, log)
			if err != nil {
				return err
			}

			created, err := deckService.CreateDeck(ctx, userID, sampleDeckName, sampleDeckDescription, "")
			if err != nil {
				return fmt.Errorf("failed to create deck: %w", err)
			}
			cards, err := cardService.BulkCreate(ctx, userID, created.Deck.ID, sampleDeckText())
			if err != nil {
				return fmt.Errorf("failed to create cards: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created deck %q (%s) with %d cards:\n", created.Deck.Name, created.Deck.ID, len(cards))
			for _, c := range cards {
				fmt.Fprintf(out, "  %s -> %s\n", c.Front, c.Back)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID of the user who will own the deck")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
