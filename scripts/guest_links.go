package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/guests"
	"github.com/AlexTLDR/wedding/internal/utils"
)

func main() {
	newTokens := flag.Int("new", 0, "print this many fresh uniqueUrl tokens and exit")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *newTokens > 0 {
		for i := 0; i < *newTokens; i++ {
			token, err := guests.GenerateToken()
			if err != nil {
				log.Fatal().Err(err).Msg("failed to generate token")
			}
			fmt.Println(token)
		}
		return
	}

	// Ignore error - the environment may already be set
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	data, err := cfg.GuestsSource()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read guests")
	}
	dir, err := guests.Parse(data, cfg.PhoneRegion)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid guest directory")
	}

	fmt.Printf("Found %d guests\n\n", dir.Len())

	// Report contacts that are neither e-mail nor a valid phone number
	unusable := 0
	for _, g := range dir.All() {
		fmt.Printf("%-30s %-20s %s\n", g.Name, g.Contact, cfg.RSVPLink(g.UniqueURL))
		if g.Contact == "" {
			continue
		}
		if strings.Contains(g.Contact, "@") {
			continue
		}
		if _, err := utils.NormalizePhoneNumber(g.Contact, cfg.PhoneRegion); err != nil {
			log.Warn().Str("guest", g.Name).Str("contact", g.Contact).Msg("contact is not a valid phone number")
			unusable++
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total: %d\n", dir.Len())
	fmt.Printf("  Unusable contacts: %d\n", unusable)
}
