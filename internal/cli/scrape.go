package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/pipeline"
)

var (
	archiveURL string
	sourceID   string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Ingest a newsletter archive page for one source.",
	Long: `Extracts issue links from a public newsletter archive page (Mailchimp
campaign archives and generic link lists are recognized), fetches each
issue politely, sanitizes it, and stores the result for rule matching.`,
	Run: func(cmd *cobra.Command, args []string) {
		if archiveURL == "" || sourceID == "" {
			fmt.Fprintf(os.Stderr, "Error: --archive-url and --source-id are required.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()
		p := pipeline.NewPipeline(cfg)

		if cfg.MappingFile() != "" {
			mappings, err := mailparse.LoadMappingFile(cfg.MappingFile())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: loading mapping file: %s\n", err)
				os.Exit(1)
			}
			for _, mapping := range mappings {
				p.Store().SaveMapping(mapping)
			}
		}

		execution, err := p.ExecuteScrapeIngest(context.Background(), archiveURL, sourceID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: archive ingest failed: %s\n", err)
			os.Exit(1)
		}

		stats := execution.GetStats()
		fmt.Printf("Archive ingest complete for %s\n", sourceID)
		fmt.Printf("Processed: %d\n", stats.GetProcessed())
		fmt.Printf("Skipped: %d\n", stats.GetSkipped())
		fmt.Printf("Errors: %d\n", stats.GetErrors())
		fmt.Printf("Notifications queued: %d\n", stats.GetQueued())
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	scrapeCmd.Flags().StringVar(&archiveURL, "archive-url", "", "newsletter archive page URL")
	scrapeCmd.Flags().StringVar(&sourceID, "source-id", "", "source ID to attribute fetched newsletters to")
}
