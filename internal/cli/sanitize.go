package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/privacy"
	"github.com/wardpost/wardpost/internal/textconvert"
	"github.com/wardpost/wardpost/pkg/fileutil"
)

var sanitizeInput string

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Sanitize a local newsletter HTML file.",
	Long: `Strips tracking pixels, wrapped links, recipient-specific unsubscribe
URLs and configured phrases from a newsletter HTML file, then derives the
plain-text rendition. Writes <name>.sanitized.html and <name>.txt under
the output directory, or prints the plain text with --dry-run.`,
	Run: func(cmd *cobra.Command, args []string) {
		if sanitizeInput == "" {
			fmt.Fprintf(os.Stderr, "Error: --input is required. Please provide a newsletter HTML file to sanitize.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()

		content, err := os.ReadFile(sanitizeInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading %s: %s\n", sanitizeInput, err)
			os.Exit(1)
		}

		patterns := privacy.DefaultPatternSet()
		if cfg.PatternFile() != "" {
			loaded, loadErr := privacy.LoadPatternFile(cfg.PatternFile())
			if loadErr != nil {
				fmt.Fprintf(os.Stderr, "Error: loading pattern file: %s\n", loadErr)
				os.Exit(1)
			}
			patterns = loaded
		}

		recorder := metadata.NewRecorder("wardpost-cli")
		engine := privacy.NewEngine(&recorder)
		sanitized := engine.Sanitize(string(content), privacy.ContentTypeHTML, patterns, cfg.StripPhrases())

		converter := textconvert.NewRule(&recorder)
		result, convErr := converter.Convert(sanitized)
		if convErr != nil {
			fmt.Fprintf(os.Stderr, "Error: deriving plain text: %s\n", convErr)
			os.Exit(1)
		}

		if cfg.DryRun() {
			fmt.Println(result.GetTextContent())
			return
		}

		base := strings.TrimSuffix(filepath.Base(sanitizeInput), filepath.Ext(sanitizeInput))
		if writeErr := fileutil.WriteReport(cfg.OutputDir(), base+".sanitized.html", []byte(sanitized)); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error: writing sanitized HTML: %s\n", writeErr)
			os.Exit(1)
		}
		if writeErr := fileutil.WriteReport(cfg.OutputDir(), base+".txt", []byte(result.GetTextContent())); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error: writing plain text: %s\n", writeErr)
			os.Exit(1)
		}
		fmt.Printf("Sanitized %s into %s\n", sanitizeInput, cfg.OutputDir())
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
	sanitizeCmd.Flags().StringVar(&sanitizeInput, "input", "", "newsletter HTML file to sanitize")
}
