package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/exemplar/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exemplar [word]",
		Short: "Vocabulary flashcard companion",
		Long: `exemplar looks up a vocabulary word across an image search API and an
AI text-generation API, merges the results, and exports curated
flashcards to Anki through the local AnkiConnect HTTP API.

Examples:
  exemplar casa                   # Search images, phrases and an explanation
  exemplar casa --page 2          # Fetch the second page of images
  exemplar casa --export          # Search, select everything, export to Anki
  exemplar --history              # Show recently searched words
  exemplar --check-anki           # Verify the AnkiConnect bridge is reachable`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.exemplar.yaml)")

	// Local flags
	cmd.Flags().IntVarP(&flags.Page, "page", "p", flags.Page, "Image result page to fetch")
	cmd.Flags().BoolVar(&flags.Export, "export", false, "Export curated selections to Anki")
	cmd.Flags().BoolVar(&flags.CurateAll, "curate-all", true, "Select all phrases and the first image for export")
	cmd.Flags().BoolVar(&flags.History, "history", false, "Show recently searched words")
	cmd.Flags().BoolVar(&flags.CheckAnki, "check-anki", false, "Check the AnkiConnect bridge connection")
	cmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Anki deck to export cards into")
	cmd.Flags().BoolVar(&flags.SkipAudio, "skip-audio", false, "Skip pronunciation audio generation on export")

	// Generation flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Generation provider: openai or gemini")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for phrase and explanation generation")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for phrase and explanation generation")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("anki.deck_name", cmd.Flags().Lookup("deck-name"))
	viper.BindPFlag("generate.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("generate.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("generate.gemini_model", cmd.Flags().Lookup("gemini-model"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".exemplar" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".exemplar")
	}

	// Environment variables
	viper.SetEnvPrefix("EXEMPLAR")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
