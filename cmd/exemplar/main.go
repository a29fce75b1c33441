package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/exemplar/internal/anki"
	"codeberg.org/snonux/exemplar/internal/audio"
	"codeberg.org/snonux/exemplar/internal/cli"
	"codeberg.org/snonux/exemplar/internal/export"
	"codeberg.org/snonux/exemplar/internal/generate"
	"codeberg.org/snonux/exemplar/internal/history"
	"codeberg.org/snonux/exemplar/internal/image"
	"codeberg.org/snonux/exemplar/internal/session"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := context.Background()
	settings := cli.GetSettings()

	// Handle --history flag
	if flags.History {
		return showHistory(settings.HistoryPath)
	}

	// Handle --check-anki flag
	if flags.CheckAnki {
		client := anki.NewClient(settings.Anki.URL)
		if err := client.Healthy(ctx); err != nil {
			return fmt.Errorf("AnkiConnect is not reachable: %w", err)
		}
		fmt.Println("AnkiConnect is reachable.")
		return nil
	}

	if len(args) == 0 {
		return cmd.Help()
	}
	word := args[0]

	// Build the search sources
	searcher := image.NewPixabayClient(settings.PixabayKey)

	provider, err := generate.NewProvider(ctx, &generate.Config{
		Provider:    settings.Generate.Provider,
		OpenAIKey:   cli.GetOpenAIKey(),
		OpenAIModel: settings.Generate.OpenAIModel,
		GeminiKey:   cli.GetGeminiKey(),
		GeminiModel: settings.Generate.GeminiModel,
		PhraseCount: 5,
	})
	if err != nil {
		return err
	}

	// Search history is optional; a broken database costs only history
	var hist session.History
	if store, err := history.Open(settings.HistoryPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: search history unavailable: %v\n", err)
	} else {
		defer store.Close()
		hist = store
	}

	ctrl := session.NewController(searcher, provider, hist)

	snap := ctrl.Search(ctx, word)
	if flags.Page > 1 {
		snap = ctrl.ChangePage(ctx, flags.Page)
	}
	printSnapshot(snap)

	// Export if requested and enabled
	if flags.Export {
		if !settings.Anki.Enabled {
			fmt.Fprintln(os.Stderr, "Anki export is disabled in the configuration.")
			return nil
		}
		return runExport(ctx, ctrl, flags, settings)
	}

	return nil
}

func runExport(ctx context.Context, ctrl *session.Controller, flags *cli.Flags, settings *cli.AppSettings) error {
	ctrl.SetCurating(true)
	if flags.CurateAll {
		ctrl.SelectAll()
	}

	var audioProvider audio.Provider
	if settings.Audio.Enabled && !flags.SkipAudio {
		provider, err := audio.NewProvider(&audio.Config{
			Provider:    "openai",
			OpenAIKey:   cli.GetOpenAIKey(),
			OpenAIModel: "gpt-4o-mini-tts",
			OpenAIVoice: settings.Audio.Voice,
			OpenAISpeed: settings.Audio.Speed,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio disabled: %v\n", err)
		} else {
			audioProvider = provider
		}
	}

	exporter := export.NewExporter(anki.NewClient(settings.Anki.URL), audioProvider, &export.Options{
		DeckName:  flags.DeckName,
		ModelName: settings.Anki.ModelName,
	})

	outcome, err := ctrl.Export(ctx, exporter)
	if err != nil {
		return fmt.Errorf("export aborted: %w", err)
	}

	fmt.Printf("\nExported %d cards (%d failed).\n", outcome.Success, outcome.Failed)
	return nil
}

func showHistory(path string) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(20)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No searches recorded yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%-20s %3dx  last %s\n", e.Word, e.Searches, e.LastSearched.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSnapshot(snap session.Snapshot) {
	if snap.Result == nil {
		return
	}

	fmt.Printf("\n%s\n", snap.Result.Word)

	if snap.Result.Explanation != "" {
		fmt.Printf("\n%s\n", snap.Result.Explanation)
	}

	if len(snap.Result.Phrases) > 0 {
		fmt.Println("\nExample phrases:")
		for i, p := range snap.Result.Phrases {
			fmt.Printf("  %d. %s - %s", i+1, p.Text, p.Translation)
			if p.Category != "" {
				fmt.Printf(" (%s)", p.Category)
			}
			fmt.Println()
		}
	}

	if snap.Page != nil && len(snap.Page.Images) > 0 {
		fmt.Printf("\nImages (page %d/%d):\n", snap.Page.CurrentPage, snap.Page.TotalPages)
		for i, img := range snap.Page.Images {
			fmt.Printf("  %d. %s\n", i+1, img.URL)
		}
	}
}
