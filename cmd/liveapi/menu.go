package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/quannguyen247/gemini-liveapi-go/pkg/liveapi"
)

// runMenu drives the interactive menu until the user exits.
func runMenu(ctx context.Context, cfg *liveapi.Config) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		theme := liveapi.CurrentTheme()
		fmt.Println()
		fmt.Println(theme.Header.Render("=== Gemini Live API Menu ==="))
		fmt.Println()
		fmt.Println(theme.Prompt.Render("1. Real-time Audio Interaction"))
		fmt.Println(theme.Prompt.Render("2. Text Interaction"))
		fmt.Println(theme.Prompt.Render("3. Test Microphone"))
		fmt.Println(theme.Prompt.Render("4. Config Theme"))
		fmt.Println(theme.Prompt.Render("5. Exit"))
		fmt.Print(theme.Prompt.Render("Select an option: "))

		choice, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			client := newClient(ctx, cfg)
			audio, err := liveapi.NewAudioIO(audioConfigFrom(cfg))
			if err != nil {
				fmt.Println(theme.Error.Render("Audio init failed: " + err.Error()))
				continue
			}
			if err := liveapi.NewLiveVoice(client, audio).Run(ctx); err != nil {
				fmt.Println(theme.Error.Render("Error during audio session: " + err.Error()))
			}
			audio.Cleanup()
		case "2":
			client := newClient(ctx, cfg)
			if err := runTextChat(ctx, client); err != nil {
				fmt.Println(theme.Error.Render("Error during text interaction: " + err.Error()))
			}
		case "3":
			if err := runMicTest(cfg); err != nil {
				fmt.Println(theme.Error.Render("Microphone test error: " + err.Error()))
			}
		case "4":
			if err := runThemeMenu(reader, cfg); err != nil {
				fmt.Println(theme.Error.Render("Theme selection error: " + err.Error()))
			}
		case "5":
			fmt.Println(theme.Status.Render("Goodbye!"))
			return nil
		default:
			fmt.Println(theme.Error.Render("Invalid option!"))
		}
	}
}

// runTextChat loops prompts until the user types quit/exit. Each prompt
// runs over a fresh session; the transcript keeps local history.
func runTextChat(ctx context.Context, client *liveapi.Client) error {
	theme := liveapi.CurrentTheme()
	fmt.Println(theme.Status.Render("Starting text interaction..."))
	fmt.Println(theme.Status.Render(">> Type 'quit' or 'exit' to return to the main menu."))

	transcript := liveapi.NewTranscript(0)
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(theme.Prompt.Render("You: "))
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if liveapi.IsQuitCommand(line) {
			return nil
		}

		transcript.AddUser(line)
		fmt.Print(theme.Model.Render("Model: "))
		reply, err := liveapi.TextChatOnce(ctx, client, line, func(chunk string) {
			fmt.Print(theme.Model.Render(chunk))
		})
		fmt.Println()
		if err != nil {
			fmt.Println(theme.Error.Render("Error during text interaction: " + err.Error()))
			continue
		}
		transcript.AddModel(reply)
	}
}

// runMicTest records a short clip and plays it back.
func runMicTest(cfg *liveapi.Config) error {
	theme := liveapi.CurrentTheme()
	fmt.Println(theme.Status.Render(fmt.Sprintf(
		"Starting recording for %.1f seconds...", cfg.MicTestDuration)))

	audio, err := liveapi.NewAudioIO(audioConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer audio.Cleanup()

	if err := audio.MicTest(cfg.MicTestDuration); err != nil {
		return err
	}
	fmt.Println(theme.Status.Render("Microphone is working correctly."))
	return nil
}

// runThemeMenu lets the user pick one of the built-in themes.
func runThemeMenu(reader *bufio.Reader, cfg *liveapi.Config) error {
	for {
		theme := liveapi.CurrentTheme()
		fmt.Println()
		fmt.Println(theme.Header.Render("Theme Selection:"))
		names := liveapi.ThemeNames()
		for i, name := range names {
			t, _ := liveapi.ThemeByName(name)
			fmt.Println(theme.Prompt.Render(fmt.Sprintf("%d. %s", i, t.Description)))
		}
		fmt.Print(theme.Prompt.Render("Select a theme option: "))

		choice, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		idx := -1
		fmt.Sscanf(strings.TrimSpace(choice), "%d", &idx)
		if idx < 0 || idx >= len(names) {
			fmt.Println(theme.Error.Render("Invalid option! Please try again."))
			continue
		}

		if err := liveapi.SetTheme(names[idx]); err != nil {
			return err
		}
		cfg.Theme = names[idx]
		selected, _ := liveapi.ThemeByName(names[idx])
		fmt.Println(liveapi.CurrentTheme().Status.Render("Theme changed to: " + selected.Description))
		return nil
	}
}
