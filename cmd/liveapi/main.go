package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quannguyen247/gemini-liveapi-go/pkg/liveapi"
)

var (
	verbose    bool
	apiKey     string
	configFile string
	themeName  string
	duration   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "liveapi",
		Short: "Gemini Live API CLI",
		Long:  "A command-line interface for real-time text and voice chat with the Gemini Live API",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand runs the interactive menu.
			return runMenu(cmd.Context(), loadConfig())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides GEMINI_KEY)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Terminal theme (default, hacker, light, blue)")

	rootCmd.AddCommand(menuCmd())
	rootCmd.AddCommand(textCmd())
	rootCmd.AddCommand(audioCmd())
	rootCmd.AddCommand(liveCmd())
	rootCmd.AddCommand(micTestCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		liveapi.GetGlobalLogger().WithError(err).Fatal("CLI execution failed")
	}
}

// loadConfig builds the effective configuration: file, then environment,
// then flags.
func loadConfig() *liveapi.Config {
	var cfg *liveapi.Config
	if configFile != "" {
		loaded, err := liveapi.LoadConfigFile(configFile)
		if err != nil {
			liveapi.GetGlobalLogger().WithError(err).Fatal("Failed to load config file")
		}
		cfg = loaded
	} else {
		cfg = liveapi.NewConfig()
	}

	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	if verbose {
		cfg.Verbose = true
	}

	if cfg.Verbose {
		logCfg := liveapi.DefaultLogConfig()
		logCfg.Level = zerolog.DebugLevel
		liveapi.SetGlobalLogger(liveapi.NewLogger(logCfg))
	}

	if err := liveapi.SetTheme(cfg.Theme); err != nil {
		liveapi.GetGlobalLogger().WithError(err).Warn("Falling back to default theme")
	}
	return cfg
}

// newClient validates config and connects, exiting with the issues when
// the setup is unusable.
func newClient(ctx context.Context, cfg *liveapi.Config) *liveapi.Client {
	if issues := cfg.Validate(); len(issues) > 0 {
		theme := liveapi.CurrentTheme()
		for _, issue := range issues {
			fmt.Println(theme.Error.Render("Error: " + issue))
		}
		os.Exit(1)
	}

	client, err := liveapi.NewClient(ctx, cfg)
	if err != nil {
		liveapi.GetGlobalLogger().WithError(err).Fatal("Failed to create client")
	}
	return client
}

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu",
		Long:  "Interactive menu with real-time audio, text chat, microphone test, and theme selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), loadConfig())
		},
	}
}

func textCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "text [prompt]",
		Short: "Text chat with the model",
		Long:  "Send a single prompt, or start an interactive text chat when no prompt is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := newClient(cmd.Context(), cfg)
			theme := liveapi.CurrentTheme()

			if len(args) > 0 {
				prompt := args[0]
				fmt.Print(theme.Model.Render("Model: "))
				_, err := liveapi.TextChatOnce(cmd.Context(), client, prompt, func(chunk string) {
					fmt.Print(theme.Model.Render(chunk))
				})
				fmt.Println()
				return err
			}
			return runTextChat(cmd.Context(), client)
		},
	}
}

func audioCmd() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "audio <wav-file>",
		Short: "Send an audio file and save the spoken response",
		Long:  "Send a mono 16-bit PCM WAV file to the audio model and save the response as a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}
			client := newClient(cmd.Context(), cfg)
			theme := liveapi.CurrentTheme()

			fmt.Println(theme.Status.Render("Processing audio..."))
			turn, err := liveapi.ExchangeAudioFile(cmd.Context(), client, args[0])
			if err != nil {
				if liveapi.IsErrorCode(err, liveapi.ErrCodeTimeout) {
					fmt.Println(theme.Error.Render(fmt.Sprintf(
						"Model did not provide any response within %.0f seconds.", cfg.ResponseTimeout)))
					return nil
				}
				return err
			}
			if len(turn.PCM) == 0 {
				fmt.Println(theme.Status.Render("No audio data was received in the response."))
				return nil
			}
			if err := liveapi.SaveAudioTurn(turn, cfg.OutputFile); err != nil {
				return err
			}
			fmt.Println(theme.Status.Render("Audio response saved to file: " + cfg.OutputFile))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output WAV file (default response_audio.wav)")
	return cmd
}

func liveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Real-time voice chat",
		Long:  "Stream microphone audio to the model and play its spoken responses through the speakers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			client := newClient(cmd.Context(), cfg)

			audio, err := liveapi.NewAudioIO(audioConfigFrom(cfg))
			if err != nil {
				return err
			}
			defer audio.Cleanup()

			return liveapi.NewLiveVoice(client, audio).Run(cmd.Context())
		},
	}
}

func micTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mic-test",
		Short: "Test the microphone",
		Long:  "Record a short clip from the microphone and play it back for verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if duration > 0 {
				cfg.MicTestDuration = duration
			}
			return runMicTest(cfg)
		},
	}
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Recording duration in seconds")
	return cmd
}

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Audio device management",
		Long:  "Commands for listing and testing audio devices",
	}
	cmd.AddCommand(devicesListCmd())
	cmd.AddCommand(devicesTestCmd())
	return cmd
}

func devicesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := liveapi.ListAudioDevices()
			if err != nil {
				return err
			}

			fmt.Println("Available Audio Devices:")
			for _, device := range devices {
				marker := ""
				if device.IsDefault {
					marker = " (Default)"
				}
				capabilities := ""
				switch {
				case device.IsInput && device.IsOutput:
					capabilities = "Input/Output"
				case device.IsInput:
					capabilities = "Input"
				case device.IsOutput:
					capabilities = "Output"
				}
				fmt.Printf("  %d: %s%s - %s (%.0f Hz)\n",
					device.ID, device.Name, marker, capabilities, device.DefaultSampleRate)
			}
			return nil
		},
	}
}

func devicesTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test [device-id]",
		Short: "Validate a specific audio device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID := 0
			if len(args) > 0 {
				fmt.Sscanf(args[0], "%d", &deviceID)
			}

			dm := liveapi.NewDeviceManager()
			if err := dm.Initialize(); err != nil {
				return err
			}
			defer dm.Cleanup()

			if err := dm.ValidateDevice(deviceID, true, 1, float64(liveapi.DefaultInputSampleRate)); err != nil {
				return err
			}
			info, err := dm.DeviceInfo(deviceID)
			if err != nil {
				return err
			}
			fmt.Printf("\n%s\n", info)
			fmt.Println("Device is usable for capture.")
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with the API key masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			cfg.Print()
			if issues := cfg.Validate(); len(issues) > 0 {
				fmt.Println("\nIssues:")
				for _, issue := range issues {
					fmt.Printf("  - %s\n", issue)
				}
			}
			return nil
		},
	}
}

func audioConfigFrom(cfg *liveapi.Config) *liveapi.AudioConfig {
	ac := liveapi.NewAudioConfig()
	ac.InputSampleRate = cfg.InputSampleRate
	ac.OutputSampleRate = cfg.OutputSampleRate
	return ac
}
