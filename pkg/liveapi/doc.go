// Package liveapi provides a Go client and helpers for the Gemini Live API:
// real-time multimodal chat with text and voice.
//
// # Overview
//
// The package covers:
//   - Live sessions over the official Gemini SDK (text and native audio)
//   - Microphone capture and speaker playback via PortAudio
//   - WAV file exchange for offline audio turns
//   - Audio device management and validation
//   - Terminal themes for the interactive CLI
//   - Structured logging with zerolog
//
// # Quick Start
//
// Text chat in one call:
//
//	cfg := liveapi.NewConfig() // reads GEMINI_KEY from env / .env
//	client, err := liveapi.NewClient(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	reply, err := liveapi.TextChatOnce(ctx, client, "Hello!", func(chunk string) {
//		fmt.Print(chunk)
//	})
//
// Real-time voice:
//
//	audio, err := liveapi.NewAudioIO(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer audio.Cleanup()
//
//	voice := liveapi.NewLiveVoice(client, audio)
//	if err := voice.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Audio format
//
// Input audio is always mono 16-bit PCM at 16 kHz; model responses are
// mono 16-bit PCM at 24 kHz. WAV files at other rates are resampled on
// the way in.
package liveapi
