package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/murph-app/murph/internal/apiclient"
	"github.com/murph-app/murph/internal/playback"
	"github.com/murph-app/murph/internal/playback/speaker"
	"github.com/murph-app/murph/internal/voicecmd"
	"github.com/murph-app/murph/pkg/textextract"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	var (
		docPath   = flag.String("doc", "", "path to a .txt or .md document")
		voiceID   = flag.String("voice", "", "voice id (empty uses the server default)")
		speed     = flag.Float64("speed", 1.0, "playback speed multiplier (0.5-2.0)")
		apiURL    = flag.String("api", envOr("MURPH_API_URL", "http://localhost:8080"), "murph API base URL")
		listenDir = flag.String("listen-dir", "", "directory watched for recorded voice-command segments (requires OPENAI_API_KEY)")
	)
	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "usage: murph -doc story.txt [-voice id] [-speed 1.25] [-listen-dir rec/]")
		os.Exit(2)
	}

	client := apiclient.New(*apiURL)
	ctrl := playback.NewController(client, speaker.New())

	// The catalog is advisory; a listing failure only loses the picker.
	if voices, err := client.Voices(context.Background()); err == nil {
		fmt.Println("Voices:")
		for _, v := range voices {
			fmt.Printf("  %-24s %-10s %s\n", v.ID, v.Category, v.Name)
		}
	} else {
		slog.Warn("voice listing failed", "error", err)
	}

	ctrl.StartUpload()
	doc, err := textextract.ExtractFile(*docPath)
	if err != nil {
		ctrl.FailUpload(err.Error())
		fmt.Fprintln(os.Stderr, "cannot load document:", err)
		os.Exit(1)
	}
	ctrl.FinishUpload(playback.Document{
		Name:     filepath.Base(*docPath),
		Content:  doc.Content,
		MimeType: doc.MimeType,
	})
	ctrl.SetVoice(*voiceID)
	ctrl.SetSpeed(*speed)

	var listener *voicecmd.Listener
	if *listenDir != "" {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			fmt.Fprintln(os.Stderr, "Voice commands unavailable: OPENAI_API_KEY is not set")
		} else {
			engine := voicecmd.NewWhisperEngine(key, voicecmd.NewDirSource(*listenDir))
			listener = voicecmd.NewListener(engine, dispatch(ctrl))
			listener.SetNotice(func(msg string) { fmt.Println(msg) })
			if err := listener.Enable(); err != nil {
				fmt.Fprintln(os.Stderr, "Voice commands unavailable:", err)
				listener = nil
			} else {
				fmt.Println("Voice commands on: say play, pause, faster or slower")
			}
		}
	}

	fmt.Println("Commands: play, pause, stop, faster, slower, speed <n>, voice <id>, status, clear, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "play":
			go playAsync(ctrl)
		case "pause":
			_ = ctrl.Pause()
		case "stop":
			_ = ctrl.Stop()
		case "faster":
			fmt.Printf("speed %.2fx\n", ctrl.SpeedUp())
		case "slower":
			fmt.Printf("speed %.2fx\n", ctrl.SlowDown())
		case "speed":
			if len(fields) < 2 {
				fmt.Println("usage: speed <0.5-2.0>")
				continue
			}
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Println("usage: speed <0.5-2.0>")
				continue
			}
			fmt.Printf("speed %.2fx\n", ctrl.SetSpeed(v))
		case "voice":
			if len(fields) < 2 {
				fmt.Println("usage: voice <id>")
				continue
			}
			ctrl.SetVoice(fields[1])
		case "status":
			s := ctrl.Snapshot()
			fmt.Printf("%s  %s  %.0f%%  %.2fx  %s\n", s.State, s.DocumentName, s.Progress*100, s.Speed, s.Status)
		case "clear":
			ctrl.Clear()
		case "quit", "exit":
			if listener != nil {
				listener.Disable()
			}
			_ = ctrl.Stop()
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}

	if listener != nil {
		listener.Disable()
	}
	_ = ctrl.Stop()
}

func playAsync(ctrl *playback.Controller) {
	if err := ctrl.Play(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "play:", err)
	}
}

// dispatch routes voice commands to the same controller entry points
// the typed commands use.
func dispatch(ctrl *playback.Controller) func(voicecmd.Command) {
	return func(cmd voicecmd.Command) {
		switch cmd {
		case voicecmd.CommandPlay:
			go playAsync(ctrl)
		case voicecmd.CommandPause:
			_ = ctrl.Pause()
		case voicecmd.CommandFaster:
			ctrl.SpeedUp()
		case voicecmd.CommandSlower:
			ctrl.SlowDown()
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
