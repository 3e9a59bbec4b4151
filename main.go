package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/carebridge/panel/internal/audiopath"
	"github.com/carebridge/panel/internal/button"
	"github.com/carebridge/panel/internal/call"
	"github.com/carebridge/panel/internal/config"
	"github.com/carebridge/panel/internal/meeting"
	"github.com/carebridge/panel/internal/modem"
	"github.com/carebridge/panel/internal/narrate"
	"github.com/carebridge/panel/internal/ringtone"
	"github.com/carebridge/panel/pkg/logger"
	"github.com/jessevdk/go-flags"
	"periph.io/x/host/v3"
)

type options struct {
	Config  string `short:"c" long:"config" description:"Path to the configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Force debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	// 1. Load Config
	config.LoadConfig(opts.Config)
	cfg := config.AppConfig

	// 2. Init Logger
	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger.InitLogger(level, cfg.Log.File)
	logger.Log.Info("Starting control panel...")

	// 3. Init GPIO
	if _, err := host.Init(); err != nil {
		logger.Log.Fatalf("Failed to init GPIO host: %v", err)
	}

	buttons, err := button.OpenGPIO(button.Pins{
		SendSMS:     cfg.Buttons.SendSMS,
		MakeCall:    cfg.Buttons.MakeCall,
		JoinMeeting: cfg.Buttons.JoinMeeting,
		EndOrReject: cfg.Buttons.EndOrReject,
		Answer:      cfg.Buttons.Answer,
	})
	if err != nil {
		logger.Log.Fatalf("Failed to open buttons: %v", err)
	}

	audio, err := audiopath.OpenLine(cfg.Audio.SelectPin)
	if err != nil {
		logger.Log.Fatalf("Failed to open audio select line: %v", err)
	}

	// 4. Collaborators
	var narrator narrate.Narrator = narrate.Silent{}
	if cfg.Speech.Enabled {
		narrator = narrate.NewSpeech(cfg.Speech.Command, cfg.Speech.Args)
	}

	player := ringtone.NewPlayer(cfg.Ringtone.Command, cfg.Ringtone.Args)
	joiner := meeting.NewCommandJoiner(cfg.Meeting.Command, cfg.Meeting.Args)

	// 5. Modem link (opened lazily on first use)
	link := modem.New(modem.Options{
		UARTPaths:    cfg.Serial.UARTPaths,
		BaudRate:     cfg.Serial.BaudRate,
		InitCommands: cfg.Serial.InitATCommands,
	})
	defer link.Close()

	// 6. Call controller and its two driving loops
	ctrl := call.NewController(call.Config{
		Link:  link,
		Audio: audio,
		Ringer: call.RingerFunc(func() (func(), error) {
			h, err := player.Start()
			if err != nil {
				return nil, err
			}
			return h.Stop, nil
		}),
		Narrator: narrator,
		Buttons:  buttons,
		Number:   cfg.Call.Number,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Log.Info("Shutting down...")
		narrator.Say("Shutting down system")
		cancel()
	}()

	monitor := call.NewRingMonitor(ctrl, link)
	go monitor.Run(ctx)

	dispatcher := call.NewDispatcher(call.DispatcherConfig{
		Controller: ctrl,
		Buttons:    buttons,
		Narrator:   narrator,
		Sender:     link,
		Joiner:     joiner,
		SMS: call.SMSAction{
			Number:  cfg.SMS.Number,
			Message: cfg.SMS.Message,
			Mode:    cfg.SMS.Mode,
		},
	})

	logger.Log.Infof("Button map: SMS=%s Call=%s Meeting=%s End=%s Answer=%s",
		cfg.Buttons.SendSMS, cfg.Buttons.MakeCall, cfg.Buttons.JoinMeeting,
		cfg.Buttons.EndOrReject, cfg.Buttons.Answer)
	narrator.Say("System ready")

	dispatcher.Run(ctx)

	// Leave the hardware in the idle state.
	_ = audio.SetActive(false)
	narrator.Say("System stopped")
}
