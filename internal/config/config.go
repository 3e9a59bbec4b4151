package config

import (
	"log"
	"strings"

	"github.com/carebridge/panel/internal/at"
	"github.com/spf13/viper"
)

type Config struct {
	Serial   SerialConfig   `mapstructure:"serial"`
	Call     CallConfig     `mapstructure:"call"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Buttons  ButtonsConfig  `mapstructure:"buttons"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Ringtone RingtoneConfig `mapstructure:"ringtone"`
	Speech   SpeechConfig   `mapstructure:"speech"`
	Meeting  MeetingConfig  `mapstructure:"meeting"`
	Log      LogConfig      `mapstructure:"log"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type SerialConfig struct {
	// Fixed device paths probed before USB enumeration.
	UARTPaths      []string `mapstructure:"uart_paths"`
	BaudRate       int      `mapstructure:"baud_rate"`
	InitATCommands []string `mapstructure:"init_at_commands"`
}

type CallConfig struct {
	// Number dialed when the MakeCall button is pressed.
	Number string `mapstructure:"number"`
}

type SMSConfig struct {
	Number  string `mapstructure:"number"`
	Message string `mapstructure:"message"`
	// "text" or "pdu".
	Mode string `mapstructure:"mode"`
}

type ButtonsConfig struct {
	// Pin names as understood by gpioreg, e.g. "GPIO5".
	SendSMS     string `mapstructure:"send_sms"`
	MakeCall    string `mapstructure:"make_call"`
	JoinMeeting string `mapstructure:"join_meeting"`
	EndOrReject string `mapstructure:"end_or_reject"`
	Answer      string `mapstructure:"answer"`
}

type AudioConfig struct {
	// Digital output switching the audio routing hardware.
	SelectPin string `mapstructure:"select_pin"`
}

type RingtoneConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type SpeechConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type MeetingConfig struct {
	// External command that joins the meeting (e.g. a browser kiosk script).
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

var AppConfig Config

func LoadConfig(path string) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults. Error: %v", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	applyDefaults(&AppConfig)

	log.Println("Configuration loaded successfully")
}

func applyDefaults(c *Config) {
	if len(c.Serial.UARTPaths) == 0 {
		c.Serial.UARTPaths = []string{"/dev/serial0", "/dev/ttyAMA0", "/dev/ttyS0"}
	}
	if c.Serial.BaudRate <= 0 {
		c.Serial.BaudRate = 9600
	}
	if len(c.Serial.InitATCommands) == 0 {
		c.Serial.InitATCommands = []string{
			at.CmdEchoOff, at.CmdVerboseErrors,
			at.CmdSignalQuality, at.CmdRegistration, at.CmdCallerID,
			// Audio levels for the SIM800 hands-free path.
			"AT+CLVL=100", "AT+CMIC=0,15", "AT+CHFA=0",
		}
	}
	if c.SMS.Mode == "" {
		c.SMS.Mode = "text"
	}
	if c.Buttons.SendSMS == "" {
		c.Buttons.SendSMS = "GPIO5"
	}
	if c.Buttons.MakeCall == "" {
		c.Buttons.MakeCall = "GPIO6"
	}
	if c.Buttons.JoinMeeting == "" {
		c.Buttons.JoinMeeting = "GPIO13"
	}
	if c.Buttons.EndOrReject == "" {
		c.Buttons.EndOrReject = "GPIO21"
	}
	if c.Buttons.Answer == "" {
		c.Buttons.Answer = "GPIO26"
	}
	if c.Audio.SelectPin == "" {
		c.Audio.SelectPin = "GPIO12"
	}
	if c.Ringtone.Command == "" {
		c.Ringtone.Command = "mpg123"
		c.Ringtone.Args = []string{"-q", "--loop", "-1", "/home/pi/ringtone.mp3"}
	}
	if c.Speech.Command == "" {
		c.Speech.Command = "espeak"
		c.Speech.Args = []string{"-ven+f3", "-s150"}
	}
}
