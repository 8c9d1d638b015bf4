package main

import (
	"io"
	"log"
	"os"

	"amfmradio/config"
	"amfmradio/display"
	"amfmradio/radio"

	"github.com/spf13/cobra"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
	"gobot.io/x/gobot/platforms/raspi"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:          "amfmradio",
		Short:        "run the AM/FM receiver",
		Long:         `Tune a KT0913 receiver attached to a Raspberry Pi and show what it receives`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	rootCmd.Flags().String("config", "", "YAML configuration file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logOutput returns where the logs go, a rotated file when one is configured.
func logOutput(cfg config.LogConfig) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

func run(cfg *config.Config) error {
	log.SetOutput(logOutput(cfg.Log))

	adaptor := raspi.NewAdaptor()

	rdio, err := radio.NewKT0913Driver(adaptor, cfg.KT0913Config(log.Printf),
		i2c.WithBus(cfg.I2C.Bus),
		i2c.WithAddress(cfg.I2C.Address),
	)
	if err != nil {
		return err
	}
	devices := []gobot.Device{rdio}

	var lcd *display.LCD1602Driver
	if cfg.Display.Enabled {
		lcd = display.NewLCD1602Driver(adaptor,
			i2c.WithBus(cfg.I2C.Bus),
			i2c.WithAddress(cfg.Display.Address),
		)
		devices = append(devices, lcd)
	}

	work := func() {
		if lcd != nil {
			if err := lcd.ShowMessage("Starting the AM/FM receiver"); err != nil {
				log.Println(err)
			}
		}

		if err := tuneStation(rdio.Tuner, cfg.Station); err != nil {
			log.Fatalln(err)
		}

		var last radio.TunerStatus
		gobot.Every(cfg.PollInterval(), func() {
			st, err := rdio.Status()
			if err != nil {
				log.Println(err)
				return
			}

			if lcd != nil {
				if err = lcd.ShowStatus(st); err != nil {
					log.Println(err)
				}
			}

			if changed(last, st) {
				logStatus(st)
			}
			last = st
		})
	}

	robot := gobot.NewRobot("AM/FM receiver",
		[]gobot.Connection{adaptor},
		devices,
		work,
	)

	return robot.Start()
}
