package main

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"amfmradio/radio"

	"github.com/spf13/cobra"
)

type options struct {
	bus        string
	address    uint16
	campusBand bool
	debug      bool

	open openFunc
}

func (o *options) config() radio.KT0913Config {
	cfg := radio.KT0913Config{
		CampusBand: o.campusBand,
		Log:        log.Printf,
	}
	if o.debug {
		cfg.DebugMode = true
		cfg.DebugLog = log.Printf
	}
	return cfg
}

// withTuner attaches to the chip, runs f and releases the bus.
func (o *options) withTuner(f func(t *radio.Tuner) error) (err error) {
	regs, closeBus, err := o.open(o.bus, o.address)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeBus(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	t, err := radio.Attach(regs, o.config())
	if err != nil {
		return err
	}
	return f(t)
}

func newRootCmd(open openFunc) *cobra.Command {
	o := &options{open: open}

	rootCmd := &cobra.Command{
		Use:          "kt0913ctl",
		Short:        "control a KT0913 AM/FM receiver",
		Long:         `Inspect and control a KTMicro KT0913 AM/FM receiver attached over I2C`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.bus, "bus", "", "i2c bus name or number, first available when empty")
	flags.Uint16Var(&o.address, "address", radio.Address, "i2c address of the receiver")
	flags.BoolVar(&o.campusBand, "campus-band", false, "allow FM frequencies down to 32MHz")
	flags.BoolVar(&o.debug, "debug", false, "log band switches and standby changes")

	rootCmd.AddCommand(
		newInitCmd(o),
		newShowCmd(o),
		newTuneCmd(o),
		newVolumeCmd(o),
		newMuteCmd(o),
		newGainCmd(o),
		newDeemphasisCmd(o),
		newStereoCmd(o),
		newStandbyCmd(o),
	)

	return rootCmd
}

func newInitCmd(o *options) *cobra.Command {
	var (
		antiPop   uint8
		refClock  uint8
		frequency uint32
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "reset the receiver to its power up defaults",
		Long:  `Write the power up defaults, apply the hardware settings and leave the audio muted`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			regs, closeBus, err := o.open(o.bus, o.address)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeBus(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			cfg := o.config()
			cfg.AntiPop = radio.AntiPop(antiPop)
			cfg.RefClock = radio.RefClock(refClock)

			t, err := radio.NewTuner(regs, cfg)
			if err != nil {
				return err
			}

			if frequency != 0 {
				if err = t.SetFrequency(frequency); err != nil {
					return err
				}
			}

			khz, err := t.Frequency()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "initialized, %s %d kHz, muted\n", t.Band(), khz)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint8Var(&antiPop, "anti-pop", 0, "anti-pop capacitor, 0 (100uF) to 3 (10uF)")
	flags.Uint8Var(&refClock, "refclk", 0, "reference clock, 0 (32.768kHz) to 9 (38kHz)")
	flags.Uint32Var(&frequency, "frequency", 0, "frequency to tune in kHz after init")

	return cmd
}

func newShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "print the receiver status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withTuner(func(t *radio.Tuner) error {
				st, err := t.Status()
				if err != nil {
					return err
				}
				snr, err := t.FMSNR()
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), st, snr)
				return nil
			})
		},
	}
}

func printStatus(w io.Writer, st radio.TunerStatus, snr uint8) {
	fmt.Fprintf(w, "band:      %s (%d-%d kHz)\n", st.Band.Band, st.Band.LowKHz, st.Band.HighKHz)
	fmt.Fprintf(w, "frequency: %d kHz\n", st.FrequencyKHz)
	if st.Band.Stereo {
		fmt.Fprintf(w, "stereo:    enabled=%t detected=%t\n", st.StereoEnabled, st.StereoDetected)
		fmt.Fprintf(w, "snr:       %d\n", snr)
	}
	fmt.Fprintf(w, "signal:    %d/65535\n", st.Signal)
	fmt.Fprintf(w, "pll:       locked=%t\n", st.PLLLocked)
	fmt.Fprintf(w, "afc:       %t\n", st.AFC)
}

func newTuneCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "tune <kHz>",
		Short:   "tune to a frequency, switching between AM and FM as needed",
		Example: "  kt0913ctl tune 98100\n  kt0913ctl tune 1008",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			khz, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid frequency %q: %w", args[0], err)
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetFrequency(uint32(khz))
			})
		},
	}
}

func newVolumeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "volume <level>",
		Short:   "set the volume, -60 to 0 in steps of 2",
		Example: "  kt0913ctl volume -- -20",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid volume %q: %w", args[0], err)
			}
			if level < -60 || level > 0 {
				return fmt.Errorf("volume %d: %w", level, radio.ErrInvalidParameter)
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetVolume(level)
			})
		},
	}
}

func newMuteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mute on|off",
		Short: "mute or unmute the audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetMute(on)
			})
		},
	}
}

func newGainCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "gain <dB>",
		Short:   "set the audio gain, one of -3, 0, 3 or 6 dB",
		Example: "  kt0913ctl gain 3\n  kt0913ctl gain -- -3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid gain %q: %w", args[0], err)
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetAudioGain(db)
			})
		},
	}
}

func newDeemphasisCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deemphasis 50|75",
		Short: "set the FM de-emphasis time constant in microseconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			us, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid de-emphasis %q: %w", args[0], err)
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetDeemphasis(radio.Deemphasis(us))
			})
		},
	}
}

func newStereoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stereo on|off",
		Short: "select stereo or mono FM decoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return o.withTuner(func(t *radio.Tuner) error {
				return t.SetStereoEnabled(on)
			})
		},
	}
}

func newStandbyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "standby on|off",
		Short: "enter or leave the low power state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return o.withTuner(func(t *radio.Tuner) error {
				if on {
					return t.EnterStandby()
				}
				return t.LeaveStandby()
			})
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}

	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return on, nil
}
