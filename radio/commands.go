package radio

import "fmt"

// addCommands exposes the tuner controls as gobot commands. Numeric
// params may come as any Go number, JSON numbers arrive as float64.
func (d *KT0913Driver) addCommands() {
	d.AddCommand("SetFrequency", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			khz, err := intParam(params, "frequency")
			if err != nil {
				return err
			}
			if khz < 0 {
				return fmt.Errorf("frequency %d: %w", khz, ErrInvalidParameter)
			}
			return t.SetFrequency(uint32(khz))
		})
	})

	d.AddCommand("Frequency", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			khz, err := t.Frequency()
			if err != nil {
				return err
			}
			return khz
		})
	})

	// hosts speaking 1/16 kHz, like V4L2 tuners
	d.AddCommand("SetFrequencyUnits", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			units, err := intParam(params, "units")
			if err != nil {
				return err
			}
			if units < 0 {
				return fmt.Errorf("frequency units %d: %w", units, ErrInvalidParameter)
			}
			return t.SetFrequency(TunerUnitsToKHz(uint32(units)))
		})
	})

	d.AddCommand("FrequencyUnits", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			khz, err := t.Frequency()
			if err != nil {
				return err
			}
			return KHzToTunerUnits(khz)
		})
	})

	d.AddCommand("SetVolume", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			level, err := intParam(params, "level")
			if err != nil {
				return err
			}
			if level < -60 || level > 0 {
				return fmt.Errorf("volume %d: %w", level, ErrInvalidParameter)
			}
			return t.SetVolume(level)
		})
	})

	d.AddCommand("SetMute", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			mute, err := boolParam(params, "mute")
			if err != nil {
				return err
			}
			return t.SetMute(mute)
		})
	})

	d.AddCommand("SetAudioGain", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			gain, err := intParam(params, "gain")
			if err != nil {
				return err
			}
			return t.SetAudioGain(gain)
		})
	})

	d.AddCommand("SetDeemphasis", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			us, err := intParam(params, "deemphasis")
			if err != nil {
				return err
			}
			return t.SetDeemphasis(Deemphasis(us))
		})
	})

	d.AddCommand("SetStereo", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			stereo, err := boolParam(params, "stereo")
			if err != nil {
				return err
			}
			return t.SetStereoEnabled(stereo)
		})
	})

	d.AddCommand("Status", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			st, err := t.Status()
			if err != nil {
				return err
			}
			return st
		})
	})

	d.AddCommand("Bands", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			return t.Bands()
		})
	})

	d.AddCommand("Standby", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			return t.EnterStandby()
		})
	})

	d.AddCommand("Resume", func(params map[string]interface{}) interface{} {
		return d.withTuner(func(t *Tuner) interface{} {
			return t.LeaveStandby()
		})
	})
}

func (d *KT0913Driver) withTuner(f func(t *Tuner) interface{}) interface{} {
	if d.Tuner == nil {
		return ErrNotStarted
	}
	return f(d.Tuner)
}

func intParam(params map[string]interface{}, key string) (int, error) {
	switch v := params[key].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		return int(v), nil
	case nil:
		return 0, fmt.Errorf("missing param %q: %w", key, ErrInvalidParameter)
	default:
		return 0, fmt.Errorf("param %q has type %T: %w", key, v, ErrInvalidParameter)
	}
}

func boolParam(params map[string]interface{}, key string) (bool, error) {
	switch v := params[key].(type) {
	case bool:
		return v, nil
	case nil:
		return false, fmt.Errorf("missing param %q: %w", key, ErrInvalidParameter)
	default:
		return false, fmt.Errorf("param %q has type %T: %w", key, v, ErrInvalidParameter)
	}
}
