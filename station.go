package main

import (
	"log"

	"amfmradio/config"
	"amfmradio/radio"
)

// tuneStation applies the station settings and unmutes the audio last, so
// nothing is heard before the receiver is fully set up.
func tuneStation(t *radio.Tuner, st config.StationConfig) error {
	if err := t.SetFrequency(st.FrequencyKHz); err != nil {
		return err
	}

	if err := t.SetStereoEnabled(st.Stereo && t.Band().IsFM()); err != nil {
		return err
	}

	if err := t.SetDeemphasis(radio.Deemphasis(st.DeemphasisUs)); err != nil {
		return err
	}

	if err := t.SetAudioGain(st.GainDB); err != nil {
		return err
	}

	if err := t.SetVolume(st.Volume); err != nil {
		return err
	}

	return t.SetMute(false)
}

// changed reports whether the status differs in anything but the signal
// strength, which moves all the time.
func changed(prev, cur radio.TunerStatus) bool {
	prev.Signal, cur.Signal = 0, 0
	return prev != cur
}

func logStatus(st radio.TunerStatus) {
	log.Printf("%s %d kHz, stereo enabled=%t detected=%t, signal %d/65535, pll locked=%t\n",
		st.Band.Band, st.FrequencyKHz, st.StereoEnabled, st.StereoDetected, st.Signal, st.PLLLocked)
}
