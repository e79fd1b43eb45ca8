package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BoardConfig holds every tunable of the device. Keys missing from the YAML
// file keep their defaults because it is decoded over DefaultBoardConfig.
type BoardConfig struct {
	OnsetMin         int     `yaml:"onset_min"`
	OnsetMax         int     `yaml:"onset_max"`
	OnsetUnitMs      uint64  `yaml:"onset_unit_ms"`
	WindowMs         uint64  `yaml:"window_ms"`
	HighThreshold    uint16  `yaml:"high_threshold"`
	LowThreshold     uint16  `yaml:"low_threshold"`
	StimulusColor    RGB     `yaml:"stimulus_color"`
	StripLength      int     `yaml:"strip_length"`
	StripSettleUs    uint64  `yaml:"strip_settle_us"`
	BuzzerHalfPeriod uint64  `yaml:"buzzer_half_period_us"`
	MenuPollUs       uint64  `yaml:"menu_poll_us"`
	PressHoldMs      uint64  `yaml:"press_hold_ms"`
	Sound            bool    `yaml:"sound"`
	Seed             *uint64 `yaml:"seed,omitempty"`
}

const (
	MENU_POLL_MICROS = 1000
	PRESS_HOLD_MS    = 150
)

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		OnsetMin:         ONSET_MIN_UNITS,
		OnsetMax:         ONSET_MAX_UNITS,
		OnsetUnitMs:      ONSET_UNIT_MICROS / MICROS_PER_MILLI,
		WindowMs:         RESPONSE_WINDOW_MSEC,
		HighThreshold:    STICK_HIGH_THRESHOLD,
		LowThreshold:     STICK_LOW_THRESHOLD,
		StimulusColor:    RGB{R: 0, G: 255, B: 0},
		StripLength:      STRIP_LENGTH,
		StripSettleUs:    STRIP_SETTLE_MICROS,
		BuzzerHalfPeriod: BUZZER_HALF_PERIOD_MICROS,
		MenuPollUs:       MENU_POLL_MICROS,
		PressHoldMs:      PRESS_HOLD_MS,
		Sound:            true,
	}
}

// LoadBoardConfig overlays the YAML file at path on the defaults. An empty
// path or a missing file yields the defaults.
func LoadBoardConfig(path string) (BoardConfig, error) {
	cfg := DefaultBoardConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the device could not run with.
func (c BoardConfig) Validate() error {
	switch {
	case c.OnsetMin < 0:
		return fmt.Errorf("onset_min must not be negative, got %d", c.OnsetMin)
	case c.OnsetMax < c.OnsetMin:
		return fmt.Errorf("onset_max (%d) is below onset_min (%d)", c.OnsetMax, c.OnsetMin)
	case c.OnsetUnitMs == 0:
		return fmt.Errorf("onset_unit_ms must be positive")
	case c.WindowMs == 0:
		return fmt.Errorf("window_ms must be positive")
	case c.HighThreshold > ADC_MAX:
		return fmt.Errorf("high_threshold %d exceeds %d", c.HighThreshold, ADC_MAX)
	case c.LowThreshold >= c.HighThreshold:
		return fmt.Errorf("low_threshold (%d) must be below high_threshold (%d)", c.LowThreshold, c.HighThreshold)
	case c.StripLength <= 0:
		return fmt.Errorf("strip_length must be positive, got %d", c.StripLength)
	case c.BuzzerHalfPeriod == 0:
		return fmt.Errorf("buzzer_half_period_us must be positive")
	}
	return nil
}

// Scheduler derives the trial timing parameters.
func (c BoardConfig) Scheduler() SchedulerConfig {
	sc := DefaultSchedulerConfig()
	sc.OnsetMin = c.OnsetMin
	sc.OnsetMax = c.OnsetMax
	sc.OnsetUnitMicros = c.OnsetUnitMs * MICROS_PER_MILLI
	sc.WindowMicros = c.WindowMs * MICROS_PER_MILLI
	sc.Seed = c.Seed
	return sc
}
