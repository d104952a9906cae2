package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked for in the working and home directories.
const FileName = "packetchat.toml"

// StationConfig holds settings specific to the user's station
type StationConfig struct {
	Callsign    string   `toml:"callsign"` // With optional SSID, e.g. IK2ABC-7
	Tocall      string   `toml:"tocall"`   // Software identifier used as AX.25 destination
	Path        []string `toml:"path"`
	Latitude    float64  `toml:"latitude"`
	Longitude   float64  `toml:"longitude"`
	GridSquare  string   `toml:"gridsquare"`
	SymbolTable string   `toml:"symbol_table"`
	SymbolCode  string   `toml:"symbol_code"`
	Comment     string   `toml:"comment"` // Default position comment
}

// InterfaceConfig selects and configures the packet transport
type InterfaceConfig struct {
	Type           string `toml:"type"`   // KISS or APRSIS
	Device         string `toml:"device"` // host:port, serial device or ws:// URL
	Baud           int    `toml:"baud"`
	Server         string `toml:"server"`
	Passcode       int    `toml:"passcode"`
	FilterRadiusKm int    `toml:"filter_radius_km"`
}

// UIConfig holds terminal interface settings
type UIConfig struct {
	Ack             bool   `toml:"ack"`
	TimestampFormat string `toml:"timestamp_format"` // strftime pattern
	Say             bool   `toml:"say"`
}

// MapConfig holds map-specific settings
type MapConfig struct {
	Shapefile   string  `toml:"shapefile"`
	DefaultZoom float64 `toml:"defaultzoom"`
}

// Config holds all application configuration
type Config struct {
	Station   StationConfig   `toml:"station"`
	Interface InterfaceConfig `toml:"interface"`
	UI        UIConfig        `toml:"ui"`
	Map       MapConfig       `toml:"map"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Station: StationConfig{
			Tocall:      "APZ001",
			SymbolTable: "/",
			SymbolCode:  ">",
		},
		Interface: InterfaceConfig{
			Type:           "KISS",
			Device:         "localhost:8001",
			Baud:           9600,
			Server:         "rotate.aprs.net:14580",
			FilterRadiusKm: 200,
		},
		UI: UIConfig{
			Ack:             true,
			TimestampFormat: "%H:%M:%S",
		},
		Map: MapConfig{
			DefaultZoom: 1.0,
		},
	}
}

// Candidates lists the paths searched when no explicit path is given.
func Candidates() []string {
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+FileName))
	}
	return paths
}

// Find returns the first candidate that exists, or the first candidate
// if none do so that a later Save has somewhere to go.
func Find() string {
	paths := Candidates()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return paths[0]
}

// LoadConfig reads the configuration from the specified path. Values
// missing from the file keep their defaults. A missing file is not an
// error.
func LoadConfig(path string) (Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return conf, err
	}

	if err := toml.Unmarshal(data, &conf); err != nil {
		return conf, fmt.Errorf("parse %s: %w", path, err)
	}

	conf.Station.normalize()
	return conf, nil
}

// SaveConfig writes the configuration to path.
func SaveConfig(path string, conf Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func (s *StationConfig) normalize() {
	s.Callsign = strings.ToUpper(strings.TrimSpace(s.Callsign))
	s.Tocall = strings.ToUpper(strings.TrimSpace(s.Tocall))
	for i, p := range s.Path {
		s.Path[i] = strings.ToUpper(strings.TrimSpace(p))
	}
}

// Validate checks the fields needed to transmit.
func (s StationConfig) Validate() error {
	call, _, _ := strings.Cut(s.Callsign, "-")
	if call == "" || len(call) > 6 {
		return fmt.Errorf("invalid station callsign %q", s.Callsign)
	}
	if s.Tocall == "" || len(s.Tocall) > 6 {
		return fmt.Errorf("invalid tocall %q", s.Tocall)
	}
	if len(s.Path) > 8 {
		return fmt.Errorf("path has %d digipeaters, at most 8 allowed", len(s.Path))
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", s.Longitude)
	}
	if s.SymbolTable != "/" && s.SymbolTable != `\` {
		return fmt.Errorf("symbol table must be / or \\, got %q", s.SymbolTable)
	}
	if len(s.SymbolCode) != 1 {
		return fmt.Errorf("symbol code must be one character, got %q", s.SymbolCode)
	}
	return nil
}

// ParsePath splits a comma or whitespace separated digipeater list.
func ParsePath(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	path := make([]string, 0, len(fields))
	for _, f := range fields {
		path = append(path, strings.ToUpper(f))
	}
	return path
}
