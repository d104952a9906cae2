package cmd

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"packetchat/config"
	"packetchat/station"
	mapview "packetchat/ui/map"
	"packetchat/ui/prompt"
)

// stationField is one step of the station editor.
type stationField struct {
	label string
	limit int
	get   func(config.StationConfig) string
	set   func(*config.StationConfig, string) error
}

var stationFields = []stationField{
	{
		label: "Callsign:",
		limit: 9,
		get:   func(s config.StationConfig) string { return s.Callsign },
		set: func(s *config.StationConfig, v string) error {
			s.Callsign = strings.ToUpper(v)
			return nil
		},
	},
	{
		label: "Tocall:",
		limit: 6,
		get:   func(s config.StationConfig) string { return s.Tocall },
		set: func(s *config.StationConfig, v string) error {
			s.Tocall = strings.ToUpper(v)
			return nil
		},
	},
	{
		label: "Path:",
		get:   func(s config.StationConfig) string { return strings.Join(s.Path, ",") },
		set: func(s *config.StationConfig, v string) error {
			s.Path = config.ParsePath(v)
			return nil
		},
	},
	{
		label: "Lat Lon:",
		get: func(s config.StationConfig) string {
			return fmt.Sprintf("%.4f %.4f", s.Latitude, s.Longitude)
		},
		set: func(s *config.StationConfig, v string) error {
			lat, lon, err := parseLatLon(v)
			if err != nil {
				return err
			}
			s.Latitude, s.Longitude = lat, lon
			return nil
		},
	},
	{
		label: "Comment:",
		get:   func(s config.StationConfig) string { return s.Comment },
		set: func(s *config.StationConfig, v string) error {
			s.Comment = v
			return nil
		},
	},
}

// parseLatLon reads "LAT LON" or "LAT,LON" in decimal degrees.
func parseLatLon(v string) (float64, float64, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want latitude and longitude, got %q", v)
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude %q: %w", fields[0], err)
	}
	lon, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude %q: %w", fields[1], err)
	}
	return lat, lon, nil
}

// stationEdit is the draft being built while the editor is open.
type stationEdit struct {
	step  int
	draft config.StationConfig
}

func (m model) openStationField() (model, tea.Cmd) {
	field := stationFields[m.edit.step]
	cmd := m.promptModel.Open(prompt.ModeStation, field.label, "", field.limit)
	m.promptModel.Prefill(field.get(m.edit.draft))
	return m, cmd
}

func (m model) startStationEdit() (model, tea.Cmd) {
	draft := m.config.Station
	draft.Path = append([]string(nil), draft.Path...)
	m.edit = &stationEdit{draft: draft}
	return m.openStationField()
}

// submitStationField stores one answer and moves to the next field. An
// empty answer clears the field.
func (m model) submitStationField(value string) (model, tea.Cmd) {
	if m.edit == nil {
		return m, nil
	}
	field := stationFields[m.edit.step]
	if err := field.set(&m.edit.draft, value); err != nil {
		m.footerModel.SetStatus(err.Error())
		return m.openStationField()
	}

	m.edit.step++
	if m.edit.step < len(stationFields) {
		return m.openStationField()
	}
	draft := m.edit.draft
	m.edit = nil
	return m.applyStation(draft), nil
}

// applyStation switches the running station to the edited settings and
// saves them.
func (m model) applyStation(sc config.StationConfig) model {
	st, err := station.New(sc)
	if err != nil {
		m.footerModel.SetStatus("station not changed: " + err.Error())
		return m
	}

	m.station = st
	m.config.Station = sc
	m.headerModel.SetCallsign(st.Callsign())
	m.logModel.SetCallsign(st.Callsign())
	m.sidebarModel.SetHome(mapview.HomeLocation(sc))

	if m.configPath == "" {
		m.footerModel.SetStatus("station updated, not saved")
		return m
	}
	if err := config.SaveConfig(m.configPath, m.config); err != nil {
		log.Error("Save config failed", "path", m.configPath, "err", err)
		m.footerModel.SetStatus("station updated, save failed: " + err.Error())
		return m
	}
	log.Info("Saved station settings", "path", m.configPath, "callsign", st.Callsign())
	m.footerModel.SetStatus("station saved to " + m.configPath)
	return m
}
