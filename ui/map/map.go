package mapview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jonas-p/go-shp"

	"packetchat/config"
	"packetchat/location"
	"packetchat/packet"
)

// Constants for Panning and Zooming
const (
	panFactor  = 0.1
	zoomFactor = 1.2
)

var worldBounds = shp.Box{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}

type plotted struct {
	callsign string
	lat, lon float64
}

// Model holds the map's state
type Model struct {
	width  int
	height int

	mapPolygons    []*shp.Polygon
	originalBounds shp.Box
	viewBounds     shp.Box

	home *location.Point

	stations []plotted
}

// loadMapData reads the polygons of a shapefile and their bounding box
func loadMapData(path string) ([]*shp.Polygon, shp.Box, error) {
	shapeFile, err := shp.Open(path)
	if err != nil {
		return nil, shp.Box{}, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shapeFile.Close()

	var polygons []*shp.Polygon
	bounds := shp.Box{MinX: 1e9, MinY: 1e9, MaxX: -1e9, MaxY: -1e9}

	for shapeFile.Next() {
		_, shape := shapeFile.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		polygons = append(polygons, polygon)
		bounds.Extend(polygon.BBox())
	}

	if len(polygons) == 0 {
		return nil, shp.Box{}, fmt.Errorf("no polygons found in shapefile %s", path)
	}
	return polygons, bounds, nil
}

// HomeLocation returns the station position from its coordinates, or the
// center of its gridsquare, or nil if neither is configured.
func HomeLocation(station config.StationConfig) *location.Point {
	if station.Latitude != 0 || station.Longitude != 0 {
		return &location.Point{Lat: station.Latitude, Lon: station.Longitude}
	}
	if station.GridSquare == "" {
		return nil
	}
	lat, lon, err := location.GridSquareToLatLon(station.GridSquare)
	if err != nil {
		log.Warn("Could not parse station gridsquare", "gridsquare", station.GridSquare, "err", err)
		return nil
	}
	return &location.Point{Lat: lat, Lon: lon}
}

// New creates a map model. Without a shapefile the map is a blank world
// with only stations plotted.
func New(conf config.Config) (Model, error) {
	m := Model{
		width:          80,
		height:         23,
		originalBounds: worldBounds,
		home:           HomeLocation(conf.Station),
	}

	if conf.Map.Shapefile != "" {
		polygons, bounds, err := loadMapData(conf.Map.Shapefile)
		if err != nil {
			return Model{}, err
		}
		m.mapPolygons = polygons
		m.originalBounds = bounds
	}
	m.viewBounds = m.originalBounds

	if m.home != nil && conf.Map.DefaultZoom > 1.0 {
		m.setCenterAndZoom(m.home.Lon, m.home.Lat, conf.Map.DefaultZoom)
	}
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) setCenterAndZoom(lon, lat, zoomLevel float64) {
	newWidth := (m.originalBounds.MaxX - m.originalBounds.MinX) / zoomLevel
	newHeight := (m.originalBounds.MaxY - m.originalBounds.MinY) / zoomLevel
	m.viewBounds.MinX = lon - (newWidth / 2)
	m.viewBounds.MaxX = lon + (newWidth / 2)
	m.viewBounds.MinY = lat - (newHeight / 2)
	m.viewBounds.MaxY = lat + (newHeight / 2)
}

func (m *Model) zoomByFactor(factor float64) {
	centerX := (m.viewBounds.MinX + m.viewBounds.MaxX) / 2
	centerY := (m.viewBounds.MinY + m.viewBounds.MaxY) / 2
	newWidth := (m.viewBounds.MaxX - m.viewBounds.MinX) * factor
	newHeight := (m.viewBounds.MaxY - m.viewBounds.MinY) * factor
	if newWidth > (m.originalBounds.MaxX-m.originalBounds.MinX) || newHeight > (m.originalBounds.MaxY-m.originalBounds.MinY) {
		m.viewBounds = m.originalBounds
		return
	}
	m.viewBounds.MinX = centerX - (newWidth / 2)
	m.viewBounds.MaxX = centerX + (newWidth / 2)
	m.viewBounds.MinY = centerY - (newHeight / 2)
	m.viewBounds.MaxY = centerY + (newHeight / 2)
}

func (m *Model) pan(dx, dy float64) {
	panX := (m.viewBounds.MaxX - m.viewBounds.MinX) * dx
	panY := (m.viewBounds.MaxY - m.viewBounds.MinY) * dy
	m.viewBounds.MinX += panX
	m.viewBounds.MaxX += panX
	m.viewBounds.MinY += panY
	m.viewBounds.MaxY += panY
}

// ZoomLevel is the ratio of the full map width to the visible width.
func (m Model) ZoomLevel() float64 {
	if m.viewBounds.MaxX == m.viewBounds.MinX {
		return 1.0
	}
	return (m.originalBounds.MaxX - m.originalBounds.MinX) / (m.viewBounds.MaxX - m.viewBounds.MinX)
}

// Plot records the position carried by pkt, replacing the station's
// previous one. Packets without a position are ignored.
func (m *Model) Plot(pkt *packet.Packet) {
	lat, lon, ok := pkt.LatLon()
	if !ok {
		return
	}
	for i := range m.stations {
		if m.stations[i].callsign == pkt.Source {
			m.stations[i].lat, m.stations[i].lon = lat, lon
			return
		}
	}
	m.stations = append(m.stations, plotted{callsign: pkt.Source, lat: lat, lon: lon})
}

// Clear removes every plotted station.
func (m *Model) Clear() {
	m.stations = nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *packet.Packet:
		m.Plot(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			m.pan(0, panFactor)
		case "down":
			m.pan(0, -panFactor)
		case "left":
			m.pan(-panFactor, 0)
		case "right":
			m.pan(panFactor, 0)
		case "+", "=":
			m.zoomByFactor(1 / zoomFactor)
		case "-":
			m.zoomByFactor(zoomFactor)
		case "0":
			m.viewBounds = m.originalBounds
		}
	}
	return m, nil
}

// project converts lon/lat to terminal x/y coordinates
func (m Model) project(lon, lat float64, viewWidth, viewHeight int) (int, int) {
	spanX := max(m.viewBounds.MaxX-m.viewBounds.MinX, 1e-6)
	spanY := max(m.viewBounds.MaxY-m.viewBounds.MinY, 1e-6)
	x := (lon - m.viewBounds.MinX) / spanX
	y := (m.viewBounds.MaxY - lat) / spanY // screen y grows downward
	return int(x * float64(viewWidth)), int(y * float64(viewHeight))
}

func (m Model) renderMapViewport(viewWidth, viewHeight int) string {
	viewWidth = max(viewWidth, 1)
	viewHeight = max(viewHeight, 1)

	grid := make([][]rune, viewHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", viewWidth))
	}
	inView := func(x, y int) bool {
		return x >= 0 && x < viewWidth && y >= 0 && y < viewHeight
	}

	for _, polygon := range m.mapPolygons {
		bbox := polygon.BBox()
		if bbox.MaxX < m.viewBounds.MinX || bbox.MinX > m.viewBounds.MaxX ||
			bbox.MaxY < m.viewBounds.MinY || bbox.MinY > m.viewBounds.MaxY {
			continue
		}
		for _, point := range polygon.Points {
			if x, y := m.project(point.X, point.Y, viewWidth, viewHeight); inView(x, y) {
				grid[y][x] = '.'
			}
		}
	}

	if m.home != nil {
		if x, y := m.project(m.home.Lon, m.home.Lat, viewWidth, viewHeight); inView(x, y) {
			grid[y][x] = 'H'
		}
	}

	for _, st := range m.stations {
		x, y := m.project(st.lon, st.lat, viewWidth, viewHeight)
		if !inView(x, y) {
			continue
		}
		grid[y][x] = '*'

		// Callsign under the marker, without overwriting other labels
		if y+1 < viewHeight {
			call := []rune(st.callsign)
			start := x - len(call)/2
			for i, r := range call {
				if px := start + i; px >= 0 && px < viewWidth && grid[y+1][px] == ' ' {
					grid[y+1][px] = r
				}
			}
		}
	}

	rows := make([]string, len(grid))
	for i, row := range grid {
		rows[i] = string(row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) View() string {
	mapStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2)

	content := m.renderMapViewport(m.width-2, m.height-2)
	footer := fmt.Sprintf("zoom %.1fx", m.ZoomLevel())
	lines := strings.Split(content, "\n")
	last := []rune(lines[len(lines)-1])
	if len(last) >= len(footer) {
		copy(last[len(last)-len(footer):], []rune(footer))
		lines[len(lines)-1] = string(last)
	}
	return mapStyle.Render(strings.Join(lines, "\n"))
}
