package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"packetchat/config"
	"packetchat/device"
	"packetchat/packet"
	"packetchat/station"
	"packetchat/ui/footer"
	"packetchat/ui/header"
	mapview "packetchat/ui/map"
	"packetchat/ui/msgbar"
	"packetchat/ui/prompt"
	"packetchat/ui/sidebar"
)

// Layout
const (
	sidebarWidth = 30
	headerHeight = 1
	promptHeight = 1
	footerHeight = 1

	maxMessageText = 67
	maxAddressee   = 9
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// sentMsg reports the result of a transmit.
type sentMsg struct {
	pkt *packet.Packet
	err error
}

// closedMsg is sent once the interface stops delivering packets.
type closedMsg struct{}

// model holds the application's state
type model struct {
	width  int
	height int
	config config.Config

	configPath string // where the station editor saves, empty for nowhere

	station    *station.Station
	iface      device.Interface
	packetChan chan *packet.Packet

	ack       bool
	showMap   bool
	addressee string // set while the message prompt is open
	edit      *stationEdit

	headerModel  header.Model
	footerModel  footer.Model
	logModel     msgbar.Model
	sidebarModel sidebar.Model
	mapModel     mapview.Model
	promptModel  prompt.Model
}

func describeInterface(conf config.InterfaceConfig) string {
	if strings.EqualFold(conf.Type, "APRSIS") {
		return "APRS-IS " + conf.Server
	}
	return "KISS " + conf.Device
}

// newModel creates the starting model
func newModel(conf config.Config, st *station.Station, iface device.Interface) (model, error) {
	logMod, err := msgbar.New(st.Callsign(), conf.UI.TimestampFormat)
	if err != nil {
		return model{}, err
	}
	mapMod, err := mapview.New(conf)
	if err != nil {
		return model{}, err
	}

	return model{
		width:        80,
		height:       24,
		config:       conf,
		station:      st,
		iface:        iface,
		packetChan:   make(chan *packet.Packet),
		ack:          conf.UI.Ack,
		headerModel:  header.New(st.Callsign(), describeInterface(conf.Interface)),
		footerModel:  footer.New(conf.UI.Ack),
		logModel:     logMod,
		sidebarModel: sidebar.New(mapview.HomeLocation(conf.Station)),
		mapModel:     mapMod,
		promptModel:  prompt.New(),
	}, nil
}

// listenForPackets is a tea.Cmd that waits for the next packet
func (m model) listenForPackets() tea.Cmd {
	return func() tea.Msg {
		pkt, ok := <-m.packetChan
		if !ok {
			return closedMsg{}
		}
		return pkt
	}
}

func (m model) send(pkt *packet.Packet) tea.Cmd {
	if pkt == nil {
		return nil
	}
	return func() tea.Msg {
		return sentMsg{pkt: pkt, err: m.iface.Send(pkt)}
	}
}

// speakMessageCmd runs the 'say' command as a non-blocking side effect
func speakMessageCmd(msg string) tea.Cmd {
	return func() tea.Msg {
		cmd := exec.Command("say", msg)
		if err := cmd.Start(); err != nil {
			log.Debug("say failed", "err", err)
			return nil
		}
		go cmd.Wait()
		return nil
	}
}

func (m model) Init() tea.Cmd {
	go m.iface.Start(m.packetChan)
	return m.listenForPackets()
}

func (m model) addressedToUs(pkt *packet.Packet) bool {
	return pkt.Message != nil && strings.EqualFold(strings.TrimSpace(pkt.Message.Addressee), m.station.Callsign())
}

func (m model) handlePacket(pkt *packet.Packet) (model, tea.Cmd) {
	var cmds []tea.Cmd

	m.logModel.Add(msgbar.Received, pkt)
	m.sidebarModel.AddPacket(pkt)
	m.mapModel.Plot(pkt)

	if m.addressedToUs(pkt) {
		switch pkt.Type {
		case packet.TypeAck:
			verb := "ack"
			if pkt.Message.Rejected {
				verb = "rej"
			}
			m.footerModel.SetStatus(fmt.Sprintf("%s %s from %s", verb, pkt.Message.ID, pkt.Source))
		case packet.TypeMessage:
			m.footerModel.SetStatus("message from " + pkt.Source)
			if m.config.UI.Say {
				cmds = append(cmds, speakMessageCmd(fmt.Sprintf("Message from %s: %s", pkt.Source, pkt.Message.Text)))
			}
			if m.ack && pkt.Message.ID != "" {
				cmds = append(cmds, m.send(m.station.Ack(pkt.Source, pkt.Message.ID)))
			}
		}
	}

	cmds = append(cmds, m.listenForPackets())
	return m, tea.Batch(cmds...)
}

func (m model) handleSubmit(msg prompt.SubmitMsg) (model, tea.Cmd) {
	value := strings.TrimSpace(msg.Value)

	switch msg.Mode {
	case prompt.ModeAddressee:
		if value == "" {
			m.footerModel.SetStatus("no addressee")
			return m, nil
		}
		return m.openMessage(strings.ToUpper(value))

	case prompt.ModeMessage:
		if value == "" {
			m.footerModel.SetStatus("empty message not sent")
			return m, nil
		}
		return m, m.send(m.station.Message(m.addressee, value, m.ack))

	case prompt.ModePosition:
		return m, m.send(m.station.Position(value))

	case prompt.ModeRaw:
		if value == "" {
			return m, nil
		}
		pkt, err := m.station.Raw(msg.Value)
		if err != nil {
			m.footerModel.SetStatus(err.Error())
			return m, nil
		}
		return m, m.send(pkt)

	case prompt.ModeStation:
		return m.submitStationField(value)
	}
	return m, nil
}

func (m model) openMessage(to string) (model, tea.Cmd) {
	m.addressee = to
	cmd := m.promptModel.Open(prompt.ModeMessage, "To "+to+":", "message text", maxMessageText)
	return m, cmd
}

func (m model) quick(text string) (model, tea.Cmd) {
	to := m.sidebarModel.Selected()
	if to == "" {
		m.footerModel.SetStatus("select a station first")
		return m, nil
	}
	return m, m.send(m.station.Message(to, text, m.ack))
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptModel.Active() {
		var cmd tea.Cmd
		m.promptModel, cmd = m.promptModel.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "m":
		if to := m.sidebarModel.Selected(); to != "" {
			return m.openMessage(to)
		}
		cmd = m.promptModel.Open(prompt.ModeAddressee, "To:", "CALLSIGN", maxAddressee)
	case "1":
		return m.quick(station.QuickQuery)
	case "2":
		return m.quick(station.QuickConfirm)
	case "p":
		cmd = m.promptModel.Open(prompt.ModePosition, "Position comment:", m.config.Station.Comment, 0)
	case "d":
		cmd = m.promptModel.Open(prompt.ModeRaw, "Raw payload:", ">status text", 0)
	case "r":
		pkt := m.station.RepeatMessage(m.ack)
		if pkt == nil {
			m.footerModel.SetStatus("no message to repeat")
		}
		cmd = m.send(pkt)
	case "t":
		pkt := m.station.RepeatRaw()
		if pkt == nil {
			m.footerModel.SetStatus("no raw payload to repeat")
		}
		cmd = m.send(pkt)
	case "a":
		m.ack = !m.ack
		m.footerModel.SetAck(m.ack)
	case "x":
		m.logModel.Clear()
	case "h":
		m.sidebarModel.Clear()
		m.mapModel.Clear()
	case "v":
		m.showMap = !m.showMap
	case "e":
		return m.startStationEdit()
	case "k":
		m.sidebarModel.Move(-1)
	case "j":
		m.sidebarModel.Move(1)
	default:
		if m.showMap {
			m.mapModel, cmd = m.mapModel.Update(msg)
			break
		}
		switch msg.String() {
		case "up":
			m.sidebarModel.Move(-1)
		case "down":
			m.sidebarModel.Move(1)
		}
	}
	return m, cmd
}

func (m model) mainHeight() int {
	return max(3, m.height-headerHeight-promptHeight-footerHeight)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *packet.Packet:
		return m.handlePacket(msg)

	case sentMsg:
		if msg.err != nil {
			log.Error("Send failed", "err", msg.err)
			m.footerModel.SetStatus("send failed: " + msg.err.Error())
			return m, nil
		}
		log.Info("Sent", "packet", msg.pkt.TNC2())
		m.logModel.Add(msgbar.Sent, msg.pkt)
		m.footerModel.SetStatus("sent " + string(msg.pkt.Info))

	case closedMsg:
		log.Warn("Interface closed")
		m.headerModel.SetConnected(false)
		m.footerModel.SetStatus("interface closed")

	case prompt.SubmitMsg:
		return m.handleSubmit(msg)

	case prompt.CancelMsg:
		m.edit = nil
		m.footerModel.SetStatus("cancelled")

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		mainHeight := m.mainHeight()
		mainWidth := max(10, m.width-sidebarWidth)

		m.headerModel, _ = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
		m.footerModel, _ = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: footerHeight})
		m.promptModel, _ = m.promptModel.Update(tea.WindowSizeMsg{Width: m.width, Height: promptHeight})
		m.sidebarModel, _ = m.sidebarModel.Update(tea.WindowSizeMsg{Width: sidebarWidth, Height: mainHeight})
		m.logModel, _ = m.logModel.Update(tea.WindowSizeMsg{Width: mainWidth, Height: mainHeight})
		m.mapModel, _ = m.mapModel.Update(tea.WindowSizeMsg{Width: mainWidth, Height: mainHeight})

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if msg.X < sidebarWidth && msg.Y >= headerHeight && msg.Y < headerHeight+m.mainHeight() {
			m.sidebarModel.Click(msg.Y - headerHeight)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		var cmd tea.Cmd
		m.promptModel, cmd = m.promptModel.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	body := m.logModel.View()
	if m.showMap {
		body = m.mapModel.View()
	}
	middle := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarModel.View(), body)

	promptLine := lipgloss.NewStyle().Width(m.width).Render(m.promptModel.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		middle,
		promptLine,
		m.footerModel.View(),
	)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the terminal UI needs a terminal, use 'packetchat monitor' instead")
	}

	st, err := station.New(conf.Station)
	if err != nil {
		return fmt.Errorf("station settings in %s: %w", loadedFrom, err)
	}

	iface, err := device.Open(conf)
	if err != nil {
		return fmt.Errorf("failed to connect to interface: %w", err)
	}
	defer iface.Close()

	m, err := newModel(conf, st, iface)
	if err != nil {
		return err
	}
	m.configPath = loadedFrom

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
