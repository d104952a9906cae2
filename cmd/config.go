package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"packetchat/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", loadedFrom)
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(conf)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings and save them to the config file",
	Example: `  packetchat config set --callsign IK2ABC-7 --path WIDE1-1,WIDE2-1
  packetchat config set --device /dev/ttyUSB0 --baud 1200`,
	Args: cobra.NoArgs,
	RunE: runConfigSet,
}

func init() {
	f := configSetCmd.Flags()
	f.String("callsign", "", "Station callsign with optional SSID")
	f.String("tocall", "", "AX.25 destination (software id)")
	f.String("path", "", "Digipeater path, comma separated (\"\" for none)")
	f.Float64("lat", 0, "Station latitude in decimal degrees")
	f.Float64("lon", 0, "Station longitude in decimal degrees")
	f.String("gridsquare", "", "Maidenhead locator")
	f.String("symbol", "", "Symbol table and code, e.g. \"/>\"")
	f.String("comment", "", "Default position comment")
	f.String("type", "", "Interface type: KISS or APRSIS")
	f.String("device", "", "KISS device: host:port, serial path or ws:// URL")
	f.Int("baud", 0, "Serial baud rate")
	f.String("server", "", "APRS-IS server host:port")
	f.Int("passcode", 0, "APRS-IS passcode")
	f.Bool("ack", true, "Request acks for sent messages")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	if f.NFlag() == 0 {
		return fmt.Errorf("nothing to set, see --help")
	}

	next := conf
	var err error
	set := func(name string, apply func()) {
		if err == nil && f.Changed(name) {
			apply()
		}
	}
	str := func(name string) string {
		v, e := f.GetString(name)
		if e != nil {
			err = e
		}
		return v
	}

	set("callsign", func() { next.Station.Callsign = str("callsign") })
	set("tocall", func() { next.Station.Tocall = str("tocall") })
	set("path", func() { next.Station.Path = config.ParsePath(str("path")) })
	set("lat", func() { next.Station.Latitude, err = f.GetFloat64("lat") })
	set("lon", func() { next.Station.Longitude, err = f.GetFloat64("lon") })
	set("gridsquare", func() { next.Station.GridSquare = str("gridsquare") })
	set("symbol", func() {
		sym := str("symbol")
		if len(sym) != 2 {
			err = fmt.Errorf("--symbol needs two characters, got %q", sym)
			return
		}
		next.Station.SymbolTable, next.Station.SymbolCode = sym[:1], sym[1:]
	})
	set("comment", func() { next.Station.Comment = str("comment") })
	set("type", func() { next.Interface.Type = str("type") })
	set("device", func() { next.Interface.Device = str("device") })
	set("baud", func() { next.Interface.Baud, err = f.GetInt("baud") })
	set("server", func() { next.Interface.Server = str("server") })
	set("passcode", func() { next.Interface.Passcode, err = f.GetInt("passcode") })
	set("ack", func() { next.UI.Ack, err = f.GetBool("ack") })
	if err != nil {
		return err
	}

	if err := config.SaveConfig(loadedFrom, next); err != nil {
		return fmt.Errorf("save %s: %w", loadedFrom, err)
	}
	// Reload so the saved file is normalized the same way a later run sees it
	saved, err := config.LoadConfig(loadedFrom)
	if err != nil {
		return err
	}
	if err := saved.Station.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	conf = saved
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", loadedFrom)
	return nil
}
