package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pascal-nordic/nrfcredstore/pkg/discovery"
)

var sectionFmt = color.New(color.Bold, color.FgCyan).SprintFunc()

func init() {
	rootCmd.AddCommand(imeiCmd, attestationTokenCmd, infoCmd, devicesCmd)
}

var imeiCmd = &cobra.Command{
	Use:   "imei",
	Short: "Print the modem IMEI",
	Args:  NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(s *session) error {
			imei, err := s.store.IMEI()
			if err != nil {
				return err
			}
			if outputFormat != "table" {
				return formatOutput(cmd, map[string]string{"imei": imei})
			}
			fmt.Fprintln(cmd.OutOrStdout(), imei)
			return nil
		})
	},
}

var attestationTokenCmd = &cobra.Command{
	Use:   "attoken",
	Short: "Print the modem attestation token",
	Long: `Print the attestation token produced by AT%ATTESTTOKEN. The token is two
base64url parts joined by a dot, which an identity service can verify.`,
	Args: NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(s *session) error {
			token, err := s.store.AttestationToken()
			if err != nil {
				return err
			}
			if outputFormat != "table" {
				return formatOutput(cmd, map[string]string{"attestationToken": token})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show modem IMEI, model and firmware version",
	Args:  NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(s *session) error {
			info, err := s.store.Info()
			if err != nil {
				return err
			}
			if outputFormat != "table" {
				return formatOutput(cmd, info)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if s.device.Name != "" {
				fmt.Fprintf(w, "Board:\t%s\n", s.device.Name)
			}
			if s.device.SerialNumber != "" {
				fmt.Fprintf(w, "Serial number:\t%s\n", s.device.SerialNumber)
			}
			fmt.Fprintf(w, "IMEI:\t%s\n", info.IMEI)
			fmt.Fprintf(w, "Model:\t%s\n", info.Model)
			fmt.Fprintf(w, "Firmware:\t%s\n", info.Firmware)
			return w.Flush()
		})
	},
}

type boardView struct {
	Name         string `json:"name" yaml:"name"`
	SerialNumber string `json:"serialNumber" yaml:"serialNumber"`
	Port         string `json:"port" yaml:"port"`
}

type portView struct {
	Port string `json:"port" yaml:"port"`
	HWID string `json:"hwid" yaml:"hwid"`
}

type devicesView struct {
	Boards []boardView `json:"boards" yaml:"boards"`
	Probes []string    `json:"probes" yaml:"probes"`
	Ports  []portView  `json:"ports,omitempty" yaml:"ports,omitempty"`
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List connected boards and debug probes",
	Long: `List recognized boards with the serial port used for AT commands, and the
serial numbers of connected debug probes. With --list-all every serial
port is listed as well.`,
	Args: NoArgsWithUsage(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := portLister.Ports()
		if err != nil {
			return err
		}

		view := devicesView{Boards: []boardView{}, Probes: discovery.ProbeSerials(ports)}
		if view.Probes == nil {
			view.Probes = []string{}
		}
		for _, b := range discovery.Boards(ports) {
			view.Boards = append(view.Boards, boardView{Name: b.Name, SerialNumber: b.SerialNumber, Port: b.Port.Device})
		}
		if listAll {
			for _, p := range ports {
				view.Ports = append(view.Ports, portView{Port: p.Device, HWID: p.HWID()})
			}
		}

		if outputFormat != "table" {
			return formatOutput(cmd, view)
		}
		return printDevices(cmd.OutOrStdout(), view)
	},
}

func printDevices(out io.Writer, view devicesView) error {
	fmt.Fprintln(out, sectionFmt("Boards"))
	if len(view.Boards) == 0 {
		fmt.Fprintln(out, "  none")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tSERIAL\tPORT")
		for _, b := range view.Boards {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", b.Name, b.SerialNumber, b.Port)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, sectionFmt("Debug probes"))
	if len(view.Probes) == 0 {
		fmt.Fprintln(out, "  none")
	}
	for _, p := range view.Probes {
		fmt.Fprintf(out, "  %s\n", p)
	}

	if view.Ports != nil {
		fmt.Fprintln(out, sectionFmt("Serial ports"))
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, p := range view.Ports {
			fmt.Fprintf(w, "  %s\t%s\n", p.Port, p.HWID)
		}
		return w.Flush()
	}
	return nil
}
