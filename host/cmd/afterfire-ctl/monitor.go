package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tarm/serial"
)

// monitorCmd tails the device's serial debug stream: the paced status
// line plus any platform messages.
func monitorCmd() *cobra.Command {
	var (
		device string
		baud   int
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Tail the device's serial debug output",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
			if err != nil {
				return fmt.Errorf("open %s: %w", device, err)
			}
			defer port.Close()

			scanner := bufio.NewScanner(port)
			for scanner.Scan() {
				fmt.Println(scanner.Text())
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVar(&device, "device", "/dev/ttyACM0", "Serial device path")
	cmd.Flags().IntVar(&baud, "baud", 115200, "Baud rate (ignored for USB CDC)")
	return cmd
}
