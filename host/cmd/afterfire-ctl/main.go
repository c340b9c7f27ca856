// afterfire-ctl is the operator CLI for an afterfire device: status,
// effect toggles, threshold tuning, calibration and a live watch view.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"afterfire/host/client"
)

var flagHost string

func main() {
	rootCmd := &cobra.Command{
		Use:   "afterfire-ctl",
		Short: "Control an afterfire exhaust-LED device over its HTTP API",
	}
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "http://192.168.4.1", "Device base URL")

	rootCmd.AddCommand(
		statusCmd(),
		effectsCmd(),
		thresholdCmd(),
		testCmd(),
		calibrateCmd(),
		watchCmd(),
		monitorCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func api() *client.Client {
	return client.New(flagHost)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the device status snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := api().Status()
			if err != nil {
				return err
			}
			fmt.Printf("PWM:      %d us\n", st.PulseWidth)
			fmt.Printf("Throttle: %d%%\n", st.Throttle)
			fmt.Printf("Burst:    %v\n", st.Burst)
			fmt.Printf("Uptime:   %s\n", st.Uptime)
			return nil
		},
	}
}

func effectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "effects <backfire|brake|idle|rpm> <on|off>",
		Short: "Toggle one effect",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] != "on" && args[1] != "off" {
				return fmt.Errorf("state must be on or off, got %q", args[1])
			}
			if err := api().SetEffect(args[0], args[1] == "on"); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], args[1])
			return nil
		},
	}
}

func thresholdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "threshold <param> <value>",
		Short: "Set a sensitivity threshold (backfireMin, backfireMax, brakeMin, brakeMax, rpmThreshold)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("value must be an integer, got %q", args[1])
			}
			if err := api().SetThreshold(args[0], value); err != nil {
				return err
			}
			fmt.Printf("%s = %d\n", args[0], value)
			return nil
		},
	}
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <backfire|crackle>",
		Short: "Fire a test burst",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "backfire":
				return api().TestBackfire()
			case "crackle":
				return api().TestCrackle()
			}
			return fmt.Errorf("unknown test %q", args[0])
		},
	}
}

func calibrateCmd() *cobra.Command {
	cal := &cobra.Command{
		Use:   "calibrate",
		Short: "Run the guided throttle calibration",
	}
	cal.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Begin a calibration session",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := api().CalibrateStart(); err != nil {
					return err
				}
				fmt.Println("Calibration started. Capture neutral, throttle, then brake.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current calibration step",
			RunE: func(cmd *cobra.Command, args []string) error {
				step, err := api().CalibrateStatus()
				if err != nil {
					return err
				}
				fmt.Println("Step:", step)
				return nil
			},
		},
		&cobra.Command{
			Use:   "capture <neutral|throttle|brake>",
			Short: "Capture the current stick position for one step",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := api().Capture(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s captured: %d us\n", args[0], value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "results",
			Short: "Show the calibration profile in effect",
			RunE: func(cmd *cobra.Command, args []string) error {
				res, err := api().Results()
				if err != nil {
					return err
				}
				fmt.Printf("Neutral: %d us (deadband %d-%d)\n", res.Neutral, res.NeutralMin, res.NeutralMax)
				fmt.Printf("Full throttle: %d us\n", res.Max)
				fmt.Printf("Full brake: %d us\n", res.Min)
				return nil
			},
		},
	)
	return cal
}
