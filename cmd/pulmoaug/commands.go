package main

import (
	"github.com/spf13/cobra"

	"pulmoaug-controller/internal/physiology"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulmoaug",
		Short: "Artificial PulmoAug control CLI",
		Long: `Artificial PulmoAug control CLI.

Modes:
  gill  Underwater O₂-extraction mode
  air   Air / altitude mode`,
		SilenceUsage: true,
	}
	root.AddCommand(newGillCmd(), newAirCmd())
	return root
}

func newGillCmd() *cobra.Command {
	var temp, vo2, eff float64

	cmd := &cobra.Command{
		Use:   "gill",
		Short: "Underwater O₂-extraction mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := physiology.GillMode(temp, vo2, eff)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&temp, "temp", physiology.DefaultTempC, "Water temp °C")
	cmd.Flags().Float64Var(&vo2, "vo2", 1.2, "VO₂ demand L/min")
	cmd.Flags().Float64Var(&eff, "eff", 0.3, "Gill efficiency 0–1")
	return cmd
}

func newAirCmd() *cobra.Command {
	var alt, vo2, concEff float64

	cmd := &cobra.Command{
		Use:   "air",
		Short: "Air / altitude mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := physiology.AirMode(alt, vo2, concEff)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64Var(&alt, "alt", 0, "Altitude (m)")
	cmd.Flags().Float64Var(&vo2, "vo2", 1.2, "VO₂ demand L/min")
	cmd.Flags().Float64Var(&concEff, "conc_eff", 0.8, "Concentrator efficiency 0–1")
	return cmd
}
