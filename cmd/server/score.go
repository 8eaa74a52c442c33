package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"ims/internal/config"
	"ims/internal/domain"
	"ims/internal/engine"
	"ims/internal/scoring"
)

// scoreCmd scores inputs offline with the same tables the server would load.
func scoreCmd() *cobra.Command {
	var scoringFile string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score risks, aspects and safety rates without a database",
	}
	cmd.PersistentFlags().StringVar(&scoringFile, "scoring", "", "Scoring tables file (YAML); defaults apply when empty")

	load := func() (*engine.Engine, error) {
		if scoringFile == "" {
			return engine.Default(), nil
		}
		return config.LoadScoring(scoringFile)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "risk LIKELIHOOD SEVERITY DETECTABILITY",
		Short: "Score a risk",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := factors(args, "likelihood", "severity", "detectability")
			if err != nil {
				return err
			}
			eng, err := load()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), eng.Scorers.Risk.Score(f[0], f[1], f[2]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "aspect LIKELIHOOD SEVERITY FREQUENCY",
		Short: "Score an environmental aspect",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := factors(args, "likelihood", "severity", "frequency")
			if err != nil {
				return err
			}
			eng, err := load()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), eng.Scorers.Aspect.Score(f[0], f[1], f[2]))
		},
	})

	var c scoring.Counts
	rates := &cobra.Command{
		Use:   "rates",
		Short: "Compute LTIFR, TRIR and severity rate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v domain.Validator
			v.Check(c.HoursWorked >= 0, "hours", "must not be negative")
			v.Check(!math.IsInf(c.HoursWorked, 0) && !math.IsNaN(c.HoursWorked), "hours", "must be a finite number")
			v.Check(c.LostTimeInjuries >= 0, "lti", "must not be negative")
			v.Check(c.TotalRecordableInjuries >= 0, "tri", "must not be negative")
			v.Check(c.DaysLost >= 0, "days-lost", "must not be negative")
			if err := v.Err(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), scoring.RatesFor(c))
		},
	}
	rates.Flags().Float64Var(&c.HoursWorked, "hours", 0, "Hours worked")
	rates.Flags().IntVar(&c.LostTimeInjuries, "lti", 0, "Lost-time injuries")
	rates.Flags().IntVar(&c.TotalRecordableInjuries, "tri", 0, "Total recordable injuries")
	rates.Flags().IntVar(&c.DaysLost, "days-lost", 0, "Days lost")
	cmd.AddCommand(rates)

	return cmd
}

func factors(args []string, names ...string) ([3]int, error) {
	var (
		out [3]int
		v   domain.Validator
	)
	for i, name := range names {
		n, err := strconv.Atoi(args[i])
		if err != nil {
			v.Add(name, fmt.Sprintf("%q is not an integer", args[i]))
			continue
		}
		v.Factor(name, n)
		out[i] = n
	}
	return out, v.Err()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
