// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The plantopt command formulates a plant-optimization scenario from a YAML
// parameter file, solves it, and prints the resulting plan.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"plantopt/highslp"
	"plantopt/lpmodel"
	"plantopt/scenario"
	"plantopt/simplexlp"
)

var (
	paramsFile   string
	solverName   string
	timeLimit    time.Duration
	exportLPFile string
)

var rootCmd = &cobra.Command{
	Use:   "plantopt",
	Short: "Injection molding plant optimization",
	Long: `plantopt formulates production scheduling, maintenance scheduling,
material blending, and capacity planning problems as linear/mixed-integer
programs and hands them to an off-the-shelf solver.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&paramsFile, "params", "p", "", "YAML parameter file (omit for the stock data set)")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "highs", "solver backend: highs or simplex")
	rootCmd.PersistentFlags().DurationVar(&timeLimit, "time-limit", 0, "solve time limit, e.g. 30s (0 = none)")
	rootCmd.PersistentFlags().StringVar(&exportLPFile, "export-lp", "", "write the formulated model in LP format to this file")
	rootCmd.AddCommand(productionCmd, maintenanceCmd, blendingCmd, capacityCmd)
	// glog registers its flags on the standard flag set.
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func adapter() (lpmodel.Adapter, error) {
	switch solverName {
	case "highs":
		return highslp.New(), nil
	case "simplex":
		return simplexlp.New(), nil
	}
	return nil, fmt.Errorf("unknown solver %q (want highs or simplex)", solverName)
}

func solveOptions() lpmodel.SolveOptions {
	return lpmodel.SolveOptions{TimeLimit: timeLimit}
}

// loadParams fills `into` from the YAML file when one was given and reports
// whether it did.
func loadParams(into any) (bool, error) {
	if paramsFile == "" {
		return false, nil
	}
	data, err := os.ReadFile(paramsFile)
	if err != nil {
		return false, err
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return false, fmt.Errorf("parsing %s: %w", paramsFile, err)
	}
	return true, nil
}

func exportLP(m *lpmodel.Model) error {
	if exportLPFile == "" {
		return nil
	}
	f, err := os.Create(exportLPFile)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.WriteLP(f)
}

var productionCmd = &cobra.Command{
	Use:   "production",
	Short: "Optimize the production schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := scenario.DefaultProductionParams()
		if loaded, err := loadParams(&params); err != nil {
			return err
		} else if loaded {
			log.Infof("loaded production parameters from %s", paramsFile)
		}
		s, err := scenario.BuildProduction(params)
		if err != nil {
			return err
		}
		if err := exportLP(s.Model()); err != nil {
			return err
		}
		ad, err := adapter()
		if err != nil {
			return err
		}
		report, err := s.Solve(ad, solveOptions())
		if err != nil {
			return err
		}
		printProduction(cmd.OutOrStdout(), report)
		return nil
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Optimize the maintenance schedule",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := scenario.DefaultMaintenanceParams()
		if loaded, err := loadParams(&params); err != nil {
			return err
		} else if loaded {
			log.Infof("loaded maintenance parameters from %s", paramsFile)
		}
		s, err := scenario.BuildMaintenance(params)
		if err != nil {
			return err
		}
		if err := exportLP(s.Model()); err != nil {
			return err
		}
		ad, err := adapter()
		if err != nil {
			return err
		}
		report, err := s.Solve(ad, solveOptions())
		if err != nil {
			return err
		}
		printMaintenance(cmd.OutOrStdout(), report)
		return nil
	},
}

var blendingCmd = &cobra.Command{
	Use:   "blending",
	Short: "Optimize the material blend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := scenario.DefaultBlendingParams()
		if loaded, err := loadParams(&params); err != nil {
			return err
		} else if loaded {
			log.Infof("loaded blending parameters from %s", paramsFile)
		}
		s, err := scenario.BuildBlending(params)
		if err != nil {
			return err
		}
		if err := exportLP(s.Model()); err != nil {
			return err
		}
		ad, err := adapter()
		if err != nil {
			return err
		}
		report, err := s.Solve(ad, solveOptions())
		if err != nil {
			return err
		}
		printBlending(cmd.OutOrStdout(), report)
		return nil
	},
}

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Optimize the capacity plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		params := scenario.DefaultCapacityParams()
		if loaded, err := loadParams(&params); err != nil {
			return err
		} else if loaded {
			log.Infof("loaded capacity parameters from %s", paramsFile)
		}
		s, err := scenario.BuildCapacity(params)
		if err != nil {
			return err
		}
		if err := exportLP(s.Model()); err != nil {
			return err
		}
		ad, err := adapter()
		if err != nil {
			return err
		}
		report, err := s.Solve(ad, solveOptions())
		if err != nil {
			return err
		}
		printCapacity(cmd.OutOrStdout(), report)
		return nil
	},
}

func main() {
	defer log.Flush()
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
