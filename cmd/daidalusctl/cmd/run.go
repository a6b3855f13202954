package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/airspace-systems/daidalus-go/pkg/daidalus"
	"github.com/airspace-systems/daidalus-go/pkg/kinematics"
	"github.com/airspace-systems/daidalus-go/pkg/logger"
	"github.com/airspace-systems/daidalus-go/pkg/params"
	"github.com/airspace-systems/daidalus-go/pkg/report"
)

var (
	scenarioPath   string
	alerterName    string
	noninteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the Daidalus façade once against a scenario file",
	Long:  `Loads a YAML scenario (ownship plus traffic) and an optional parameter file, then prints bands, alert levels, and recovery search results.`,
	RunE:  runScenario,
}

func init() {
	runCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario YAML file (required)")
	runCmd.Flags().StringVarP(&alerterName, "alerter", "a", "", "default alerter name for traffic without an explicit alerter_index")
	runCmd.Flags().BoolVar(&noninteractive, "no-interactive", false, "never prompt; use the first alerter instead of asking")
	_ = runCmd.MarkFlagRequired("scenario")
}

func runScenario(cmd *cobra.Command, _ []string) error {
	log := logger.WithField("run_id", runID)

	scenario, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	p := params.Default()
	if scenario.ParamsFile != "" {
		loaded, err := params.ParseFile(scenario.ParamsFile)
		if err != nil {
			return fmt.Errorf("loading parameter file: %w", err)
		}
		p = loaded
	}

	defaultAlerterIdx, err := resolveDefaultAlerter(p, alerterName)
	if err != nil {
		return err
	}

	d := daidalus.New()
	if err := d.SetParameters(p); err != nil {
		return fmt.Errorf("installing parameters: %w", err)
	}

	now := time.Now()
	ownship, err := scenario.Ownship.toAircraft(now)
	if err != nil {
		return err
	}
	d.SetOwnship(ownship)

	ids := make([]string, 0, len(scenario.Traffic))
	for _, t := range scenario.Traffic {
		ac, err := t.toAircraft(now)
		if err != nil {
			return err
		}
		if ac.AlerterIndex == 0 {
			ac = ac.WithAlerterIndex(defaultAlerterIdx)
		}
		d.AddTraffic(ac)
		ids = append(ids, ac.ID)
	}

	log.Infof("loaded scenario %s with %d traffic aircraft", scenarioPath, len(ids))

	dims := []kinematics.Dimension{
		kinematics.DimDirection,
		kinematics.DimHorizontalSpeed,
		kinematics.DimVerticalSpeed,
		kinematics.DimAltitude,
	}
	for _, dim := range dims {
		ranges := d.Bands(dim)
		report.BandsTable(os.Stdout, dim, ranges)
		report.RecoveryLine(os.Stdout, dim, d.Recovery(dim))
		fmt.Println()
	}

	if len(ids) > 0 {
		levels := make([]int, len(ids))
		regions := make([]params.Region, len(ids))
		for i := range ids {
			levels[i], regions[i] = d.AlertLevel(i + 1)
		}
		report.AlertTable(os.Stdout, ids, levels, regions)
	}

	for _, entry := range d.Log() {
		log.Warnf("%s: %s", entry.Severity, entry.Message)
	}

	return nil
}

// resolveDefaultAlerter finds name's 1-based index within p.Alerters, or
// prompts interactively when name is empty and more than one alerter is
// configured (mirroring the teacher's cmd/cli interactive-selection
// pattern in selectSimulation).
func resolveDefaultAlerter(p *params.Parameters, name string) (int, error) {
	if len(p.Alerters) == 0 {
		return 0, fmt.Errorf("parameter block has no alerters configured")
	}
	if name != "" {
		for i, a := range p.Alerters {
			if a.Name == name {
				return i + 1, nil
			}
		}
		return 0, fmt.Errorf("alerter %q not found in parameter block", name)
	}
	if len(p.Alerters) == 1 {
		return 1, nil
	}
	if noninteractive {
		return 1, nil
	}

	options := make([]string, len(p.Alerters))
	for i, a := range p.Alerters {
		options[i] = a.Name
	}
	var selected string
	prompt := &survey.Select{
		Message: "Select default alerter for traffic with no explicit alerter_index:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return 0, err
	}
	for i, a := range p.Alerters {
		if a.Name == selected {
			return i + 1, nil
		}
	}
	return 1, nil
}
