package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airspace-systems/daidalus-go/pkg/logger"
	"github.com/airspace-systems/daidalus-go/pkg/params"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect and validate Daidalus parameter files",
}

var paramsShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Parse a parameter file and print it back out in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  paramsShow,
}

var paramsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse a parameter file, reporting the first validation error if any",
	Args:  cobra.ExactArgs(1),
	RunE:  paramsValidate,
}

func init() {
	paramsCmd.AddCommand(paramsShowCmd)
	paramsCmd.AddCommand(paramsValidateCmd)
}

func paramsShow(cmd *cobra.Command, args []string) error {
	p, err := params.ParseFile(args[0])
	if err != nil {
		return err
	}
	return params.WriteTo(os.Stdout, p)
}

func paramsValidate(cmd *cobra.Command, args []string) error {
	_, err := params.ParseFile(args[0])
	if err != nil {
		logger.Errorf("invalid parameter file: %v", err)
		return err
	}
	logger.Success(fmt.Sprintf("%s is a valid parameter file", args[0]))
	return nil
}
