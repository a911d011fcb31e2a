package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/stream"
	"github.com/spf13/cobra"
)

func (a *app) repairCmd() *cobra.Command {
	var shapeName string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair a finished response and print the parsed result",
		Long: `Check a finished response and run the repair strategies on it when it does
not parse. The response is read from the file, or from stdin when no file is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := distill.ParseShape(shapeName)
			if err != nil {
				return err
			}
			raw, err := a.readInput(args)
			if err != nil {
				return err
			}
			res := stream.Emit(raw, shape)
			if verbose {
				a.printAttempts(res.Attempts)
			}
			return a.printResult(res)
		},
	}
	cmd.Flags().StringVar(&shapeName, "shape", distill.ShapeNameAny, "Expected result: "+strings.Join(distill.ShapeNames(), ", "))
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every repair attempt")
	return cmd
}

func (a *app) readInput(args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(a.stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
