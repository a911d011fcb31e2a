package main

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/fwojciec/distill"
	distilljson "github.com/fwojciec/distill/json"
	"github.com/fwojciec/distill/stream"
	"github.com/spf13/cobra"
)

func (a *app) replayCmd() *cobra.Command {
	var shapeName string
	var check bool
	cmd := &cobra.Command{
		Use:   "replay <capture.json>",
		Short: "Re-run a captured stream offline",
		Long: `Feed the raw lines of a capture saved by "distill stream --capture" through
the aggregator again and print the result. The recorded shape is used unless
--shape is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := distilljson.Load(args[0])
			if err != nil {
				return err
			}
			if shapeName == "" {
				shapeName = c.Shape
			}
			shape, err := distill.ParseShape(shapeName)
			if err != nil {
				return err
			}

			res, err := a.replay(cmd, c, shape)
			if err != nil {
				return err
			}
			if !sameOutcome(res, c.Result) {
				fmt.Fprintln(a.stderr, a.styles.repaired.Render("replay differs from the recorded result"))
				if check {
					return fmt.Errorf("replay of %s differs from the recording", c.ID)
				}
			}
			return a.printResult(res)
		},
	}
	cmd.Flags().StringVar(&shapeName, "shape", "", "Expected result: "+strings.Join(distill.ShapeNames(), ", "))
	cmd.Flags().BoolVar(&check, "check", false, "Fail when the replayed result differs from the recording")
	return cmd
}

func (a *app) replay(cmd *cobra.Command, c distill.Capture, shape distill.Shape) (distill.Result, error) {
	agg := stream.New(decoderFor(c.Provider),
		stream.WithShape(shape),
		stream.WithConfig(a.cfg.StreamConfig()),
		stream.WithLogger(a.logger),
	)
	session := stream.NewSession(c.Provider, c.Model)
	body := strings.NewReader(strings.Join(c.Lines, "\n"))
	return agg.Run(cmd.Context(), session, body)
}

// sameOutcome compares what a caller would see: the text, whether it
// succeeded and the value.
func sameOutcome(got, want distill.Result) bool {
	if got.Raw != want.Raw || got.OK() != want.OK() {
		return false
	}
	if !got.OK() {
		return got.Err.Error() == want.Err.Error()
	}
	return reflect.DeepEqual(got.Value, want.Value)
}
