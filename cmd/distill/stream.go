package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	distilljson "github.com/fwojciec/distill/json"
	"github.com/fwojciec/distill/stream"
	"github.com/spf13/cobra"
)

type streamFlags struct {
	provider    string
	model       string
	system      string
	shape       string
	capture     string
	maxTokens   int
	temperature float64
	quiet       bool
}

func (a *app) streamCmd() *cobra.Command {
	var f streamFlags
	cmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Stream a completion and print the parsed result",
		Long: `Stream a completion from a provider. Progress is written to stderr while the
response arrives; the parsed document is written to stdout as JSON when the
stream ends. The prompt is read from stdin when no argument is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var temp *float64
			if cmd.Flags().Changed("temperature") {
				temp = &f.temperature
			}
			return a.runStream(cmd, f, temp, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.provider, "provider", "p", "", "Provider: "+providerNames())
	fl.StringVarP(&f.model, "model", "m", "", "Model ID (provider-specific)")
	fl.StringVarP(&f.system, "system", "s", "", "System prompt")
	fl.StringVar(&f.shape, "shape", distill.ShapeNameAny, "Expected result: "+strings.Join(distill.ShapeNames(), ", "))
	fl.StringVar(&f.capture, "capture", "", "Save raw stream lines and the result to this file")
	fl.IntVar(&f.maxTokens, "max-tokens", 0, "Maximum output tokens (0 = provider default)")
	fl.Float64Var(&f.temperature, "temperature", 0, "Sampling temperature (default: provider default)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}

func (a *app) runStream(cmd *cobra.Command, f streamFlags, temp *float64, args []string) error {
	ctx := cmd.Context()

	shape, err := distill.ParseShape(f.shape)
	if err != nil {
		return err
	}
	prompt, err := a.prompt(args)
	if err != nil {
		return err
	}
	provider, err := resolveProvider(f.provider, a.cfg, a.getenv)
	if err != nil {
		return err
	}
	pc := a.cfg.ProviderFor(provider, a.getenv)
	opener, err := openerFor(provider, pc, shape.Kind != distill.KindText)
	if err != nil {
		return err
	}

	req := distill.Request{
		Model:        f.model,
		SystemPrompt: f.system,
		Prompt:       prompt,
		MaxTokens:    f.maxTokens,
		Temperature:  temp,
	}
	model := f.model
	if model == "" {
		model = pc.Model
	}

	opts := []stream.Option{
		stream.WithShape(shape),
		stream.WithConfig(a.cfg.StreamConfig()),
		stream.WithLogger(a.logger),
	}
	if !f.quiet {
		opts = append(opts, stream.WithPartialHandler(a.progress(a.stderr)))
	}
	if f.capture != "" {
		opts = append(opts, stream.WithCapture())
	}
	agg := stream.New(decoderFor(provider), opts...)
	session := stream.NewSession(provider, model)

	h := agg.Start(ctx, opener, session, req, nil)
	res, err := h.Wait(ctx)
	if err != nil {
		h.Cancel()
		<-h.Done()
		if errors.Is(err, distill.ErrCancelled) || ctx.Err() != nil {
			return distill.ErrCancelled
		}
		return err
	}

	if f.capture != "" {
		c := distill.Capture{
			ID:        session.ID,
			Provider:  provider,
			Model:     model,
			Shape:     f.shape,
			CreatedAt: time.Now().UTC(),
			Lines:     session.Lines(),
			Result:    res,
		}
		if err := distilljson.Save(f.capture, c); err != nil {
			return fmt.Errorf("save capture: %w", err)
		}
		a.logger.WithField("path", f.capture).Info("capture saved")
	}
	return a.printResult(res)
}

// prompt joins args, or reads stdin when there are none.
func (a *app) prompt(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func providerNames() string {
	names := make([]string, 0, len(distill.Providers()))
	for _, p := range distill.Providers() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
