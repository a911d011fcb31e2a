// Package json persists captured sessions as versioned JSON files.
//
// A capture holds the raw transport lines of one session and the result they
// produced, so a stream can be replayed offline through the aggregator.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/distill"
)

const currentVersion = 1

// Outcome types.
const (
	outcomeOK             = "ok"
	outcomeRepairFailure  = "repair_failure"
	outcomeTransportError = "transport_error"
	outcomeError          = "error"
)

type envelope struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	Shape     string    `json:"shape,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Lines     []string  `json:"lines"`
	Result    resultDTO `json:"result"`
}

type resultDTO struct {
	Type       string          `json:"type"`
	Raw        string          `json:"raw"`
	Value      json.RawMessage `json:"value,omitempty"`
	RepairedBy string          `json:"repaired_by,omitempty"`
	Attempts   []attemptDTO    `json:"attempts,omitempty"`

	// Failure details, by type.
	Message       string `json:"message,omitempty"`
	Cause         string `json:"cause,omitempty"`
	StatusCode    int    `json:"status_code,omitempty"`
	OriginalError string `json:"original_error,omitempty"`
	BasicError    string `json:"basic_error,omitempty"`
	AdvancedError string `json:"advanced_error,omitempty"`
}

type attemptDTO struct {
	Strategy   string `json:"strategy"`
	Input      string `json:"input"`
	Output     string `json:"output"`
	ParseError string `json:"parse_error,omitempty"`
}

// MarshalCapture serializes a capture to JSON with a version envelope.
func MarshalCapture(c distill.Capture) ([]byte, error) {
	res, err := resultToDTO(c.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	lines := c.Lines
	if lines == nil {
		lines = []string{}
	}
	env := envelope{
		Version:   currentVersion,
		ID:        c.ID,
		Provider:  string(c.Provider),
		Model:     c.Model,
		Shape:     c.Shape,
		CreatedAt: c.CreatedAt,
		Lines:     lines,
		Result:    res,
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalCapture deserializes a capture from JSON.
func UnmarshalCapture(data []byte) (distill.Capture, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return distill.Capture{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != currentVersion {
		return distill.Capture{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	provider, err := distill.ParseProvider(env.Provider)
	if err != nil {
		return distill.Capture{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	res, err := dtoToResult(env.Result, provider)
	if err != nil {
		return distill.Capture{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return distill.Capture{
		ID:        env.ID,
		Provider:  provider,
		Model:     env.Model,
		Shape:     env.Shape,
		CreatedAt: env.CreatedAt,
		Lines:     env.Lines,
		Result:    res,
	}, nil
}

// Save writes a capture to a file, creating parent directories as needed.
// The file is written to a temporary path first and renamed into place.
func Save(path string, c distill.Capture) error {
	data, err := MarshalCapture(c)
	if err != nil {
		return fmt.Errorf("marshal capture: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a capture from a file.
func Load(path string) (distill.Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return distill.Capture{}, fmt.Errorf("read capture: %w", err)
	}
	return UnmarshalCapture(data)
}

func resultToDTO(r distill.Result) (resultDTO, error) {
	d := resultDTO{
		Raw:        r.Raw,
		RepairedBy: r.RepairedBy,
		Attempts:   attemptsToDTO(r.Attempts),
	}

	var rf *distill.RepairFailure
	var te *distill.TransportError
	switch {
	case r.Err == nil:
		d.Type = outcomeOK
		if r.Value != nil {
			v, err := json.Marshal(r.Value)
			if err != nil {
				return resultDTO{}, err
			}
			d.Value = v
		}
	case errors.As(r.Err, &rf):
		d.Type = outcomeRepairFailure
		d.OriginalError = rf.OriginalError
		d.BasicError = rf.BasicError
		d.AdvancedError = rf.AdvancedError
		if d.Attempts == nil {
			d.Attempts = attemptsToDTO(rf.Attempts)
		}
	case errors.As(r.Err, &te):
		d.Type = outcomeTransportError
		d.StatusCode = te.StatusCode
		d.Message = te.Message
		if te.Err != nil {
			d.Cause = te.Err.Error()
		}
	default:
		d.Type = outcomeError
		d.Message = r.Err.Error()
	}
	return d, nil
}

func dtoToResult(d resultDTO, provider distill.Provider) (distill.Result, error) {
	r := distill.Result{
		Raw:        d.Raw,
		RepairedBy: d.RepairedBy,
		Attempts:   dtoToAttempts(d.Attempts),
	}
	switch d.Type {
	case outcomeOK:
		if len(d.Value) > 0 {
			if err := json.Unmarshal(d.Value, &r.Value); err != nil {
				return distill.Result{}, fmt.Errorf("unmarshal value: %w", err)
			}
		}
	case outcomeRepairFailure:
		r.Err = &distill.RepairFailure{
			OriginalError: d.OriginalError,
			BasicError:    d.BasicError,
			AdvancedError: d.AdvancedError,
			RawText:       d.Raw,
			Attempts:      r.Attempts,
		}
	case outcomeTransportError:
		r.Err = &distill.TransportError{
			Provider:   provider,
			StatusCode: d.StatusCode,
			Message:    d.Message,
			Err:        causeError(d.Cause),
		}
	case outcomeError:
		r.Err = errors.New(d.Message)
	default:
		return distill.Result{}, fmt.Errorf("unknown result type: %q", d.Type)
	}
	return r, nil
}

// causeError restores a transport cause. Known sentinels keep their identity.
func causeError(msg string) error {
	switch msg {
	case "":
		return nil
	case distill.ErrInactive.Error():
		return distill.ErrInactive
	}
	return errors.New(msg)
}

func attemptsToDTO(attempts []distill.RepairAttempt) []attemptDTO {
	if len(attempts) == 0 {
		return nil
	}
	out := make([]attemptDTO, len(attempts))
	for i, a := range attempts {
		out[i] = attemptDTO(a)
	}
	return out
}

func dtoToAttempts(dtos []attemptDTO) []distill.RepairAttempt {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]distill.RepairAttempt, len(dtos))
	for i, d := range dtos {
		out[i] = distill.RepairAttempt(d)
	}
	return out
}
