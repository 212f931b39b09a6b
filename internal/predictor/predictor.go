// internal/predictor/predictor.go
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"texthunter-back/internal/logger"
)

// ModelNames is the single source of truth for the models the classifier
// script reports. Referenced by handlers instead of repeating the list per
// call site.
var ModelNames = []string{
	"naive_bayes_bow",
	"naive_bayes_tfidf",
	"random_forest_bow",
	"random_forest_tfidf",
	"svm_bow",
	"svm_tfidf",
}

const (
	LabelAI      = "AI"
	LabelHuman   = "Human"
	LabelUnknown = "Unknown"
)

type Result struct {
	ModelName        string             `json:"model_name"`
	Prediction       string             `json:"prediction"`
	Probabilities    map[string]float64 `json:"probabilities"`
	HumanProbability float64            `json:"human_probability"`
	AIProbability    float64            `json:"ai_probability"`
}

// LaunchError means the classifier process could not be started at all
// (binary missing, permission denied).
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start classifier process: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ProcessError means the classifier process ran and exited non-zero. Stderr
// holds whatever the script wrote before dying.
type ProcessError struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("classifier process exited with code %d: %s", e.ExitCode, e.Stderr)
}

// MalformedOutputError means the process exited cleanly but its stdout was
// not the expected JSON object. Callers can tell this apart from a crashed
// script via errors.As.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("classifier produced unparseable output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// Predictor invokes the external classification script and parses its JSON
// output. Each call spawns an independent process; there is no pooling, so
// concurrent calls mean concurrent processes.
type Predictor struct {
	pythonExec string
	scriptPath string
	timeout    time.Duration
	log        *logger.Logger
}

func New(pythonExec, scriptPath string, timeout time.Duration, log *logger.Logger) *Predictor {
	return &Predictor{
		pythonExec: pythonExec,
		scriptPath: scriptPath,
		timeout:    timeout,
		log:        log.With("component", "predictor"),
	}
}

// rawResult mirrors one model entry of the script's stdout JSON. Prediction
// may arrive as a string or a bare number depending on the model.
type rawResult struct {
	Prediction    json.RawMessage    `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// PredictAll runs the classifier script once and returns results for every
// model it reports. The text is passed as a single argv element, so embedded
// quotes cannot terminate it early. The call blocks until the process has
// exited and both output streams are drained; a hung script is killed when
// the timeout elapses.
func (p *Predictor) PredictAll(ctx context.Context, text string) (map[string]Result, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.pythonExec, p.scriptPath, text)
	// If a killed script leaves a child holding the output pipes, stop
	// waiting on them after a grace period instead of hanging the call.
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		launchErr := &LaunchError{Err: err}
		p.log.Error("classifier process failed to start",
			"executable", p.pythonExec,
			"script", p.scriptPath,
			"error", err,
		)
		return nil, launchErr
	}

	if err := cmd.Wait(); err != nil {
		procErr := &ProcessError{
			ExitCode: cmd.ProcessState.ExitCode(),
			Stderr:   stderr.String(),
		}
		p.log.Error("classifier process failed",
			"exit_code", procErr.ExitCode,
			"stderr", procErr.Stderr,
			"ctx_err", ctx.Err(),
		)
		return nil, procErr
	}

	var raw map[string]rawResult
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		malErr := &MalformedOutputError{Err: err}
		p.log.Error("classifier output is not valid JSON",
			"error", err,
			"stdout", stdout.String(),
		)
		return nil, malErr
	}

	results := make(map[string]Result, len(raw))
	for modelName, entry := range raw {
		results[modelName] = buildResult(modelName, entry)
	}
	return results, nil
}

// Predict returns the result of a single model. An unknown model name is a
// soft miss, not an error.
func (p *Predictor) Predict(ctx context.Context, text, modelName string) (Result, error) {
	results, err := p.PredictAll(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if res, ok := results[modelName]; ok {
		return res, nil
	}

	return Result{
		ModelName:        modelName,
		Prediction:       LabelUnknown,
		Probabilities:    map[string]float64{},
		HumanProbability: 0.0,
		AIProbability:    0.0,
	}, nil
}

func buildResult(modelName string, entry rawResult) Result {
	probs := entry.Probabilities
	if probs == nil {
		probs = map[string]float64{}
	}

	return Result{
		ModelName:        modelName,
		Prediction:       normalizeLabel(decodePrediction(entry.Prediction)),
		Probabilities:    probs,
		HumanProbability: probabilityFor(probs, "1", LabelHuman),
		AIProbability:    probabilityFor(probs, "0", LabelAI),
	}
}

// decodePrediction flattens a string or numeric prediction field to a string.
func decodePrediction(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	}
	return strings.TrimSpace(string(raw))
}

// normalizeLabel maps the model-specific prediction encoding onto the two
// display labels: class 0 (or a literal "AI") is AI-authored, everything
// else is human-authored.
func normalizeLabel(prediction string) string {
	if prediction == "0" || strings.EqualFold(prediction, LabelAI) {
		return LabelAI
	}
	return LabelHuman
}

// probabilityFor looks up a class probability under either its numeric or
// named key. A missing key degrades to 0.0 instead of failing the call.
func probabilityFor(probs map[string]float64, numericKey, namedKey string) float64 {
	if v, ok := probs[numericKey]; ok {
		return v
	}
	if v, ok := probs[namedKey]; ok {
		return v
	}
	return 0.0
}
