// Package onnx runs the emotion model in-process with ONNX Runtime.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ai-journaling-be/pkg/emotion/tokenizer"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv is the process-wide runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Config describes where the model lives and how sessions are sized.
type Config struct {
	ModelPath    string
	LibraryPath  string
	PoolSize     int
	IntraThreads int
	InterThreads int
	NumLabels    int
	PadID        int64
}

// Backend is a pool of sessions over one model file. Each call borrows a
// session, so concurrent requests never share one.
type Backend struct {
	sessions   chan *session
	inputNames []string
	outputName string
	numLabels  int64
	padID      int64

	closeOnce sync.Once
}

type session struct {
	s *ort.DynamicAdvancedSession
}

// New loads the model and creates cfg.PoolSize sessions.
func New(cfg Config) (*Backend, error) {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	if cfg.IntraThreads <= 0 {
		cfg.IntraThreads = 4
	}
	if cfg.InterThreads <= 0 {
		cfg.InterThreads = 1
	}

	if err := initORT(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	inputNames, err := validateInputs(inputs)
	if err != nil {
		return nil, err
	}
	outputName, dims, err := selectOutput(outputs)
	if err != nil {
		return nil, err
	}

	numLabels := int64(cfg.NumLabels)
	if len(dims) == 2 && dims[1] > 0 {
		if numLabels > 0 && dims[1] != numLabels {
			return nil, fmt.Errorf("onnx: model emits %d classes but %d labels are configured", dims[1], numLabels)
		}
		numLabels = dims[1]
	}
	if numLabels <= 0 {
		return nil, fmt.Errorf("onnx: cannot determine label count from output %v", dims)
	}

	b := &Backend{
		sessions:   make(chan *session, cfg.PoolSize),
		inputNames: inputNames,
		outputName: outputName,
		numLabels:  numLabels,
		padID:      cfg.PadID,
	}
	for i := 0; i < cfg.PoolSize; i++ {
		s, err := newSession(cfg, inputNames, outputName)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("onnx: create session %d/%d: %w", i+1, cfg.PoolSize, err)
		}
		b.sessions <- s
	}
	return b, nil
}

func newSession(cfg Config, inputNames []string, outputName string) (*session, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer opts.Destroy()

	if err := opts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return nil, fmt.Errorf("set graph optimization: %w", err)
	}
	if err := opts.SetIntraOpNumThreads(cfg.IntraThreads); err != nil {
		return nil, fmt.Errorf("set intra threads: %w", err)
	}
	if err := opts.SetInterOpNumThreads(cfg.InterThreads); err != nil {
		return nil, fmt.Errorf("set inter threads: %w", err)
	}

	s, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputName}, opts)
	if err != nil {
		return nil, err
	}
	return &session{s: s}, nil
}

// validateInputs returns the model's inputs in feed order. DistilBERT has no
// token_type_ids; BERT does.
func validateInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	names := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		names[in.Name] = true
	}
	for _, req := range []string{"input_ids", "attention_mask"} {
		if !names[req] {
			return nil, fmt.Errorf("onnx: model missing required input %q", req)
		}
	}
	feed := []string{"input_ids", "attention_mask"}
	if names["token_type_ids"] {
		feed = append(feed, "token_type_ids")
	}
	return feed, nil
}

// selectOutput prefers an output named "logits".
func selectOutput(outputs []ort.InputOutputInfo) (string, []int64, error) {
	if len(outputs) == 0 {
		return "", nil, errors.New("onnx: model has no outputs")
	}
	for _, out := range outputs {
		if strings.EqualFold(out.Name, "logits") {
			return out.Name, out.Dimensions, nil
		}
	}
	if len(outputs) == 1 {
		return outputs[0].Name, outputs[0].Dimensions, nil
	}
	names := make([]string, len(outputs))
	for i, o := range outputs {
		names[i] = o.Name
	}
	return "", nil, fmt.Errorf("onnx: multiple outputs without logits: %v", names)
}

// Logits runs one padded forward pass over the batch.
func (b *Backend) Logits(ctx context.Context, batch []tokenizer.Encoding) ([][]float32, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	var s *session
	select {
	case s = <-b.sessions:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { b.sessions <- s }()

	packed := tokenizer.Pad(batch, b.padID)
	flat, err := s.run(packed, b.inputNames, b.numLabels)
	if err != nil {
		return nil, err
	}

	rows := make([][]float32, packed.BatchSize)
	for i := range rows {
		off := int64(i) * b.numLabels
		rows[i] = flat[off : off+b.numLabels]
	}
	return rows, nil
}

func (s *session) run(batch tokenizer.Batch, inputNames []string, numLabels int64) ([]float32, error) {
	shape := ort.NewShape(batch.BatchSize, batch.SeqLen)

	feeds := map[string][]int64{
		"input_ids":      batch.InputIDs,
		"attention_mask": batch.AttentionMask,
		"token_type_ids": batch.TokenTypeIDs,
	}
	inputs := make([]ort.Value, 0, len(inputNames))
	defer func() {
		for _, v := range inputs {
			v.Destroy()
		}
	}()
	for _, name := range inputNames {
		t, err := ort.NewTensor(shape, feeds[name])
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create %s tensor: %w", name, err)
		}
		inputs = append(inputs, t)
	}

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(batch.BatchSize, numLabels))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := s.s.Run(inputs, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	// Copy before the tensor is destroyed.
	src := out.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, nil
}

// Close destroys every pooled session. Calls in flight must finish first.
func (b *Backend) Close() error {
	var errs []error
	b.closeOnce.Do(func() {
		n := len(b.sessions)
		for i := 0; i < n; i++ {
			s := <-b.sessions
			if err := s.s.Destroy(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
