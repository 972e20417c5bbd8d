package engine

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"github.com/mkrv/querybox/capability"
	"github.com/mkrv/querybox/metrics"
	"github.com/mkrv/querybox/provider"
)

// Registry supplies the closed binding table for one execution.
type Registry interface {
	Build(ctx context.Context) []capability.Entry
}

// Engine compiles and runs snippets. It is stateless across executions:
// every request gets a fresh runtime and a fresh registry, so concurrent
// executions share nothing.
type Engine struct {
	registry Registry
	log      *zap.Logger
	metrics  *metrics.Recorder
}

// New creates an Engine. The metrics recorder may be nil.
func New(registry Registry, log *zap.Logger, rec *metrics.Recorder) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{registry: registry, log: log, metrics: rec}
}

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*[ \t]*\r?\n?")
	fenceClose = regexp.MustCompile("\r?\n?```$")
)

// normalize strips surrounding code-fence markers and whitespace. No
// syntax validation happens here; that is the compiler's job.
func normalize(code string) string {
	s := strings.TrimSpace(code)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Execute runs one snippet to completion and returns its value or a
// Failure. The engine imposes no timeout of its own; cancelling ctx
// interrupts the runtime.
func (e *Engine) Execute(ctx context.Context, code string) (any, *Failure) {
	start := time.Now()
	value, failure := e.execute(ctx, code)
	if e.metrics != nil {
		outcome := "succeeded"
		if failure != nil {
			outcome = string(failure.Kind)
		}
		e.metrics.RecordExecution(outcome, time.Since(start).Seconds())
	}
	return value, failure
}

func (e *Engine) execute(ctx context.Context, code string) (any, *Failure) {
	body := normalize(code)
	e.log.Debug("snippet normalized", zap.Int("bytes", len(body)))

	entries := e.registry.Build(ctx)
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}

	// The capability names become the function's only parameters; the
	// snippet body resolves nothing else beyond the JS builtins.
	src := "(async (" + strings.Join(names, ", ") + ") => {\n" + body + "\n})"
	prog, err := goja.Compile("snippet.js", src, true)
	if err != nil {
		return nil, e.fail(&Failure{Kind: KindCompilation, Message: "code is not a syntactically valid unit", Cause: err})
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	if done := ctx.Done(); done != nil {
		finished := make(chan struct{})
		defer close(finished)
		go func() {
			select {
			case <-done:
				vm.Interrupt(ctx.Err())
			case <-finished:
			}
		}()
	}

	fnValue, err := vm.RunProgram(prog)
	if err != nil {
		return nil, e.fail(e.classify(err))
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return nil, e.fail(&Failure{Kind: KindCompilation, Message: "compiled unit is not callable"})
	}

	args := make([]goja.Value, len(entries))
	for i, entry := range entries {
		args[i] = vm.ToValue(entry.Value)
	}

	e.log.Debug("snippet running", zap.Int("capabilities", len(entries)))
	result, err := fn(goja.Undefined(), args...)
	if err != nil {
		return nil, e.fail(e.classify(err))
	}

	promise, ok := result.Export().(*goja.Promise)
	if !ok {
		// Not reachable with the async wrapper, kept for safety.
		return result.Export(), nil
	}
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return promise.Result().Export(), nil
	case goja.PromiseStateRejected:
		return nil, e.fail(e.classifyRejection(promise.Result()))
	default:
		return nil, e.fail(&Failure{Kind: KindExecution, Message: "execution did not settle; a pending operation never resolved"})
	}
}

// classify maps an error thrown out of the runtime onto the taxonomy.
func (e *Engine) classify(err error) *Failure {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &Failure{Kind: KindExecution, Message: "execution interrupted", Cause: err}
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return e.classifyRejection(exception.Value())
	}
	return &Failure{Kind: KindExecution, Message: "execution failed", Cause: err}
}

// classifyRejection maps a thrown or rejected JS value onto the
// taxonomy. Capability errors cross the boundary as Go errors wrapped by
// the runtime.
func (e *Engine) classifyRejection(value goja.Value) *Failure {
	if value == nil {
		return &Failure{Kind: KindExecution, Message: "executed code raised"}
	}
	if cause := exportedError(value); cause != nil {
		var apiErr *provider.APIError
		if errors.As(cause, &apiErr) {
			return &Failure{Kind: KindCapability, Message: "capability lookup failed", Cause: cause}
		}
		return &Failure{Kind: KindExecution, Message: "executed code raised", Cause: cause}
	}
	return &Failure{Kind: KindExecution, Message: value.String()}
}

// exportedError digs the Go error out of a thrown value. Errors returned
// by bound Go functions cross into JS as Error objects carrying the
// original error under a "value" property.
func exportedError(value goja.Value) error {
	if err, ok := value.Export().(error); ok {
		return err
	}
	if obj, ok := value.(*goja.Object); ok {
		if v := obj.Get("value"); v != nil {
			if err, ok := v.Export().(error); ok {
				return err
			}
		}
	}
	return nil
}

// fail logs the failure before it is returned. Failures are surfaced to
// the caller exactly once and never retried.
func (e *Engine) fail(f *Failure) *Failure {
	e.log.Warn("execution failed",
		zap.String("kind", string(f.Kind)),
		zap.String("message", f.Message),
		zap.Error(f.Cause))
	return f
}
