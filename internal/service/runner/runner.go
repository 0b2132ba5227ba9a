package runner

import (
	"bytes"
	"context"
	"log"

	lua "github.com/yuin/gopher-lua"
)

// Explainer produces a natural-language explanation for a snippet.
type Explainer interface {
	ExplainCode(ctx context.Context, source string) string
}

// Result carries everything one run produced. It is transient and never
// persisted.
type Result struct {
	Stdout      string  `json:"stdout"`
	Figure      *Figure `json:"figure,omitempty"`
	Err         string  `json:"error,omitempty"`
	Explanation string  `json:"explanation,omitempty"`
}

// Service executes Lua snippets in a throwaway interpreter state.
//
// Isolation is scope-level only: each run gets a fresh state, so snippets
// cannot see each other's globals or the host's variables, but the Lua
// standard library still reaches the OS. This is not a security boundary.
type Service struct {
	explainer Explainer
}

// NewService returns a runner. The explainer may be nil, in which case runs
// complete without the follow-up explanation call.
func NewService(explainer Explainer) *Service {
	return &Service{explainer: explainer}
}

// Run executes source and captures printed output, the most recently
// created figure, and any raised error. A faulting snippet terminates its
// own run only; the host process is unaffected.
func (s *Service) Run(ctx context.Context, source string) Result {
	L := lua.NewState()
	defer L.Close()

	var stdout bytes.Buffer
	bindOutput(L, &stdout)
	figures := bindPlot(L)

	var res Result
	if err := L.DoString(source); err != nil {
		res.Err = err.Error()
		res.Stdout = stdout.String()
		return res
	}

	res.Stdout = stdout.String()

	if spec := figures.last(); spec != nil {
		fig, err := renderSVG(spec)
		if err != nil {
			log.Printf("[runner] figure render failed: %v", err)
		} else {
			res.Figure = fig
		}
	}

	if s.explainer != nil {
		res.Explanation = s.explainer.ExplainCode(ctx, source)
	}

	return res
}

// bindOutput redirects print and io.write into buf for the lifetime of the
// state, so a run's output can be returned to the caller.
func bindOutput(L *lua.LState, buf *bytes.Buffer) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				buf.WriteByte('\t')
			}
			buf.WriteString(L.ToStringMeta(L.Get(i)).String())
		}
		buf.WriteByte('\n')
		return 0
	}))

	if ioMod, ok := L.GetGlobal("io").(*lua.LTable); ok {
		ioMod.RawSetString("write", L.NewFunction(func(L *lua.LState) int {
			top := L.GetTop()
			for i := 1; i <= top; i++ {
				buf.WriteString(L.CheckString(i))
			}
			return 0
		}))
	}
}
