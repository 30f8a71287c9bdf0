package generation

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

var _ Generator = (*Static)(nil)

// Static is an in-process Generator that answers from a fixed table. Each
// rule matches when its Contains text appears in the prompt; the first match
// wins. A rule with Err set fails instead of answering. It exists for tests
// and local demos, never for production traffic.
type Static struct {
	Rules []Rule

	calls atomic.Int64
}

// Rule is one entry in a Static table.
type Rule struct {
	Contains string
	Reply    string
	Err      error
}

// Generate implements Generator.
func (s *Static) Generate(ctx context.Context, prompt, model string) (string, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range s.Rules {
		if strings.Contains(prompt, r.Contains) {
			if r.Err != nil {
				return "", r.Err
			}
			return r.Reply, nil
		}
	}
	return "", fmt.Errorf("static: no rule matches prompt for model %s", model)
}

// Calls returns how many times Generate has been invoked.
func (s *Static) Calls() int { return int(s.calls.Load()) }
