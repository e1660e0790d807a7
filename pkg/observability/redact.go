package observability

import (
	"context"
	"regexp"

	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

// Redactor masks trace patch values whose keys match any of the configured
// patterns before forwarding. Login flows carry usernames and similar facts
// through edge patches and rich events; redaction keeps them out of logs
// and metrics pipelines without touching the session itself.
type Redactor struct {
	next     ports.EventSink
	patterns []*regexp.Regexp
}

// NewRedactor compiles the key patterns and wraps next.
func NewRedactor(next ports.EventSink, patternStrings []string) *Redactor {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return &Redactor{next: next, patterns: patterns}
}

// Emit implements ports.EventSink.
func (r *Redactor) Emit(ctx context.Context, ev domain.TraceEvent) {
	if len(ev.Patch) > 0 {
		masked := make(map[string]string, len(ev.Patch))
		for k, v := range ev.Patch {
			if r.matches(k) {
				v = "***"
			}
			masked[k] = v
		}
		ev.Patch = masked
	}
	r.next.Emit(ctx, ev)
}

func (r *Redactor) matches(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
