package loot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/trove/pkg/domain"
)

// ParamUser is implemented by nodes that read evaluation parameters.
type ParamUser interface {
	ReferencedParams() []string
}

// ProblemCollector is the sink shared by every context of one validation run.
type ProblemCollector struct {
	problems []domain.Problem
}

// Report appends a problem.
func (p *ProblemCollector) Report(path, message string) {
	p.problems = append(p.problems, domain.Problem{Path: path, Message: message})
}

// Problems returns the problems in report order.
func (p *ProblemCollector) Problems() []domain.Problem {
	return slices.Clone(p.problems)
}

// ValidationContext threads the current path, parameter set and static visited
// path through a recursive validation. Methods never mutate the receiver.
type ValidationContext struct {
	sink     *ProblemCollector
	path     string
	params   domain.ParamSet
	resolver Resolver
	visited  []domain.Identity
}

// NewValidationContext creates a root context.
func NewValidationContext(sink *ProblemCollector, params domain.ParamSet, resolver Resolver) ValidationContext {
	return ValidationContext{sink: sink, params: params, resolver: resolver}
}

// ForChild extends the path.
func (vc ValidationContext) ForChild(suffix string) ValidationContext {
	vc.path += suffix
	return vc
}

// Indexed extends the path with an index-qualified segment such as ".pools[2]".
func (vc ValidationContext) Indexed(field string, i int) ValidationContext {
	return vc.ForChild(fmt.Sprintf(".%s[%d]", field, i))
}

// EnterElement extends the path and records id as visited.
func (vc ValidationContext) EnterElement(suffix string, id domain.Identity) ValidationContext {
	vc.path += suffix
	vc.visited = append(slices.Clip(vc.visited), id)
	return vc
}

// HasVisited reports whether id is already on this context's path.
func (vc ValidationContext) HasVisited(id domain.Identity) bool {
	return slices.Contains(vc.visited, id)
}

// WithParams replaces the parameter set.
func (vc ValidationContext) WithParams(params domain.ParamSet) ValidationContext {
	vc.params = params
	return vc
}

// Params returns the parameter set being validated against.
func (vc ValidationContext) Params() domain.ParamSet { return vc.params }

// Resolver returns the candidate snapshot.
func (vc ValidationContext) Resolver() Resolver { return vc.resolver }

// Path returns the current path.
func (vc ValidationContext) Path() string { return vc.path }

// Report records a problem at the current path.
func (vc ValidationContext) Report(message string) {
	vc.sink.Report(vc.path, message)
}

// Reportf records a formatted problem at the current path.
func (vc ValidationContext) Reportf(format string, args ...any) {
	vc.sink.Report(vc.path, fmt.Sprintf(format, args...))
}

// ValidateUser checks that every parameter node reads is allowed here.
func (vc ValidationContext) ValidateUser(node any) {
	user, ok := node.(ParamUser)
	if !ok {
		return
	}
	var unknown []string
	for _, name := range user.ReferencedParams() {
		if !vc.params.IsAllowed(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		vc.Reportf("parameters [%s] are not provided in this context (%s)", strings.Join(unknown, ", "), vc.params.Name)
	}
}

func validateConditions(vc ValidationContext, conditions []Condition) {
	for i, c := range conditions {
		c.Validate(vc.Indexed("conditions", i))
	}
}

func validateTransforms(vc ValidationContext, transforms []Transform) {
	for i, t := range transforms {
		t.Validate(vc.Indexed("functions", i))
	}
}
