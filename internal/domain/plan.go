package domain

import (
	"strings"
)

// PlanFilter selects artifacts by name and tag. An empty filter selects everything.
type PlanFilter struct {
	Names []string
	Tags  []string
}

// IsEmpty reports whether the filter selects every artifact
func (f PlanFilter) IsEmpty() bool {
	return len(f.Names) == 0 && len(f.Tags) == 0
}

func (f PlanFilter) String() string {
	if f.IsEmpty() {
		return "all artifacts"
	}
	var parts []string
	if len(f.Names) > 0 {
		parts = append(parts, "names="+strings.Join(f.Names, ","))
	}
	if len(f.Tags) > 0 {
		parts = append(parts, "tags="+strings.Join(f.Tags, ","))
	}
	return strings.Join(parts, " ")
}

// DeploymentPlan is the dependency-ordered list of specs for one invocation
type DeploymentPlan struct {
	Filter PlanFilter
	Steps  []*ArtifactSpec
}

// Names returns the step names in plan order
func (p *DeploymentPlan) Names() []string {
	names := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		names[i] = step.Name
	}
	return names
}

// Position returns the plan index of name, or -1
func (p *DeploymentPlan) Position(name string) int {
	for i, step := range p.Steps {
		if step.Name == name {
			return i
		}
	}
	return -1
}

// Batches groups steps into waves: every dependency of a step lies in an
// earlier wave. Within a wave, plan order is kept.
func (p *DeploymentPlan) Batches() [][]*ArtifactSpec {
	depth := make(map[string]int, len(p.Steps))
	var waves [][]*ArtifactSpec

	for _, step := range p.Steps {
		d := 0
		for _, dep := range step.DependsOn {
			if dd, ok := depth[dep]; ok && dd+1 > d {
				d = dd + 1
			}
		}
		depth[step.Name] = d
		for len(waves) <= d {
			waves = append(waves, nil)
		}
		waves[d] = append(waves[d], step)
	}

	return waves
}
