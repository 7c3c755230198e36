// Package resolver computes the ordered list of buckets to create from the
// heterogeneous configuration sources: primary template resources, secondary
// stacks, and explicit run configuration.
package resolver

import (
	"sort"

	"github.com/offlinehq/s3local/pkg/stack"
)

// Bucket sources, as reported in plan entries.
const (
	SourceResources = "resources"
	SourceExplicit  = "explicit"
)

// PlanEntry is one bucket in the resolved plan. Source names where the
// winning declaration came from: the primary resources section, a secondary
// stack by name, or explicit run configuration.
type PlanEntry struct {
	Name   string
	Source string
}

// Plan merges bucket declarations into one ordered plan.
//
// Secondary stacks are applied in their declared order; every bucket-type
// resource they carry overwrites any primary entry under the same resource
// key (last writer wins). The merged mapping is then walked in sorted key
// order, emitting only bucket resources with a literal name; resources that
// rely on auto-generated naming are skipped entirely. Explicit buckets are
// appended last, preserving their given order.
//
// The result is not deduplicated: create-bucket is idempotent downstream, so
// duplicates are harmless.
func Plan(resources map[string]stack.Resource, stacks []stack.AdditionalStack, explicit []string) []PlanEntry {
	type sourced struct {
		res    stack.Resource
		source string
	}
	merged := make(map[string]sourced, len(resources))
	for key, res := range resources {
		merged[key] = sourced{res: res, source: SourceResources}
	}
	for _, st := range stacks {
		for key, res := range st.Resources {
			if res.Type == stack.BucketResourceType {
				merged[key] = sourced{res: res, source: st.Name}
			}
		}
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	plan := make([]PlanEntry, 0, len(keys)+len(explicit))
	for _, key := range keys {
		entry := merged[key]
		if name, ok := entry.res.BucketName(); ok {
			plan = append(plan, PlanEntry{Name: name, Source: entry.source})
		}
	}
	for _, name := range explicit {
		plan = append(plan, PlanEntry{Name: name, Source: SourceExplicit})
	}
	return plan
}

// Resolve is Plan reduced to the ordered bucket names.
func Resolve(resources map[string]stack.Resource, stacks []stack.AdditionalStack, explicit []string) []string {
	plan := Plan(resources, stacks, explicit)
	buckets := make([]string, len(plan))
	for i, entry := range plan {
		buckets[i] = entry.Name
	}
	return buckets
}

// PlanTemplate builds the plan from a full template, honoring the
// secondary-stacks extension only when the template declares its plugin.
func PlanTemplate(tmpl *stack.Template, explicit []string) []PlanEntry {
	if tmpl == nil {
		return Plan(nil, nil, explicit)
	}
	var stacks []stack.AdditionalStack
	if tmpl.HasAdditionalStacksPlugin() {
		stacks = tmpl.Custom.AdditionalStacks
	}
	return Plan(tmpl.Resources.Resources, stacks, explicit)
}

// ResolveTemplate is PlanTemplate reduced to the ordered bucket names.
func ResolveTemplate(tmpl *stack.Template, explicit []string) []string {
	plan := PlanTemplate(tmpl, explicit)
	buckets := make([]string, len(plan))
	for i, entry := range plan {
		buckets[i] = entry.Name
	}
	return buckets
}
