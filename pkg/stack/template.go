// Package stack models the declarative deployment template: the resource
// declarations, custom settings block, and plugin list supplied by the
// deployment tooling.
package stack

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// BucketResourceType marks a template resource as an object-storage bucket.
	BucketResourceType = "AWS::S3::Bucket"

	// AdditionalStacksPlugin is the plugin name whose presence in the
	// template's plugin list enables the secondary-stacks extension.
	AdditionalStacksPlugin = "serverless-plugin-additional-stacks"
)

// Template is the parsed deployment template.
type Template struct {
	// Service is the deployment's service name (informational).
	Service string `yaml:"service"`

	// Plugins lists the plugins declared by the template.
	Plugins []string `yaml:"plugins"`

	// Resources holds the primary resource declarations.
	Resources ResourceSection `yaml:"resources"`

	// Custom holds the template's custom settings, including the emulator
	// settings block and the optional additional stacks.
	Custom Custom `yaml:"custom"`
}

// ResourceSection wraps the template's resource mapping.
type ResourceSection struct {
	Resources map[string]Resource `yaml:"Resources"`
}

// Resource is a single declared resource. Properties are kept loosely typed:
// bucket names may be intrinsic functions or references rather than literal
// strings, and those must be tolerated, not rejected.
type Resource struct {
	Type       string         `yaml:"Type"`
	Properties map[string]any `yaml:"Properties"`
}

// BucketName returns the resource's literal bucket name. It reports false
// when the resource is not a bucket, carries no BucketName property, or the
// property is not a non-empty literal string.
func (r Resource) BucketName() (string, bool) {
	if r.Type != BucketResourceType {
		return "", false
	}
	name, ok := r.Properties["BucketName"].(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Custom is the template's custom settings block.
type Custom struct {
	// S3 is the declarative emulator settings block.
	S3 Settings `yaml:"s3"`

	// AdditionalStacks holds the secondary stacks in declaration order.
	AdditionalStacks StackList `yaml:"additionalStacks"`
}

// Settings is the declarative layer of the run configuration. All fields are
// optional; explicit run options win on key collision.
type Settings struct {
	Port      *int     `yaml:"port"`
	Address   *string  `yaml:"address"`
	Directory *string  `yaml:"directory"`
	Cors      *bool    `yaml:"cors"`
	NoStart   *bool    `yaml:"noStart"`
	Buckets   []string `yaml:"buckets"`
}

// AdditionalStack is one secondary stack's resource mapping.
type AdditionalStack struct {
	Name      string
	Resources map[string]Resource
}

// StackList preserves the document declaration order of additional stacks.
// Merge order is a contract: primary resources first, then secondary stacks
// in their declared order, last writer wins.
type StackList []AdditionalStack

// UnmarshalYAML decodes a YAML mapping of stack name to stack body, keeping
// the entries in document order.
func (s *StackList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("additionalStacks: expected a mapping, got %v", value.Kind)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("additionalStacks: decode stack name: %w", err)
		}
		var body struct {
			Resources map[string]Resource `yaml:"Resources"`
		}
		if err := value.Content[i+1].Decode(&body); err != nil {
			return fmt.Errorf("additionalStacks: decode stack %q: %w", name, err)
		}
		*s = append(*s, AdditionalStack{Name: name, Resources: body.Resources})
	}
	return nil
}

// HasAdditionalStacksPlugin reports whether the template declares the
// secondary-stacks extension.
func (t *Template) HasAdditionalStacksPlugin() bool {
	for _, p := range t.Plugins {
		if p == AdditionalStacksPlugin {
			return true
		}
	}
	return false
}

// Load reads and parses a deployment template from path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %q: %w", path, err)
	}
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", path, err)
	}
	return &tmpl, nil
}
