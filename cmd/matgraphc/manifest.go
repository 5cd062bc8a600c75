package main

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/matgraph/hlsl"
)

// manifest is the on-disk form of a compiled graph's resource manifest.
type manifest struct {
	Graph      string             `yaml:"graph"`
	ID         string             `yaml:"id,omitempty"`
	Source     string             `yaml:"source,omitempty"`
	EntryPoint string             `yaml:"entry_point"`
	Profile    string             `yaml:"profile"`
	Features   []string           `yaml:"features,omitempty"`
	Helpers    []string           `yaml:"helpers,omitempty"`
	Resources  []manifestResource `yaml:"resources"`
	Operations manifestOperations `yaml:"operations"`
}

type manifestResource struct {
	Category string          `yaml:"category"`
	Name     string          `yaml:"name"`
	Register string          `yaml:"register"`
	Space    uint8           `yaml:"space"`
	Type     string          `yaml:"type,omitempty"`
	Object   string          `yaml:"object,omitempty"`
	Size     uint32          `yaml:"size,omitempty"`
	Fields   []manifestField `yaml:"fields,omitempty"`
}

type manifestField struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Offset uint32 `yaml:"offset"`
}

type manifestOperations struct {
	Total        int `yaml:"total"`
	Materialized int `yaml:"materialized"`
	Inlined      int `yaml:"inlined"`
	Eliminated   int `yaml:"eliminated"`
}

func newManifest(j *job, source string) *manifest {
	info := j.result.Info
	m := &manifest{
		Graph:      j.doc.Name,
		Source:     source,
		EntryPoint: info.EntryPoint,
		Profile:    info.Profile,
		Features:   featureList(info.UsedFeatures),
		Helpers:    info.HelperFunctions,
		Resources:  make([]manifestResource, 0, len(info.Resources)),
		Operations: manifestOperations{
			Total:        info.Operations,
			Materialized: info.Materialized,
			Inlined:      info.Inlined,
			Eliminated:   info.Eliminated,
		},
	}
	if j.doc.ID != uuid.Nil {
		m.ID = j.doc.ID.String()
	}
	for _, r := range info.Resources {
		mr := manifestResource{
			Category: r.Category.String(),
			Name:     r.Name,
			Register: r.Register(),
			Space:    r.Target.Space,
			Object:   r.Object,
			Size:     r.Size,
		}
		if !r.ElementType.IsUnknown() {
			mr.Type = r.ElementType.String()
		}
		for _, f := range r.Fields {
			mr.Fields = append(mr.Fields, manifestField{Name: f.Name, Type: f.Type.String(), Offset: f.Offset})
		}
		m.Resources = append(m.Resources, mr)
	}
	return m
}

func featureList(f hlsl.FeatureFlags) []string {
	if f == hlsl.FeatureNone {
		return nil
	}
	return strings.Split(f.String(), ", ")
}

func encodeManifest(m *manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
