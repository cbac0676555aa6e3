// Package model loads serialized regression artifacts produced by the
// offline training job and serves predictions from them. An artifact
// records the exact feature list and weight-configuration version it was
// trained against; both are verified at load time so a stale or misaligned
// artifact can never silently skew serving-time scores.
package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Model kinds understood by the loader.
const (
	KindLinear = "linear"
	KindForest = "forest"
)

// Artifact is the on-disk model document. Params is decoded into a
// kind-specific parameter struct after validation.
type Artifact struct {
	Kind          string         `json:"kind"`
	SchemaVariant string         `json:"schema_variant"`
	ConfigVersion string         `json:"config_version"`
	Features      []string       `json:"features"`
	Params        map[string]any `json:"params"`
	TrainedAt     string         `json:"trained_at,omitempty"`
	TrainingRows  int            `json:"training_rows,omitempty"`
}

//go:embed artifact_schema.json
var artifactSchemaJSON []byte

// LoadArtifact reads a model artifact from disk. Files ending in .gz are
// decompressed first. The document is validated against the artifact JSON
// schema before decoding, so structural problems surface as load errors
// rather than downstream prediction failures.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("model: decompress %s: %w", path, err)
		}
		defer zr.Close() //nolint:errcheck
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", path, err)
	}

	if err := validateArtifactDocument(data); err != nil {
		return nil, fmt.Errorf("model: artifact %s: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("model: parse %s: %w", path, err)
	}
	return &art, nil
}

// validateArtifactDocument checks the raw artifact JSON against the
// embedded schema.
func validateArtifactDocument(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(artifactSchemaJSON)))
	if err != nil {
		return fmt.Errorf("parsing embedded artifact schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("artifact_schema.json", schemaDoc); err != nil {
		return fmt.Errorf("adding artifact schema resource: %w", err)
	}
	schema, err := compiler.Compile("artifact_schema.json")
	if err != nil {
		return fmt.Errorf("compiling artifact schema: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// WriteArtifact serializes an artifact to disk, gzip-compressing when the
// path ends in .gz. Used by tooling and tests; the production artifact is
// written by the offline training job through the same contract.
func WriteArtifact(path string, art *Artifact) error {
	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("model: marshal artifact: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("model: create %s: %w", path, err)
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}

	if _, err := w.Write(data); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("model: write %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close() //nolint:errcheck
			return fmt.Errorf("model: flush %s: %w", path, err)
		}
	}
	return f.Close()
}
