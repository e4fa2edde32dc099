// Package contract embeds the OpenAPI description of the wizard's HTTP
// surface and the upstream services it consumes. Components check their
// routes against it so the published contract and the mounted handlers cannot
// drift apart silently.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var embeddedSpec []byte

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	if ctx == nil {
		return nil, errors.New("contract: context is required")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(embeddedSpec)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	return spec, nil
}

// Operation locates an operation by method and path.
func Operation(spec *openapi3.T, method, path string) (*openapi3.Operation, error) {
	if spec == nil || spec.Paths == nil {
		return nil, errors.New("contract: document has no paths")
	}
	item := spec.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("contract: path %q not found", path)
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil {
		return nil, fmt.Errorf("contract: %s %s not found", strings.ToUpper(method), path)
	}
	return op, nil
}

// MustHave verifies every method/path pair exists, returning the first
// failure. Component tests use it as a drift check.
func MustHave(spec *openapi3.T, routes map[string]string) error {
	for path, method := range routes {
		if _, err := Operation(spec, method, path); err != nil {
			return err
		}
	}
	return nil
}
