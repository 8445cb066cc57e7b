package io

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/linkboard/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension: .yaml and .yml
// select YAML, everything else JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func decode(r io.Reader, f Format, v any) error {
	var err error
	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(v)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return nil
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
}
