// Package artifact writes output files (drawings, updated boards) to a
// storage target.
//
// A [Sink] accepts named blobs. [DirSink] writes below a local directory,
// [S3Sink] uploads to an S3 bucket and [MemorySink] keeps blobs in memory
// for the HTTP server and tests. Names are plain file names; they are
// validated so that no sink can be made to write outside its root.
package artifact

import (
	"context"
	"path"

	"github.com/matzehuels/linkboard/pkg/errors"
)

// Common artifact names.
const (
	DrawingName = "drawing.svg"
)

// Content types used by the pipeline.
const (
	ContentTypeSVG   = "image/svg+xml"
	ContentTypeBoard = "application/x-kicad-pcb"
	ContentTypeJSON  = "application/json"
)

// ContentType guesses the content type from the file extension.
func ContentType(name string) string {
	switch path.Ext(name) {
	case ".svg":
		return ContentTypeSVG
	case ".kicad_pcb":
		return ContentTypeBoard
	case ".json":
		return ContentTypeJSON
	default:
		return "application/octet-stream"
	}
}

// Sink stores artifacts. Put returns a location string that identifies the
// stored artifact (a file path, an s3:// URL, or the name for memory sinks).
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

func validate(name string) error {
	return errors.ValidateArtifactName(name)
}
