package contained

import (
	"github.com/dshills/inlay/internal/engine/buffer"
	"github.com/dshills/inlay/internal/rules"
	"github.com/dshills/inlay/internal/workspace"
)

// Document is the record pairing a tracked-document handle with the subject
// and data buffers it was created from, plus the formatting-rule
// configuration in effect. The association is immutable for the document's
// lifetime.
type Document struct {
	handle   workspace.Handle
	key      string
	language string
	subject  *buffer.Buffer
	data     *buffer.Buffer
	rules    rules.Rules
}

// Handle returns the workspace handle of the tracked document.
func (d *Document) Handle() workspace.Handle {
	return d.handle
}

// Key returns the stable registration key.
func (d *Document) Key() string {
	return d.key
}

// Language returns the embedded language identifier.
func (d *Document) Language() string {
	return d.language
}

// SubjectBuffer returns the embedded-language buffer.
func (d *Document) SubjectBuffer() *buffer.Buffer {
	return d.subject
}

// DataBuffer returns the host document buffer.
func (d *Document) DataBuffer() *buffer.Buffer {
	return d.data
}

// Rules returns the formatting-rule configuration.
func (d *Document) Rules() rules.Rules {
	return d.rules
}
