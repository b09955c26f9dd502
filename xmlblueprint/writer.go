package xmlblueprint

import (
	"encoding/xml"
	"io"

	"github.com/hexworks/rig"
)

// Writer implements rig.BlueprintWriter over the <blueprint-list> document
// shape defined in schema.go, round-tripping every declared (non-synthesized)
// field per P10.
type Writer struct {
	// Indent, when non-empty, is used as the per-level indentation prefix.
	// Left empty, output is unindented.
	Indent string
}

// NewWriter returns a Writer that indents output two spaces per level, the
// common default for hand-inspectable blueprint documents.
func NewWriter() *Writer {
	return &Writer{Indent: "  "}
}

// Write serialises blueprints as one <blueprint-list> document.
func (w *Writer) Write(out io.Writer, blueprints []*rig.Blueprint) error {
	doc := xmlDocument{Blueprints: make([]xmlBlueprint, len(blueprints))}
	for i, bp := range blueprints {
		doc.Blueprints[i] = blueprintToXML(bp)
	}

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", w.Indent)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}
