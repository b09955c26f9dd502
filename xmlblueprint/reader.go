package xmlblueprint

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/hexworks/rig"
)

// Reader implements rig.BlueprintReader over the <blueprint-list> document
// shape defined in schema.go.
type Reader struct{}

// NewReader returns a Reader. It holds no state and a zero value works fine;
// the constructor exists for symmetry with Writer and the rest of the
// package's conventions.
func NewReader() *Reader {
	return &Reader{}
}

// Read decodes source as one <blueprint-list> document. A malformed XML
// document is reported as a fatal sink entry and a nil slice, not a Go
// error — per rig.BlueprintReader, the error return is reserved for
// conditions that prevent reading from proceeding at all.
func (r *Reader) Read(source io.Reader, sink rig.ErrorSink) ([]*rig.Blueprint, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(source).Decode(&doc); err != nil {
		sink.Add(rig.SeverityFatal, "malformed blueprint-list document", err)
		return nil, nil
	}

	blueprints := make([]*rig.Blueprint, 0, len(doc.Blueprints))
	for i, xbp := range doc.Blueprints {
		bp := blueprintFromXML(xbp)
		if err := validateBlueprint(bp); err != nil {
			sink.Add(rig.SeverityError, fmt.Sprintf("blueprint[%d]: %v", i, err), err)
			continue
		}
		blueprints = append(blueprints, bp)
	}
	return blueprints, nil
}

// validateBlueprint checks the document-level invariants a schema alone
// cannot express: every declared part must carry an identifier or a name
// (spec.md M5), a declared identifier and every <id-ref> must be a
// canonical UUID (spec.md §6: "128-bit values in lowercase hexadecimal with
// hyphens") — malformed ones are rejected here, at read time, rather than
// surfacing later as an opaque "part not found" once resolution runs — and
// every part-dictionary entry must carry a key.
func validateBlueprint(bp *rig.Blueprint) error {
	for _, p := range bp.Parts {
		id := p.PartIdentifier()
		name, hasName := p.PartName()
		if id == "" && !hasName {
			return fmt.Errorf("part declares neither id nor name")
		}
		if id != "" && !isCanonicalUUID(string(id)) {
			return fmt.Errorf("part identifier %q is not a canonical UUID", id)
		}
		if err := validateIDRefs(p); err != nil {
			return err
		}
		if coll, ok := p.(*rig.PartCollection); ok {
			for _, e := range coll.Entries {
				if coll.Kind == rig.CollectionDict && e.Key == "" {
					return fmt.Errorf("part-dictionary %q has an entry without a key", id)
				}
			}
		}
		_ = name
	}
	return nil
}

// validateIDRefs checks every id-ref reference reachable from p — a
// part's features, its collection entries — against the canonical UUID
// format.
func validateIDRefs(p rig.Part) error {
	check := func(ref rig.Reference) error {
		byID, ok := ref.(rig.ByID)
		if !ok || isCanonicalUUID(string(byID.ID)) {
			return nil
		}
		return fmt.Errorf("id-ref %q is not a canonical UUID", byID.ID)
	}
	switch v := p.(type) {
	case *rig.ConcretePart:
		for _, ref := range v.Features {
			if err := check(ref); err != nil {
				return err
			}
		}
	case *rig.PartCollection:
		for _, e := range v.Entries {
			if err := check(e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// isCanonicalUUID reports whether s is a UUID in its canonical lowercase,
// hyphenated rendering. uuid.Parse alone is too lenient (it also accepts
// upper-case, brace-wrapped, and unhyphenated forms), so the parsed value
// must round-trip back to the original string.
func isCanonicalUUID(s string) bool {
	parsed, err := uuid.Parse(s)
	return err == nil && parsed.String() == s
}
