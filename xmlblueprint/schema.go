// Package xmlblueprint implements the reference XML document shape for
// blueprints (spec.md §6: "Document schema (when the concrete reader is
// XML-shaped, as in the reference implementation)"). It is an optional
// BlueprintReader/BlueprintWriter adapter — the core rig package never
// imports it.
package xmlblueprint

import "encoding/xml"

// xmlDocument is the root <blueprint-list> element.
type xmlDocument struct {
	XMLName    xml.Name       `xml:"blueprint-list"`
	Blueprints []xmlBlueprint `xml:"blueprint"`
}

type xmlBlueprint struct {
	Namespace string      `xml:"namespace,attr,omitempty"`
	Aliases   *xmlAliases `xml:"type-aliases"`
	Parts     xmlParts    `xml:"parts"`
}

type xmlAliases struct {
	Entries []xmlAlias `xml:"alias"`
}

type xmlAlias struct {
	Name string     `xml:"name,attr"`
	Type xmlTypeRef `xml:"type"`
}

// xmlTypeRef is a (possibly parameterised) type reference.
type xmlTypeRef struct {
	Name   string         `xml:"name,attr"`
	Params []xmlTypeParam `xml:"param"`
}

type xmlTypeParam struct {
	Key  string     `xml:"key,attr"`
	Type xmlTypeRef `xml:"type"`
}

// xmlParts groups the five top-level part-declaration shapes. Declaration
// order across kinds is not semantically significant (only the order of
// entries within one collection is, per P8), so they are kept in separate,
// kind-homogeneous slices rather than one polymorphic slice.
type xmlParts struct {
	Concrete   []xmlConcretePart   `xml:"part"`
	External   []xmlExternalPart   `xml:"external-part"`
	Undefined  []xmlUndefinedPart  `xml:"undefined-part"`
	PartLists  []xmlPartList       `xml:"part-list"`
	PartDicts  []xmlPartDictionary `xml:"part-dictionary"`
}

// xmlConcretePart covers both top-level <part> elements and the nested
// <inline> part a reference may embed.
type xmlConcretePart struct {
	ID          string       `xml:"id,attr,omitempty"`
	Name        string       `xml:"name,attr,omitempty"`
	Scheme      string       `xml:"scheme,attr,omitempty"`
	Type        *xmlTypeRef  `xml:"runtime-type"`
	TypeAlias   string       `xml:"runtime-type-alias,omitempty"`
	Constructor *xmlCtorRef  `xml:"constructor"`
	Features    *xmlFeatures `xml:"features"`
	Properties  *xmlProps    `xml:"properties"`
	Metadata    *xmlMetadata `xml:"metadata"`
}

type xmlCtorRef struct {
	Name string `xml:"name,attr"`
}

type xmlFeatures struct {
	Entries []xmlFeatureEntry `xml:"feature"`
}

type xmlFeatureEntry struct {
	Key string `xml:"key,attr"`
	xmlRefHolder
}

type xmlProps struct {
	Entries []xmlPropertyEntry `xml:"property"`
}

type xmlPropertyEntry struct {
	Key   string  `xml:"key,attr"`
	Value *string `xml:"value"`
	URI   *string `xml:"uri"`
}

type xmlMetadata struct {
	Entries []xmlMetaEntry `xml:"entry"`
}

type xmlMetaEntry struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlExternalPart struct {
	ID       string       `xml:"id,attr,omitempty"`
	Name     string       `xml:"name,attr,omitempty"`
	Scheme   string       `xml:"scheme,attr,omitempty"`
	Metadata *xmlMetadata `xml:"metadata"`
}

type xmlUndefinedPart struct {
	ID       string       `xml:"id,attr,omitempty"`
	Name     string       `xml:"name,attr,omitempty"`
	Metadata *xmlMetadata `xml:"metadata"`
}

type xmlPartList struct {
	ID        string      `xml:"id,attr,omitempty"`
	Name      string      `xml:"name,attr,omitempty"`
	Type      *xmlTypeRef `xml:"runtime-type"`
	TypeAlias string      `xml:"runtime-type-alias,omitempty"`
	Entries   []xmlEntry  `xml:"entry"`
}

type xmlPartDictionary struct {
	ID        string         `xml:"id,attr,omitempty"`
	Name      string         `xml:"name,attr,omitempty"`
	Type      *xmlTypeRef    `xml:"runtime-type"`
	TypeAlias string         `xml:"runtime-type-alias,omitempty"`
	Entries   []xmlDictEntry `xml:"entry"`
}

type xmlEntry struct {
	xmlRefHolder
}

type xmlDictEntry struct {
	Key string `xml:"key,attr"`
	xmlRefHolder
}

// xmlRefHolder is embedded wherever a reference element (id-ref | name-ref |
// uri-ref | constant | inline) may appear; exactly one field is non-nil.
type xmlRefHolder struct {
	IDRef    *string          `xml:"id-ref"`
	NameRef  *string          `xml:"name-ref"`
	URIRef   *string          `xml:"uri-ref"`
	Constant *string          `xml:"constant"`
	Inline   *xmlConcretePart `xml:"inline"`
}
