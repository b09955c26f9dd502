package xmlblueprint

import "github.com/hexworks/rig"

func typeRefFromXML(t xmlTypeRef) rig.TypeReference {
	ref := rig.TypeReference{Name: t.Name}
	if len(t.Params) > 0 {
		ref.Params = make(map[string]rig.TypeReference, len(t.Params))
		for _, p := range t.Params {
			ref.Params[p.Key] = typeRefFromXML(p.Type)
		}
	}
	return ref
}

func typeRefToXML(t rig.TypeReference) xmlTypeRef {
	out := xmlTypeRef{Name: t.Name}
	for key, param := range t.Params {
		out.Params = append(out.Params, xmlTypeParam{Key: key, Type: typeRefToXML(param)})
	}
	return out
}

func runtimeTypeFromXML(typ *xmlTypeRef, alias string) rig.RuntimeType {
	if typ != nil {
		ref := typeRefFromXML(*typ)
		return rig.RuntimeType{Ref: &ref}
	}
	return rig.RuntimeType{Alias: alias}
}

func runtimeTypeToXML(rt rig.RuntimeType) (*xmlTypeRef, string) {
	if rt.Ref != nil {
		x := typeRefToXML(*rt.Ref)
		return &x, ""
	}
	return nil, rt.Alias
}

func metadataFromXML(m *xmlMetadata) map[string]string {
	if m == nil || len(m.Entries) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		out[e.Key] = e.Value
	}
	return out
}

func metadataToXML(m map[string]string) *xmlMetadata {
	if len(m) == 0 {
		return nil
	}
	out := &xmlMetadata{}
	for k, v := range m {
		out.Entries = append(out.Entries, xmlMetaEntry{Key: k, Value: v})
	}
	return out
}

func referenceFromXML(h xmlRefHolder) rig.Reference {
	switch {
	case h.IDRef != nil:
		return rig.ByID{ID: rig.PartID(*h.IDRef)}
	case h.NameRef != nil:
		return rig.ByName{Name: *h.NameRef}
	case h.URIRef != nil:
		return rig.ByURI{URI: *h.URIRef}
	case h.Constant != nil:
		return rig.Constant{Value: *h.Constant}
	case h.Inline != nil:
		return rig.Inline{Part: concretePartFromXML(*h.Inline)}
	default:
		return rig.Constant{}
	}
}

func referenceToXML(ref rig.Reference) xmlRefHolder {
	switch v := ref.(type) {
	case rig.ByID:
		id := string(v.ID)
		return xmlRefHolder{IDRef: &id}
	case rig.ByName:
		return xmlRefHolder{NameRef: &v.Name}
	case rig.ByURI:
		return xmlRefHolder{URIRef: &v.URI}
	case rig.Constant:
		return xmlRefHolder{Constant: &v.Value}
	case rig.Inline:
		x := concretePartToXML(v.Part)
		return xmlRefHolder{Inline: &x}
	default:
		return xmlRefHolder{}
	}
}

func propertyValueFromXML(e xmlPropertyEntry) rig.PropertyValue {
	if e.URI != nil {
		return rig.PropertyURI{URI: *e.URI}
	}
	value := ""
	if e.Value != nil {
		value = *e.Value
	}
	return rig.PropertyConstant{Value: value}
}

func propertyValueToXML(key string, pv rig.PropertyValue) xmlPropertyEntry {
	switch v := pv.(type) {
	case rig.PropertyURI:
		return xmlPropertyEntry{Key: key, URI: &v.URI}
	case rig.PropertyConstant:
		return xmlPropertyEntry{Key: key, Value: &v.Value}
	default:
		return xmlPropertyEntry{Key: key}
	}
}

func concretePartFromXML(x xmlConcretePart) *rig.ConcretePart {
	p := &rig.ConcretePart{
		ID:       rig.PartID(x.ID),
		Name:     x.Name,
		Scheme:   x.Scheme,
		Type:     runtimeTypeFromXML(x.Type, x.TypeAlias),
		Metadata: metadataFromXML(x.Metadata),
	}
	if x.Constructor != nil {
		p.Constructor = x.Constructor.Name
	}
	if x.Features != nil {
		p.Features = make(map[string]rig.Reference, len(x.Features.Entries))
		for _, f := range x.Features.Entries {
			p.Features[f.Key] = referenceFromXML(f.xmlRefHolder)
		}
	}
	if x.Properties != nil {
		p.Properties = make(map[string]rig.PropertyValue, len(x.Properties.Entries))
		for _, prop := range x.Properties.Entries {
			p.Properties[prop.Key] = propertyValueFromXML(prop)
		}
	}
	return p
}

func concretePartToXML(p *rig.ConcretePart) xmlConcretePart {
	typ, alias := runtimeTypeToXML(p.Type)
	x := xmlConcretePart{
		ID:        string(p.ID),
		Name:      p.Name,
		Scheme:    p.Scheme,
		Type:      typ,
		TypeAlias: alias,
		Metadata:  metadataToXML(p.Metadata),
	}
	if p.Constructor != "" {
		x.Constructor = &xmlCtorRef{Name: p.Constructor}
	}
	if len(p.Features) > 0 {
		x.Features = &xmlFeatures{}
		for name, ref := range p.Features {
			x.Features.Entries = append(x.Features.Entries, xmlFeatureEntry{Key: name, xmlRefHolder: referenceToXML(ref)})
		}
	}
	if len(p.Properties) > 0 {
		x.Properties = &xmlProps{}
		for name, pv := range p.Properties {
			x.Properties.Entries = append(x.Properties.Entries, propertyValueToXML(name, pv))
		}
	}
	return x
}

func externalPartFromXML(x xmlExternalPart) *rig.ExternalPart {
	return &rig.ExternalPart{
		ID:       rig.PartID(x.ID),
		Name:     x.Name,
		Scheme:   x.Scheme,
		Metadata: metadataFromXML(x.Metadata),
	}
}

func externalPartToXML(p *rig.ExternalPart) xmlExternalPart {
	return xmlExternalPart{ID: string(p.ID), Name: p.Name, Scheme: p.Scheme, Metadata: metadataToXML(p.Metadata)}
}

func undefinedPartFromXML(x xmlUndefinedPart) *rig.UndefinedPart {
	return &rig.UndefinedPart{ID: rig.PartID(x.ID), Name: x.Name, Metadata: metadataFromXML(x.Metadata)}
}

func undefinedPartToXML(p *rig.UndefinedPart) xmlUndefinedPart {
	return xmlUndefinedPart{ID: string(p.ID), Name: p.Name, Metadata: metadataToXML(p.Metadata)}
}

func partListFromXML(x xmlPartList) *rig.PartCollection {
	entries := make([]rig.CollectionEntry, len(x.Entries))
	for i, e := range x.Entries {
		entries[i] = rig.CollectionEntry{Value: referenceFromXML(e.xmlRefHolder)}
	}
	return &rig.PartCollection{
		ID:      rig.PartID(x.ID),
		Name:    x.Name,
		Kind:    rig.CollectionList,
		Type:    runtimeTypeFromXML(x.Type, x.TypeAlias),
		Entries: entries,
	}
}

func partListToXML(p *rig.PartCollection) xmlPartList {
	typ, alias := runtimeTypeToXML(p.Type)
	entries := make([]xmlEntry, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = xmlEntry{xmlRefHolder: referenceToXML(e.Value)}
	}
	return xmlPartList{ID: string(p.ID), Name: p.Name, Type: typ, TypeAlias: alias, Entries: entries}
}

func partDictFromXML(x xmlPartDictionary) *rig.PartCollection {
	entries := make([]rig.CollectionEntry, len(x.Entries))
	for i, e := range x.Entries {
		entries[i] = rig.CollectionEntry{Key: e.Key, Value: referenceFromXML(e.xmlRefHolder)}
	}
	return &rig.PartCollection{
		ID:      rig.PartID(x.ID),
		Name:    x.Name,
		Kind:    rig.CollectionDict,
		Type:    runtimeTypeFromXML(x.Type, x.TypeAlias),
		Entries: entries,
	}
}

func partDictToXML(p *rig.PartCollection) xmlPartDictionary {
	typ, alias := runtimeTypeToXML(p.Type)
	entries := make([]xmlDictEntry, len(p.Entries))
	for i, e := range p.Entries {
		entries[i] = xmlDictEntry{Key: e.Key, xmlRefHolder: referenceToXML(e.Value)}
	}
	return xmlPartDictionary{ID: string(p.ID), Name: p.Name, Type: typ, TypeAlias: alias, Entries: entries}
}

func blueprintFromXML(x xmlBlueprint) *rig.Blueprint {
	bp := &rig.Blueprint{Namespace: x.Namespace}
	if x.Aliases != nil {
		bp.Aliases = make(map[string]rig.TypeReference, len(x.Aliases.Entries))
		for _, a := range x.Aliases.Entries {
			bp.Aliases[a.Name] = typeRefFromXML(a.Type)
		}
	}
	for _, p := range x.Parts.Concrete {
		bp.Parts = append(bp.Parts, concretePartFromXML(p))
	}
	for _, p := range x.Parts.External {
		bp.Parts = append(bp.Parts, externalPartFromXML(p))
	}
	for _, p := range x.Parts.Undefined {
		bp.Parts = append(bp.Parts, undefinedPartFromXML(p))
	}
	for _, p := range x.Parts.PartLists {
		bp.Parts = append(bp.Parts, partListFromXML(p))
	}
	for _, p := range x.Parts.PartDicts {
		bp.Parts = append(bp.Parts, partDictFromXML(p))
	}
	return bp
}

func blueprintToXML(bp *rig.Blueprint) xmlBlueprint {
	x := xmlBlueprint{Namespace: bp.Namespace}
	if len(bp.Aliases) > 0 {
		x.Aliases = &xmlAliases{}
		for name, ref := range bp.Aliases {
			x.Aliases.Entries = append(x.Aliases.Entries, xmlAlias{Name: name, Type: typeRefToXML(ref)})
		}
	}
	for _, p := range bp.Parts {
		switch v := p.(type) {
		case *rig.ConcretePart:
			if v.Synthesized {
				continue // temporary identifiers are never round-tripped (P10)
			}
			x.Parts.Concrete = append(x.Parts.Concrete, concretePartToXML(v))
		case *rig.ExternalPart:
			x.Parts.External = append(x.Parts.External, externalPartToXML(v))
		case *rig.UndefinedPart:
			x.Parts.Undefined = append(x.Parts.Undefined, undefinedPartToXML(v))
		case *rig.PartCollection:
			if v.Synthesized {
				continue
			}
			if v.Kind == rig.CollectionDict {
				x.Parts.PartDicts = append(x.Parts.PartDicts, partDictToXML(v))
			} else {
				x.Parts.PartLists = append(x.Parts.PartLists, partListToXML(v))
			}
		}
	}
	return x
}
