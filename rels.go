package godeck

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeNotesSlide     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// Relationship is one edge in a part's relationship graph.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships is the ordered relationship graph owned by a part.
type Relationships struct {
	owner string // absolute name of the owning part; "/" for the package
	rels  []*Relationship
}

// emptyRelationships returns an empty graph for the given owner part.
func emptyRelationships(owner string) *Relationships {
	return &Relationships{owner: owner}
}

// parseRelationships parses a rels part body.
func parseRelationships(owner string, data []byte) (*Relationships, error) {
	doc, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parse rels for %s: %w", owner, err)
	}
	r := &Relationships{owner: owner}
	root := doc.Root()
	if root == nil {
		return r, nil
	}
	for _, el := range root.ChildElements() {
		if el.Tag != "Relationship" {
			continue
		}
		rel := &Relationship{
			ID:       el.SelectAttrValue("Id", ""),
			Type:     el.SelectAttrValue("Type", ""),
			Target:   el.SelectAttrValue("Target", ""),
			External: el.SelectAttrValue("TargetMode", "") == "External",
		}
		if rel.ID == "" {
			continue
		}
		r.rels = append(r.rels, rel)
	}
	return r, nil
}

// Bytes serializes the graph back into a rels part body.
func (r *Relationships) Bytes() ([]byte, error) {
	doc := newXMLDoc()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, rel := range r.rels {
		el := root.CreateElement("Relationship")
		el.CreateAttr("Id", rel.ID)
		el.CreateAttr("Type", rel.Type)
		el.CreateAttr("Target", rel.Target)
		if rel.External {
			el.CreateAttr("TargetMode", "External")
		}
	}
	return doc.WriteToBytes()
}

// All returns the relationships in document order.
func (r *Relationships) All() []*Relationship {
	return r.rels
}

// ByID returns the relationship with the given rId, or nil.
func (r *Relationships) ByID(id string) *Relationship {
	for _, rel := range r.rels {
		if rel.ID == id {
			return rel
		}
	}
	return nil
}

// ByType returns all relationships whose type contains the given substring.
// Matching by substring follows the loose matching the copy pipeline needs
// (e.g. "slideLayout" matches the full schema URI).
func (r *Relationships) ByType(substr string) []*Relationship {
	var out []*Relationship
	for _, rel := range r.rels {
		if strings.Contains(rel.Type, substr) {
			out = append(out, rel)
		}
	}
	return out
}

// NextID returns "rId<n>" for the lowest positive n not in use.
func (r *Relationships) NextID() string {
	used := make(map[int]bool, len(r.rels))
	for _, rel := range r.rels {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil {
			used[n] = true
		}
	}
	for n := 1; ; n++ {
		if !used[n] {
			return fmt.Sprintf("rId%d", n)
		}
	}
}

// Add appends an internal relationship and returns its new rId.
func (r *Relationships) Add(relType, target string) string {
	id := r.NextID()
	r.rels = append(r.rels, &Relationship{ID: id, Type: relType, Target: target})
	return id
}

// AddExternal appends an external relationship, reusing an existing edge with
// the same type and target if one is present.
func (r *Relationships) AddExternal(relType, target string) string {
	for _, rel := range r.rels {
		if rel.External && rel.Type == relType && rel.Target == target {
			return rel.ID
		}
	}
	id := r.NextID()
	r.rels = append(r.rels, &Relationship{ID: id, Type: relType, Target: target, External: true})
	return id
}

// Remove deletes the relationship with the given rId, if present.
func (r *Relationships) Remove(id string) {
	for i, rel := range r.rels {
		if rel.ID == id {
			r.rels = append(r.rels[:i], r.rels[i+1:]...)
			return
		}
	}
}

// Resolve turns a relationship target into an absolute part name, relative to
// the owning part's directory. Absolute targets pass through unchanged.
func (r *Relationships) Resolve(target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(target)
	}
	base := path.Dir(r.owner)
	if r.owner == "/" || r.owner == "" {
		base = "/"
	}
	return path.Clean(path.Join(base, target))
}

// relativeTarget rewrites an absolute part name as a target relative to the
// directory of fromPart. Both names must be absolute.
func relativeTarget(fromPart, toPart string) string {
	fromDir := path.Dir(fromPart)
	fromSegs := splitPartPath(fromDir)
	toSegs := splitPartPath(toPart)

	common := 0
	for common < len(fromSegs) && common < len(toSegs)-1 && fromSegs[common] == toSegs[common] {
		common++
	}
	var out []string
	for i := common; i < len(fromSegs); i++ {
		out = append(out, "..")
	}
	out = append(out, toSegs[common:]...)
	return strings.Join(out, "/")
}

func splitPartPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// relationships loads the rels graph for a part, returning an empty graph
// when the part has none.
func (p *Package) relationships(partName string) (*Relationships, error) {
	relsName := relsPartName(partName)
	part, ok := p.parts[relsName]
	if !ok {
		return emptyRelationships(partName), nil
	}
	return parseRelationships(partName, part.Data)
}

// setRelationships serializes a graph into its rels part.
func (p *Package) setRelationships(r *Relationships) error {
	data, err := r.Bytes()
	if err != nil {
		return fmt.Errorf("serialize rels for %s: %w", r.owner, err)
	}
	p.SetPart(relsPartName(r.owner), ctRelationships, data)
	return nil
}
