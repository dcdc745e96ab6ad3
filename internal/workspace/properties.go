package workspace

import (
	"strconv"
	"strings"
)

type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

type RichText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type Option struct {
	Name string `json:"name"`
}

type DateValue struct {
	Start string `json:"start"`
}

type Ref struct {
	ID string `json:"id"`
}

type Person struct {
	Name string `json:"name"`
}

// Property is the service's tagged-union property value. Only the member
// matching Type is populated.
type Property struct {
	Type        string     `json:"type"`
	Title       []RichText `json:"title,omitempty"`
	RichText    []RichText `json:"rich_text,omitempty"`
	Select      *Option    `json:"select,omitempty"`
	MultiSelect []Option   `json:"multi_select,omitempty"`
	Status      *Option    `json:"status,omitempty"`
	Date        *DateValue `json:"date,omitempty"`
	Number      *float64   `json:"number,omitempty"`
	Checkbox    bool       `json:"checkbox,omitempty"`
	Relation    []Ref      `json:"relation,omitempty"`
	People      []Person   `json:"people,omitempty"`
}

// Value flattens a property to display text, mirroring how each type is
// meant to read: title/rich-text concatenate, multi-valued types join with
// ", ", checkboxes read Yes/No. Unknown types flatten to "Unknown" so a new
// service-side type is visible rather than silently blank.
func (p Property) Value() string {
	switch p.Type {
	case "":
		return ""
	case "title":
		return joinRichText(p.Title)
	case "rich_text":
		return joinRichText(p.RichText)
	case "select":
		if p.Select == nil {
			return ""
		}
		return p.Select.Name
	case "status":
		if p.Status == nil {
			return ""
		}
		return p.Status.Name
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return strings.Join(names, ", ")
	case "date":
		if p.Date == nil {
			return ""
		}
		return p.Date.Start
	case "number":
		if p.Number == nil {
			return ""
		}
		return strconv.FormatFloat(*p.Number, 'f', -1, 64)
	case "checkbox":
		if p.Checkbox {
			return "Yes"
		}
		return "No"
	case "relation":
		ids := make([]string, 0, len(p.Relation))
		for _, r := range p.Relation {
			ids = append(ids, r.ID)
		}
		return strings.Join(ids, ", ")
	case "people":
		names := make([]string, 0, len(p.People))
		for _, pe := range p.People {
			names = append(names, pe.Name)
		}
		return strings.Join(names, ", ")
	default:
		return "Unknown"
	}
}

func joinRichText(rts []RichText) string {
	var b strings.Builder
	for _, rt := range rts {
		b.WriteString(rt.Text.Content)
	}
	return b.String()
}

// Prop looks up a property by name; a missing property flattens to "".
func (pg Page) Prop(name string) string {
	return pg.Properties[name].Value()
}

// RelationIDs returns the related page ids of a relation property.
func (pg Page) RelationIDs(name string) []string {
	p, ok := pg.Properties[name]
	if !ok || len(p.Relation) == 0 {
		return nil
	}
	ids := make([]string, 0, len(p.Relation))
	for _, r := range p.Relation {
		ids = append(ids, r.ID)
	}
	return ids
}
