package canvas

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Anchor is the point on an element's bounding box that its position and
// transforms are relative to, expressed as a percentage of width/height.
type Anchor struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// CenteredAnchor anchors an element at its own center.
func CenteredAnchor() Anchor { return Anchor{Top: 0.5, Left: 0.5} }

// TopLeftAnchor anchors an element at its top-left corner.
func TopLeftAnchor() Anchor { return Anchor{Top: 0, Left: 0} }

// ScaleRate controls how an element's size responds to canvas zoom.
type ScaleRate string

const (
	// ScaleRateNone scales the element at the same rate as the background.
	ScaleRateNone ScaleRate = "none"
	// ScaleRateBase scales the element at bg_scale**-0.5 for legibility.
	ScaleRateBase ScaleRate = "base"
)

// TextFont names a font family, with custom variants carrying a font name
// that falls back to the corresponding builtin if the client lacks it.
type TextFont struct {
	Kind string `json:"kind"` // sans | serif | mono | custom_sans | custom_serif | custom_mono
	Name string `json:"name,omitempty"`
}

// TextAlignment is the horizontal alignment of a text element's content.
type TextAlignment string

const (
	AlignLeft    TextAlignment = "left"
	AlignCenter  TextAlignment = "center"
	AlignRight   TextAlignment = "right"
	AlignJustify TextAlignment = "justify"
)

// Text is the payload of a text element.
type Text struct {
	Content         string        `json:"content"`
	Align           TextAlignment `json:"align"`
	Color           Color         `json:"color"`
	Size            float32       `json:"size"`
	Font            TextFont      `json:"font"`
	BackgroundColor Color         `json:"background_color"`
	BackgroundBlur  float64       `json:"background_blur"`
}

// ImageCrop trims a percentage off each edge of an image element.
type ImageCrop struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// ImageText is a text caption anchored to a point on an image, expressed as
// a percentage of the image's own dimensions.
type ImageText struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor Anchor  `json:"anchor"`
	Text   Text    `json:"text"`
}

// Image is the payload of an image element.
type Image struct {
	URL              string      `json:"url"`
	Alt              string      `json:"alt"`
	ScaleX           float64     `json:"scale_x"`
	ScaleY           float64     `json:"scale_y"`
	Crop             ImageCrop   `json:"crop"`
	OutlineColor     Color       `json:"outline_color"`
	OutlineThickness float64     `json:"outline_thickness"`
	OutlineBlur      float64     `json:"outline_blur"`
	Text             []ImageText `json:"text"`
}

// ElementKind tags which variant payload an Element carries. New element
// kinds are added here as new tags, never by reshaping Element itself.
type ElementKind string

const (
	KindText  ElementKind = "text"
	KindImage ElementKind = "image"
)

// Element is a single item on a canvas: a tagged union of Text/Image plus
// the transform and selection state shared by every kind.
type Element struct {
	UUID uuid.UUID `json:"uuid"`

	Kind  ElementKind `json:"type"`
	Text  *Text       `json:"-"`
	Image *Image      `json:"-"`

	LastEditedBy uuid.UUID  `json:"last_edited_by"`
	SelectedBy   *uuid.UUID `json:"selected_by"`

	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Anchor   Anchor    `json:"anchor"`
	Rotation float64   `json:"rotation"`
	Scale    ScaleRate `json:"scale_rate"`
	ZIndex   float64   `json:"z_index"`
	Tags     []string  `json:"tags"`
}

// elementWire is the flattened on-the-wire shape: the variant payload is
// inlined next to the shared fields, tagged by "type", matching
// original_source's `#[serde(tag = "type")] enum ElementType`.
type elementWire struct {
	UUID         uuid.UUID  `json:"uuid"`
	Type         string     `json:"type"`
	LastEditedBy uuid.UUID  `json:"last_edited_by"`
	SelectedBy   *uuid.UUID `json:"selected_by"`
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Anchor       Anchor     `json:"anchor"`
	Rotation     float64    `json:"rotation"`
	Scale        ScaleRate  `json:"scale_rate"`
	ZIndex       float64    `json:"z_index"`
	Tags         []string   `json:"tags"`

	*Text  `json:",omitempty"`
	*Image `json:",omitempty"`
}

// MarshalJSON flattens the variant payload alongside the shared fields.
func (e Element) MarshalJSON() ([]byte, error) {
	w := elementWire{
		UUID:         e.UUID,
		Type:         string(e.Kind),
		LastEditedBy: e.LastEditedBy,
		SelectedBy:   e.SelectedBy,
		X:            e.X,
		Y:            e.Y,
		Anchor:       e.Anchor,
		Rotation:     e.Rotation,
		Scale:        e.Scale,
		ZIndex:       e.ZIndex,
		Tags:         e.Tags,
		Text:         e.Text,
		Image:        e.Image,
	}
	return json.Marshal(w)
}

// UnmarshalJSON reconstructs the variant payload from the tagged union.
func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	// Decode the shared envelope first without the variant payloads, so we
	// know which one to populate.
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	switch ElementKind(head.Type) {
	case KindText:
		w.Text = &Text{}
	case KindImage:
		w.Image = &Image{}
	default:
		return fmt.Errorf("unknown element type %q", head.Type)
	}

	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = Element{
		UUID:         w.UUID,
		Kind:         ElementKind(w.Type),
		Text:         w.Text,
		Image:        w.Image,
		LastEditedBy: w.LastEditedBy,
		SelectedBy:   w.SelectedBy,
		X:            w.X,
		Y:            w.Y,
		Anchor:       w.Anchor,
		Rotation:     w.Rotation,
		Scale:        w.Scale,
		ZIndex:       w.ZIndex,
		Tags:         w.Tags,
	}
	return nil
}

// Clone returns a deep-enough copy for storing server-side state separate
// from whatever the caller holds (mirrors original_source's derive(Clone)).
func (e Element) Clone() Element {
	clone := e
	if e.SelectedBy != nil {
		u := *e.SelectedBy
		clone.SelectedBy = &u
	}
	if e.Text != nil {
		t := *e.Text
		clone.Text = &t
	}
	if e.Image != nil {
		img := *e.Image
		img.Text = append([]ImageText(nil), e.Image.Text...)
		clone.Image = &img
	}
	clone.Tags = append([]string(nil), e.Tags...)
	return clone
}

// WelcomeText is the default seed element placed on a freshly created
// canvas, matching the server's "Hello, world" greeting.
func WelcomeText(author uuid.UUID) Element {
	return Element{
		UUID:         uuid.New(),
		Kind:         KindText,
		LastEditedBy: author,
		Anchor:       TopLeftAnchor(),
		Scale:        ScaleRateBase,
		Text: &Text{
			Content: "Hello, world",
			Align:   AlignLeft,
			Color:   "#000000ff",
			Size:    24,
			Font:    TextFont{Kind: "sans"},
		},
	}
}
