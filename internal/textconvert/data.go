package textconvert

// Representation

type ConversionResult struct {
	textContent string
	linkRefs    []LinkRef
}

func NewConversionResult(
	textContent string,
	linkRefs []LinkRef,
) ConversionResult {
	return ConversionResult{
		textContent: textContent,
		linkRefs:    linkRefs,
	}
}

func (c *ConversionResult) GetTextContent() string {
	return c.textContent
}

func (c *ConversionResult) GetLinkRefs() []LinkRef {
	return c.linkRefs
}

type LinkKind string

const (
	KindNavigation LinkKind = "navigation"
	KindImage      LinkKind = "image"
	KindAnchor     LinkKind = "anchor"
)

// LinkRef is a content link that survived sanitization. The pipeline keeps
// these alongside the plain text so a digest can cite the original pages.
type LinkRef struct {
	raw  string
	kind LinkKind
}

func NewLinkRef(
	raw string,
	kind LinkKind,
) LinkRef {
	return LinkRef{
		raw:  raw,
		kind: kind,
	}
}

func (l *LinkRef) GetRaw() string {
	return l.raw
}

func (l *LinkRef) GetKind() LinkKind {
	return l.kind
}
