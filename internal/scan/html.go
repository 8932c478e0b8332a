package scan

var htmlAttributes = []string{"class"}

type htmlScanner struct{}

func (htmlScanner) Dialect() Dialect { return DialectHTML }

func (htmlScanner) Scopes(text string, changed Span) []Span {
	return tagScopes(plainTags{}, text, changed, false)
}

func (htmlScanner) Regions(text string, scope Span) []Span {
	var regions []Span
	forEachTag(plainTags{}, text, scope, func(tag Span) {
		regions = append(regions, plainAttributeRegions(text, tag, htmlAttributes, false)...)
	})
	return regions
}

func (htmlScanner) Split(text string, region Span) []ClassToken {
	return splitFields(text, region)
}
