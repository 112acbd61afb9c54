package layout

// Resolve selects the setting that applies to one output page.
//
// pageIndex is 0-based within the document page, offset is the number of
// output pages produced by preceding document pages and count is the number
// of output pages of this document page. Returns nil when no candidate applies.
//
// Priority: first/last, then odd/even of the absolute page number, then default.
// A single non-variant setting applies to every page.
func Resolve(candidates []SectionSetting, pageIndex, offset, count int) *SectionSetting {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 && !candidates[0].IsVariant() {
		return &candidates[0]
	}

	isFirst := pageIndex == 0
	isLast := pageIndex == count-1
	isOdd := (pageIndex+1+offset)%2 == 1

	parity := PhysicalEven
	if isOdd {
		parity = PhysicalOdd
	}

	var chain []PhysicalPageType
	switch {
	case isLast:
		chain = []PhysicalPageType{PhysicalLast, parity, PhysicalDefault}
	case isFirst:
		chain = []PhysicalPageType{PhysicalFirst, parity, PhysicalDefault}
	default:
		chain = []PhysicalPageType{parity, PhysicalDefault}
	}

	for _, want := range chain {
		if s := find(candidates, want); s != nil {
			return s
		}
	}
	return nil
}

// find returns the first candidate of the given type in DOM order.
// PhysicalDefault also matches settings without a type.
func find(candidates []SectionSetting, want PhysicalPageType) *SectionSetting {
	for i := range candidates {
		t := candidates[i].PhysicalPageType
		if t == want || (want == PhysicalDefault && t == "") {
			return &candidates[i]
		}
	}
	return nil
}
