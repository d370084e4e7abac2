package goless

// CellTemplate holds the attributes the renderer is currently applying to
// freshly-produced cells: the running state that overstrike analysis,
// embedded SGR, and search hilite all mutate as the line is walked left to
// right.
type CellTemplate struct {
	Cell
}

// NewCellTemplate returns a template with no attributes set.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Cell: NewCell()}
}
