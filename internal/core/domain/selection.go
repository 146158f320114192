package domain

// View identifies one workspace tab.
type View int

const (
	// ViewChat is the conversation tab and the initial view.
	ViewChat View = iota
	// ViewClaims is the claims browser.
	ViewClaims
	// ViewPDF is the PDF page view.
	ViewPDF
)

// Views lists the tabs in display order.
func Views() []View {
	return []View{ViewChat, ViewClaims, ViewPDF}
}

// String returns the string representation of the view.
func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewClaims:
		return "claims"
	case ViewPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// Title returns the tab label.
func (v View) Title() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewClaims:
		return "Claims"
	case ViewPDF:
		return "PDF Viewer"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the view is one of the three tabs.
func (v View) IsValid() bool {
	return v >= ViewChat && v <= ViewPDF
}

// PDFTarget is the document and page open in the PDF view.
// DocID and Page always change together.
type PDFTarget struct {
	DocID string
	Page  int
}

// IsZero reports whether no document is open.
func (t PDFTarget) IsZero() bool {
	return t.DocID == ""
}

// Selection is a consistent snapshot of the shared selection state.
type Selection struct {
	// ScopedDocIDs is the sorted search scope. Empty means all ready documents.
	ScopedDocIDs []string

	// PDF is the open document and page.
	PDF PDFTarget

	// View is the active workspace tab.
	View View
}

// Scoped reports whether id is in the search scope.
func (s Selection) Scoped(id string) bool {
	for _, scoped := range s.ScopedDocIDs {
		if scoped == id {
			return true
		}
	}
	return false
}

// PDFPage is the rendered form of a PDFTarget produced by a viewer.
type PDFPage struct {
	Target    PDFTarget
	PageCount int
	Text      string
	URL       string
}
