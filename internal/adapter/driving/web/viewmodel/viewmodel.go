// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// ServerRowViewModel holds presentation-ready data for one statistics server row.
type ServerRowViewModel struct {
	Index      int
	Name       string
	Summary    string
	Username   string
	DeletePath string
	SelectPath string
}

// ServerListViewModel holds everything the server list page renders.
// SelectionMode switches row actions from delete to select.
type ServerListViewModel struct {
	Title         string
	SelectionMode bool
	PromptHTML    string // Sanitized HTML rendered from the selection prompt.
	Servers       []ServerRowViewModel
	Error         string
	CSRFToken     string
	Form          ServerFormViewModel
}

// ServerFormViewModel holds the add-server form values, kept on validation failure.
type ServerFormViewModel struct {
	Name         string
	WebURL       string
	DatabaseName string
	Username     string
}

// SelectionViewModel holds the confirmed selection shown after a server is picked.
type SelectionViewModel struct {
	Name         string
	DatabaseName string
	WebURL       string
	Username     string
}
