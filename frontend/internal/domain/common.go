package frontend_domain

// CommonTemplateData holds fields shared by every page template.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Title      string
	Stylesheet string // hashed stylesheet path from the asset manifest
	Script     string // hashed archive chunk path, empty on pages that need no script
	Timezone   string // zone the page's timestamps are shown in
	// DetectTimezone is set while the viewer has not picked a zone; the
	// archive chunk then reloads the page with the browser's ?tz=.
	DetectTimezone bool
}
