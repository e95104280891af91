// Package content renders the per-giver instruction pages.
package content

// Template placeholders. Each is replaced verbatim wherever it appears.
const (
	PlaceholderGreeting   = "{greeting}"
	PlaceholderAssignedTo = "{assigned_to}"
	PlaceholderMaxBudget  = "{max_budget}"
	PlaceholderImage      = "{mosaic_base64}"
	PlaceholderCurrency   = "{currency}"
	PlaceholderYear       = "{year}"
)

// PageExtension is appended to the giver's file-safe name.
const PageExtension = ".html"
