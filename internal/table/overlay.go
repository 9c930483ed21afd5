package table

import (
	"regexp"
	"strings"
)

// SearchState is the local free-text search. It is never sent to the source.
type SearchState struct {
	Query  string
	Column string
}

// Span is a run of cell text that either matches the search or not.
type Span struct {
	Text  string
	Match bool
}

// Dropdown is the per-column search input state.
type Dropdown struct {
	Open    bool
	Pending string
}

// Overlay derives search matches and highlight spans for the displayed page.
// It never changes what is fetched.
type Overlay struct {
	search    SearchState
	pattern   *regexp.Regexp
	dropdowns map[string]Dropdown
}

// NewOverlay returns an overlay with no search.
func NewOverlay() *Overlay {
	return &Overlay{dropdowns: make(map[string]Dropdown)}
}

// SetSearch stores query as the search for column.
func (o *Overlay) SetSearch(query, column string) {
	o.search = SearchState{Query: query, Column: column}
	o.pattern = compileSearch(query)
}

// ClearSearch drops the search and resets the searched column's dropdown.
func (o *Overlay) ClearSearch() {
	if col := o.search.Column; col != "" {
		delete(o.dropdowns, col)
	}
	o.search = SearchState{}
	o.pattern = nil
}

// Search returns the current search state.
func (o *Overlay) Search() SearchState {
	return o.search
}

// Filtered reports whether column has a non-empty search applied.
func (o *Overlay) Filtered(column string) bool {
	return o.pattern != nil && o.search.Column == column
}

// Matches reports whether the record's column value contains the query,
// ignoring case. An empty query matches nothing.
func (o *Overlay) Matches(r Record, column string) bool {
	if !o.Filtered(column) {
		return false
	}
	return o.pattern.MatchString(r.Value(column))
}

// HighlightSpans splits the record's column value into matching and
// non-matching runs.
func (o *Overlay) HighlightSpans(r Record, column string) []Span {
	text := r.Value(column)
	if !o.Filtered(column) {
		return []Span{{Text: text}}
	}
	return splitSpans(text, o.pattern)
}

// HighlightText splits text around every case-insensitive occurrence of query.
func HighlightText(text, query string) []Span {
	re := compileSearch(query)
	if re == nil {
		return []Span{{Text: text}}
	}
	return splitSpans(text, re)
}

// Dropdown returns the dropdown state for column.
func (o *Overlay) Dropdown(column string) Dropdown {
	return o.dropdowns[column]
}

// OpenDropdown opens column's search input, keeping any pending text.
func (o *Overlay) OpenDropdown(column string) {
	d := o.dropdowns[column]
	d.Open = true
	o.dropdowns[column] = d
}

// CloseDropdown closes column's search input without applying it.
func (o *Overlay) CloseDropdown(column string) {
	d := o.dropdowns[column]
	d.Open = false
	o.dropdowns[column] = d
}

// SetPending records typed but unconfirmed text for column.
func (o *Overlay) SetPending(column, text string) {
	d := o.dropdowns[column]
	d.Pending = text
	o.dropdowns[column] = d
}

// ConfirmDropdown applies column's pending text as the search and closes the
// input. Blank text clears the search.
func (o *Overlay) ConfirmDropdown(column string) {
	d := o.dropdowns[column]
	query := strings.TrimSpace(d.Pending)
	if query == "" {
		if o.search.Column == column {
			o.ClearSearch()
		}
		delete(o.dropdowns, column)
		return
	}
	o.SetSearch(query, column)
	o.dropdowns[column] = Dropdown{Pending: query}
}

// ResetDropdown empties column's pending text and, when column is the searched
// one, clears the search.
func (o *Overlay) ResetDropdown(column string) {
	if o.search.Column == column {
		o.ClearSearch()
		return
	}
	d := o.dropdowns[column]
	d.Pending = ""
	o.dropdowns[column] = d
}

func compileSearch(query string) *regexp.Regexp {
	if query == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

func splitSpans(text string, re *regexp.Regexp) []Span {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Span{{Text: text}}
	}
	spans := make([]Span, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}
