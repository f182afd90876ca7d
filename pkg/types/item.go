package types

// BoardItem is a read snapshot of one tracked work item. It is never
// authoritative: the board may change between the read and any decision
// based on it, which is why mutations re-resolve state on their own.
type BoardItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// StatusOption is one entry of a board's declared single-select status set.
// The set is fetched from the board, never hardcoded; a status update whose
// name is absent from the set is rejected before any write is attempted.
type StatusOption struct {
	Name     string `json:"name"`
	OptionID string `json:"option_id"`
}

// FindOption returns the option whose name parses to the given status.
// Returns ErrUnknownStatus if the board does not declare it.
func FindOption(options []StatusOption, s Status) (StatusOption, error) {
	for _, opt := range options {
		parsed, err := ParseStatus(opt.Name)
		if err != nil {
			// Boards may declare extra options outside the canonical
			// lifecycle; they simply never match.
			continue
		}
		if parsed == s {
			return opt, nil
		}
	}
	return StatusOption{}, ErrUnknownStatus
}

// FindItemByTitle returns the first item with the given title.
// Returns ErrItemNotFound if no item matches.
func FindItemByTitle(items []BoardItem, title string) (BoardItem, error) {
	for _, item := range items {
		if item.Title == title {
			return item, nil
		}
	}
	return BoardItem{}, ErrItemNotFound
}
