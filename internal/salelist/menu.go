package salelist

// Menu tracks the per-row action menu of the listing. At most one row has
// its menu open; Blur closes it. The zero value is closed. A Menu is driven
// from the UI loop and is not safe for concurrent use.
type Menu struct {
	row string
}

// Toggle opens the menu of row, or closes it when it is already open there.
// Opening a row closes any other.
func (m *Menu) Toggle(row string) {
	if m.row == row {
		m.row = ""
		return
	}
	m.row = row
}

// Focus opens the menu of row.
func (m *Menu) Focus(row string) {
	m.row = row
}

// Blur closes the menu, as on a click anywhere outside it.
func (m *Menu) Blur() {
	m.row = ""
}

// OpenRow returns the row whose menu is open.
func (m *Menu) OpenRow() (string, bool) {
	return m.row, m.row != ""
}

// IsOpen reports whether the menu of row is open.
func (m *Menu) IsOpen(row string) bool {
	return row != "" && m.row == row
}
