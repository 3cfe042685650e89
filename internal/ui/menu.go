package ui

// Menu is the mobile navigation toggle: the hamburger button and the link
// list are switched together.
type Menu struct {
	hamburgerActive bool
	linksActive     bool
}

// Toggle flips both the hamburger and the link list.
func (m *Menu) Toggle() {
	m.hamburgerActive = !m.hamburgerActive
	m.linksActive = !m.linksActive
}

// LinkClicked closes the menu after a navigation link was used.
func (m *Menu) LinkClicked() {
	m.hamburgerActive = false
	m.linksActive = false
}

// Open reports whether the link list is shown.
func (m *Menu) Open() bool { return m.linksActive }

// HamburgerActive reports whether the hamburger is drawn in its active form.
func (m *Menu) HamburgerActive() bool { return m.hamburgerActive }
