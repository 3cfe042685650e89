package page

// Hamburger is the glyph shown in place of the nav links on narrow terminals.
const Hamburger = "≡"

const (
	navGap   = 3 // Columns between nav links
	brandCol = 2
)

// NavItem is a clickable label. Col and Row are 1-based terminal cells.
type NavItem struct {
	ID    string
	Title string
	Col   int
	Row   int
	Width int
}

func (it NavItem) contains(col, row int) bool {
	return row == it.Row && col >= it.Col && col < it.Col+it.Width
}

// Nav is the navigation bar laid out for one terminal width. When the links
// do not fit next to the brand, the bar collapses into a hamburger that opens
// a dropdown below it.
type Nav struct {
	Brand     NavItem
	Items     []NavItem // Inline links, empty when collapsed
	Collapsed bool
	Hamburger NavItem
	Dropdown  []NavItem // Link positions while the menu is open
}

// LayoutNav places the brand on the left and the section links on the right
// of the first terminal row.
func LayoutNav(c *Content, width int) Nav {
	n := Nav{
		Brand: NavItem{Title: c.Name, Col: brandCol, Row: 1, Width: TextWidth(c.Name)},
	}
	if len(c.Sections) > 0 {
		n.Brand.ID = c.Sections[0].ID
	}

	total := 0
	maxTitle := 0
	for i, s := range c.Sections {
		w := TextWidth(s.Title)
		total += w
		if i > 0 {
			total += navGap
		}
		maxTitle = max(maxTitle, w)
	}

	start := width - total
	if start > n.Brand.Col+n.Brand.Width+navGap-1 {
		col := start
		for _, s := range c.Sections {
			w := TextWidth(s.Title)
			n.Items = append(n.Items, NavItem{ID: s.ID, Title: s.Title, Col: col, Row: 1, Width: w})
			col += w + navGap
		}
		return n
	}

	n.Collapsed = true
	n.Hamburger = NavItem{Title: Hamburger, Col: max(width-1, 1), Row: 1, Width: 1}
	dropCol := max(width-maxTitle-1, 1)
	for i, s := range c.Sections {
		n.Dropdown = append(n.Dropdown, NavItem{
			ID:    s.ID,
			Title: s.Title,
			Col:   dropCol,
			Row:   2 + i,
			Width: maxTitle,
		})
	}
	return n
}

// Hit resolves a click at (col, row). It returns the section id of a clicked
// link (the dropdown only counts while menuOpen) and whether the hamburger
// was clicked.
func (n Nav) Hit(col, row int, menuOpen bool) (id string, hamburger bool) {
	if n.Brand.contains(col, row) {
		return n.Brand.ID, false
	}
	if !n.Collapsed {
		for _, it := range n.Items {
			if it.contains(col, row) {
				return it.ID, false
			}
		}
		return "", false
	}
	if n.Hamburger.contains(col, row) {
		return "", true
	}
	if menuOpen {
		for _, it := range n.Dropdown {
			if it.contains(col, row) {
				return it.ID, false
			}
		}
	}
	return "", false
}
