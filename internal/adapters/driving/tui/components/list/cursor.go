// Package list provides list navigation helpers for the TUI.
package list

// Cursor tracks a selected row in a list of n items and the first visible
// row of a window of height rows.
type Cursor struct {
	selected int
	offset   int
	n        int
	height   int
}

// SetLen updates the item count, keeping the selection in range.
func (c *Cursor) SetLen(n int) {
	c.n = n
	c.clamp()
}

// SetHeight sets the number of visible rows.
func (c *Cursor) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	c.height = height
	c.follow()
}

// Up moves the selection up one row.
func (c *Cursor) Up() {
	if c.selected > 0 {
		c.selected--
		c.follow()
	}
}

// Down moves the selection down one row.
func (c *Cursor) Down() {
	if c.selected < c.n-1 {
		c.selected++
		c.follow()
	}
}

// Select moves the selection to i.
func (c *Cursor) Select(i int) {
	c.selected = i
	c.clamp()
}

// Reset moves to the first row.
func (c *Cursor) Reset() {
	c.selected = 0
	c.offset = 0
}

// Index returns the selected row, or -1 when the list is empty.
func (c *Cursor) Index() int {
	if c.n == 0 {
		return -1
	}
	return c.selected
}

// Window returns the half-open range of visible rows.
func (c *Cursor) Window() (start, end int) {
	height := c.height
	if height < 1 {
		height = c.n
	}
	end = c.offset + height
	if end > c.n {
		end = c.n
	}
	return c.offset, end
}

func (c *Cursor) clamp() {
	if c.selected >= c.n {
		c.selected = c.n - 1
	}
	if c.selected < 0 {
		c.selected = 0
	}
	c.follow()
}

func (c *Cursor) follow() {
	if c.height < 1 {
		c.offset = 0
		return
	}
	if c.selected < c.offset {
		c.offset = c.selected
	} else if c.selected >= c.offset+c.height {
		c.offset = c.selected - c.height + 1
	}
	if c.offset < 0 {
		c.offset = 0
	}
}
