package panel

// Debouncer tracks the drag-over indicator. Leaving the drop zone does not
// hide the indicator at once; it returns a token that the caller hands back to
// Expire after the debounce window. Any drag activity in between advances the
// token so the stale expiry is ignored.
type Debouncer struct {
	token   uint64
	pending uint64
	active  bool
}

// Enter records drag-enter or drag-over and cancels any pending removal.
func (d *Debouncer) Enter() {
	d.token++
	d.pending = 0
	d.active = true
}

// Leave schedules removal and returns the token identifying it.
func (d *Debouncer) Leave() uint64 {
	d.token++
	d.pending = d.token
	return d.token
}

// Expire hides the indicator when token still names the latest pending
// removal. It reports whether the indicator changed.
func (d *Debouncer) Expire(token uint64) bool {
	if token == 0 || token != d.pending || token != d.token {
		return false
	}
	d.pending = 0
	if !d.active {
		return false
	}
	d.active = false
	return true
}

// Reset hides the indicator immediately, as after a drop.
func (d *Debouncer) Reset() {
	d.token++
	d.pending = 0
	d.active = false
}

// Active reports whether the drag indicator is shown.
func (d *Debouncer) Active() bool {
	return d.active
}
