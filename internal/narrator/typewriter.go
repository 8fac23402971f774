package narrator

import "time"

// DefaultTypeSpeed is the interval between revealed characters.
const DefaultTypeSpeed = 30 * time.Millisecond

// Typewriter reveals a message one rune per tick. It owns no timer itself;
// the caller drives Advance from its own tick source, which keeps the reveal
// testable and leaves timer teardown to the event loop.
type Typewriter struct {
	text    []rune
	visible int
}

// SetText swaps in a new message and restarts the reveal from empty. Changing
// the text mid-reveal never leaks characters from the old message.
func (t *Typewriter) SetText(text string) {
	t.text = []rune(text)
	t.visible = 0
}

// Advance reveals one more rune and reports whether any remain hidden.
func (t *Typewriter) Advance() bool {
	if t.visible < len(t.text) {
		t.visible++
	}
	return t.visible < len(t.text)
}

// View returns the currently revealed prefix.
func (t *Typewriter) View() string {
	return string(t.text[:t.visible])
}

// Done reports whether the full message is visible.
func (t *Typewriter) Done() bool {
	return t.visible >= len(t.text)
}
