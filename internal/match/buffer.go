package match

// maxBufferLen bounds the trigger buffer. Triggers longer than this cannot
// match; in exchange the per-keystroke cost stays constant.
const maxBufferLen = 50

// Buffer accumulates recently typed characters for trigger matching.
//
// The zero value is ready to use. Buffer is not safe for concurrent use;
// it belongs exclusively to the matcher's goroutine.
type Buffer struct {
	runes []rune
}

// Append adds a character, truncating to the last maxBufferLen characters.
func (b *Buffer) Append(r rune) {
	b.runes = append(b.runes, r)
	if len(b.runes) > maxBufferLen {
		b.runes = b.runes[len(b.runes)-maxBufferLen:]
	}
}

// Backspace drops the last character. Empty buffers are unchanged.
func (b *Buffer) Backspace() {
	if len(b.runes) > 0 {
		b.runes = b.runes[:len(b.runes)-1]
	}
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.runes = b.runes[:0]
}

// Len returns the number of buffered characters.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// String returns the buffered text.
func (b *Buffer) String() string {
	return string(b.runes)
}

// Runes returns the buffered characters. The returned slice is the buffer's
// backing store; callers must not retain it across mutations.
func (b *Buffer) Runes() []rune {
	return b.runes
}
