package board

import "slices"

// textBuffer is a single-cursor rune buffer backing the prompt field and the
// notes editor.
type textBuffer struct {
	runes     []rune
	cursor    int
	multiline bool
}

func (b *textBuffer) String() string { return string(b.runes) }

// set replaces the contents and moves the cursor to the end.
func (b *textBuffer) set(s string) {
	b.runes = append(b.runes[:0], []rune(s)...)
	b.cursor = len(b.runes)
}

// insert adds s at the cursor. Newlines are dropped unless the buffer is
// multiline; other control characters are always dropped.
func (b *textBuffer) insert(s string) bool {
	var add []rune
	for _, r := range s {
		if r == '\n' && b.multiline {
			add = append(add, r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		add = append(add, r)
	}
	if len(add) == 0 {
		return false
	}
	b.runes = slices.Insert(b.runes, b.cursor, add...)
	b.cursor += len(add)
	return true
}

// key applies an editing key and reports whether the text changed.
func (b *textBuffer) key(k editKey) bool {
	switch k {
	case keyBackspace:
		if b.cursor == 0 {
			return false
		}
		b.runes = slices.Delete(b.runes, b.cursor-1, b.cursor)
		b.cursor--
		return true
	case keyDelete:
		if b.cursor >= len(b.runes) {
			return false
		}
		b.runes = slices.Delete(b.runes, b.cursor, b.cursor+1)
		return true
	case keyLeft:
		b.cursor = max(b.cursor-1, 0)
	case keyRight:
		b.cursor = min(b.cursor+1, len(b.runes))
	case keyHome:
		b.cursor = 0
	case keyEnd:
		b.cursor = len(b.runes)
	case keyNewline:
		return b.insert("\n")
	}
	return false
}

// withCursor returns the text with a caret inserted at the cursor.
func (b *textBuffer) withCursor(caret rune) string {
	out := make([]rune, 0, len(b.runes)+1)
	out = append(out, b.runes[:b.cursor]...)
	out = append(out, caret)
	out = append(out, b.runes[b.cursor:]...)
	return string(out)
}
