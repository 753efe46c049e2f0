package troff

import "strings"

// TagStack tracks inline elements opened while decoding one text span.
type TagStack struct {
	tags []string
}

// Push records an opened element.
func (s *TagStack) Push(tag string) {
	s.tags = append(s.tags, tag)
}

// Pop removes the most recently opened element.
// The boolean is false if the stack was empty.
func (s *TagStack) Pop() (string, bool) {
	if len(s.tags) == 0 {
		return "", false
	}
	tag := s.tags[len(s.tags)-1]
	s.tags = s.tags[:len(s.tags)-1]
	return tag, true
}

// Len returns the number of open elements.
func (s *TagStack) Len() int {
	return len(s.tags)
}

// Balanced reports whether every opened element has been closed.
func (s *TagStack) Balanced() bool {
	return len(s.tags) == 0
}

// CloseAll writes closing tags for every open element, innermost first,
// and empties the stack.
func (s *TagStack) CloseAll(b *strings.Builder) {
	for len(s.tags) > 0 {
		tag, _ := s.Pop()
		writeEndTag(b, tag)
	}
}

func writeEndTag(b *strings.Builder, tag string) {
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}
