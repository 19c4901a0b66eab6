package emit

// Writer accumulates rendered output and tracks indentation. One Writer
// serves one print call; it is owned by that call and never shared.
type Writer struct {
	buf         []byte
	indentWidth int
	indentLevel int
	atLineStart bool
}

// NewWriter creates a writer with the given indent width (0 means 4).
func NewWriter(indentWidth int) *Writer {
	if indentWidth == 0 {
		indentWidth = 4
	}
	return &Writer{
		buf:         make([]byte, 0, 256),
		indentWidth: indentWidth,
		atLineStart: true,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	spaceCount := w.indentLevel * w.indentWidth
	for range spaceCount {
		w.buf = append(w.buf, ' ')
	}
	w.atLineStart = false
}

// WriteString writes a string, emitting pending indentation first.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
}

// WriteByte writes a single byte, emitting pending indentation first.
func (w *Writer) WriteByte(b byte) error {
	w.writeIndent()
	w.buf = append(w.buf, b)
	return nil
}

// Newline terminates the current line.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// Indent increases the indentation level.
func (w *Writer) Indent() {
	w.indentLevel++
}

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
