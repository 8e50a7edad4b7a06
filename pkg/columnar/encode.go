package columnar

// Mode selects how Columns projects the table
type Mode int

const (
	// Native returns the cells as parsed, mixed Number and Text
	Native Mode = iota
	// AsNumeric replaces every text-first column with categorical indices
	AsNumeric
)

func (m Mode) String() string {
	if m == AsNumeric {
		return "numeric"
	}
	return "native"
}

// Columns returns copies of the table's columns projected by mode.
// The table itself is never modified.
func (t *Table) Columns(mode Mode) []Column {
	out := make([]Column, len(t.columns))
	for i, col := range t.columns {
		if mode == AsNumeric && len(col) > 0 && !col[0].IsNumber() {
			out[i] = t.encode(i)
			continue
		}
		out[i] = col.Clone()
	}
	return out
}

// Vocabulary returns the distinct labels of column i in first-seen order.
// Repeated calls on the same table return the same slice contents.
func (t *Table) Vocabulary(i int) []string {
	if i < 0 || i >= len(t.columns) {
		return nil
	}
	vocab, _ := t.dictionary(i)
	out := make([]string, len(vocab))
	copy(out, vocab)
	return out
}

func (t *Table) encode(i int) Column {
	_, codes := t.dictionary(i)
	col := t.columns[i]
	out := make(Column, len(col))
	for y, cell := range col {
		out[y] = Number(float64(codes[cell.Label()]))
	}
	return out
}

// dictionary builds (once per column) the first-seen vocabulary and its
// reverse lookup.
func (t *Table) dictionary(i int) ([]string, map[string]int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.vocab == nil {
		t.vocab = make(map[int][]string)
	}

	vocab, ok := t.vocab[i]
	if !ok {
		seen := make(map[string]struct{})
		for _, cell := range t.columns[i] {
			label := cell.Label()
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			vocab = append(vocab, label)
		}
		t.vocab[i] = vocab
	}

	codes := make(map[string]int, len(vocab))
	for code, label := range vocab {
		codes[label] = code
	}
	return vocab, codes
}
