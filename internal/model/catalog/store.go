package catalog

// Store exposes the static study content for HTTP handlers.
type Store interface {
	QuickQuestions() []string
	QuickQuestion(index int) (string, bool)
	Comparisons() []ComparisonTable
	ComparisonByID(id string) (ComparisonTable, bool)
	Diagrams() []Diagram
	DiagramByID(id string) (Diagram, bool)
}

// MemoryStore implements Store with in-memory slices, suitable for content
// that ships with the binary.
type MemoryStore struct {
	questions   []string
	comparisons []ComparisonTable
	diagrams    []Diagram
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied content.
func NewMemoryStore(questions []string, comparisons []ComparisonTable, diagrams []Diagram) *MemoryStore {
	return &MemoryStore{
		questions:   append([]string(nil), questions...),
		comparisons: append([]ComparisonTable(nil), comparisons...),
		diagrams:    append([]Diagram(nil), diagrams...),
	}
}

// QuickQuestions returns the canned question list.
func (s *MemoryStore) QuickQuestions() []string {
	return append([]string(nil), s.questions...)
}

// QuickQuestion looks up a canned question by position.
func (s *MemoryStore) QuickQuestion(index int) (string, bool) {
	if index < 0 || index >= len(s.questions) {
		return "", false
	}
	return s.questions[index], true
}

// Comparisons returns the predefined comparison tables.
func (s *MemoryStore) Comparisons() []ComparisonTable {
	return append([]ComparisonTable(nil), s.comparisons...)
}

// ComparisonByID looks up a comparison table by identifier.
func (s *MemoryStore) ComparisonByID(id string) (ComparisonTable, bool) {
	for _, item := range s.comparisons {
		if item.ID == id {
			return item, true
		}
	}
	return ComparisonTable{}, false
}

// Diagrams returns the predefined DOT diagrams.
func (s *MemoryStore) Diagrams() []Diagram {
	return append([]Diagram(nil), s.diagrams...)
}

// DiagramByID looks up a diagram by identifier.
func (s *MemoryStore) DiagramByID(id string) (Diagram, bool) {
	for _, item := range s.diagrams {
		if item.ID == id {
			return item, true
		}
	}
	return Diagram{}, false
}
