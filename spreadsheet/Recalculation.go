package spreadsheet

// mutation captures everything SetContents changes so that a rejected edit
// can be undone step by step.
type mutation struct {
	name     string
	previous *cell
	next     *cell
	removed  []string
	added    []string
}

func (s *Spreadsheet) newMutation(name string, contents Contents) *mutation {
	m := &mutation{
		name:  name,
		added: variablesOf(contents),
	}

	if previous, ok := s.cells[name]; ok {
		m.previous = previous
		m.removed = variablesOf(previous.contents)
	}

	if text, ok := contents.(Text); !ok || text != "" {
		m.next = &cell{contents: contents, value: Text("")}
	}

	return m
}

func (s *Spreadsheet) apply(m *mutation) {
	s.unlink(m.removed, m.name)
	s.install(m.name, m.next)
	s.link(m.added, m.name)
}

func (s *Spreadsheet) rollback(m *mutation) {
	s.unlink(m.added, m.name)
	s.install(m.name, m.previous)
	s.link(m.removed, m.name)
}

func (s *Spreadsheet) install(name string, c *cell) {
	if c == nil {
		delete(s.cells, name)
		return
	}
	s.cells[name] = c
}

// Names reaching the graph are already validated, so ErrInvalidKey cannot occur.
func (s *Spreadsheet) link(variables []string, name string) {
	for _, variable := range variables {
		_, _ = s.graph.AddEdge(variable, name)
	}
}

func (s *Spreadsheet) unlink(variables []string, name string) {
	for _, variable := range variables {
		_, _ = s.graph.RemoveEdge(variable, name)
	}
}

const (
	unvisited = iota
	onPath
	finished
)

// cellsToRecalculate walks the dependents of name depth first. A cell is
// appended once all of its dependents are finished, so the reversed list has
// every cell after the cells it depends on. Reaching a cell that is still on
// the active path means the edit closed a cycle through name.
func (s *Spreadsheet) cellsToRecalculate(name string) ([]string, error) {
	state := map[string]int{}
	order := make([]string, 0)

	var visit func(current string) error
	visit = func(current string) error {
		state[current] = onPath

		dependents, _ := s.graph.Dependents(current)
		for _, dependent := range dependents {
			switch state[dependent] {
			case onPath:
				return &CircularDependencyError{Cell: name}
			case unvisited:
				if err := visit(dependent); err != nil {
					return err
				}
			}
		}

		state[current] = finished
		order = append(order, current)
		return nil
	}

	if err := visit(name); err != nil {
		return nil, err
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order, nil
}
