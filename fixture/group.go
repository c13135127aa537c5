package fixture

import (
	"fmt"
	"sort"
)

// Group is a named set of fixtures.
type Group struct {
	Fixtures map[string]*Fixture
}

// Create a new Group object with reasonable defaults for real usage.
func NewGroup() *Group {
	return &Group{
		Fixtures: make(map[string]*Fixture),
	}
}

func (fg *Group) GetFixture(id string) (*Fixture, error) {
	if fixture, found := fg.Fixtures[id]; found {
		return fixture, nil
	}
	return nil, fmt.Errorf("the fixture group does not contain a fixture with the id: %s", id)
}

func (fg *Group) AddFixture(id string, fixture *Fixture) {
	fg.Fixtures[id] = fixture
}

func (fg *Group) HasFixture(id string) bool {
	_, ok := fg.Fixtures[id]
	return ok
}

// HasFixtures returns true if there are fixtures in the group
func (fg *Group) HasFixtures() bool {
	return len(fg.Fixtures) > 0
}

// Count returns the number of fixtures in the group
func (fg *Group) Count() int {
	return len(fg.Fixtures)
}

// Names returns the fixture ids in sorted order.
func (fg *Group) Names() []string {
	out := make([]string, 0, len(fg.Fixtures))
	for id := range fg.Fixtures {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Merge returns a new group holding the fixtures of fg and others. Later groups
// win on id collisions.
func (fg *Group) Merge(others ...*Group) *Group {
	out := NewGroup()
	for _, g := range append([]*Group{fg}, others...) {
		for id, f := range g.Fixtures {
			out.AddFixture(id, f)
		}
	}
	return out
}
