package suggest

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// registry holds suggesters sorted by descending priority. Suggesters of
// equal priority keep registration order.
type registry struct {
	suggesters []*Suggester
}

func newRegistry(suggesters ...Suggester) (*registry, error) {
	r := &registry{}
	for _, s := range suggesters {
		if err := r.register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// register adds a suggester. It fails if the name is taken.
func (r *registry) register(s Suggester) error {
	if err := s.validate(); err != nil {
		return err
	}
	if r.find(s.Name) != nil {
		return fmt.Errorf("register %q: %w", s.Name, ErrDuplicateSuggester)
	}

	filled := s.withDefaults()
	r.suggesters = append(r.suggesters, &filled)
	r.sort()
	return nil
}

// replace swaps the suggester with the same name in place, or registers
// it when there is none. It returns the replaced suggester, if any.
func (r *registry) replace(s Suggester) (*Suggester, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	_, idx, found := lo.FindIndexOf(r.suggesters, func(item *Suggester) bool {
		return item.Name == s.Name
	})
	if !found {
		return nil, r.register(s)
	}

	previous := r.suggesters[idx]
	filled := s.withDefaults()
	r.suggesters[idx] = &filled
	r.sort()
	return previous, nil
}

// remove deletes the suggester with the given name and returns it.
func (r *registry) remove(name string) *Suggester {
	s := r.find(name)
	if s == nil {
		return nil
	}
	r.suggesters = lo.Without(r.suggesters, s)
	return s
}

// find returns the suggester with the given name, or nil.
func (r *registry) find(name string) *Suggester {
	s, _ := lo.Find(r.suggesters, func(item *Suggester) bool {
		return item.Name == name
	})
	return s
}

// all returns the suggesters in priority order.
func (r *registry) all() []*Suggester {
	out := make([]*Suggester, len(r.suggesters))
	copy(out, r.suggesters)
	return out
}

func (r *registry) sort() {
	sort.SliceStable(r.suggesters, func(i, j int) bool {
		return r.suggesters[i].Priority > r.suggesters[j].Priority
	})
}
