package order

import "strings"

// Member is one class of a conflict group.
type Member struct {
	// Index is the class's position in the list given to Conflicts.
	Index int
	Class string
	Base  string
	Rank  int
}

// ConflictGroup is a set of classes with the same variants that set the
// same CSS properties.
type ConflictGroup struct {
	Key        string
	Properties string
	Members    []Member
	// Winner indexes Members: the class that comes last in the generated
	// stylesheet and so takes effect.
	Winner int
}

// Diagnostic is the message shown on one member of a conflict group.
type Diagnostic struct {
	Index   int
	Class   string
	Message string
	Winner  bool
}

// Conflicts groups classes by variant chain, important flag and property
// set. Only groups with more than one distinct class are returned, in order
// of first appearance. Repeated identical classes are not conflicts. With an
// empty order table nothing is reported.
func (e *Engine) Conflicts(classes []string) []ConflictGroup {
	if e.tables.IsEmpty() {
		return nil
	}

	var order []string
	groups := make(map[string]*ConflictGroup)
	for i, class := range classes {
		c, ok := e.cls.Decompose(class)
		if !ok {
			continue
		}
		props, ok := e.cls.Properties(class)
		if !ok {
			continue
		}

		variantKey := c.VariantKey()
		if c.Important {
			variantKey += "!"
		}
		joined := strings.Join(props, ",")
		id := variantKey + "|" + joined

		g, exists := groups[id]
		if !exists {
			g = &ConflictGroup{Key: variantKey, Properties: joined}
			groups[id] = g
			order = append(order, id)
		}
		if g.has(class) {
			continue
		}
		rank, ok := e.baseRank(c)
		if !ok {
			rank = -1
		}
		g.Members = append(g.Members, Member{Index: i, Class: class, Base: c.Base(), Rank: rank})
	}

	var result []ConflictGroup
	for _, id := range order {
		g := groups[id]
		if len(g.Members) < 2 {
			continue
		}
		g.Winner = winner(g.Members)
		result = append(result, *g)
	}
	return result
}

func (g *ConflictGroup) has(class string) bool {
	for _, m := range g.Members {
		if m.Class == class {
			return true
		}
	}
	return false
}

// winner picks the highest rank, then the lexically last base class, then
// the later occurrence.
func winner(members []Member) int {
	best := 0
	for i := 1; i < len(members); i++ {
		m, b := members[i], members[best]
		switch {
		case m.Rank > b.Rank:
			best = i
		case m.Rank == b.Rank && m.Base >= b.Base:
			best = i
		}
	}
	return best
}

// Diagnostics returns one message per member: "X overrides Y" for the
// winner and "Y is overridden by X" for the others.
func (g ConflictGroup) Diagnostics() []Diagnostic {
	if len(g.Members) < 2 {
		return nil
	}
	win := g.Members[g.Winner]
	losers := make([]string, 0, len(g.Members)-1)
	diags := make([]Diagnostic, 0, len(g.Members))
	for i, m := range g.Members {
		if i == g.Winner {
			continue
		}
		losers = append(losers, m.Class)
		diags = append(diags, Diagnostic{
			Index:   m.Index,
			Class:   m.Class,
			Message: m.Class + " is overridden by " + win.Class,
		})
	}
	diags = append(diags, Diagnostic{
		Index:   win.Index,
		Class:   win.Class,
		Message: win.Class + " overrides " + strings.Join(losers, ", "),
		Winner:  true,
	})
	return diags
}
