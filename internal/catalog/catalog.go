// Package catalog holds the static class catalog. The catalog is loaded once
// at process start and shared read-only by every request.
package catalog

// Class describes one entry in the class catalog.
type Class struct {
	Name  string
	Price string
	Time  string
	Blurb string
}

// Catalog is an immutable set of classes offered for the term.
type Catalog struct {
	classes []Class
	byName  map[string]Class
}

// New builds a catalog from the given classes.
func New(classes []Class) *Catalog {
	byName := make(map[string]Class, len(classes))
	for _, c := range classes {
		byName[c.Name] = c
	}
	return &Catalog{classes: classes, byName: byName}
}

// Default returns the catalog of classes offered this term.
func Default() *Catalog {
	return New([]Class{
		{
			Name:  "SAT Tutoring",
			Price: "$40 per session",
			Time:  "Mon/Wed 4-6pm",
			Blurb: "Small-group preparation for the SAT with weekly practice tests.",
		},
		{
			Name:  "Debate",
			Price: "$30 per session",
			Time:  "Tue 5-7pm",
			Blurb: "Public forum debate fundamentals and tournament practice.",
		},
		{
			Name:  "Advanced Math",
			Price: "$35 per session",
			Time:  "Thu 4-6pm",
			Blurb: "Competition math beyond the standard curriculum.",
		},
		{
			Name:  "Writing and Grammar",
			Price: "$30 per session",
			Time:  "Fri 4-6pm",
			Blurb: "Essay structure, grammar drills, and editing workshops.",
		},
	})
}

// Classes returns every catalog entry in declaration order.
func (c *Catalog) Classes() []Class {
	return c.classes
}

// Lookup returns the class with exactly the given name.
func (c *Catalog) Lookup(name string) (Class, bool) {
	class, ok := c.byName[name]
	return class, ok
}
