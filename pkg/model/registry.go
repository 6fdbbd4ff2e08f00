package model

import "sort"

// ForeignKey names a column whose value must resolve to a row in the parent
// entity before a create or update is allowed to commit.
type ForeignKey struct {
	Column string
	Parent string
}

// Child names a dependent entity removed alongside its parent. Deletes walk
// children depth-first inside one transaction.
type Child struct {
	Entity string
	Column string
}

// Entity is a static field registry entry. The generic query/record layer
// consults these descriptors instead of introspecting models at runtime;
// Fields is the declared column order and Default is the projection used
// when a request does not restrict fields.
type Entity struct {
	Name        string
	Table       string
	Model       any
	Fields      []string
	Default     []string
	ForeignKeys []ForeignKey
	Children    []Child
}

func (e *Entity) HasField(name string) bool {
	for _, f := range e.Fields {
		if f == name {
			return true
		}
	}

	return false
}

var entities = map[string]*Entity{
	"breweries": {
		Name:  "breweries",
		Table: "breweries",
		Model: &Brewery{},
		Fields: []string{
			"id", "name", "address", "city", "state", "zip",
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
			"comments", "brew_type", "website", "x", "y", "created_by",
		},
		ForeignKeys: []ForeignKey{{Column: "created_by", Parent: "users"}},
		Children:    []Child{{Entity: "beers", Column: "brewery_id"}},
	},
	"beers": {
		Name:   "beers",
		Table:  "beers",
		Model:  &Beer{},
		Fields: []string{"id", "brewery_id", "name", "description", "style", "alc", "ibu", "color", "created_by"},
		ForeignKeys: []ForeignKey{
			{Column: "brewery_id", Parent: "breweries"},
			{Column: "created_by", Parent: "users"},
		},
		Children: []Child{{Entity: "beer_photos", Column: "beer_id"}},
	},
	"beer_photos": {
		Name:        "beer_photos",
		Table:       "beer_photos",
		Model:       &BeerPhoto{},
		Fields:      []string{"id", "beer_id", "photo_name", "data"},
		Default:     []string{"id", "beer_id", "photo_name"},
		ForeignKeys: []ForeignKey{{Column: "beer_id", Parent: "beers"}},
	},
	"categories": {
		Name:     "categories",
		Table:    "categories",
		Model:    &Category{},
		Fields:   []string{"id", "cat_name", "last_mod"},
		Children: []Child{{Entity: "styles", Column: "cat_id"}},
	},
	"styles": {
		Name:        "styles",
		Table:       "styles",
		Model:       &Style{},
		Fields:      []string{"id", "cat_id", "style_name", "last_mod"},
		ForeignKeys: []ForeignKey{{Column: "cat_id", Parent: "categories"}},
	},
	"users": {
		Name:    "users",
		Table:   "users",
		Model:   &User{},
		Fields:  []string{"id", "name", "email", "username", "password", "token", "created", "last_login", "expires", "activated"},
		Default: []string{"id", "name", "email", "username", "activated"},
	},
}

// Lookup resolves an entity by its route/table name.
func Lookup(name string) (*Entity, bool) {
	e, ok := entities[name]

	return e, ok
}

// MustLookup is for registry-internal references which are known at compile
// time; a miss is a programming error.
func MustLookup(name string) *Entity {
	e, ok := entities[name]
	if !ok {
		panic("model: unknown entity " + name)
	}

	return e
}

// Projection returns the default field list for responses: Default when the
// entity hides columns (blobs, credentials), otherwise all declared fields.
func (e *Entity) Projection() []string {
	if len(e.Default) > 0 {
		return e.Default
	}

	return e.Fields
}

func Entities() []*Entity {
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}

	sort.Strings(names)

	all := make([]*Entity, 0, len(names))
	for _, name := range names {
		all = append(all, entities[name])
	}

	return all
}
