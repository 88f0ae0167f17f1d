package service

import "github.com/sandeepkv93/master-items-admin/internal/listing"

// List configurations. Only the columns named here can reach ORDER BY, WHERE
// or LIKE clauses.
var (
	MasterItemsResource = listing.Resource{
		Name:         "master_items",
		SearchFields: []string{"item_code", "item_name", "item_category", "buyer"},
		Filters: []listing.FilterField{
			{Param: "category", Column: "item_category"},
			{Param: "buyer", Column: "buyer"},
		},
		SortFields:  []string{"item_code", "item_name", "item_category", "buyer", "ppn", "pph"},
		DefaultSort: "item_code",
	}

	UsersResource = listing.Resource{
		Name:         "users",
		SearchFields: []string{"name", "email"},
		SortFields:   []string{"id", "name", "email", "created_at"},
		DefaultSort:  "name",
	}

	RolesResource = listing.Resource{
		Name:         "roles",
		SearchFields: []string{"name"},
		SortFields:   []string{"id", "name", "created_at"},
		DefaultSort:  "name",
	}

	PermissionsResource = listing.Resource{
		Name:         "permissions",
		SearchFields: []string{"name"},
		SortFields:   []string{"id", "name", "created_at"},
		DefaultSort:  "name",
	}
)

// Index is one list page together with the normalized request that produced
// it.
type Index[T any] struct {
	Page    listing.Page[T]
	Request listing.ListRequest
}
