// Package migrations registers the schema migrations. Import it for its
// side effects wherever migrations run:
//
//	import _ "github.com/shashiranjanraj/orderdesk/database/migrations"
package migrations
