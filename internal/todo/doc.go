// Package todo holds the task collection and its persistence.
//
// The whole collection is stored as one JSON array under a single key of a
// kv.Store (the store slot, "bloomGrowTasks" by default):
//
//	[
//	  {
//	    "id": 1718000000123,
//	    "text": "Buy milk",
//	    "completed": false,
//	    "createdAt": "2024-06-10T06:13:20.123Z"
//	  }
//	]
//
// Tasks are ordered newest-first. There is no schema version field: a slot
// that does not match the embedded JSON Schema is treated as unreadable and
// the collection starts empty.
//
// # Types
//
//   - List: the in-memory ordered collection (add, delete, toggle, stats)
//   - Store: reads and writes the slot, logging failures instead of returning them
//   - Session: owns a List and a Store and persists after every mutation
//
// # Ids
//
// Ids are millisecond timestamps taken at creation, bumped past the largest
// id already issued so that tasks added within the same millisecond (or after
// the clock steps backwards) still get distinct ids.
package todo
