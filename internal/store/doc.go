// Package store provides the storage abstraction layer for todo.
//
// The package defines the [Store] interface which abstracts all database
// operations, allowing different storage backends to be used interchangeably.
// Currently supported backends are SQLite (default, package sqlite) and
// BoltDB (package bolt).
//
// # Store Interface
//
// The [Store] interface defines methods for:
//   - Todo CRUD operations (ListTodos, CreateTodo, UpdateTodo, DeleteTodo)
//   - Manual ordering (ReorderTodos)
//   - Project metadata (GetProject, UpdateProject)
//
// Use [Open] to obtain a backend by driver name:
//
//	db, err := store.Open(store.DriverSQLite, path)
//	todos, err := db.ListTodos(ctx)
//
// Backends hold no cached copies of the data: every read is a fresh query.
// Behaviour shared by all backends is pinned down by package storetest.
package store
