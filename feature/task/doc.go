// Package task implements the kitchen prep-task feature.
//
// Tasks are identified by server-assigned id and merge like recipes: a known
// id is fully overwritten, an unknown or missing id becomes a new row. Each
// task carries a free-text description, an optional recipe name, a quantity,
// an assignee, and a status.
//
// Status is a closed enum (pending, in-progress, done). Every transition is
// legal, including reopening a done task, and every transition bumps the
// row's updated_at.
//
// # Components
//
//   - Adapter: validation, id matching, and overwrite policy.
//   - Service: single-task merge, listing with status filter, partial
//     updates, status transitions, deletion.
//   - Handler: HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /tasks             : List tasks (limit/offset, optional status filter).
//   - GET    /tasks/:id         : Get one task.
//   - POST   /tasks             : Insert or overwrite a task by id.
//   - PUT    /tasks/:id         : Partial update of one task.
//   - PUT    /tasks/:id/status  : Transition a task's status.
//   - DELETE /tasks/:id         : Remove a task.
package task
