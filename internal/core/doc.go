// Package core provides the domain logic of the card browser.
//
// This package turns a generic columnar result set into card-shaped view
// records and derives the filtered, sorted subset a user is looking at. It has
// no UI or transport dependencies and is used unchanged by the web server, the
// CLI and the terminal browser.
//
// # Architecture
//
// The data path has two stages:
//
//   - Result-Set Adapter: [AdaptDataset] resolves expected columns by display
//     name (see [ColumnNames]) and builds one [Card] per input row. Missing
//     columns and malformed values fall back to documented defaults.
//   - View Pipeline: [Dataset.Apply] runs search, metadata filters and the
//     optional sort over a [Dataset] using an explicit [ViewState].
//
// # Snapshots
//
// [Service] owns the current [Snapshot]. Every data-update replaces the
// snapshot wholesale with a new version id; snapshots are never mutated after
// they are published, so readers can hold on to one without locking.
//
//	svc := core.NewService(core.DefaultColumnNames())
//	svc.Update(ctx, rs, core.DefaultSettings())
//	view := svc.View(core.ViewState{Search: "report"})
//
// # Settings
//
// [Settings] mirrors the formatting cards the host exposes (card, reader and
// animation options). [ParseSettings] is lenient: unknown keys are ignored and
// invalid values keep their defaults.
//
// # Error Handling
//
// The adapter and the pipeline never fail. Transport-level failures (bad
// payloads, unknown cards, sources that cannot be read) are mapped to
// user-facing messages with support codes by [MapError].
package core
