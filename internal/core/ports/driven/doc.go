// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Typed client for the external AI image service
//   - CatalogStore: Read-only access to the product document store
//   - RunStatusStore: Process-scoped indexing run state
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the depending feature degrades gracefully:
//
//   - EventLog: Analytics event writes and report aggregation. Without it,
//     events are dropped and reports are unavailable.
//   - AssetHost: Public hosting for generated images. Without it, prompt
//     image generation is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
