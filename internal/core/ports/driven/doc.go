// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentSource: Enumerates supported documents under a root directory
//   - Fingerprinter: Computes content digests for exact-duplicate detection
//   - Extractor: Turns one container format into plain text
//   - ExtractorRegistry: Dispatches a document to the extractor for its type
//   - FileRemover: Deletes a single file
//   - ReportStore: Scan report persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
